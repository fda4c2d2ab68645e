package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/cinechain/cinebook/internal/repository"
)

type AdminRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *AdminRepo) With(db DB) *AdminRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *AdminRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *AdminRepo) CreateMovie(ctx context.Context, title string) (int64, error) {
	const op = "postgres.AdminRepo.CreateMovie"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO movies(title) VALUES ($1) RETURNING id`,
		title,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return id, nil
}

func (r *AdminRepo) CreateCinema(ctx context.Context, name, city string) (int64, error) {
	const op = "postgres.AdminRepo.CreateCinema"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO cinemas(name, city) VALUES ($1, $2) RETURNING id`,
		name, city,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return id, nil
}

func (r *AdminRepo) CreateRoom(
	ctx context.Context,
	cinemaID int64,
	name string,
	capacity int,
) (int64, error) {
	const op = "postgres.AdminRepo.CreateRoom"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO rooms(cinema_id, name, capacity)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		cinemaID, name, capacity,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return id, nil
}

// BatchCreateSeats inserts the numbered seats of a room. Re-running with the
// same numbers is a no-op per seat.
func (r *AdminRepo) BatchCreateSeats(ctx context.Context, roomID int64, numbers []int) error {
	const op = "postgres.AdminRepo.BatchCreateSeats"

	db := r.handle()

	batch := &pgx.Batch{}
	for _, n := range numbers {
		batch.Queue(
			`INSERT INTO seats(room_id, seat_number)
			 VALUES ($1, $2)
			 ON CONFLICT (room_id, seat_number) DO NOTHING`,
			roomID, n,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// SyncRoomCapacity recomputes a room's declared capacity from its live seat
// rows. Must run in the same transaction as the seat writes it follows, so
// capacity and seat count can never be observed diverged.
//
// Returns:
//   - error: repository.ErrNotFound if the room is absent or soft-deleted.
func (r *AdminRepo) SyncRoomCapacity(ctx context.Context, roomID int64) error {
	const op = "postgres.AdminRepo.SyncRoomCapacity"

	db := r.handle()

	ct, err := db.Exec(ctx,
		`UPDATE rooms
		 SET capacity = (SELECT COUNT(*) FROM seats s
		                  WHERE s.room_id = rooms.id AND s.deleted_at IS NULL)
		 WHERE id = $1 AND deleted_at IS NULL`,
		roomID,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

func (r *AdminRepo) CreateTicketType(
	ctx context.Context,
	name string,
	price decimal.Decimal,
) (int64, error) {
	const op = "postgres.AdminRepo.CreateTicketType"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO ticket_types(name, price) VALUES ($1, $2) RETURNING id`,
		name, price,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return id, nil
}

// CreateScreenings fans a showing out across rooms: one screening row per
// room, all for the same movie, cinema and time slot.
//
// Returns:
//   - []int64: the created screening IDs, in roomIDs order.
//   - error: repository.ErrNotFound if the movie, cinema or a room does
//     not exist.
func (r *AdminRepo) CreateScreenings(
	ctx context.Context,
	movieID, cinemaID int64,
	roomIDs []int64,
	starts, ends time.Time,
) ([]int64, error) {
	const op = "postgres.AdminRepo.CreateScreenings"

	db := r.handle()

	ids := make([]int64, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		var id int64
		if err := db.QueryRow(ctx,
			`INSERT INTO screenings(movie_id, cinema_id, room_id, starts_at, ends_at)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			movieID, cinemaID, roomID, starts, ends,
		).Scan(&id); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// SoftDeleteScreening marks a screening deleted. Ticket rows are kept;
// screenings are never hard-deleted.
//
// Returns:
//   - error: repository.ErrNotFound if the screening is absent or already
//     deleted.
func (r *AdminRepo) SoftDeleteScreening(ctx context.Context, id int64) error {
	const op = "postgres.AdminRepo.SoftDeleteScreening"

	db := r.handle()

	ct, err := db.Exec(ctx,
		`UPDATE screenings SET deleted_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}
