package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/cinechain/cinebook/internal/domain"
)

type QueryRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *QueryRepo) With(db DB) *QueryRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *QueryRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// GetScreening retrieves a screening by its ID. Soft-deleted screenings are
// treated as absent.
//
// Returns:
//   - *domain.Screening: the screening when found.
//   - error: repository.ErrNotFound if the screening is not found.
func (r *QueryRepo) GetScreening(ctx context.Context, id int64) (*domain.Screening, error) {
	const op = "postgres.QueryRepo.GetScreening"

	db := r.handle()

	var s domain.Screening
	err := db.QueryRow(ctx,
		`SELECT id, movie_id, cinema_id, room_id, starts_at, ends_at
		 FROM screenings
		 WHERE id = $1 AND deleted_at IS NULL`,
		id,
	).Scan(&s.ID, &s.MovieID, &s.CinemaID, &s.RoomID, &s.Starts, &s.Ends)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &s, nil
}

// ListScreenings lists non-deleted screenings starting at or after `from`,
// each with its availability counters.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - from: lower bound on the screening start time.
//   - limit, offset: pagination parameters.
func (r *QueryRepo) ListScreenings(
	ctx context.Context,
	from time.Time,
	limit, offset int,
) ([]domain.ScreeningSummary, error) {
	const op = "postgres.QueryRepo.ListScreenings"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT sc.id, sc.movie_id, sc.cinema_id, sc.room_id,
		        sc.starts_at, sc.ends_at, m.title,
		        (SELECT COUNT(*) FROM seats s
		          WHERE s.room_id = sc.room_id AND s.deleted_at IS NULL),
		        (SELECT COUNT(*) FROM tickets t
		          WHERE t.screening_id = sc.id)
		 FROM screenings sc
		 JOIN movies m ON m.id = sc.movie_id
		 WHERE sc.deleted_at IS NULL AND sc.starts_at >= $1
		 ORDER BY sc.starts_at, sc.id
		 LIMIT $2 OFFSET $3`,
		from, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.ScreeningSummary
	for rows.Next() {
		var s domain.ScreeningSummary
		if err := rows.Scan(
			&s.ID, &s.MovieID, &s.CinemaID, &s.RoomID,
			&s.Starts, &s.Ends, &s.MovieTitle,
			&s.TotalSeats, &s.BookedSeats,
		); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		s.SeatsLeft = domain.CountAvailability(s.TotalSeats, s.BookedSeats).SeatsLeft
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// Availability computes the seat counters for a screening: total non-deleted
// seats in its room, tickets already issued, and the difference. When called
// through With(tx) the counts come from the same snapshot as the allocation
// that depends on them.
//
// Returns:
//   - *domain.Availability: the counters when the screening exists.
//   - error: repository.ErrNotFound if the screening is not found.
func (r *QueryRepo) Availability(ctx context.Context, screeningID int64) (*domain.Availability, error) {
	const op = "postgres.QueryRepo.Availability"

	db := r.handle()

	var total, booked int64
	err := db.QueryRow(ctx,
		`SELECT
		    (SELECT COUNT(*) FROM seats s
		      WHERE s.room_id = sc.room_id AND s.deleted_at IS NULL),
		    (SELECT COUNT(*) FROM tickets t
		      WHERE t.screening_id = sc.id)
		 FROM screenings sc
		 WHERE sc.id = $1 AND sc.deleted_at IS NULL`,
		screeningID,
	).Scan(&total, &booked)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	a := domain.CountAvailability(total, booked)

	return &a, nil
}

// SeatMap lists the seats of the screening's room with their booked flag,
// ordered by seat number.
//
// Returns:
//   - []domain.SeatWithStatus: the seat map.
//   - error: repository.ErrNotFound if the screening is not found.
func (r *QueryRepo) SeatMap(ctx context.Context, screeningID int64) ([]domain.SeatWithStatus, error) {
	const op = "postgres.QueryRepo.SeatMap"

	db := r.handle()

	var roomID int64
	err := db.QueryRow(ctx,
		`SELECT room_id FROM screenings WHERE id = $1 AND deleted_at IS NULL`,
		screeningID,
	).Scan(&roomID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	rows, err := db.Query(ctx,
		`SELECT s.id, s.room_id, s.seat_number,
		        EXISTS (SELECT 1 FROM tickets t
		                 WHERE t.screening_id = $2 AND t.seat_id = s.id)
		 FROM seats s
		 WHERE s.room_id = $1 AND s.deleted_at IS NULL
		 ORDER BY s.seat_number`,
		roomID, screeningID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.SeatWithStatus
	for rows.Next() {
		var sws domain.SeatWithStatus
		if err := rows.Scan(&sws.ID, &sws.RoomID, &sws.Number, &sws.Booked); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		out = append(out, sws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// ListTicketTypes lists all ticket types with their authoritative prices.
func (r *QueryRepo) ListTicketTypes(ctx context.Context) ([]domain.TicketType, error) {
	const op = "postgres.QueryRepo.ListTicketTypes"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, price FROM ticket_types ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.TicketType
	for rows.Next() {
		var tt domain.TicketType
		if err := rows.Scan(&tt.ID, &tt.Name, &tt.Price); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		out = append(out, tt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// TicketTypePrices fetches the authoritative unit prices for the given type
// IDs. Missing IDs are simply absent from the result map; the caller decides
// whether that is an error.
func (r *QueryRepo) TicketTypePrices(
	ctx context.Context,
	ids []int64,
) (map[int64]decimal.Decimal, error) {
	const op = "postgres.QueryRepo.TicketTypePrices"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, price FROM ticket_types WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	out := make(map[int64]decimal.Decimal, len(ids))
	for rows.Next() {
		var id int64
		var price decimal.Decimal
		if err := rows.Scan(&id, &price); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		out[id] = price
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
