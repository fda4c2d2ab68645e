package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinechain/cinebook/internal/domain"
	"github.com/cinechain/cinebook/internal/repository"
)

type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// AllocateSeats selects n free seats of the screening's room, in ascending
// seat number. A seat is free when it is not soft-deleted and no ticket row
// exists for it under this screening. Seat rows are shared by every screening
// of the room, so they are deliberately not locked here: arbitration happens
// one level up, on the screening row that ScreeningForBooking locks, which
// serializes allocations per screening without making checkouts for other
// screenings of the same room contend. The unique (screening_id, seat_id)
// constraint on tickets is the backstop.
//
// Must run inside a transaction via With(tx), after ScreeningForBooking has
// taken the screening row lock in the same transaction.
//
// Returns:
//   - []int64: the selected seat IDs, len == n.
//   - error: repository.ErrInsufficientSeats if fewer than n seats are free.
func (r *BookingRepo) AllocateSeats(
	ctx context.Context,
	screeningID, roomID int64,
	n int,
) ([]int64, error) {
	const op = "postgres.BookingRepo.AllocateSeats"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT s.id
		 FROM seats s
		 WHERE s.room_id = $1
		   AND s.deleted_at IS NULL
		   AND NOT EXISTS (SELECT 1 FROM tickets t
		                    WHERE t.screening_id = $2 AND t.seat_id = s.id)
		 ORDER BY s.seat_number
		 LIMIT $3`,
		roomID, screeningID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var seatIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		seatIDs = append(seatIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if len(seatIDs) < n {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrInsufficientSeats)
	}

	return seatIDs, nil
}

// InsertTickets inserts one ticket row per allocated seat. All inserts go out
// in one batch so a checkout either lands completely or not at all.
//
// Returns:
//   - error: repository.ErrConflict if a seat or QR code uniqueness
//     constraint fires (a lost race with a concurrent checkout).
func (r *BookingRepo) InsertTickets(ctx context.Context, tickets []domain.Ticket) error {
	const op = "postgres.BookingRepo.InsertTickets"

	db := r.handle()

	batch := &pgx.Batch{}
	for _, t := range tickets {
		batch.Queue(
			`INSERT INTO tickets(id, screening_id, user_id, seat_id, ticket_type_id, qr_code)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			t.ID, t.ScreeningID, t.UserID, t.SeatID, t.TicketTypeID, t.QRCode,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// ScreeningForBooking fetches the screening row inside the booking
// transaction and row-locks it. The lock is the per-screening serialization
// point for checkouts: the second transaction for the same screening waits
// here until the first commits, then reads the free-seat set with the new
// tickets visible. Screenings of other rooms, and other screenings of the
// same room, take different rows and proceed in parallel.
//
// Returns:
//   - *domain.Screening: the screening when found and not soft-deleted.
//   - error: repository.ErrNotFound otherwise.
func (r *BookingRepo) ScreeningForBooking(ctx context.Context, screeningID int64) (*domain.Screening, error) {
	const op = "postgres.BookingRepo.ScreeningForBooking"

	db := r.handle()

	var s domain.Screening
	err := db.QueryRow(ctx,
		`SELECT id, movie_id, cinema_id, room_id, starts_at, ends_at
		 FROM screenings
		 WHERE id = $1 AND deleted_at IS NULL
		 FOR UPDATE`,
		screeningID,
	).Scan(&s.ID, &s.MovieID, &s.CinemaID, &s.RoomID, &s.Starts, &s.Ends)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &s, nil
}
