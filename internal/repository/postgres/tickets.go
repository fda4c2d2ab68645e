package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinechain/cinebook/internal/domain"
)

type TicketRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *TicketRepo) With(db DB) *TicketRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *TicketRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// GetTicket retrieves a ticket with its screening context.
//
// Returns:
//   - *domain.TicketDetail: the ticket when found.
//   - error: repository.ErrNotFound if the ticket is not found.
func (r *TicketRepo) GetTicket(ctx context.Context, id uuid.UUID) (*domain.TicketDetail, error) {
	const op = "postgres.TicketRepo.GetTicket"

	db := r.handle()

	var t domain.TicketDetail
	err := db.QueryRow(ctx,
		`SELECT t.id, t.screening_id, t.user_id, t.seat_id, t.ticket_type_id,
		        t.qr_code, t.created_at,
		        m.title, c.name, r.name, s.seat_number, sc.starts_at
		 FROM tickets t
		 JOIN screenings sc ON sc.id = t.screening_id
		 JOIN movies m ON m.id = sc.movie_id
		 JOIN cinemas c ON c.id = sc.cinema_id
		 JOIN rooms r ON r.id = sc.room_id
		 JOIN seats s ON s.id = t.seat_id
		 WHERE t.id = $1`,
		id,
	).Scan(
		&t.ID, &t.ScreeningID, &t.UserID, &t.SeatID, &t.TicketTypeID,
		&t.QRCode, &t.CreatedAt,
		&t.MovieTitle, &t.CinemaName, &t.RoomName, &t.SeatNumber, &t.Starts,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &t, nil
}

// ListByUser lists a user's tickets, newest screening first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID int64) ([]domain.TicketDetail, error) {
	const op = "postgres.TicketRepo.ListByUser"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT t.id, t.screening_id, t.user_id, t.seat_id, t.ticket_type_id,
		        t.qr_code, t.created_at,
		        m.title, c.name, r.name, s.seat_number, sc.starts_at
		 FROM tickets t
		 JOIN screenings sc ON sc.id = t.screening_id
		 JOIN movies m ON m.id = sc.movie_id
		 JOIN cinemas c ON c.id = sc.cinema_id
		 JOIN rooms r ON r.id = sc.room_id
		 JOIN seats s ON s.id = t.seat_id
		 WHERE t.user_id = $1
		 ORDER BY sc.starts_at DESC, s.seat_number`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.TicketDetail
	for rows.Next() {
		var t domain.TicketDetail
		if err := rows.Scan(
			&t.ID, &t.ScreeningID, &t.UserID, &t.SeatID, &t.TicketTypeID,
			&t.QRCode, &t.CreatedAt,
			&t.MovieTitle, &t.CinemaName, &t.RoomName, &t.SeatNumber, &t.Starts,
		); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
