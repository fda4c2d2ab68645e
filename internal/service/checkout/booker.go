package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cinechain/cinebook/internal/domain"
	postgresrepo "github.com/cinechain/cinebook/internal/repository/postgres"
	redisrepo "github.com/cinechain/cinebook/internal/repository/redis"
	"github.com/cinechain/cinebook/internal/uow"
)

// pgBooker is the storage-backed Booker: one pgx transaction that locks the
// screening row, selects free seats, and inserts one coded ticket per seat.
type pgBooker struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisrepo.ScreeningsPubSub
	uow    *uow.UoW
}

func newPgBooker(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.ScreeningsPubSub,
) *pgBooker {
	return &pgBooker{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
	}
}

// Book re-reads the screening with a row lock, allocates seats and issues
// tickets, all in one transaction. The screening row lock serializes
// concurrent bookings for the same screening; bookings for other screenings,
// including ones sharing the room, do not contend. ReadCommitted is
// deliberate: after the lock wait, the free-seat read runs against a fresh
// snapshot that includes the winner's tickets, and Serializable would only
// add spurious aborts.
func (b *pgBooker) Book(
	ctx context.Context,
	userID, screeningID int64,
	seatTypeIDs []int64,
) (*Result, error) {
	total := len(seatTypeIDs)

	var result *Result

	opts := &pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite}
	err := b.uow.DoWithOpts(ctx, opts, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		booking := b.store.Booking().With(tx)

		scr, err := booking.ScreeningForBooking(ctx, screeningID)
		if err != nil {
			return err
		}

		seatIDs, err := booking.AllocateSeats(ctx, scr.ID, scr.RoomID, total)
		if err != nil {
			return err
		}

		tickets := make([]domain.Ticket, 0, total)
		for i, seatID := range seatIDs {
			code, err := newTicketCode()
			if err != nil {
				return err
			}

			tickets = append(tickets, domain.Ticket{
				ID:           uuid.New(),
				ScreeningID:  scr.ID,
				UserID:       userID,
				SeatID:       seatID,
				TicketTypeID: seatTypeIDs[i],
				QRCode:       code,
			})
		}

		if err := booking.InsertTickets(ctx, tickets); err != nil {
			return err
		}

		after(func(ctx context.Context) {
			_ = b.cache.InvalidateScreening(ctx, scr.ID)
			_ = b.pubsub.PublishScreeningChanged(ctx, scr.ID)
		})

		result = &Result{TicketsBooked: total, SeatIDs: seatIDs}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
