package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cinechain/cinebook/internal/repository"
	postgresrepo "github.com/cinechain/cinebook/internal/repository/postgres"
	redisrepo "github.com/cinechain/cinebook/internal/repository/redis"
	"github.com/cinechain/cinebook/internal/uow"
)

// Service covers the staff-facing writes: catalog records, rooms with their
// seat sets, ticket types, and the screening fan-out.
type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisrepo.ScreeningsPubSub
	uow    *uow.UoW
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, pubsub *redisrepo.ScreeningsPubSub) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
	}
}

func (s *Service) CreateMovie(ctx context.Context, title string) (int64, error) {
	const op = "service.admin.CreateMovie"

	id, err := s.store.Admin().CreateMovie(ctx, title)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, fmt.Errorf("%s: %w", op, ErrConflict)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Service) CreateCinema(ctx context.Context, name, city string) (int64, error) {
	const op = "service.admin.CreateCinema"

	id, err := s.store.Admin().CreateCinema(ctx, name, city)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, fmt.Errorf("%s: %w", op, ErrConflict)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// CreateRoom creates a room and its numbered seats 1..capacity in one
// transaction, so the declared capacity and the seat set can never diverge
// at creation time.
//
// Returns:
//   - int64: the created room ID.
//   - error: admin.ErrNotFound if the cinema does not exist.
func (s *Service) CreateRoom(
	ctx context.Context,
	cinemaID int64,
	name string,
	capacity int,
) (int64, error) {
	const op = "service.admin.CreateRoom"

	if capacity <= 0 {
		return 0, fmt.Errorf("%s: %w", op, ErrNonPositiveSeating)
	}

	var roomID int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		roomID, err = s.store.Admin().With(tx).CreateRoom(ctx, cinemaID, name, capacity)
		if err != nil {
			return translate(op, err)
		}

		numbers := make([]int, capacity)
		for i := range numbers {
			numbers[i] = i + 1
		}

		if err := s.store.Admin().With(tx).BatchCreateSeats(ctx, roomID, numbers); err != nil {
			return translate(op, err)
		}

		return nil
	})

	return roomID, err
}

// AddSeats appends extra numbered seats to an existing room and re-syncs the
// room's declared capacity from the resulting seat set, in one transaction.
// Capacity always equals the number of live seats.
func (s *Service) AddSeats(ctx context.Context, roomID int64, numbers []int) error {
	const op = "service.admin.AddSeats"

	if len(numbers) == 0 {
		return fmt.Errorf("%s: %w", op, ErrNonPositiveSeating)
	}
	for _, n := range numbers {
		if n <= 0 {
			return fmt.Errorf("%s: %w", op, ErrNonPositiveSeating)
		}
	}

	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		repo := s.store.Admin().With(tx)

		if err := repo.BatchCreateSeats(ctx, roomID, numbers); err != nil {
			return translate(op, err)
		}

		if err := repo.SyncRoomCapacity(ctx, roomID); err != nil {
			return translate(op, err)
		}

		return nil
	})
}

func (s *Service) CreateTicketType(ctx context.Context, name string, price decimal.Decimal) (int64, error) {
	const op = "service.admin.CreateTicketType"

	if !price.IsPositive() {
		return 0, fmt.Errorf("%s: %w", op, ErrNonPositivePrice)
	}

	id, err := s.store.Admin().CreateTicketType(ctx, name, price)
	if err != nil {
		return 0, translate(op, err)
	}

	return id, nil
}

// CreateScreenings fans one showing out across the given rooms, creating one
// screening per room in a single transaction.
//
// Returns:
//   - []int64: the created screening IDs, in rooms order.
//   - error: admin.ErrNoRooms, admin.ErrInvalidTimeRange, or admin.ErrNotFound
//     if the movie, cinema or a room is absent.
func (s *Service) CreateScreenings(
	ctx context.Context,
	movieID, cinemaID int64,
	roomIDs []int64,
	starts, ends time.Time,
) ([]int64, error) {
	const op = "service.admin.CreateScreenings"

	if len(roomIDs) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoRooms)
	}

	if !ends.After(starts) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTimeRange)
	}

	var ids []int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		ids, err = s.store.Admin().
			With(tx).
			CreateScreenings(ctx, movieID, cinemaID, roomIDs, starts, ends)
		if err != nil {
			return translate(op, err)
		}

		after(func(ctx context.Context) {
			for _, id := range ids {
				_ = s.pubsub.PublishScreeningChanged(ctx, id)
			}
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// DeleteScreening soft-deletes a screening. Already-issued tickets stay.
func (s *Service) DeleteScreening(ctx context.Context, id int64) error {
	const op = "service.admin.DeleteScreening"

	if err := s.store.Admin().SoftDeleteScreening(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrScreeningNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	_ = s.cache.InvalidateScreening(ctx, id)
	_ = s.pubsub.PublishScreeningChanged(ctx, id)

	return nil
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return fmt.Errorf("%s: %w", op, err)
}
