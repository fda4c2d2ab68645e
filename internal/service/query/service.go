package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cinechain/cinebook/internal/domain"
	"github.com/cinechain/cinebook/internal/repository"
	postgresrepo "github.com/cinechain/cinebook/internal/repository/postgres"
	redisrepo "github.com/cinechain/cinebook/internal/repository/redis"
)

type Config struct {
	ScreeningSummaryTTL time.Duration
	AvailabilityTTL     time.Duration
	SeatMapTTL          time.Duration
	DefaultPage         int
	MaxPage             int
}

// Service serves the public catalog reads. Availability shown here is the
// same ticket-row aggregation checkout books against, just read through a
// short-TTL cache.
type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.ScreeningSummaryTTL <= 0 {
		cfg.ScreeningSummaryTTL = 60 * time.Second
	}

	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 15 * time.Second
	}

	if cfg.SeatMapTTL <= 0 {
		cfg.SeatMapTTL = 15 * time.Second
	}

	if cfg.DefaultPage <= 0 {
		cfg.DefaultPage = 100
	}

	if cfg.MaxPage <= 0 {
		cfg.MaxPage = 500
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// GetScreening retrieves a screening by ID through the cache.
//
// Returns:
//   - *domain.Screening: the screening, or nil if not found.
//   - error: query.ErrScreeningNotFound if the screening is not found.
func (s *Service) GetScreening(ctx context.Context, id int64) (*domain.Screening, error) {
	const op = "service.query.GetScreening"

	key := redisrepo.KeyScreeningSummary(id)

	scr, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.ScreeningSummaryTTL,
		func(ctx context.Context) (domain.Screening, error) {
			sc, err := s.store.Query().GetScreening(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Screening{}, ErrScreeningNotFound
				}

				return domain.Screening{}, err
			}

			return *sc, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &scr, nil
}

// ListScreenings lists upcoming screenings with their seats-left counters.
// Not cached: the listing is paginated and changes with every booking.
func (s *Service) ListScreenings(ctx context.Context, limit, offset int) ([]domain.ScreeningSummary, error) {
	const op = "service.query.ListScreenings"

	if limit <= 0 {
		limit = s.cfg.DefaultPage
	}

	if limit > s.cfg.MaxPage {
		limit = s.cfg.MaxPage
	}

	out, err := s.store.Query().ListScreenings(ctx, time.Now(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// Availability retrieves the seat counters for a screening through the cache.
//
// Returns:
//   - *domain.Availability: the counters, or nil if not found.
//   - error: query.ErrScreeningNotFound if the screening is not found.
func (s *Service) Availability(ctx context.Context, screeningID int64) (*domain.Availability, error) {
	const op = "service.query.Availability"

	key := redisrepo.KeyScreeningAvailability(screeningID)

	av, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.AvailabilityTTL,
		func(ctx context.Context) (domain.Availability, error) {
			a, err := s.store.Query().Availability(ctx, screeningID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Availability{}, ErrScreeningNotFound
				}

				return domain.Availability{}, err
			}

			return *a, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &av, nil
}

// SeatMap retrieves the per-seat booked flags for a screening through the
// cache.
func (s *Service) SeatMap(ctx context.Context, screeningID int64) ([]domain.SeatWithStatus, error) {
	const op = "service.query.SeatMap"

	key := redisrepo.KeyScreeningSeatMap(screeningID)

	seats, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.SeatMapTTL,
		func(ctx context.Context) ([]domain.SeatWithStatus, error) {
			sm, err := s.store.Query().SeatMap(ctx, screeningID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrScreeningNotFound
				}

				return nil, err
			}

			return sm, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return seats, nil
}

// ListTicketTypes lists the priced ticket categories.
func (s *Service) ListTicketTypes(ctx context.Context) ([]domain.TicketType, error) {
	const op = "service.query.ListTicketTypes"

	out, err := s.store.Query().ListTicketTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
