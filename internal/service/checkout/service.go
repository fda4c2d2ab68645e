package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cinechain/cinebook/internal/domain"
	"github.com/cinechain/cinebook/internal/repository"
	postgresrepo "github.com/cinechain/cinebook/internal/repository/postgres"
	redisrepo "github.com/cinechain/cinebook/internal/repository/redis"
)

type Config struct {
	// WindowDays is the rolling horizon within which non-privileged actors
	// may book, counted from "now".
	WindowDays int
}

// Catalog is the read side the gates need: the screening being booked and
// the authoritative prices. *postgres.QueryRepo satisfies it.
type Catalog interface {
	GetScreening(ctx context.Context, id int64) (*domain.Screening, error)
	TicketTypePrices(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error)
}

// Booker runs the transactional tail of a checkout: seat allocation and
// ticket issuance as one all-or-nothing unit, with one ticket per entry of
// seatTypeIDs.
type Booker interface {
	Book(ctx context.Context, userID, screeningID int64, seatTypeIDs []int64) (*Result, error)
}

// Service drives a checkout through its stages: line-item validation,
// booking-window gate, price-integrity gate, then one storage transaction
// that allocates seats and issues tickets. The only durable side effect of a
// checkout is the set of ticket rows inserted by that transaction; a failure
// at any stage leaves the ticket table untouched.
type Service struct {
	catalog Catalog
	booker  Booker
	limiter *redisrepo.SlidingWindowLimiter
	cfg     Config

	now func() time.Time
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.ScreeningsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 14
	}

	return &Service{
		catalog: store.Query(),
		booker:  newPgBooker(store, cache, pubsub),
		limiter: limiter,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Request is a validated checkout cart: which screening, how many tickets of
// which types, and the total the client believes it is paying. Card data is
// checked structurally at the transport layer and never reaches this far.
type Request struct {
	ScreeningID   int64
	Items         []LineItem
	DeclaredTotal decimal.Decimal
}

type Result struct {
	TicketsBooked int
	SeatIDs       []int64
}

// Complete runs one all-or-nothing booking.
//
// Parameters:
//   - ctx: request-scoped context.
//   - actor: the authenticated caller; the role decides the booking window.
//   - req: the checkout cart.
//   - rlKey: rate-limit bucket key, empty to skip limiting.
//
// Returns:
//   - *Result: booked count and the claimed seat IDs.
//   - error: checkout.ErrInvalidLineItems, ErrScreeningNotFound,
//     ErrOutsideBookingWindow, ErrTicketTypeNotFound, ErrPriceMismatch,
//     ErrInsufficientSeats, or ErrBookingConflict after a lost race was
//     retried once.
func (s *Service) Complete(
	ctx context.Context,
	actor domain.Actor,
	req Request,
	rlKey string,
) (*Result, error) {
	const op = "service.checkout.Complete"

	if err := validateItems(req.Items); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: rate limited, retry in %s", op, retry)
		}
	}

	scr, err := s.catalog.GetScreening(ctx, req.ScreeningID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrScreeningNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if err := checkBookingWindow(actor.Role, scr.Starts, s.now(), s.cfg.WindowDays); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	prices, err := s.catalog.TicketTypePrices(ctx, typeIDs(req.Items))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	expected, err := expectedTotal(req.Items, prices)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if err := checkDeclaredTotal(req.DeclaredTotal, expected); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	// All gates passed; everything from here on is one transaction. A lost
	// race surfaces as ErrConflict (unique violation) or a retryable pg
	// code, and gets exactly one more attempt. An insufficient-seats result
	// is definitive and is never retried.
	seatTypeIDs := expandTypeIDs(req.Items)
	res, err := s.booker.Book(ctx, actor.UserID, req.ScreeningID, seatTypeIDs)
	if err != nil && (errors.Is(err, repository.ErrConflict) || postgresrepo.IsRetryable(err)) {
		res, err = s.booker.Book(ctx, actor.UserID, req.ScreeningID, seatTypeIDs)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientSeats):
			return nil, fmt.Errorf("%s:%w", op, ErrInsufficientSeats)
		case errors.Is(err, repository.ErrConflict):
			return nil, fmt.Errorf("%s:%w", op, ErrBookingConflict)
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%s:%w", op, ErrScreeningNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return res, nil
}
