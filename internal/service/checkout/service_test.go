package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinechain/cinebook/internal/domain"
	"github.com/cinechain/cinebook/internal/repository"
)

type fakeCatalog struct {
	screening    *domain.Screening
	screeningErr error
	prices       map[int64]decimal.Decimal
	pricesErr    error

	calls []string
}

func (f *fakeCatalog) GetScreening(ctx context.Context, id int64) (*domain.Screening, error) {
	f.calls = append(f.calls, "screening")
	if f.screeningErr != nil {
		return nil, f.screeningErr
	}
	return f.screening, nil
}

func (f *fakeCatalog) TicketTypePrices(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error) {
	f.calls = append(f.calls, "prices")
	return f.prices, f.pricesErr
}

type fakeBooker struct {
	errs []error // popped one per call; nil entry means success

	calls      int
	gotUserID  int64
	gotTypeIDs [][]int64
}

func (f *fakeBooker) Book(ctx context.Context, userID, screeningID int64, seatTypeIDs []int64) (*Result, error) {
	f.calls++
	f.gotUserID = userID
	f.gotTypeIDs = append(f.gotTypeIDs, seatTypeIDs)

	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}

	seatIDs := make([]int64, len(seatTypeIDs))
	for i := range seatIDs {
		seatIDs[i] = int64(100 + i)
	}
	return &Result{TicketsBooked: len(seatTypeIDs), SeatIDs: seatIDs}, nil
}

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(cat Catalog, b Booker) *Service {
	return &Service{
		catalog: cat,
		booker:  b,
		cfg:     Config{WindowDays: 14},
		now:     func() time.Time { return testNow },
	}
}

func testScreening(starts time.Time) *domain.Screening {
	return &domain.Screening{
		ID:      1,
		MovieID: 1,
		RoomID:  1,
		Starts:  starts,
		Ends:    starts.Add(2 * time.Hour),
	}
}

func testPrices() map[int64]decimal.Decimal {
	return map[int64]decimal.Decimal{
		1: decimal.RequireFromString("10.00"),
		2: decimal.RequireFromString("15.00"),
	}
}

func testRequest(declared string) Request {
	return Request{
		ScreeningID:   1,
		Items:         []LineItem{{TypeID: 1, Count: 2}, {TypeID: 2, Count: 1}},
		DeclaredTotal: decimal.RequireFromString(declared),
	}
}

func TestCompleteBooksThroughAllGates(t *testing.T) {
	cat := &fakeCatalog{screening: testScreening(testNow.Add(24 * time.Hour)), prices: testPrices()}
	booker := &fakeBooker{}
	svc := newTestService(cat, booker)

	res, err := svc.Complete(context.Background(), domain.Actor{UserID: 42, Role: domain.RoleUser}, testRequest("35.00"), "")
	require.NoError(t, err)

	assert.Equal(t, 3, res.TicketsBooked)
	assert.Len(t, res.SeatIDs, 3)
	assert.Equal(t, 1, booker.calls)
	assert.Equal(t, int64(42), booker.gotUserID)
	// one ticket per seat, in line-item order
	assert.Equal(t, [][]int64{{1, 1, 2}}, booker.gotTypeIDs)
}

func TestCompleteGateOrdering(t *testing.T) {
	t.Run("invalid items stop before any read", func(t *testing.T) {
		cat := &fakeCatalog{}
		booker := &fakeBooker{}
		svc := newTestService(cat, booker)

		_, err := svc.Complete(context.Background(), domain.Actor{UserID: 42, Role: domain.RoleUser},
			Request{ScreeningID: 1}, "")

		assert.ErrorIs(t, err, ErrInvalidLineItems)
		assert.Empty(t, cat.calls)
		assert.Zero(t, booker.calls)
	})

	t.Run("window check runs before prices are fetched", func(t *testing.T) {
		cat := &fakeCatalog{screening: testScreening(testNow.AddDate(0, 0, 20)), prices: testPrices()}
		booker := &fakeBooker{}
		svc := newTestService(cat, booker)

		_, err := svc.Complete(context.Background(), domain.Actor{UserID: 42, Role: domain.RoleUser}, testRequest("35.00"), "")

		assert.ErrorIs(t, err, ErrOutsideBookingWindow)
		assert.Equal(t, []string{"screening"}, cat.calls)
		assert.Zero(t, booker.calls)
	})

	t.Run("price mismatch stops before the transaction", func(t *testing.T) {
		cat := &fakeCatalog{screening: testScreening(testNow.Add(24 * time.Hour)), prices: testPrices()}
		booker := &fakeBooker{}
		svc := newTestService(cat, booker)

		_, err := svc.Complete(context.Background(), domain.Actor{UserID: 42, Role: domain.RoleUser}, testRequest("34.99"), "")

		assert.ErrorIs(t, err, ErrPriceMismatch)
		assert.Zero(t, booker.calls)
	})

	t.Run("unknown ticket type stops before the transaction", func(t *testing.T) {
		cat := &fakeCatalog{
			screening: testScreening(testNow.Add(24 * time.Hour)),
			prices:    map[int64]decimal.Decimal{1: decimal.RequireFromString("10.00")},
		}
		booker := &fakeBooker{}
		svc := newTestService(cat, booker)

		_, err := svc.Complete(context.Background(), domain.Actor{UserID: 42, Role: domain.RoleUser}, testRequest("35.00"), "")

		assert.ErrorIs(t, err, ErrTicketTypeNotFound)
		assert.Zero(t, booker.calls)
	})
}

func TestCompleteScreeningNotFound(t *testing.T) {
	cat := &fakeCatalog{screeningErr: repository.ErrNotFound}
	booker := &fakeBooker{}
	svc := newTestService(cat, booker)

	_, err := svc.Complete(context.Background(), domain.Actor{UserID: 42, Role: domain.RoleUser}, testRequest("35.00"), "")

	assert.ErrorIs(t, err, ErrScreeningNotFound)
	assert.Zero(t, booker.calls)
}

func TestCompleteBookingOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		bookErrs  []error
		wantErr   error
		wantCalls int
	}{
		{
			name:      "insufficient seats is definitive, never retried",
			bookErrs:  []error{repository.ErrInsufficientSeats},
			wantErr:   ErrInsufficientSeats,
			wantCalls: 1,
		},
		{
			name:      "lost race recovers on the retry",
			bookErrs:  []error{repository.ErrConflict, nil},
			wantCalls: 2,
		},
		{
			name:      "lost race twice surfaces as a conflict",
			bookErrs:  []error{repository.ErrConflict, repository.ErrConflict},
			wantErr:   ErrBookingConflict,
			wantCalls: 2,
		},
		{
			name:      "screening vanished inside the transaction",
			bookErrs:  []error{repository.ErrNotFound},
			wantErr:   ErrScreeningNotFound,
			wantCalls: 1,
		},
		{
			name:      "unknown storage error passes through once",
			bookErrs:  []error{errors.New("connection reset")},
			wantErr:   nil,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := &fakeCatalog{screening: testScreening(testNow.Add(24 * time.Hour)), prices: testPrices()}
			booker := &fakeBooker{errs: tt.bookErrs}
			svc := newTestService(cat, booker)

			res, err := svc.Complete(context.Background(), domain.Actor{UserID: 42, Role: domain.RoleUser}, testRequest("35.00"), "")

			assert.Equal(t, tt.wantCalls, booker.calls)

			lastFails := len(tt.bookErrs) > 0 && tt.bookErrs[len(tt.bookErrs)-1] != nil
			if !lastFails {
				require.NoError(t, err)
				assert.Equal(t, 3, res.TicketsBooked)
				return
			}

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
