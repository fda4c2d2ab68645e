package httpgin

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/cinechain/cinebook/internal/service/admin"
	"github.com/cinechain/cinebook/internal/service/checkout"
	"github.com/cinechain/cinebook/internal/service/query"
	"github.com/cinechain/cinebook/internal/service/tickets"
)

func TestRespondErr(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid line items", err: checkout.ErrInvalidLineItems, want: 400},
		{name: "price mismatch", err: checkout.ErrPriceMismatch, want: 400},
		{name: "insufficient seats", err: checkout.ErrInsufficientSeats, want: 400},
		{name: "outside booking window", err: checkout.ErrOutsideBookingWindow, want: 403},
		{name: "screening not found (checkout)", err: checkout.ErrScreeningNotFound, want: 404},
		{name: "ticket type not found", err: checkout.ErrTicketTypeNotFound, want: 404},
		{name: "booking conflict", err: checkout.ErrBookingConflict, want: 409},
		{name: "screening not found (query)", err: query.ErrScreeningNotFound, want: 404},
		{name: "ticket not found", err: tickets.ErrTicketNotFound, want: 404},
		{name: "not owner", err: tickets.ErrNotOwner, want: 403},
		{name: "admin conflict", err: admin.ErrConflict, want: 409},
		{name: "admin not found", err: admin.ErrNotFound, want: 404},
		{name: "no rooms", err: admin.ErrNoRooms, want: 400},
		{name: "invalid time range", err: admin.ErrInvalidTimeRange, want: 400},
		{name: "unknown error", err: errors.New("boom"), want: 500},
		{
			name: "wrapped sentinel keeps its status",
			err:  fmt.Errorf("checkout.Complete:%w", checkout.ErrPriceMismatch),
			want: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondErr(c, tt.err)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRespondErrHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondErr(c, errors.New("pq: connection refused to 10.0.0.3"))

	assert.Equal(t, 500, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
	assert.Contains(t, w.Body.String(), "internal error")
}

func TestIsRateLimitedErr(t *testing.T) {
	assert.True(t, isRateLimitedErr(errors.New("checkout.Complete:rate limited")))
	assert.False(t, isRateLimitedErr(errors.New("boom")))
	assert.False(t, isRateLimitedErr(nil))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 100, parseIntDefault("", 100))
	assert.Equal(t, 25, parseIntDefault("25", 100))
	assert.Equal(t, 100, parseIntDefault("abc", 100))
}
