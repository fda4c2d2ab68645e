package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidateItems(t *testing.T) {
	tests := []struct {
		name    string
		items   []LineItem
		wantErr error
	}{
		{
			name:  "single line",
			items: []LineItem{{TypeID: 1, Count: 2}},
		},
		{
			name:  "multiple lines",
			items: []LineItem{{TypeID: 1, Count: 2}, {TypeID: 2, Count: 1}},
		},
		{
			name:    "empty cart",
			items:   nil,
			wantErr: ErrInvalidLineItems,
		},
		{
			name:    "zero count",
			items:   []LineItem{{TypeID: 1, Count: 0}},
			wantErr: ErrInvalidLineItems,
		},
		{
			name:    "negative count",
			items:   []LineItem{{TypeID: 1, Count: -3}},
			wantErr: ErrInvalidLineItems,
		},
		{
			name:    "missing type id",
			items:   []LineItem{{TypeID: 0, Count: 1}},
			wantErr: ErrInvalidLineItems,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateItems(tt.items)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExpectedTotal(t *testing.T) {
	prices := map[int64]decimal.Decimal{
		1: price("10.00"),
		2: price("15.00"),
	}

	t.Run("recomputes from authoritative prices", func(t *testing.T) {
		// 2 x 10.00 + 1 x 15.00
		total, err := expectedTotal([]LineItem{{TypeID: 1, Count: 2}, {TypeID: 2, Count: 1}}, prices)
		require.NoError(t, err)
		assert.True(t, total.Equal(price("35.00")), "got %s", total)
	})

	t.Run("unknown ticket type", func(t *testing.T) {
		_, err := expectedTotal([]LineItem{{TypeID: 99, Count: 1}}, prices)
		assert.ErrorIs(t, err, ErrTicketTypeNotFound)
	})
}

func TestCheckDeclaredTotal(t *testing.T) {
	expected := price("35.00")

	assert.NoError(t, checkDeclaredTotal(price("35.00"), expected))
	assert.NoError(t, checkDeclaredTotal(price("35"), expected), "trailing zeros must not matter")

	// a cent off in either direction is a mismatch
	assert.ErrorIs(t, checkDeclaredTotal(price("35.01"), expected), ErrPriceMismatch)
	assert.ErrorIs(t, checkDeclaredTotal(price("34.99"), expected), ErrPriceMismatch)
	assert.ErrorIs(t, checkDeclaredTotal(decimal.Zero, expected), ErrPriceMismatch)
}

func TestExpandTypeIDs(t *testing.T) {
	got := expandTypeIDs([]LineItem{{TypeID: 1, Count: 2}, {TypeID: 2, Count: 1}})
	assert.Equal(t, []int64{1, 1, 2}, got)
}

func TestTypeIDs(t *testing.T) {
	got := typeIDs([]LineItem{{TypeID: 2, Count: 1}, {TypeID: 1, Count: 1}, {TypeID: 2, Count: 3}})
	assert.Equal(t, []int64{2, 1}, got)
}
