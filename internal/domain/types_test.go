package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePrivileged(t *testing.T) {
	assert.False(t, RoleUser.Privileged())
	assert.True(t, RoleEmployee.Privileged())
	assert.True(t, RoleAdmin.Privileged())
	assert.False(t, Role("superuser").Privileged())
}

func TestCountAvailability(t *testing.T) {
	tests := []struct {
		name          string
		total, booked int64
		wantLeft      int64
	}{
		{name: "empty room", total: 0, booked: 0, wantLeft: 0},
		{name: "untouched", total: 5, booked: 0, wantLeft: 5},
		{name: "partially booked", total: 5, booked: 3, wantLeft: 2},
		{name: "sold out", total: 5, booked: 5, wantLeft: 0},
		{name: "seats removed under issued tickets", total: 4, booked: 5, wantLeft: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			av := CountAvailability(tt.total, tt.booked)

			assert.Equal(t, tt.total, av.TotalSeats)
			assert.Equal(t, tt.booked, av.BookedSeats)
			assert.Equal(t, tt.wantLeft, av.SeatsLeft)
			assert.GreaterOrEqual(t, av.SeatsLeft, int64(0))
			if tt.booked <= tt.total {
				assert.Equal(t, av.TotalSeats, av.BookedSeats+av.SeatsLeft)
			}
		})
	}
}
