package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cinechain/cinebook/internal/domain"
)

func TestCheckBookingWindow(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	const windowDays = 14

	tests := []struct {
		name    string
		role    domain.Role
		starts  time.Time
		wantErr error
	}{
		{
			name:   "customer books tomorrow",
			role:   domain.RoleUser,
			starts: now.AddDate(0, 0, 1),
		},
		{
			name:   "customer books tonight",
			role:   domain.RoleUser,
			starts: now.Add(6 * time.Hour),
		},
		{
			name:   "customer books exactly at the window edge",
			role:   domain.RoleUser,
			starts: now.AddDate(0, 0, 14),
		},
		{
			name:    "customer books 15 days out",
			role:    domain.RoleUser,
			starts:  now.AddDate(0, 0, 15),
			wantErr: ErrOutsideBookingWindow,
		},
		{
			name:    "customer books a screening that already started",
			role:    domain.RoleUser,
			starts:  now.Add(-time.Minute),
			wantErr: ErrOutsideBookingWindow,
		},
		{
			name:    "customer books a screening starting right now",
			role:    domain.RoleUser,
			starts:  now,
			wantErr: ErrOutsideBookingWindow,
		},
		{
			name:   "employee books 15 days out",
			role:   domain.RoleEmployee,
			starts: now.AddDate(0, 0, 15),
		},
		{
			name:   "admin books months ahead",
			role:   domain.RoleAdmin,
			starts: now.AddDate(0, 3, 0),
		},
		{
			name:   "employee sells into a running screening",
			role:   domain.RoleEmployee,
			starts: now.Add(-20 * time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkBookingWindow(tt.role, tt.starts, now, windowDays)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
