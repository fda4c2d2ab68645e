package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinechain/cinebook/internal/domain"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		role   domain.Role
	}{
		{name: "customer", userID: 42, role: domain.RoleUser},
		{name: "employee", userID: 7, role: domain.RoleEmployee},
		{name: "admin", userID: 1, role: domain.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := NewAccessToken(testSecret, tt.userID, tt.role, time.Hour)
			require.NoError(t, err)

			actor, err := ParseAccessToken(testSecret, raw)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, actor.UserID)
			assert.Equal(t, tt.role, actor.Role)
		})
	}
}

func TestParseAccessTokenRejects(t *testing.T) {
	valid, err := NewAccessToken(testSecret, 42, domain.RoleUser, time.Hour)
	require.NoError(t, err)

	expired, err := NewAccessToken(testSecret, 42, domain.RoleUser, -time.Minute)
	require.NoError(t, err)

	unknownRole, err := NewAccessToken(testSecret, 42, domain.Role("superuser"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		raw    string
	}{
		{name: "wrong secret", secret: "other-secret", raw: valid},
		{name: "expired", secret: testSecret, raw: expired},
		{name: "unknown role", secret: testSecret, raw: unknownRole},
		{name: "garbage", secret: testSecret, raw: "not.a.token"},
		{name: "empty", secret: testSecret, raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccessToken(tt.secret, tt.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
