package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "app")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "cinebook")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
}

func TestNewDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, 14, cfg.Booking.WindowDays)
	assert.Equal(t, 10, cfg.Checkout.RateLimitPerMinute)
	assert.Equal(t, 2*time.Hour, cfg.Checkout.IdempotencyTTL)
}

func TestNewOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOOKING_WINDOW_DAYS", "30")
	t.Setenv("CHECKOUT_RATE_LIMIT_PER_MIN", "25")
	t.Setenv("CHECKOUT_IDEMPOTENCY_TTL", "45m")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Booking.WindowDays)
	assert.Equal(t, 25, cfg.Checkout.RateLimitPerMinute)
	assert.Equal(t, 45*time.Minute, cfg.Checkout.IdempotencyTTL)
}

func TestNewRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "missing jwt secret", key: "AUTH_JWT_SECRET", value: ""},
		{name: "non-positive window", key: "BOOKING_WINDOW_DAYS", value: "0"},
		{name: "non-numeric rate limit", key: "CHECKOUT_RATE_LIMIT_PER_MIN", value: "lots"},
		{name: "zero rate limit", key: "CHECKOUT_RATE_LIMIT_PER_MIN", value: "0"},
		{name: "negative idempotency ttl", key: "CHECKOUT_IDEMPOTENCY_TTL", value: "-1h"},
		{name: "malformed idempotency ttl", key: "CHECKOUT_IDEMPOTENCY_TTL", value: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := New()
			assert.Error(t, err)
		})
	}
}
