package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Booking  BookingConfig
	Checkout CheckoutConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

type AuthConfig struct {
	JWTSecret string
}

type BookingConfig struct {
	// WindowDays caps how far ahead non-privileged actors may book.
	WindowDays int
}

type CheckoutConfig struct {
	// RateLimitPerMinute caps checkout attempts per client bucket.
	RateLimitPerMinute int
	// IdempotencyTTL is how long a finished checkout's response is replayed
	// for a repeated Idempotency-Key.
	IdempotencyTTL time.Duration
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080"
	}

	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host: serverHost,
		Port: serverPort,
	}

	postgresHost := os.Getenv("POSTGRES_HOST")
	if postgresHost == "" {
		postgresHost = "localhost"
	}

	postgresPortStr := os.Getenv("POSTGRES_PORT")
	if postgresPortStr == "" {
		postgresPortStr = "5432"
	}

	postgresPort, err := strconv.Atoi(postgresPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid POSTGRES_PORT: %w", op, err)
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
	}

	postgresDB := os.Getenv("POSTGRES_DB")
	if postgresDB == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
	}

	postgresSSLMode := os.Getenv("POSTGRES_SSLMODE")
	if postgresSSLMode == "" {
		postgresSSLMode = "disable"
	}

	postgresCfg := PostgresConfig{
		User:     postgresUser,
		Password: postgresPassword,
		Name:     postgresDB,
		Host:     postgresHost,
		Port:     postgresPort,
		SSLMode:  postgresSSLMode,
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisCfg := RedisConfig{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	}

	jwtSecret := os.Getenv("AUTH_JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("%s: missing AUTH_JWT_SECRET", op)
	}

	windowDays := 14
	if s := os.Getenv("BOOKING_WINDOW_DAYS"); s != "" {
		windowDays, err = strconv.Atoi(s)
		if err != nil || windowDays <= 0 {
			return nil, fmt.Errorf("%s: invalid BOOKING_WINDOW_DAYS", op)
		}
	}

	rateLimit := 10
	if s := os.Getenv("CHECKOUT_RATE_LIMIT_PER_MIN"); s != "" {
		rateLimit, err = strconv.Atoi(s)
		if err != nil || rateLimit <= 0 {
			return nil, fmt.Errorf("%s: invalid CHECKOUT_RATE_LIMIT_PER_MIN", op)
		}
	}

	idemTTL := 2 * time.Hour
	if s := os.Getenv("CHECKOUT_IDEMPOTENCY_TTL"); s != "" {
		idemTTL, err = time.ParseDuration(s)
		if err != nil || idemTTL <= 0 {
			return nil, fmt.Errorf("%s: invalid CHECKOUT_IDEMPOTENCY_TTL", op)
		}
	}

	return &Config{
		Server:   serverCfg,
		Postgres: postgresCfg,
		Redis:    redisCfg,
		Auth:     AuthConfig{JWTSecret: jwtSecret},
		Booking:  BookingConfig{WindowDays: windowDays},
		Checkout: CheckoutConfig{
			RateLimitPerMinute: rateLimit,
			IdempotencyTTL:     idemTTL,
		},
	}, nil
}
