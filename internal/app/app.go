package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cinechain/cinebook/internal/config"
	"github.com/cinechain/cinebook/internal/postgres"
	"github.com/cinechain/cinebook/internal/redis"
	postgresrepo "github.com/cinechain/cinebook/internal/repository/postgres"
	redisrepo "github.com/cinechain/cinebook/internal/repository/redis"
	"github.com/cinechain/cinebook/internal/service"
	"github.com/cinechain/cinebook/internal/service/checkout"
	httpgin "github.com/cinechain/cinebook/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	pubsub     *redisrepo.ScreeningsPubSub
	cache      *redisrepo.Cache
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(context.Background(), redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisrepo.NewScreeningsPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "rl", cfg.Checkout.RateLimitPerMinute, 1*time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, cfg.Checkout.IdempotencyTTL)

	// Initialize services
	services := service.NewServices(store, cache, pubsub, limiter, service.Config{
		Checkout: checkout.Config{WindowDays: cfg.Booking.WindowDays},
	})

	// Initialize Gin router
	router := httpgin.NewRouter(services, idempotencyStore, logger, cfg.Auth.JWTSecret)

	return &App{
		cfg:    cfg,
		logger: logger,
		pubsub: pubsub,
		cache:  cache,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Drop cached counters when another instance books a screening
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, screeningID int64) {
			_ = a.cache.InvalidateScreening(ctx, screeningID)
		})
		if err != nil && gCtx.Err() == nil {
			return fmt.Errorf("screenings subscription: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
