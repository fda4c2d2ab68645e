package service

import (
	postgres "github.com/cinechain/cinebook/internal/repository/postgres"
	redis "github.com/cinechain/cinebook/internal/repository/redis"
	"github.com/cinechain/cinebook/internal/service/admin"
	"github.com/cinechain/cinebook/internal/service/checkout"
	"github.com/cinechain/cinebook/internal/service/query"
	"github.com/cinechain/cinebook/internal/service/tickets"
)

type Services struct {
	Checkout *checkout.Service
	Query    *query.Service
	Admin    *admin.Service
	Tickets  *tickets.Service
}

type Config struct {
	Checkout checkout.Config
	Query    query.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redis.ScreeningsPubSub,
	limiter *redis.SlidingWindowLimiter,
	cfg Config,
) *Services {
	return &Services{
		Checkout: checkout.New(store, cache, pubsub, limiter, cfg.Checkout),
		Query:    query.New(store, cache, cfg.Query),
		Admin:    admin.New(store, cache, pubsub),
		Tickets:  tickets.New(store),
	}
}
