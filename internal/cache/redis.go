package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmuriuki/busline/config"
	"github.com/dmuriuki/busline/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache carries the seat-hold fast-path locks and the route catalog.
// The repository stays authoritative for both; losing Redis loses only the
// lock fast path and the catalog cache.
type RedisCache struct {
	client    *redis.Client
	routesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, routesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		routesTTL: routesTTL,
	}
}

func (c *RedisCache) GetRoutes(ctx context.Context) ([]domain.Route, error) {
	data, err := c.client.Get(ctx, routesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var routes []domain.Route
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

func (c *RedisCache) SetRoutes(ctx context.Context, routes []domain.Route) error {
	payload, err := json.Marshal(routes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routesKey(), payload, c.routesTTL).Err()
}

func (c *RedisCache) AcquireSeatHold(ctx context.Context, trip domain.Trip, seat int, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatHoldKey(trip, seat), "held", ttl).Result()
}

func (c *RedisCache) ReleaseSeatHold(ctx context.Context, trip domain.Trip, seat int) error {
	return c.client.Del(ctx, seatHoldKey(trip, seat)).Err()
}

func routesKey() string {
	return "cache:routes"
}

func seatHoldKey(trip domain.Trip, seat int) string {
	return fmt.Sprintf("hold:trip:%s:seat:%d", trip.Key(), seat)
}
