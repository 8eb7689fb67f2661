package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"TickerLens/internal/model"
)

// NewRedisClient connects to Redis and pings the server.
func NewRedisClient(addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Printf("[INFO] redis cache connected to %s", addr)
	return client, nil
}

// CachedProvider wraps a Provider and caches raw history in Redis.
// Any cache fault falls through to the wrapped provider.
type CachedProvider struct {
	next   Provider
	client goredis.Cmdable
	ttl    time.Duration
}

func NewCachedProvider(next Provider, client goredis.Cmdable, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CachedProvider{next: next, client: client, ttl: ttl}
}

func (c *CachedProvider) Name() string { return c.next.Name() + "+redis" }

func historyKey(symbol string, period model.Period, interval model.Interval) string {
	return fmt.Sprintf("history:%s:%s:%s", symbol, period, interval)
}

func (c *CachedProvider) History(ctx context.Context, symbol string, period model.Period, interval model.Interval) (*model.RawSeries, error) {
	key := historyKey(symbol, period, interval)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var series model.RawSeries
		uerr := json.Unmarshal(data, &series)
		if uerr == nil {
			return &series, nil
		}
		log.Printf("[WARN] corrupt cache entry %s: %v", key, uerr)
	case errors.Is(err, goredis.Nil):
	default:
		log.Printf("[WARN] cache get %s: %v", key, err)
	}

	series, err := c.next.History(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(series)
	if err != nil {
		log.Printf("[WARN] cache encode %s: %v", key, err)
		return series, nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("[WARN] cache set %s: %v", key, err)
	}
	return series, nil
}
