package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes a lock only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisCache struct {
	client     redis.UniversalClient
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return newRedisCache(redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}), flightsTTL)
}

func newRedisCache(client redis.UniversalClient, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetFlights returns the cached search result for filter, or nil on a miss,
// together with the cache generation it was looked up in. Pass that generation
// to SetFlights so a result read before an invalidation is never served.
func (c *RedisCache) GetFlights(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, int64, error) {
	gen, err := c.client.Get(ctx, flightsGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, err
	}

	data, err := c.client.HGet(ctx, flightsKey(gen), filterField(filter)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gen, nil
		}
		return nil, gen, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, gen, err
	}
	return flights, gen, nil
}

// SetFlights stores a search result under generation gen. After an
// invalidation the write lands in a retired key that only waits for its TTL.
func (c *RedisCache) SetFlights(ctx context.Context, gen int64, filter domain.FlightFilter, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}

	key := flightsKey(gen)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, filterField(filter), payload)
	pipe.Expire(ctx, key, c.flightsTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateFlights retires every cached search result by moving to a new generation.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	return c.client.Incr(ctx, flightsGenerationKey).Err()
}

// Acquire takes the lock at key for ttl. The returned token must be handed back
// to Release.
func (c *RedisCache) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

func (c *RedisCache) Release(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, c.client, []string{key}, token).Err()
}

const flightsGenerationKey = "cache:flights:gen"

func flightsKey(gen int64) string {
	return "cache:flights:" + strconv.FormatInt(gen, 10)
}

func filterField(filter domain.FlightFilter) string {
	return "dep=" + strings.ToLower(filter.DepartureCity) + "|arr=" + strings.ToLower(filter.ArrivalCity)
}
