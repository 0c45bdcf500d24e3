package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	redisotel "github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// Cache is a string key/value store with TTLs. Get returns "" and no error
// on a miss.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GenerateKey(operation, key string) string
}

type redisCache struct {
	client      *redis.Client
	serviceName string
}

// RedisCache is a Cache backed by a redis client the caller must Close.
type RedisCache interface {
	Cache
	Ping(ctx context.Context) error
	Close() error
}

// NewRedisCache connects lazily to addr. Every command is traced with the
// global OpenTelemetry provider.
func NewRedisCache(addr, serviceName string) (RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "cache: instrument redis tracing")
	}

	return &redisCache{
		client:      client,
		serviceName: serviceName,
	}, nil
}

func (r redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.Wrapf(r.client.Set(ctx, key, value, ttl).Err(), "cache: set %s", key)
}

func (r redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}

	if err != nil {
		return "", errors.Wrapf(err, "cache: get %s", key)
	}

	return val, nil
}

func (r redisCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", r.serviceName, operation, key)
}

func (r redisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r redisCache) Close() error {
	return r.client.Close()
}
