package productsource

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jcmexdev/karma-storefront/internal/pkg/cache"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/ports"
)

var _ ports.ProductSource = (*Cached)(nil)

// Cached is a read-through cache in front of another ProductSource.
// Cache faults never fail a read; they are logged and the source is used.
type Cached struct {
	next  ports.ProductSource
	cache cache.Cache
	ttl   time.Duration
}

func NewCached(next ports.ProductSource, c cache.Cache, ttl time.Duration) *Cached {
	return &Cached{next: next, cache: c, ttl: ttl}
}

func (c *Cached) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return readThrough(ctx, c, c.cache.GenerateKey("products", "all"), c.next.ListProducts)
}

func (c *Cached) ListByCategory(ctx context.Context, category string) ([]entity.Product, error) {
	return readThrough(ctx, c, c.cache.GenerateKey("category", category), func(ctx context.Context) ([]entity.Product, error) {
		return c.next.ListByCategory(ctx, category)
	})
}

func (c *Cached) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return readThrough(ctx, c, c.cache.GenerateKey("product", id), func(ctx context.Context) (*entity.Product, error) {
		return c.next.GetProduct(ctx, id)
	})
}

func readThrough[T any](ctx context.Context, c *Cached, key string, load func(context.Context) (T, error)) (T, error) {
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "product cache read failed", "key", key, "error", err)
	}
	if raw != "" {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v, nil
		}
		slog.WarnContext(ctx, "discarding undecodable cache entry", "key", key)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	b, err := json.Marshal(v)
	if err != nil {
		slog.WarnContext(ctx, "product cache encode failed", "key", key, "error", err)
		return v, nil
	}
	if err := c.cache.Set(ctx, key, string(b), c.ttl); err != nil {
		slog.WarnContext(ctx, "product cache write failed", "key", key, "error", err)
	}
	return v, nil
}
