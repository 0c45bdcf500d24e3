package productsource

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/ports"
)

// Ensure Memory implements the port at compile time.
var _ ports.ProductSource = (*Memory)(nil)

// Memory is an in-memory catalog for local development and tests.
// Do NOT use it as a production product source.
type Memory struct {
	mu       sync.RWMutex
	products []entity.Product
}

// NewMemory returns a catalog holding products in the given order.
func NewMemory(products ...entity.Product) *Memory {
	m := &Memory{}
	for _, p := range products {
		m.Add(p)
	}
	return m
}

// Add appends p, assigning a random ID when it has none, and returns the
// stored product.
func (m *Memory) Add(p entity.Product) entity.Product {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append(m.products, p)
	return p
}

func (m *Memory) ListProducts(ctx context.Context) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.products), nil
}

func (m *Memory) ListByCategory(ctx context.Context, category string) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entity.Product, 0)
	for _, p := range m.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, errors.Wrapf(ports.ErrProductNotFound, "product %q", id)
}
