package ports

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/entity"
)

// ErrProductNotFound is returned by GetProduct for unknown IDs.
var ErrProductNotFound = errors.New("product not found")

// ProductSource is the read-only catalog the storefront browses.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	ListByCategory(ctx context.Context, category string) ([]entity.Product, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
}
