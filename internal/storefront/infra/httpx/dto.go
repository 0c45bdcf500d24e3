package httpx

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/karma-storefront/internal/journal"
	"github.com/jcmexdev/karma-storefront/internal/storefront/app"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/catalog"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/entity"
)

type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

type SetQuantityRequest struct {
	// Pointer so a missing field is told apart from zero.
	Quantity *int `json:"quantity"`
}

type CatalogResponse struct {
	Products   []entity.Product `json:"products"`
	Categories []string         `json:"categories"`
	Selected   string           `json:"selected"`
	Stats      catalog.Summary  `json:"stats"`
}

type CartLineResponse struct {
	Product  entity.Product  `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
	// Discount is the per-unit saving against the original price.
	Discount decimal.Decimal `json:"discount"`
	Points   int             `json:"points"`
}

type CartResponse struct {
	SessionID   string             `json:"session_id"`
	Lines       []CartLineResponse `json:"lines"`
	TotalItems  int                `json:"total_items"`
	TotalPrice  decimal.Decimal    `json:"total_price"`
	TotalPoints int                `json:"total_points"`
}

type KarmaEntryResponse struct {
	Action         string    `json:"action"`
	ProductID      string    `json:"product_id,omitempty"`
	QuantityBefore int       `json:"quantity_before"`
	QuantityAfter  int       `json:"quantity_after"`
	PointsDelta    int       `json:"points_delta"`
	PointsTotal    int       `json:"points_total"`
	TraceID        string    `json:"trace_id,omitempty"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Retryable bool   `json:"retryable"`
}

func mapCatalog(c *app.Catalog) CatalogResponse {
	return CatalogResponse{
		Products:   nonNil(c.Products),
		Categories: c.Categories,
		Selected:   c.Selected,
		Stats:      c.Stats,
	}
}

func mapCart(v *app.CartView) CartResponse {
	lines := make([]CartLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = CartLineResponse{
			Product:  l.Product,
			Quantity: l.Quantity,
			Subtotal: l.Subtotal(),
			Discount: l.Product.Discount(),
			Points:   l.Points(),
		}
	}
	return CartResponse{
		SessionID:   v.SessionID,
		Lines:       lines,
		TotalItems:  v.TotalItems,
		TotalPrice:  v.TotalPrice,
		TotalPoints: v.TotalPoints,
	}
}

func mapHistory(entries []journal.Entry) []KarmaEntryResponse {
	out := make([]KarmaEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = KarmaEntryResponse{
			Action:         string(e.Action),
			ProductID:      e.ProductID,
			QuantityBefore: e.QuantityBefore,
			QuantityAfter:  e.QuantityAfter,
			PointsDelta:    e.PointsDelta,
			PointsTotal:    e.PointsTotal,
			TraceID:        e.TraceID,
			RecordedAt:     e.RecordedAt,
		}
	}
	return out
}

func nonNil(products []entity.Product) []entity.Product {
	if products == nil {
		return []entity.Product{}
	}
	return products
}
