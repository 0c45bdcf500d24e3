// Package app composes the product source, the session registry and the cart
// journal into the operations the HTTP layer exposes.
package app

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/karma-storefront/internal/journal"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/cart"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/catalog"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/karma-storefront/internal/storefront/session"
)

// Catalog is one browse result.
type Catalog struct {
	Products   []entity.Product
	Categories []string
	Selected   string
	Stats      catalog.Summary
}

// CartView is a consistent snapshot of a session's cart.
type CartView struct {
	SessionID   string
	Lines       []cart.Line
	TotalItems  int
	TotalPrice  decimal.Decimal
	TotalPoints int
}

// Storefront is the browse and cart service.
type Storefront struct {
	source   ports.ProductSource
	sessions *session.Registry
	journal  journal.Repository // nil-safe: changes are not journaled if nil
	tracer   trace.Tracer
}

// New builds the service. repo may be nil.
func New(source ports.ProductSource, sessions *session.Registry, repo journal.Repository) *Storefront {
	return &Storefront{
		source:   source,
		sessions: sessions,
		journal:  repo,
		tracer:   otel.Tracer("storefront/app"),
	}
}

// Browse loads the whole catalog and filters it locally so the category list
// always covers every product.
func (s *Storefront) Browse(ctx context.Context, category string) (*Catalog, error) {
	ctx, span := s.tracer.Start(ctx, "storefront.Browse", trace.WithAttributes(attribute.String("category", category)))
	defer span.End()

	products, err := s.source.ListProducts(ctx)
	if err != nil {
		return nil, spanError(span, err)
	}

	if category == "" {
		category = catalog.All
	}
	return &Catalog{
		Products:   catalog.Filter(products, category),
		Categories: catalog.Categories(products),
		Selected:   category,
		Stats:      catalog.Stats(products),
	}, nil
}

// BrowseRemote asks the product source to filter by category.
func (s *Storefront) BrowseRemote(ctx context.Context, category string) ([]entity.Product, error) {
	ctx, span := s.tracer.Start(ctx, "storefront.BrowseRemote", trace.WithAttributes(attribute.String("category", category)))
	defer span.End()

	products, err := s.source.ListByCategory(ctx, category)
	if err != nil {
		return nil, spanError(span, err)
	}
	return products, nil
}

func (s *Storefront) StartSession(ctx context.Context) CartView {
	sess := s.sessions.Create()
	slog.InfoContext(ctx, "session started", "session_id", sess.ID)
	return CartView{SessionID: sess.ID, TotalPrice: decimal.Zero, Lines: []cart.Line{}}
}

func (s *Storefront) EndSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.End(sessionID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "session ended", "session_id", sessionID)
	return nil
}

// Cart returns the current cart of a session.
func (s *Storefront) Cart(ctx context.Context, sessionID string) (*CartView, error) {
	return s.mutate(ctx, sessionID, func(*cart.Cart) (cart.Change, error) {
		return cart.Change{}, nil
	})
}

// AddToCart resolves productID through the product source and adds one unit.
func (s *Storefront) AddToCart(ctx context.Context, sessionID, productID string) (*CartView, error) {
	ctx, span := s.tracer.Start(ctx, "storefront.AddToCart", trace.WithAttributes(
		attribute.String("session_id", sessionID),
		attribute.String("product_id", productID),
	))
	defer span.End()

	// fail on unknown sessions before calling out
	if _, err := s.sessions.Get(sessionID); err != nil {
		return nil, spanError(span, err)
	}

	product, err := s.source.GetProduct(ctx, productID)
	if err != nil {
		return nil, spanError(span, err)
	}

	view, err := s.mutate(ctx, sessionID, func(c *cart.Cart) (cart.Change, error) {
		return c.AddItem(*product), nil
	})
	if err != nil {
		return nil, spanError(span, err)
	}
	return view, nil
}

func (s *Storefront) RemoveFromCart(ctx context.Context, sessionID, productID string) (*CartView, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) (cart.Change, error) {
		return c.RemoveItem(productID), nil
	})
}

func (s *Storefront) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*CartView, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) (cart.Change, error) {
		return c.SetQuantity(productID, quantity)
	})
}

func (s *Storefront) ClearCart(ctx context.Context, sessionID string) (*CartView, error) {
	return s.mutate(ctx, sessionID, func(c *cart.Cart) (cart.Change, error) {
		return c.Clear(), nil
	})
}

// KarmaHistory lists the journaled changes of a session, oldest first. It is
// empty when no journal is wired.
func (s *Storefront) KarmaHistory(ctx context.Context, sessionID string) ([]journal.Entry, error) {
	if _, err := s.sessions.Get(sessionID); err != nil {
		return nil, err
	}
	if s.journal == nil {
		return []journal.Entry{}, nil
	}
	entries, err := s.journal.List(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load karma history")
	}
	return entries, nil
}

// mutate applies op under the session lock and journals the change before
// the lock is released, so journal order matches cart order.
func (s *Storefront) mutate(ctx context.Context, sessionID string, op func(*cart.Cart) (cart.Change, error)) (*CartView, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	var view *CartView
	err = sess.Do(func(c *cart.Cart) error {
		change, err := op(c)
		if err != nil {
			return err
		}
		if change.Applied {
			s.record(ctx, sessionID, change, c.TotalPoints())
		}
		view = snapshot(sessionID, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *Storefront) record(ctx context.Context, sessionID string, change cart.Change, total int) {
	slog.DebugContext(ctx, "cart changed",
		"session_id", sessionID,
		"action", change.Action,
		"product_id", change.ProductID,
		"points_delta", change.PointsDelta,
		"points_total", total,
	)
	if s.journal == nil {
		return
	}
	if err := s.journal.Append(ctx, journal.NewEntry(ctx, sessionID, change, total)); err != nil {
		slog.WarnContext(ctx, "journal append failed", "session_id", sessionID, "action", change.Action, "error", err)
	}
}

func snapshot(sessionID string, c *cart.Cart) *CartView {
	return &CartView{
		SessionID:   sessionID,
		Lines:       c.Lines(),
		TotalItems:  c.TotalItemCount(),
		TotalPrice:  c.TotalPrice(),
		TotalPoints: c.TotalPoints(),
	}
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
