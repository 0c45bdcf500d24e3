package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/karma-storefront/internal/journal"
	"github.com/jcmexdev/karma-storefront/internal/journal/sqlite"
	"github.com/jcmexdev/karma-storefront/internal/pkg/errx"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/cart"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/catalog"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/karma-storefront/internal/storefront/infra/adapters/productsource"
	"github.com/jcmexdev/karma-storefront/internal/storefront/session"
)

var (
	productA = entity.Product{ID: "A", Name: "A", Category: "Home", Price: decimal.NewFromInt(10), KarmaPoints: 5}
	productB = entity.Product{ID: "B", Name: "B", Category: "Food", Price: decimal.RequireFromString("2.50"), KarmaPoints: 20}
	productC = entity.Product{ID: "C", Name: "C", Category: "Home", Price: decimal.NewFromInt(1), KarmaPoints: 1}
)

type memJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
	fail    bool
}

func (j *memJournal) Append(ctx context.Context, e *journal.Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.fail {
		return errors.New("disk full")
	}
	j.entries = append(j.entries, *e)
	return nil
}

func (j *memJournal) List(ctx context.Context, sessionID string) ([]journal.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := []journal.Entry{}
	for _, e := range j.entries {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

type failingSource struct{ ports.ProductSource }

func (failingSource) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return nil, errx.Unavailable(errors.New("connection refused"))
}

func (failingSource) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	return nil, errx.Unavailable(errors.New("connection refused"))
}

func newStorefront(repo journal.Repository) *Storefront {
	src := productsource.NewMemory(productA, productB, productC)
	return New(src, session.NewRegistry(0), repo)
}

func TestBrowse(t *testing.T) {
	s := newStorefront(nil)

	all, err := s.Browse(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, catalog.All, all.Selected)
	assert.Len(t, all.Products, 3)
	assert.Equal(t, []string{"Home", "Food"}, all.Categories)
	assert.Equal(t, catalog.Summary{TotalProducts: 3, TotalKarma: 26}, all.Stats)

	home, err := s.Browse(context.Background(), "Home")
	require.NoError(t, err)
	assert.Len(t, home.Products, 2)
	assert.Equal(t, []string{"Home", "Food"}, home.Categories, "categories come from the full list")
}

func TestBrowse_SourceFailureIsRetryable(t *testing.T) {
	s := New(failingSource{}, session.NewRegistry(0), nil)
	_, err := s.Browse(context.Background(), catalog.All)
	require.Error(t, err)
	assert.True(t, errx.From(err).Retryable)
}

func TestBrowseRemote(t *testing.T) {
	s := newStorefront(nil)
	products, err := s.BrowseRemote(context.Background(), "Food")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "B", products[0].ID)
}

func TestCartFlow_WorkedExample(t *testing.T) {
	ctx := context.Background()
	s := newStorefront(nil)
	sid := s.StartSession(ctx).SessionID

	_, err := s.AddToCart(ctx, sid, "A")
	require.NoError(t, err)
	view, err := s.AddToCart(ctx, sid, "A")
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Equal(t, "20", view.TotalPrice.String())
	assert.Equal(t, 10, view.TotalPoints)

	view, err = s.SetQuantity(ctx, sid, "A", 1)
	require.NoError(t, err)
	assert.Equal(t, 5, view.TotalPoints)
	assert.Equal(t, "10", view.TotalPrice.String())

	view, err = s.RemoveFromCart(ctx, sid, "A")
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Zero(t, view.TotalPoints)
}

func TestAddToCart_Errors(t *testing.T) {
	ctx := context.Background()
	s := newStorefront(nil)

	_, err := s.AddToCart(ctx, "no-such-session", "A")
	assert.ErrorIs(t, err, session.ErrNotFound)

	sid := s.StartSession(ctx).SessionID
	_, err = s.AddToCart(ctx, sid, "Z")
	assert.ErrorIs(t, err, ports.ErrProductNotFound)

	view, err := s.Cart(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestAddToCart_SourceDown(t *testing.T) {
	ctx := context.Background()
	s := New(failingSource{}, session.NewRegistry(0), nil)
	sid := s.StartSession(ctx).SessionID

	_, err := s.AddToCart(ctx, sid, "A")
	assert.Equal(t, errx.CodeUnavailable, errx.From(err).Code)
}

func TestSetQuantity_NegativeLeavesCart(t *testing.T) {
	ctx := context.Background()
	s := newStorefront(nil)
	sid := s.StartSession(ctx).SessionID
	_, err := s.AddToCart(ctx, sid, "B")
	require.NoError(t, err)

	_, err = s.SetQuantity(ctx, sid, "B", -1)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	view, err := s.Cart(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 20, view.TotalPoints)
}

func TestJournal_RecordsAppliedChangesOnly(t *testing.T) {
	ctx := context.Background()
	j := &memJournal{}
	s := newStorefront(j)
	sid := s.StartSession(ctx).SessionID

	_, _ = s.AddToCart(ctx, sid, "A")
	_, _ = s.AddToCart(ctx, sid, "B")
	_, _ = s.RemoveFromCart(ctx, sid, "missing")
	_, _ = s.SetQuantity(ctx, sid, "A", 3)
	_, _ = s.ClearCart(ctx, sid)

	history, err := s.KarmaHistory(ctx, sid)
	require.NoError(t, err)
	require.Len(t, history, 4)

	actions := make([]cart.Action, len(history))
	for i, e := range history {
		actions[i] = e.Action
	}
	assert.Equal(t, []cart.Action{cart.ActionAdd, cart.ActionAdd, cart.ActionSetQuantity, cart.ActionClear}, actions)
	assert.Equal(t, []int{5, 25, 35, 0}, []int{
		history[0].PointsTotal, history[1].PointsTotal, history[2].PointsTotal, history[3].PointsTotal,
	})
}

func TestJournal_FailureDoesNotFailCart(t *testing.T) {
	ctx := context.Background()
	s := newStorefront(&memJournal{fail: true})
	sid := s.StartSession(ctx).SessionID

	view, err := s.AddToCart(ctx, sid, "A")
	require.NoError(t, err)
	assert.Equal(t, 5, view.TotalPoints)
}

func TestJournal_SQLite(t *testing.T) {
	ctx := context.Background()
	repo, err := sqlite.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	s := newStorefront(repo)
	sid := s.StartSession(ctx).SessionID
	_, err = s.AddToCart(ctx, sid, "C")
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, sid, "C")
	require.NoError(t, err)

	history, err := s.KarmaHistory(ctx, sid)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[1].QuantityAfter)
	assert.Equal(t, 2, history[1].PointsTotal)
}

func TestKarmaHistory_NoJournal(t *testing.T) {
	ctx := context.Background()
	s := newStorefront(nil)
	sid := s.StartSession(ctx).SessionID

	history, err := s.KarmaHistory(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = s.KarmaHistory(ctx, "nope")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestEndSession(t *testing.T) {
	ctx := context.Background()
	s := newStorefront(nil)
	sid := s.StartSession(ctx).SessionID

	require.NoError(t, s.EndSession(ctx, sid))
	_, err := s.Cart(ctx, sid)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.ErrorIs(t, s.EndSession(ctx, sid), session.ErrNotFound)
}

func TestConcurrentAdds_KeepPointsConsistent(t *testing.T) {
	ctx := context.Background()
	j := &memJournal{}
	s := newStorefront(j)
	sid := s.StartSession(ctx).SessionID

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "A"
			if i%2 == 0 {
				id = "B"
			}
			_, _ = s.AddToCart(ctx, sid, id)
		}(i)
	}
	wg.Wait()

	view, err := s.Cart(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 20, view.TotalItems)
	assert.Equal(t, 10*5+10*20, view.TotalPoints)

	history, _ := s.KarmaHistory(ctx, sid)
	require.Len(t, history, 20)
	for i := 1; i < len(history); i++ {
		assert.Equal(t, history[i-1].PointsTotal+history[i].PointsDelta, history[i].PointsTotal)
	}
}
