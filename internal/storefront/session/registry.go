// Package session owns the shopper carts. Every cart lives inside exactly
// one Session, and a Session serializes every operation on its cart.
package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/cart"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session: not found")

// Session is one shopper's cart and its last activity time.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	cart     *cart.Cart
	ended    bool // guarded by mu
	lastSeen atomic.Int64
}

// Do runs fn with exclusive access to the cart. The cart must not escape fn.
// A session that was ended or expired after it was looked up returns
// ErrNotFound without running fn.
func (s *Session) Do(fn func(c *cart.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return errors.Wrapf(ErrNotFound, "id %q", s.ID)
	}
	s.touch(time.Now())
	return fn(s.cart)
}

// LastSeen is the time of the last Get or Do on the session.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// Registry maps session IDs to sessions and expires idle ones.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration
	now      func() time.Time
}

// NewRegistry returns an empty registry. An idleTTL of zero disables expiry.
func NewRegistry(idleTTL time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Create starts a session with an empty cart.
func (r *Registry) Create() *Session {
	now := r.now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		cart:      cart.New(),
	}
	s.touch(now)

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session and marks it active.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "id %q", id)
	}
	s.touch(r.now())
	return s, nil
}

// End discards the session and its cart. It waits for a running Do to
// finish; later Do calls on the session fail with ErrNotFound.
func (r *Registry) End(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return errors.Wrapf(ErrNotFound, "id %q", id)
	}

	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep discards sessions idle since before now minus the idle TTL and
// returns how many were removed. Sessions busy in Do are left for the next
// sweep.
func (r *Registry) Sweep(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if !s.LastSeen().Before(cutoff) || !s.mu.TryLock() {
			continue
		}
		// a Get may have touched it since the first check
		if s.LastSeen().Before(cutoff) {
			s.ended = true
			delete(r.sessions, id)
			n++
		}
		s.mu.Unlock()
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 || r.idleTTL <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(r.now()); n > 0 {
				slog.InfoContext(ctx, "expired idle sessions", "count", n, "remaining", r.Len())
			}
		}
	}
}
