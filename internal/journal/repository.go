package journal

import "context"

// Repository is the port for persisting journal entries. The storefront
// depends on this abstraction, not on SQLite directly.
type Repository interface {
	// Append persists a new entry. The journal never updates rows.
	Append(ctx context.Context, entry *Entry) error

	// List returns every entry for a session in the order it was appended.
	List(ctx context.Context, sessionID string) ([]Entry, error)
}
