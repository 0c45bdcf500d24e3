// Package sqlite provides a SQLite-backed implementation of journal.Repository.
//
// WAL mode is enabled on Open so readers of the karma history never block
// the request goroutines appending to it.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/karma-storefront/internal/journal"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/cart"

	// Register the pure-Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cart_journal (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Shopper session the change belongs to. Many rows per session.
    session_id      TEXT        NOT NULL,

    action          TEXT        NOT NULL,
    product_id      TEXT        NOT NULL DEFAULT '',
    quantity_before INTEGER     NOT NULL DEFAULT 0,
    quantity_after  INTEGER     NOT NULL DEFAULT 0,
    points_delta    INTEGER     NOT NULL,
    points_total    INTEGER     NOT NULL,

    trace_id        TEXT        NOT NULL DEFAULT '',
    span_id         TEXT        NOT NULL DEFAULT '',

    -- RFC3339 stored as TEXT, SQLite idiom.
    recorded_at     TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cart_journal_session_id ON cart_journal(session_id, id);
CREATE INDEX IF NOT EXISTS idx_cart_journal_trace_id ON cart_journal(trace_id);
`

// Repository is the SQLite implementation of journal.Repository.
type Repository struct {
	db *sql.DB
}

var _ journal.Repository = (*Repository)(nil)

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	repo, err := sqlite.Open("./data/journal.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3" for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Append inserts a new journal entry. It is safe to call concurrently.
func (r *Repository) Append(ctx context.Context, entry *journal.Entry) error {
	const q = `
		INSERT INTO cart_journal
			(session_id, action, product_id, quantity_before, quantity_after,
			 points_delta, points_total, trace_id, span_id, recorded_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.SessionID,
		string(entry.Action),
		entry.ProductID,
		entry.QuantityBefore,
		entry.QuantityAfter,
		entry.PointsDelta,
		entry.PointsTotal,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: append journal entry for %q: %w", entry.SessionID, err)
	}
	return nil
}

// List returns the entries for sessionID in insertion order.
func (r *Repository) List(ctx context.Context, sessionID string) ([]journal.Entry, error) {
	const q = `
		SELECT session_id, action, product_id, quantity_before, quantity_after,
		       points_delta, points_total, trace_id, span_id, recorded_at
		FROM   cart_journal
		WHERE  session_id = ?
		ORDER  BY id ASC`

	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list journal for %q: %w", sessionID, err)
	}
	defer rows.Close()

	entries := make([]journal.Entry, 0)
	for rows.Next() {
		var (
			e          journal.Entry
			action     string
			recordedAt string
		)
		if err := rows.Scan(
			&e.SessionID,
			&action,
			&e.ProductID,
			&e.QuantityBefore,
			&e.QuantityAfter,
			&e.PointsDelta,
			&e.PointsTotal,
			&e.TraceID,
			&e.SpanID,
			&recordedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan journal row for %q: %w", sessionID, err)
		}
		e.Action = cart.Action(action)
		if e.RecordedAt, err = parseRFC3339(recordedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate journal for %q: %w", sessionID, err)
	}

	return entries, nil
}

// applySchema runs the DDL statements once. Idempotent due to IF NOT EXISTS.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}
