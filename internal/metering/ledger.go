package metering

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jonesrussell/newsdigest/internal/domain"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS billing_events (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	event_name TEXT NOT NULL,
	url TEXT NOT NULL,
	occurred_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_billing_events_run_id ON billing_events(run_id);
`

// OpenSQLite opens the SQLite ledger database at path, creating parent
// directories and the schema as needed.
func OpenSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping ledger database: %w", err)
	}

	if _, err := db.ExecContext(ctx, ledgerSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create ledger schema: %w", err)
	}

	return db, nil
}

// Ledger persists billing events.
type Ledger struct {
	db *sqlx.DB
}

// NewLedger creates a ledger backed by the given database.
func NewLedger(db *sqlx.DB) *Ledger {
	return &Ledger{db: db}
}

// Insert stores one billing event.
func (l *Ledger) Insert(ctx context.Context, event *domain.BillingEvent) error {
	query := `
		INSERT INTO billing_events (id, run_id, event_name, url, occurred_at)
		VALUES (:id, :run_id, :event_name, :url, :occurred_at)`

	_, err := l.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("failed to insert billing event: %w", err)
	}

	return nil
}

// Counts returns per-event-name totals across all runs.
func (l *Ledger) Counts(ctx context.Context) ([]domain.EventCount, error) {
	query := `
		SELECT event_name, COUNT(*) AS count
		FROM billing_events
		GROUP BY event_name
		ORDER BY event_name`

	var counts []domain.EventCount
	if err := l.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to count billing events: %w", err)
	}

	if counts == nil {
		counts = []domain.EventCount{}
	}

	return counts, nil
}

// CountsForRun returns per-event-name totals for a single run.
func (l *Ledger) CountsForRun(ctx context.Context, runID string) ([]domain.EventCount, error) {
	query := `
		SELECT event_name, COUNT(*) AS count
		FROM billing_events
		WHERE run_id = ?
		GROUP BY event_name
		ORDER BY event_name`

	var counts []domain.EventCount
	if err := l.db.SelectContext(ctx, &counts, query, runID); err != nil {
		return nil, fmt.Errorf("failed to count billing events for run: %w", err)
	}

	if counts == nil {
		counts = []domain.EventCount{}
	}

	return counts, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}
