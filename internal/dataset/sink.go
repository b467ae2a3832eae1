// Package dataset persists emitted article records.
package dataset

import (
	"context"
	"errors"

	"github.com/jonesrussell/newsdigest/internal/domain"
)

// ErrSinkClosed is returned when emitting to a closed sink.
var ErrSinkClosed = errors.New("dataset sink is closed")

// Sink receives article records extracted by the crawler.
type Sink interface {
	// Emit persists one article record.
	Emit(ctx context.Context, record *domain.ArticleRecord) error
	// Close flushes and releases the sink.
	Close() error
}

// NoOpSink discards every record. Used when persistence is disabled.
type NoOpSink struct{}

// Emit discards the record.
func (NoOpSink) Emit(_ context.Context, _ *domain.ArticleRecord) error { return nil }

// Close does nothing.
func (NoOpSink) Close() error { return nil }
