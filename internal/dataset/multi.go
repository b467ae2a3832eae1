package dataset

import (
	"context"
	"errors"

	"github.com/jonesrussell/newsdigest/internal/domain"
)

// MultiSink fans each record out to every underlying sink. All sinks are
// attempted even when one fails.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a sink wrapping the given sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Emit writes the record to every sink and joins any errors.
func (m *MultiSink) Emit(ctx context.Context, record *domain.ArticleRecord) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.Emit(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink and joins any errors.
func (m *MultiSink) Close() error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ Sink = (*MultiSink)(nil)
