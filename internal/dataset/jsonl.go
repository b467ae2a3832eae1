package dataset

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonesrussell/newsdigest/internal/domain"
	"github.com/jonesrussell/newsdigest/internal/logger"
)

// JSONLSink appends article records to a run-scoped JSON Lines file.
type JSONLSink struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	logger logger.Interface
	path   string
	closed bool
}

// NewJSONLSink creates the dataset directory and opens the record file
// for the given run.
func NewJSONLSink(dir, runID string, log logger.Interface) (*JSONLSink, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create dataset directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("records-%s.jsonl", runID))

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}

	log.Debug("Opened dataset file", "path", path)

	return &JSONLSink{
		file:   file,
		writer: bufio.NewWriter(file),
		logger: log,
		path:   path,
	}, nil
}

// Path returns the record file location.
func (s *JSONLSink) Path() string {
	return s.path
}

// Emit appends one record as a JSON line.
func (s *JSONLSink) Emit(ctx context.Context, record *domain.ArticleRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}

	if _, err := s.writer.Write(line); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := s.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	return nil
}

// Close flushes buffered records and closes the file.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.writer.Flush(); err != nil {
		s.file.Close()
		return fmt.Errorf("failed to flush dataset file: %w", err)
	}

	if err := s.file.Close(); err != nil {
		return fmt.Errorf("failed to close dataset file: %w", err)
	}

	return nil
}

var _ Sink = (*JSONLSink)(nil)
