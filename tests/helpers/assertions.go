package helpers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsdigest/internal/dataset"
	"github.com/jonesrussell/newsdigest/internal/domain"
)

// SearchRecords fetches up to size stored records, failing the test on
// search errors.
func SearchRecords(t *testing.T, ctx context.Context, reader *dataset.Reader, size int) []domain.ArticleRecord {
	t.Helper()

	records, err := reader.SearchRecent(ctx, size)
	require.NoError(t, err, "failed to search records")
	return records
}

// RequireRecord returns the record with the given URL, failing the test
// when it is absent.
func RequireRecord(t *testing.T, records []domain.ArticleRecord, url string) domain.ArticleRecord {
	t.Helper()

	for _, record := range records {
		if record.URL == url {
			return record
		}
	}
	require.Failf(t, "record not found", "no record with URL %q among %d records", url, len(records))
	return domain.ArticleRecord{}
}
