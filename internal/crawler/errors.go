// Package crawler provides the crawl engine and its page handlers.
package crawler

import (
	"errors"
	"net/http"
	"strings"
)

// Error types for the crawler package.
var (
	// ErrAlreadyRunning is returned when starting an engine mid-run.
	ErrAlreadyRunning = errors.New("crawl already running")

	// ErrEmptyGlob is returned when the article glob pattern is blank.
	ErrEmptyGlob = errors.New("empty glob pattern")

	// ErrUnknownLabel is returned for a label outside the known set.
	ErrUnknownLabel = errors.New("unknown request label")
)

// isExpectedCrawlError returns true for expected/non-critical errors.
func isExpectedCrawlError(visitErr error) bool {
	if visitErr == nil {
		return false
	}
	errMsg := strings.ToLower(visitErr.Error())
	return strings.Contains(errMsg, "forbidden domain") ||
		strings.Contains(errMsg, "max depth") ||
		strings.Contains(errMsg, "maximum depth") ||
		strings.Contains(errMsg, "already visited") ||
		strings.Contains(errMsg, "max requests") ||
		strings.Contains(errMsg, "aborted") ||
		strings.Contains(errMsg, "urlfilters") ||
		strings.Contains(errMsg, "not following redirect")
}

// isTransientCrawlError returns true if the error looks retryable
// (5xx, connection issues).
func isTransientCrawlError(statusCode int, visitErr error) bool {
	if visitErr != nil {
		errMsg := strings.ToLower(visitErr.Error())
		transientPatterns := []string{
			"connection refused", "connection reset", "connection reset by peer",
			"temporary failure", "eof", "broken pipe", "no such host",
			"i/o timeout", "connection timed out",
		}
		for _, p := range transientPatterns {
			if strings.Contains(errMsg, p) {
				return true
			}
		}
	}
	return statusCode >= http.StatusInternalServerError && statusCode < 600
}
