// Package metering records billable events for crawl runs.
package metering

import (
	"errors"
	"fmt"
	"strings"
)

// Policy decides when an article triggers a billing event.
type Policy string

const (
	// PolicyOnContent bills whenever article content was extracted,
	// regardless of whether summarization later succeeded.
	PolicyOnContent Policy = "on_content"
	// PolicyOnSummary bills only once a summary was actually produced.
	PolicyOnSummary Policy = "on_summary"
)

// ErrUnknownPolicy is returned for an unrecognized policy name.
var ErrUnknownPolicy = errors.New("unknown metering policy")

// ParsePolicy parses a policy name, accepting surrounding whitespace and
// any casing.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyOnContent:
		return PolicyOnContent, nil
	case PolicyOnSummary:
		return PolicyOnSummary, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// ShouldBill reports whether an article with the given extraction and
// summarization outcome bills under the policy.
func (p Policy) ShouldBill(hasContent, hasSummary bool) bool {
	if p == PolicyOnSummary {
		return hasSummary
	}
	return hasContent
}
