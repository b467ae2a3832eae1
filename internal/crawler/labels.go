package crawler

import "fmt"

// Label classifies an enqueued request and routes it to its handler.
type Label int

const (
	// LabelListing marks a paginated article list page.
	LabelListing Label = iota
	// LabelArticle marks an article page.
	LabelArticle
)

// String returns the label name.
func (l Label) String() string {
	switch l {
	case LabelListing:
		return "LISTING"
	case LabelArticle:
		return "ARTICLE"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}
