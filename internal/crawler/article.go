package crawler

import (
	"context"

	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/newsdigest/internal/domain"
	"github.com/jonesrussell/newsdigest/internal/logger"
	"github.com/jonesrussell/newsdigest/internal/metering"
)

// SummarizeFunc produces a summary for article content. An empty result
// means no summary.
type SummarizeFunc func(ctx context.Context, content string) (string, error)

// EmitFunc persists one article record.
type EmitFunc func(ctx context.Context, record *domain.ArticleRecord) error

// BillFunc records one billable event for the given article URL.
type BillFunc func(ctx context.Context, eventName, articleURL string) error

// HandlerDeps carries the article handler's injected collaborators.
// Summarize may be nil when summarization is disabled.
type HandlerDeps struct {
	Summarize SummarizeFunc
	Emit      EmitFunc
	Bill      BillFunc
}

// ArticleHandler extracts, summarizes, emits, and bills one article page
// per invocation.
type ArticleHandler struct {
	logger          logger.Interface
	state           *State
	titleSelector   string
	contentSelector string
	policy          metering.Policy
	deps            HandlerDeps
}

// NewArticleHandler creates an article page handler.
func NewArticleHandler(
	log logger.Interface,
	state *State,
	titleSelector, contentSelector string,
	policy metering.Policy,
	deps HandlerDeps,
) *ArticleHandler {
	return &ArticleHandler{
		logger:          log,
		state:           state,
		titleSelector:   titleSelector,
		contentSelector: contentSelector,
		policy:          policy,
		deps:            deps,
	}
}

// HandleArticle processes one article page. Missing DOM elements degrade
// to null fields and the record is emitted regardless.
func (h *ArticleHandler) HandleArticle(e *colly.HTMLElement) {
	ctx := h.state.Context()
	if ctx == nil {
		return
	}

	pageURL := e.Request.URL.String()
	h.logger.Info("Processing article", "url", pageURL)

	title := domain.OptionalText(extractText(e, h.titleSelector))
	content := domain.OptionalText(extractText(e, h.contentSelector))

	summary := h.summarize(ctx, pageURL, content)

	record := &domain.ArticleRecord{
		Title:   title,
		Content: content,
		URL:     pageURL,
		Summary: summary,
	}

	if err := h.deps.Emit(ctx, record); err != nil {
		h.logger.Error("Failed to emit article record",
			"url", pageURL,
			"error", err,
		)
		h.state.IncrementError()
	}

	if h.policy.ShouldBill(record.HasContent(), record.HasSummary()) {
		if err := h.deps.Bill(ctx, metering.EventArticleSummary, pageURL); err != nil {
			h.logger.Error("Failed to record billing event",
				"url", pageURL,
				"error", err,
			)
			h.state.IncrementError()
		} else {
			h.state.IncrementEventsBilled()
		}
	}
}

// summarize runs the summarizer for non-nil content. Failures are
// recoverable: the record still emits with a null summary.
func (h *ArticleHandler) summarize(ctx context.Context, pageURL string, content *string) *string {
	if content == nil || h.deps.Summarize == nil {
		return nil
	}

	text, err := h.deps.Summarize(ctx, *content)
	if err != nil {
		h.logger.Error("Failed to summarize article",
			"url", pageURL,
			"error", err,
		)
		h.state.IncrementError()
		return nil
	}
	if text == "" {
		return nil
	}

	h.state.IncrementSummariesProduced()
	return &text
}
