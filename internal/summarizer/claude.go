package summarizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jonesrussell/newsdigest/internal/config"
	"github.com/jonesrussell/newsdigest/internal/logger"
)

// APIKeyEnvVar names the environment variable holding the Anthropic API
// key. The key is never read from config files.
const APIKeyEnvVar = "ANTHROPIC_API_KEY"

var (
	// ErrMissingAPIKey is returned when no API key is set in the environment.
	ErrMissingAPIKey = errors.New("missing " + APIKeyEnvVar + " environment variable")
	// ErrEmptyCompletion is returned when the model replies without text.
	ErrEmptyCompletion = errors.New("model returned an empty completion")
)

// Claude summarizes article content through the Anthropic Messages API.
type Claude struct {
	client    anthropic.Client
	logger    logger.Interface
	model     anthropic.Model
	maxTokens int64
}

// NewClaude creates a Claude summarizer from config. The API key comes
// from the environment.
func NewClaude(cfg *config.SummarizerConfig, log logger.Interface) (*Claude, error) {
	apiKey := os.Getenv(APIKeyEnvVar)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Claude{
		client:    anthropic.NewClient(opts...),
		logger:    log,
		model:     anthropic.Model(cfg.Model),
		maxTokens: int64(cfg.MaxTokens),
	}, nil
}

// Summarize asks the model for a three sentence summary of the content.
func (c *Claude) Summarize(ctx context.Context, content string) (string, error) {
	prompt := BuildPrompt(content)

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("summarization request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			sb.WriteString(b.Text)
		}
	}

	summary := strings.TrimSpace(sb.String())
	if summary == "" {
		return "", ErrEmptyCompletion
	}

	c.logger.Debug("Produced article summary",
		"model", string(c.model),
		"summary_length", len(summary),
	)

	return summary, nil
}

// Interface assertions.
var (
	_ Summarizer = (*Claude)(nil)
	_ Summarizer = NoOp{}
)
