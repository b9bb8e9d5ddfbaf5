// Package summarize provides the abstractive text summarization
// collaborator consumed by the summary endpoint.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Summarizer shortens a text to roughly the derived length bounds.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Bounds are the word-count bounds derived from the input length: the
// target is 40% of the input words, the maximum never drops below 50 and
// the minimum never below 20.
type Bounds struct {
	Min int
	Max int
}

// BoundsFor derives summarization length bounds for the given text.
func BoundsFor(text string) Bounds {
	words := len(strings.Fields(text))
	target := int(float64(words) * 0.4)

	maxLen := target
	if maxLen < 50 {
		maxLen = 50
	}
	minLen := target / 2
	if minLen < 20 {
		minLen = 20
	}
	return Bounds{Min: minLen, Max: maxLen}
}

// Config holds the summarizer configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxRetries int
	Timeout    time.Duration
}

// DefaultConfig returns the default summarizer configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.openai.com/v1",
		Model:      "gpt-4o-mini",
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	}
}

// Client is a chat-completion backed summarizer.
type Client struct {
	client *openai.Client
	config *Config
}

// NewClient creates a summarizer client.
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

// Summarize produces a summary within the derived word-count bounds.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	bounds := BoundsFor(text)

	var result string
	err := c.doWithRetry(ctx, func() error {
		req := openai.ChatCompletionRequest{
			Model: c.config.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleSystem,
					Content: fmt.Sprintf(
						"Summarize the user's text in %d to %d words. Reply with the summary only.",
						bounds.Min, bounds.Max),
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: text,
				},
			},
			// Words to tokens, with headroom.
			MaxTokens: bounds.Max * 2,
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty summarization response")
		}
		result = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to summarize: %w", err)
	}

	return result, nil
}

// doWithRetry executes a function with exponential backoff retry.
func (c *Client) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < c.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("summarization request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}

// Truncating is the fallback summarizer used when no API key is
// configured: it keeps leading sentences up to the derived maximum.
type Truncating struct{}

// Summarize keeps whole sentences until the word bound is reached.
func (Truncating) Summarize(_ context.Context, text string) (string, error) {
	bounds := BoundsFor(text)

	var (
		out   []string
		words int
	)
	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		n := len(strings.Fields(sentence))
		if words > 0 && words+n > bounds.Max {
			break
		}
		out = append(out, sentence+".")
		words += n
	}
	if len(out) == 0 {
		return strings.TrimSpace(text), nil
	}
	return strings.Join(out, " "), nil
}
