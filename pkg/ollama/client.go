package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/menta2k/page-describer/pkg/client"
)

// MaxTokens caps the length of a generated analysis
const MaxTokens = 4000

// Client wraps the Ollama API client
type Client struct {
	client *api.Client
}

// NewClient creates a new Ollama client
func NewClient(ollamaURL string) (*Client, error) {
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}

	parsedURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid URL: %q", ollamaURL)
	}

	// Drop any path such as /api/chat; the SDK appends its own
	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}

	return &Client{client: api.NewClient(baseURL, http.DefaultClient)}, nil
}

// Complete sends prompt as a single user message and returns the reply
func (c *Client) Complete(ctx context.Context, model, prompt string) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second) // local models on CPU are slow
		defer cancel()
	}

	streamFalse := false
	req := &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		Stream: &streamFalse,
		Options: map[string]any{
			"num_predict": MaxTokens,
		},
	}

	var reply strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat error: %w", err)
	}

	if strings.TrimSpace(reply.String()) == "" {
		return "", fmt.Errorf("empty response from ollama")
	}

	return reply.String(), nil
}

var _ client.TextClient = (*Client)(nil)
