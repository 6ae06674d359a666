package message

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Completer turns a system and user prompt into model output.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ChatOptions configures a ChatClient.
type ChatOptions struct {
	Endpoint    string
	Model       string
	MaxTokens   int
	Temperature float64
	HTTPClient  *http.Client
}

// DefaultChatOptions returns the request settings used for commit messages.
func DefaultChatOptions() ChatOptions {
	return ChatOptions{
		Endpoint:    "https://api.groq.com/openai/v1/chat/completions",
		Model:       "llama-3.1-8b-instant",
		MaxTokens:   60,
		Temperature: 0.4,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatClient talks to an OpenAI-compatible chat completions endpoint.
type ChatClient struct {
	client *http.Client
	keys   *KeyPool
	opts   ChatOptions
}

// NewChatClient creates a client drawing credentials from keys.
func NewChatClient(keys *KeyPool, opts ChatOptions) *ChatClient {
	defaults := DefaultChatOptions()
	if opts.Endpoint == "" {
		opts.Endpoint = defaults.Endpoint
	}
	if opts.Model == "" {
		opts.Model = defaults.Model
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaults.MaxTokens
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &ChatClient{client: client, keys: keys, opts: opts}
}

// Complete sends one non-streaming request. An answer without choices
// yields an empty string.
func (c *ChatClient) Complete(ctx context.Context, system, user string) (string, error) {
	key, err := c.keys.Next()
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model: c.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err != nil {
			return "", fmt.Errorf("chat endpoint returned status %d but failed to read body: %w", resp.StatusCode, err)
		}
		return "", fmt.Errorf("chat endpoint returned status %d: %s", resp.StatusCode, bytes.TrimSpace(b))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", nil
	}
	return result.Choices[0].Message.Content, nil
}
