// Package llmclient is a small client for an OpenAI-compatible
// chat-completions endpoint that returns JSON objects. Any unresolved
// failure surfaces as ErrUnavailable so callers can branch to their local
// fallback instead of handling transport detail.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"newspipe/internal/config"
)

// ErrUnavailable indicates the collaborator could not be reached or
// returned unusable output after retries. It is always recoverable per
// item and never surfaced to batch consumers.
var ErrUnavailable = errors.New("enrichment collaborator unavailable")

const systemPrompt = "You are a precise JSON generator. Never include markdown fences."

// Client talks to one OpenAI-compatible endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	attempts   int
	backoff    time.Duration
}

// New builds a Client from configuration. A missing API key reports
// ErrUnavailable: the caller then runs rule-based only.
func New(cfg config.AI) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", ErrUnavailable)
	}
	attempts := cfg.MaxRetries
	if attempts < 1 {
		attempts = 2
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2.0
	}
	return &Client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		attempts:   attempts,
		backoff:    cfg.GetRetryBackoff(),
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// JSONRequest sends prompt and parses the reply as a JSON object,
// tolerating non-JSON-only replies by extracting the substring between the
// first "{" and the last "}". It retries a fixed small number of times
// with a fixed backoff; exhausting the attempts returns ErrUnavailable.
func (c *Client) JSONRequest(ctx context.Context, prompt string, maxTokens int) (map[string]any, error) {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			case <-time.After(c.backoff):
			}
		}
		reply, err := c.chat(ctx, prompt, maxTokens)
		if err != nil {
			lastErr = err
			continue
		}
		obj, err := parseJSONObject(reply)
		if err != nil {
			lastErr = err
			continue
		}
		return obj, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (c *Client) chat(ctx context.Context, prompt string, maxTokens int) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
		MaxTokens:   maxTokens,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("chat endpoint returned HTTP %d: %s", resp.StatusCode, snippet(raw, 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("chat response carried no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// parseJSONObject extracts and unmarshals the JSON object embedded in an
// LLM reply.
func parseJSONObject(reply string) (map[string]any, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start != -1 && end >= start {
		reply = reply[start : end+1]
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(reply), &obj); err != nil {
		return nil, fmt.Errorf("reply is not a JSON object: %w", err)
	}
	return obj, nil
}

func snippet(raw []byte, n int) string {
	s := string(raw)
	if len(s) > n {
		s = s[:n]
	}
	return s
}
