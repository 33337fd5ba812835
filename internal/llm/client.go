// Package llm wraps an OpenAI-compatible chat-completions gateway. All
// content generation and insight narration goes through ChatJSON.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dillontadeo/ai-content-pipeline/internal/logger"
)

const (
	defaultHTTPTimeout  = 25 * time.Second
	defaultMaxRetryTime = 45 * time.Second
)

type Client struct {
	apiKey  string
	model   string
	baseURL string

	httpClient   *http.Client
	maxRetryTime time.Duration
}

func NewClient(apiKey, model, baseURL string) *Client {
	return &Client{
		apiKey:       apiKey,
		model:        model,
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		maxRetryTime: defaultMaxRetryTime,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []message      `json:"messages"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
	Temperature    float64        `json:"temperature"`
}

// ChatJSON sends a system+user prompt pair in JSON mode and returns the raw
// JSON object extracted from the model's reply. Server-side errors are
// retried with exponential backoff; 4xx responses are permanent.
func (c *Client) ChatJSON(ctx context.Context, system, user string, temperature float64) ([]byte, error) {
	log := logger.Component("llm")

	if c.apiKey == "" {
		return nil, fmt.Errorf("llm gateway not configured")
	}

	body, _ := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: map[string]any{"type": "json_object"},
		Temperature:    temperature,
	})

	var out []byte
	var lastErr error

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			log.WithError(err).Warn("llm request failed")
			return err
		}
		defer resp.Body.Close()

		raw, _ := io.ReadAll(resp.Body)
		log.WithField("http_status", resp.StatusCode).Debug("llm response received")

		// Try choices[0].message.content (OpenAI-like)
		if inner := extractContentFromChoices(raw); inner != "" {
			out = []byte(inner)
			lastErr = nil
			return nil
		}

		// Fallback: first balanced JSON object anywhere in the body
		if fallback := extractJSON(string(raw)); fallback != "" {
			out = []byte(fallback)
			lastErr = nil
			return nil
		}

		lastErr = fmt.Errorf("no JSON found in llm output (status %d)", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(lastErr)
		}
		return lastErr
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.maxRetryTime

	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return nil, fmt.Errorf("llm call failed: %w", lastErr)
	}
	return out, nil
}

// extractContentFromChoices reads openai-style choices[0].message.content
// and pulls the JSON object out of it.
func extractContentFromChoices(body []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return ""
	}

	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		return ""
	}
	c0, _ := choices[0].(map[string]any)
	if c0 == nil {
		return ""
	}
	msg, _ := c0["message"].(map[string]any)
	if msg == nil {
		return ""
	}
	content, _ := msg["content"].(string)
	return extractJSON(content)
}

// extractJSON finds the first balanced JSON object in a string, stripping
// common markdown fences first.
func extractJSON(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ReplaceAll(s, "\r\n", "\n")
	for _, fence := range []string{"```json", "```yaml", "```text", "```", "`json", "`"} {
		s = strings.ReplaceAll(s, fence, "")
	}

	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := strings.TrimSpace(s[start : i+1])
				var tmp any
				if json.Unmarshal([]byte(candidate), &tmp) == nil {
					return candidate
				}
				// best effort: return the candidate even if it won't parse
				return candidate
			}
		}
	}

	return ""
}
