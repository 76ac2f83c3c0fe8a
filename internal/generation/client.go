// Package generation calls the generation proxy endpoint from a client
// process.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cookiverse/cookiverse/internal/dto"
)

var ErrEmptyResponse = errors.New("proxy returned no generated text")

// ProxyError is a non-2xx answer from the proxy.
type ProxyError struct {
	Status  int
	Message string
	Details string
}

func (e *ProxyError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("proxy returned %d: %s: %s", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("proxy returned %d: %s", e.Status, e.Message)
}

// Client posts prompts to POST /api/gemini and returns the first candidate's
// text.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{url: url, http: &http.Client{Timeout: timeout}}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(dto.NewGeminiRequest(prompt))
	if err != nil {
		return "", fmt.Errorf("encoding proxy request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building proxy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling generation proxy: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading proxy response: %w", err)
	}
	slog.DebugContext(ctx, "generation proxy answered", "status", resp.StatusCode, "latency_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e dto.GeminiErrorResponse
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(raw))
		}
		return "", &ProxyError{Status: resp.StatusCode, Message: e.Error, Details: e.Details}
	}

	var out dto.GeminiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decoding proxy response: %w", err)
	}
	text := out.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
