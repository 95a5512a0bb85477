package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client is the generation backend port. Implementations block until
// the asset is ready or the context is cancelled.
type Client interface {
	Generate(ctx context.Context, kind, prompt string) (*Asset, error)
}

// BackendError is a non-2xx response from the generation backend.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("generation failed: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable returns true for server errors (5xx). Client errors (4xx)
// are considered permanent.
func (e *BackendError) IsRetryable() bool {
	return e.StatusCode >= 500
}

// HTTPClient talks to a real generation service.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(baseURL, token string, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			// Video generation runs for tens of seconds.
			Timeout: 5 * time.Minute,
		},
		logger: logger,
	}
}

type generateRequest struct {
	Kind   string `json:"kind"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Error        string `json:"error"`
}

func (c *HTTPClient) Generate(ctx context.Context, kind, prompt string) (*Asset, error) {
	body, err := json.Marshal(generateRequest{Kind: kind, Prompt: prompt})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &BackendError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("malformed generation response: %w", err)
	}
	if out.MediaURL == "" {
		msg := out.Error
		if msg == "" {
			msg = "no media URL returned"
		}
		return nil, fmt.Errorf("generation failed: %s", msg)
	}

	if c.logger != nil {
		c.logger.Info("generation completed",
			"kind", kind,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	return &Asset{MediaURL: out.MediaURL, ThumbnailURL: out.ThumbnailURL}, nil
}

// StubClient is used when no backend is configured. It resolves
// immediately with placeholder assets, which keeps the rest of the
// pipeline exercisable offline.
type StubClient struct {
	logger *slog.Logger
}

func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger}
}

func (c *StubClient) Generate(_ context.Context, kind, prompt string) (*Asset, error) {
	if c.logger != nil {
		c.logger.Info("generation stub: resolving placeholder asset", "kind", kind, "prompt_len", len(prompt))
	}
	ext := ".mp4"
	if kind == KindImage {
		ext = ".jpg"
	}
	return &Asset{
		MediaURL:     "https://samples.lumina.local/placeholder-" + kind + ext,
		ThumbnailURL: "https://samples.lumina.local/placeholder-" + kind + ".jpg",
	}, nil
}
