// Package predict is the HTTP client for the emotion prediction endpoint.
package predict

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

	"github.com/rs/zerolog"

	"github.com/hearmony/backend/internal/analysis/message"
)

// Path is the endpoint the recorder posts to.
const Path = "/predict"

var (
	// ErrNullBody is returned when the server answers with a JSON null.
	ErrNullBody = errors.New("prediction response is null")
)

// Config controls how the client reaches the prediction server.
type Config struct {
	BaseURL string
	// Timeout bounds a single request. Zero means no timeout.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Response is a decoded prediction response.
// The status code is recorded but never used to pick a branch.
type Response struct {
	StatusCode int
	Body       json.RawMessage
	fields     map[string]json.RawMessage
}

// Emotion returns the raw `emotion` member of the body.
func (r *Response) Emotion() message.Field {
	raw, ok := r.fields["emotion"]
	return message.Field{Raw: raw, Present: ok}
}

// Client posts to the prediction endpoint.
type Client struct {
	url  string
	http *http.Client
	log  zerolog.Logger
}

// NewClient creates a prediction client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		url:  strings.TrimRight(cfg.BaseURL, "/") + Path,
		http: httpClient,
		log:  logger.With().Str("component", "predict_client").Logger(),
	}
}

// URL returns the fully qualified endpoint.
func (c *Client) URL() string {
	return c.url
}

// Predict issues one POST with no body and no custom headers.
func (c *Client) Predict(ctx context.Context) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build prediction request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send prediction request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read prediction response: %w", err)
	}

	c.log.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("prediction response")

	return DecodeResponse(resp.StatusCode, body)
}

// DecodeResponse accepts any JSON document. Objects expose their members;
// other non-null values decode to an object with no members.
func DecodeResponse(status int, body []byte) (*Response, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode prediction response: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrNullBody
	}

	fields := map[string]json.RawMessage{}
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil, fmt.Errorf("decode prediction object: %w", err)
		}
	}

	return &Response{StatusCode: status, Body: raw, fields: fields}, nil
}
