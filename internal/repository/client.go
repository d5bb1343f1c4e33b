package repository

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

	"github.com/fleetpanel/fleetpanel-go/internal/metrics"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoResponse   = errors.New("no response from backend")
)

const fallbackMessage = "Something went wrong"

// APIError is a non-2xx, non-401 response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Client talks JSON to the REST backend with the caller's bearer token.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a backend client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type ctxKey int

const (
	tokenKey ctxKey = iota
	requestIDKey
)

// WithToken attaches the session token sent as the bearer credential.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// WithRequestID attaches the id forwarded to the backend as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request id attached by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token, ok := ctx.Value(tokenKey).(string); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	reqID, ok := RequestIDFromContext(ctx)
	if !ok {
		reqID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendCalls.WithLabelValues(method, "no_response").Inc()
		slog.Warn("backend request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20)) // 10MB
	if err != nil {
		metrics.BackendCalls.WithLabelValues(method, "no_response").Inc()
		return nil, fmt.Errorf("%w: reading body: %v", ErrNoResponse, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		metrics.BackendCalls.WithLabelValues(method, "unauthorized").Inc()
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		metrics.BackendCalls.WithLabelValues(method, "error").Inc()
		apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
		slog.Warn("backend error response", "method", method, "path", path, "status", resp.StatusCode, "request_id", reqID)
		return nil, apiErr
	}

	metrics.BackendCalls.WithLabelValues(method, "ok").Inc()
	return data, nil
}

// errorMessage pulls a human-readable message out of an error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallbackMessage
	}
	if payload.Message != "" {
		return payload.Message
	}
	if payload.Error != "" {
		return payload.Error
	}
	return fallbackMessage
}
