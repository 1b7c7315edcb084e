// Package upstream is the HTTP client for the platform's remote REST
// backend. The client is constructed explicitly and injected wherever it
// is needed; there is deliberately no package-level shared instance.
//
// Backend conventions: every resource exposes GET /{resource},
// GET /{resource}/{id}, POST /{resource}/add, PATCH /{resource}/{id} and
// DELETE /{resource}/{id}. Successful payloads arrive wrapped in a
// { "data": ... } envelope. Calls carry cookie-based credentials
// automatically through the client's cookie jar. No retries, no backoff:
// a failed call is surfaced once, classified.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Config controls client construction.
type Config struct {
	// BaseURL is the fixed HTTPS origin of the backend API.
	BaseURL string
	// Timeout bounds each call. Defaults to 30s when zero.
	Timeout time.Duration
	// HTTPClient overrides the underlying client (tests). When nil, a
	// client with a fresh cookie jar is built.
	HTTPClient *http.Client
	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Client issues resource calls against the backend origin.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

// envelope is the backend's success wrapper.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// NewClient constructs a backend client from Config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("upstream: base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("upstream: parse base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("upstream: base URL %q must be absolute", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		jar, jarErr := cookiejar.New(nil)
		if jarErr != nil {
			return nil, fmt.Errorf("upstream: cookie jar: %w", jarErr)
		}
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Jar: jar, Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{base: base, http: httpClient, logger: logger}, nil
}

// List fetches the full collection at path and returns the raw envelope
// payload (a JSON array in server order).
func (c *Client) List(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Get fetches a single resource by ID.
func (c *Client) Get(ctx context.Context, path, id string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, joinPath(path, id), nil)
}

// Create posts a new resource to the conventional add endpoint.
func (c *Client) Create(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, joinPath(path, "add"), body)
}

// Update patches an existing resource.
func (c *Client) Update(ctx context.Context, path, id string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, joinPath(path, id), body)
}

// Delete removes a resource.
func (c *Client) Delete(ctx context.Context, path, id string) error {
	_, err := c.do(ctx, http.MethodDelete, joinPath(path, id), nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	target := c.base.JoinPath(path)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, netError("encode request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, netError("create request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "upstream request failed",
			"method", method, "path", path, "error", err)
		return nil, netError(method+" "+path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var env envelope
		if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr != nil {
			return nil, netError("decode response envelope", decodeErr)
		}
		return env.Data, nil
	case http.StatusNoContent:
		return nil, nil
	default:
		return nil, c.errorFromResponse(ctx, resp, method, path)
	}
}

// errorFromResponse builds a classified APIError, pulling the backend's
// message out of the body when one is present.
func (c *Client) errorFromResponse(ctx context.Context, resp *http.Response, method, path string) error {
	msg := ""
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 8192))
	if readErr == nil && len(raw) > 0 {
		var env envelope
		if json.Unmarshal(raw, &env) == nil && env.Message != "" {
			msg = env.Message
		}
	}

	kind := classifyStatus(resp.StatusCode)
	c.logger.WarnContext(ctx, "upstream call rejected",
		"method", method, "path", path,
		"status", resp.StatusCode, "kind", string(kind))

	return &APIError{Kind: kind, StatusCode: resp.StatusCode, Message: msg}
}

// DecodeList unmarshals a raw envelope payload into a typed slice,
// preserving server order. A nil payload yields an empty slice.
func DecodeList[T any](raw json.RawMessage) ([]T, error) {
	if len(raw) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, netError("decode collection", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func joinPath(path, tail string) string {
	return strings.TrimSuffix(path, "/") + "/" + tail
}
