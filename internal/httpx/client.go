// Package httpx is the shared HTTP client for backend collaborators. It
// applies the common failure policy: bounded per-attempt timeouts, timeout
// errors classified separately from other network errors, and bounded
// exponential retry for timeouts and 5xx responses only.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"takeout-storefront/internal/domain"
)

// Client wraps http.Client with the retry policy shared by all backend
// collaborators.
type Client struct {
	http        *http.Client
	maxAttempts int
	logger      *log.Logger
}

// New builds a Client. maxAttempts counts the first try; values below 1 are
// treated as 1 (no retry).
func New(timeout time.Duration, maxAttempts int, logger *log.Logger) *Client {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Client{
		http:        &http.Client{Timeout: timeout},
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// GetJSON fetches url and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	return c.do(ctx, http.MethodGet, url, nil, out)
}

// PostJSON posts in as JSON to url and decodes the response into out.
// out may be nil when the response body does not matter.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, url, body, out)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	operation := func() error {
		return c.attempt(ctx, method, url, body, out)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.maxAttempts-1)), ctx)
	err := backoff.Retry(operation, policy)
	if err != nil && c.logger != nil {
		c.logger.Printf("%s %s failed: %v", method, url, err)
	}
	return err
}

// attempt runs one request. It returns a permanent error for failures the
// retry policy must not repeat (4xx, schema mismatches).
func (c *Client) attempt(ctx context.Context, method, url string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return backoff.Permanent(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportErr(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return classifyTransportErr(err)
	}

	switch {
	case resp.StatusCode >= 500:
		// retryable
		return domain.NewError(domain.CodeNetwork, fmt.Sprintf("backend returned %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return backoff.Permanent(serviceError(resp.StatusCode, raw))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return backoff.Permanent(domain.NewError(domain.CodeSchemaError, "unexpected response shape: "+err.Error()))
	}
	return nil
}

// serviceError surfaces a well-formed {code, message} error body with its
// stable code; anything else becomes a plain NETWORK error.
func serviceError(status int, raw []byte) error {
	var coded domain.Error
	if err := json.Unmarshal(raw, &coded); err == nil && coded.Code != "" {
		return &coded
	}
	return domain.NewError(domain.CodeNetwork, fmt.Sprintf("backend rejected request with %d", status))
}

func classifyTransportErr(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return domain.NewError(domain.CodeTimeout, "request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return backoff.Permanent(err)
	}
	return domain.NewError(domain.CodeNetwork, err.Error())
}
