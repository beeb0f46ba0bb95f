// Package geo wraps the forward and reverse geocoding endpoints used to
// populate shipping addresses and the delivery-location override. Lookups
// are user-interactive, so they time out but are never retried.
package geo

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"takeout-storefront/internal/domain"
	"takeout-storefront/internal/httpx"
)

// Client calls the geocoding endpoints.
type Client struct {
	baseURL string
	http    *httpx.Client
	logger  *log.Logger
}

// NewClient builds a geocoding client.
func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpx.New(timeout, 1, logger),
		logger:  logger,
	}
}

type geocodeResponse struct {
	Data *[]domain.GeocodeResult `json:"data"`
}

// Forward resolves a free-text query to address candidates.
func (c *Client) Forward(ctx context.Context, query string) ([]domain.GeocodeResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewError(domain.CodeValidation, "query required")
	}

	var resp geocodeResponse
	u := c.baseURL + "/search?q=" + url.QueryEscape(query)
	if err := c.http.GetJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, domain.NewError(domain.CodeSchemaError, "geocode response missing data field")
	}
	return *resp.Data, nil
}

// Reverse resolves coordinates to the nearest address.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (domain.GeocodeResult, error) {
	var resp geocodeResponse
	u := fmt.Sprintf("%s/reverse?lat=%f&lng=%f", c.baseURL, lat, lng)
	if err := c.http.GetJSON(ctx, u, &resp); err != nil {
		return domain.GeocodeResult{}, err
	}
	if resp.Data == nil || len(*resp.Data) == 0 {
		return domain.GeocodeResult{}, domain.ErrNotFound
	}
	return (*resp.Data)[0], nil
}
