// Package coupon talks to the coupon endpoint and re-checks coupon validity
// locally. The backend stays authoritative; the local checks only exist so
// obviously invalid coupons fail fast with the same stable codes the
// backend would return.
package coupon

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"takeout-storefront/internal/domain"
	"takeout-storefront/internal/httpx"
)

// Client calls the coupon endpoint.
type Client struct {
	url    string
	http   *httpx.Client
	logger *log.Logger
}

// NewClient builds a coupon client with the standard retry envelope.
func NewClient(url string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		url:    url,
		http:   httpx.New(timeout, 3, logger),
		logger: logger,
	}
}

type applyRequest struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Apply submits the code for validation against the given subtotal. The
// backend returns the full coupon record, which is re-checked locally
// (validity window, usage quota, minimum order) before the attachable form
// is returned; rejections keep their stable code whether they came from the
// backend or the local check.
func (c *Client) Apply(ctx context.Context, code string, subtotal decimal.Decimal) (domain.AppliedCoupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.AppliedCoupon{}, domain.NewError(domain.CodeValidation, "coupon code required")
	}

	var record domain.Coupon
	if err := c.http.PostJSON(ctx, c.url+"/apply", applyRequest{Code: code, Subtotal: subtotal}, &record); err != nil {
		return domain.AppliedCoupon{}, err
	}
	if err := Validate(record, subtotal, time.Now()); err != nil {
		return domain.AppliedCoupon{}, err
	}
	return record.Applied(), nil
}

type listResponse struct {
	Data *[]domain.Coupon `json:"data"`
}

// List fetches the coupons available to the storefront.
func (c *Client) List(ctx context.Context) ([]domain.Coupon, error) {
	var resp listResponse
	if err := c.http.GetJSON(ctx, c.url, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, domain.NewError(domain.CodeSchemaError, "coupon response missing data field")
	}
	return *resp.Data, nil
}

// Validate re-checks a coupon against the cart subtotal and clock: within
// the validity window, under its usage quota, and above the minimum order
// amount. Zero dates and a zero quota mean the record carries no such
// limit.
func Validate(c domain.Coupon, subtotal decimal.Decimal, now time.Time) error {
	switch {
	case !c.StartDate.IsZero() && now.Before(c.StartDate):
		return domain.NewError(domain.CodeCouponNotStarted, "coupon is not active yet")
	case !c.EndDate.IsZero() && now.After(c.EndDate):
		return domain.NewError(domain.CodeCouponExpired, "coupon expired")
	case c.ValidCount > 0 && c.UseCount >= c.ValidCount:
		return domain.NewError(domain.CodeCouponExhausted, "coupon usage exhausted")
	case subtotal.LessThan(c.MinOrderAmount):
		return domain.NewError(domain.CodeCouponBelowMin, "cart subtotal below coupon minimum")
	}
	return nil
}
