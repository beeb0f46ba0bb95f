// Package checkout computes order totals and submits orders to the backend.
package checkout

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"takeout-storefront/internal/domain"
	"takeout-storefront/internal/httpx"
)

// TotalDue is the amount charged: subtotal plus shipping minus the coupon
// discount, floored at zero so an oversized discount can never produce a
// negative charge.
func TotalDue(subtotal, shipping, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Add(shipping).Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Client submits orders to the order endpoint.
type Client struct {
	url    string
	http   *httpx.Client
	logger *log.Logger
}

// NewClient builds an order client with the standard retry envelope.
func NewClient(url string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		url:    url,
		http:   httpx.New(timeout, 3, logger),
		logger: logger,
	}
}

// Submit validates and posts the order. Backend rejections keep their
// structured code.
func (c *Client) Submit(ctx context.Context, req domain.OrderRequest) (domain.OrderConfirmation, error) {
	if err := validate(req); err != nil {
		return domain.OrderConfirmation{}, err
	}

	var conf domain.OrderConfirmation
	if err := c.http.PostJSON(ctx, c.url, req, &conf); err != nil {
		return domain.OrderConfirmation{}, err
	}
	return conf, nil
}

func validate(req domain.OrderRequest) error {
	switch {
	case req.MerchantID <= 0:
		return domain.NewError(domain.CodeValidation, "merchant id must be positive")
	case strings.TrimSpace(req.PaymentMethod) == "":
		return domain.NewError(domain.CodeValidation, "payment method required")
	case len(req.Lines) == 0:
		return domain.NewError(domain.CodeValidation, "order has no lines")
	}
	for _, line := range req.Lines {
		if line.Quantity < 1 {
			return domain.NewError(domain.CodeValidation, "line quantity must be at least 1")
		}
	}
	return nil
}
