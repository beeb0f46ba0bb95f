package rates

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"takeout-storefront/internal/domain"
	"takeout-storefront/internal/httpx"
)

// Client fetches exchange rates from the backend. Exactly one response
// schema is accepted: {"data": [{currency_code, rate, ...}]}. Anything else
// is a SCHEMA_ERROR.
type Client struct {
	url    string
	http   *httpx.Client
	logger *log.Logger
}

// NewClient builds a rate client with the standard retry envelope.
func NewClient(url string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		url:    url,
		http:   httpx.New(timeout, 3, logger),
		logger: logger,
	}
}

type rateDTO struct {
	CurrencyCode string      `json:"currency_code"`
	Rate         json.Number `json:"rate"`
	Symbol       string      `json:"symbol"`
	DecimalPlace int         `json:"decimal_place"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type ratesResponse struct {
	Data *[]rateDTO `json:"data"`
}

// FetchRates returns the currency list. Unparseable individual rates come
// back as zero so the store can substitute its fallback; a response without
// the data field fails outright.
func (c *Client) FetchRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	var resp ratesResponse
	if err := c.http.GetJSON(ctx, c.url, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, domain.NewError(domain.CodeSchemaError, "rate response missing data field")
	}

	out := make([]domain.ExchangeRate, 0, len(*resp.Data))
	for _, dto := range *resp.Data {
		rate, err := decimal.NewFromString(dto.Rate.String())
		if err != nil {
			if c.logger != nil {
				c.logger.Printf("unparseable rate %q for %s", dto.Rate, dto.CurrencyCode)
			}
			rate = decimal.Zero
		}
		out = append(out, domain.ExchangeRate{
			CurrencyCode:  dto.CurrencyCode,
			Rate:          rate,
			Symbol:        dto.Symbol,
			DecimalPlaces: dto.DecimalPlace,
			UpdatedAt:     dto.UpdatedAt,
		})
	}
	return out, nil
}
