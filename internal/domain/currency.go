package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is one currency's rate relative to the base currency: how
// much base currency equals 1 unit of CurrencyCode.
type ExchangeRate struct {
	CurrencyCode  string          `json:"currencyCode"`
	Rate          decimal.Decimal `json:"rate"`
	Symbol        string          `json:"symbol"`
	DecimalPlaces int             `json:"decimalPlaces"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Preferences is the client-persisted display configuration for a user.
type Preferences struct {
	Currency string `json:"currency"`
	Locale   string `json:"locale"`
}
