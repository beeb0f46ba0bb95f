// Package rates owns the exchange-rate table: the store holding fetched
// rates, the typed client fetching them, and the manager refreshing them on
// a schedule.
package rates

import (
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"takeout-storefront/internal/currency"
	"takeout-storefront/internal/domain"
)

// mockRates keep conversion functional when the backend returns nothing or
// an invalid rate for a currency (units of base currency per 1 unit).
var mockRates = map[string]decimal.Decimal{
	"USD": decimal.NewFromInt(2100),
	"THB": decimal.NewFromInt(60),
	"CNY": decimal.NewFromInt(294),
	"MMK": decimal.NewFromInt(1),
}

// Store holds the fetched exchange rates and the fetch state machine:
// idle -> loading -> success or failure -> idle. A failed fetch keeps the
// previous rates; stale data beats no data.
type Store struct {
	mu          sync.Mutex
	rates       []domain.ExchangeRate
	ratesMap    map[string]decimal.Decimal
	loading     bool
	errMsg      string
	lastUpdated time.Time
	lastAttempt time.Time
	degraded    bool
	logger      *log.Logger
}

// Snapshot is a consistent read of the store for display and conversion.
type Snapshot struct {
	Rates       []domain.ExchangeRate      `json:"rates"`
	RatesMap    map[string]decimal.Decimal `json:"ratesMap"`
	Loading     bool                       `json:"loading"`
	Error       string                     `json:"error,omitempty"`
	LastUpdated time.Time                  `json:"lastUpdated"`
	LastAttempt time.Time                  `json:"lastAttempt"`
	Degraded    bool                       `json:"degraded"`
}

// NewStore builds an empty Store.
func NewStore(logger *log.Logger) *Store {
	return &Store{
		ratesMap: make(map[string]decimal.Decimal),
		logger:   logger,
	}
}

// FetchStart transitions to loading and clears the last error.
func (s *Store) FetchStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.errMsg = ""
	s.lastAttempt = time.Now()
}

// FetchSuccess replaces the rate table from a fetched currency list. Any
// currency with a missing or non-positive rate gets the hardcoded mock rate
// instead, and the store is flagged degraded so the UI can warn that pricing
// is approximate. The base currency is always pinned to 1.
func (s *Store) FetchSuccess(currencies []domain.ExchangeRate) {
	ratesMap := make(map[string]decimal.Decimal, len(currencies)+len(mockRates))
	degraded := len(currencies) == 0

	for _, c := range currencies {
		if c.Rate.IsPositive() {
			ratesMap[c.CurrencyCode] = c.Rate
			continue
		}
		if mock, ok := mockRates[c.CurrencyCode]; ok {
			if s.logger != nil {
				s.logger.Printf("invalid rate for %s, substituting mock rate %s", c.CurrencyCode, mock)
			}
			ratesMap[c.CurrencyCode] = mock
			degraded = true
		}
	}

	ratesMap[currency.BaseCurrency] = decimal.NewFromInt(1)

	// Fill any supported currency the payload skipped.
	for code, mock := range mockRates {
		if _, ok := ratesMap[code]; !ok {
			ratesMap[code] = mock
			degraded = true
		}
	}

	// The stored list must show the same figures the map converts with,
	// mock substitutions included.
	normalized := make([]domain.ExchangeRate, len(currencies))
	copy(normalized, currencies)
	for i := range normalized {
		if r, ok := ratesMap[normalized[i].CurrencyCode]; ok {
			normalized[i].Rate = r
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = normalized
	s.ratesMap = ratesMap
	s.lastUpdated = time.Now()
	s.loading = false
	s.errMsg = ""
	s.degraded = degraded
}

// FetchFailure records the error and returns to idle without touching the
// existing rates.
func (s *Store) FetchFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.errMsg = err.Error()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	ratesMap := make(map[string]decimal.Decimal, len(s.ratesMap))
	for code, rate := range s.ratesMap {
		ratesMap[code] = rate
	}
	rates := make([]domain.ExchangeRate, len(s.rates))
	copy(rates, s.rates)

	return Snapshot{
		Rates:       rates,
		RatesMap:    ratesMap,
		Loading:     s.loading,
		Error:       s.errMsg,
		LastUpdated: s.lastUpdated,
		LastAttempt: s.lastAttempt,
		Degraded:    s.degraded,
	}
}
