package rates

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"takeout-storefront/internal/currency"
	"takeout-storefront/internal/domain"
)

// Fetcher is the collaborator producing fresh rates.
type Fetcher interface {
	FetchRates(ctx context.Context) ([]domain.ExchangeRate, error)
}

// ManagerConfig tunes the refresh loop.
type ManagerConfig struct {
	Interval     time.Duration // tick interval between staleness checks
	MaxAge       time.Duration // rates older than this are refetched
	FetchOnStart bool
}

// Manager refreshes the rate store on a schedule. At most one fetch is in
// flight at a time; triggers arriving during a fetch are dropped, not
// queued.
type Manager struct {
	store    *Store
	fetcher  Fetcher
	cfg      ManagerConfig
	inFlight atomic.Bool
	logger   *log.Logger
}

// NewManager wires a Manager. Zero config fields fall back to 30m interval
// and 45m max age.
func NewManager(store *Store, fetcher Fetcher, cfg ManagerConfig, logger *log.Logger) *Manager {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 45 * time.Minute
	}
	return &Manager{store: store, fetcher: fetcher, cfg: cfg, logger: logger}
}

// Run drives the periodic refresh until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	if m.cfg.FetchOnStart {
		m.RefreshIfStale(ctx)
	}

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.RefreshIfStale(ctx)
		}
	}
}

// RefreshIfStale fetches only when the current rates are older than MaxAge.
// Reports whether a fetch ran.
func (m *Manager) RefreshIfStale(ctx context.Context) bool {
	if currency.AreRatesRecent(m.store.Snapshot().LastUpdated, m.cfg.MaxAge) {
		return false
	}
	return m.Refresh(ctx)
}

// Refresh runs one fetch, guarded so a second caller while one is in flight
// is dropped. Reports whether this call performed the fetch.
func (m *Manager) Refresh(ctx context.Context) bool {
	if !m.inFlight.CompareAndSwap(false, true) {
		return false
	}
	defer m.inFlight.Store(false)

	m.store.FetchStart()
	currencies, err := m.fetcher.FetchRates(ctx)
	if err != nil {
		if m.logger != nil {
			m.logger.Printf("exchange rate fetch failed: %v", err)
		}
		m.store.FetchFailure(err)
		return true
	}
	m.store.FetchSuccess(currencies)
	return true
}
