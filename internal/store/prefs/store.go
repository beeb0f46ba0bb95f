// Package prefs holds per-user display preferences: the selected currency
// and locale.
package prefs

import (
	"context"
	"log"
	"sync"

	"takeout-storefront/internal/currency"
	"takeout-storefront/internal/domain"
)

// Persister is the write-through persistence hook.
type Persister interface {
	SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error
}

// DefaultLocale is used until a user picks one.
const DefaultLocale = "en"

// Store keeps one preference set per user.
type Store struct {
	mu            sync.Mutex
	prefs         map[string]domain.Preferences
	currentUserID string
	persister     Persister
	logger        *log.Logger
}

// New builds a Store, optionally seeded with persisted preferences.
func New(persister Persister, initial map[string]domain.Preferences, logger *log.Logger) *Store {
	prefs := make(map[string]domain.Preferences, len(initial))
	for userID, p := range initial {
		prefs[userID] = p
	}
	return &Store{prefs: prefs, persister: persister, logger: logger}
}

func (s *Store) activeKey() string {
	if s.currentUserID == "" {
		return domain.GuestUserID
	}
	return s.currentUserID
}

// SetUser switches the active slot.
func (s *Store) SetUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentUserID = userID
}

// Get returns the active user's preferences, falling back to the base
// currency and default locale.
func (s *Store) Get() domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.prefs[s.activeKey()]
	if p.Currency == "" {
		p.Currency = currency.BaseCurrency
	}
	if p.Locale == "" {
		p.Locale = DefaultLocale
	}
	return p
}

// SetCurrency records the selected display currency.
func (s *Store) SetCurrency(ctx context.Context, code string) error {
	if !currency.Supported(code) {
		return domain.NewError(domain.CodeValidation, "unsupported currency "+code)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.activeKey()
	p := s.prefs[key]
	p.Currency = code
	s.prefs[key] = p
	s.writeThrough(ctx, key, p)
	return nil
}

// SetLocale records the selected locale.
func (s *Store) SetLocale(ctx context.Context, locale string) error {
	if locale == "" {
		return domain.NewError(domain.CodeValidation, "locale required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.activeKey()
	p := s.prefs[key]
	p.Locale = locale
	s.prefs[key] = p
	s.writeThrough(ctx, key, p)
	return nil
}

func (s *Store) writeThrough(ctx context.Context, key string, p domain.Preferences) {
	if s.persister == nil {
		return
	}
	if err := s.persister.SavePreferences(ctx, key, p); err != nil && s.logger != nil {
		s.logger.Printf("persist preferences for %q: %v", key, err)
	}
}
