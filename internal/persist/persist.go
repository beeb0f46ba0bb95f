// Package persist stores per-user state as versioned JSON envelopes so that
// carts, addresses, and display preferences survive restarts. Every mutating
// store action writes through here; payload shape changes bump SchemaVersion
// and get a migration in migratePayload.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"takeout-storefront/internal/domain"
)

// SchemaVersion is the current envelope payload version.
const SchemaVersion = 2

// State kinds persisted per user.
const (
	KindCart        = "cart"
	KindAddresses   = "addresses"
	KindPreferences = "preferences"
)

// Envelope wraps a payload with the schema version it was written under.
type Envelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	Payload       json.RawMessage `json:"payload"`
}

// Store is the Postgres-backed envelope store.
type Store struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres builds a Store on the given pool.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

func (s *Store) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func (s *Store) save(ctx context.Context, userID, kind string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	const q = `
INSERT INTO state_entries (user_id, kind, schema_version, payload, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (user_id, kind)
DO UPDATE SET schema_version = EXCLUDED.schema_version,
              payload = EXCLUDED.payload,
              updated_at = now()
`
	if _, err := s.pool.Exec(ctx, q, userID, kind, SchemaVersion, raw); err != nil {
		return fmt.Errorf("upsert %s state: %w", kind, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, userID, kind string) error {
	const q = `DELETE FROM state_entries WHERE user_id = $1 AND kind = $2`
	if _, err := s.pool.Exec(ctx, q, userID, kind); err != nil {
		return fmt.Errorf("delete %s state: %w", kind, err)
	}
	return nil
}

// loadKind streams every row of one kind through fn, migrating older
// payloads first. Rows that cannot be migrated or decoded are logged and
// skipped rather than failing the whole load.
func (s *Store) loadKind(ctx context.Context, kind string, fn func(userID string, payload json.RawMessage) error) error {
	const q = `SELECT user_id, schema_version, payload FROM state_entries WHERE kind = $1`
	rows, err := s.pool.Query(ctx, q, kind)
	if err != nil {
		return fmt.Errorf("query %s state: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		var version int
		var raw json.RawMessage
		if err := rows.Scan(&userID, &version, &raw); err != nil {
			return err
		}
		migrated, err := migratePayload(kind, version, raw)
		if err != nil {
			s.logf("skip %s state for %q: %v", kind, userID, err)
			continue
		}
		if err := fn(userID, migrated); err != nil {
			s.logf("skip %s state for %q: %v", kind, userID, err)
		}
	}
	return rows.Err()
}

// migratePayload upgrades a payload written under an older schema version.
// Version 1 carts stored the bare item list; version 2 wraps it in the cart
// object with a slot version counter.
func migratePayload(kind string, version int, raw json.RawMessage) (json.RawMessage, error) {
	switch {
	case version == SchemaVersion:
		return raw, nil
	case version == 1 && kind == KindCart:
		var items []domain.CartItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("migrate cart v1: %w", err)
		}
		return json.Marshal(domain.Cart{Items: items, Version: 1})
	case version == 1:
		// v1 and v2 only differ for carts.
		return raw, nil
	default:
		return nil, fmt.Errorf("unknown schema version %d for kind %s", version, kind)
	}
}

// SaveCart writes one user's cart slot.
func (s *Store) SaveCart(ctx context.Context, userID string, cart domain.Cart) error {
	return s.save(ctx, userID, KindCart, cart)
}

// DeleteCart removes one user's cart slot, used when a guest cart is merged
// away on login.
func (s *Store) DeleteCart(ctx context.Context, userID string) error {
	return s.delete(ctx, userID, KindCart)
}

// LoadCarts returns every persisted cart keyed by user id.
func (s *Store) LoadCarts(ctx context.Context) (map[string]domain.Cart, error) {
	out := make(map[string]domain.Cart)
	err := s.loadKind(ctx, KindCart, func(userID string, payload json.RawMessage) error {
		var cart domain.Cart
		if err := json.Unmarshal(payload, &cart); err != nil {
			return err
		}
		out[userID] = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SaveAddresses writes one user's address list.
func (s *Store) SaveAddresses(ctx context.Context, userID string, addrs []domain.ShippingAddress) error {
	return s.save(ctx, userID, KindAddresses, addrs)
}

// LoadAddresses returns every persisted address list keyed by user id.
func (s *Store) LoadAddresses(ctx context.Context) (map[string][]domain.ShippingAddress, error) {
	out := make(map[string][]domain.ShippingAddress)
	err := s.loadKind(ctx, KindAddresses, func(userID string, payload json.RawMessage) error {
		var addrs []domain.ShippingAddress
		if err := json.Unmarshal(payload, &addrs); err != nil {
			return err
		}
		out[userID] = addrs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SavePreferences writes one user's display preferences.
func (s *Store) SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	return s.save(ctx, userID, KindPreferences, prefs)
}

// LoadPreferences returns every persisted preference set keyed by user id.
func (s *Store) LoadPreferences(ctx context.Context) (map[string]domain.Preferences, error) {
	out := make(map[string]domain.Preferences)
	err := s.loadKind(ctx, KindPreferences, func(userID string, payload json.RawMessage) error {
		var prefs domain.Preferences
		if err := json.Unmarshal(payload, &prefs); err != nil {
			return err
		}
		out[userID] = prefs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
