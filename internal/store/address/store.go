// Package address holds per-user shipping addresses plus the transient
// delivery-location override. Saved addresses write through the persister;
// the delivery location never does.
package address

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"takeout-storefront/internal/domain"
)

// Persister is the write-through persistence hook. Nil keeps the store in
// memory only.
type Persister interface {
	SaveAddresses(ctx context.Context, userID string, addrs []domain.ShippingAddress) error
}

// Store keeps one address list per user. At most one address per user is
// flagged default.
type Store struct {
	mu            sync.Mutex
	addresses     map[string][]domain.ShippingAddress
	selected      map[string]string
	currentUserID string
	delivery      *domain.DeliveryLocation
	persister     Persister
	logger        *log.Logger
}

// New builds a Store, optionally seeded with persisted addresses.
func New(persister Persister, initial map[string][]domain.ShippingAddress, logger *log.Logger) *Store {
	addresses := make(map[string][]domain.ShippingAddress, len(initial))
	for userID, list := range initial {
		addresses[userID] = append([]domain.ShippingAddress(nil), list...)
	}
	return &Store{
		addresses: addresses,
		selected:  make(map[string]string),
		persister: persister,
		logger:    logger,
	}
}

func (s *Store) activeKey() string {
	if s.currentUserID == "" {
		return domain.GuestUserID
	}
	return s.currentUserID
}

// SetUser switches the active slot and resets the selection to that user's
// default (or first) address.
func (s *Store) SetUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentUserID = userID
}

// Save upserts an address for the active user. New addresses get a generated
// id. Setting isDefault clears the flag on every other address of the same
// user, and the saved address becomes the selection.
func (s *Store) Save(ctx context.Context, addr domain.ShippingAddress) (domain.ShippingAddress, error) {
	if err := validate(addr); err != nil {
		return domain.ShippingAddress{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if addr.ID == "" {
		addr.ID = uuid.NewString()
	}

	key := s.activeKey()
	list := s.addresses[key]

	updated := false
	for i := range list {
		if list[i].ID == addr.ID {
			list[i] = addr
			updated = true
			break
		}
	}
	if !updated {
		list = append(list, addr)
	}

	if addr.IsDefault {
		for i := range list {
			if list[i].ID != addr.ID {
				list[i].IsDefault = false
			}
		}
	}

	s.addresses[key] = list
	s.selected[key] = addr.ID
	s.writeThrough(ctx, key)
	return addr, nil
}

// Remove deletes an address. When the removed address was selected, the
// selection falls back to the default, then the first remaining address.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.activeKey()
	list := s.addresses[key]

	for i := range list {
		if list[i].ID == id {
			list = append(list[:i], list[i+1:]...)
			s.addresses[key] = list
			if s.selected[key] == id {
				s.selected[key] = fallbackSelection(list)
			}
			s.writeThrough(ctx, key)
			return
		}
	}
}

// Select marks an address as the delivery choice. Unknown ids for the
// current user are a no-op.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.activeKey()
	for _, addr := range s.addresses[key] {
		if addr.ID == id {
			s.selected[key] = id
			return
		}
	}
}

// Selected resolves the active delivery address: the explicit selection,
// else the default-flagged address, else the first.
func (s *Store) Selected() (domain.ShippingAddress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.activeKey()
	list := s.addresses[key]

	if id := s.selected[key]; id != "" {
		for _, addr := range list {
			if addr.ID == id {
				return addr, true
			}
		}
	}
	for _, addr := range list {
		if addr.IsDefault {
			return addr, true
		}
	}
	if len(list) > 0 {
		return list[0], true
	}
	return domain.ShippingAddress{}, false
}

// Addresses returns a copy of the active user's address list.
func (s *Store) Addresses() []domain.ShippingAddress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ShippingAddress(nil), s.addresses[s.activeKey()]...)
}

// SetDeliveryLocation stores the transient current-position override.
func (s *Store) SetDeliveryLocation(loc domain.DeliveryLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delivery = &loc
}

// ClearDeliveryLocation drops the override.
func (s *Store) ClearDeliveryLocation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delivery = nil
}

// DeliveryLocation returns the current override, if any.
func (s *Store) DeliveryLocation() (domain.DeliveryLocation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delivery == nil {
		return domain.DeliveryLocation{}, false
	}
	return *s.delivery, true
}

func (s *Store) writeThrough(ctx context.Context, key string) {
	if s.persister == nil {
		return
	}
	if err := s.persister.SaveAddresses(ctx, key, s.addresses[key]); err != nil && s.logger != nil {
		s.logger.Printf("persist addresses for %q: %v", key, err)
	}
}

func fallbackSelection(list []domain.ShippingAddress) string {
	for _, addr := range list {
		if addr.IsDefault {
			return addr.ID
		}
	}
	if len(list) > 0 {
		return list[0].ID
	}
	return ""
}

func validate(addr domain.ShippingAddress) error {
	switch {
	case strings.TrimSpace(addr.FullName) == "":
		return domain.NewError(domain.CodeValidation, "full name required")
	case strings.TrimSpace(addr.AddressLine1) == "":
		return domain.NewError(domain.CodeValidation, "address line required")
	case strings.TrimSpace(addr.City) == "":
		return domain.NewError(domain.CodeValidation, "city required")
	case strings.TrimSpace(addr.Phone) == "":
		return domain.NewError(domain.CodeValidation, "phone required")
	}
	return nil
}
