// Package cart holds the per-user cart slots. All mutations are synchronous
// and atomic under one mutex; a failed validation leaves the slot exactly as
// it was. Every successful mutation writes through the persister so carts
// survive restarts.
package cart

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"takeout-storefront/internal/domain"
)

// Persister is the write-through persistence hook. A nil Persister keeps the
// store purely in memory.
type Persister interface {
	SaveCart(ctx context.Context, userID string, cart domain.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}

// Store keeps one cart per user, keyed by user id with a guest slot for
// unauthenticated sessions.
type Store struct {
	mu            sync.Mutex
	carts         map[string]domain.Cart
	currentUserID string // empty means guest
	persister     Persister
	logger        *log.Logger
}

// New builds a Store, optionally seeded with persisted carts.
func New(persister Persister, initial map[string]domain.Cart, logger *log.Logger) *Store {
	carts := make(map[string]domain.Cart, len(initial))
	for userID, c := range initial {
		carts[userID] = c
	}
	return &Store{carts: carts, persister: persister, logger: logger}
}

func (s *Store) activeKey() string {
	if s.currentUserID == "" {
		return domain.GuestUserID
	}
	return s.currentUserID
}

// CurrentUserID returns the active user id, or "" for a guest session.
func (s *Store) CurrentUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentUserID
}

// Cart returns a copy of the active user's cart.
func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCart(s.carts[s.activeKey()])
}

// TotalItems is the sum of quantities in the active cart.
func (s *Store) TotalItems() int {
	return s.Cart().TotalItems()
}

// Subtotal is the active cart's subtotal in the base currency.
func (s *Store) Subtotal() decimal.Decimal {
	return s.Cart().Subtotal()
}

// AddItem appends item to the active cart, merging quantities when a line
// with the same id already exists. Adding an item from a different merchant
// than the cart's current one fails with DIFFERENT_MERCHANT unless replace
// is set, in which case the cart (and any coupon) is cleared first.
func (s *Store) AddItem(ctx context.Context, item domain.CartItem, replace bool) (domain.Cart, error) {
	if err := validateItem(item); err != nil {
		return s.Cart(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.activeKey()
	cart := s.carts[key]

	if len(cart.Items) > 0 && cart.Items[0].MerchantID != item.MerchantID {
		if !replace {
			return copyCart(cart), domain.NewError(domain.CodeDifferentMerchant,
				fmt.Sprintf("cart holds items from merchant %d", cart.Items[0].MerchantID))
		}
		cart.Items = nil
		cart.AppliedCoupon = nil
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ID == item.ID {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}

	s.commit(ctx, key, &cart)
	return copyCart(cart), nil
}

// DecreaseItem lowers the line's quantity by one, removing the line when it
// reaches zero. Absent ids are a no-op.
func (s *Store) DecreaseItem(ctx context.Context, itemID int64) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.activeKey()
	cart := s.carts[key]

	for i := range cart.Items {
		if cart.Items[i].ID != itemID {
			continue
		}
		if cart.Items[i].Quantity > 1 {
			cart.Items[i].Quantity--
		} else {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		}
		s.commit(ctx, key, &cart)
		break
	}
	return copyCart(cart)
}

// RemoveItem deletes the line regardless of quantity. Absent ids are a no-op.
func (s *Store) RemoveItem(ctx context.Context, itemID int64) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.activeKey()
	cart := s.carts[key]

	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			s.commit(ctx, key, &cart)
			break
		}
	}
	return copyCart(cart)
}

// Clear empties the active cart and detaches any coupon.
func (s *Store) Clear(ctx context.Context) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.activeKey()
	cart := s.carts[key]
	cart.Items = nil
	cart.AppliedCoupon = nil
	s.commit(ctx, key, &cart)
	return copyCart(cart)
}

// SetUser switches the active cart slot. A login from a guest session merges
// the guest cart into the user's cart: an empty target takes the guest cart
// wholesale, a same-merchant target merges line by line, and a
// different-merchant target is replaced by the guest cart. The guest slot is
// deleted afterwards.
func (s *Store) SetUser(ctx context.Context, userID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasGuest := s.currentUserID == "" || s.currentUserID == domain.GuestUserID
	if userID != "" && userID != domain.GuestUserID && wasGuest {
		if guest, ok := s.carts[domain.GuestUserID]; ok && len(guest.Items) > 0 {
			target := s.carts[userID]
			mergeCarts(&target, guest)
			s.commit(ctx, userID, &target)
			delete(s.carts, domain.GuestUserID)
			s.deletePersisted(ctx, domain.GuestUserID)
		}
	}

	s.currentUserID = userID
	return copyCart(s.carts[s.activeKey()])
}

// Logout clears the departing user's slot and returns the session to guest.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.activeKey()
	delete(s.carts, key)
	s.deletePersisted(ctx, key)
	s.currentUserID = ""
}

// ApplyCoupon attaches a backend-accepted coupon to the active cart after
// checking the subtotal still clears the coupon's minimum.
func (s *Store) ApplyCoupon(ctx context.Context, coupon domain.AppliedCoupon) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.activeKey()
	cart := s.carts[key]

	if cart.Subtotal().LessThan(coupon.MinOrderAmount) {
		return copyCart(cart), domain.NewError(domain.CodeCouponBelowMin,
			fmt.Sprintf("cart subtotal below coupon minimum of %s", coupon.MinOrderAmount))
	}

	cart.AppliedCoupon = &coupon
	s.commit(ctx, key, &cart)
	return copyCart(cart), nil
}

// RemoveCoupon detaches the coupon from the active cart.
func (s *Store) RemoveCoupon(ctx context.Context) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.activeKey()
	cart := s.carts[key]
	if cart.AppliedCoupon != nil {
		cart.AppliedCoupon = nil
		s.commit(ctx, key, &cart)
	}
	return copyCart(cart)
}

// commit finalizes a mutation: drop a coupon the cart no longer qualifies
// for, bump the slot version, and write through.
func (s *Store) commit(ctx context.Context, key string, cart *domain.Cart) {
	if cart.AppliedCoupon != nil && cart.Subtotal().LessThan(cart.AppliedCoupon.MinOrderAmount) {
		cart.AppliedCoupon = nil
	}
	cart.LastUpdated = time.Now()
	cart.Version++
	s.carts[key] = *cart

	if s.persister == nil {
		return
	}
	if err := s.persister.SaveCart(ctx, key, *cart); err != nil && s.logger != nil {
		s.logger.Printf("persist cart for %q: %v", key, err)
	}
}

func (s *Store) deletePersisted(ctx context.Context, key string) {
	if s.persister == nil {
		return
	}
	if err := s.persister.DeleteCart(ctx, key); err != nil && s.logger != nil {
		s.logger.Printf("delete persisted cart for %q: %v", key, err)
	}
}

func mergeCarts(target *domain.Cart, source domain.Cart) {
	switch {
	case len(target.Items) == 0:
		target.Items = append([]domain.CartItem(nil), source.Items...)
		target.AppliedCoupon = source.AppliedCoupon
	case target.Items[0].MerchantID == source.Items[0].MerchantID:
		for _, item := range source.Items {
			merged := false
			for i := range target.Items {
				if target.Items[i].ID == item.ID {
					target.Items[i].Quantity += item.Quantity
					merged = true
					break
				}
			}
			if !merged {
				target.Items = append(target.Items, item)
			}
		}
		if target.AppliedCoupon == nil {
			target.AppliedCoupon = source.AppliedCoupon
		}
	default:
		target.Items = append([]domain.CartItem(nil), source.Items...)
		target.AppliedCoupon = source.AppliedCoupon
	}
}

func validateItem(item domain.CartItem) error {
	switch {
	case item.ID <= 0:
		return domain.NewError(domain.CodeValidation, "item id must be positive")
	case item.MerchantID <= 0:
		return domain.NewError(domain.CodeValidation, "merchant id must be positive")
	case strings.TrimSpace(item.Name) == "":
		return domain.NewError(domain.CodeValidation, "item name required")
	case item.Quantity < 1:
		return domain.NewError(domain.CodeValidation, "quantity must be at least 1")
	case item.Price.IsNegative():
		return domain.NewError(domain.CodeValidation, "price cannot be negative")
	case item.DiscountPrice != nil && item.DiscountPrice.IsNegative():
		return domain.NewError(domain.CodeValidation, "discount price cannot be negative")
	case item.DiscountAmount != nil && item.DiscountAmount.IsNegative():
		return domain.NewError(domain.CodeValidation, "discount amount cannot be negative")
	}
	return nil
}

func copyCart(c domain.Cart) domain.Cart {
	out := c
	out.Items = append([]domain.CartItem(nil), c.Items...)
	if c.AppliedCoupon != nil {
		coupon := *c.AppliedCoupon
		out.AppliedCoupon = &coupon
	}
	return out
}
