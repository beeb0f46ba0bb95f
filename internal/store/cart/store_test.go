package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"takeout-storefront/internal/domain"
)

func item(id, merchant int64, name string, price int64, qty int) domain.CartItem {
	return domain.CartItem{
		ID:         id,
		MerchantID: merchant,
		Name:       name,
		Price:      decimal.NewFromInt(price),
		Quantity:   qty,
	}
}

type recordingPersister struct {
	saved   map[string]domain.Cart
	deleted []string
	saveErr error
}

func newRecordingPersister() *recordingPersister {
	return &recordingPersister{saved: make(map[string]domain.Cart)}
}

func (p *recordingPersister) SaveCart(_ context.Context, userID string, cart domain.Cart) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.saved[userID] = cart
	return nil
}

func (p *recordingPersister) DeleteCart(_ context.Context, userID string) error {
	p.deleted = append(p.deleted, userID)
	return nil
}

func TestAddItemMergesSameID(t *testing.T) {
	s := New(nil, nil, nil)
	ctx := context.Background()

	if _, err := s.AddItem(ctx, item(1, 7, "Mohinga", 100, 1), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart, err := s.AddItem(ctx, item(1, 7, "Mohinga", 100, 2), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected single line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", cart.Items[0].Quantity)
	}
	if cart.TotalItems() != 3 {
		t.Fatalf("expected total 3, got %d", cart.TotalItems())
	}
}

func TestTotalItemsMatchesQuantitySum(t *testing.T) {
	s := New(nil, nil, nil)
	ctx := context.Background()

	s.AddItem(ctx, item(1, 7, "Mohinga", 100, 2), false)
	s.AddItem(ctx, item(2, 7, "Tea", 50, 3), false)
	s.DecreaseItem(ctx, 1)
	s.RemoveItem(ctx, 2)
	s.DecreaseItem(ctx, 99) // absent, no-op

	if got := s.TotalItems(); got != 1 {
		t.Fatalf("expected 1 item, got %d", got)
	}
	if got := s.TotalItems(); got < 0 {
		t.Fatal("total items can never be negative")
	}
}

func TestDecreaseRemovesLineAtQuantityOne(t *testing.T) {
	s := New(nil, nil, nil)
	ctx := context.Background()

	s.AddItem(ctx, item(1, 7, "Mohinga", 100, 1), false)
	cart := s.DecreaseItem(ctx, 1)
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Items))
	}

	// Decreasing an absent item must not panic or change anything.
	cart = s.DecreaseItem(ctx, 1)
	if len(cart.Items) != 0 {
		t.Fatal("no-op expected")
	}
}

func TestAddItemRejectsDifferentMerchant(t *testing.T) {
	s := New(nil, nil, nil)
	ctx := context.Background()

	s.AddItem(ctx, item(1, 7, "Mohinga", 100, 3), false)
	_, err := s.AddItem(ctx, item(2, 8, "Pizza", 50, 1), false)
	if domain.CodeOf(err) != domain.CodeDifferentMerchant {
		t.Fatalf("expected DIFFERENT_MERCHANT, got %v", err)
	}

	// Strict policy: the cart stays as it was.
	cart := s.Cart()
	if cart.TotalItems() != 3 || !cart.Subtotal().Equal(decimal.NewFromInt(300)) {
		t.Fatalf("cart changed after rejected add: %+v", cart)
	}
}

func TestAddItemReplaceCartOnDifferentMerchant(t *testing.T) {
	s := New(nil, nil, nil)
	ctx := context.Background()

	s.AddItem(ctx, item(1, 7, "Mohinga", 100, 3), false)
	min := decimal.NewFromInt(100)
	s.ApplyCoupon(ctx, domain.AppliedCoupon{ID: 1, Code: "SAVE", DiscountType: domain.DiscountTypeFixed, DiscountAmount: decimal.NewFromInt(10), MinOrderAmount: min})

	cart, err := s.AddItem(ctx, item(2, 8, "Pizza", 50, 1), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ID != 2 {
		t.Fatalf("expected replaced cart, got %+v", cart.Items)
	}
	if cart.AppliedCoupon != nil {
		t.Fatal("coupon must be cleared when switching merchants")
	}
}

func TestEndToEndTotals(t *testing.T) {
	s := New(nil, nil, nil)
	ctx := context.Background()

	s.AddItem(ctx, item(1, 7, "A", 100, 1), false)
	s.AddItem(ctx, item(1, 7, "A", 100, 2), false)
	cart, err := s.AddItem(ctx, item(2, 7, "B", 50, 1), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cart.TotalItems() != 4 {
		t.Fatalf("expected 4 items, got %d", cart.TotalItems())
	}
	if !cart.Subtotal().Equal(decimal.NewFromInt(350)) {
		t.Fatalf("expected subtotal 350, got %s", cart.Subtotal())
	}
}

func TestEffectivePriceUsesDiscounts(t *testing.T) {
	s := New(nil, nil, nil)
	ctx := context.Background()

	discount := decimal.NewFromInt(80)
	it := item(1, 7, "Mohinga", 100, 2)
	it.DiscountPrice = &discount
	s.AddItem(ctx, it, false)

	amount := decimal.NewFromInt(10)
	it2 := item(2, 7, "Tea", 50, 1)
	it2.DiscountAmount = &amount
	s.AddItem(ctx, it2, false)

	// 2*80 + 1*(50-10) = 200
	if got := s.Subtotal(); !got.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected 200, got %s", got)
	}
}

func TestApplyCouponBelowMinimumRejected(t *testing.T) {
	s := New(nil, nil, nil)
	ctx := context.Background()

	s.AddItem(ctx, item(1, 7, "Mohinga", 150, 1), false)
	_, err := s.ApplyCoupon(ctx, domain.AppliedCoupon{
		ID: 1, Code: "BIG", DiscountType: domain.DiscountTypeFixed,
		DiscountAmount: decimal.NewFromInt(50), MinOrderAmount: decimal.NewFromInt(200),
	})
	if domain.CodeOf(err) != domain.CodeCouponBelowMin {
		t.Fatalf("expected COUPON_BELOW_MINIMUM, got %v", err)
	}
	if s.Cart().AppliedCoupon != nil {
		t.Fatal("coupon must not be attached after rejection")
	}
}

func TestCouponDroppedWhenSubtotalFallsBelowMinimum(t *testing.T) {
	s := New(nil, nil, nil)
	ctx := context.Background()

	s.AddItem(ctx, item(1, 7, "Mohinga", 100, 3), false)
	if _, err := s.ApplyCoupon(ctx, domain.AppliedCoupon{
		ID: 1, Code: "SAVE", DiscountType: domain.DiscountTypeFixed,
		DiscountAmount: decimal.NewFromInt(50), MinOrderAmount: decimal.NewFromInt(250),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart := s.DecreaseItem(ctx, 1) // subtotal now 200, below the 250 minimum
	if cart.AppliedCoupon != nil {
		t.Fatal("coupon must be dropped when the cart no longer qualifies")
	}
}

func TestPercentageCouponDiscountRecomputed(t *testing.T) {
	s := New(nil, nil, nil)
	ctx := context.Background()

	s.AddItem(ctx, item(1, 7, "Mohinga", 100, 2), false)
	s.ApplyCoupon(ctx, domain.AppliedCoupon{
		ID: 1, Code: "TEN", DiscountType: domain.DiscountTypePercentage,
		DiscountPercent: decimal.NewFromInt(10), MinOrderAmount: decimal.NewFromInt(100),
	})

	if got := s.Cart().Discount(); !got.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected discount 20, got %s", got)
	}

	s.AddItem(ctx, item(1, 7, "Mohinga", 100, 1), false)
	if got := s.Cart().Discount(); !got.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("discount must follow subtotal, got %s", got)
	}
}

func TestClearEmptiesItemsAndCoupon(t *testing.T) {
	s := New(nil, nil, nil)
	ctx := context.Background()

	s.AddItem(ctx, item(1, 7, "Mohinga", 300, 1), false)
	s.ApplyCoupon(ctx, domain.AppliedCoupon{ID: 1, Code: "SAVE", DiscountType: domain.DiscountTypeFixed, DiscountAmount: decimal.NewFromInt(50), MinOrderAmount: decimal.NewFromInt(100)})

	cart := s.Clear(ctx)
	if len(cart.Items) != 0 || cart.AppliedCoupon != nil {
		t.Fatalf("clear left state behind: %+v", cart)
	}
}

func TestValidationErrors(t *testing.T) {
	s := New(nil, nil, nil)
	ctx := context.Background()

	bad := []domain.CartItem{
		item(0, 7, "NoID", 100, 1),
		item(1, 0, "NoMerchant", 100, 1),
		item(1, 7, "  ", 100, 1),
		item(1, 7, "ZeroQty", 100, 0),
		item(1, 7, "Negative", -5, 1),
	}
	for _, it := range bad {
		if _, err := s.AddItem(ctx, it, false); domain.CodeOf(err) != domain.CodeValidation {
			t.Fatalf("expected VALIDATION for %+v, got %v", it, err)
		}
	}
	if s.TotalItems() != 0 {
		t.Fatal("rejected adds must not mutate the cart")
	}
}

func TestSetUserMergesGuestCart(t *testing.T) {
	s := New(nil, nil, nil)
	ctx := context.Background()

	s.AddItem(ctx, item(1, 7, "Mohinga", 100, 2), false)
	cart := s.SetUser(ctx, "u1")

	if cart.TotalItems() != 2 {
		t.Fatalf("guest cart not merged: %+v", cart)
	}
	if s.CurrentUserID() != "u1" {
		t.Fatalf("unexpected current user %q", s.CurrentUserID())
	}

	// The guest slot is gone: a fresh guest session starts empty.
	s.SetUser(ctx, "")
	if s.TotalItems() != 0 {
		t.Fatal("guest slot should be empty after merge")
	}
}

func TestSetUserMergeSameMerchantCombinesLines(t *testing.T) {
	initial := map[string]domain.Cart{
		"u1": {Items: []domain.CartItem{item(1, 7, "Mohinga", 100, 1)}},
	}
	s := New(nil, initial, nil)
	ctx := context.Background()

	s.AddItem(ctx, item(1, 7, "Mohinga", 100, 2), false)
	s.AddItem(ctx, item(2, 7, "Tea", 50, 1), false)

	cart := s.SetUser(ctx, "u1")
	if cart.TotalItems() != 4 {
		t.Fatalf("expected merged total 4, got %d", cart.TotalItems())
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Items))
	}
}

func TestSetUserMergeDifferentMerchantReplaces(t *testing.T) {
	initial := map[string]domain.Cart{
		"u1": {Items: []domain.CartItem{item(9, 8, "Pizza", 200, 1)}},
	}
	s := New(nil, initial, nil)
	ctx := context.Background()

	s.AddItem(ctx, item(1, 7, "Mohinga", 100, 2), false)
	cart := s.SetUser(ctx, "u1")

	if len(cart.Items) != 1 || cart.Items[0].ID != 1 {
		t.Fatalf("expected guest cart to replace the stale one, got %+v", cart.Items)
	}
}

func TestLogoutClearsSlot(t *testing.T) {
	p := newRecordingPersister()
	s := New(p, nil, nil)
	ctx := context.Background()

	s.SetUser(ctx, "u1")
	s.AddItem(ctx, item(1, 7, "Mohinga", 100, 1), false)
	s.Logout(ctx)

	if s.CurrentUserID() != "" {
		t.Fatal("expected guest session after logout")
	}
	if s.TotalItems() != 0 {
		t.Fatal("guest cart must start empty")
	}
	if len(p.deleted) == 0 || p.deleted[len(p.deleted)-1] != "u1" {
		t.Fatalf("expected persisted slot removal, got %v", p.deleted)
	}
}

func TestWriteThroughOnEveryMutation(t *testing.T) {
	p := newRecordingPersister()
	s := New(p, nil, nil)
	ctx := context.Background()

	s.AddItem(ctx, item(1, 7, "Mohinga", 100, 1), false)
	saved, ok := p.saved[domain.GuestUserID]
	if !ok {
		t.Fatal("add did not write through")
	}
	if saved.Version != 1 {
		t.Fatalf("expected version 1, got %d", saved.Version)
	}

	s.RemoveItem(ctx, 1)
	if p.saved[domain.GuestUserID].Version != 2 {
		t.Fatalf("expected version 2 after second mutation, got %d", p.saved[domain.GuestUserID].Version)
	}
}

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	p := newRecordingPersister()
	p.saveErr = errors.New("db down")
	s := New(p, nil, nil)
	ctx := context.Background()

	if _, err := s.AddItem(ctx, item(1, 7, "Mohinga", 100, 1), false); err != nil {
		t.Fatalf("persist failure must not fail the operation: %v", err)
	}
	if s.TotalItems() != 1 {
		t.Fatal("in-memory state lost")
	}
}
