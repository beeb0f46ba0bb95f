package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GuestUserID is the cart slot used for unauthenticated sessions.
const GuestUserID = "guest"

// CartItem is a single line in a cart. Prices are in the base currency.
type CartItem struct {
	ID             int64             `json:"id"`
	MerchantID     int64             `json:"merchantId"`
	Name           string            `json:"name"`
	Price          decimal.Decimal   `json:"price"`
	DiscountPrice  *decimal.Decimal  `json:"discountPrice,omitempty"`
	DiscountAmount *decimal.Decimal  `json:"discountAmount,omitempty"`
	Quantity       int               `json:"quantity"`
	Image          string            `json:"image,omitempty"`
	Customization  map[string]string `json:"customization,omitempty"`
}

// EffectivePrice is the per-unit price actually charged: the discount price
// when present and lower, else the price minus any item-level discount
// amount, floored at zero.
func (i CartItem) EffectivePrice() decimal.Decimal {
	if i.DiscountPrice != nil && i.DiscountPrice.LessThan(i.Price) {
		return *i.DiscountPrice
	}
	if i.DiscountAmount != nil {
		p := i.Price.Sub(*i.DiscountAmount)
		if p.IsNegative() {
			return decimal.Zero
		}
		return p
	}
	return i.Price
}

// Cart is one user's cart slot. Items keep insertion order.
type Cart struct {
	Items         []CartItem     `json:"items"`
	AppliedCoupon *AppliedCoupon `json:"appliedCoupon,omitempty"`
	LastUpdated   time.Time      `json:"lastUpdated"`
	Version       int            `json:"version"`
}

// MerchantID reports the merchant owning the cart, or 0 when empty. A
// non-empty cart always holds items from a single merchant.
func (c Cart) MerchantID() int64 {
	if len(c.Items) == 0 {
		return 0
	}
	return c.Items[0].MerchantID
}

// TotalItems is the sum of line quantities.
func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal is the sum of quantity times effective unit price.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.EffectivePrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Discount is the coupon discount currently applied, zero when none.
func (c Cart) Discount() decimal.Decimal {
	if c.AppliedCoupon == nil {
		return decimal.Zero
	}
	return c.AppliedCoupon.DiscountFor(c.Subtotal())
}
