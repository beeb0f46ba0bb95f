package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount types accepted from the coupon endpoint.
const (
	DiscountTypeFixed      = "fixed"
	DiscountTypePercentage = "percentage"
)

// Coupon is the full coupon record returned by the backend.
type Coupon struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	DiscountType    string          `json:"discountType"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	MinOrderAmount  decimal.Decimal `json:"minOrderAmount"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	UseCount        int             `json:"useCount"`
	ValidCount      int             `json:"validCount"`
}

// Applied strips the coupon record down to the discount metadata attached
// to a cart.
func (c Coupon) Applied() AppliedCoupon {
	return AppliedCoupon{
		ID:              c.ID,
		Code:            c.Code,
		DiscountType:    c.DiscountType,
		DiscountAmount:  c.DiscountAmount,
		DiscountPercent: c.DiscountPercent,
		MinOrderAmount:  c.MinOrderAmount,
	}
}

// AppliedCoupon is the discount metadata attached to a cart after the
// backend accepted the code.
type AppliedCoupon struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	DiscountType    string          `json:"discountType"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	MinOrderAmount  decimal.Decimal `json:"minOrderAmount"`
}

// DiscountFor computes the discount this coupon grants on the given
// subtotal. Percentage coupons scale with the subtotal; fixed coupons do not.
func (a AppliedCoupon) DiscountFor(subtotal decimal.Decimal) decimal.Decimal {
	if a.DiscountType == DiscountTypePercentage {
		return subtotal.Mul(a.DiscountPercent).Div(decimal.NewFromInt(100)).Round(2)
	}
	return a.DiscountAmount
}
