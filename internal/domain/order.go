package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is one line item sent to the order endpoint.
type OrderLine struct {
	ItemID    int64           `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// OrderRequest is the payload for order creation.
type OrderRequest struct {
	MerchantID    int64           `json:"merchantId"`
	PaymentMethod string          `json:"paymentMethod"`
	Lines         []OrderLine     `json:"lines"`
	CouponID      *int64          `json:"couponId,omitempty"`
	AddressID     string          `json:"addressId,omitempty"`
	ShippingFee   decimal.Decimal `json:"shippingFee"`
	TotalDue      decimal.Decimal `json:"totalDue"`
}

// OrderConfirmation is the backend's acknowledgement of a created order.
type OrderConfirmation struct {
	OrderID   string          `json:"orderId"`
	Status    string          `json:"status"`
	TotalDue  decimal.Decimal `json:"totalDue"`
	CreatedAt time.Time       `json:"createdAt"`
}

// GeocodeResult is an address candidate from the geocoding endpoints.
type GeocodeResult struct {
	Address   string  `json:"address"`
	PlaceName string  `json:"placeName,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
