package httpserver

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"takeout-storefront/internal/domain"
	"takeout-storefront/internal/rates"
	"takeout-storefront/internal/store/address"
	"takeout-storefront/internal/store/cart"
	"takeout-storefront/internal/store/prefs"
)

// CouponService validates coupon codes against the backend.
type CouponService interface {
	Apply(ctx context.Context, code string, subtotal decimal.Decimal) (domain.AppliedCoupon, error)
	List(ctx context.Context) ([]domain.Coupon, error)
}

// OrderService submits orders to the backend.
type OrderService interface {
	Submit(ctx context.Context, req domain.OrderRequest) (domain.OrderConfirmation, error)
}

// Geocoder resolves addresses to coordinates and back.
type Geocoder interface {
	Forward(ctx context.Context, query string) ([]domain.GeocodeResult, error)
	Reverse(ctx context.Context, lat, lng float64) (domain.GeocodeResult, error)
}

// RateRefresher triggers exchange-rate fetches outside the periodic loop.
type RateRefresher interface {
	Refresh(ctx context.Context) bool
	RefreshIfStale(ctx context.Context) bool
}

// Deps carries the stores and backend clients the handlers operate on.
type Deps struct {
	Carts        *cart.Store
	Addresses    *address.Store
	Prefs        *prefs.Store
	Rates        *rates.Store
	RatesManager RateRefresher
	RatesMaxAge  time.Duration
	Coupons      CouponService
	Orders       OrderService
	Geo          Geocoder
	Logger       *log.Logger
}
