package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"takeout-storefront/internal/currency"
	"takeout-storefront/internal/domain"
)

type cartResponse struct {
	Cart       domain.Cart     `json:"cart"`
	TotalItems int             `json:"totalItems"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	Display    displayPrice    `json:"display"`
}

// displayPrice is the cart total converted into the user's selected
// currency. Conversion is display-only; checkout always charges the base
// currency amount.
type displayPrice struct {
	Currency  string          `json:"currency"`
	Total     decimal.Decimal `json:"total"`
	Formatted string          `json:"formatted"`
}

func (d Deps) cartResponse(c domain.Cart) cartResponse {
	subtotal := c.Subtotal()
	discount := c.Discount()
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	p := d.Prefs.Get()
	converted := currency.ConvertPrice(total, p.Currency, d.Rates.Snapshot().RatesMap, d.Logger)

	return cartResponse{
		Cart:       c,
		TotalItems: c.TotalItems(),
		Subtotal:   subtotal,
		Discount:   discount,
		Total:      total,
		Display: displayPrice{
			Currency:  p.Currency,
			Total:     converted,
			Formatted: currency.FormatPrice(converted, p.Currency),
		},
	}
}

func getCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.cartResponse(deps.Carts.Cart()))
	}
}

func addCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var item domain.CartItem
		if err := c.ShouldBindJSON(&item); err != nil {
			writeError(c, domain.NewError(domain.CodeValidation, "invalid item payload: "+err.Error()))
			return
		}
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		replace := c.Query("replace") == "true"

		cart, err := deps.Carts.AddItem(c.Request.Context(), item, replace)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, deps.cartResponse(cart))
	}
}

func decreaseCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			writeError(c, domain.NewError(domain.CodeValidation, "item id must be an integer"))
			return
		}
		c.JSON(http.StatusOK, deps.cartResponse(deps.Carts.DecreaseItem(c.Request.Context(), id)))
	}
}

func removeCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			writeError(c, domain.NewError(domain.CodeValidation, "item id must be an integer"))
			return
		}
		c.JSON(http.StatusOK, deps.cartResponse(deps.Carts.RemoveItem(c.Request.Context(), id)))
	}
}

func clearCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.cartResponse(deps.Carts.Clear(c.Request.Context())))
	}
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

func applyCouponHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req applyCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, domain.NewError(domain.CodeValidation, "invalid coupon payload: "+err.Error()))
			return
		}

		applied, err := deps.Coupons.Apply(c.Request.Context(), req.Code, deps.Carts.Subtotal())
		if err != nil {
			writeError(c, err)
			return
		}
		cart, err := deps.Carts.ApplyCoupon(c.Request.Context(), applied)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, deps.cartResponse(cart))
	}
}

func removeCouponHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.cartResponse(deps.Carts.RemoveCoupon(c.Request.Context())))
	}
}

func listCouponsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		coupons, err := deps.Coupons.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": coupons})
	}
}
