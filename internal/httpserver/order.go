package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"takeout-storefront/internal/checkout"
	"takeout-storefront/internal/domain"
)

type createOrderRequest struct {
	PaymentMethod string          `json:"paymentMethod"`
	ShippingFee   decimal.Decimal `json:"shippingFee"`
	AddressID     string          `json:"addressId"`
}

// createOrderHandler builds the order from the active cart and the selected
// address, submits it, and clears the cart on success. Totals are computed
// server-side from effective unit prices; the client only supplies the
// payment method and shipping fee.
func createOrderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, domain.NewError(domain.CodeValidation, "invalid order payload: "+err.Error()))
			return
		}

		cart := deps.Carts.Cart()
		if len(cart.Items) == 0 {
			writeError(c, domain.NewError(domain.CodeValidation, "cart is empty"))
			return
		}

		addressID := req.AddressID
		if addressID == "" {
			if selected, ok := deps.Addresses.Selected(); ok {
				addressID = selected.ID
			}
		}

		lines := make([]domain.OrderLine, 0, len(cart.Items))
		for _, item := range cart.Items {
			lines = append(lines, domain.OrderLine{
				ItemID:    item.ID,
				Name:      item.Name,
				UnitPrice: item.EffectivePrice(),
				Quantity:  item.Quantity,
			})
		}

		order := domain.OrderRequest{
			MerchantID:    cart.MerchantID(),
			PaymentMethod: req.PaymentMethod,
			Lines:         lines,
			AddressID:     addressID,
			ShippingFee:   req.ShippingFee,
			TotalDue:      checkout.TotalDue(cart.Subtotal(), req.ShippingFee, cart.Discount()),
		}
		if cart.AppliedCoupon != nil {
			couponID := cart.AppliedCoupon.ID
			order.CouponID = &couponID
		}

		conf, err := deps.Orders.Submit(c.Request.Context(), order)
		if err != nil {
			writeError(c, err)
			return
		}

		deps.Carts.Clear(c.Request.Context())
		c.JSON(http.StatusCreated, conf)
	}
}
