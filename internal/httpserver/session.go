package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"takeout-storefront/internal/domain"
)

type loginRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

func getSessionHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := deps.Carts.CurrentUserID()
		c.JSON(http.StatusOK, gin.H{"userId": userID, "guest": userID == ""})
	}
}

// loginHandler switches every per-user store to the authenticated user. The
// guest cart built before login is merged into the user's cart.
func loginHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, domain.NewError(domain.CodeValidation, "invalid login payload: "+err.Error()))
			return
		}
		req.UserID = strings.TrimSpace(req.UserID)
		if req.UserID == "" || req.UserID == domain.GuestUserID {
			writeError(c, domain.NewError(domain.CodeValidation, "userId required"))
			return
		}

		cart := deps.Carts.SetUser(c.Request.Context(), req.UserID)
		deps.Addresses.SetUser(req.UserID)
		deps.Prefs.SetUser(req.UserID)

		c.JSON(http.StatusOK, deps.cartResponse(cart))
	}
}

// logoutHandler clears the departing user's cart slot and returns every
// store to the guest session.
func logoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps.Carts.Logout(c.Request.Context())
		deps.Addresses.SetUser("")
		deps.Prefs.SetUser("")
		c.JSON(http.StatusOK, gin.H{"userId": "", "guest": true})
	}
}
