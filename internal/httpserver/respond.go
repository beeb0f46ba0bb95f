package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"takeout-storefront/internal/domain"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps the error's stable code to an HTTP status and renders the
// code and message as the body, so API clients can branch on the code
// without parsing messages.
func writeError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Code: "NOT_FOUND", Message: "not found"})
		return
	}

	var coded *domain.Error
	if !errors.As(err, &coded) {
		c.JSON(http.StatusInternalServerError, errorResponse{Code: "INTERNAL", Message: err.Error()})
		return
	}
	c.JSON(statusFor(coded.Code), errorResponse{Code: coded.Code, Message: coded.Message})
}

func statusFor(code string) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeDifferentMerchant, domain.CodeOrderRejected:
		return http.StatusConflict
	case domain.CodeCouponExpired, domain.CodeCouponBelowMin,
		domain.CodeCouponExhausted, domain.CodeCouponNotStarted:
		return http.StatusUnprocessableEntity
	case domain.CodeTimeout:
		return http.StatusGatewayTimeout
	case domain.CodeNetwork, domain.CodeSchemaError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
