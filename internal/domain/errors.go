package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
)

// Stable machine-readable error codes surfaced to API clients. Collaborator
// failures keep their code across layers instead of collapsing into a generic
// error string.
const (
	CodeValidation        = "VALIDATION"
	CodeDifferentMerchant = "DIFFERENT_MERCHANT"
	CodeSchemaError       = "SCHEMA_ERROR"
	CodeTimeout           = "TIMEOUT"
	CodeNetwork           = "NETWORK"
	CodeCouponExpired     = "COUPON_EXPIRED"
	CodeCouponBelowMin    = "COUPON_BELOW_MINIMUM"
	CodeCouponExhausted   = "COUPON_EXHAUSTED"
	CodeCouponNotStarted  = "COUPON_NOT_STARTED"
	CodeOrderRejected     = "ORDER_REJECTED"
)

// Error carries a stable code alongside a human-readable message.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// NewError builds a coded error.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the stable code from err, or "" when err carries none.
func CodeOf(err error) string {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}
