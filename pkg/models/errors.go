package models

import "errors"

// Sentinel error kinds surfaced by the fulfillment core. Handlers branch on
// these with errors.Is to pick an HTTP status.
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrValidation        = errors.New("validation failed")

	// ErrOrderNumberTaken is recoverable by retrying with a fresh number and
	// is never returned to HTTP callers.
	ErrOrderNumberTaken = errors.New("order number already taken")
)
