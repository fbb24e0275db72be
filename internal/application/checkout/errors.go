package checkout

import (
	"errors"
	"fmt"
)

// The checkout error taxonomy. Callers distinguish cases with errors.Is;
// each maps to a distinct user-facing explanation.
var (
	// ErrValidation rejects bad input before any remote call.
	ErrValidation = errors.New("checkout: validation failed")
	// ErrItemNotFound means the listing does not exist or was deleted.
	ErrItemNotFound = errors.New("checkout: item not found")
	// ErrOwnItem rejects a buyer purchasing their own listing.
	ErrOwnItem = errors.New("checkout: cannot purchase your own listing")
	// ErrOutOfStock means the upfront stock read could not cover the
	// quantity; nothing was charged.
	ErrOutOfStock = errors.New("checkout: insufficient stock")
	// ErrPaymentDeclined reports a gateway refusal; no order or payment
	// state was created.
	ErrPaymentDeclined = errors.New("checkout: payment declined")
	// ErrInventoryRaceLost means payment succeeded but a concurrent
	// purchase took the remaining stock first. The order is cancelled and
	// a refund is flagged; this must never be shown as a generic failure.
	ErrInventoryRaceLost = errors.New("checkout: stock sold out during payment; your payment will be refunded")
	// ErrNotBuyer rejects a cancellation from anyone but the order's buyer.
	ErrNotBuyer = errors.New("checkout: only the buyer may cancel this order")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
