package payment

import (
	"context"
	"fmt"
)

// DeclinedError reports a gateway-side business refusal (declined card,
// insufficient wallet balance). It is distinct from transport failures.
type DeclinedError struct {
	Method Method
	Reason string
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("payment: %s declined: %s", e.Method, e.Reason)
}

// ChargeRequest describes one logical charge attempt.
type ChargeRequest struct {
	PayerID string
	Amount  int64
	Method  Method
}

// ChargeResult carries the gateway transaction reference for a successful
// charge.
type ChargeResult struct {
	TransactionID string
}

// Gateway is an external, possibly slow, possibly flaky collaborator.
// Implementations are not assumed idempotent: callers must invoke Charge at
// most once per logical attempt.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
