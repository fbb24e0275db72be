package order

import "context"

type Repository interface {
	Insert(ctx context.Context, order *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	// UpdateStatusIf commits the from -> to transition only if the stored
	// status still equals from, reporting whether the write committed. A
	// missing order also reports false. Two racing transitions from the
	// same state resolve to exactly one winner.
	UpdateStatusIf(ctx context.Context, id string, from, to Status) (bool, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]*Order, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*Order, error)
}
