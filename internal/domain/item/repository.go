package item

import "context"

// Repository is the inventory store port. DecrementStock is the one
// correctness-critical primitive: it must commit only if stock is still
// sufficient at update time, and report false otherwise.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	Get(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
	ListBySeller(ctx context.Context, sellerID string) ([]*Item, error)
	ListByCategory(ctx context.Context, category string) ([]*Item, error)

	// DecrementStock atomically performs stock -= quantity when
	// stock >= quantity, returning whether the decrement committed.
	DecrementStock(ctx context.Context, id string, quantity int) (bool, error)
	// IncrementStock restores stock after a cancellation. A plain
	// increment cannot violate non-negativity, so it is unconditional.
	IncrementStock(ctx context.Context, id string, quantity int) error
}
