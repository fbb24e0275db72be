package cart

import "context"

type Repository interface {
	// Upsert inserts the line, or adds its quantity to the existing line
	// for the same (user, item) pair.
	Upsert(ctx context.Context, line *Line) (*Line, error)
	Get(ctx context.Context, userID, itemID string) (*Line, error)
	ListByUser(ctx context.Context, userID string) ([]*Line, error)
	Update(ctx context.Context, line *Line) error
	Delete(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}
