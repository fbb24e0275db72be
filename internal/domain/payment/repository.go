package payment

import "context"

type Repository interface {
	Insert(ctx context.Context, record *Record) error
	GetByOrder(ctx context.Context, orderID string) (*Record, error)
	ListByUser(ctx context.Context, userID string) ([]*Record, error)
}
