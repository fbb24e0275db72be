package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "github.com/corpz/marketplace/internal/domain/payment"
)

type PaymentRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.Record
	byOrder map[string]string
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		records: make(map[string]*domain.Record),
		byOrder: make(map[string]string),
	}
}

func (r *PaymentRepository) Insert(ctx context.Context, record *domain.Record) error {
	_ = ctx
	if record == nil || record.ID == "" {
		return fmt.Errorf("payment repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byOrder[record.OrderID]; exists {
		return fmt.Errorf("payment repository: order %s already has a payment", record.OrderID)
	}
	clone := *record
	r.records[record.ID] = &clone
	r.byOrder[record.OrderID] = record.ID
	return nil
}

func (r *PaymentRepository) GetByOrder(ctx context.Context, orderID string) (*domain.Record, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byOrder[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *r.records[id]
	return &clone, nil
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Record, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Record
	for _, rec := range r.records {
		if rec.UserID == userID {
			clone := *rec
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
