package memory

import (
	"context"
	"sync"

	domain "github.com/corpz/marketplace/internal/domain/item"
)

type ItemRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Item
}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{
		items: make(map[string]*domain.Item),
	}
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	_ = ctx
	if item == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *ItemRepository) Get(ctx context.Context, id string) (*domain.Item, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneItem(item), nil
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	_ = ctx
	if item == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *ItemRepository) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Item, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Item
	for _, item := range r.items {
		if item.SellerID == sellerID {
			out = append(out, cloneItem(item))
		}
	}
	return out, nil
}

func (r *ItemRepository) ListByCategory(ctx context.Context, category string) ([]*domain.Item, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Item
	for _, item := range r.items {
		if item.Category == category {
			out = append(out, cloneItem(item))
		}
	}
	return out, nil
}

// DecrementStock performs the compare-and-decrement under the repository
// lock: the in-memory equivalent of a conditional UPDATE.
func (r *ItemRepository) DecrementStock(ctx context.Context, id string, quantity int) (bool, error) {
	_ = ctx
	if quantity <= 0 {
		return false, domain.ErrInvalidQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if item.Stock < quantity {
		return false, nil
	}
	item.Stock -= quantity
	return true, nil
}

func (r *ItemRepository) IncrementStock(ctx context.Context, id string, quantity int) error {
	_ = ctx
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.Stock += quantity
	return nil
}

func cloneItem(item *domain.Item) *domain.Item {
	if item == nil {
		return nil
	}
	clone := *item
	return &clone
}
