package memory

import (
	"context"
	"sort"
	"sync"

	domain "github.com/corpz/marketplace/internal/domain/cart"
)

type cartKey struct{ userID, itemID string }

type CartRepository struct {
	mu    sync.RWMutex
	lines map[cartKey]*domain.Line
}

func NewCartRepository() *CartRepository {
	return &CartRepository{
		lines: make(map[cartKey]*domain.Line),
	}
}

func (r *CartRepository) Upsert(ctx context.Context, line *domain.Line) (*domain.Line, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	key := cartKey{line.UserID, line.ItemID}
	if existing, ok := r.lines[key]; ok {
		if err := existing.SetQuantity(existing.Quantity + line.Quantity); err != nil {
			return nil, err
		}
		clone := *existing
		return &clone, nil
	}
	clone := *line
	r.lines[key] = &clone
	result := clone
	return &result, nil
}

func (r *CartRepository) Get(ctx context.Context, userID, itemID string) (*domain.Line, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	line, ok := r.lines[cartKey{userID, itemID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *line
	return &clone, nil
}

func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Line, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Line
	for key, line := range r.lines {
		if key.userID == userID {
			clone := *line
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *CartRepository) Update(ctx context.Context, line *domain.Line) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	key := cartKey{line.UserID, line.ItemID}
	if _, ok := r.lines[key]; !ok {
		return domain.ErrNotFound
	}
	clone := *line
	r.lines[key] = &clone
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, userID, itemID string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	key := cartKey{userID, itemID}
	if _, ok := r.lines[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.lines, key)
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.lines {
		if key.userID == userID {
			delete(r.lines, key)
		}
	}
	return nil
}
