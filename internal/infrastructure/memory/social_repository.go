package memory

import (
	"context"
	"sync"

	domain "github.com/corpz/marketplace/internal/domain/social"
)

type pairKey struct{ a, b string }

type FavoriteRepository struct {
	mu        sync.RWMutex
	favorites map[pairKey]*domain.Favorite
}

func NewFavoriteRepository() *FavoriteRepository {
	return &FavoriteRepository{
		favorites: make(map[pairKey]*domain.Favorite),
	}
}

func (r *FavoriteRepository) Upsert(ctx context.Context, f *domain.Favorite) (*domain.Favorite, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{f.UserID, f.ItemID}
	if existing, ok := r.favorites[key]; ok {
		clone := *existing
		return &clone, nil
	}
	clone := *f
	r.favorites[key] = &clone
	result := clone
	return &result, nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, userID, itemID string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{userID, itemID}
	if _, ok := r.favorites[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.favorites, key)
	return nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, itemID string) (bool, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.favorites[pairKey{userID, itemID}]
	return ok, nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Favorite
	for key, f := range r.favorites {
		if key.a == userID {
			clone := *f
			out = append(out, &clone)
		}
	}
	return out, nil
}

type FollowRepository struct {
	mu    sync.RWMutex
	edges map[pairKey]*domain.Follow
}

func NewFollowRepository() *FollowRepository {
	return &FollowRepository{
		edges: make(map[pairKey]*domain.Follow),
	}
}

func (r *FollowRepository) Upsert(ctx context.Context, f *domain.Follow) (*domain.Follow, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{f.FollowerID, f.FolloweeID}
	if existing, ok := r.edges[key]; ok {
		clone := *existing
		return &clone, nil
	}
	clone := *f
	r.edges[key] = &clone
	result := clone
	return &result, nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followeeID string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey{followerID, followeeID}
	if _, ok := r.edges[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.edges, key)
	return nil
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.edges[pairKey{followerID, followeeID}]
	return ok, nil
}

func (r *FollowRepository) ListFollowing(ctx context.Context, followerID string) ([]*domain.Follow, error) {
	_ = ctx
	return r.list(func(k pairKey) bool { return k.a == followerID }), nil
}

func (r *FollowRepository) ListFollowers(ctx context.Context, followeeID string) ([]*domain.Follow, error) {
	_ = ctx
	return r.list(func(k pairKey) bool { return k.b == followeeID }), nil
}

func (r *FollowRepository) list(match func(pairKey) bool) []*domain.Follow {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Follow
	for key, f := range r.edges {
		if match(key) {
			clone := *f
			out = append(out, &clone)
		}
	}
	return out
}
