package social

import "context"

type FavoriteRepository interface {
	// Upsert inserts the favorite if no (user, item) favorite exists yet;
	// a duplicate upsert is a no-op returning the existing row.
	Upsert(ctx context.Context, f *Favorite) (*Favorite, error)
	Delete(ctx context.Context, userID, itemID string) error
	Exists(ctx context.Context, userID, itemID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*Favorite, error)
}

type FollowRepository interface {
	// Upsert inserts the edge if absent; a duplicate upsert is a no-op.
	Upsert(ctx context.Context, f *Follow) (*Follow, error)
	Delete(ctx context.Context, followerID, followeeID string) error
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowing(ctx context.Context, followerID string) ([]*Follow, error)
	ListFollowers(ctx context.Context, followeeID string) ([]*Follow, error)
}
