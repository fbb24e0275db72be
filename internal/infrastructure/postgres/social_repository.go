package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/corpz/marketplace/internal/domain/social"
)

type FavoriteRepository struct{ DB *pgxpool.Pool }

func NewFavoriteRepository(db *pgxpool.Pool) *FavoriteRepository {
	return &FavoriteRepository{DB: db}
}

func (r *FavoriteRepository) Upsert(ctx context.Context, f *domain.Favorite) (*domain.Favorite, error) {
	// ON CONFLICT DO UPDATE with a no-op assignment so RETURNING yields the
	// existing row on duplicates.
	row := r.DB.QueryRow(ctx, `
		INSERT INTO favorites (id, user_id, item_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, item_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, item_id, created_at`,
		f.ID, f.UserID, f.ItemID, f.CreatedAt,
	)
	var out domain.Favorite
	if err := row.Scan(&out.ID, &out.UserID, &out.ItemID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, userID, itemID string) error {
	ct, err := r.DB.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND item_id = $2`, userID, itemID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, itemID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND item_id = $2)`,
		userID, itemID).Scan(&exists)
	return exists, err
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, item_id, created_at
		FROM favorites WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Favorite
	for rows.Next() {
		var f domain.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.ItemID, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

type FollowRepository struct{ DB *pgxpool.Pool }

func NewFollowRepository(db *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{DB: db}
}

func (r *FollowRepository) Upsert(ctx context.Context, f *domain.Follow) (*domain.Follow, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO follows (id, follower_id, followee_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (follower_id, followee_id) DO UPDATE SET follower_id = EXCLUDED.follower_id
		RETURNING id, follower_id, followee_id, created_at`,
		f.ID, f.FollowerID, f.FolloweeID, f.CreatedAt,
	)
	var out domain.Follow
	if err := row.Scan(&out.ID, &out.FollowerID, &out.FolloweeID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followeeID string) error {
	ct, err := r.DB.Exec(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`, followerID, followeeID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`,
		followerID, followeeID).Scan(&exists)
	return exists, err
}

func (r *FollowRepository) ListFollowing(ctx context.Context, followerID string) ([]*domain.Follow, error) {
	return r.list(ctx, `
		SELECT id, follower_id, followee_id, created_at
		FROM follows WHERE follower_id = $1 ORDER BY created_at DESC`, followerID)
}

func (r *FollowRepository) ListFollowers(ctx context.Context, followeeID string) ([]*domain.Follow, error) {
	return r.list(ctx, `
		SELECT id, follower_id, followee_id, created_at
		FROM follows WHERE followee_id = $1 ORDER BY created_at DESC`, followeeID)
}

func (r *FollowRepository) list(ctx context.Context, query, arg string) ([]*domain.Follow, error) {
	rows, err := r.DB.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Follow
	for rows.Next() {
		var f domain.Follow
		if err := rows.Scan(&f.ID, &f.FollowerID, &f.FolloweeID, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
