package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/corpz/marketplace/internal/domain/cart"
)

type CartRepository struct{ DB *pgxpool.Pool }

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{DB: db}
}

// Upsert relies on the (user_id, item_id) unique constraint: a conflicting
// insert folds its quantity into the existing line.
func (r *CartRepository) Upsert(ctx context.Context, line *domain.Line) (*domain.Line, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO cart_lines (id, user_id, item_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING id, user_id, item_id, quantity, created_at, updated_at`,
		line.ID, line.UserID, line.ItemID, line.Quantity, line.CreatedAt, line.UpdatedAt,
	)
	return scanLine(row)
}

func (r *CartRepository) Get(ctx context.Context, userID, itemID string) (*domain.Line, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT id, user_id, item_id, quantity, created_at, updated_at
		FROM cart_lines WHERE user_id = $1 AND item_id = $2`, userID, itemID)
	return scanLine(row)
}

func (r *CartRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Line, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, item_id, quantity, created_at, updated_at
		FROM cart_lines WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Line
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func (r *CartRepository) Update(ctx context.Context, line *domain.Line) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE cart_lines SET quantity = $3, updated_at = $4
		WHERE user_id = $1 AND item_id = $2`,
		line.UserID, line.ItemID, line.Quantity, line.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, userID, itemID string) error {
	ct, err := r.DB.Exec(ctx, `
		DELETE FROM cart_lines WHERE user_id = $1 AND item_id = $2`, userID, itemID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, userID)
	return err
}

func scanLine(row rowScanner) (*domain.Line, error) {
	var l domain.Line
	err := row.Scan(&l.ID, &l.UserID, &l.ItemID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}
