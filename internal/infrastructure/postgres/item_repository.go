package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/corpz/marketplace/internal/domain/item"
)

type ItemRepository struct{ DB *pgxpool.Pool }

func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{DB: db}
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO items (id, seller_id, title, description, price_cents, stock, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ID, item.SellerID, item.Title, item.Description, item.Price, item.Stock, item.Category, item.CreatedAt, item.UpdatedAt,
	)
	return err
}

func (r *ItemRepository) Get(ctx context.Context, id string) (*domain.Item, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT id, seller_id, title, description, price_cents, stock, category, created_at, updated_at
		FROM items WHERE id = $1`, id)
	return scanItem(row)
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE items
		SET title = $2, description = $3, price_cents = $4, stock = $5, category = $6, updated_at = $7
		WHERE id = $1`,
		item.ID, item.Title, item.Description, item.Price, item.Stock, item.Category, item.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepository) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, seller_id, title, description, price_cents, stock, category, created_at, updated_at
		FROM items WHERE seller_id = $1 ORDER BY created_at DESC`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *ItemRepository) ListByCategory(ctx context.Context, category string) ([]*domain.Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, seller_id, title, description, price_cents, stock, category, created_at, updated_at
		FROM items WHERE category = $1 ORDER BY created_at DESC`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// DecrementStock commits only when stock still covers the quantity at
// update time; the WHERE clause carries the compare-and-decrement guarantee.
func (r *ItemRepository) DecrementStock(ctx context.Context, id string, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, domain.ErrInvalidQuantity
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE items SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`, id, quantity)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

func (r *ItemRepository) IncrementStock(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE items SET stock = stock + $2, updated_at = now()
		WHERE id = $1`, id, quantity)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var it domain.Item
	err := row.Scan(&it.ID, &it.SellerID, &it.Title, &it.Description, &it.Price, &it.Stock, &it.Category, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func scanItems(rows pgx.Rows) ([]*domain.Item, error) {
	var out []*domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
