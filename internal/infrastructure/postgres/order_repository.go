package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/corpz/marketplace/internal/domain/order"
)

type OrderRepository struct{ DB *pgxpool.Pool }

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) Insert(ctx context.Context, o *domain.Order) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO orders (id, item_id, buyer_id, seller_id, amount_cents, quantity, status,
		                    ship_name, ship_address, ship_city, ship_postal_code, ship_phone,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		o.ID, o.ItemID, o.BuyerID, o.SellerID, o.Amount, o.Quantity, o.Status,
		o.Shipping.FullName, o.Shipping.Address, o.Shipping.City, o.Shipping.PostalCode, o.Shipping.Phone,
		o.CreatedAt, o.UpdatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrConflict
	}
	return err
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	row := r.DB.QueryRow(ctx, selectOrder+` WHERE id = $1`, id)
	return scanOrder(row)
}

// UpdateStatusIf compares against the stored status in the WHERE clause, the
// same shape as the conditional stock decrement: concurrent transitions from
// the same state commit at most once.
func (r *OrderRepository) UpdateStatusIf(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]*domain.Order, error) {
	rows, err := r.DB.Query(ctx, selectOrder+` WHERE buyer_id = $1 ORDER BY created_at DESC`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *OrderRepository) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Order, error) {
	rows, err := r.DB.Query(ctx, selectOrder+` WHERE seller_id = $1 ORDER BY created_at DESC`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

const selectOrder = `
	SELECT id, item_id, buyer_id, seller_id, amount_cents, quantity, status,
	       ship_name, ship_address, ship_city, ship_postal_code, ship_phone,
	       created_at, updated_at
	FROM orders`

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.ItemID, &o.BuyerID, &o.SellerID, &o.Amount, &o.Quantity, &o.Status,
		&o.Shipping.FullName, &o.Shipping.Address, &o.Shipping.City, &o.Shipping.PostalCode, &o.Shipping.Phone,
		&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanOrders(rows pgx.Rows) ([]*domain.Order, error) {
	var out []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
