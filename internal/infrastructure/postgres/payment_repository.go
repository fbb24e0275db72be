package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/corpz/marketplace/internal/domain/payment"
)

type PaymentRepository struct{ DB *pgxpool.Pool }

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Insert(ctx context.Context, rec *domain.Record) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO payments (id, order_id, user_id, amount_cents, method, reference, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.OrderID, rec.UserID, rec.Amount, rec.Method, rec.Reference, rec.Status, rec.CreatedAt,
	)
	return err
}

func (r *PaymentRepository) GetByOrder(ctx context.Context, orderID string) (*domain.Record, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT id, order_id, user_id, amount_cents, method, reference, status, created_at
		FROM payments WHERE order_id = $1`, orderID)
	return scanPayment(row)
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Record, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, user_id, amount_cents, method, reference, status, created_at
		FROM payments WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		rec, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanPayment(row rowScanner) (*domain.Record, error) {
	var rec domain.Record
	err := row.Scan(&rec.ID, &rec.OrderID, &rec.UserID, &rec.Amount, &rec.Method, &rec.Reference, &rec.Status, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
