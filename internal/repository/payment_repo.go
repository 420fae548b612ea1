package repository

import (
	"context"
	"time"

	"focusflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, user_id, kind, reference, amount_cents, currency, status, session_id, created_at, completed_at`

// Create records a pending transaction at checkout initiation.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.PaymentTransaction) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO payment_transactions (user_id, kind, reference, amount_cents, currency, session_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, status, created_at`,
		p.UserID, p.Kind, p.Reference, p.AmountCents, p.Currency, p.SessionID,
	).Scan(&p.ID, &p.Status, &p.CreatedAt)
}

func (r *PaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.PaymentTransaction, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payment_transactions WHERE session_id = $1`, sessionID)
	return scanPayment(row)
}

// GetBySessionIDForUpdate locks the transaction row so concurrent
// resolutions of the same session serialize.
func (r *PaymentRepository) GetBySessionIDForUpdate(ctx context.Context, tx pgx.Tx, sessionID string) (*domain.PaymentTransaction, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payment_transactions WHERE session_id = $1 FOR UPDATE`, sessionID)
	return scanPayment(row)
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.PaymentTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+paymentColumns+` FROM payment_transactions
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PaymentTransaction
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Resolve moves a pending transaction to a terminal status inside the
// caller's transaction, so fulfillment and the status flip commit or
// roll back together. The status guard keeps completed/failed rows
// immutable and makes repeated webhook deliveries no-ops (returns
// false).
func (r *PaymentRepository) Resolve(ctx context.Context, tx pgx.Tx, sessionID string, status domain.PaymentStatus, at time.Time) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE payment_transactions SET status = $2, completed_at = $3
		 WHERE session_id = $1 AND status = 'pending'`,
		sessionID, status, at,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanPayment(row pgx.Row) (*domain.PaymentTransaction, error) {
	var p domain.PaymentTransaction
	err := row.Scan(&p.ID, &p.UserID, &p.Kind, &p.Reference, &p.AmountCents, &p.Currency,
		&p.Status, &p.SessionID, &p.CreatedAt, &p.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
