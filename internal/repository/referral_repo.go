package repository

import (
	"context"
	"time"

	"focusflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReferralRepository struct {
	db *pgxpool.Pool
}

func NewReferralRepository(db *pgxpool.Pool) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// Create inserts a referral edge. The UNIQUE constraint on referred_id
// enforces at-most-one-referrer; a conflicting insert affects zero rows
// and is reported as created == false.
func (r *ReferralRepository) Create(ctx context.Context, edge *domain.Referral) (created bool, err error) {
	err = r.db.QueryRow(ctx,
		`INSERT INTO referrals (referrer_id, referred_id)
		 VALUES ($1, $2)
		 ON CONFLICT (referred_id) DO NOTHING
		 RETURNING id, commission_status, created_at`,
		edge.ReferrerID, edge.ReferredID,
	).Scan(&edge.ID, &edge.CommissionStatus, &edge.CreatedAt)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByReferred returns the edge pointing at the referred user, if any.
func (r *ReferralRepository) GetByReferred(ctx context.Context, referredID int64) (*domain.Referral, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, referrer_id, referred_id, commission_status, commission_cents, created_at, earned_at
		 FROM referrals WHERE referred_id = $1`, referredID)
	return scanReferral(row)
}

func (r *ReferralRepository) ListByReferrer(ctx context.Context, referrerID int64) ([]domain.Referral, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, referrer_id, referred_id, commission_status, commission_cents, created_at, earned_at
		 FROM referrals WHERE referrer_id = $1
		 ORDER BY created_at DESC`, referrerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []domain.Referral
	for rows.Next() {
		e, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, *e)
	}
	return edges, rows.Err()
}

// MarkEarned transitions the edge pending -> earned inside an open
// transaction. The status guard in the WHERE clause makes accrual
// at-most-once: a repeated delivery of the same activation event affects
// zero rows and returns false.
func (r *ReferralRepository) MarkEarned(ctx context.Context, tx pgx.Tx, edgeID, amountCents int64, at time.Time) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE referrals
		 SET commission_status = 'earned', commission_cents = $2, earned_at = $3
		 WHERE id = $1 AND commission_status = 'pending'`,
		edgeID, amountCents, at,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanReferral(row pgx.Row) (*domain.Referral, error) {
	var e domain.Referral
	err := row.Scan(&e.ID, &e.ReferrerID, &e.ReferredID, &e.CommissionStatus, &e.CommissionCents, &e.CreatedAt, &e.EarnedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
