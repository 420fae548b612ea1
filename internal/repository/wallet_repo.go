package repository

import (
	"context"

	"focusflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WalletRepository struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

// Get returns the user's wallet, creating an empty one on first access.
func (r *WalletRepository) Get(ctx context.Context, userID int64) (*domain.Wallet, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO wallets (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING user_id, total_earned_cents, available_cents, updated_at`,
		userID)
	return scanWallet(row)
}

// Credit adds a commission to the referrer's wallet inside an open
// transaction. The row lock serializes this against a concurrent
// withdrawal from the referrer's own request path.
func (r *WalletRepository) Credit(ctx context.Context, tx pgx.Tx, userID, amountCents int64) (*domain.Wallet, error) {
	if _, err := tx.Exec(ctx,
		`INSERT INTO wallets (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx,
		`SELECT 1 FROM wallets WHERE user_id = $1 FOR UPDATE`, userID); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx,
		`UPDATE wallets
		 SET total_earned_cents = total_earned_cents + $2,
		     available_cents = available_cents + $2,
		     updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING user_id, total_earned_cents, available_cents, updated_at`,
		userID, amountCents)
	return scanWallet(row)
}

// Withdraw debits the balance and appends a pending withdrawal in one
// transaction. Returns ok == false without touching the wallet when the
// balance is insufficient; the caller receives the current wallet either
// way.
func (r *WalletRepository) Withdraw(ctx context.Context, userID, amountCents int64, method string) (w *domain.Wallet, wd *domain.Withdrawal, ok bool, err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx,
		`INSERT INTO wallets (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID); err != nil {
		return nil, nil, false, err
	}

	row := tx.QueryRow(ctx,
		`SELECT user_id, total_earned_cents, available_cents, updated_at
		 FROM wallets WHERE user_id = $1 FOR UPDATE`, userID)
	w, err = scanWallet(row)
	if err != nil {
		return nil, nil, false, err
	}

	if amountCents > w.AvailableCents {
		return w, nil, false, nil
	}

	if err = tx.QueryRow(ctx,
		`UPDATE wallets SET available_cents = available_cents - $2, updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING available_cents`,
		userID, amountCents).Scan(&w.AvailableCents); err != nil {
		return nil, nil, false, err
	}

	wd = &domain.Withdrawal{UserID: userID, AmountCents: amountCents, Method: method, Status: domain.WithdrawalPending}
	if err = tx.QueryRow(ctx,
		`INSERT INTO withdrawals (user_id, amount_cents, method)
		 VALUES ($1, $2, $3)
		 RETURNING id, status, created_at`,
		userID, amountCents, method).Scan(&wd.ID, &wd.Status, &wd.CreatedAt); err != nil {
		return nil, nil, false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, nil, false, err
	}
	return w, wd, true, nil
}

func (r *WalletRepository) ListWithdrawals(ctx context.Context, userID int64) ([]domain.Withdrawal, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, amount_cents, method, status, created_at
		 FROM withdrawals WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Withdrawal
	for rows.Next() {
		var wd domain.Withdrawal
		if err := rows.Scan(&wd.ID, &wd.UserID, &wd.AmountCents, &wd.Method, &wd.Status, &wd.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, wd)
	}
	return out, rows.Err()
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var w domain.Wallet
	err := row.Scan(&w.UserID, &w.TotalEarnedCents, &w.AvailableCents, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
