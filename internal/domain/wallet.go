package domain

import (
	"fmt"
	"time"
)

// Wallet holds a referrer's commission balance in euro cents.
// TotalEarnedCents is monotonically non-decreasing; AvailableCents is
// TotalEarnedCents minus the sum of requested withdrawals.
type Wallet struct {
	UserID           int64     `db:"user_id" json:"user_id"`
	TotalEarnedCents int64     `db:"total_earned_cents" json:"total_earned_cents"`
	AvailableCents   int64     `db:"available_cents" json:"available_cents"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// WithdrawalStatus tracks an external payout. Fulfillment happens outside
// this service; rows are append-only.
type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "pending"
	WithdrawalCompleted WithdrawalStatus = "completed"
	WithdrawalFailed    WithdrawalStatus = "failed"
)

// Withdrawal is one payout request against a wallet.
type Withdrawal struct {
	ID          int64            `db:"id" json:"id"`
	UserID      int64            `db:"user_id" json:"user_id"`
	AmountCents int64            `db:"amount_cents" json:"amount_cents"`
	Method      string           `db:"method" json:"method"`
	Status      WithdrawalStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// FormatEuros renders cents as a user-facing euro amount, e.g. "€3.00".
func FormatEuros(cents int64) string {
	return fmt.Sprintf("€%d.%02d", cents/100, cents%100)
}
