package domain

import "time"

// PaymentKind distinguishes subscription checkouts from in-app item
// purchases.
type PaymentKind string

const (
	PaymentSubscription PaymentKind = "subscription"
	PaymentItem         PaymentKind = "in_app_item"
)

// PaymentStatus follows the processor session lifecycle. Completed and
// failed are terminal; rows are never mutated after reaching them.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentExpired   PaymentStatus = "expired"
)

// PaymentTransaction is created on checkout initiation and resolved by a
// confirmed processor callback or terminal timeout.
type PaymentTransaction struct {
	ID          int64         `db:"id" json:"id"`
	UserID      int64         `db:"user_id" json:"user_id"`
	Kind        PaymentKind   `db:"kind" json:"kind"`
	Reference   string        `db:"reference" json:"reference"` // package id or product id
	AmountCents int64         `db:"amount_cents" json:"amount_cents"`
	Currency    string        `db:"currency" json:"currency"`
	Status      PaymentStatus `db:"status" json:"status"`
	SessionID   string        `db:"session_id" json:"session_id"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	CompletedAt *time.Time    `db:"completed_at" json:"completed_at,omitempty"`
}
