package domain

import "time"

// Event actions recorded in the domain event log.
const (
	EventTaskCompleted         = "task_completed"
	EventSessionCompleted      = "session_completed"
	EventSubscriptionActivated = "subscription_activated"
	EventSubscriptionExpired   = "subscription_expired"
	EventPurchaseConfirmed     = "purchase_confirmed"
	EventReferralSignup        = "referral_signup"
	EventCommissionEarned      = "commission_earned"
	EventWithdrawalRequested   = "withdrawal_requested"
	EventRewardUnlocked        = "reward_unlocked"
)

// EventLog is an append-only record of processed domain events, kept for
// support and debugging.
type EventLog struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Action    string                 `db:"action" json:"action"`
	Details   map[string]interface{} `db:"details" json:"details,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}
