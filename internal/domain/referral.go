package domain

import "time"

// CommissionStatus tracks a referral edge's payout state.
type CommissionStatus string

const (
	CommissionPending CommissionStatus = "pending"
	CommissionEarned  CommissionStatus = "earned"
	CommissionPaid    CommissionStatus = "paid"
)

// Referral links a referrer to a referred user. A user can be referred by
// at most one other user; the edge is an independent ledger row owned by
// neither side.
type Referral struct {
	ID               int64            `db:"id" json:"id"`
	ReferrerID       int64            `db:"referrer_id" json:"referrer_id"`
	ReferredID       int64            `db:"referred_id" json:"referred_id"`
	CommissionStatus CommissionStatus `db:"commission_status" json:"commission_status"`
	CommissionCents  int64            `db:"commission_cents" json:"commission_cents"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	EarnedAt         *time.Time       `db:"earned_at" json:"earned_at,omitempty"`
}

// Commission amounts in euro cents, keyed by the referred user's tier at
// the moment their subscription activates.
const (
	CommissionMonthlyCents  int64 = 500
	CommissionYearlyCents   int64 = 1500
	CommissionLifetimeCents int64 = 2500
)

// CommissionForTier returns the commission amount in cents for a
// subscription tier, or 0 for tiers that pay no commission.
func CommissionForTier(tier Tier) int64 {
	switch tier {
	case TierPremiumMonthly:
		return CommissionMonthlyCents
	case TierPremiumYearly:
		return CommissionYearlyCents
	case TierPremiumLifetime:
		return CommissionLifetimeCents
	default:
		return 0
	}
}
