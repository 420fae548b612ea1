// Package subscription implements the tier state machine: free users move
// to a premium tier on confirmed payment and fall back to free when their
// expiry passes. legacy_premium is a grandfathered terminal state reachable
// only by migration.
package subscription

import (
	"time"

	"focusflow/internal/domain"
)

// IsPremiumLike reports whether the tier grants premium benefits.
func IsPremiumLike(tier domain.Tier) bool {
	switch tier {
	case domain.TierPremiumMonthly, domain.TierPremiumYearly, domain.TierPremiumLifetime, domain.TierLegacyPremium:
		return true
	}
	return false
}

// Activate sets the tier and computes the expiry from the purchase time.
// Re-activating an already-active tier overwrites the expiry rather than
// extending it; that is a deliberate simplification, not a bug.
func Activate(u *domain.User, tier domain.Tier, purchasedAt time.Time) {
	u.SubscriptionTier = tier
	switch tier {
	case domain.TierPremiumMonthly:
		exp := purchasedAt.AddDate(0, 1, 0)
		u.SubscriptionExpiresAt = &exp
	case domain.TierPremiumYearly:
		exp := purchasedAt.AddDate(1, 0, 0)
		u.SubscriptionExpiresAt = &exp
	default:
		// lifetime and legacy never expire
		u.SubscriptionExpiresAt = nil
	}
}

// CheckExpiry lazily downgrades an expired monthly/yearly subscription to
// free. It never touches lifetime or legacy tiers. Returns true when a
// downgrade happened.
func CheckExpiry(u *domain.User, now time.Time) bool {
	if u.SubscriptionTier != domain.TierPremiumMonthly && u.SubscriptionTier != domain.TierPremiumYearly {
		return false
	}
	if u.SubscriptionExpiresAt == nil || !u.SubscriptionExpiresAt.Before(now) {
		return false
	}
	u.SubscriptionTier = domain.TierFree
	u.SubscriptionExpiresAt = nil
	return true
}
