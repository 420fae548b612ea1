package domain

import "time"

// Tier is a user's subscription classification.
type Tier string

const (
	TierFree            Tier = "free"
	TierPremiumMonthly  Tier = "premium_monthly"
	TierPremiumYearly   Tier = "premium_yearly"
	TierPremiumLifetime Tier = "premium_lifetime"
	TierLegacyPremium   Tier = "legacy_premium"
)

// User is the per-user progression record. Level is always derived from
// TotalXP and never set independently.
type User struct {
	ID                     int64      `db:"id" json:"id"`
	Name                   string     `db:"name" json:"name"`
	Email                  string     `db:"email" json:"email"`
	ReferralCode           string     `db:"referral_code" json:"referral_code"`
	TotalXP                int64      `db:"total_xp" json:"total_xp"`
	Level                  int        `db:"level" json:"level"`
	CurrentStreak          int        `db:"current_streak" json:"current_streak"`
	BestStreak             int        `db:"best_streak" json:"best_streak"`
	LastActivityDate       *time.Time `db:"last_activity_date" json:"last_activity_date,omitempty"`
	TasksCompleted         int        `db:"tasks_completed" json:"tasks_completed"`
	FocusSessionsCompleted int        `db:"focus_sessions_completed" json:"focus_sessions_completed"`
	TotalReferrals         int        `db:"total_referrals" json:"total_referrals"`
	ItemsPurchased         int        `db:"items_purchased" json:"items_purchased"`
	SubscriptionTier       Tier       `db:"subscription_tier" json:"subscription_tier"`
	SubscriptionExpiresAt  *time.Time `db:"subscription_expires_at" json:"subscription_expires_at,omitempty"`
	AchievementAccelerator bool       `db:"achievement_accelerator" json:"achievement_accelerator"`
	UnlockedAchievementIDs []string   `db:"unlocked_achievement_ids" json:"unlocked_achievement_ids"`
	UnlockedBadgeIDs       []string   `db:"unlocked_badge_ids" json:"unlocked_badge_ids"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
}

// HasUnlocked reports whether the reward id is already present in either
// unlocked set.
func (u *User) HasUnlocked(id string) bool {
	for _, v := range u.UnlockedAchievementIDs {
		if v == id {
			return true
		}
	}
	for _, v := range u.UnlockedBadgeIDs {
		if v == id {
			return true
		}
	}
	return false
}
