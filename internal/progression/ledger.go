// Package progression implements the XP/level/streak ledger as pure
// functions over a snapshot of one user's record. Persistence and ordering
// are the dispatcher's job; these functions only transform state.
package progression

import (
	"errors"
	"math"
	"time"

	"focusflow/internal/domain"
	"focusflow/internal/subscription"
)

// ErrInvalidAmount means the caller passed a non-positive base XP amount.
// That is a caller bug, not a user-facing condition.
var ErrInvalidAmount = errors.New("xp amount must be positive")

// PremiumXPMultiplier is the bonus applied to every XP award for
// premium-like tiers. Bonus XP is floored to an integer.
const PremiumXPMultiplier = 1.20

// XPPerLevel is the flat amount of XP each level requires.
const XPPerLevel = 100

// LevelFromXP derives the level from total XP. Level 1 starts at 0 XP.
func LevelFromXP(totalXP int64) int {
	if totalXP < 0 {
		return 1
	}
	return int(totalXP/XPPerLevel) + 1
}

// ApplyXP adds base XP to the record, applying the subscription-tier bonus
// and, when boost > 1, the active XP-booster multiplier. The multiplied
// amount is floored before adding. Level is recomputed from the new total.
// Returns the XP actually gained.
func ApplyXP(u *domain.User, base int, boost float64) (int64, error) {
	if base <= 0 {
		return 0, ErrInvalidAmount
	}

	amount := float64(base)
	if subscription.IsPremiumLike(u.SubscriptionTier) {
		amount *= PremiumXPMultiplier
	}
	if boost > 1 {
		amount *= boost
	}

	gained := int64(math.Floor(amount))
	u.TotalXP += gained
	u.Level = LevelFromXP(u.TotalXP)
	return gained, nil
}

// UpdateStreak advances the daily streak for an activity on the given
// date. Same-day activity is idempotent; a one-day gap increments; a
// longer gap resets to 1 unless protectionAvailable is true, in which case
// the streak survives and the function reports that one token was spent.
func UpdateStreak(u *domain.User, activityDate time.Time, protectionAvailable bool) (protectionUsed bool) {
	day := truncateToDay(activityDate)

	switch {
	case u.LastActivityDate == nil:
		u.CurrentStreak = 1
	default:
		last := truncateToDay(*u.LastActivityDate)
		gap := int(day.Sub(last).Hours() / 24)
		switch {
		case gap <= 0:
			// same day (or clock skew): no change
			return false
		case gap == 1:
			u.CurrentStreak++
		case protectionAvailable:
			// missed day absorbed by a streak-protection token
			protectionUsed = true
		default:
			u.CurrentStreak = 1
		}
	}

	if u.CurrentStreak > u.BestStreak {
		u.BestStreak = u.CurrentStreak
	}
	u.LastActivityDate = &day
	return protectionUsed
}

// LevelProgress returns how far the user is into the current level as a
// percentage, and the XP still needed for the next level.
func LevelProgress(u *domain.User) (percent float64, xpToNext int64) {
	into := u.TotalXP % XPPerLevel
	percent = math.Min(100, float64(into)/XPPerLevel*100)
	return percent, XPPerLevel - into
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
