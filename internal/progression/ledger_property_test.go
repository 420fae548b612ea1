package progression

import (
	"testing"
	"time"

	"focusflow/internal/domain"

	"pgregory.net/rapid"
)

// Property: total XP never decreases and level is always derived from it.
func TestApplyXPInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tiers := []domain.Tier{
			domain.TierFree, domain.TierPremiumMonthly, domain.TierPremiumYearly,
			domain.TierPremiumLifetime, domain.TierLegacyPremium,
		}
		u := &domain.User{
			SubscriptionTier: rapid.SampledFrom(tiers).Draw(t, "tier"),
			TotalXP:          rapid.Int64Range(0, 1_000_000).Draw(t, "xp"),
		}
		u.Level = LevelFromXP(u.TotalXP)

		base := rapid.IntRange(1, 10_000).Draw(t, "base")
		boost := rapid.SampledFrom([]float64{0, 1, 1.5, 2}).Draw(t, "boost")
		before := u.TotalXP

		gained, err := ApplyXP(u, base, boost)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gained < int64(base) {
			t.Fatalf("gained %d below base %d", gained, base)
		}
		if u.TotalXP != before+gained {
			t.Fatalf("total_xp %d != %d + %d", u.TotalXP, before, gained)
		}
		if u.Level != int(u.TotalXP/XPPerLevel)+1 {
			t.Fatalf("level %d not derived from xp %d", u.Level, u.TotalXP)
		}
	})
}

// Property: whatever sequence of activity dates is applied, the streak
// stays positive once started and never exceeds the best streak.
func TestUpdateStreakInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		u := &domain.User{}
		start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		n := rapid.IntRange(1, 50).Draw(t, "events")
		offset := 0
		for i := 0; i < n; i++ {
			offset += rapid.IntRange(0, 4).Draw(t, "gap")
			UpdateStreak(u, start.AddDate(0, 0, offset), false)

			if u.CurrentStreak < 1 {
				t.Fatalf("streak dropped below 1: %d", u.CurrentStreak)
			}
			if u.BestStreak < u.CurrentStreak {
				t.Fatalf("best %d below current %d", u.BestStreak, u.CurrentStreak)
			}
		}
	})
}
