package catalog

import (
	"testing"
	"time"

	"focusflow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewardIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range Rewards() {
		assert.False(t, seen[def.ID], "duplicate reward id %s", def.ID)
		seen[def.ID] = true
	}
}

func TestRewardByID(t *testing.T) {
	def, ok := RewardByID("streak_7")
	require.True(t, ok)
	assert.Equal(t, "Week Warrior", def.Title)
	assert.Equal(t, 100, def.XPReward)

	_, ok = RewardByID("nope")
	assert.False(t, ok)
}

func TestEvaluatePredicates(t *testing.T) {
	u := &domain.User{
		Level:                  5,
		TasksCompleted:         12,
		FocusSessionsCompleted: 3,
		CurrentStreak:          7,
		TotalReferrals:         1,
		SubscriptionTier:       domain.TierFree,
	}

	cases := []struct {
		pred domain.Predicate
		want bool
	}{
		{domain.Predicate{Kind: domain.PredLevelGte, Value: 5}, true},
		{domain.Predicate{Kind: domain.PredLevelGte, Value: 6}, false},
		{domain.Predicate{Kind: domain.PredTasksGte, Value: 10}, true},
		{domain.Predicate{Kind: domain.PredSessionsGte, Value: 10}, false},
		{domain.Predicate{Kind: domain.PredStreakGte, Value: 7}, true},
		{domain.Predicate{Kind: domain.PredReferralsGte, Value: 5}, false},
		{domain.Predicate{Kind: domain.PredPurchasesGte, Value: 1}, false},
		{domain.Predicate{Kind: domain.PredPremiumTier}, false},
	}
	for _, c := range cases {
		got := Evaluate(domain.RewardDefinition{Predicate: c.pred}, u)
		assert.Equal(t, c.want, got, "%+v", c.pred)
	}
}

func TestEvaluateDoesNotMutateRecord(t *testing.T) {
	u := &domain.User{Level: 3, CurrentStreak: 2}
	snapshot := *u

	for _, def := range Rewards() {
		Evaluate(def, u)
	}

	assert.Equal(t, snapshot, *u)
}

func TestEvaluatePremiumTierPredicate(t *testing.T) {
	def := domain.RewardDefinition{Predicate: domain.Predicate{Kind: domain.PredPremiumTier}}

	for _, tier := range []domain.Tier{domain.TierPremiumMonthly, domain.TierPremiumYearly, domain.TierPremiumLifetime, domain.TierLegacyPremium} {
		assert.True(t, Evaluate(def, &domain.User{SubscriptionTier: tier}), "%s", tier)
	}
	assert.False(t, Evaluate(def, &domain.User{SubscriptionTier: domain.TierFree}))
}

func TestEvaluateAcceleratorRoundsUp(t *testing.T) {
	def := domain.RewardDefinition{Predicate: domain.Predicate{Kind: domain.PredStreakGte, Value: 7}}

	// 7 halves to 4 (ceil), so a 4-day streak qualifies but 3 does not
	assert.True(t, Evaluate(def, &domain.User{CurrentStreak: 4, AchievementAccelerator: true}))
	assert.False(t, Evaluate(def, &domain.User{CurrentStreak: 3, AchievementAccelerator: true}))
}

func TestProductsDisplayOrderComplete(t *testing.T) {
	items := Products()
	assert.Len(t, items, len(products), "every product must appear in the display order")
}

func TestProductByID(t *testing.T) {
	p, ok := ProductByID("streak_shield")
	require.True(t, ok)
	assert.Equal(t, ProductProtection, p.Category)

	boost, ok := ProductByID("xp_booster_24h")
	require.True(t, ok)
	assert.Equal(t, 2.0, boost.BoostMultiplier)
	assert.Equal(t, 24*time.Hour, boost.BoostDuration)

	_, ok = ProductByID("missing")
	assert.False(t, ok)
}

func TestPackages(t *testing.T) {
	pkgs := Packages()
	require.Len(t, pkgs, 3)
	assert.Equal(t, "monthly_premium", pkgs[0].ID)
	assert.Equal(t, int64(999), pkgs[0].AmountCents)
	assert.Equal(t, domain.TierPremiumLifetime, pkgs[2].Tier)
}

func TestThemeForDay(t *testing.T) {
	monday := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Motivation Monday", ThemeForDay(monday).Name)

	sunday := time.Date(2025, 6, 8, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Soulful Sunday", ThemeForDay(sunday).Name)
}

func TestFeatureFlags(t *testing.T) {
	free := FeatureFlags(domain.TierFree)
	premium := FeatureFlags(domain.TierPremiumMonthly)

	require.Len(t, free, len(PremiumFeatures))
	for _, f := range PremiumFeatures {
		assert.False(t, free[f])
		assert.True(t, premium[f])
	}
}
