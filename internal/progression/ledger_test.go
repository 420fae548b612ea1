package progression

import (
	"testing"
	"time"

	"focusflow/internal/domain"
	"focusflow/internal/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLevelFromXP(t *testing.T) {
	cases := []struct {
		xp    int64
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{150, 2}, // floor boundary: 150 XP stays level 2
		{199, 2},
		{200, 3},
		{-5, 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.level, LevelFromXP(c.xp), "xp=%d", c.xp)
	}
}

func TestApplyXPFreeTier(t *testing.T) {
	u := &domain.User{SubscriptionTier: domain.TierFree}

	gained, err := ApplyXP(u, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(10), gained)
	assert.Equal(t, int64(10), u.TotalXP)
	assert.Equal(t, 1, u.Level)
}

func TestApplyXPPremiumBonus(t *testing.T) {
	u := &domain.User{SubscriptionTier: domain.TierPremiumMonthly}

	gained, err := ApplyXP(u, 10, 0)

	require.NoError(t, err)
	// 10 * 1.20 floored = 12
	assert.Equal(t, int64(12), gained)
	assert.Equal(t, int64(12), u.TotalXP)
}

func TestApplyXPPremiumBonusFloors(t *testing.T) {
	u := &domain.User{SubscriptionTier: domain.TierLegacyPremium}

	gained, err := ApplyXP(u, 3, 0)

	require.NoError(t, err)
	// 3 * 1.20 = 3.6 floored to 3
	assert.Equal(t, int64(3), gained)
}

func TestApplyXPWithBooster(t *testing.T) {
	u := &domain.User{SubscriptionTier: domain.TierPremiumYearly}

	gained, err := ApplyXP(u, 10, 2.0)

	require.NoError(t, err)
	// 10 * 1.20 * 2.0 = 24
	assert.Equal(t, int64(24), gained)
}

func TestApplyXPRecomputesLevel(t *testing.T) {
	u := &domain.User{SubscriptionTier: domain.TierFree, TotalXP: 90, Level: 1}

	_, err := ApplyXP(u, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(100), u.TotalXP)
	assert.Equal(t, 2, u.Level)
}

func TestApplyXPRejectsNonPositive(t *testing.T) {
	u := &domain.User{SubscriptionTier: domain.TierFree, TotalXP: 40}

	_, err := ApplyXP(u, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ApplyXP(u, -10, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assert.Equal(t, int64(40), u.TotalXP, "record must be untouched on error")
}

func TestUpdateStreakFirstActivity(t *testing.T) {
	u := &domain.User{}

	used := UpdateStreak(u, day(2025, 6, 1), false)

	assert.False(t, used)
	assert.Equal(t, 1, u.CurrentStreak)
	assert.Equal(t, 1, u.BestStreak)
}

func TestUpdateStreakSameDayIdempotent(t *testing.T) {
	u := &domain.User{}
	UpdateStreak(u, day(2025, 6, 1), false)
	UpdateStreak(u, day(2025, 6, 1), false)

	assert.Equal(t, 1, u.CurrentStreak, "two completions same day must not double-count")
}

func TestUpdateStreakConsecutiveDays(t *testing.T) {
	u := &domain.User{}
	UpdateStreak(u, day(2025, 6, 1), false)
	UpdateStreak(u, day(2025, 6, 2), false)
	UpdateStreak(u, day(2025, 6, 3), false)

	assert.Equal(t, 3, u.CurrentStreak)
	assert.Equal(t, 3, u.BestStreak)
}

func TestUpdateStreakGapResets(t *testing.T) {
	u := &domain.User{}
	UpdateStreak(u, day(2025, 6, 1), false)
	UpdateStreak(u, day(2025, 6, 2), false)
	UpdateStreak(u, day(2025, 6, 5), false)

	assert.Equal(t, 1, u.CurrentStreak)
	assert.Equal(t, 2, u.BestStreak, "best streak survives the reset")
}

func TestUpdateStreakProtectionAbsorbsGap(t *testing.T) {
	u := &domain.User{}
	UpdateStreak(u, day(2025, 6, 1), false)
	UpdateStreak(u, day(2025, 6, 2), false)

	used := UpdateStreak(u, day(2025, 6, 5), true)

	assert.True(t, used)
	assert.Equal(t, 2, u.CurrentStreak, "protected streak keeps its value")
}

func TestUpdateStreakIgnoresBackdatedActivity(t *testing.T) {
	u := &domain.User{}
	UpdateStreak(u, day(2025, 6, 5), false)

	used := UpdateStreak(u, day(2025, 6, 3), false)

	assert.False(t, used)
	assert.Equal(t, 1, u.CurrentStreak)
	assert.Equal(t, day(2025, 6, 5), *u.LastActivityDate)
}

func TestLevelProgress(t *testing.T) {
	u := &domain.User{TotalXP: 150, Level: 2}

	percent, toNext := LevelProgress(u)

	assert.InDelta(t, 50.0, percent, 0.001)
	assert.Equal(t, int64(50), toNext)
}

// The completion pipeline downgrades a lapsed tier before granting XP;
// after the downgrade the grant must be the plain base amount.
func TestLapsedPremiumGrantsBaseXPAfterDowngrade(t *testing.T) {
	expires := time.Now().UTC().Add(-48 * time.Hour)
	u := &domain.User{
		SubscriptionTier:      domain.TierPremiumMonthly,
		SubscriptionExpiresAt: &expires,
	}

	require.True(t, subscription.CheckExpiry(u, time.Now().UTC()))

	gained, err := ApplyXP(u, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(10), gained)
	assert.Equal(t, domain.TierFree, u.SubscriptionTier)
}
