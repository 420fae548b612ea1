package subscription

import (
	"testing"
	"time"

	"focusflow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPremiumLike(t *testing.T) {
	assert.False(t, IsPremiumLike(domain.TierFree))
	assert.True(t, IsPremiumLike(domain.TierPremiumMonthly))
	assert.True(t, IsPremiumLike(domain.TierPremiumYearly))
	assert.True(t, IsPremiumLike(domain.TierPremiumLifetime))
	assert.True(t, IsPremiumLike(domain.TierLegacyPremium))
}

func TestActivateMonthlyComputesExpiry(t *testing.T) {
	u := &domain.User{SubscriptionTier: domain.TierFree}
	at := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	Activate(u, domain.TierPremiumMonthly, at)

	require.NotNil(t, u.SubscriptionExpiresAt)
	assert.Equal(t, at.AddDate(0, 1, 0), *u.SubscriptionExpiresAt)
	assert.Equal(t, domain.TierPremiumMonthly, u.SubscriptionTier)
}

func TestActivateYearlyComputesExpiry(t *testing.T) {
	u := &domain.User{SubscriptionTier: domain.TierFree}
	at := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	Activate(u, domain.TierPremiumYearly, at)

	require.NotNil(t, u.SubscriptionExpiresAt)
	assert.Equal(t, at.AddDate(1, 0, 0), *u.SubscriptionExpiresAt)
}

func TestActivateLifetimeHasNoExpiry(t *testing.T) {
	u := &domain.User{SubscriptionTier: domain.TierFree}

	Activate(u, domain.TierPremiumLifetime, time.Now())

	assert.Nil(t, u.SubscriptionExpiresAt)

	// checkExpiry at any future date leaves a lifetime tier unchanged
	changed := CheckExpiry(u, time.Now().AddDate(50, 0, 0))
	assert.False(t, changed)
	assert.Equal(t, domain.TierPremiumLifetime, u.SubscriptionTier)
}

func TestReactivationOverwritesExpiry(t *testing.T) {
	u := &domain.User{SubscriptionTier: domain.TierFree}
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	Activate(u, domain.TierPremiumMonthly, first)
	Activate(u, domain.TierPremiumMonthly, second)

	require.NotNil(t, u.SubscriptionExpiresAt)
	// overwrite, not extend: expiry is one month after the second purchase
	assert.Equal(t, second.AddDate(0, 1, 0), *u.SubscriptionExpiresAt)
}

func TestCheckExpiryDowngradesToFree(t *testing.T) {
	u := &domain.User{SubscriptionTier: domain.TierFree}
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	Activate(u, domain.TierPremiumMonthly, at)

	changed := CheckExpiry(u, at.AddDate(0, 2, 0))

	assert.True(t, changed)
	assert.Equal(t, domain.TierFree, u.SubscriptionTier)
	assert.Nil(t, u.SubscriptionExpiresAt)
}

func TestCheckExpiryBeforeExpiryIsNoop(t *testing.T) {
	u := &domain.User{SubscriptionTier: domain.TierFree}
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	Activate(u, domain.TierPremiumYearly, at)

	changed := CheckExpiry(u, at.AddDate(0, 6, 0))

	assert.False(t, changed)
	assert.Equal(t, domain.TierPremiumYearly, u.SubscriptionTier)
}

func TestCheckExpiryNeverDowngradesLegacy(t *testing.T) {
	u := &domain.User{SubscriptionTier: domain.TierLegacyPremium}

	changed := CheckExpiry(u, time.Now().AddDate(10, 0, 0))

	assert.False(t, changed)
	assert.Equal(t, domain.TierLegacyPremium, u.SubscriptionTier)
}
