package progression

import (
	"testing"

	"focusflow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelDef(id string, level, xp int) domain.RewardDefinition {
	return domain.RewardDefinition{
		ID: id, Kind: domain.RewardAchievement, Category: domain.CategoryProgression,
		Predicate: domain.Predicate{Kind: domain.PredLevelGte, Value: level},
		XPReward:  xp,
	}
}

func TestEvaluateUnlocksOnTransition(t *testing.T) {
	defs := []domain.RewardDefinition{levelDef("level_2", 2, 50)}
	before := &domain.User{TotalXP: 90, Level: 1}
	after := &domain.User{TotalXP: 100, Level: 2}

	newly := EvaluateUnlocks(before, after, defs)

	require.Len(t, newly, 1)
	assert.Equal(t, "level_2", newly[0].ID)
}

func TestEvaluateSkipsAlreadyUnlocked(t *testing.T) {
	defs := []domain.RewardDefinition{levelDef("level_2", 2, 50)}
	before := &domain.User{TotalXP: 90, Level: 1}
	after := &domain.User{TotalXP: 100, Level: 2, UnlockedAchievementIDs: []string{"level_2"}}

	newly := EvaluateUnlocks(before, after, defs)

	assert.Empty(t, newly, "an id already in the unlocked set is never re-awarded")
}

func TestEvaluateOnlyTransitionsTrigger(t *testing.T) {
	// user already satisfied the predicate before the event: no award,
	// even though the id is not in the unlocked set (initial-load case)
	defs := []domain.RewardDefinition{levelDef("level_2", 2, 50)}
	before := &domain.User{TotalXP: 250, Level: 3}
	after := &domain.User{TotalXP: 260, Level: 3}

	newly := EvaluateUnlocks(before, after, defs)

	assert.Empty(t, newly)
}

func TestEvaluateIdempotentUnderRepeat(t *testing.T) {
	defs := []domain.RewardDefinition{levelDef("level_2", 2, 50)}
	before := &domain.User{TotalXP: 90, Level: 1}
	after := &domain.User{TotalXP: 100, Level: 2}

	first := EvaluateUnlocks(before, after, defs)
	require.Len(t, first, 1)
	RecordUnlock(after, first[0])

	second := EvaluateUnlocks(before, after, defs)
	assert.Empty(t, second)
}

// Full scenario from the ledger contract: 10 tasks at 10 XP each bring a
// free user to 100 XP / level 2; a "level >= 2, reward 50 XP" achievement
// fires once, and the bonus XP does not cascade into further unlocks.
func TestTaskScenarioWithFeedbackXP(t *testing.T) {
	defs := []domain.RewardDefinition{
		levelDef("level_2", 2, 50),
		levelDef("level_3", 3, 100),
	}
	u := &domain.User{SubscriptionTier: domain.TierFree}

	for i := 0; i < 10; i++ {
		before := *u
		_, err := ApplyXP(u, 10, 0)
		require.NoError(t, err)

		for _, def := range EvaluateUnlocks(&before, u, defs) {
			RecordUnlock(u, def)
			_, err := ApplyXP(u, def.XPReward, 0)
			require.NoError(t, err)
		}
	}

	assert.Equal(t, int64(150), u.TotalXP)
	assert.Equal(t, 2, u.Level, "150 XP stays level 2 (floor boundary)")
	assert.Equal(t, []string{"level_2"}, u.UnlockedAchievementIDs)
}

func TestAcceleratorHalvesThresholds(t *testing.T) {
	defs := []domain.RewardDefinition{levelDef("level_4", 4, 0)}
	before := &domain.User{Level: 1, AchievementAccelerator: true}
	after := &domain.User{Level: 2, AchievementAccelerator: true}

	newly := EvaluateUnlocks(before, after, defs)

	require.Len(t, newly, 1, "threshold 4 halves to 2 with the accelerator")
}

func TestRecordUnlockRoutesByKind(t *testing.T) {
	u := &domain.User{}
	RecordUnlock(u, domain.RewardDefinition{ID: "a", Kind: domain.RewardAchievement})
	RecordUnlock(u, domain.RewardDefinition{ID: "b", Kind: domain.RewardBadge})
	RecordUnlock(u, domain.RewardDefinition{ID: "a", Kind: domain.RewardAchievement})

	assert.Equal(t, []string{"a"}, u.UnlockedAchievementIDs)
	assert.Equal(t, []string{"b"}, u.UnlockedBadgeIDs)
}
