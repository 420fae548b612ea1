package progression

import (
	"focusflow/internal/catalog"
	"focusflow/internal/domain"
)

// EvaluateUnlocks returns the reward definitions whose predicates became
// satisfied between the before and after snapshots. The three-part guard
// (satisfied after, not satisfied before, not already unlocked) makes
// evaluation idempotent and prevents awards on initial load when a user
// already sits above a threshold.
//
// Callers run exactly one evaluation pass per external event: XP granted
// by the returned rewards may cross further thresholds, but those unlock
// only on the next event. This bounds the chain regardless of how the
// catalog is configured.
func EvaluateUnlocks(before, after *domain.User, defs []domain.RewardDefinition) []domain.RewardDefinition {
	var newly []domain.RewardDefinition
	for _, def := range defs {
		if after.HasUnlocked(def.ID) {
			continue
		}
		if !catalog.Evaluate(def, after) {
			continue
		}
		if catalog.Evaluate(def, before) {
			continue
		}
		newly = append(newly, def)
	}
	return newly
}

// RecordUnlock appends the reward id to the matching unlocked set.
func RecordUnlock(u *domain.User, def domain.RewardDefinition) {
	if u.HasUnlocked(def.ID) {
		return
	}
	if def.Kind == domain.RewardBadge {
		u.UnlockedBadgeIDs = append(u.UnlockedBadgeIDs, def.ID)
	} else {
		u.UnlockedAchievementIDs = append(u.UnlockedAchievementIDs, def.ID)
	}
}
