// Package catalog holds the static reward, product and package tables.
// Tables are loaded once at process start and treated as read-only
// dependencies injected into the engine, never mutated.
package catalog

import (
	"focusflow/internal/domain"
	"focusflow/internal/subscription"
)

// rewardDefs contains every achievement and badge definition in unlock
// display order.
var rewardDefs = []domain.RewardDefinition{
	// Level milestones
	{ID: "level_5", Kind: domain.RewardAchievement, Category: domain.CategoryProgression, Title: "Getting Serious", Description: "Reach level 5", Predicate: domain.Predicate{Kind: domain.PredLevelGte, Value: 5}, XPReward: 50, Rarity: domain.RarityCommon},
	{ID: "level_15", Kind: domain.RewardAchievement, Category: domain.CategoryProgression, Title: "Momentum Builder", Description: "Reach level 15", Predicate: domain.Predicate{Kind: domain.PredLevelGte, Value: 15}, XPReward: 100, Rarity: domain.RarityRare},
	{ID: "level_30", Kind: domain.RewardAchievement, Category: domain.CategoryProgression, Title: "Productivity Veteran", Description: "Reach level 30", Predicate: domain.Predicate{Kind: domain.PredLevelGte, Value: 30}, XPReward: 200, Rarity: domain.RarityEpic},
	{ID: "level_50", Kind: domain.RewardAchievement, Category: domain.CategoryProgression, Title: "Flow Legend", Description: "Reach level 50", Predicate: domain.Predicate{Kind: domain.PredLevelGte, Value: 50}, XPReward: 500, ThemeReward: "aurora", Rarity: domain.RarityLegendary},

	// Task milestones
	{ID: "tasks_10", Kind: domain.RewardAchievement, Category: domain.CategoryProgression, Title: "Task Warrior", Description: "Complete 10 tasks", Predicate: domain.Predicate{Kind: domain.PredTasksGte, Value: 10}, XPReward: 50, Rarity: domain.RarityCommon},
	{ID: "tasks_50", Kind: domain.RewardAchievement, Category: domain.CategoryProgression, Title: "Task Master", Description: "Complete 50 tasks", Predicate: domain.Predicate{Kind: domain.PredTasksGte, Value: 50}, XPReward: 100, Rarity: domain.RarityRare},

	// Focus session milestones
	{ID: "focus_10", Kind: domain.RewardAchievement, Category: domain.CategoryFocus, Title: "Focus Apprentice", Description: "Complete 10 focus sessions", Predicate: domain.Predicate{Kind: domain.PredSessionsGte, Value: 10}, XPReward: 75, Rarity: domain.RarityCommon},
	{ID: "focus_100", Kind: domain.RewardAchievement, Category: domain.CategoryFocus, Title: "Deep Work Devotee", Description: "Complete 100 focus sessions", Predicate: domain.Predicate{Kind: domain.PredSessionsGte, Value: 100}, XPReward: 250, Rarity: domain.RarityEpic},
	{ID: "focus_500", Kind: domain.RewardAchievement, Category: domain.CategoryFocus, Title: "Focus Master", Description: "Complete 500 focus sessions", Predicate: domain.Predicate{Kind: domain.PredSessionsGte, Value: 500}, XPReward: 1000, ThemeReward: "midnight", Rarity: domain.RarityLegendary},

	// Streak milestones
	{ID: "streak_3", Kind: domain.RewardAchievement, Category: domain.CategoryStreak, Title: "Warming Up", Description: "Maintain a 3-day streak", Predicate: domain.Predicate{Kind: domain.PredStreakGte, Value: 3}, XPReward: 30, Rarity: domain.RarityCommon},
	{ID: "streak_7", Kind: domain.RewardAchievement, Category: domain.CategoryStreak, Title: "Week Warrior", Description: "Maintain a 7-day streak", Predicate: domain.Predicate{Kind: domain.PredStreakGte, Value: 7}, XPReward: 100, Rarity: domain.RarityRare},
	{ID: "streak_30", Kind: domain.RewardAchievement, Category: domain.CategoryStreak, Title: "Habit Architect", Description: "Maintain a 30-day streak", Predicate: domain.Predicate{Kind: domain.PredStreakGte, Value: 30}, XPReward: 300, Rarity: domain.RarityEpic},
	{ID: "streak_100", Kind: domain.RewardAchievement, Category: domain.CategoryStreak, Title: "Unbreakable", Description: "Maintain a 100-day streak", Predicate: domain.Predicate{Kind: domain.PredStreakGte, Value: 100}, XPReward: 1000, ThemeReward: "ember", Rarity: domain.RarityLegendary},

	// One-time subscription entry bonus
	{ID: "premium_member", Kind: domain.RewardBadge, Category: domain.CategoryPremium, Title: "Premium Member", Description: "Activate a premium subscription", Predicate: domain.Predicate{Kind: domain.PredPremiumTier}, XPReward: 100, Rarity: domain.RarityRare},

	// Referral milestones
	{ID: "referrals_1", Kind: domain.RewardBadge, Category: domain.CategorySocial, Title: "Word of Mouth", Description: "Refer your first friend", Predicate: domain.Predicate{Kind: domain.PredReferralsGte, Value: 1}, XPReward: 50, Rarity: domain.RarityCommon},
	{ID: "referrals_5", Kind: domain.RewardBadge, Category: domain.CategorySocial, Title: "Community Builder", Description: "Refer 5 friends", Predicate: domain.Predicate{Kind: domain.PredReferralsGte, Value: 5}, XPReward: 200, Rarity: domain.RarityEpic},
	{ID: "referrals_10", Kind: domain.RewardBadge, Category: domain.CategorySocial, Title: "Ambassador", Description: "Refer 10 friends", Predicate: domain.Predicate{Kind: domain.PredReferralsGte, Value: 10}, XPReward: 500, Rarity: domain.RarityLegendary},

	// Purchase milestone
	{ID: "first_purchase", Kind: domain.RewardBadge, Category: domain.CategorySpecial, Title: "Collector", Description: "Buy your first shop item", Predicate: domain.Predicate{Kind: domain.PredPurchasesGte, Value: 1}, XPReward: 25, Rarity: domain.RarityCommon},
}

// Rewards returns all reward definitions in display order.
func Rewards() []domain.RewardDefinition {
	return rewardDefs
}

// RewardByID looks up a definition by id.
func RewardByID(id string) (domain.RewardDefinition, bool) {
	for _, d := range rewardDefs {
		if d.ID == id {
			return d, true
		}
	}
	return domain.RewardDefinition{}, false
}

// Evaluate reports whether the user currently satisfies the definition's
// predicate. Pure: never mutates the record. When the user owns the
// achievement accelerator, numeric thresholds are halved (rounded up).
func Evaluate(def domain.RewardDefinition, u *domain.User) bool {
	threshold := def.Predicate.Value
	if u.AchievementAccelerator && threshold > 1 {
		threshold = (threshold + 1) / 2
	}

	switch def.Predicate.Kind {
	case domain.PredLevelGte:
		return u.Level >= threshold
	case domain.PredTasksGte:
		return u.TasksCompleted >= threshold
	case domain.PredSessionsGte:
		return u.FocusSessionsCompleted >= threshold
	case domain.PredStreakGte:
		return u.CurrentStreak >= threshold
	case domain.PredReferralsGte:
		return u.TotalReferrals >= threshold
	case domain.PredPurchasesGte:
		return u.ItemsPurchased >= threshold
	case domain.PredPremiumTier:
		return subscription.IsPremiumLike(u.SubscriptionTier)
	}
	return false
}
