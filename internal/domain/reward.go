package domain

// PredicateKind selects which progression field a reward predicate reads.
type PredicateKind string

const (
	PredLevelGte     PredicateKind = "level_gte"
	PredTasksGte     PredicateKind = "tasks_gte"
	PredSessionsGte  PredicateKind = "sessions_gte"
	PredStreakGte    PredicateKind = "streak_gte"
	PredReferralsGte PredicateKind = "referrals_gte"
	PredPurchasesGte PredicateKind = "purchases_gte"
	PredPremiumTier  PredicateKind = "premium_tier"
)

// Predicate is a data-driven unlock condition. Value is ignored for
// premium_tier.
type Predicate struct {
	Kind  PredicateKind `json:"kind"`
	Value int           `json:"value,omitempty"`
}

// RewardCategory groups rewards for presentation and for the purchase
// milestone counters.
type RewardCategory string

const (
	CategoryProgression RewardCategory = "progression"
	CategoryFocus       RewardCategory = "focus"
	CategoryStreak      RewardCategory = "streak"
	CategoryPremium     RewardCategory = "premium"
	CategorySocial      RewardCategory = "social"
	CategorySpecial     RewardCategory = "special"
)

// RewardKind distinguishes achievements (XP-bearing) from badges
// (cosmetic).
type RewardKind string

const (
	RewardAchievement RewardKind = "achievement"
	RewardBadge       RewardKind = "badge"
)

// Rarity is presentation-only and has no behavioral effect.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// RewardDefinition is a static catalog entry, immutable at runtime.
type RewardDefinition struct {
	ID          string         `json:"id"`
	Kind        RewardKind     `json:"kind"`
	Category    RewardCategory `json:"category"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Predicate   Predicate      `json:"predicate"`
	XPReward    int            `json:"xp_reward"`
	ThemeReward string         `json:"theme_reward,omitempty"`
	Rarity      Rarity         `json:"rarity"`
}
