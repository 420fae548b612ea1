package catalog

// ChallengeType names the activity counter a daily challenge measures.
type ChallengeType string

const (
	ChallengeFocusSessions ChallengeType = "focus_sessions"
	ChallengeTasks         ChallengeType = "tasks"
	ChallengeStreak        ChallengeType = "streak"
	ChallengeThemes        ChallengeType = "themes"
	ChallengeEarlySession  ChallengeType = "early_session"
)

// DailyChallenge is one entry of the fixed daily rotation. Progress is
// derived from the day's activity counters, so challenges reset at
// midnight UTC without per-day rows.
type DailyChallenge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Type        ChallengeType `json:"type"`
	Goal        int           `json:"goal"`
	RewardXP    int           `json:"reward"`
	Difficulty  string        `json:"difficulty"`
}

var challengeDefs = []DailyChallenge{
	{ID: "focus_master", Name: "Focus Master", Description: "Complete 3 focus sessions today", Icon: "🎯", Type: ChallengeFocusSessions, Goal: 3, RewardXP: 30, Difficulty: "medium"},
	{ID: "task_crusher", Name: "Task Crusher", Description: "Complete 5 tasks today", Icon: "⚡", Type: ChallengeTasks, Goal: 5, RewardXP: 25, Difficulty: "medium"},
	{ID: "streak_warrior", Name: "Streak Warrior", Description: "Keep a streak of 3 days or more alive", Icon: "🔥", Type: ChallengeStreak, Goal: 3, RewardXP: 20, Difficulty: "hard"},
	{ID: "theme_explorer", Name: "Theme Explorer", Description: "Own a custom theme from the shop", Icon: "🎨", Type: ChallengeThemes, Goal: 1, RewardXP: 15, Difficulty: "easy"},
	{ID: "early_bird", Name: "Early Bird", Description: "Finish a focus session before 9am", Icon: "🌅", Type: ChallengeEarlySession, Goal: 1, RewardXP: 20, Difficulty: "easy"},
}

// Challenges returns the daily rotation in display order.
func Challenges() []DailyChallenge {
	return challengeDefs
}

// ChallengeByID looks up a challenge by id.
func ChallengeByID(id string) (DailyChallenge, bool) {
	for _, ch := range challengeDefs {
		if ch.ID == id {
			return ch, true
		}
	}
	return DailyChallenge{}, false
}

// DayActivity holds the counters challenge progress derives from, all
// scoped to one calendar day except the streak and owned-theme totals.
type DayActivity struct {
	TasksCompleted int
	FocusSessions  int
	EarlySessions  int
	CurrentStreak  int
	OwnedThemes    int
}

// ChallengeProgress maps the activity onto the challenge, clamped to the
// goal.
func ChallengeProgress(ch DailyChallenge, a DayActivity) (current int, completed bool) {
	switch ch.Type {
	case ChallengeFocusSessions:
		current = a.FocusSessions
	case ChallengeTasks:
		current = a.TasksCompleted
	case ChallengeStreak:
		current = a.CurrentStreak
	case ChallengeThemes:
		current = a.OwnedThemes
	case ChallengeEarlySession:
		current = a.EarlySessions
	}
	if current > ch.Goal {
		current = ch.Goal
	}
	return current, current >= ch.Goal
}
