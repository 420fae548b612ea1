package catalog

import (
	"time"

	"focusflow/internal/domain"
	"focusflow/internal/subscription"
)

// DailyTheme is the weekday color theme shown in the SPA.
type DailyTheme struct {
	Name      string `json:"name"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

var weekdayThemes = map[time.Weekday]DailyTheme{
	time.Monday:    {Name: "Motivation Monday", Primary: "purple", Secondary: "indigo"},
	time.Tuesday:   {Name: "Tranquil Tuesday", Primary: "blue", Secondary: "cyan"},
	time.Wednesday: {Name: "Wonderful Wednesday", Primary: "green", Secondary: "emerald"},
	time.Thursday:  {Name: "Thoughtful Thursday", Primary: "yellow", Secondary: "amber"},
	time.Friday:    {Name: "Fresh Friday", Primary: "pink", Secondary: "rose"},
	time.Saturday:  {Name: "Serene Saturday", Primary: "teal", Secondary: "cyan"},
	time.Sunday:    {Name: "Soulful Sunday", Primary: "violet", Secondary: "purple"},
}

// ThemeForDay returns the color theme for the given date.
func ThemeForDay(t time.Time) DailyTheme {
	return weekdayThemes[t.Weekday()]
}

// PremiumFeatures lists the gated features shown ghosted to free users.
var PremiumFeatures = []string{
	"custom_timers",
	"premium_themes",
	"premium_sounds",
	"advanced_analytics",
	"cloud_backup",
	"achievement_accelerator",
}

// FeatureFlags returns each premium feature mapped to whether the user's
// tier grants access.
func FeatureFlags(tier domain.Tier) map[string]bool {
	enabled := subscription.IsPremiumLike(tier)
	flags := make(map[string]bool, len(PremiumFeatures))
	for _, f := range PremiumFeatures {
		flags[f] = enabled
	}
	return flags
}
