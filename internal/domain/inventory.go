package domain

import "time"

// Inventory holds a user's purchased items. Owned sets are idempotent
// unions; re-purchasing an owned cosmetic is a no-op.
type Inventory struct {
	UserID                 int64      `db:"user_id" json:"user_id"`
	OwnedThemes            []string   `db:"owned_themes" json:"owned_themes"`
	OwnedSoundPacks        []string   `db:"owned_sound_packs" json:"owned_sound_packs"`
	StreakProtectionTokens int        `db:"streak_protection_tokens" json:"streak_protection_tokens"`
	XPBoostMultiplier      float64    `db:"xp_boost_multiplier" json:"xp_boost_multiplier,omitempty"`
	XPBoostExpiresAt       *time.Time `db:"xp_boost_expires_at" json:"xp_boost_expires_at,omitempty"`
}

// BoostActive reports whether the XP booster applies at the given time.
func (inv *Inventory) BoostActive(now time.Time) bool {
	return inv.XPBoostMultiplier > 1 && inv.XPBoostExpiresAt != nil && now.Before(*inv.XPBoostExpiresAt)
}

// OwnsTheme reports whether the theme id is already owned.
func (inv *Inventory) OwnsTheme(id string) bool {
	for _, t := range inv.OwnedThemes {
		if t == id {
			return true
		}
	}
	return false
}

// OwnsSoundPack reports whether the sound pack id is already owned.
func (inv *Inventory) OwnsSoundPack(id string) bool {
	for _, s := range inv.OwnedSoundPacks {
		if s == id {
			return true
		}
	}
	return false
}
