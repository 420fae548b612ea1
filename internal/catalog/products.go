package catalog

import "time"

// ProductCategory selects the fulfillment path for a shop item.
type ProductCategory string

const (
	ProductProgression   ProductCategory = "progression"
	ProductProtection    ProductCategory = "protection"
	ProductCustomization ProductCategory = "customization"
	ProductAchievement   ProductCategory = "achievement"
)

// Product is one purchasable shop item, priced in euro cents.
type Product struct {
	ID          string          `json:"id"`
	Category    ProductCategory `json:"category"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	PriceCents  int64           `json:"price_cents"`
	Currency    string          `json:"currency"`

	// progression items
	BonusXP int `json:"bonus_xp,omitempty"`
	// boost items: multiplier applied to earned XP until the duration ends
	BoostMultiplier float64       `json:"boost_multiplier,omitempty"`
	BoostDuration   time.Duration `json:"-"`
	// customization items
	ThemeID     string `json:"theme_id,omitempty"`
	SoundPackID string `json:"sound_pack_id,omitempty"`
}

var products = map[string]Product{
	"xp_pack_small": {
		ID: "xp_pack_small", Category: ProductProgression,
		Name: "XP Pack", Description: "Instant 100 bonus XP",
		PriceCents: 199, Currency: "eur", BonusXP: 100,
	},
	"xp_pack_large": {
		ID: "xp_pack_large", Category: ProductProgression,
		Name: "Mega XP Pack", Description: "Instant 500 bonus XP",
		PriceCents: 699, Currency: "eur", BonusXP: 500,
	},
	"xp_booster_24h": {
		ID: "xp_booster_24h", Category: ProductProgression,
		Name: "XP Booster", Description: "Double XP for 24 hours",
		PriceCents: 299, Currency: "eur",
		BoostMultiplier: 2.0, BoostDuration: 24 * time.Hour,
	},
	"streak_shield": {
		ID: "streak_shield", Category: ProductProtection,
		Name: "Streak Shield", Description: "Protects your streak from one missed day",
		PriceCents: 149, Currency: "eur",
	},
	"theme_ocean": {
		ID: "theme_ocean", Category: ProductCustomization,
		Name: "Ocean Theme", Description: "Calm blue timer theme",
		PriceCents: 249, Currency: "eur", ThemeID: "ocean",
	},
	"theme_forest": {
		ID: "theme_forest", Category: ProductCustomization,
		Name: "Forest Theme", Description: "Deep green timer theme",
		PriceCents: 249, Currency: "eur", ThemeID: "forest",
	},
	"sounds_rain": {
		ID: "sounds_rain", Category: ProductCustomization,
		Name: "Rainfall Sounds", Description: "Ambient rain sound pack",
		PriceCents: 199, Currency: "eur", SoundPackID: "rain",
	},
	"sounds_cafe": {
		ID: "sounds_cafe", Category: ProductCustomization,
		Name: "Café Sounds", Description: "Coffee shop ambience sound pack",
		PriceCents: 199, Currency: "eur", SoundPackID: "cafe",
	},
	"achievement_accelerator": {
		ID: "achievement_accelerator", Category: ProductAchievement,
		Name: "Achievement Accelerator", Description: "Halves every achievement threshold, forever",
		PriceCents: 499, Currency: "eur",
	},
}

// productOrder fixes the shop display order.
var productOrder = []string{
	"xp_pack_small", "xp_pack_large", "xp_booster_24h",
	"streak_shield",
	"theme_ocean", "theme_forest", "sounds_rain", "sounds_cafe",
	"achievement_accelerator",
}

// Products returns all shop items in display order.
func Products() []Product {
	out := make([]Product, 0, len(productOrder))
	for _, id := range productOrder {
		if p, ok := products[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ProductByID looks up a shop item.
func ProductByID(id string) (Product, bool) {
	p, ok := products[id]
	return p, ok
}
