package catalog

import "focusflow/internal/domain"

// Package is a purchasable subscription plan.
type Package struct {
	ID          string      `json:"id"`
	Tier        domain.Tier `json:"tier"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	AmountCents int64       `json:"amount_cents"`
	Currency    string      `json:"currency"`
}

var packages = map[string]Package{
	"monthly_premium": {
		ID: "monthly_premium", Tier: domain.TierPremiumMonthly,
		Name: "Premium Monthly", Description: "All premium features, billed monthly",
		AmountCents: 999, Currency: "eur",
	},
	"yearly_premium": {
		ID: "yearly_premium", Tier: domain.TierPremiumYearly,
		Name: "Premium Yearly", Description: "All premium features, billed yearly",
		AmountCents: 8999, Currency: "eur",
	},
	"lifetime_premium": {
		ID: "lifetime_premium", Tier: domain.TierPremiumLifetime,
		Name: "Premium Lifetime", Description: "All premium features, forever",
		AmountCents: 19999, Currency: "eur",
	},
}

var packageOrder = []string{"monthly_premium", "yearly_premium", "lifetime_premium"}

// Packages returns all subscription plans in display order.
func Packages() []Package {
	out := make([]Package, 0, len(packageOrder))
	for _, id := range packageOrder {
		out = append(out, packages[id])
	}
	return out
}

// PackageByID looks up a subscription plan.
func PackageByID(id string) (Package, bool) {
	p, ok := packages[id]
	return p, ok
}
