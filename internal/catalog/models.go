// Package catalog holds the billing economics reference data: subscription
// tiers, token packages, per-action token costs and volume discounts.
package catalog

import "errors"

// Unlimited marks a tier limit without a ceiling.
const Unlimited int64 = -1

// SubscriptionTier is one plan of the subscription catalog.
type SubscriptionTier struct {
	Code              string          `mapstructure:"code" json:"code"`
	Name              string          `mapstructure:"name" json:"name"`
	MonthlyPriceCents int64           `mapstructure:"monthlyPriceCents" json:"monthly_price_cents"`
	IncludedTokens    int64           `mapstructure:"includedTokens" json:"included_tokens"` // -1 = unlimited
	MaxSeats          int64           `mapstructure:"maxSeats" json:"max_seats"`             // -1 = unlimited
	StorageGB         int64           `mapstructure:"storageGB" json:"storage_gb"`           // -1 = unlimited
	Features          map[string]bool `mapstructure:"features" json:"features"`
}

// HasFeature reports whether the tier enables the named feature flag.
func (t SubscriptionTier) HasFeature(name string) bool {
	return t.Features[name]
}

// Covers reports whether the tier's allotment absorbs the given token volume.
func (t SubscriptionTier) Covers(tokens int64) bool {
	return t.IncludedTokens == Unlimited || tokens <= t.IncludedTokens
}

// TokenPackage is a discrete top-up purchase.
type TokenPackage struct {
	ID          string `mapstructure:"id" json:"id"`
	Tokens      int64  `mapstructure:"tokens" json:"tokens"`
	PriceCents  int64  `mapstructure:"priceCents" json:"price_cents"`
	BonusTokens int64  `mapstructure:"bonusTokens" json:"bonus_tokens"`
}

// TotalTokens is the credited amount including bonus.
func (p TokenPackage) TotalTokens() int64 {
	return p.Tokens + p.BonusTokens
}

// VolumeDiscount applies Discount (a fraction) once monthly usage reaches MinTokens.
type VolumeDiscount struct {
	MinTokens int64   `mapstructure:"minTokens" json:"min_tokens"`
	Discount  float64 `mapstructure:"discount" json:"discount"`
}

// Catalog is the immutable pricing reference passed to the engine and advisor.
type Catalog struct {
	Currency string `mapstructure:"currency" json:"currency"`
	// TokenPriceCentsPer1K is the list price of one thousand tokens.
	TokenPriceCentsPer1K int64              `mapstructure:"tokenPriceCentsPer1K" json:"token_price_cents_per_1k"`
	Tiers                []SubscriptionTier `mapstructure:"tiers" json:"tiers"`
	Packages             []TokenPackage     `mapstructure:"packages" json:"packages"`
	ActionCosts          map[string]int64   `mapstructure:"actionCosts" json:"action_costs"`
	Discounts            []VolumeDiscount   `mapstructure:"discounts" json:"discounts"`
}

var (
	ErrInvalidCurrency   = errors.New("invalid_currency")
	ErrInvalidTokenPrice = errors.New("invalid_token_price")
	ErrInvalidTier       = errors.New("invalid_tier")
	ErrInvalidPackage    = errors.New("invalid_package")
	ErrInvalidActionCost = errors.New("invalid_action_cost")
	ErrInvalidDiscount   = errors.New("invalid_discount")
	ErrTierNotFound      = errors.New("tier_not_found")
	ErrPackageNotFound   = errors.New("package_not_found")
	ErrUnknownAction     = errors.New("unknown_action")
	ErrInvalidChurnRate  = errors.New("invalid_churn_rate")
	ErrInvalidRevenue    = errors.New("invalid_revenue")
)
