package advisor

import (
	analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"
	"github.com/smallbiznis/tokenmeter/internal/catalog"
)

// UpgradeRecommendation compares staying on the current tier and paying
// overage with moving to a tier that includes the projected usage.
type UpgradeRecommendation struct {
	CurrentTier     catalog.SubscriptionTier `json:"current_tier"`
	RecommendedTier catalog.SubscriptionTier `json:"recommended_tier"`
	ProjectedTokens int64                    `json:"projected_tokens"`
	OverageTokens   int64                    `json:"overage_tokens"`
	// OverageCostCents prices OverageTokens at the catalog token rate.
	OverageCostCents     int64 `json:"overage_cost_cents"`
	PriceDifferenceCents int64 `json:"price_difference_cents"`
	// SavingsCents is positive when upgrading is cheaper than paying overage.
	SavingsCents int64 `json:"savings_cents"`
}

// RecommendUpgrade returns nil when the current tier already covers the
// monthly projection or no pricier tier covers it.
func RecommendUpgrade(analytics analyticsdomain.UsageAnalytics, cat catalog.Catalog, currentTier string) (*UpgradeRecommendation, error) {
	current, err := cat.Tier(currentTier)
	if err != nil {
		return nil, err
	}

	projected := analytics.Metrics.MonthlyProjection
	if current.Covers(projected) {
		return nil, nil
	}

	var next *catalog.SubscriptionTier
	for _, tier := range cat.Tiers {
		if tier.MonthlyPriceCents <= current.MonthlyPriceCents || !tier.Covers(projected) {
			continue
		}
		if next == nil || tier.MonthlyPriceCents < next.MonthlyPriceCents {
			candidate := tier
			next = &candidate
		}
	}
	if next == nil {
		return nil, nil
	}

	overage := projected - current.IncludedTokens
	overageCost := cat.TokensToCents(overage)
	priceDiff := next.MonthlyPriceCents - current.MonthlyPriceCents

	return &UpgradeRecommendation{
		CurrentTier:          current,
		RecommendedTier:      *next,
		ProjectedTokens:      projected,
		OverageTokens:        overage,
		OverageCostCents:     overageCost,
		PriceDifferenceCents: priceDiff,
		SavingsCents:         overageCost - priceDiff,
	}, nil
}
