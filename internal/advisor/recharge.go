// Package advisor turns usage analytics into billing decisions: whether to
// auto-recharge a balance and whether a subscription should move up a tier.
// Decisions are advisory; nothing here initiates a purchase.
package advisor

import (
	analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"
	"github.com/smallbiznis/tokenmeter/internal/catalog"
)

const (
	ReasonDisabled           = "disabled"
	ReasonHealthy            = "healthy"
	ReasonLowBalance         = "low_balance"
	ReasonBelowMinimum       = "below_minimum"
	ReasonProjectedShortfall = "projected_shortfall"
)

// RechargePolicy is the account's auto-recharge setting.
type RechargePolicy struct {
	Enabled bool `json:"enabled"`
	// MinBalance triggers a recharge when the balance falls below it. Zero disables the floor.
	MinBalance int64 `json:"min_balance"`
}

// RechargeDecision is the outcome of EvaluateRecharge.
type RechargeDecision struct {
	Recharge        bool                  `json:"recharge"`
	Reason          string                `json:"reason"`
	Package         *catalog.TokenPackage `json:"package,omitempty"`
	ShortfallTokens int64                 `json:"shortfall_tokens"`
}

// EvaluateRecharge decides whether the balance behind analytics should be
// topped up and with which package.
func EvaluateRecharge(analytics analyticsdomain.UsageAnalytics, cat catalog.Catalog, policy RechargePolicy) RechargeDecision {
	shortfall := int64(0)
	if analytics.ProjectedDeficit < 0 {
		shortfall = -analytics.ProjectedDeficit
	}
	if gap := policy.MinBalance - analytics.CurrentBalance; policy.MinBalance > 0 && gap > shortfall {
		shortfall = gap
	}

	if !policy.Enabled {
		return RechargeDecision{Reason: ReasonDisabled, ShortfallTokens: shortfall}
	}

	var reason string
	switch {
	case analytics.IsLowBalance:
		reason = ReasonLowBalance
	case policy.MinBalance > 0 && analytics.CurrentBalance < policy.MinBalance:
		reason = ReasonBelowMinimum
	case analytics.ProjectedDeficit < 0:
		reason = ReasonProjectedShortfall
	default:
		return RechargeDecision{Reason: ReasonHealthy}
	}

	decision := RechargeDecision{
		Recharge:        true,
		Reason:          reason,
		ShortfallTokens: shortfall,
	}
	// With no shortfall the cheapest package is picked.
	if pkg, ok := cat.PackageCovering(shortfall); ok {
		decision.Package = &pkg
	}
	return decision
}
