package catalog

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Validate checks the catalog tables for values lookups cannot work with.
func (c Catalog) Validate() error {
	if strings.TrimSpace(c.Currency) == "" {
		return ErrInvalidCurrency
	}
	if c.TokenPriceCentsPer1K <= 0 {
		return ErrInvalidTokenPrice
	}
	seen := make(map[string]struct{}, len(c.Tiers))
	for _, tier := range c.Tiers {
		code := strings.TrimSpace(tier.Code)
		if code == "" || tier.MonthlyPriceCents < 0 || tier.IncludedTokens < Unlimited {
			return fmt.Errorf("%w: %q", ErrInvalidTier, tier.Code)
		}
		if _, dup := seen[code]; dup {
			return fmt.Errorf("%w: duplicate %q", ErrInvalidTier, code)
		}
		seen[code] = struct{}{}
	}
	for _, pkg := range c.Packages {
		if strings.TrimSpace(pkg.ID) == "" || pkg.Tokens <= 0 || pkg.PriceCents < 0 || pkg.BonusTokens < 0 {
			return fmt.Errorf("%w: %q", ErrInvalidPackage, pkg.ID)
		}
	}
	for action, tokens := range c.ActionCosts {
		if strings.TrimSpace(action) == "" || tokens < 0 {
			return fmt.Errorf("%w: %q", ErrInvalidActionCost, action)
		}
	}
	for _, d := range c.Discounts {
		if d.MinTokens < 0 || d.Discount < 0 || d.Discount >= 1 {
			return fmt.Errorf("%w: min_tokens=%d", ErrInvalidDiscount, d.MinTokens)
		}
	}
	return nil
}

// Tier finds a subscription tier by code.
func (c Catalog) Tier(code string) (SubscriptionTier, error) {
	code = strings.TrimSpace(code)
	for _, tier := range c.Tiers {
		if strings.EqualFold(tier.Code, code) {
			return tier, nil
		}
	}
	return SubscriptionTier{}, ErrTierNotFound
}

// Package finds a token package by id.
func (c Catalog) Package(id string) (TokenPackage, error) {
	id = strings.TrimSpace(id)
	for _, pkg := range c.Packages {
		if strings.EqualFold(pkg.ID, id) {
			return pkg, nil
		}
	}
	return TokenPackage{}, ErrPackageNotFound
}

// ActionTokens returns the token cost of one action.
func (c Catalog) ActionTokens(action string) (int64, error) {
	tokens, ok := c.ActionCosts[strings.TrimSpace(action)]
	if !ok {
		return 0, ErrUnknownAction
	}
	return tokens, nil
}

// DiscountFor returns the discount fraction of the highest breakpoint reached.
func (c Catalog) DiscountFor(tokens int64) float64 {
	var (
		best    float64
		bestMin int64 = -1
	)
	for _, d := range c.Discounts {
		if tokens >= d.MinTokens && d.MinTokens > bestMin {
			best = d.Discount
			bestMin = d.MinTokens
		}
	}
	return best
}

// TokensToCents prices a token volume at list price less its volume discount.
func (c Catalog) TokensToCents(tokens int64) int64 {
	if tokens <= 0 {
		return 0
	}
	list := float64(tokens) * float64(c.TokenPriceCentsPer1K) / 1000
	return int64(math.Round(list * (1 - c.DiscountFor(tokens))))
}

// ActionCostCents prices count occurrences of an action.
func (c Catalog) ActionCostCents(action string, count int64) (int64, error) {
	tokens, err := c.ActionTokens(action)
	if err != nil {
		return 0, err
	}
	return c.TokensToCents(tokens * count), nil
}

// PackageCovering returns the cheapest package crediting at least tokens,
// falling back to the largest package. ok is false when the catalog has none.
func (c Catalog) PackageCovering(tokens int64) (TokenPackage, bool) {
	if len(c.Packages) == 0 {
		return TokenPackage{}, false
	}
	packages := c.sortedPackages()
	for _, pkg := range packages {
		if pkg.TotalTokens() >= tokens {
			return pkg, true
		}
	}
	largest := packages[0]
	for _, pkg := range packages[1:] {
		if pkg.TotalTokens() > largest.TotalTokens() {
			largest = pkg
		}
	}
	return largest, true
}

// TierCovering returns the cheapest tier whose allotment covers tokens.
func (c Catalog) TierCovering(tokens int64) (SubscriptionTier, bool) {
	tiers := c.sortedTiers()
	for _, tier := range tiers {
		if tier.Covers(tokens) {
			return tier, true
		}
	}
	return SubscriptionTier{}, false
}

func (c Catalog) sortedPackages() []TokenPackage {
	packages := append([]TokenPackage(nil), c.Packages...)
	sort.SliceStable(packages, func(i, j int) bool {
		return packages[i].PriceCents < packages[j].PriceCents
	})
	return packages
}

func (c Catalog) sortedTiers() []SubscriptionTier {
	tiers := append([]SubscriptionTier(nil), c.Tiers...)
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].MonthlyPriceCents < tiers[j].MonthlyPriceCents
	})
	return tiers
}
