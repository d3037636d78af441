// Package engine turns metered usage events into trend, projection,
// category and balance analytics. Everything here is pure: no I/O, no
// goroutines, no state kept between calls.
package engine

import (
	"math"
	"sort"

	analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"
	"github.com/smallbiznis/tokenmeter/internal/catalog"
	usagedomain "github.com/smallbiznis/tokenmeter/internal/usage/domain"
)

var _ analyticsdomain.Analyzer = (*Analyzer)(nil)

type Analyzer struct {
	cfg     analyticsdomain.Config
	catalog catalog.Catalog
}

// NewAnalyzer binds the engine tunables and the pricing catalog used to
// price the projection.
func NewAnalyzer(cfg analyticsdomain.Config, cat catalog.Catalog) *Analyzer {
	return &Analyzer{cfg: cfg, catalog: cat}
}

// Analyze computes the usage analytics of events against currentBalance.
// Events may arrive in any order; a sorted copy is used and the input is left untouched.
func (a *Analyzer) Analyze(events []usagedomain.UsageEvent, currentBalance int64) (analyticsdomain.UsageAnalytics, error) {
	if len(events) < a.cfg.MinDataPoints {
		return analyticsdomain.UsageAnalytics{}, &analyticsdomain.InsufficientDataError{
			Have: len(events),
			Need: a.cfg.MinDataPoints,
		}
	}
	if currentBalance < 0 {
		return analyticsdomain.UsageAnalytics{}, analyticsdomain.ErrInvalidBalance
	}

	sorted := sortEvents(events)

	var total int64
	for _, e := range sorted {
		if e.Amount < 0 {
			return analyticsdomain.UsageAnalytics{}, analyticsdomain.ErrInvalidAmount
		}
		total += e.Amount
	}

	// Whole-history mean; the projector uses its own recent window.
	dailyAverage := int64(math.Round(float64(total) / float64(len(sorted))))

	trend := calculateTrend(sorted, a.cfg)
	projection := projectUsage(sorted, trend, a.cfg)
	breakdown := aggregateCategories(sorted)
	balance := evaluateBalance(currentBalance, projection, a.cfg.LowBalanceThreshold)

	return analyticsdomain.UsageAnalytics{
		Metrics: analyticsdomain.UsageMetrics{
			TotalUsage:        total,
			DailyAverage:      dailyAverage,
			WeeklyTrend:       trend,
			MonthlyProjection: projection,
		},
		Categories:       breakdown.Categories,
		ProjectedDeficit: balance.Deficit,
		IsLowBalance:     balance.IsLowBalance,
		CurrentBalance:   currentBalance,
		ProjectedCost:    a.catalog.TokensToCents(projection),
		ZeroUsage:        breakdown.ZeroTotal,
	}, nil
}

func sortEvents(events []usagedomain.UsageEvent) []usagedomain.UsageEvent {
	sorted := make([]usagedomain.UsageEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}
