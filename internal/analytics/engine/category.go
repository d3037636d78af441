package engine

import (
	analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"
	usagedomain "github.com/smallbiznis/tokenmeter/internal/usage/domain"
)

// aggregateCategories sums tokens and cost per action, in order of first
// occurrence.
func aggregateCategories(events []usagedomain.UsageEvent) analyticsdomain.CategoryBreakdown {
	index := make(map[string]int)
	categories := make([]analyticsdomain.CategoryMetric, 0)
	var total int64

	for _, e := range events {
		i, ok := index[e.Action]
		if !ok {
			i = len(categories)
			index[e.Action] = i
			categories = append(categories, analyticsdomain.CategoryMetric{Category: e.Action})
		}
		categories[i].Amount += e.Amount
		categories[i].Cost += e.Cost
		total += e.Amount
	}

	if total == 0 {
		return analyticsdomain.CategoryBreakdown{
			Categories: categories,
			Total:      0,
			ZeroTotal:  true,
		}
	}

	for i := range categories {
		categories[i].Percentage = float64(categories[i].Amount) / float64(total) * 100
	}
	return analyticsdomain.CategoryBreakdown{Categories: categories, Total: total}
}
