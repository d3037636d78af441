package engine

import (
	"math"

	analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"
	usagedomain "github.com/smallbiznis/tokenmeter/internal/usage/domain"
)

// projectUsage extrapolates the recent daily average, adjusted by trend, over
// the projection horizon. A strongly negative trend yields a negative result;
// no floor is applied.
func projectUsage(events []usagedomain.UsageEvent, trend analyticsdomain.Trend, cfg analyticsdomain.Config) int64 {
	recent := tail(events, cfg.ProjectionWindow)
	if len(recent) == 0 {
		return 0
	}

	var sum int64
	for _, e := range recent {
		sum += e.Amount
	}
	dailyAverage := float64(sum) / float64(len(recent))

	projectedDaily := dailyAverage * (1 + trend.Value()/100)
	return int64(math.Round(projectedDaily * float64(cfg.ProjectionDays)))
}
