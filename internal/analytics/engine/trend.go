package engine

import (
	analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"
	usagedomain "github.com/smallbiznis/tokenmeter/internal/usage/domain"
)

// calculateTrend compares the first and last simple moving averages over the
// most recent TrendCalculationDays events. events must be ascending.
func calculateTrend(events []usagedomain.UsageEvent, cfg analyticsdomain.Config) analyticsdomain.Trend {
	recent := tail(events, cfg.TrendCalculationDays)
	if len(recent) < cfg.MinDataPoints {
		return analyticsdomain.Trend{Kind: analyticsdomain.TrendInsufficientData}
	}

	amounts := make([]float64, len(recent))
	for i, e := range recent {
		amounts[i] = float64(e.Amount)
	}

	averages := movingAverage(amounts, cfg.MinDataPoints)
	if len(averages) < 2 {
		return analyticsdomain.Trend{Kind: analyticsdomain.TrendInsufficientData}
	}

	first := averages[0]
	last := averages[len(averages)-1]
	if first == 0 {
		return analyticsdomain.Trend{Kind: analyticsdomain.TrendZeroBaseline}
	}

	return analyticsdomain.Trend{
		Kind:    analyticsdomain.TrendValue,
		Percent: (last - first) / first * 100,
	}
}

// movingAverage returns the unweighted sliding-window means of values.
// The result has len(values)-window+1 entries, or none when window exceeds len(values).
func movingAverage(values []float64, window int) []float64 {
	if window <= 0 || window > len(values) {
		return nil
	}

	out := make([]float64, 0, len(values)-window+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

func tail(events []usagedomain.UsageEvent, n int) []usagedomain.UsageEvent {
	if n <= 0 {
		return nil
	}
	if len(events) <= n {
		return events
	}
	return events[len(events)-n:]
}
