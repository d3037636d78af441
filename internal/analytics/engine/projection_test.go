package engine

import (
	"testing"

	analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"
)

func TestProjectFlatUsage(t *testing.T) {
	cfg := analyticsdomain.DefaultConfig()
	events := dailyEvents("x", repeat(1000, 7)...)

	got := projectUsage(events, calculateTrend(events, cfg), cfg)
	if got != 30_000 {
		t.Fatalf("expected 30000, got %d", got)
	}
}

func TestProjectAppliesTrend(t *testing.T) {
	cfg := analyticsdomain.DefaultConfig()
	events := dailyEvents("x", linear(100, 100, 14)...)

	// recent 7 average 1100, trend +175% -> 3025 per day.
	got := projectUsage(events, calculateTrend(events, cfg), cfg)
	if got != 90_750 {
		t.Fatalf("expected 90750, got %d", got)
	}
}

func TestProjectUsesRecentWindowOnly(t *testing.T) {
	cfg := analyticsdomain.DefaultConfig()
	events := dailyEvents("x", append(repeat(10_000, 3), repeat(100, 7)...)...)

	got := projectUsage(events, analyticsdomain.Trend{Kind: analyticsdomain.TrendInsufficientData}, cfg)
	if got != 3_000 {
		t.Fatalf("expected 3000, got %d", got)
	}
}

func TestProjectHasNoFloor(t *testing.T) {
	cfg := analyticsdomain.DefaultConfig()
	events := dailyEvents("x", repeat(100, 7)...)

	got := projectUsage(events, analyticsdomain.Trend{Kind: analyticsdomain.TrendValue, Percent: -150}, cfg)
	if got != -1_500 {
		t.Fatalf("expected -1500, got %d", got)
	}
}

func TestProjectIgnoresUndefinedTrend(t *testing.T) {
	cfg := analyticsdomain.DefaultConfig()
	events := dailyEvents("x", repeat(100, 7)...)

	got := projectUsage(events, analyticsdomain.Trend{Kind: analyticsdomain.TrendZeroBaseline, Percent: 999}, cfg)
	if got != 3_000 {
		t.Fatalf("expected 3000, got %d", got)
	}
}

func TestProjectEmpty(t *testing.T) {
	if got := projectUsage(nil, analyticsdomain.Trend{}, analyticsdomain.DefaultConfig()); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
