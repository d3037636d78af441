// Package domain defines the results produced by the usage forecast engine.
package domain

import (
	"errors"
	"fmt"
)

// TrendKind tags how a Trend was derived.
type TrendKind string

const (
	// TrendValue carries a computed percentage.
	TrendValue TrendKind = "value"
	// TrendInsufficientData means the window held too few events to average.
	TrendInsufficientData TrendKind = "insufficient_data"
	// TrendZeroBaseline means the first moving average was zero, so the
	// percentage change is undefined.
	TrendZeroBaseline TrendKind = "zero_baseline"
)

// Trend is the signed percentage change across the recent moving average.
type Trend struct {
	Kind    TrendKind `json:"kind"`
	Percent float64   `json:"percent"`
}

// Value returns the percentage used by the projector. Non-value kinds are neutral.
func (t Trend) Value() float64 {
	if t.Kind != TrendValue {
		return 0
	}
	return t.Percent
}

// Defined reports whether the trend carries a computed percentage.
func (t Trend) Defined() bool {
	return t.Kind == TrendValue
}

func (t Trend) String() string {
	if t.Kind == TrendValue {
		return fmt.Sprintf("%.2f%%", t.Percent)
	}
	return string(t.Kind)
}

// UsageMetrics summarises an event sequence.
type UsageMetrics struct {
	TotalUsage        int64 `json:"total_usage"`
	DailyAverage      int64 `json:"daily_average"`
	WeeklyTrend       Trend `json:"weekly_trend"`
	MonthlyProjection int64 `json:"monthly_projection"`
}

// CategoryMetric is the usage attributed to one action type.
type CategoryMetric struct {
	Category   string  `json:"category"`
	Amount     int64   `json:"amount"`
	Percentage float64 `json:"percentage"`
	Cost       int64   `json:"cost"`
}

// CategoryBreakdown holds every category of one input plus the grand total.
type CategoryBreakdown struct {
	Categories []CategoryMetric `json:"categories"`
	Total      int64            `json:"total"`
	// ZeroTotal is set when no tokens were consumed; every percentage is then 0.
	ZeroTotal bool `json:"zero_total"`
}

// BalanceStatus compares a balance with a projection.
type BalanceStatus struct {
	Deficit      int64 `json:"deficit"`
	IsLowBalance bool  `json:"is_low_balance"`
}

// UsageAnalytics is the engine's result for one query.
type UsageAnalytics struct {
	Metrics          UsageMetrics     `json:"metrics"`
	Categories       []CategoryMetric `json:"categories"`
	ProjectedDeficit int64            `json:"projected_deficit"`
	IsLowBalance     bool             `json:"is_low_balance"`
	CurrentBalance   int64            `json:"current_balance"`
	// ProjectedCost prices the monthly projection against the catalog, in cents.
	ProjectedCost int64 `json:"projected_cost"`
	ZeroUsage     bool  `json:"zero_usage"`
}

var (
	ErrInsufficientData = errors.New("insufficient_data")
	ErrInvalidBalance   = errors.New("invalid_balance")
	ErrInvalidAmount    = errors.New("invalid_amount")
)

// InsufficientDataError reports how many events were supplied against the minimum.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient_data: have %d events, need %d", e.Have, e.Need)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}
