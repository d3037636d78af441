package domain

import "errors"

const (
	DefaultTrendCalculationDays = 14
	DefaultProjectionDays       = 30
	DefaultLowBalanceThreshold  = 0.2
	DefaultMinDataPoints        = 7
	DefaultProjectionWindow     = 7
)

// Config holds the tunables of the forecast engine.
type Config struct {
	// TrendCalculationDays is how many of the most recent events feed the trend.
	TrendCalculationDays int `mapstructure:"trendCalculationDays" json:"trend_calculation_days" yaml:"trendCalculationDays"`
	// ProjectionDays is the forecast horizon.
	ProjectionDays int `mapstructure:"projectionDays" json:"projection_days" yaml:"projectionDays"`
	// LowBalanceThreshold is the fraction of the projection below which a balance is low.
	LowBalanceThreshold float64 `mapstructure:"lowBalanceThreshold" json:"low_balance_threshold" yaml:"lowBalanceThreshold"`
	// MinDataPoints is both the minimum event count and the moving-average window.
	MinDataPoints int `mapstructure:"minDataPoints" json:"min_data_points" yaml:"minDataPoints"`
	// ProjectionWindow is how many recent events the projector averages.
	ProjectionWindow int `mapstructure:"projectionWindow" json:"projection_window" yaml:"projectionWindow"`
}

func DefaultConfig() Config {
	return Config{
		TrendCalculationDays: DefaultTrendCalculationDays,
		ProjectionDays:       DefaultProjectionDays,
		LowBalanceThreshold:  DefaultLowBalanceThreshold,
		MinDataPoints:        DefaultMinDataPoints,
		ProjectionWindow:     DefaultProjectionWindow,
	}
}

var (
	ErrInvalidMinDataPoints    = errors.New("invalid_min_data_points")
	ErrInvalidTrendDays        = errors.New("invalid_trend_calculation_days")
	ErrInvalidProjectionDays   = errors.New("invalid_projection_days")
	ErrInvalidProjectionWindow = errors.New("invalid_projection_window")
	ErrInvalidThreshold        = errors.New("invalid_low_balance_threshold")
)

// Validate rejects configurations the engine cannot evaluate.
func (c Config) Validate() error {
	switch {
	case c.MinDataPoints < 1:
		return ErrInvalidMinDataPoints
	case c.TrendCalculationDays < c.MinDataPoints:
		return ErrInvalidTrendDays
	case c.ProjectionDays < 1:
		return ErrInvalidProjectionDays
	case c.ProjectionWindow < 1:
		return ErrInvalidProjectionWindow
	case c.LowBalanceThreshold < 0 || c.LowBalanceThreshold > 1:
		return ErrInvalidThreshold
	}
	return nil
}
