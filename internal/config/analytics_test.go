package config

import (
	"os"
	"path/filepath"
	"testing"

	analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAnalyticsConfigDefaultsWithoutFile(t *testing.T) {
	holder, err := newAnalyticsConfigHolder([]string{t.TempDir()}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, analyticsdomain.DefaultConfig(), holder.Get())
}

func TestAnalyticsConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	body := "analytics:\n  trendCalculationDays: 21\n  lowBalanceThreshold: 0.35\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "analytics.yml"), []byte(body), 0o600))

	holder, err := newAnalyticsConfigHolder([]string{dir}, zap.NewNop())
	require.NoError(t, err)

	got := holder.Get()
	assert.Equal(t, 21, got.TrendCalculationDays)
	assert.Equal(t, 0.35, got.LowBalanceThreshold)
	assert.Equal(t, analyticsdomain.DefaultProjectionDays, got.ProjectionDays)
	assert.Equal(t, analyticsdomain.DefaultMinDataPoints, got.MinDataPoints)
}

func TestAnalyticsConfigRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	body := "analytics:\n  minDataPoints: 20\n  trendCalculationDays: 14\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "analytics.yml"), []byte(body), 0o600))

	_, err := newAnalyticsConfigHolder([]string{dir}, zap.NewNop())
	assert.ErrorIs(t, err, analyticsdomain.ErrInvalidTrendDays)
}

func TestAnalyticsConfigEnvOverride(t *testing.T) {
	t.Setenv("TOKENMETER_ANALYTICS_PROJECTIONDAYS", "60")

	holder, err := newAnalyticsConfigHolder([]string{t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 60, holder.Get().ProjectionDays)
}

func TestStaticAnalyticsConfigHolder(t *testing.T) {
	cfg := analyticsdomain.DefaultConfig()
	cfg.ProjectionDays = 7
	assert.Equal(t, 7, NewStaticAnalyticsConfigHolder(cfg).Get().ProjectionDays)
}
