package advisor

import (
	"testing"

	"github.com/smallbiznis/tokenmeter/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendUpgradeToNextCoveringTier(t *testing.T) {
	rec, err := RecommendUpgrade(analyticsFor(0, 90_750, false), catalog.Default(), "starter")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "starter", rec.CurrentTier.Code)
	assert.Equal(t, "professional", rec.RecommendedTier.Code)
	assert.Equal(t, int64(40_750), rec.OverageTokens)
	assert.Equal(t, int64(4_075), rec.OverageCostCents)
	assert.Equal(t, int64(15_000), rec.PriceDifferenceCents)
	assert.Equal(t, int64(-10_925), rec.SavingsCents)
}

func TestRecommendUpgradeSkipsTiersThatDoNotCover(t *testing.T) {
	rec, err := RecommendUpgrade(analyticsFor(0, 300_000, false), catalog.Default(), "starter")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "business", rec.RecommendedTier.Code)
	// 250k overage at list price less the 5% volume discount.
	assert.Equal(t, int64(23_750), rec.OverageCostCents)
	assert.Equal(t, int64(45_000), rec.PriceDifferenceCents)
}

func TestRecommendUpgradeNotNeeded(t *testing.T) {
	rec, err := RecommendUpgrade(analyticsFor(0, 40_000, false), catalog.Default(), "starter")
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = RecommendUpgrade(analyticsFor(0, 50_000_000, false), catalog.Default(), "enterprise")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRecommendUpgradeUnknownTier(t *testing.T) {
	_, err := RecommendUpgrade(analyticsFor(0, 1, false), catalog.Default(), "platinum")
	require.ErrorIs(t, err, catalog.ErrTierNotFound)
}
