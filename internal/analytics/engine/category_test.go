package engine

import (
	"testing"

	usagedomain "github.com/smallbiznis/tokenmeter/internal/usage/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedEvents() []usagedomain.UsageEvent {
	events := dailyEvents("document_generation", 500, 500, 500)
	events = append(events, dailyEvents("contract_review", 1200, 1200)...)
	events = append(events, dailyEvents("legal_research", 800)...)
	return events
}

func TestAggregateCategories(t *testing.T) {
	breakdown := aggregateCategories(mixedEvents())

	require.Len(t, breakdown.Categories, 3)
	assert.Equal(t, int64(4700), breakdown.Total)
	assert.False(t, breakdown.ZeroTotal)

	assert.Equal(t, "document_generation", breakdown.Categories[0].Category)
	assert.Equal(t, int64(1500), breakdown.Categories[0].Amount)
	assert.Equal(t, int64(150), breakdown.Categories[0].Cost)
	assert.Equal(t, "contract_review", breakdown.Categories[1].Category)
	assert.Equal(t, int64(2400), breakdown.Categories[1].Amount)
	assert.InDelta(t, 2400.0/4700.0*100, breakdown.Categories[1].Percentage, 1e-9)
}

func TestCategoryPercentagesSumToHundred(t *testing.T) {
	breakdown := aggregateCategories(mixedEvents())

	var sum float64
	var amount int64
	for _, c := range breakdown.Categories {
		sum += c.Percentage
		amount += c.Amount
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
	assert.Equal(t, breakdown.Total, amount)
}

func TestAggregateCategoriesZeroTotal(t *testing.T) {
	events := append(dailyEvents("a", 0, 0), dailyEvents("b", 0)...)
	breakdown := aggregateCategories(events)

	assert.True(t, breakdown.ZeroTotal)
	require.Len(t, breakdown.Categories, 2)
	for _, c := range breakdown.Categories {
		assert.Zero(t, c.Percentage)
	}
}

func TestAggregateCategoriesEmpty(t *testing.T) {
	breakdown := aggregateCategories(nil)
	assert.True(t, breakdown.ZeroTotal)
	assert.Empty(t, breakdown.Categories)
}
