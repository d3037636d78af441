package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/tokenmeter/internal/advisor"
	analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"
	"github.com/smallbiznis/tokenmeter/internal/catalog"
	"github.com/smallbiznis/tokenmeter/internal/providers/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatedAt = time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)

func sampleReport() Report {
	pkg := catalog.Default().Packages[1]
	report := NewReport(&analyticsdomain.Report{
		UserID:      "user_1",
		From:        generatedAt.AddDate(0, 0, -30),
		To:          generatedAt,
		EventCount:  14,
		GeneratedAt: generatedAt,
		Analytics: analyticsdomain.UsageAnalytics{
			Metrics: analyticsdomain.UsageMetrics{
				TotalUsage:        21_000,
				DailyAverage:      1_500,
				WeeklyTrend:       analyticsdomain.Trend{Kind: analyticsdomain.TrendValue, Percent: 175},
				MonthlyProjection: 90_750,
			},
			Categories: []analyticsdomain.CategoryMetric{
				{Category: "contract_review", Amount: 15_750, Percentage: 75, Cost: 1_575},
				{Category: "translation", Amount: 5_250, Percentage: 25, Cost: 525},
			},
			CurrentBalance:   1_000,
			ProjectedDeficit: -89_750,
			IsLowBalance:     true,
			ProjectedCost:    9_075,
		},
	}, "USD")
	report.Recharge = &advisor.RechargeDecision{
		Recharge:        true,
		Reason:          advisor.ReasonLowBalance,
		Package:         &pkg,
		ShortfallTokens: 89_750,
	}
	return report
}

func TestNewReportAssignsID(t *testing.T) {
	a := sampleReport()
	b := sampleReport()
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "USD", a.Currency)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	analytics := decoded["analytics"].(map[string]any)
	trend := analytics["metrics"].(map[string]any)["weekly_trend"].(map[string]any)
	assert.Equal(t, "value", trend["kind"])
	assert.Equal(t, float64(175), trend["percent"])
	assert.Equal(t, true, analytics["is_low_balance"])
	assert.Equal(t, "low_balance", decoded["recharge"].(map[string]any)["reason"])
	assert.NotContains(t, decoded, "upgrade")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	blocks := strings.SplitN(buf.String(), "\n\n", 2)
	require.Len(t, blocks, 2)

	metrics, err := csv.NewReader(strings.NewReader(blocks[0])).ReadAll()
	require.NoError(t, err)
	values := map[string]string{}
	for _, row := range metrics[1:] {
		values[row[0]] = row[1]
	}
	assert.Equal(t, "90750", values["monthly_projection"])
	assert.Equal(t, "175.00", values["weekly_trend_percent"])
	assert.Equal(t, "-89750", values["projected_deficit"])
	assert.Equal(t, "tokens_50k", values["recharge_package"])

	categories, err := csv.NewReader(strings.NewReader(blocks[1])).ReadAll()
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, []string{"category", "amount", "percentage", "cost_cents"}, categories[0])
	assert.Equal(t, []string{"contract_review", "15750", "75.00", "1575"}, categories[1])
}

func TestPDFDataFormatsForDisplay(t *testing.T) {
	data := pdfData(sampleReport())

	assert.Equal(t, "2026-01-01 to 2026-01-31", data.Period)
	assert.Contains(t, data.Summary, pdf.SummaryLine{Label: "Monthly projection", Value: "90,750 tokens"})
	assert.Contains(t, data.Summary, pdf.SummaryLine{Label: "Projected cost", Value: "$90.75"})
	require.Len(t, data.Categories, 2)
	assert.Equal(t, pdf.CategoryLine{Category: "contract_review", Amount: "15,750", Share: "75.00%", Cost: "$15.75"}, data.Categories[0])
	require.Len(t, data.Notes, 2)
	assert.Contains(t, data.Notes[1], "tokens_50k")
}

func TestRenderPDF(t *testing.T) {
	body, err := RenderPDF(context.Background(), pdf.New(), sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestRenderPDFNoOpProvider(t *testing.T) {
	body, err := RenderPDF(context.Background(), &pdf.NoOpProvider{}, sampleReport())
	require.NoError(t, err)
	assert.Nil(t, body)
}
