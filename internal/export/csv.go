package export

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes a metric/value block, a blank line, then the category table.
func WriteCSV(w io.Writer, report Report) error {
	a := report.Analytics
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"metric", "value"},
		{"report_id", report.ID.String()},
		{"user_id", report.UserID},
		{"currency", report.Currency},
		{"event_count", strconv.Itoa(report.EventCount)},
		{"total_usage", formatInt(a.Metrics.TotalUsage)},
		{"daily_average", formatInt(a.Metrics.DailyAverage)},
		{"weekly_trend_kind", string(a.Metrics.WeeklyTrend.Kind)},
		{"weekly_trend_percent", formatFloat(a.Metrics.WeeklyTrend.Value())},
		{"monthly_projection", formatInt(a.Metrics.MonthlyProjection)},
		{"projected_cost_cents", formatInt(a.ProjectedCost)},
		{"current_balance", formatInt(a.CurrentBalance)},
		{"projected_deficit", formatInt(a.ProjectedDeficit)},
		{"low_balance", strconv.FormatBool(a.IsLowBalance)},
	}
	if report.Recharge != nil {
		rows = append(rows,
			[]string{"recharge", strconv.FormatBool(report.Recharge.Recharge)},
			[]string{"recharge_reason", report.Recharge.Reason},
		)
		if report.Recharge.Package != nil {
			rows = append(rows, []string{"recharge_package", report.Recharge.Package.ID})
		}
	}
	if report.Upgrade != nil {
		rows = append(rows, []string{"recommended_tier", report.Upgrade.RecommendedTier.Code})
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	if err := cw.Write([]string{"category", "amount", "percentage", "cost_cents"}); err != nil {
		return err
	}
	for _, c := range a.Categories {
		if err := cw.Write([]string{
			c.Category,
			formatInt(c.Amount),
			formatFloat(c.Percentage),
			formatInt(c.Cost),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatInt(v int64) string { return strconv.FormatInt(v, 10) }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
