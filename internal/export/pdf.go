package export

import (
	"context"
	"fmt"
	"io"

	"github.com/smallbiznis/tokenmeter/internal/catalog"
	"github.com/smallbiznis/tokenmeter/internal/providers/pdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dateLayout = "2006-01-02"

// RenderPDF formats report for display and renders it through provider.
func RenderPDF(ctx context.Context, provider pdf.Provider, report Report) ([]byte, error) {
	reader, err := provider.GenerateUsageReport(ctx, pdfData(report))
	if err != nil {
		return nil, err
	}
	if reader == nil {
		return nil, nil
	}
	return io.ReadAll(reader)
}

func pdfData(report Report) pdf.UsageReportData {
	p := message.NewPrinter(language.English)
	a := report.Analytics
	tokens := func(v int64) string { return p.Sprintf("%d tokens", v) }

	data := pdf.UsageReportData{
		ReportID:    report.ID.String(),
		UserID:      report.UserID,
		Period:      period(report),
		GeneratedAt: report.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"),
		Summary: []pdf.SummaryLine{
			{Label: "Events analyzed", Value: p.Sprintf("%d", report.EventCount)},
			{Label: "Total usage", Value: tokens(a.Metrics.TotalUsage)},
			{Label: "Daily average", Value: tokens(a.Metrics.DailyAverage)},
			{Label: "Weekly trend", Value: a.Metrics.WeeklyTrend.String()},
			{Label: "Monthly projection", Value: tokens(a.Metrics.MonthlyProjection)},
			{Label: "Projected cost", Value: catalog.FormatCents(a.ProjectedCost, report.Currency)},
			{Label: "Current balance", Value: tokens(a.CurrentBalance)},
			{Label: "Projected balance", Value: tokens(a.ProjectedDeficit)},
		},
	}

	for _, c := range a.Categories {
		data.Categories = append(data.Categories, pdf.CategoryLine{
			Category: c.Category,
			Amount:   p.Sprintf("%d", c.Amount),
			Share:    fmt.Sprintf("%.2f%%", c.Percentage),
			Cost:     catalog.FormatCents(c.Cost, report.Currency),
		})
	}

	if a.IsLowBalance {
		data.Notes = append(data.Notes, "Low balance: the current balance is below the warning threshold of the projected usage.")
	}
	if a.ZeroUsage {
		data.Notes = append(data.Notes, "No tokens were consumed in this period.")
	}
	if r := report.Recharge; r != nil && r.Recharge && r.Package != nil {
		data.Notes = append(data.Notes, fmt.Sprintf("Auto-recharge (%s): package %s, %s.",
			r.Reason, r.Package.ID, catalog.FormatCents(r.Package.PriceCents, report.Currency)))
	}
	if u := report.Upgrade; u != nil {
		data.Notes = append(data.Notes, fmt.Sprintf("Consider %s: %s more per month, estimated overage on %s is %s.",
			u.RecommendedTier.Name,
			catalog.FormatCents(u.PriceDifferenceCents, report.Currency),
			u.CurrentTier.Name,
			catalog.FormatCents(u.OverageCostCents, report.Currency)))
	}
	return data
}

func period(report Report) string {
	if report.From.IsZero() {
		return "until " + report.To.UTC().Format(dateLayout)
	}
	return report.From.UTC().Format(dateLayout) + " to " + report.To.UTC().Format(dateLayout)
}
