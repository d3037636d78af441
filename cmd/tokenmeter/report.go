package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/tokenmeter/internal/advisor"
	"github.com/smallbiznis/tokenmeter/internal/analytics"
	analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"
	"github.com/smallbiznis/tokenmeter/internal/catalog"
	"github.com/smallbiznis/tokenmeter/internal/clock"
	"github.com/smallbiznis/tokenmeter/internal/config"
	"github.com/smallbiznis/tokenmeter/internal/export"
	"github.com/smallbiznis/tokenmeter/internal/observability"
	"github.com/smallbiznis/tokenmeter/internal/observability/metrics"
	"github.com/smallbiznis/tokenmeter/internal/providers"
	"github.com/smallbiznis/tokenmeter/internal/providers/pdf"
	"github.com/smallbiznis/tokenmeter/internal/usage"
	"github.com/smallbiznis/tokenmeter/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Analyze a user's usage and forecast the balance",
	Long: `Analyze a user's metered usage over the report window.

The output carries the trend, the projection, the projected balance, the
category breakdown and, when a tier or auto-recharge policy is given, the
derived recommendations.

Examples:
  tokenmeter report --user=user_123 --balance=25000
  tokenmeter report --user=user_123 --balance=25000 --tier=starter --auto-recharge
  tokenmeter report --user=user_123 --balance=25000 --format=csv --out=report.csv
  tokenmeter report --user=user_123 --balance=25000 --watch=5m --metrics-addr=:9464`,
	RunE: runReport,
}

var (
	reportUserID       string
	reportBalance      int64
	reportFrom         string
	reportTo           string
	reportFormat       string
	reportOut          string
	reportTier         string
	reportAutoRecharge bool
	reportMinBalance   int64
	reportWatch        time.Duration
	reportMetricsAddr  string
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportUserID, "user", "", "user ID (required)")
	reportCmd.Flags().Int64Var(&reportBalance, "balance", 0, "current token balance")
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "window start (YYYY-MM-DD or RFC3339, default: lookback before --to)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "window end (YYYY-MM-DD or RFC3339, default: now)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "output format: text, json, csv or pdf")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output file (default: stdout)")
	reportCmd.Flags().StringVar(&reportTier, "tier", "", "current subscription tier, enables the upgrade recommendation")
	reportCmd.Flags().BoolVar(&reportAutoRecharge, "auto-recharge", false, "evaluate the auto-recharge policy")
	reportCmd.Flags().Int64Var(&reportMinBalance, "min-balance", 0, "auto-recharge when the balance is below this")
	reportCmd.Flags().DurationVar(&reportWatch, "watch", 0, "re-run the report on this interval until interrupted")
	reportCmd.Flags().StringVar(&reportMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	_ = reportCmd.MarkFlagRequired("user")
}

type reportDeps struct {
	log             *zap.Logger
	service         analyticsdomain.Service
	catalog         catalog.Catalog
	pdf             pdf.Provider
	metrics         *metrics.Metrics
	forecastMetrics *metrics.ForecastMetrics
	pusher          metrics.Pusher
}

func runReport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(strings.TrimSpace(reportFormat))
	switch format {
	case "text", "json", "csv", "pdf":
	default:
		return fmt.Errorf("unsupported format %q", reportFormat)
	}
	if format == "pdf" && reportOut == "" {
		return errors.New("--out is required for pdf output")
	}

	from, err := parseTime(reportFrom)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to, err := parseTime(reportTo)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var deps reportDeps
	app := fx.New(
		fx.NopLogger,
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		usage.Module,
		catalog.Module,
		analytics.Module,
		providers.Module,
		fx.Populate(&deps.log, &deps.service, &deps.catalog, &deps.pdf, &deps.metrics, &deps.forecastMetrics, &deps.pusher),
	)
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	if reportMetricsAddr != "" {
		srv := serveMetrics(reportMetricsAddr, deps.log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	req := analyticsdomain.ReportRequest{
		UserID:         reportUserID,
		CurrentBalance: reportBalance,
		From:           from,
		To:             to,
	}

	run := func() error {
		err := generateReport(ctx, cmd.OutOrStdout(), deps, req, format)
		pushMetrics(ctx, deps)
		return err
	}
	if reportWatch <= 0 {
		return run()
	}

	ticker := time.NewTicker(reportWatch)
	defer ticker.Stop()
	for {
		if err := run(); err != nil {
			// the next tick may have enough data
			deps.log.Warn("watch report failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func generateReport(ctx context.Context, stdout io.Writer, deps reportDeps, req analyticsdomain.ReportRequest, format string) error {
	result, err := deps.service.Report(ctx, req)
	if err != nil {
		return err
	}

	report := export.NewReport(result, deps.catalog.Currency)
	if reportAutoRecharge || reportMinBalance > 0 {
		decision := advisor.EvaluateRecharge(result.Analytics, deps.catalog, advisor.RechargePolicy{
			Enabled:    reportAutoRecharge,
			MinBalance: reportMinBalance,
		})
		report.Recharge = &decision
		if decision.Recharge {
			deps.forecastMetrics.IncRechargeDecision(decision.Reason)
			deps.metrics.RecordRechargeDecision(ctx, decision.Reason, reportTier)
		}
	}
	if reportTier != "" {
		upgrade, err := advisor.RecommendUpgrade(result.Analytics, deps.catalog, reportTier)
		if err != nil {
			return fmt.Errorf("tier %q: %w", reportTier, err)
		}
		report.Upgrade = upgrade
	}
	deps.forecastMetrics.SetDeficit(reportTier, result.Analytics.ProjectedDeficit)

	if format == "pdf" {
		body, err := export.RenderPDF(ctx, deps.pdf, report)
		if err != nil {
			return err
		}
		return os.WriteFile(reportOut, body, 0o644)
	}

	w := stdout
	if reportOut != "" {
		f, err := os.Create(reportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return export.WriteJSON(w, report)
	case "csv":
		return export.WriteCSV(w, report)
	default:
		return writeText(w, report)
	}
}

func writeText(w io.Writer, report export.Report) error {
	a := report.Analytics
	money := func(cents int64) string { return catalog.FormatCents(cents, report.Currency) }

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Usage report for %s\n", report.UserID)
	fmt.Fprintf(tw, "Period:\t%s to %s\n\n", formatDate(report.From), formatDate(report.To))
	fmt.Fprintf(tw, "Events:\t%d\n", report.EventCount)
	fmt.Fprintf(tw, "Total usage:\t%d tokens\n", a.Metrics.TotalUsage)
	fmt.Fprintf(tw, "Daily average:\t%d tokens\n", a.Metrics.DailyAverage)
	fmt.Fprintf(tw, "Weekly trend:\t%s\n", a.Metrics.WeeklyTrend)
	fmt.Fprintf(tw, "Monthly projection:\t%d tokens (%s)\n", a.Metrics.MonthlyProjection, money(a.ProjectedCost))
	fmt.Fprintf(tw, "Current balance:\t%d tokens\n", a.CurrentBalance)
	fmt.Fprintf(tw, "Projected balance:\t%d tokens\n", a.ProjectedDeficit)
	if a.IsLowBalance {
		fmt.Fprintln(tw, "Warning:\tlow balance")
	}

	if len(a.Categories) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "CATEGORY\tTOKENS\tSHARE\tCOST")
		for _, c := range a.Categories {
			fmt.Fprintf(tw, "%s\t%d\t%.2f%%\t%s\n", c.Category, c.Amount, c.Percentage, money(c.Cost))
		}
	}

	if r := report.Recharge; r != nil {
		fmt.Fprintln(tw)
		if r.Recharge && r.Package != nil {
			fmt.Fprintf(tw, "Auto-recharge:\t%s, buy %s (%d tokens, %s)\n", r.Reason, r.Package.ID, r.Package.TotalTokens(), money(r.Package.PriceCents))
		} else {
			fmt.Fprintf(tw, "Auto-recharge:\t%s\n", r.Reason)
		}
	}
	if u := report.Upgrade; u != nil {
		fmt.Fprintf(tw, "Upgrade:\t%s -> %s, +%s/month vs %s overage\n",
			u.CurrentTier.Code, u.RecommendedTier.Code, money(u.PriceDifferenceCents), money(u.OverageCostCents))
	}
	return tw.Flush()
}

func pushMetrics(ctx context.Context, deps reportDeps) {
	if deps.pusher == nil {
		return
	}
	if err := deps.pusher.Push(ctx, prometheus.DefaultGatherer); err != nil {
		deps.log.Warn("metrics push failed", zap.Error(err))
	}
}

func serveMetrics(addr string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", addr))
	return srv
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02")
}
