package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"
	"github.com/smallbiznis/tokenmeter/internal/analytics/engine"
	"github.com/smallbiznis/tokenmeter/internal/catalog"
	"github.com/smallbiznis/tokenmeter/internal/clock"
	"github.com/smallbiznis/tokenmeter/internal/config"
	"github.com/smallbiznis/tokenmeter/internal/observability/logger"
	"github.com/smallbiznis/tokenmeter/internal/observability/metrics"
	usagedomain "github.com/smallbiznis/tokenmeter/internal/usage/domain"
	"github.com/smallbiznis/tokenmeter/pkg/telemetry/correlation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log             *zap.Logger
	Source          usagedomain.Source
	AppConfig       config.Config
	ConfigHolder    *config.AnalyticsConfigHolder
	Catalog         catalog.Catalog
	Clock           clock.Clock
	Metrics         *metrics.Metrics         `optional:"true"`
	ForecastMetrics *metrics.ForecastMetrics `optional:"true"`
}

type Service struct {
	log             *zap.Logger
	source          usagedomain.Source
	lookback        time.Duration
	holder          *config.AnalyticsConfigHolder
	catalog         catalog.Catalog
	clock           clock.Clock
	metrics         *metrics.Metrics
	forecastMetrics *metrics.ForecastMetrics
}

func NewService(p ServiceParam) analyticsdomain.Service {
	return &Service{
		log:             p.Log.Named("analytics.service"),
		source:          p.Source,
		lookback:        p.AppConfig.ReportLookback,
		holder:          p.ConfigHolder,
		catalog:         p.Catalog,
		clock:           p.Clock,
		metrics:         p.Metrics,
		forecastMetrics: p.ForecastMetrics,
	}
}

// Report reads the user's usage in the requested window and analyzes it
// with the configuration current at call time.
func (s *Service) Report(ctx context.Context, req analyticsdomain.ReportRequest) (*analyticsdomain.Report, error) {
	ctx, _ = correlation.Ensure(ctx)
	ctx, span := otel.Tracer("tokenmeter/analytics").Start(ctx, "analytics.Report")
	defer span.End()

	started := s.clock.Now()
	userID := strings.TrimSpace(req.UserID)
	log := logger.WithUser(logger.WithContext(ctx, s.log), userID)

	report, err := s.report(ctx, userID, req)

	outcome := metrics.ClassifyReportOutcome(err)
	s.forecastMetrics.ObserveReport(outcome, s.clock.Now().Sub(started))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		s.metrics.RecordReport(ctx, outcome, "")
		log.Warn("usage report failed", zap.String("outcome", outcome), zap.Error(err))
		return nil, err
	}

	result := report.Analytics
	trendKind := string(result.Metrics.WeeklyTrend.Kind)
	span.SetAttributes(
		attribute.Int("usage.event_count", report.EventCount),
		attribute.String("usage.trend_kind", trendKind),
		attribute.Int64("usage.monthly_projection", result.Metrics.MonthlyProjection),
		attribute.Bool("usage.low_balance", result.IsLowBalance),
	)
	s.metrics.RecordReport(ctx, outcome, trendKind)
	s.forecastMetrics.ObserveProjection(trendKind, result.Metrics.MonthlyProjection)
	if result.IsLowBalance {
		s.metrics.RecordLowBalance(ctx)
	}

	log.Info("usage report generated",
		zap.Int("event_count", report.EventCount),
		zap.String("trend", result.Metrics.WeeklyTrend.String()),
		zap.Int64("monthly_projection", result.Metrics.MonthlyProjection),
		zap.Int64("projected_deficit", result.ProjectedDeficit),
		zap.Bool("low_balance", result.IsLowBalance),
	)
	return report, nil
}

func (s *Service) report(ctx context.Context, userID string, req analyticsdomain.ReportRequest) (*analyticsdomain.Report, error) {
	if userID == "" {
		return nil, usagedomain.ErrInvalidUser
	}
	if req.CurrentBalance < 0 {
		return nil, analyticsdomain.ErrInvalidBalance
	}

	from, to := s.window(req.From, req.To)
	if !from.IsZero() && !from.Before(to) {
		return nil, usagedomain.ErrInvalidTimeRange
	}

	events, err := s.source.ListEvents(ctx, usagedomain.ListRequest{
		UserID: userID,
		From:   from,
		To:     to,
	})
	if err != nil {
		return nil, fmt.Errorf("list usage events: %w", err)
	}

	analyzer := engine.NewAnalyzer(s.holder.Get(), s.catalog)
	result, err := analyzer.Analyze(events, req.CurrentBalance)
	if err != nil {
		return nil, err
	}

	return &analyticsdomain.Report{
		UserID:      userID,
		From:        from,
		To:          to,
		EventCount:  len(events),
		Analytics:   result,
		GeneratedAt: s.clock.Now(),
	}, nil
}

// window fills a missing end with now and a missing start with the
// configured lookback before the end.
func (s *Service) window(from, to time.Time) (time.Time, time.Time) {
	if to.IsZero() {
		to = s.clock.Now()
	}
	if from.IsZero() && s.lookback > 0 {
		from = to.Add(-s.lookback)
	}
	return from.UTC(), to.UTC()
}
