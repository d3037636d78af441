package metrics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"
	usagedomain "github.com/smallbiznis/tokenmeter/internal/usage/domain"
)

const (
	ReportOutcomeOK               = "ok"
	ReportOutcomeInsufficientData = "insufficient_data"
	ReportOutcomeInvalidInput     = "invalid_input"
	ReportOutcomeDeadlineExceeded = "deadline_exceeded"
	ReportOutcomeCanceled         = "canceled"
	ReportOutcomeDBLockTimeout    = "db_lock_timeout"
	ReportOutcomeStatementTimeout = "statement_timeout"
	ReportOutcomeUnknown          = "unknown"
)

// ForecastMetrics captures forecast report health and projection signals.
type ForecastMetrics struct {
	reportDuration   *prometheus.HistogramVec
	projectionTokens *prometheus.HistogramVec
	deficitTokens    *prometheus.GaugeVec
	rechargeDecision *prometheus.CounterVec
}

// NewForecastMetrics registers the forecast collectors on registerer.
func NewForecastMetrics(registerer prometheus.Registerer, cfg Config) *ForecastMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "tokenmeter"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	reportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "tokenmeter_report_duration_seconds",
		Help:        "Forecast report latency including the usage source read.",
		Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		ConstLabels: constLabels,
	}, []string{"outcome"})
	projectionTokens := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "tokenmeter_projection_tokens",
		Help:        "Projected token consumption over the projection horizon.",
		Buckets:     prometheus.ExponentialBuckets(1000, 4, 10),
		ConstLabels: constLabels,
	}, []string{"trend_kind"})
	deficitTokens := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "tokenmeter_projected_deficit_tokens",
		Help:        "Latest projected balance after the projection horizon; negative means shortfall.",
		ConstLabels: constLabels,
	}, []string{"tier"})
	rechargeDecision := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "tokenmeter_recharge_decisions_total",
		Help:        "Auto-recharge decisions by low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"reason"})

	registerer.MustRegister(
		reportDuration,
		projectionTokens,
		deficitTokens,
		rechargeDecision,
	)

	return &ForecastMetrics{
		reportDuration:   reportDuration,
		projectionTokens: projectionTokens,
		deficitTokens:    deficitTokens,
		rechargeDecision: rechargeDecision,
	}
}

// ObserveReport records report latency in seconds under outcome.
func (m *ForecastMetrics) ObserveReport(outcome string, duration time.Duration) {
	if m == nil || m.reportDuration == nil {
		return
	}
	m.reportDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveProjection records a monthly projection.
func (m *ForecastMetrics) ObserveProjection(trendKind string, tokens int64) {
	if m == nil || m.projectionTokens == nil {
		return
	}
	m.projectionTokens.WithLabelValues(trendKind).Observe(float64(tokens))
}

// SetDeficit stores the latest projected deficit for a tier.
func (m *ForecastMetrics) SetDeficit(tier string, deficit int64) {
	if m == nil || m.deficitTokens == nil {
		return
	}
	if strings.TrimSpace(tier) == "" {
		tier = "none"
	}
	m.deficitTokens.WithLabelValues(tier).Set(float64(deficit))
}

// IncRechargeDecision counts a triggered auto-recharge.
func (m *ForecastMetrics) IncRechargeDecision(reason string) {
	if m == nil || m.rechargeDecision == nil {
		return
	}
	m.rechargeDecision.WithLabelValues(reason).Inc()
}

// ClassifyReportOutcome maps a report error to a low-cardinality outcome label.
func ClassifyReportOutcome(err error) string {
	switch {
	case err == nil:
		return ReportOutcomeOK
	case errors.Is(err, context.DeadlineExceeded):
		return ReportOutcomeDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return ReportOutcomeCanceled
	case errors.Is(err, analyticsdomain.ErrInsufficientData):
		return ReportOutcomeInsufficientData
	case errors.Is(err, analyticsdomain.ErrInvalidBalance),
		errors.Is(err, analyticsdomain.ErrInvalidAmount),
		errors.Is(err, usagedomain.ErrInvalidUser),
		errors.Is(err, usagedomain.ErrInvalidTimeRange):
		return ReportOutcomeInvalidInput
	case hasPGCode(err, "55P03"):
		return ReportOutcomeDBLockTimeout
	case hasPGCode(err, "57014"):
		return ReportOutcomeStatementTimeout
	default:
		return ReportOutcomeUnknown
	}
}

func hasPGCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
