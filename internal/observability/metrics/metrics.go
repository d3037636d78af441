package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
	// ExportInterval defaults to 10s. Pending points are flushed on stop, so
	// a short CLI run still exports.
	ExportInterval time.Duration
}

// Metrics holds the report counters exported over OTLP.
type Metrics struct {
	reports    metric.Int64Counter
	lowBalance metric.Int64Counter
	recharges  metric.Int64Counter
}

// NewProvider returns a noop provider when disabled, otherwise an OTLP
// periodic-reader provider that is flushed and shut down with the app.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}
	if log == nil {
		log = zap.NewNop()
	}

	exporter, err := newExporter(context.Background(), cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, fmt.Errorf("metrics exporter: %w", err)
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
		sdkmetric.WithResource(resource.NewSchemaless(
			attribute.String("service.name", meterName(cfg)),
			attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
		)),
	)
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if err := provider.ForceFlush(ctx); err != nil {
					log.Warn("flush meter provider", zap.Error(err))
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("otlp metrics enabled",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
		zap.Duration("interval", interval),
	)
	return provider, nil
}

func meterName(cfg Config) string {
	if name := strings.TrimSpace(cfg.ServiceName); name != "" {
		return name
	}
	return "tokenmeter"
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(meterName(cfg))

	var m Metrics
	var err error
	if m.reports, err = meter.Int64Counter("tokenmeter_reports_total",
		metric.WithDescription("Usage reports by outcome and trend kind.")); err != nil {
		return nil, err
	}
	if m.lowBalance, err = meter.Int64Counter("tokenmeter_low_balance_total",
		metric.WithDescription("Reports that raised the low-balance warning.")); err != nil {
		return nil, err
	}
	if m.recharges, err = meter.Int64Counter("tokenmeter_recharge_decisions_total",
		metric.WithDescription("Auto-recharge decisions that triggered a purchase.")); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordReport increments report counts by outcome and trend kind.
func (m *Metrics) RecordReport(ctx context.Context, outcome, trendKind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("outcome", strings.TrimSpace(outcome)),
		attribute.String("trend_kind", strings.TrimSpace(trendKind)),
	)
	m.reports.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordLowBalance increments low-balance signal counts.
func (m *Metrics) RecordLowBalance(ctx context.Context) {
	if m == nil {
		return
	}
	m.lowBalance.Add(ctx, 1)
}

// RecordRechargeDecision increments recharge decision counts.
func (m *Metrics) RecordRechargeDecision(ctx context.Context, reason, tier string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("reason", strings.TrimSpace(reason)),
		attribute.String("tier", strings.TrimSpace(tier)),
	)
	m.recharges.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(ctx context.Context, protocol, endpoint string) (sdkmetric.Exporter, error) {
	endpoint = strings.TrimSpace(endpoint)
	switch p := strings.ToLower(strings.TrimSpace(protocol)); p {
	case "http", "http/protobuf":
		var opts []otlpmetrichttp.Option
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint), otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)
	case "", "grpc":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", p)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"outcome":    {},
	"trend_kind": {},
	"tier":       {},
	"reason":     {},
}

// FilterAttributes keeps only known label keys and drops empty values, so
// user IDs never become a metric dimension.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	var kept []attribute.KeyValue
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok || attr.Value.Emit() == "" {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}
