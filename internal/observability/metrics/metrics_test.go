package metrics

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("outcome", "ok"),
		attribute.String("user_id", "u_123"),
		attribute.String("trend_kind", "value"),
		attribute.String("tier", ""),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "user_id" {
			t.Fatalf("expected user_id to be dropped")
		}
	}
}

func TestNewProviderDisabledIsNoop(t *testing.T) {
	provider, err := NewProvider(nil, Config{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if _, ok := provider.(noop.MeterProvider); !ok {
		t.Fatalf("expected noop provider, got %T", provider)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordReport(context.Background(), "ok", "value")
	m.RecordLowBalance(context.Background())
	m.RecordRechargeDecision(context.Background(), "low_balance", "starter")
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}
	m.RecordReport(context.Background(), "ok", "value")
}

func TestRecordReportCountsByOutcome(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := New(Config{ServiceName: "tokenmeter"}, provider)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	ctx := context.Background()
	m.RecordReport(ctx, "ok", "value")
	m.RecordReport(ctx, "ok", "value")
	m.RecordLowBalance(ctx)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	totals := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, md := range scope.Metrics {
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[md.Name] += dp.Value
			}
		}
	}
	if totals["tokenmeter_reports_total"] != 2 {
		t.Fatalf("expected 2 reports, got %d", totals["tokenmeter_reports_total"])
	}
	if totals["tokenmeter_low_balance_total"] != 1 {
		t.Fatalf("expected 1 low balance signal, got %d", totals["tokenmeter_low_balance_total"])
	}
}
