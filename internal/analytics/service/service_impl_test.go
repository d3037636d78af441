package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"
	"github.com/smallbiznis/tokenmeter/internal/catalog"
	"github.com/smallbiznis/tokenmeter/internal/clock"
	"github.com/smallbiznis/tokenmeter/internal/config"
	"github.com/smallbiznis/tokenmeter/internal/observability/metrics"
	usagedomain "github.com/smallbiznis/tokenmeter/internal/usage/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

type sourceStub struct {
	events []usagedomain.UsageEvent
	err    error
	calls  []usagedomain.ListRequest
}

func (s *sourceStub) ListEvents(ctx context.Context, req usagedomain.ListRequest) ([]usagedomain.UsageEvent, error) {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

func flatWeek(amount int64) []usagedomain.UsageEvent {
	events := make([]usagedomain.UsageEvent, 7)
	for i := range events {
		events[i] = usagedomain.UsageEvent{
			UserID:    "user_1",
			Amount:    amount,
			Timestamp: now.AddDate(0, 0, i-7),
			Action:    "document_generation",
			Cost:      amount / 10,
		}
	}
	return events
}

func newTestService(src usagedomain.Source) *Service {
	return NewService(ServiceParam{
		Log:             zap.NewNop(),
		Source:          src,
		AppConfig:       config.Config{ReportLookback: 30 * 24 * time.Hour},
		ConfigHolder:    config.NewStaticAnalyticsConfigHolder(analyticsdomain.DefaultConfig()),
		Catalog:         catalog.Default(),
		Clock:           clock.NewFakeClock(now),
		ForecastMetrics: metrics.NewForecastMetrics(prometheus.NewRegistry(), metrics.Config{Environment: "test"}),
	}).(*Service)
}

func TestReportAnalyzesSourceEvents(t *testing.T) {
	src := &sourceStub{events: flatWeek(1000)}
	svc := newTestService(src)

	report, err := svc.Report(context.Background(), analyticsdomain.ReportRequest{
		UserID:         " user_1 ",
		CurrentBalance: 5000,
	})
	require.NoError(t, err)

	require.Equal(t, "user_1", report.UserID)
	require.Equal(t, 7, report.EventCount)
	require.Equal(t, now, report.GeneratedAt)
	require.Equal(t, int64(30000), report.Analytics.Metrics.MonthlyProjection)
	require.Equal(t, int64(-25000), report.Analytics.ProjectedDeficit)
	require.True(t, report.Analytics.IsLowBalance)

	require.Len(t, src.calls, 1)
	require.Equal(t, "user_1", src.calls[0].UserID)
	require.Equal(t, now, src.calls[0].To)
	require.Equal(t, now.Add(-30*24*time.Hour), src.calls[0].From)
}

func TestReportKeepsExplicitWindow(t *testing.T) {
	src := &sourceStub{events: flatWeek(100)}
	svc := newTestService(src)

	from := now.AddDate(0, 0, -10)
	to := now.AddDate(0, 0, -1)
	report, err := svc.Report(context.Background(), analyticsdomain.ReportRequest{
		UserID: "user_1",
		From:   from,
		To:     to,
	})
	require.NoError(t, err)
	require.Equal(t, from, report.From)
	require.Equal(t, to, report.To)
	require.Equal(t, from, src.calls[0].From)
}

func TestReportInsufficientData(t *testing.T) {
	src := &sourceStub{events: flatWeek(100)[:3]}
	svc := newTestService(src)

	report, err := svc.Report(context.Background(), analyticsdomain.ReportRequest{UserID: "user_1"})
	require.Nil(t, report)
	require.ErrorIs(t, err, analyticsdomain.ErrInsufficientData)

	var insufficient *analyticsdomain.InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	require.Equal(t, 3, insufficient.Have)
	require.Equal(t, 7, insufficient.Need)
}

func TestReportWrapsSourceError(t *testing.T) {
	boom := errors.New("connection refused")
	svc := newTestService(&sourceStub{err: boom})

	_, err := svc.Report(context.Background(), analyticsdomain.ReportRequest{UserID: "user_1"})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "list usage events")
}

func TestReportValidatesBeforeReading(t *testing.T) {
	cases := []struct {
		name string
		req  analyticsdomain.ReportRequest
		want error
	}{
		{name: "missing user", req: analyticsdomain.ReportRequest{UserID: ""}, want: usagedomain.ErrInvalidUser},
		{name: "negative balance", req: analyticsdomain.ReportRequest{UserID: "user_1", CurrentBalance: -1}, want: analyticsdomain.ErrInvalidBalance},
		{name: "inverted window", req: analyticsdomain.ReportRequest{UserID: "user_1", From: now, To: now.Add(-time.Hour)}, want: usagedomain.ErrInvalidTimeRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := &sourceStub{events: flatWeek(100)}
			svc := newTestService(src)

			_, err := svc.Report(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.want)
			require.Empty(t, src.calls)
		})
	}
}

func TestReportReadsConfigPerCall(t *testing.T) {
	src := &sourceStub{events: flatWeek(1000)}
	svc := newTestService(src)

	cfg := analyticsdomain.DefaultConfig()
	cfg.ProjectionDays = 10
	svc.holder = config.NewStaticAnalyticsConfigHolder(cfg)

	report, err := svc.Report(context.Background(), analyticsdomain.ReportRequest{UserID: "user_1"})
	require.NoError(t, err)
	require.Equal(t, int64(10000), report.Analytics.Metrics.MonthlyProjection)
}
