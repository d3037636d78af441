package pdf

import (
	"context"
	"io"
)

// Provider renders pre-formatted report data into a PDF document.
type Provider interface {
	GenerateUsageReport(ctx context.Context, data UsageReportData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateUsageReport(ctx context.Context, data UsageReportData) (io.Reader, error) {
	return nil, nil
}
