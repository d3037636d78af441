package domain

import (
	"context"
	"time"

	usagedomain "github.com/smallbiznis/tokenmeter/internal/usage/domain"
)

// ReportRequest asks for the analytics of one user over a time range.
type ReportRequest struct {
	UserID         string    `json:"user_id"`
	CurrentBalance int64     `json:"current_balance"`
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
}

// Report is the analytics of one user together with the window it covers.
type Report struct {
	UserID      string         `json:"user_id"`
	From        time.Time      `json:"from"`
	To          time.Time      `json:"to"`
	EventCount  int            `json:"event_count"`
	Analytics   UsageAnalytics `json:"analytics"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Analyzer is the pure forecast facade.
type Analyzer interface {
	Analyze(events []usagedomain.UsageEvent, currentBalance int64) (UsageAnalytics, error)
}

// Service loads usage from a source and analyzes it.
type Service interface {
	Report(ctx context.Context, req ReportRequest) (*Report, error)
}
