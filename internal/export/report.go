// Package export renders usage analytics for downstream consumers as JSON,
// CSV or PDF.
package export

import (
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/tokenmeter/internal/advisor"
	analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"
)

// Report is one exported analysis with the decisions derived from it.
type Report struct {
	ID          uuid.UUID                      `json:"id"`
	UserID      string                         `json:"user_id"`
	Currency    string                         `json:"currency"`
	From        time.Time                      `json:"from"`
	To          time.Time                      `json:"to"`
	EventCount  int                            `json:"event_count"`
	GeneratedAt time.Time                      `json:"generated_at"`
	Analytics   analyticsdomain.UsageAnalytics `json:"analytics"`
	Recharge    *advisor.RechargeDecision      `json:"recharge,omitempty"`
	Upgrade     *advisor.UpgradeRecommendation `json:"upgrade,omitempty"`
}

// NewReport wraps a service report under a fresh export id.
func NewReport(r *analyticsdomain.Report, currency string) Report {
	return Report{
		ID:          uuid.New(),
		UserID:      r.UserID,
		Currency:    currency,
		From:        r.From,
		To:          r.To,
		EventCount:  r.EventCount,
		GeneratedAt: r.GeneratedAt,
		Analytics:   r.Analytics,
	}
}
