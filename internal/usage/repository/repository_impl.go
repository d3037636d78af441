package repository

import (
	"context"
	"strings"

	usagedomain "github.com/smallbiznis/tokenmeter/internal/usage/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxListLimit = 10_000

type source struct {
	db  *gorm.DB
	log *zap.Logger
}

// Provide returns a read-only Source over the usage_records table.
func Provide(db *gorm.DB, log *zap.Logger) usagedomain.Source {
	return &source{db: db, log: log.Named("usage.repository")}
}

func (s *source) ListEvents(ctx context.Context, req usagedomain.ListRequest) ([]usagedomain.UsageEvent, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, usagedomain.ErrInvalidUser
	}
	if !req.From.IsZero() && !req.To.IsZero() && !req.From.Before(req.To) {
		return nil, usagedomain.ErrInvalidTimeRange
	}

	limit := req.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	query := s.db.WithContext(ctx).
		Model(&usagedomain.UsageRecord{}).
		Where("user_id = ?", userID)
	if !req.From.IsZero() {
		query = query.Where("recorded_at >= ?", req.From.UTC())
	}
	if !req.To.IsZero() {
		query = query.Where("recorded_at < ?", req.To.UTC())
	}
	if action := strings.TrimSpace(req.Action); action != "" {
		query = query.Where("action = ?", action)
	}

	// Newest rows win when the limit truncates; reversed below.
	var rows []usagedomain.UsageRecord
	if err := query.
		Order("recorded_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]usagedomain.UsageEvent, len(rows))
	for i, row := range rows {
		events[len(rows)-1-i] = row.ToEvent()
	}

	s.log.Debug("listed usage events",
		zap.String("user_id", userID),
		zap.Int("count", len(events)),
	)
	return events, nil
}
