package seed

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tokenmeter/internal/catalog"
	usagedomain "github.com/smallbiznis/tokenmeter/internal/usage/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultDays      = 30
	defaultDailyBase = 1_000
	batchSize        = 500
)

var ErrInvalidDays = errors.New("invalid_days")

// UsageRequest describes a synthetic usage history for demos and local runs.
type UsageRequest struct {
	UserID string
	// Days of history ending the day before End.
	Days int
	End  time.Time
	// DailyBase is the first day's token volume.
	DailyBase int64
	// DailyGrowth is the fractional day-over-day growth, e.g. 0.05.
	DailyGrowth float64
	// Actions are cycled one per day; empty uses every catalog action in name order.
	Actions []string
}

// EnsureUsage writes one priced usage row per day for req.UserID unless the
// user already has usage. It returns the number of rows written.
func EnsureUsage(ctx context.Context, db *gorm.DB, node *snowflake.Node, cat catalog.Catalog, req UsageRequest) (int, error) {
	if db == nil {
		return 0, errors.New("seed database handle is required")
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return 0, usagedomain.ErrInvalidUser
	}
	days := req.Days
	if days == 0 {
		days = defaultDays
	}
	if days < 0 {
		return 0, ErrInvalidDays
	}
	base := req.DailyBase
	if base <= 0 {
		base = defaultDailyBase
	}
	end := req.End
	if end.IsZero() {
		end = time.Now()
	}
	end = end.UTC().Truncate(24 * time.Hour)

	actions := req.Actions
	if len(actions) == 0 {
		actions = sortedActions(cat)
	}
	if len(actions) == 0 {
		actions = []string{"usage"}
	}

	var existing int64
	if err := db.WithContext(ctx).
		Model(&usagedomain.UsageRecord{}).
		Where("user_id = ?", userID).
		Count(&existing).Error; err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([]usagedomain.UsageRecord, 0, days)
	for i := 0; i < days; i++ {
		amount := int64(math.Round(float64(base) * math.Pow(1+req.DailyGrowth, float64(i))))
		if amount < 0 {
			amount = 0
		}
		action := actions[i%len(actions)]
		rows = append(rows, usagedomain.UsageRecord{
			ID:         node.Generate(),
			UserID:     userID,
			Action:     action,
			Amount:     amount,
			CostCents:  cat.TokensToCents(amount),
			RecordedAt: end.AddDate(0, 0, i-days).Add(12 * time.Hour),
			Metadata:   datatypes.JSONMap{"source": "seed"},
			CreatedAt:  now,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&rows, batchSize).Error
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func sortedActions(cat catalog.Catalog) []string {
	actions := make([]string, 0, len(cat.ActionCosts))
	for action := range cat.ActionCosts {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	return actions
}
