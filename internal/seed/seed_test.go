package seed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/tokenmeter/internal/catalog"
	usagedomain "github.com/smallbiznis/tokenmeter/internal/usage/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var end = time.Date(2026, 2, 1, 15, 30, 0, 0, time.UTC)

func setupDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&usagedomain.UsageRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	return db, node
}

func TestEnsureUsageWritesDailyHistory(t *testing.T) {
	db, node := setupDB(t)
	ctx := context.Background()

	n, err := EnsureUsage(ctx, db, node, catalog.Default(), UsageRequest{
		UserID:      "demo",
		Days:        14,
		End:         end,
		DailyBase:   1_000,
		DailyGrowth: 0.1,
		Actions:     []string{"translation", "contract_review"},
	})
	require.NoError(t, err)
	assert.Equal(t, 14, n)

	var rows []usagedomain.UsageRecord
	require.NoError(t, db.Order("recorded_at ASC").Find(&rows).Error)
	require.Len(t, rows, 14)

	assert.Equal(t, int64(1_000), rows[0].Amount)
	assert.Equal(t, int64(1_100), rows[1].Amount)
	assert.Equal(t, "translation", rows[0].Action)
	assert.Equal(t, "contract_review", rows[1].Action)
	assert.Equal(t, int64(100), rows[0].CostCents)
	assert.True(t, rows[13].RecordedAt.Before(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestEnsureUsageIsIdempotentPerUser(t *testing.T) {
	db, node := setupDB(t)
	ctx := context.Background()
	req := UsageRequest{UserID: "demo", Days: 7, End: end}

	_, err := EnsureUsage(ctx, db, node, catalog.Default(), req)
	require.NoError(t, err)
	n, err := EnsureUsage(ctx, db, node, catalog.Default(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var count int64
	require.NoError(t, db.Model(&usagedomain.UsageRecord{}).Count(&count).Error)
	assert.Equal(t, int64(7), count)
}

func TestEnsureUsageValidation(t *testing.T) {
	db, node := setupDB(t)
	ctx := context.Background()

	_, err := EnsureUsage(ctx, db, node, catalog.Default(), UsageRequest{UserID: " "})
	require.ErrorIs(t, err, usagedomain.ErrInvalidUser)

	_, err = EnsureUsage(ctx, db, node, catalog.Default(), UsageRequest{UserID: "demo", Days: -1})
	require.ErrorIs(t, err, ErrInvalidDays)
}
