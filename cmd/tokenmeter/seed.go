package main

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tokenmeter/internal/catalog"
	"github.com/smallbiznis/tokenmeter/internal/config"
	"github.com/smallbiznis/tokenmeter/internal/migration"
	"github.com/smallbiznis/tokenmeter/internal/observability"
	"github.com/smallbiznis/tokenmeter/internal/seed"
	"github.com/smallbiznis/tokenmeter/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the usage schema and a synthetic usage history",
	Long: `Create the usage_records table and write a synthetic daily usage
history for a demo user. Intended for local databases; users that already
have usage are left untouched.

Examples:
  DATABASE_TYPE=sqlite tokenmeter seed --user=demo --days=30 --growth=0.05
  DATABASE_TYPE=sqlite tokenmeter report --user=demo --balance=20000`,
	RunE: runSeed,
}

var (
	seedUserID  string
	seedDays    int
	seedBase    int64
	seedGrowth  float64
	seedActions []string
)

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedUserID, "user", "demo", "user ID")
	seedCmd.Flags().IntVar(&seedDays, "days", 30, "days of history")
	seedCmd.Flags().Int64Var(&seedBase, "base", 1000, "tokens on the first day")
	seedCmd.Flags().Float64Var(&seedGrowth, "growth", 0.03, "day-over-day growth fraction")
	seedCmd.Flags().StringSliceVar(&seedActions, "actions", nil, "actions to cycle through (default: every catalog action)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	var (
		conn *gorm.DB
		node *snowflake.Node
		cat  catalog.Catalog
		log  *zap.Logger
	)
	app := fx.New(
		fx.NopLogger,
		config.Module,
		observability.Module,
		db.Module,
		migration.Module,
		catalog.Module,
		fx.Provide(RegisterSnowflake),
		fx.Populate(&conn, &node, &cat, &log),
	)
	if err := app.Start(cmd.Context()); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	n, err := seed.EnsureUsage(cmd.Context(), conn, node, cat, seed.UsageRequest{
		UserID:      seedUserID,
		Days:        seedDays,
		DailyBase:   seedBase,
		DailyGrowth: seedGrowth,
		Actions:     seedActions,
	})
	if err != nil {
		return err
	}
	log.Info("usage seeded", zap.String("user_id", seedUserID), zap.Int("rows", n))
	return nil
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
