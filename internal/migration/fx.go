package migration

import (
	"github.com/smallbiznis/tokenmeter/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(applyOnStart),
)

func applyOnStart(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
	version, err := Apply(conn, cfg.DBType)
	if err != nil {
		return err
	}
	log.Named("migration").Info("usage schema ready",
		zap.String("type", cfg.DBType),
		zap.Uint("version", version),
	)
	return nil
}
