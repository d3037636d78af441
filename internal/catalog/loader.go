package catalog

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/tokenmeter/internal/config"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("catalog",
	fx.Provide(Provide),
)

// Load reads a catalog file (yaml, yml or json) and validates it.
func Load(path string) (Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var c Catalog
	if err := v.Unmarshal(&c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Provide loads the configured catalog, or the built-in one when no path is set.
func Provide(cfg config.Config, log *zap.Logger) (Catalog, error) {
	log = log.Named("catalog")
	if cfg.CatalogPath == "" {
		log.Info("using built-in pricing catalog")
		return Default(), nil
	}
	c, err := Load(cfg.CatalogPath)
	if err != nil {
		return Catalog{}, err
	}
	log.Info("pricing catalog loaded",
		zap.String("path", cfg.CatalogPath),
		zap.Int("tiers", len(c.Tiers)),
		zap.Int("packages", len(c.Packages)),
	)
	return c, nil
}
