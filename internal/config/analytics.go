package config

import (
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	analyticsdomain "github.com/smallbiznis/tokenmeter/internal/analytics/domain"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// AnalyticsConfigHolder serves the current engine tunables and swaps them
// when analytics.yml changes on disk.
type AnalyticsConfigHolder struct {
	current atomic.Value // holds analyticsdomain.Config
}

// NewAnalyticsConfigHolder loads analytics.yml from the configured search
// paths, falling back to defaults when no file exists.
func NewAnalyticsConfigHolder(cfg Config, log *zap.Logger) (*AnalyticsConfigHolder, error) {
	return newAnalyticsConfigHolder(cfg.AnalyticsConfigPaths, log.Named("config.analytics"))
}

func newAnalyticsConfigHolder(paths []string, log *zap.Logger) (*AnalyticsConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("analytics")
	v.SetConfigType("yml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix("TOKENMETER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := analyticsdomain.DefaultConfig()
	v.SetDefault("analytics.trendCalculationDays", defaults.TrendCalculationDays)
	v.SetDefault("analytics.projectionDays", defaults.ProjectionDays)
	v.SetDefault("analytics.lowBalanceThreshold", defaults.LowBalanceThreshold)
	v.SetDefault("analytics.minDataPoints", defaults.MinDataPoints)
	v.SetDefault("analytics.projectionWindow", defaults.ProjectionWindow)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	current, err := decodeAnalytics(v)
	if err != nil {
		return nil, err
	}
	if err := current.Validate(); err != nil {
		return nil, err
	}

	holder := &AnalyticsConfigHolder{}
	holder.current.Store(current)

	if !fileFound {
		log.Info("analytics config file not found, using defaults")
		return holder, nil
	}

	log.Info("analytics config loaded", zap.String("path", v.ConfigFileUsed()))

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeAnalytics(v)
		if err != nil {
			log.Warn("analytics config reload failed", zap.Error(err))
			return
		}
		if err := updated.Validate(); err != nil {
			log.Warn("invalid analytics config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("analytics config reloaded", zap.String("path", e.Name))
	})

	return holder, nil
}

type analyticsFile struct {
	Analytics analyticsdomain.Config `mapstructure:"analytics"`
}

// decodeAnalytics unmarshals the whole tree so file values, env overrides
// and defaults merge per key.
func decodeAnalytics(v *viper.Viper) (analyticsdomain.Config, error) {
	var file analyticsFile
	if err := v.Unmarshal(&file); err != nil {
		return analyticsdomain.Config{}, err
	}
	return file.Analytics, nil
}

// NewStaticAnalyticsConfigHolder serves a fixed configuration.
func NewStaticAnalyticsConfigHolder(cfg analyticsdomain.Config) *AnalyticsConfigHolder {
	holder := &AnalyticsConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *AnalyticsConfigHolder) Get() analyticsdomain.Config {
	return h.current.Load().(analyticsdomain.Config)
}
