package db

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/tokenmeter/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const defaultSQLitePath = "tokenmeter.db"

// Dialect picks the gorm driver for cfg.DBType. Timestamps are read in UTC
// on every driver so usage windows line up across backends.
func Dialect(cfg config.Config) (gorm.Dialector, error) {
	switch NormalizeType(cfg.DBType) {
	case "postgres":
		return postgres.Open(PostgresDSN(cfg)), nil
	case "mysql":
		return mysql.Open(MySQLDSN(cfg)), nil
	case "sqlite":
		path := strings.TrimSpace(cfg.DBPath)
		if path == "" {
			path = defaultSQLitePath
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DBType)
	}
}

func PostgresDSN(cfg config.Config) string {
	parts := []string{
		"host=" + cfg.DBHost,
		"port=" + cfg.DBPort,
		"user=" + cfg.DBUser,
		"dbname=" + cfg.DBName,
		"sslmode=" + defaultIfEmpty(cfg.DBSSLMode, "disable"),
		"TimeZone=UTC",
	}
	if cfg.DBPassword != "" {
		parts = append(parts, "password="+cfg.DBPassword)
	}
	return strings.Join(parts, " ")
}

func MySQLDSN(cfg config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// NormalizeType maps driver aliases onto postgres, mysql or sqlite.
func NormalizeType(dbType string) string {
	switch t := strings.ToLower(strings.TrimSpace(dbType)); t {
	case "postgresql", "pg":
		return "postgres"
	case "sqlite3":
		return "sqlite"
	default:
		return t
	}
}

func defaultIfEmpty(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
