package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

type Config struct {
	Driver     string // "postgres" or "sqlite"
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

func (c Config) PostgresDSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
		sslMode,
	)
}

// Open connects to the configured driver. Postgres gets the uuid-ossp
// extension; sqlite gets foreign keys switched on.
func Open(cfg Config, baseLog *logger.Logger) (*gorm.DB, error) {
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gormCfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "postgres", "postgresql":
		db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
		}
		if baseLog != nil {
			baseLog.Info("connected to postgres", "host", cfg.Host, "db", cfg.Name)
		}
		return db, nil
	case "sqlite", "sqlite3":
		path := cfg.SQLitePath
		if path == "" {
			path = "file::memory:?cache=shared"
		}
		db, err := gorm.Open(sqlite.Open(path), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
		}
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
		if baseLog != nil {
			baseLog.Info("opened sqlite database", "path", path)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
