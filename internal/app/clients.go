package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appdb "github.com/yungbote/mathstep-backend/internal/data/db"
	"github.com/yungbote/mathstep-backend/internal/platform/db"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
	"github.com/yungbote/mathstep-backend/internal/platform/redisx"
)

type Clients struct {
	DB    *gorm.DB
	Redis *goredis.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	theDB, err := db.Open(cfg.DB, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init database: %w", err)
	}
	if err := appdb.AutoMigrateAll(theDB); err != nil {
		_ = db.Close(theDB)
		return Clients{}, err
	}

	// Redis is optional; stores fall back to memory without it.
	rdb, err := redisx.Connect(ctx, log, cfg.RedisAddr)
	if err != nil {
		_ = db.Close(theDB)
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	return Clients{DB: theDB, Redis: rdb}, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	_ = db.Close(c.DB)
}
