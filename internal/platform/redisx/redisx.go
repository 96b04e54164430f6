package redisx

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

// Connect returns a pinged client, or (nil, nil) when addr is empty so callers
// can fall back to in-memory stores.
func Connect(ctx context.Context, log *logger.Logger, addr string) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		if log != nil {
			log.Warn("REDIS_ADDR not set; using in-memory stores")
		}
		return nil, nil
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	if log != nil {
		log.Info("connected to redis", "addr", addr)
	}
	return rdb, nil
}
