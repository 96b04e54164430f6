package app

import (
	"strings"
	"time"

	"github.com/yungbote/mathstep-backend/internal/platform/db"
	"github.com/yungbote/mathstep-backend/internal/platform/envutil"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
	"github.com/yungbote/mathstep-backend/internal/platform/sendgrid"
)

const (
	CatalogSourceDB   = "db"
	CatalogSourceSeed = "seed"
)

type Config struct {
	Port        string
	LogMode     string
	ServiceName string
	Version     string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	EmailTokenTTL   time.Duration
	TokenSweepEvery time.Duration

	DB        db.Config
	RedisAddr string

	PlayerSessionTTL time.Duration
	DraftTTL         time.Duration

	AllowedOrigins  []string
	CatalogSource   string
	SeedCatalogPath string
	PublicBaseURL   string

	SendGrid sendgrid.Config
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8000"),
		LogMode:     envutil.String("LOG_MODE", "development"),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "mathstep-backend"),
		Version:     envutil.String("APP_VERSION", "dev"),

		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: envutil.Seconds("REFRESH_TOKEN_TTL", 24*time.Hour),
		EmailTokenTTL:   envutil.Seconds("EMAIL_TOKEN_TTL", 24*time.Hour),
		TokenSweepEvery: envutil.Seconds("TOKEN_SWEEP_INTERVAL", time.Hour),

		DB: db.Config{
			Driver:     envutil.String("DB_DRIVER", "postgres"),
			Host:       envutil.String("POSTGRES_HOST", "localhost"),
			Port:       envutil.String("POSTGRES_PORT", "5432"),
			User:       envutil.String("POSTGRES_USER", "postgres"),
			Password:   envutil.String("POSTGRES_PASSWORD", ""),
			Name:       envutil.String("POSTGRES_NAME", "mathstep"),
			SSLMode:    envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath: envutil.String("SQLITE_PATH", ""),
		},
		RedisAddr: envutil.String("REDIS_ADDR", ""),

		PlayerSessionTTL: envutil.Seconds("PLAYER_SESSION_TTL", 6*time.Hour),
		DraftTTL:         envutil.Seconds("DRAFT_TTL", 30*24*time.Hour),

		AllowedOrigins:  envutil.CSV("CORS_ALLOW_ORIGINS", nil),
		CatalogSource:   strings.ToLower(envutil.String("CATALOG_SOURCE", CatalogSourceDB)),
		SeedCatalogPath: envutil.String("SEED_CATALOG_PATH", ""),
		PublicBaseURL:   envutil.String("PUBLIC_BASE_URL", "http://localhost:5173"),

		SendGrid: sendgrid.ConfigFromEnv(),
	}
	if cfg.CatalogSource != CatalogSourceDB && cfg.CatalogSource != CatalogSourceSeed {
		if log != nil {
			log.Warn("Unknown CATALOG_SOURCE; using db", "value", cfg.CatalogSource)
		}
		cfg.CatalogSource = CatalogSourceDB
	}
	if cfg.JWTSecretKey == "defaultsecret" && log != nil {
		log.Warn("JWT_SECRET_KEY not set; using the development default")
	}
	return cfg
}
