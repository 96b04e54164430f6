package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/mathstep-backend/internal/data/drafts"
	"github.com/yungbote/mathstep-backend/internal/data/sessions"
	"github.com/yungbote/mathstep-backend/internal/modules/lesson/lookup"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
	"github.com/yungbote/mathstep-backend/internal/platform/sendgrid"
	"github.com/yungbote/mathstep-backend/internal/seed"
	"github.com/yungbote/mathstep-backend/internal/services"
)

type Services struct {
	Auth    services.AuthService
	User    services.UserService
	Catalog services.CatalogService
	Player  services.PlayerService
	Draft   services.DraftService
}

func wireServices(ctx context.Context, log *logger.Logger, cfg Config, clients Clients, r Repos) (Services, error) {
	log.Info("Wiring services...")

	cat, err := seed.Load(cfg.SeedCatalogPath)
	if err != nil {
		return Services{}, fmt.Errorf("load seed catalog: %w", err)
	}
	catalogRepos := services.CatalogRepos{
		Courses:  r.Course,
		Chapters: r.Chapter,
		Lessons:  r.Lesson,
		Contents: r.LessonContent,
	}

	var source lookup.Source
	readOnly := cfg.CatalogSource == CatalogSourceSeed
	if readOnly {
		log.Info("Serving the seed catalog read-only", "courses", len(cat.Courses()))
		source = cat
	} else {
		if _, err := seed.ImportIfEmpty(ctx, clients.DB, seed.ImportRepos(catalogRepos), cat, log); err != nil {
			return Services{}, fmt.Errorf("import seed catalog: %w", err)
		}
		source = lookup.NewRepoSource(r.Course, r.Chapter, r.Lesson, r.LessonContent)
	}

	var (
		sessionStore sessions.Store
		draftStore   drafts.Store
	)
	if clients.Redis != nil {
		sessionStore = sessions.NewRedisStore(clients.Redis, cfg.PlayerSessionTTL, log)
		draftStore = drafts.NewRedisStore(clients.Redis, cfg.DraftTTL, log)
	} else {
		sessionStore = sessions.NewMemoryStore(cfg.PlayerSessionTTL)
		draftStore = drafts.NewMemoryStore(cfg.DraftTTL)
	}

	mailer := services.NewLogMailer(log)
	if strings.TrimSpace(cfg.SendGrid.APIKey) != "" {
		sg, err := sendgrid.New(log, cfg.SendGrid)
		if err != nil {
			return Services{}, fmt.Errorf("init sendgrid: %w", err)
		}
		mailer = services.NewSendGridMailer(log, sg)
	}

	authService := services.NewAuthService(
		clients.DB,
		log,
		r.User,
		r.UserToken,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		cfg.EmailTokenTTL,
		mailer,
		cfg.PublicBaseURL,
	)
	catalogService := services.NewCatalogService(clients.DB, log, source, catalogRepos, readOnly)

	return Services{
		Auth:    authService,
		User:    services.NewUserService(log, r.User),
		Catalog: catalogService,
		Player:  services.NewPlayerService(log, source, sessionStore),
		Draft:   services.NewDraftService(log, draftStore, catalogService),
	}, nil
}
