package app

import (
	"github.com/yungbote/mathstep-backend/internal/http"
	httpH "github.com/yungbote/mathstep-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mathstep-backend/internal/http/middleware"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health *httpH.HealthHandler
	Auth   *httpH.AuthHandler
	User   *httpH.UserHandler
	Course *httpH.CourseHandler
	Player *httpH.PlayerHandler
	Draft  *httpH.DraftHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		Auth:   httpH.NewAuthHandler(services.Auth),
		User:   httpH.NewUserHandler(services.User),
		Course: httpH.NewCourseHandler(log, services.Catalog),
		Player: httpH.NewPlayerHandler(services.Player),
		Draft:  httpH.NewDraftHandler(services.Draft),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:            log,
		ServiceName:    cfg.ServiceName,
		AllowedOrigins: cfg.AllowedOrigins,
		HealthHandler:  handlers.Health,
		AuthHandler:    handlers.Auth,
		AuthMiddleware: middleware.Auth,
		UserHandler:    handlers.User,
		CourseHandler:  handlers.Course,
		PlayerHandler:  handlers.Player,
		DraftHandler:   handlers.Draft,
	})
}
