package http

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/mathstep-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mathstep-backend/internal/http/middleware"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler
	CourseHandler  *httpH.CourseHandler
	PlayerHandler  *httpH.PlayerHandler
	DraftHandler   *httpH.DraftHandler
	HealthHandler  *httpH.HealthHandler
}

func init() {
	// Report json names in validation errors.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Root)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Auth (public)
	if cfg.AuthHandler != nil {
		r.POST("/register", cfg.AuthHandler.Register)
		r.POST("/login", cfg.AuthHandler.Login)
		r.POST("/refresh", cfg.AuthHandler.Refresh)
		r.POST("/verify-email/:token", cfg.AuthHandler.VerifyEmail)
	}

	// Catalog (public reads)
	if cfg.CourseHandler != nil {
		r.GET("/courses/", cfg.CourseHandler.ListCourses)
		r.GET("/courses/:id", cfg.CourseHandler.GetCourse)
		r.GET("/courses/:id/chapters/", cfg.CourseHandler.ListChapters)
		r.GET("/chapters/:id/lessons/", cfg.CourseHandler.ListLessons)
		r.GET("/lessons/:id/content/", cfg.CourseHandler.LessonContent)
		r.GET("/tags/", cfg.CourseHandler.ListTags)
	}

	// Lesson player
	if cfg.PlayerHandler != nil {
		ps := r.Group("/player/sessions")
		ps.POST("", cfg.PlayerHandler.Start)
		ps.GET("/:id", cfg.PlayerHandler.Get)
		ps.GET("/:id/page", cfg.PlayerHandler.Page)
		ps.POST("/:id/answer", cfg.PlayerHandler.Answer)
		ps.POST("/:id/check", cfg.PlayerHandler.Check)
		ps.POST("/:id/try-again", cfg.PlayerHandler.TryAgain)
		ps.POST("/:id/reveal", cfg.PlayerHandler.Reveal)
		ps.POST("/:id/explanation", cfg.PlayerHandler.Explanation)
		ps.POST("/:id/continue", cfg.PlayerHandler.Continue)
		ps.POST("/:id/complete", cfg.PlayerHandler.Complete)
	}

	protected := r.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/user", cfg.UserHandler.GetMe)
		}

		// Authoring
		if cfg.CourseHandler != nil {
			protected.POST("/courses/", cfg.CourseHandler.CreateCourse)
			protected.POST("/courses/:id/chapters/", cfg.CourseHandler.CreateChapter)
			protected.POST("/chapters/:id/lessons/", cfg.CourseHandler.CreateLesson)
			protected.POST("/lessons/:id/content/", cfg.CourseHandler.AddContent)
		}

		// Draft editor
		if cfg.DraftHandler != nil {
			protected.GET("/editor/draft", cfg.DraftHandler.Get)
			protected.PUT("/editor/draft", cfg.DraftHandler.Save)
			protected.DELETE("/editor/draft", cfg.DraftHandler.Clear)
			protected.POST("/editor/draft/blocks", cfg.DraftHandler.AddBlock)
			protected.PATCH("/editor/draft/blocks/:id", cfg.DraftHandler.UpdateBlock)
			protected.POST("/editor/draft/blocks/:id/move", cfg.DraftHandler.MoveBlock)
			protected.DELETE("/editor/draft/blocks/:id", cfg.DraftHandler.DeleteBlock)
			protected.POST("/editor/draft/publish", cfg.DraftHandler.Publish)
		}
	}

	return r
}
