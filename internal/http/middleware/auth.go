package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mathstep-backend/internal/http/response"
	"github.com/yungbote/mathstep-backend/internal/platform/apierr"
	"github.com/yungbote/mathstep-backend/internal/platform/ctxutil"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
	"github.com/yungbote/mathstep-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errMissingToken)
			c.Abort()
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			ae := apierr.From(err, "unauthorized")
			if ae.Status >= http.StatusInternalServerError {
				am.log.Error("Token lookup failed", "error", err)
			}
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(ctx)
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			response.RespondError(c, http.StatusForbidden, "forbidden", errForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractTokenFromAll(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
