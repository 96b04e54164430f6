package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mathstep-backend/internal/http/response"
	"github.com/yungbote/mathstep-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func tokenPayload(s *services.Session) gin.H {
	return gin.H{
		"access_token":  s.AccessToken,
		"refresh_token": s.RefreshToken,
		"token_type":    "bearer",
		"expires_in":    s.ExpiresIn,
		"user":          s.User,
	}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=6,max=128"`
		Username  string `json:"username" binding:"omitempty,max=50"`
		FirstName string `json:"first_name" binding:"omitempty,max=100"`
		LastName  string `json:"last_name" binding:"omitempty,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err, "body")
		return
	}
	sess, err := ah.authService.RegisterUser(c.Request.Context(), services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.RespondAPIError(c, err, "registration_failed")
		return
	}
	response.RespondOK(c, tokenPayload(sess))
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err, "body")
		return
	}
	sess, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, err, "login_failed")
		return
	}
	response.RespondOK(c, tokenPayload(sess))
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err, "body")
		return
	}
	sess, err := ah.authService.RefreshUser(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondAPIError(c, err, "refresh_failed")
		return
	}
	response.RespondOK(c, tokenPayload(sess))
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.LogoutUser(c.Request.Context()); err != nil {
		response.RespondAPIError(c, err, "logout_failed")
		return
	}
	response.RespondOK(c, gin.H{"message": "Logged out"})
}

func (ah *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := ah.authService.VerifyEmail(c.Request.Context(), c.Param("token")); err != nil {
		response.RespondAPIError(c, err, "verify_failed")
		return
	}
	response.RespondOK(c, gin.H{"message": "Email verified successfully"})
}
