package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mathstep-backend/internal/http/response"
	"github.com/yungbote/mathstep-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err, "load_user_failed")
		return
	}
	response.RespondOK(c, me)
}
