package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mathstep-backend/internal/domain/content"
	"github.com/yungbote/mathstep-backend/internal/http/response"
	"github.com/yungbote/mathstep-backend/internal/services"
)

type PlayerHandler struct {
	player services.PlayerService
}

func NewPlayerHandler(player services.PlayerService) *PlayerHandler {
	return &PlayerHandler{player: player}
}

func (h *PlayerHandler) Start(c *gin.Context) {
	var req struct {
		CourseID  string `json:"course_id" binding:"required"`
		ChapterID string `json:"chapter_id" binding:"required"`
		LessonID  string `json:"lesson_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err, "body")
		return
	}
	view, err := h.player.Start(c.Request.Context(), req.CourseID, req.ChapterID, req.LessonID)
	if err != nil {
		response.RespondAPIError(c, err, "start_lesson_failed")
		return
	}
	response.RespondCreated(c, view)
}

func (h *PlayerHandler) Get(c *gin.Context) {
	h.run(c, h.player.Get)
}

// Answer records a response for the item at index. The answer may be a
// string or a number.
func (h *PlayerHandler) Answer(c *gin.Context) {
	var req struct {
		Index  *int           `json:"index" binding:"required,min=0"`
		Answer content.Answer `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err, "body")
		return
	}
	view, err := h.player.Answer(c.Request.Context(), c.Param("id"), *req.Index, req.Answer)
	if err != nil {
		response.RespondAPIError(c, err, "answer_failed")
		return
	}
	response.RespondOK(c, view)
}

func (h *PlayerHandler) Check(c *gin.Context)       { h.run(c, h.player.Check) }
func (h *PlayerHandler) TryAgain(c *gin.Context)    { h.run(c, h.player.TryAgain) }
func (h *PlayerHandler) Reveal(c *gin.Context)      { h.run(c, h.player.Reveal) }
func (h *PlayerHandler) Explanation(c *gin.Context) { h.run(c, h.player.Explanation) }
func (h *PlayerHandler) Continue(c *gin.Context)    { h.run(c, h.player.Continue) }
func (h *PlayerHandler) Complete(c *gin.Context)    { h.run(c, h.player.Complete) }

func (h *PlayerHandler) Page(c *gin.Context) {
	body, err := h.player.Page(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err, "render_failed")
		return
	}
	respondHTML(c, body)
}

func (h *PlayerHandler) run(c *gin.Context, op func(context.Context, string) (*services.PlayerView, error)) {
	view, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err, "player_failed")
		return
	}
	response.RespondOK(c, view)
}
