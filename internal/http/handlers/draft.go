package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mathstep-backend/internal/data/drafts"
	"github.com/yungbote/mathstep-backend/internal/http/response"
	"github.com/yungbote/mathstep-backend/internal/services"
)

// DraftHandler serves the signed-in author's lesson draft.
type DraftHandler struct {
	drafts services.DraftService
}

func NewDraftHandler(drafts services.DraftService) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

type draftPayload struct {
	Blocks drafts.Draft `json:"blocks"`
}

func respondDraft(c *gin.Context, d drafts.Draft) {
	if d == nil {
		d = drafts.Draft{}
	}
	response.RespondOK(c, draftPayload{Blocks: d})
}

func (h *DraftHandler) Get(c *gin.Context) {
	d, err := h.drafts.Get(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err, "load_draft_failed")
		return
	}
	respondDraft(c, d)
}

func (h *DraftHandler) Save(c *gin.Context) {
	var req struct {
		Blocks drafts.Draft `json:"blocks" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err, "body")
		return
	}
	d, err := h.drafts.Save(c.Request.Context(), req.Blocks)
	if err != nil {
		response.RespondAPIError(c, err, "save_draft_failed")
		return
	}
	respondDraft(c, d)
}

func (h *DraftHandler) Clear(c *gin.Context) {
	if err := h.drafts.Clear(c.Request.Context()); err != nil {
		response.RespondAPIError(c, err, "clear_draft_failed")
		return
	}
	respondDraft(c, nil)
}

func (h *DraftHandler) AddBlock(c *gin.Context) {
	var req struct {
		Type drafts.BlockType `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err, "body")
		return
	}
	d, err := h.drafts.AddBlock(c.Request.Context(), req.Type)
	if err != nil {
		response.RespondAPIError(c, err, "add_block_failed")
		return
	}
	respondDraft(c, d)
}

// UpdateBlock replaces a block's data. Sending a new type resets the data
// to that type's defaults unless data is also given.
func (h *DraftHandler) UpdateBlock(c *gin.Context) {
	var req struct {
		Type drafts.BlockType `json:"type"`
		Data json.RawMessage  `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err, "body")
		return
	}
	d, err := h.drafts.UpdateBlock(c.Request.Context(), c.Param("id"), req.Type, req.Data)
	if err != nil {
		response.RespondAPIError(c, err, "update_block_failed")
		return
	}
	respondDraft(c, d)
}

func (h *DraftHandler) MoveBlock(c *gin.Context) {
	var req struct {
		Direction string `json:"direction" binding:"required,oneof=up down"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err, "body")
		return
	}
	d, err := h.drafts.MoveBlock(c.Request.Context(), c.Param("id"), drafts.Direction(req.Direction))
	if err != nil {
		response.RespondAPIError(c, err, "move_block_failed")
		return
	}
	respondDraft(c, d)
}

func (h *DraftHandler) DeleteBlock(c *gin.Context) {
	d, err := h.drafts.DeleteBlock(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err, "delete_block_failed")
		return
	}
	respondDraft(c, d)
}

func (h *DraftHandler) Publish(c *gin.Context) {
	var req struct {
		LessonID string `json:"lesson_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err, "body")
		return
	}
	items, err := h.drafts.Publish(c.Request.Context(), req.LessonID)
	if err != nil {
		response.RespondAPIError(c, err, "publish_draft_failed")
		return
	}
	response.RespondOK(c, items)
}
