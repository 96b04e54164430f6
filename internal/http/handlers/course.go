package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mathstep-backend/internal/domain/content"
	"github.com/yungbote/mathstep-backend/internal/http/response"
	"github.com/yungbote/mathstep-backend/internal/modules/catalog"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
	"github.com/yungbote/mathstep-backend/internal/services"
)

// CourseHandler serves courses, chapters, lessons and lesson content.
type CourseHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
}

func NewCourseHandler(log *logger.Logger, catalog services.CatalogService) *CourseHandler {
	return &CourseHandler{log: log.With("handler", "CourseHandler"), catalog: catalog}
}

// ListCourses supports ?q= for a search term and repeated ?tag= filters.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	filter := catalog.Filter{Term: c.Query("q"), Tags: c.QueryArray("tag")}
	courses, err := h.catalog.ListCourses(c.Request.Context(), filter)
	if err != nil {
		response.RespondAPIError(c, err, "list_courses_failed")
		return
	}
	response.RespondOK(c, courses)
}

func (h *CourseHandler) ListTags(c *gin.Context) {
	tags, err := h.catalog.AllTags(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err, "list_tags_failed")
		return
	}
	response.RespondOK(c, tags)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.catalog.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err, "get_course_failed")
		return
	}
	response.RespondOK(c, course)
}

func (h *CourseHandler) ListChapters(c *gin.Context) {
	chapters, err := h.catalog.ListChapters(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err, "list_chapters_failed")
		return
	}
	response.RespondOK(c, chapters)
}

func (h *CourseHandler) ListLessons(c *gin.Context) {
	lessons, err := h.catalog.ListLessons(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err, "list_lessons_failed")
		return
	}
	response.RespondOK(c, lessons)
}

func (h *CourseHandler) LessonContent(c *gin.Context) {
	items, err := h.catalog.LessonContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err, "lesson_content_failed")
		return
	}
	response.RespondOK(c, items)
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req struct {
		Title       string   `json:"title" binding:"required,max=255"`
		Description string   `json:"description"`
		Image       string   `json:"image" binding:"omitempty,max=255"`
		Tags        []string `json:"tags" binding:"omitempty,dive,max=50"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err, "body")
		return
	}
	course, err := h.catalog.CreateCourse(c.Request.Context(), services.CreateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Tags:        req.Tags,
	})
	if err != nil {
		response.RespondAPIError(c, err, "create_course_failed")
		return
	}
	response.RespondOK(c, course)
}

func (h *CourseHandler) CreateChapter(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required,max=255"`
		Description string `json:"description"`
		Image       string `json:"image" binding:"omitempty,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err, "body")
		return
	}
	chapter, err := h.catalog.CreateChapter(c.Request.Context(), c.Param("id"), services.CreateChapterInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		response.RespondAPIError(c, err, "create_chapter_failed")
		return
	}
	response.RespondOK(c, chapter)
}

func (h *CourseHandler) CreateLesson(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required,max=255"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err, "body")
		return
	}
	lesson, err := h.catalog.CreateLesson(c.Request.Context(), c.Param("id"), services.CreateLessonInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		response.RespondAPIError(c, err, "create_lesson_failed")
		return
	}
	response.RespondOK(c, lesson)
}

// AddContent accepts one content item or a list of them.
func (h *CourseHandler) AddContent(c *gin.Context) {
	items, err := decodeItems(c.Request.Body)
	if err != nil {
		response.RespondBindError(c, err, "body")
		return
	}
	out, err := h.catalog.AppendContent(c.Request.Context(), c.Param("id"), items)
	if err != nil {
		response.RespondAPIError(c, err, "add_content_failed")
		return
	}
	response.RespondOK(c, out)
}

var errEmptyBody = errors.New("request body is empty")

func decodeItems(body io.Reader) ([]content.Item, error) {
	raw, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil {
		return nil, err
	}
	raw = trimSpace(raw)
	if len(raw) == 0 {
		return nil, errEmptyBody
	}
	if raw[0] == '[' {
		var items []content.Item
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var it content.Item
	if err := json.Unmarshal(raw, &it); err != nil {
		return nil, err
	}
	return []content.Item{it}, nil
}

func trimSpace(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isSpace(b[start]) {
		start++
	}
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(c byte) bool { return c == ' ' || c == '\n' || c == '\r' || c == '\t' }

func respondHTML(c *gin.Context, body []byte) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
