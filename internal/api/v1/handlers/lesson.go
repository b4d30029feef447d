package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plumberf/internal/api/middleware"
	"plumberf/internal/api/v1/dto"
	"plumberf/internal/api/v1/services"
)

// LessonHandler handles lesson endpoints
type LessonHandler struct {
	service services.LessonService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(service services.LessonService) *LessonHandler {
	return &LessonHandler{service: service}
}

// Get handles GET /lessons/:id
//
// @Summary Get a lesson
// @Description Returns a lesson with ordered steps, their tools and materials, tags and transcript
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.LessonResponse
// @Failure 404 {object} errors.APIError "Unknown lesson"
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(c *gin.Context) {
	id, err := middleware.PathID(c, "id")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.GetLesson(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// List handles GET /lessons
//
// @Summary List lessons
// @Tags lessons
// @Produce json
// @Param trade_id query int false "Filter by trade"
// @Param status query string false "Filter by status" Enums(draft,ready,published,hidden)
// @Param limit query int false "Maximum results" default(50) minimum(1) maximum(200)
// @Success 200 {object} dto.LessonListResponse
// @Router /lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	var query dto.ListLessonsQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.ListLessons(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateStatus handles PUT /lessons/:id/status
//
// @Summary Change a lesson's status
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param request body dto.UpdateLessonStatusRequest true "New status"
// @Success 200 {object} dto.LessonResponse
// @Failure 400 {object} errors.APIError "Unknown status"
// @Failure 404 {object} errors.APIError "Unknown lesson"
// @Router /lessons/{id}/status [put]
func (h *LessonHandler) UpdateStatus(c *gin.Context) {
	id, err := middleware.PathID(c, "id")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var req dto.UpdateLessonStatusRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.UpdateLessonStatus(c.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// AttachTags handles POST /lessons/:id/tags
//
// @Summary Tag a lesson
// @Description Links tags by name; names the lesson's trade does not know yet are created
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param request body dto.AttachTagsRequest true "Tag names"
// @Success 200 {object} dto.LessonResponse
// @Failure 404 {object} errors.APIError "Unknown lesson"
// @Router /lessons/{id}/tags [post]
func (h *LessonHandler) AttachTags(c *gin.Context) {
	id, err := middleware.PathID(c, "id")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var req dto.AttachTagsRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.AttachTags(c.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
