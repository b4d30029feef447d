package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"plumberf/internal/api/middleware"
	"plumberf/internal/api/v1/dto"
	"plumberf/internal/api/v1/services"
)

// JobVideoHandler handles the job video lifecycle endpoints
type JobVideoHandler struct {
	service services.JobVideoService
}

// NewJobVideoHandler creates a new job video handler
func NewJobVideoHandler(service services.JobVideoService) *JobVideoHandler {
	return &JobVideoHandler{service: service}
}

// Initiate handles POST /job-videos/initiate
//
// @Summary Request an upload slot
// @Description Creates a job video in upload_pending and returns where to upload its bytes
// @Tags job-videos
// @Accept json
// @Produce json
// @Param X-User-ID header int false "Uploader id" default(1)
// @Param request body dto.InitiateUploadRequest true "Upload description"
// @Success 201 {object} dto.InitiateUploadResponse
// @Failure 400 {object} errors.APIError "Unknown trade or bad extension"
// @Failure 422 {object} errors.APIError "Malformed body"
// @Router /job-videos/initiate [post]
func (h *JobVideoHandler) Initiate(c *gin.Context) {
	uploaderID, err := middleware.UploaderID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var req dto.InitiateUploadRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.InitiateUpload(c.Request.Context(), uploaderID, &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ConfirmUpload handles POST /job-videos/:id/confirm-upload
//
// @Summary Confirm an upload
// @Description Moves an upload_pending job video to uploaded and queues it for processing
// @Tags job-videos
// @Accept json
// @Produce json
// @Param id path int true "Job video ID"
// @Param request body dto.ConfirmUploadRequest true "Uploaded file location"
// @Success 200 {object} dto.JobVideoResponse
// @Failure 400 {object} errors.APIError "No uploaded object at file_url"
// @Failure 404 {object} errors.APIError "Unknown job video"
// @Failure 409 {object} errors.APIError "Job video is not awaiting upload"
// @Router /job-videos/{id}/confirm-upload [post]
func (h *JobVideoHandler) ConfirmUpload(c *gin.Context) {
	id, err := middleware.PathID(c, "id")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var req dto.ConfirmUploadRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.ConfirmUpload(c.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Create handles POST /job-videos
//
// @Summary Register a job video
// @Description With file_url the video is created as uploaded and queued; without it waits for an upload
// @Tags job-videos
// @Accept json
// @Produce json
// @Param X-User-ID header int false "Uploader id" default(1)
// @Param request body dto.CreateJobVideoRequest true "Job video"
// @Success 201 {object} dto.JobVideoResponse
// @Failure 400 {object} errors.APIError "Unknown trade"
// @Router /job-videos [post]
func (h *JobVideoHandler) Create(c *gin.Context) {
	uploaderID, err := middleware.UploaderID(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var req dto.CreateJobVideoRequest
	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.CreateJobVideo(c.Request.Context(), uploaderID, &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Get handles GET /job-videos/:id
//
// @Summary Get a job video
// @Description Returns the job video record and, once processed, its lesson with ordered steps
// @Tags job-videos
// @Produce json
// @Param id path int true "Job video ID"
// @Success 200 {object} dto.JobVideoResponse
// @Failure 404 {object} errors.APIError "Unknown job video"
// @Router /job-videos/{id} [get]
func (h *JobVideoHandler) Get(c *gin.Context) {
	id, err := middleware.PathID(c, "id")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.GetJobVideo(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// List handles GET /job-videos
//
// @Summary List job videos
// @Tags job-videos
// @Produce json
// @Param status query string false "Filter by status" Enums(upload_pending,uploaded,processing,processed,failed)
// @Param trade_id query int false "Filter by trade"
// @Param page query int false "Page number" default(1) minimum(1)
// @Param limit query int false "Items per page" default(20) minimum(1) maximum(100)
// @Success 200 {object} dto.PaginatedJobVideosResponse
// @Header 200 {string} X-Total-Count "Total number of job videos"
// @Failure 400 {object} errors.APIError "Bad query parameters"
// @Router /job-videos [get]
func (h *JobVideoHandler) List(c *gin.Context) {
	var query dto.ListJobVideosQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.ListJobVideos(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(response.Pagination.Total))
	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /job-videos/:id
//
// @Summary Delete a job video
// @Description Deletes the job video together with its lesson, steps and transcript
// @Tags job-videos
// @Param id path int true "Job video ID"
// @Success 204
// @Failure 404 {object} errors.APIError "Unknown job video"
// @Router /job-videos/{id} [delete]
func (h *JobVideoHandler) Delete(c *gin.Context) {
	id, err := middleware.PathID(c, "id")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	if err := h.service.DeleteJobVideo(c.Request.Context(), id); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Retry handles POST /job-videos/:id/retry
//
// @Summary Retry a failed job video
// @Tags job-videos
// @Produce json
// @Param id path int true "Job video ID"
// @Success 200 {object} dto.JobVideoResponse
// @Failure 404 {object} errors.APIError "Unknown job video"
// @Failure 409 {object} errors.APIError "Job video has not failed"
// @Router /job-videos/{id}/retry [post]
func (h *JobVideoHandler) Retry(c *gin.Context) {
	id, err := middleware.PathID(c, "id")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.RetryJobVideo(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Lesson handles GET /job-videos/:id/lesson
//
// @Summary Get the lesson of a job video
// @Tags job-videos
// @Produce json
// @Param id path int true "Job video ID"
// @Success 200 {object} dto.LessonResponse
// @Failure 404 {object} errors.APIError "Unknown job video or not processed yet"
// @Router /job-videos/{id}/lesson [get]
func (h *JobVideoHandler) Lesson(c *gin.Context) {
	id, err := middleware.PathID(c, "id")
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.GetJobVideoLesson(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
