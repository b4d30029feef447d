package dto

import (
	"time"

	"plumberf/internal/app/model"
)

// JobMetadata is the optional description a client sends with a new job video.
type JobMetadata struct {
	JobTypeFreeText *string `json:"job_type_free_text,omitempty" binding:"omitempty,max=2000"`
	LocationType    *string `json:"location_type,omitempty" binding:"omitempty,max=100"`
	DifficultyLevel *int    `json:"difficulty_level,omitempty"`
}

// Model converts the metadata to its domain form.
func (m JobMetadata) Model() model.JobVideoMetadata {
	return model.JobVideoMetadata{
		JobTypeFreeText: m.JobTypeFreeText,
		LocationType:    m.LocationType,
		DifficultyLevel: m.DifficultyLevel,
	}
}

// InitiateUploadRequest asks for a pending job video and an upload slot.
// trade_id and file_extension are checked by the coordinator so that an
// unknown trade is a 400, not a binding failure.
type InitiateUploadRequest struct {
	TradeID       int64  `json:"trade_id" example:"1"`
	FileExtension string `json:"file_extension" example:"mp4"`
	JobMetadata
}

// InitiateUploadResponse tells the client where to put the video bytes.
type InitiateUploadResponse struct {
	JobVideoID    int64             `json:"job_video_id"`
	UploadURL     string            `json:"upload_url"`
	UploadMethod  string            `json:"upload_method"`
	UploadKey     string            `json:"upload_key"`
	UploadHeaders map[string]string `json:"upload_headers,omitempty"`
	ExpiresAt     *time.Time        `json:"expires_at,omitempty"`
	JobVideo      *JobVideoResponse `json:"job_video"`
}

// ConfirmUploadRequest reports where the uploaded bytes ended up.
type ConfirmUploadRequest struct {
	FileURL string `json:"file_url" example:"s3://job-videos/job_videos/1.mp4"`
}

// CreateJobVideoRequest registers a job video. Without file_url it waits for
// an upload like an initiated one.
type CreateJobVideoRequest struct {
	TradeID int64  `json:"trade_id" example:"1"`
	FileURL string `json:"file_url,omitempty" binding:"omitempty,max=2048"`
	JobMetadata
}

// JobVideoResponse is the full job video record, plus its lesson once processed.
type JobVideoResponse struct {
	model.JobVideo
	Lesson *LessonResponse `json:"lesson,omitempty"`
}

// ListJobVideosQuery represents query parameters for listing job videos
type ListJobVideosQuery struct {
	Status  string `form:"status" binding:"omitempty,oneof=upload_pending uploaded processing processed failed"`
	TradeID int64  `form:"trade_id" binding:"omitempty,min=1"`
	Page    int    `form:"page,default=1" binding:"min=1"`
	Limit   int    `form:"limit,default=20" binding:"min=1,max=100"`
}

// Filter converts the query to a store filter.
func (q ListJobVideosQuery) Filter() model.JobVideoFilter {
	return model.JobVideoFilter{
		Status:  model.JobVideoStatus(q.Status),
		TradeID: q.TradeID,
		Page:    q.Page,
		Limit:   q.Limit,
	}
}

// PaginatedJobVideosResponse represents a page of job videos
type PaginatedJobVideosResponse struct {
	JobVideos  []JobVideoResponse `json:"job_videos"`
	Pagination PaginationResponse `json:"pagination"`
}

// ToJobVideoResponse wraps a job video without its lesson.
func ToJobVideoResponse(jv *model.JobVideo) *JobVideoResponse {
	return &JobVideoResponse{JobVideo: *jv}
}
