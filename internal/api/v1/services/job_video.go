package services

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"plumberf/internal/api/v1/dto"
	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/lessons"
	"plumberf/internal/app/lifecycle"
	"plumberf/internal/app/model"
)

// JobVideoServiceImpl implements JobVideoService on the lifecycle coordinator.
type JobVideoServiceImpl struct {
	coordinator *lifecycle.Coordinator
	lessons     *lessons.Service
	logger      *zap.Logger
}

// NewJobVideoService creates a new job video service
func NewJobVideoService(coordinator *lifecycle.Coordinator, lessonService *lessons.Service, logger *zap.Logger) JobVideoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobVideoServiceImpl{
		coordinator: coordinator,
		lessons:     lessonService,
		logger:      logger,
	}
}

// InitiateUpload creates a pending job video and allocates its upload target.
func (s *JobVideoServiceImpl) InitiateUpload(ctx context.Context, uploaderID int64, req *dto.InitiateUploadRequest) (*dto.InitiateUploadResponse, error) {
	res, err := s.coordinator.InitiateUpload(ctx, lifecycle.InitiateParams{
		UploaderID:    uploaderID,
		TradeID:       req.TradeID,
		FileExtension: req.FileExtension,
		Metadata:      req.JobMetadata.Model(),
	})
	if err != nil {
		return nil, err
	}
	return &dto.InitiateUploadResponse{
		JobVideoID:    res.JobVideo.ID,
		UploadURL:     res.Upload.URL,
		UploadMethod:  res.Upload.Method,
		UploadKey:     res.Upload.Key,
		UploadHeaders: res.Upload.Headers,
		ExpiresAt:     res.Upload.ExpiresAt,
		JobVideo:      dto.ToJobVideoResponse(res.JobVideo),
	}, nil
}

// ConfirmUpload marks the upload as done and queues the video for processing.
func (s *JobVideoServiceImpl) ConfirmUpload(ctx context.Context, id int64, req *dto.ConfirmUploadRequest) (*dto.JobVideoResponse, error) {
	jv, err := s.coordinator.ConfirmUpload(ctx, id, req.FileURL)
	if err != nil {
		return nil, err
	}
	return dto.ToJobVideoResponse(jv), nil
}

// CreateJobVideo registers a job video directly.
func (s *JobVideoServiceImpl) CreateJobVideo(ctx context.Context, uploaderID int64, req *dto.CreateJobVideoRequest) (*dto.JobVideoResponse, error) {
	jv, err := s.coordinator.CreateJobVideo(ctx, lifecycle.CreateParams{
		UploaderID: uploaderID,
		TradeID:    req.TradeID,
		FileURL:    req.FileURL,
		Metadata:   req.JobMetadata.Model(),
	})
	if err != nil {
		return nil, err
	}
	return dto.ToJobVideoResponse(jv), nil
}

// GetJobVideo returns the record and, once processed, its lesson.
func (s *JobVideoServiceImpl) GetJobVideo(ctx context.Context, id int64) (*dto.JobVideoResponse, error) {
	jv, err := s.coordinator.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToJobVideoResponse(jv)
	if jv.Status != model.StatusProcessed {
		return resp, nil
	}

	lesson, err := s.lessons.GetByJobVideo(ctx, id)
	switch {
	case err == nil:
		resp.Lesson = dto.ToLessonResponse(lesson)
	case apperrors.IsNotFound(err):
		s.logger.Warn("processed job video has no lesson", zap.Int64("job_video_id", id))
	default:
		return nil, err
	}
	return resp, nil
}

// ListJobVideos returns one page of job videos.
func (s *JobVideoServiceImpl) ListJobVideos(ctx context.Context, query dto.ListJobVideosQuery) (*dto.PaginatedJobVideosResponse, error) {
	filter := query.Filter()
	items, total, err := s.coordinator.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.PaginatedJobVideosResponse{
		JobVideos: lo.Map(items, func(jv model.JobVideo, _ int) dto.JobVideoResponse {
			return dto.JobVideoResponse{JobVideo: jv}
		}),
		Pagination: dto.NewPagination(query.Page, query.Limit, total),
	}, nil
}

// DeleteJobVideo removes a job video and everything derived from it.
func (s *JobVideoServiceImpl) DeleteJobVideo(ctx context.Context, id int64) error {
	return s.coordinator.Delete(ctx, id)
}

// RetryJobVideo moves a failed video back to uploaded and queues it again.
func (s *JobVideoServiceImpl) RetryJobVideo(ctx context.Context, id int64) (*dto.JobVideoResponse, error) {
	jv, err := s.coordinator.Retry(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToJobVideoResponse(jv), nil
}

// GetJobVideoLesson returns the full lesson built from a job video.
func (s *JobVideoServiceImpl) GetJobVideoLesson(ctx context.Context, id int64) (*dto.LessonResponse, error) {
	if _, err := s.coordinator.Get(ctx, id); err != nil {
		return nil, err
	}
	lesson, err := s.lessons.GetByJobVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToLessonResponse(lesson), nil
}
