package services

import (
	"context"

	"plumberf/internal/api/v1/dto"
	"plumberf/internal/app/model"
)

// JobVideoService defines the interface for job video operations
type JobVideoService interface {
	InitiateUpload(ctx context.Context, uploaderID int64, req *dto.InitiateUploadRequest) (*dto.InitiateUploadResponse, error)
	ConfirmUpload(ctx context.Context, id int64, req *dto.ConfirmUploadRequest) (*dto.JobVideoResponse, error)
	CreateJobVideo(ctx context.Context, uploaderID int64, req *dto.CreateJobVideoRequest) (*dto.JobVideoResponse, error)
	GetJobVideo(ctx context.Context, id int64) (*dto.JobVideoResponse, error)
	ListJobVideos(ctx context.Context, query dto.ListJobVideosQuery) (*dto.PaginatedJobVideosResponse, error)
	DeleteJobVideo(ctx context.Context, id int64) error
	RetryJobVideo(ctx context.Context, id int64) (*dto.JobVideoResponse, error)
	GetJobVideoLesson(ctx context.Context, id int64) (*dto.LessonResponse, error)
}

// LessonService defines the interface for lesson operations
type LessonService interface {
	GetLesson(ctx context.Context, id int64) (*dto.LessonResponse, error)
	ListLessons(ctx context.Context, query dto.ListLessonsQuery) (*dto.LessonListResponse, error)
	UpdateLessonStatus(ctx context.Context, id int64, req *dto.UpdateLessonStatusRequest) (*dto.LessonResponse, error)
	AttachTags(ctx context.Context, id int64, req *dto.AttachTagsRequest) (*dto.LessonResponse, error)
}

// CatalogService defines the interface for trades and reference vocabulary
type CatalogService interface {
	CreateTrade(ctx context.Context, req *dto.CreateTradeRequest) (*model.Trade, error)
	GetTrade(ctx context.Context, slug string) (*model.Trade, error)
	ListTrades(ctx context.Context) ([]model.Trade, error)
	CreateTool(ctx context.Context, req *dto.CreateTermRequest) (*model.Tool, error)
	ListTools(ctx context.Context, query dto.VocabularyQuery) ([]model.Tool, error)
	CreateMaterial(ctx context.Context, req *dto.CreateTermRequest) (*model.Material, error)
	ListMaterials(ctx context.Context, query dto.VocabularyQuery) ([]model.Material, error)
	CreateTag(ctx context.Context, req *dto.CreateTermRequest) (*model.Tag, error)
	ListTags(ctx context.Context, query dto.VocabularyQuery) ([]model.Tag, error)
}
