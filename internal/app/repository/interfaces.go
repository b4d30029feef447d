package repository

import (
	"context"

	"plumberf/internal/app/model"
)

// TradeRepository persists trades.
type TradeRepository interface {
	CreateTrade(ctx context.Context, trade *model.Trade) error
	GetTrade(ctx context.Context, id int64) (*model.Trade, error)
	GetTradeBySlug(ctx context.Context, slug string) (*model.Trade, error)
	ListTrades(ctx context.Context) ([]model.Trade, error)
}

// VocabularyRepository persists tools, materials and tags.
type VocabularyRepository interface {
	CreateTool(ctx context.Context, tool *model.Tool) error
	ListTools(ctx context.Context, tradeID *int64) ([]model.Tool, error)
	CreateMaterial(ctx context.Context, material *model.Material) error
	ListMaterials(ctx context.Context, tradeID *int64) ([]model.Material, error)
	CreateTag(ctx context.Context, tag *model.Tag) error
	ListTags(ctx context.Context, tradeID *int64) ([]model.Tag, error)
	// Terms returns the entries usable for a trade: trade scoped ones plus global ones.
	Terms(ctx context.Context, kind model.VocabularyKind, tradeID int64) ([]model.Term, error)
}

// Transition describes a conditional status change of a job video.
// ErrorMessage is stored only when To is failed; every other target clears it.
type Transition struct {
	From             model.JobVideoStatus
	To               model.JobVideoStatus
	FileURL          *string
	OriginalFilename *string
	DurationSec      *int
	ErrorMessage     string
}

// JobVideoRepository persists job videos.
type JobVideoRepository interface {
	CreateJobVideo(ctx context.Context, jv *model.JobVideo) error
	GetJobVideo(ctx context.Context, id int64) (*model.JobVideo, error)
	ListJobVideos(ctx context.Context, filter model.JobVideoFilter) ([]model.JobVideo, int, error)
	// TransitionJobVideo applies t only if the row is currently in t.From.
	// It reports whether a row was changed.
	TransitionJobVideo(ctx context.Context, id int64, t Transition) (bool, error)
	DeleteJobVideo(ctx context.Context, id int64) (bool, error)
}

// LessonRepository persists lessons and everything they own.
type LessonRepository interface {
	CreateLesson(ctx context.Context, jv *model.JobVideo, draft *model.LessonDraft) (int64, error)
	GetLesson(ctx context.Context, id int64) (*model.LessonDetail, error)
	GetLessonByJobVideo(ctx context.Context, jobVideoID int64) (*model.LessonDetail, error)
	ListLessons(ctx context.Context, filter model.LessonFilter) ([]model.Lesson, error)
	UpdateLessonStatus(ctx context.Context, id int64, status model.LessonStatus) (bool, error)
	AttachTags(ctx context.Context, lessonID, tradeID int64, names []string) error
	UpsertTranscript(ctx context.Context, lessonID int64, transcript model.TranscriptDraft) error
}

var (
	_ TradeRepository      = (*Store)(nil)
	_ VocabularyRepository = (*Store)(nil)
	_ JobVideoRepository   = (*Store)(nil)
	_ LessonRepository     = (*Store)(nil)
)
