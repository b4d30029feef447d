// Package lessons is the read and editorial side of lessons produced by the pipeline.
package lessons

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/model"
	"plumberf/internal/app/repository"
)

const maxListLimit = 200

// Service reads lessons and changes their status and tags.
type Service struct {
	store  *repository.Store
	logger *zap.Logger
}

// NewService creates a lesson service.
func NewService(store *repository.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Get returns a lesson with its steps, tags and transcript.
func (s *Service) Get(ctx context.Context, id int64) (*model.LessonDetail, error) {
	return s.store.GetLesson(ctx, id)
}

// GetByJobVideo returns the lesson built from a job video.
func (s *Service) GetByJobVideo(ctx context.Context, jobVideoID int64) (*model.LessonDetail, error) {
	return s.store.GetLessonByJobVideo(ctx, jobVideoID)
}

// List returns lessons, newest first.
func (s *Service) List(ctx context.Context, filter model.LessonFilter) ([]model.Lesson, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.InvalidField("status", fmt.Sprintf("unknown lesson status %q", filter.Status))
	}
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = 50
	}
	return s.store.ListLessons(ctx, filter)
}

// UpdateStatus moves a lesson between draft, ready, published and hidden.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status model.LessonStatus) (*model.LessonDetail, error) {
	if !status.Valid() {
		return nil, apperrors.InvalidField("status", "must be one of draft, ready, published, hidden")
	}
	ok, err := s.store.UpdateLessonStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NotFound("lesson", id)
	}
	s.logger.Info("lesson status changed", zap.Int64("lesson_id", id), zap.String("status", string(status)))
	return s.store.GetLesson(ctx, id)
}

// AttachTags links tags to a lesson by name. Unknown names become tags of
// the lesson's trade.
func (s *Service) AttachTags(ctx context.Context, id int64, names []string) (*model.LessonDetail, error) {
	names = lo.Filter(names, func(n string, _ int) bool { return strings.TrimSpace(n) != "" })
	if len(names) == 0 {
		return nil, apperrors.InvalidField("tags", "at least one tag name is required")
	}

	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		lesson, err := tx.GetLesson(ctx, id)
		if err != nil {
			return err
		}
		return tx.AttachTags(ctx, lesson.ID, lesson.TradeID, names)
	})
	if err != nil {
		return nil, err
	}
	return s.store.GetLesson(ctx, id)
}
