package services

import (
	"context"

	"plumberf/internal/api/v1/dto"
	"plumberf/internal/app/lessons"
	"plumberf/internal/app/model"
)

// LessonServiceImpl implements LessonService
type LessonServiceImpl struct {
	lessons *lessons.Service
}

// NewLessonService creates a new lesson service
func NewLessonService(lessonService *lessons.Service) LessonService {
	return &LessonServiceImpl{lessons: lessonService}
}

func (s *LessonServiceImpl) GetLesson(ctx context.Context, id int64) (*dto.LessonResponse, error) {
	lesson, err := s.lessons.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToLessonResponse(lesson), nil
}

func (s *LessonServiceImpl) ListLessons(ctx context.Context, query dto.ListLessonsQuery) (*dto.LessonListResponse, error) {
	items, err := s.lessons.List(ctx, query.Filter())
	if err != nil {
		return nil, err
	}
	return &dto.LessonListResponse{Lessons: items, Count: len(items)}, nil
}

func (s *LessonServiceImpl) UpdateLessonStatus(ctx context.Context, id int64, req *dto.UpdateLessonStatusRequest) (*dto.LessonResponse, error) {
	lesson, err := s.lessons.UpdateStatus(ctx, id, model.LessonStatus(req.Status))
	if err != nil {
		return nil, err
	}
	return dto.ToLessonResponse(lesson), nil
}

func (s *LessonServiceImpl) AttachTags(ctx context.Context, id int64, req *dto.AttachTagsRequest) (*dto.LessonResponse, error) {
	lesson, err := s.lessons.AttachTags(ctx, id, req.Tags)
	if err != nil {
		return nil, err
	}
	return dto.ToLessonResponse(lesson), nil
}
