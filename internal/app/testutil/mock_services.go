package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"plumberf/internal/api/v1/dto"
	"plumberf/internal/app/model"
)

// MockServices contains all mock services for testing
type MockServices struct {
	JobVideoService *MockJobVideoService
	LessonService   *MockLessonService
	CatalogService  *MockCatalogService
}

// NewMockServices creates a new instance of mock services
func NewMockServices(t *testing.T) *MockServices {
	return &MockServices{
		JobVideoService: NewMockJobVideoService(t),
		LessonService:   NewMockLessonService(t),
		CatalogService:  NewMockCatalogService(t),
	}
}

// AssertExpectations checks every mock's expectations.
func (ms *MockServices) AssertExpectations(t *testing.T) {
	ms.JobVideoService.AssertExpectations(t)
	ms.LessonService.AssertExpectations(t)
	ms.CatalogService.AssertExpectations(t)
}

// MockJobVideoService is a mock implementation of JobVideoService
type MockJobVideoService struct {
	mock.Mock
}

func NewMockJobVideoService(t *testing.T) *MockJobVideoService {
	m := &MockJobVideoService{}
	m.Test(t)
	return m
}

func (m *MockJobVideoService) InitiateUpload(ctx context.Context, uploaderID int64, req *dto.InitiateUploadRequest) (*dto.InitiateUploadResponse, error) {
	args := m.Called(ctx, uploaderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.InitiateUploadResponse), args.Error(1)
}

func (m *MockJobVideoService) ConfirmUpload(ctx context.Context, id int64, req *dto.ConfirmUploadRequest) (*dto.JobVideoResponse, error) {
	args := m.Called(ctx, id, req)
	return jobVideoResult(args)
}

func (m *MockJobVideoService) CreateJobVideo(ctx context.Context, uploaderID int64, req *dto.CreateJobVideoRequest) (*dto.JobVideoResponse, error) {
	args := m.Called(ctx, uploaderID, req)
	return jobVideoResult(args)
}

func (m *MockJobVideoService) GetJobVideo(ctx context.Context, id int64) (*dto.JobVideoResponse, error) {
	args := m.Called(ctx, id)
	return jobVideoResult(args)
}

func (m *MockJobVideoService) ListJobVideos(ctx context.Context, query dto.ListJobVideosQuery) (*dto.PaginatedJobVideosResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedJobVideosResponse), args.Error(1)
}

func (m *MockJobVideoService) DeleteJobVideo(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJobVideoService) RetryJobVideo(ctx context.Context, id int64) (*dto.JobVideoResponse, error) {
	args := m.Called(ctx, id)
	return jobVideoResult(args)
}

func (m *MockJobVideoService) GetJobVideoLesson(ctx context.Context, id int64) (*dto.LessonResponse, error) {
	args := m.Called(ctx, id)
	return lessonResult(args)
}

// MockLessonService is a mock implementation of LessonService
type MockLessonService struct {
	mock.Mock
}

func NewMockLessonService(t *testing.T) *MockLessonService {
	m := &MockLessonService{}
	m.Test(t)
	return m
}

func (m *MockLessonService) GetLesson(ctx context.Context, id int64) (*dto.LessonResponse, error) {
	args := m.Called(ctx, id)
	return lessonResult(args)
}

func (m *MockLessonService) ListLessons(ctx context.Context, query dto.ListLessonsQuery) (*dto.LessonListResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LessonListResponse), args.Error(1)
}

func (m *MockLessonService) UpdateLessonStatus(ctx context.Context, id int64, req *dto.UpdateLessonStatusRequest) (*dto.LessonResponse, error) {
	args := m.Called(ctx, id, req)
	return lessonResult(args)
}

func (m *MockLessonService) AttachTags(ctx context.Context, id int64, req *dto.AttachTagsRequest) (*dto.LessonResponse, error) {
	args := m.Called(ctx, id, req)
	return lessonResult(args)
}

// MockCatalogService is a mock implementation of CatalogService
type MockCatalogService struct {
	mock.Mock
}

func NewMockCatalogService(t *testing.T) *MockCatalogService {
	m := &MockCatalogService{}
	m.Test(t)
	return m
}

func (m *MockCatalogService) CreateTrade(ctx context.Context, req *dto.CreateTradeRequest) (*model.Trade, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trade), args.Error(1)
}

func (m *MockCatalogService) GetTrade(ctx context.Context, slug string) (*model.Trade, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Trade), args.Error(1)
}

func (m *MockCatalogService) ListTrades(ctx context.Context) ([]model.Trade, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Trade), args.Error(1)
}

func (m *MockCatalogService) CreateTool(ctx context.Context, req *dto.CreateTermRequest) (*model.Tool, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tool), args.Error(1)
}

func (m *MockCatalogService) ListTools(ctx context.Context, query dto.VocabularyQuery) ([]model.Tool, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tool), args.Error(1)
}

func (m *MockCatalogService) CreateMaterial(ctx context.Context, req *dto.CreateTermRequest) (*model.Material, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Material), args.Error(1)
}

func (m *MockCatalogService) ListMaterials(ctx context.Context, query dto.VocabularyQuery) ([]model.Material, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Material), args.Error(1)
}

func (m *MockCatalogService) CreateTag(ctx context.Context, req *dto.CreateTermRequest) (*model.Tag, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockCatalogService) ListTags(ctx context.Context, query dto.VocabularyQuery) ([]model.Tag, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func jobVideoResult(args mock.Arguments) (*dto.JobVideoResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.JobVideoResponse), args.Error(1)
}

func lessonResult(args mock.Arguments) (*dto.LessonResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LessonResponse), args.Error(1)
}
