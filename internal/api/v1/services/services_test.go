package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"plumberf/internal/api/v1/dto"
	"plumberf/internal/api/v1/services"
	"plumberf/internal/app/catalog"
	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/lessons"
	"plumberf/internal/app/lifecycle"
	"plumberf/internal/app/metrics"
	"plumberf/internal/app/model"
	"plumberf/internal/app/queue"
	"plumberf/internal/app/testutil"
)

type fixture struct {
	coord    *lifecycle.Coordinator
	videos   services.JobVideoService
	lessons  services.LessonService
	catalog  services.CatalogService
	tradeID  int64
	messages *queue.MemoryQueue
}

func newFixture(t *testing.T) *fixture {
	store := testutil.SetupTestSQLite(t)
	logger := zaptest.NewLogger(t)
	q := queue.NewMemoryQueue(10, nil)
	coord := lifecycle.NewCoordinator(store, testutil.NewMockStorage(), q, metrics.New(), logger)
	lessonSvc := lessons.NewService(store, logger)

	f := &fixture{
		coord:    coord,
		videos:   services.NewJobVideoService(coord, lessonSvc, logger),
		lessons:  services.NewLessonService(lessonSvc),
		catalog:  services.NewCatalogService(catalog.NewService(store, logger)),
		messages: q,
	}
	trade, err := f.catalog.CreateTrade(context.Background(), &dto.CreateTradeRequest{Name: "Plumbing", Slug: "plumbing"})
	require.NoError(t, err)
	f.tradeID = trade.ID
	return f
}

func TestJobVideoService_ProcessedVideoIncludesLesson(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.videos.CreateJobVideo(ctx, 1, &dto.CreateJobVideoRequest{TradeID: f.tradeID, FileURL: "s3://job-videos/1.mp4"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusUploaded, created.Status)
	assert.Nil(t, created.Lesson)

	_, ok, err := f.coord.ClaimForProcessing(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = f.coord.CompleteProcessing(ctx, created.ID, testutil.SinkDraft())
	require.NoError(t, err)

	got, err := f.videos.GetJobVideo(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessed, got.Status)
	require.NotNil(t, got.Lesson)
	require.Len(t, got.Lesson.Steps, 3)
	for i, step := range got.Lesson.Steps {
		assert.Equal(t, i+1, step.StepNumber)
	}
	assert.ElementsMatch(t, []string{"PTFE tape", "1-1/2 in P-trap"}, got.Lesson.Steps[2].Materials)
	require.NotNil(t, got.Lesson.Transcript)

	direct, err := f.videos.GetJobVideoLesson(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Lesson.ID, direct.ID)
}

func TestJobVideoService_UnprocessedVideoHasNoLesson(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.videos.InitiateUpload(ctx, 3, &dto.InitiateUploadRequest{TradeID: f.tradeID, FileExtension: "mp4"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.UploadURL)
	assert.Equal(t, int64(3), res.JobVideo.UploaderID)

	_, err = f.videos.GetJobVideoLesson(ctx, res.JobVideoID)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.videos.GetJobVideo(ctx, 12345)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestJobVideoService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.videos.InitiateUpload(ctx, 1, &dto.InitiateUploadRequest{TradeID: f.tradeID, FileExtension: "mov"})
		require.NoError(t, err)
	}

	page, err := f.videos.ListJobVideos(ctx, dto.ListJobVideosQuery{Status: "upload_pending", Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.JobVideos, 2)
	assert.Equal(t, 3, page.Pagination.Total)

	page, err = f.videos.ListJobVideos(ctx, dto.ListJobVideosQuery{Status: "processed", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, page.JobVideos)
}

func TestLessonService_StatusAndTags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.videos.CreateJobVideo(ctx, 1, &dto.CreateJobVideoRequest{TradeID: f.tradeID, FileURL: "s3://job-videos/2.mp4"})
	require.NoError(t, err)
	_, _, err = f.coord.ClaimForProcessing(ctx, created.ID)
	require.NoError(t, err)
	detail, err := f.coord.CompleteProcessing(ctx, created.ID, testutil.SinkDraft())
	require.NoError(t, err)

	updated, err := f.lessons.UpdateLessonStatus(ctx, detail.ID, &dto.UpdateLessonStatusRequest{Status: "ready"})
	require.NoError(t, err)
	assert.Equal(t, model.LessonStatusReady, updated.Status)

	tagged, err := f.lessons.AttachTags(ctx, detail.ID, &dto.AttachTagsRequest{Tags: []string{"Sink", "trap"}})
	require.NoError(t, err)
	names := make([]string, 0, len(tagged.Tags))
	for _, tag := range tagged.Tags {
		names = append(names, tag.Name)
	}
	assert.ElementsMatch(t, []string{"sink", "drain", "trap"}, names)

	list, err := f.lessons.ListLessons(ctx, dto.ListLessonsQuery{TradeID: f.tradeID, Status: "ready", Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Count)
}
