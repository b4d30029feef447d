package lifecycle_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/lifecycle"
	"plumberf/internal/app/metrics"
	"plumberf/internal/app/model"
	"plumberf/internal/app/queue"
	"plumberf/internal/app/repository"
	"plumberf/internal/app/testutil"
)

type CoordinatorSuite struct {
	suite.Suite
	ctx     context.Context
	store   *repository.Store
	storage *testutil.MockStorage
	queue   *queue.MemoryQueue
	flaky   *testutil.FlakyQueue
	coord   *lifecycle.Coordinator
	trade   *model.Trade
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = testutil.SetupTestSQLite(s.T())
	s.storage = testutil.NewMockStorage()
	s.queue = queue.NewMemoryQueue(50, nil)
	s.flaky = testutil.NewFlakyQueue(s.queue)
	s.coord = lifecycle.NewCoordinator(s.store, s.storage, s.flaky, metrics.New(), zaptest.NewLogger(s.T()))
	s.trade = testutil.SeedTrade(s.T(), s.store, "plumbing")
}

func (s *CoordinatorSuite) initiate() *model.JobVideo {
	res, err := s.coord.InitiateUpload(s.ctx, lifecycle.InitiateParams{
		UploaderID:    1,
		TradeID:       s.trade.ID,
		FileExtension: "mp4",
	})
	s.Require().NoError(err)
	return res.JobVideo
}

func (s *CoordinatorSuite) uploaded() *model.JobVideo {
	jv := s.initiate()
	jv, err := s.coord.ConfirmUpload(s.ctx, jv.ID, "s3://x/1.mp4")
	s.Require().NoError(err)
	return jv
}

func (s *CoordinatorSuite) processing() *model.JobVideo {
	jv := s.uploaded()
	claimed, ok, err := s.coord.ClaimForProcessing(s.ctx, jv.ID)
	s.Require().NoError(err)
	s.Require().True(ok)
	return claimed
}

func (s *CoordinatorSuite) status(id int64) model.JobVideoStatus {
	jv, err := s.coord.Get(s.ctx, id)
	s.Require().NoError(err)
	return jv.Status
}

func (s *CoordinatorSuite) depth() int64 {
	n, err := s.queue.Depth(s.ctx)
	s.Require().NoError(err)
	return n
}

func (s *CoordinatorSuite) TestInitiateUpload_CreatesPendingJobVideo() {
	res, err := s.coord.InitiateUpload(s.ctx, lifecycle.InitiateParams{
		UploaderID:    7,
		TradeID:       s.trade.ID,
		FileExtension: ".MP4",
		Metadata: model.JobVideoMetadata{
			JobTypeFreeText: testutil.StringPtr(" kitchen sink trap "),
			DifficultyLevel: testutil.IntPtr(2),
		},
	})
	s.Require().NoError(err)

	jv := res.JobVideo
	s.Equal(model.StatusUploadPending, jv.Status)
	s.Empty(jv.FileURL)
	s.Nil(jv.ErrorMessage)
	s.Equal(int64(7), jv.UploaderID)
	s.Equal("kitchen sink trap", *jv.JobTypeFreeText)
	s.Equal("pending_upload.mp4", *jv.OriginalFilename)
	s.Contains(res.Upload.URL, fmt.Sprintf("job_videos/%d.mp4", jv.ID))

	_, total, err := s.coord.List(s.ctx, model.JobVideoFilter{})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Zero(s.depth(), "nothing is queued before the upload is confirmed")
}

func (s *CoordinatorSuite) TestInitiateUpload_Validation() {
	tests := []struct {
		name  string
		p     lifecycle.InitiateParams
		field string
	}{
		{name: "unknown trade", p: lifecycle.InitiateParams{TradeID: 999, FileExtension: "mp4"}, field: "trade_id"},
		{name: "missing trade", p: lifecycle.InitiateParams{FileExtension: "mp4"}, field: "trade_id"},
		{name: "bad extension", p: lifecycle.InitiateParams{TradeID: s.trade.ID, FileExtension: "../mp4"}, field: "file_extension"},
		{
			name:  "difficulty out of range",
			p:     lifecycle.InitiateParams{TradeID: s.trade.ID, FileExtension: "mp4", Metadata: model.JobVideoMetadata{DifficultyLevel: testutil.IntPtr(9)}},
			field: "difficulty_level",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.coord.InitiateUpload(s.ctx, tt.p)
			s.Require().Error(err)
			s.True(apperrors.IsValidation(err))

			var appErr *apperrors.Error
			s.Require().True(errors.As(err, &appErr))
			s.Contains(appErr.Fields(), tt.field)
		})
	}

	_, total, err := s.coord.List(s.ctx, model.JobVideoFilter{})
	s.Require().NoError(err)
	s.Zero(total)
}

func (s *CoordinatorSuite) TestInitiateUpload_AllocationFailureLeavesNoRow() {
	s.storage.WithAllocateError(errors.New("bucket unreachable"))

	_, err := s.coord.InitiateUpload(s.ctx, lifecycle.InitiateParams{TradeID: s.trade.ID, FileExtension: "mp4"})
	s.Require().ErrorContains(err, "bucket unreachable")

	_, total, err := s.coord.List(s.ctx, model.JobVideoFilter{})
	s.Require().NoError(err)
	s.Zero(total)
}

func (s *CoordinatorSuite) TestConfirmUpload_SecondCallIsInvalidState() {
	jv := s.initiate()

	confirmed, err := s.coord.ConfirmUpload(s.ctx, jv.ID, "s3://x/1.mp4")
	s.Require().NoError(err)
	s.Equal(model.StatusUploaded, confirmed.Status)
	s.Equal("s3://x/1.mp4", confirmed.FileURL)
	s.Equal("1.mp4", *confirmed.OriginalFilename)
	s.Equal(int64(1), s.depth())

	_, err = s.coord.ConfirmUpload(s.ctx, jv.ID, "s3://x/1.mp4")
	s.True(apperrors.IsInvalidState(err))
	s.Equal(int64(1), s.depth(), "a rejected confirm must not enqueue")
}

func (s *CoordinatorSuite) TestConfirmUpload_Errors() {
	_, err := s.coord.ConfirmUpload(s.ctx, 4242, "s3://x/1.mp4")
	s.True(apperrors.IsNotFound(err))

	jv := s.initiate()
	_, err = s.coord.ConfirmUpload(s.ctx, jv.ID, "   ")
	s.True(apperrors.IsValidation(err))

	s.storage.WithMissing("s3://x/missing.mp4")
	_, err = s.coord.ConfirmUpload(s.ctx, jv.ID, "s3://x/missing.mp4")
	s.True(apperrors.IsValidation(err))
	s.Equal(model.StatusUploadPending, s.status(jv.ID))
	s.Zero(s.depth())
}

func (s *CoordinatorSuite) TestConfirmUpload_EnqueueFailureKeepsTransition() {
	jv := s.initiate()
	s.flaky.FailNext(1)

	confirmed, err := s.coord.ConfirmUpload(s.ctx, jv.ID, "s3://x/1.mp4")
	s.Require().Error(err)
	s.ErrorIs(err, lifecycle.ErrNotQueued)
	s.Require().NotNil(confirmed)
	s.Equal(model.StatusUploaded, s.status(jv.ID))
	s.Zero(s.depth())

	_, err = s.coord.Requeue(s.ctx, jv.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), s.depth())
}

func (s *CoordinatorSuite) TestRequeue_OnlyFromUploaded() {
	jv := s.processing()
	_, err := s.coord.Requeue(s.ctx, jv.ID)
	s.True(apperrors.IsInvalidState(err))

	_, err = s.coord.Requeue(s.ctx, 777)
	s.True(apperrors.IsNotFound(err))
}

func (s *CoordinatorSuite) TestClaimForProcessing_IsExclusive() {
	jv := s.uploaded()

	const workers = 10
	var wins int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, ok, err := s.coord.ClaimForProcessing(s.ctx, jv.ID)
			if err != nil {
				s.T().Errorf("claim: %v", err)
				return
			}
			if ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	s.Equal(int32(1), wins)
	got, err := s.coord.Get(s.ctx, jv.ID)
	s.Require().NoError(err)
	s.Equal(model.StatusProcessing, got.Status)
	s.Equal(1, got.Attempts)
}

func (s *CoordinatorSuite) TestClaimForProcessing_LostRaceIsNotAnError() {
	jv := s.processing()

	claimed, ok, err := s.coord.ClaimForProcessing(s.ctx, jv.ID)
	s.NoError(err)
	s.False(ok)
	s.Nil(claimed)

	_, _, err = s.coord.ClaimForProcessing(s.ctx, 31337)
	s.True(apperrors.IsNotFound(err))
}

func (s *CoordinatorSuite) TestCompleteProcessing_RequiresProcessing() {
	for _, status := range []model.JobVideoStatus{model.StatusUploadPending, model.StatusUploaded, model.StatusProcessed, model.StatusFailed} {
		s.Run(status.String(), func() {
			jv := testutil.SeedJobVideo(s.T(), s.store, s.trade.ID, status)

			_, err := s.coord.CompleteProcessing(s.ctx, jv.ID, testutil.SinkDraft())
			s.True(apperrors.IsInvalidState(err), "got %v", err)
			s.Equal(status, s.status(jv.ID))

			_, err = s.store.GetLessonByJobVideo(s.ctx, jv.ID)
			s.True(apperrors.IsNotFound(err), "no lesson may be written")
		})
	}
}

func (s *CoordinatorSuite) TestCompleteProcessing_RejectsInvalidDraft() {
	jv := s.processing()

	draft := testutil.SinkDraft()
	draft.Steps[1].EndTimeSec = testutil.IntPtr(10)
	_, err := s.coord.CompleteProcessing(s.ctx, jv.ID, draft)
	s.True(apperrors.IsValidation(err))
	s.Equal(model.StatusProcessing, s.status(jv.ID))

	_, err = s.coord.CompleteProcessing(s.ctx, jv.ID, &model.LessonDraft{Title: "empty"})
	s.True(apperrors.IsValidation(err))

	_, err = s.coord.CompleteProcessing(s.ctx, jv.ID, nil)
	s.True(apperrors.IsValidation(err))
}

func (s *CoordinatorSuite) TestCompleteProcessing_NumbersStepsFromOne() {
	jv := s.processing()

	draft := testutil.SinkDraft()
	// Out of order on purpose; steps are numbered by start time.
	draft.Steps[0], draft.Steps[2] = draft.Steps[2], draft.Steps[0]

	lesson, err := s.coord.CompleteProcessing(s.ctx, jv.ID, draft)
	s.Require().NoError(err)
	s.Require().Len(lesson.Steps, 3)
	for i, step := range lesson.Steps {
		s.Equal(i+1, step.StepNumber)
	}
	s.Equal("Shut off and drain", lesson.Steps[0].Title)
	s.Equal("Fit the new trap", lesson.Steps[2].Title)
}

func (s *CoordinatorSuite) TestFailProcessing() {
	jv := s.uploaded()
	_, err := s.coord.FailProcessing(s.ctx, jv.ID, "boom")
	s.True(apperrors.IsInvalidState(err), "only processing can fail")

	claimed, ok, err := s.coord.ClaimForProcessing(s.ctx, jv.ID)
	s.Require().NoError(err)
	s.Require().True(ok)

	failed, err := s.coord.FailProcessing(s.ctx, claimed.ID, "  ")
	s.Require().NoError(err)
	s.Equal(model.StatusFailed, failed.Status)
	s.Equal("processing failed", *failed.ErrorMessage)
}

func (s *CoordinatorSuite) TestRetry_OnlyFromFailed() {
	for _, status := range []model.JobVideoStatus{model.StatusUploadPending, model.StatusUploaded, model.StatusProcessing, model.StatusProcessed} {
		jv := testutil.SeedJobVideo(s.T(), s.store, s.trade.ID, status)
		_, err := s.coord.Retry(s.ctx, jv.ID)
		s.True(apperrors.IsInvalidState(err), "retry from %s", status)
		s.Equal(status, s.status(jv.ID))
	}

	_, err := s.coord.Retry(s.ctx, 9999)
	s.True(apperrors.IsNotFound(err))
}

func (s *CoordinatorSuite) TestCreateJobVideo() {
	pending, err := s.coord.CreateJobVideo(s.ctx, lifecycle.CreateParams{TradeID: s.trade.ID})
	s.Require().NoError(err)
	s.Equal(model.StatusUploadPending, pending.Status)
	s.Equal(int64(1), pending.UploaderID)
	s.Zero(s.depth())

	uploaded, err := s.coord.CreateJobVideo(s.ctx, lifecycle.CreateParams{
		UploaderID: 3,
		TradeID:    s.trade.ID,
		FileURL:    "https://cdn.example.com/videos/trap.mov",
		Metadata:   model.JobVideoMetadata{LocationType: testutil.StringPtr("residential")},
	})
	s.Require().NoError(err)
	s.Equal(model.StatusUploaded, uploaded.Status)
	s.Equal("trap.mov", *uploaded.OriginalFilename)
	s.Equal("residential", *uploaded.LocationType)
	s.Equal(int64(1), s.depth())

	_, err = s.coord.CreateJobVideo(s.ctx, lifecycle.CreateParams{TradeID: 404})
	s.True(apperrors.IsValidation(err))
}

func (s *CoordinatorSuite) TestListAndDelete() {
	first := s.initiate()
	second := s.uploaded()

	videos, total, err := s.coord.List(s.ctx, model.JobVideoFilter{Status: model.StatusUploaded})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(videos, 1)
	s.Equal(second.ID, videos[0].ID)

	_, _, err = s.coord.List(s.ctx, model.JobVideoFilter{Status: "archived"})
	s.True(apperrors.IsValidation(err))

	s.Require().NoError(s.coord.Delete(s.ctx, first.ID))
	_, err = s.coord.Get(s.ctx, first.ID)
	s.True(apperrors.IsNotFound(err))
	s.True(apperrors.IsNotFound(s.coord.Delete(s.ctx, first.ID)))
}

// InitiateUpload -> ConfirmUpload -> Claim -> Complete -> Get.
func (s *CoordinatorSuite) TestEndToEnd_Success() {
	res, err := s.coord.InitiateUpload(s.ctx, lifecycle.InitiateParams{TradeID: s.trade.ID, FileExtension: "mp4"})
	s.Require().NoError(err)
	id := res.JobVideo.ID

	_, err = s.coord.ConfirmUpload(s.ctx, id, "s3://x/1.mp4")
	s.Require().NoError(err)
	_, ok, err := s.coord.ClaimForProcessing(s.ctx, id)
	s.Require().NoError(err)
	s.Require().True(ok)
	_, err = s.coord.CompleteProcessing(s.ctx, id, testutil.SinkDraft())
	s.Require().NoError(err)

	jv, err := s.coord.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.StatusProcessed, jv.Status)
	s.Nil(jv.ErrorMessage)
	s.Equal(312, *jv.DurationSec)

	lesson, err := s.store.GetLessonByJobVideo(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(model.LessonStatusDraft, lesson.Status)
	s.Require().Len(lesson.Steps, 3)
	for i, step := range lesson.Steps {
		s.Equal(i+1, step.StepNumber)
	}
	s.Require().NotNil(lesson.Transcript)
}

// Same flow, but the pipeline reports a failure and an operator retries.
func (s *CoordinatorSuite) TestEndToEnd_FailureAndRetry() {
	jv := s.processing()

	failed, err := s.coord.FailProcessing(s.ctx, jv.ID, "ASR timeout")
	s.Require().NoError(err)
	s.Equal(model.StatusFailed, failed.Status)

	got, err := s.coord.Get(s.ctx, jv.ID)
	s.Require().NoError(err)
	s.Equal(model.StatusFailed, got.Status)
	s.Require().NotNil(got.ErrorMessage)
	s.Equal("ASR timeout", *got.ErrorMessage)

	before := s.depth()
	retried, err := s.coord.Retry(s.ctx, jv.ID)
	s.Require().NoError(err)
	s.Equal(model.StatusUploaded, retried.Status)
	s.Nil(retried.ErrorMessage)
	s.Equal(before+1, s.depth())

	_, ok, err := s.coord.ClaimForProcessing(s.ctx, jv.ID)
	s.Require().NoError(err)
	s.True(ok, "a retried video can be claimed again")
	again, err := s.coord.Get(s.ctx, jv.ID)
	s.Require().NoError(err)
	s.Equal(2, again.Attempts)
}

func TestNewCoordinator_NilLogger(t *testing.T) {
	store := testutil.SetupTestSQLite(t)
	c := lifecycle.NewCoordinator(store, testutil.NewMockStorage(), queue.NewMemoryQueue(1, nil), nil, nil)
	_, err := c.Get(context.Background(), 1)
	assert.True(t, apperrors.IsNotFound(err))
	require.NotNil(t, c)
}
