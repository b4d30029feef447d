// Package lifecycle owns the job video state machine:
//
//	upload_pending -> uploaded -> processing -> processed | failed
//	failed -> uploaded (retry)
//
// Every transition is a conditional update on the current status, so callers
// in separate processes can race safely.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/metrics"
	"plumberf/internal/app/model"
	"plumberf/internal/app/queue"
	"plumberf/internal/app/repository"
	"plumberf/internal/app/storage/upload"
)

const maxErrorMessageLen = 2000

// ErrNotQueued is returned when a transition succeeded but the job video
// could not be handed to the work queue. The row stays uploaded and can be
// requeued.
var ErrNotQueued = errors.New("job video not queued")

// InitiateParams describes an upload the client is about to make.
type InitiateParams struct {
	UploaderID    int64
	TradeID       int64
	FileExtension string
	Metadata      model.JobVideoMetadata
}

// InitiateResult is the pending job video and where to put its bytes.
type InitiateResult struct {
	JobVideo *model.JobVideo
	Upload   *upload.Target
}

// CreateParams registers a job video directly. With a FileURL the video is
// considered uploaded and is queued at once.
type CreateParams struct {
	UploaderID int64
	TradeID    int64
	FileURL    string
	Metadata   model.JobVideoMetadata
}

// Coordinator drives job videos through their lifecycle.
type Coordinator struct {
	store   *repository.Store
	storage upload.Allocator
	queue   queue.Queue
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewCoordinator creates a coordinator.
func NewCoordinator(store *repository.Store, storage upload.Allocator, q queue.Queue, m *metrics.Metrics, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{store: store, storage: storage, queue: q, metrics: m, logger: logger}
}

// InitiateUpload creates a pending job video and allocates its upload target.
func (c *Coordinator) InitiateUpload(ctx context.Context, p InitiateParams) (*InitiateResult, error) {
	ext, ok := upload.NormalizeExtension(p.FileExtension)
	if !ok {
		return nil, apperrors.InvalidField("file_extension", "must be 1-10 letters or digits")
	}
	if err := c.checkNew(ctx, p.TradeID, p.Metadata); err != nil {
		return nil, err
	}

	filename := "pending_upload." + ext
	jv := newJobVideo(p.UploaderID, p.TradeID, p.Metadata)
	jv.Status = model.StatusUploadPending
	jv.OriginalFilename = &filename
	if err := c.store.CreateJobVideo(ctx, jv); err != nil {
		return nil, err
	}

	target, err := c.storage.AllocateUploadTarget(ctx, jv.ID, ext)
	if err != nil {
		if _, derr := c.store.DeleteJobVideo(context.WithoutCancel(ctx), jv.ID); derr != nil {
			c.logger.Error("failed to remove job video without upload target", zap.Int64("job_video_id", jv.ID), zap.Error(derr))
		}
		return nil, fmt.Errorf("allocate upload target for job video %d: %w", jv.ID, err)
	}

	c.logger.Info("upload initiated", zap.Int64("job_video_id", jv.ID), zap.Int64("trade_id", jv.TradeID))
	return &InitiateResult{JobVideo: jv, Upload: target}, nil
}

// ConfirmUpload records where the bytes landed and queues the video.
func (c *Coordinator) ConfirmUpload(ctx context.Context, id int64, fileURL string) (*model.JobVideo, error) {
	fileURL = strings.TrimSpace(fileURL)
	if fileURL == "" {
		return nil, apperrors.InvalidField("file_url", "is required")
	}

	current, err := c.store.GetJobVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != model.StatusUploadPending {
		return nil, apperrors.InvalidState("job video", id, current.Status, model.StatusUploaded)
	}

	found, err := c.storage.Confirm(ctx, id, fileURL)
	if err != nil {
		return nil, fmt.Errorf("confirm upload of job video %d: %w", id, err)
	}
	if !found {
		return nil, apperrors.InvalidField("file_url", "no uploaded object found")
	}

	filename := upload.BaseName(fileURL)
	jv, err := c.transition(ctx, c.store, id, repository.Transition{
		From:             model.StatusUploadPending,
		To:               model.StatusUploaded,
		FileURL:          &fileURL,
		OriginalFilename: &filename,
	})
	if err != nil {
		return nil, err
	}
	return jv, c.enqueue(ctx, id, queue.ReasonUploaded)
}

// CreateJobVideo registers a job video without the initiate/confirm handshake.
func (c *Coordinator) CreateJobVideo(ctx context.Context, p CreateParams) (*model.JobVideo, error) {
	if err := c.checkNew(ctx, p.TradeID, p.Metadata); err != nil {
		return nil, err
	}

	jv := newJobVideo(p.UploaderID, p.TradeID, p.Metadata)
	jv.FileURL = strings.TrimSpace(p.FileURL)
	jv.Status = model.StatusUploadPending
	if jv.FileURL != "" {
		filename := upload.BaseName(jv.FileURL)
		jv.Status = model.StatusUploaded
		jv.OriginalFilename = &filename
	}
	if err := c.store.CreateJobVideo(ctx, jv); err != nil {
		return nil, err
	}
	c.logger.Info("job video created", zap.Int64("job_video_id", jv.ID), zap.String("status", jv.Status.String()))

	if jv.Status == model.StatusUploaded {
		return jv, c.enqueue(ctx, jv.ID, queue.ReasonUploaded)
	}
	return jv, nil
}

// ClaimForProcessing grants the caller exclusive processing rights. A lost
// race is not an error: it returns false with a nil job video.
func (c *Coordinator) ClaimForProcessing(ctx context.Context, id int64) (*model.JobVideo, bool, error) {
	won, err := c.store.TransitionJobVideo(ctx, id, repository.Transition{
		From: model.StatusUploaded,
		To:   model.StatusProcessing,
	})
	if err != nil {
		return nil, false, fmt.Errorf("claim job video %d: %w", id, err)
	}
	c.metrics.Claim(won)
	if !won {
		current, err := c.store.GetJobVideo(ctx, id)
		if err != nil {
			return nil, false, err
		}
		c.logger.Debug("claim lost", zap.Int64("job_video_id", id), zap.String("status", current.Status.String()))
		return nil, false, nil
	}
	c.metrics.Transition(model.StatusUploaded.String(), model.StatusProcessing.String())

	jv, err := c.store.GetJobVideo(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return jv, true, nil
}

// CompleteProcessing persists the lesson built from draft and marks the job
// video processed, all in one transaction.
func (c *Coordinator) CompleteProcessing(ctx context.Context, id int64, draft *model.LessonDraft) (*model.LessonDetail, error) {
	if draft == nil {
		return nil, apperrors.Validation("lesson draft is required", nil)
	}
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	var lessonID int64
	err := c.store.WithTx(ctx, func(tx *repository.Store) error {
		ok, err := tx.TransitionJobVideo(ctx, id, repository.Transition{
			From:        model.StatusProcessing,
			To:          model.StatusProcessed,
			DurationSec: draft.DurationSec,
		})
		if err != nil {
			return fmt.Errorf("complete job video %d: %w", id, err)
		}
		if !ok {
			return c.rejected(ctx, tx, id, model.StatusProcessed)
		}

		jv, err := tx.GetJobVideo(ctx, id)
		if err != nil {
			return err
		}
		lessonID, err = tx.CreateLesson(ctx, jv, draft)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.metrics.Transition(model.StatusProcessing.String(), model.StatusProcessed.String())
	c.logger.Info("job video processed", zap.Int64("job_video_id", id), zap.Int64("lesson_id", lessonID), zap.Int("steps", len(draft.Steps)))

	return c.store.GetLesson(ctx, lessonID)
}

// FailProcessing records a processing failure on the job video.
func (c *Coordinator) FailProcessing(ctx context.Context, id int64, message string) (*model.JobVideo, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "processing failed"
	}
	if r := []rune(message); len(r) > maxErrorMessageLen {
		message = string(r[:maxErrorMessageLen])
	}

	jv, err := c.transition(ctx, c.store, id, repository.Transition{
		From:         model.StatusProcessing,
		To:           model.StatusFailed,
		ErrorMessage: message,
	})
	if err != nil {
		return nil, err
	}
	c.logger.Warn("job video failed", zap.Int64("job_video_id", id), zap.String("error_message", message))
	return jv, nil
}

// Retry returns a failed job video to uploaded, clears its error and queues it.
func (c *Coordinator) Retry(ctx context.Context, id int64) (*model.JobVideo, error) {
	jv, err := c.transition(ctx, c.store, id, repository.Transition{
		From: model.StatusFailed,
		To:   model.StatusUploaded,
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("job video retried", zap.Int64("job_video_id", id), zap.Int("attempts", jv.Attempts))
	return jv, c.enqueue(ctx, id, queue.ReasonRetry)
}

// Requeue offers an uploaded job video to the work queue again, e.g. after
// an earlier enqueue failed.
func (c *Coordinator) Requeue(ctx context.Context, id int64) (*model.JobVideo, error) {
	jv, err := c.store.GetJobVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if jv.Status != model.StatusUploaded {
		return nil, apperrors.InvalidState("job video", id, jv.Status, model.StatusProcessing)
	}
	return jv, c.enqueue(ctx, id, queue.ReasonRequeue)
}

// Get returns one job video.
func (c *Coordinator) Get(ctx context.Context, id int64) (*model.JobVideo, error) {
	return c.store.GetJobVideo(ctx, id)
}

// List returns a page of job videos and the total count.
func (c *Coordinator) List(ctx context.Context, filter model.JobVideoFilter) ([]model.JobVideo, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperrors.InvalidField("status", fmt.Sprintf("unknown status %q", filter.Status))
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return c.store.ListJobVideos(ctx, filter)
}

// Delete removes a job video together with its lesson.
func (c *Coordinator) Delete(ctx context.Context, id int64) error {
	deleted, err := c.store.DeleteJobVideo(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound("job video", id)
	}
	c.logger.Info("job video deleted", zap.Int64("job_video_id", id))
	return nil
}

func (c *Coordinator) transition(ctx context.Context, store *repository.Store, id int64, t repository.Transition) (*model.JobVideo, error) {
	ok, err := store.TransitionJobVideo(ctx, id, t)
	if err != nil {
		return nil, fmt.Errorf("job video %d %s -> %s: %w", id, t.From, t.To, err)
	}
	if !ok {
		return nil, c.rejected(ctx, store, id, t.To)
	}
	c.metrics.Transition(t.From.String(), t.To.String())
	return store.GetJobVideo(ctx, id)
}

// rejected explains why a conditional update matched no row.
func (c *Coordinator) rejected(ctx context.Context, store *repository.Store, id int64, to model.JobVideoStatus) error {
	current, err := store.GetJobVideo(ctx, id)
	if err != nil {
		return err
	}
	return apperrors.InvalidState("job video", id, current.Status, to)
}

func (c *Coordinator) enqueue(ctx context.Context, id int64, reason string) error {
	err := c.queue.Enqueue(ctx, queue.NewMessage(id, reason))
	c.metrics.Enqueued(reason, err)
	if err != nil {
		c.logger.Error("failed to enqueue job video", zap.Int64("job_video_id", id), zap.String("reason", reason), zap.Error(err))
		return fmt.Errorf("%w: job video %d: %v", ErrNotQueued, id, err)
	}
	c.logger.Debug("job video enqueued", zap.Int64("job_video_id", id), zap.String("reason", reason))
	return nil
}

func (c *Coordinator) checkNew(ctx context.Context, tradeID int64, meta model.JobVideoMetadata) error {
	if tradeID <= 0 {
		return apperrors.InvalidField("trade_id", "is required")
	}
	if meta.DifficultyLevel != nil && (*meta.DifficultyLevel < 1 || *meta.DifficultyLevel > 5) {
		return apperrors.InvalidField("difficulty_level", "must be between 1 and 5")
	}
	if _, err := c.store.GetTrade(ctx, tradeID); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.InvalidField("trade_id", fmt.Sprintf("trade %d does not exist", tradeID))
		}
		return err
	}
	return nil
}

func newJobVideo(uploaderID, tradeID int64, meta model.JobVideoMetadata) *model.JobVideo {
	if uploaderID <= 0 {
		uploaderID = 1
	}
	return &model.JobVideo{
		UploaderID:      uploaderID,
		TradeID:         tradeID,
		JobTypeFreeText: trimmed(meta.JobTypeFreeText),
		LocationType:    trimmed(meta.LocationType),
		DifficultyLevel: meta.DifficultyLevel,
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
