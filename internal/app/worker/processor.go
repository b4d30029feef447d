package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/lifecycle"
	"plumberf/internal/app/pipeline"
	"plumberf/internal/app/queue"
)

// Outcome is what happened to one job video message.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// Stats counts message outcomes since start.
type Stats struct {
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
	Skipped   int64 `json:"skipped"`
}

const (
	// DefaultDrainTimeout is how long a claimed job video keeps running after
	// the worker context is cancelled.
	DefaultDrainTimeout = 2 * time.Minute

	recordTimeout = 30 * time.Second
)

// Processor runs one claimed job video through the pipeline and records the result.
type Processor struct {
	coord    *lifecycle.Coordinator
	pipeline pipeline.Pipeline
	logger   *zap.Logger
	drain    time.Duration

	processed atomic.Int64
	failed    atomic.Int64
	skipped   atomic.Int64
}

// NewProcessor creates a processor.
func NewProcessor(coord *lifecycle.Coordinator, p pipeline.Pipeline, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{coord: coord, pipeline: p, logger: logger, drain: DefaultDrainTimeout}
}

// SetDrainTimeout changes how long in-flight work may continue after
// shutdown starts. Zero or less restores the default.
func (p *Processor) SetDrainTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultDrainTimeout
	}
	p.drain = d
}

// Handle is the queue.Handler of the worker pool.
func (p *Processor) Handle(ctx context.Context, msg queue.Message) error {
	_, err := p.Process(ctx, msg.JobVideoID)
	return err
}

// Process claims the job video and processes it. Losing the claim or finding
// the video deleted is not an error. Pipeline failures are recorded on the job
// video; an error is returned only when the outcome could not be stored.
//
// Once claimed, the job video is no longer bound to ctx: cancelling ctx gives
// the pipeline the drain timeout to finish, and the outcome is always stored,
// so shutdown never leaves a row in processing.
func (p *Processor) Process(ctx context.Context, id int64) (Outcome, error) {
	log := p.logger.With(zap.Int64("job_video_id", id))

	jv, claimed, err := p.coord.ClaimForProcessing(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			log.Warn("job video no longer exists")
			p.skipped.Add(1)
			return OutcomeSkipped, nil
		}
		return "", err
	}
	if !claimed {
		p.skipped.Add(1)
		return OutcomeSkipped, nil
	}

	in := pipeline.Input{
		JobVideoID: jv.ID,
		TradeID:    jv.TradeID,
		FileURL:    jv.FileURL,
	}
	if jv.JobTypeFreeText != nil {
		in.TitleHint = *jv.JobTypeFreeText
	}

	log.Info("processing job video", zap.String("file_url", jv.FileURL), zap.Int("attempt", jv.Attempts))
	runCtx, cancel := p.drainContext(ctx)
	draft, err := p.pipeline.Process(runCtx, in)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			log.Warn("job video interrupted by shutdown", zap.Error(err))
		}
		return p.fail(ctx, id, err)
	}

	recCtx, cancel := recordContext(ctx)
	defer cancel()
	lesson, err := p.coord.CompleteProcessing(recCtx, id, draft)
	if err != nil {
		if !apperrors.IsValidation(err) {
			log.Error("failed to store lesson", zap.Error(err))
		}
		return p.fail(ctx, id, err)
	}

	p.processed.Add(1)
	log.Info("job video processed", zap.Int64("lesson_id", lesson.ID), zap.Int("steps", len(lesson.Steps)))
	return OutcomeProcessed, nil
}

func (p *Processor) fail(ctx context.Context, id int64, cause error) (Outcome, error) {
	p.failed.Add(1)
	recCtx, cancel := recordContext(ctx)
	defer cancel()
	if _, err := p.coord.FailProcessing(recCtx, id, cause.Error()); err != nil {
		return OutcomeFailed, fmt.Errorf("record failure of job video %d (%v): %w", id, cause, err)
	}
	return OutcomeFailed, nil
}

// drainContext detaches from ctx and cancels p.drain after ctx is done.
func (p *Processor) drainContext(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(ctx, func() {
		timer := time.NewTimer(p.drain)
		defer timer.Stop()
		select {
		case <-timer.C:
			cancel()
		case <-runCtx.Done():
		}
	})
	return runCtx, func() {
		stop()
		cancel()
	}
}

func recordContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
}

// Stats returns the outcome counters.
func (p *Processor) Stats() Stats {
	return Stats{
		Processed: p.processed.Load(),
		Failed:    p.failed.Load(),
		Skipped:   p.skipped.Load(),
	}
}
