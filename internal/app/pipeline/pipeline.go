// Package pipeline turns an uploaded job video into a lesson draft:
// transcribe, segment into steps, then tag steps with catalog vocabulary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/metrics"
	"plumberf/internal/app/model"
)

// Stage names, also used as metric labels.
const (
	StageTranscribe      = "transcribe"
	StageSegment         = "segment"
	StageExtractEntities = "extract_entities"
)

const shortDescriptionLen = 200

// ErrEmptyTranscript is returned when transcription produced no usable text.
var ErrEmptyTranscript = errors.New("transcript is empty")

// Input identifies the video to process.
type Input struct {
	JobVideoID int64
	TradeID    int64
	FileURL    string
	TitleHint  string
	Language   string
}

// Segment is one timed piece of a transcript.
type Segment struct {
	Start      float64
	End        float64
	Text       string
	AvgLogprob float64
}

// Transcript is the output of the transcription stage.
type Transcript struct {
	Text        string
	Language    string
	DurationSec float64
	Segments    []Segment
}

// Transcriber converts the video at in.FileURL to text.
type Transcriber interface {
	Transcribe(ctx context.Context, in Input) (*Transcript, error)
}

// Segmenter groups a transcript into ordered steps.
type Segmenter interface {
	Segment(ctx context.Context, t *Transcript) ([]model.StepDraft, error)
}

// EntityExtractor fills in the tools and materials of each step and returns
// the lesson tags found in the transcript.
type EntityExtractor interface {
	Extract(ctx context.Context, in Input, t *Transcript, steps []model.StepDraft) ([]string, error)
}

// Pipeline is what the worker invokes after a successful claim.
type Pipeline interface {
	Process(ctx context.Context, in Input) (*model.LessonDraft, error)
}

// StagedPipeline runs the three stages in order. A failing stage stops the
// run with a processing error naming that stage.
type StagedPipeline struct {
	transcriber Transcriber
	segmenter   Segmenter
	extractor   EntityExtractor
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewStagedPipeline wires the stages together.
func NewStagedPipeline(t Transcriber, s Segmenter, e EntityExtractor, m *metrics.Metrics, logger *zap.Logger) *StagedPipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StagedPipeline{transcriber: t, segmenter: s, extractor: e, metrics: m, logger: logger}
}

// Process implements Pipeline.
func (p *StagedPipeline) Process(ctx context.Context, in Input) (*model.LessonDraft, error) {
	log := p.logger.With(zap.Int64("job_video_id", in.JobVideoID))

	var transcript *Transcript
	err := p.run(ctx, log, StageTranscribe, func() (err error) {
		transcript, err = p.transcriber.Transcribe(ctx, in)
		if err == nil && strings.TrimSpace(transcript.Text) == "" && len(transcript.Segments) == 0 {
			err = ErrEmptyTranscript
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	var steps []model.StepDraft
	err = p.run(ctx, log, StageSegment, func() (err error) {
		steps, err = p.segmenter.Segment(ctx, transcript)
		if err == nil && len(steps) == 0 {
			err = errors.New("no steps found in transcript")
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	var tags []string
	err = p.run(ctx, log, StageExtractEntities, func() (err error) {
		tags, err = p.extractor.Extract(ctx, in, transcript, steps)
		return err
	})
	if err != nil {
		return nil, err
	}

	draft := buildDraft(in, transcript, steps, tags)
	log.Info("pipeline finished", zap.Int("steps", len(draft.Steps)), zap.Int("tags", len(draft.Tags)))
	return draft, nil
}

func (p *StagedPipeline) run(ctx context.Context, log *zap.Logger, stage string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Processing(stage, err)
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	p.metrics.Stage(stage, elapsed, err)
	if err != nil {
		log.Warn("pipeline stage failed", zap.String("stage", stage), zap.Duration("elapsed", elapsed), zap.Error(err))
		return apperrors.Processing(stage, err)
	}
	log.Debug("pipeline stage done", zap.String("stage", stage), zap.Duration("elapsed", elapsed))
	return nil
}

func buildDraft(in Input, t *Transcript, steps []model.StepDraft, tags []string) *model.LessonDraft {
	draft := &model.LessonDraft{
		Title:            strings.TrimSpace(in.TitleHint),
		ShortDescription: truncateWords(t.Text, shortDescriptionLen),
		Language:         lo.Ternary(t.Language != "", t.Language, in.Language),
		Steps:            steps,
		Tags:             tags,
	}
	draft.Normalize()
	if draft.Title == "" {
		draft.Title = draft.Steps[0].Title
	}

	if t.DurationSec > 0 {
		sec := int(math.Round(t.DurationSec))
		minutes := int(math.Ceil(t.DurationSec / 60))
		draft.DurationSec = &sec
		draft.EstimatedDurationMin = &minutes
	}

	draft.Transcript = model.TranscriptDraft{
		Raw:          strings.TrimSpace(t.Text),
		Narration:    Narration(draft.Steps),
		SubtitlesSRT: RenderSRT(t.Segments),
	}
	return draft
}

// Narration renders the numbered step script read over the lesson.
func Narration(steps []model.StepDraft) string {
	var b strings.Builder
	for i, s := range steps {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Step %d: %s\n", i+1, s.Title)
		if d := strings.TrimSpace(s.Description); d != "" && d != s.Title {
			b.WriteString(d)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// truncateWords cuts s to at most n runes, on a word boundary when possible.
func truncateWords(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	cut := string(r[:n])
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-")
}
