package pipeline

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"plumberf/internal/app/model"
)

const maxTitleLen = 80

// GapSegmenter starts a new step at every pause of at least MinGapSec
// and whenever the current step would grow past MaxStepSec.
type GapSegmenter struct {
	MinGapSec  float64
	MaxStepSec float64
}

// NewGapSegmenter returns a segmenter with the given bounds.
func NewGapSegmenter(minGapSec, maxStepSec float64) *GapSegmenter {
	return &GapSegmenter{MinGapSec: minGapSec, MaxStepSec: maxStepSec}
}

// Segment implements Segmenter.
func (g *GapSegmenter) Segment(ctx context.Context, t *Transcript) ([]model.StepDraft, error) {
	segments := lo.Filter(t.Segments, func(s Segment, _ int) bool {
		return strings.TrimSpace(s.Text) != ""
	})
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})
	if len(segments) == 0 {
		if strings.TrimSpace(t.Text) == "" {
			return nil, ErrEmptyTranscript
		}
		return []model.StepDraft{wholeTranscriptStep(t)}, nil
	}

	var groups [][]Segment
	var current []Segment
	for _, seg := range segments {
		if len(current) > 0 {
			last := current[len(current)-1]
			gap := seg.Start - last.End
			span := seg.End - current[0].Start
			if gap >= g.MinGapSec || (g.MaxStepSec > 0 && span > g.MaxStepSec) {
				groups = append(groups, current)
				current = nil
			}
		}
		current = append(current, seg)
	}
	groups = append(groups, current)

	return lo.Map(groups, func(group []Segment, _ int) model.StepDraft {
		return stepFromSegments(group)
	}), nil
}

func stepFromSegments(group []Segment) model.StepDraft {
	text := strings.Join(lo.Map(group, func(s Segment, _ int) string {
		return strings.TrimSpace(s.Text)
	}), " ")

	start := int(math.Floor(group[0].Start))
	end := int(math.Ceil(group[len(group)-1].End))
	if end < start {
		end = start
	}

	meanProb := lo.SumBy(group, func(s Segment) float64 {
		return math.Exp(s.AvgLogprob)
	}) / float64(len(group))
	confidence := int(math.Round(math.Min(math.Max(meanProb, 0), 1) * 100))

	return model.StepDraft{
		Title:        FirstSentence(text, maxTitleLen),
		Description:  text,
		StartTimeSec: max(start, 0),
		EndTimeSec:   &end,
		Confidence:   &confidence,
	}
}

func wholeTranscriptStep(t *Transcript) model.StepDraft {
	text := strings.Join(strings.Fields(t.Text), " ")
	step := model.StepDraft{
		Title:       FirstSentence(text, maxTitleLen),
		Description: text,
	}
	if t.DurationSec > 0 {
		end := int(math.Ceil(t.DurationSec))
		step.EndTimeSec = &end
	}
	return step
}

// FirstSentence returns the first sentence of text, cut to at most n runes.
func FirstSentence(text string, n int) string {
	text = strings.TrimSpace(text)
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next == len(text) || text[next] == ' ' {
			text = text[:next]
			break
		}
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return truncateWords(text, n)
}
