package model

import (
	"fmt"
	"sort"
	"strings"
)

// StepDraft describes one step produced by the processing pipeline.
type StepDraft struct {
	Title        string
	Description  string
	StartTimeSec int
	EndTimeSec   *int
	Confidence   *int
	Tools        []string
	Materials    []string
}

// TranscriptDraft holds the transcript artifacts produced by the pipeline.
type TranscriptDraft struct {
	Raw          string
	Narration    string
	SubtitlesSRT string
}

// LessonDraft is the pipeline output the coordinator persists as a Lesson.
type LessonDraft struct {
	Title                string
	ShortDescription     string
	Language             string
	EstimatedDurationMin *int
	DurationSec          *int
	Steps                []StepDraft
	Tags                 []string
	Transcript           TranscriptDraft
}

// DraftError lists the problems found in a lesson draft.
type DraftError struct {
	Problems []string
}

func (e *DraftError) Error() string {
	return "invalid lesson draft: " + strings.Join(e.Problems, "; ")
}

// Normalize orders steps by start time, keeping the pipeline's order for ties,
// and trims titles. Step numbers are assigned from the resulting order.
func (d *LessonDraft) Normalize() {
	sort.SliceStable(d.Steps, func(i, j int) bool {
		return d.Steps[i].StartTimeSec < d.Steps[j].StartTimeSec
	})
	for i := range d.Steps {
		d.Steps[i].Title = strings.TrimSpace(d.Steps[i].Title)
	}
	d.Title = strings.TrimSpace(d.Title)
	if d.Language == "" {
		d.Language = "en"
	}
}

// Validate checks the invariants a draft must satisfy before it becomes a lesson.
func (d *LessonDraft) Validate() error {
	var problems []string
	if strings.TrimSpace(d.Title) == "" {
		problems = append(problems, "title is required")
	}
	if len(d.Steps) == 0 {
		problems = append(problems, "at least one step is required")
	}
	for i, s := range d.Steps {
		n := i + 1
		if strings.TrimSpace(s.Title) == "" {
			problems = append(problems, fmt.Sprintf("step %d: title is required", n))
		}
		if s.StartTimeSec < 0 {
			problems = append(problems, fmt.Sprintf("step %d: start time is negative", n))
		}
		if s.EndTimeSec != nil && s.StartTimeSec > *s.EndTimeSec {
			problems = append(problems, fmt.Sprintf("step %d: start time %d after end time %d", n, s.StartTimeSec, *s.EndTimeSec))
		}
		if s.Confidence != nil && (*s.Confidence < 0 || *s.Confidence > 100) {
			problems = append(problems, fmt.Sprintf("step %d: confidence out of range", n))
		}
	}
	if len(problems) > 0 {
		return &DraftError{Problems: problems}
	}
	return nil
}
