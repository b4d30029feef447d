package model

import "time"

// LessonStatus is the editorial state of a lesson.
type LessonStatus string

const (
	LessonStatusDraft     LessonStatus = "draft"
	LessonStatusReady     LessonStatus = "ready"
	LessonStatusPublished LessonStatus = "published"
	LessonStatusHidden    LessonStatus = "hidden"
)

// Valid reports whether s is one of the known lesson statuses.
func (s LessonStatus) Valid() bool {
	switch s {
	case LessonStatusDraft, LessonStatusReady, LessonStatusPublished, LessonStatusHidden:
		return true
	}
	return false
}

// Lesson is the teaching unit derived from exactly one job video.
type Lesson struct {
	ID                   int64        `json:"id"`
	JobVideoID           int64        `json:"job_video_id"`
	TradeID              int64        `json:"trade_id"`
	Title                string       `json:"title"`
	ShortDescription     *string      `json:"short_description,omitempty"`
	LanguageMain         string       `json:"language_main"`
	Status               LessonStatus `json:"status"`
	EstimatedDurationMin *int         `json:"estimated_duration_min,omitempty"`
	ThumbnailURL         *string      `json:"thumbnail_url,omitempty"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// LessonStep is one ordered segment of a lesson.
type LessonStep struct {
	ID           int64      `json:"id"`
	LessonID     int64      `json:"lesson_id"`
	StepNumber   int        `json:"step_number"`
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	StartTimeSec int        `json:"start_time_sec"`
	EndTimeSec   *int       `json:"end_time_sec,omitempty"`
	AIConfidence *int       `json:"ai_confidence,omitempty"`
	Tools        []Tool     `json:"tools"`
	Materials    []Material `json:"materials"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// LessonTranscript holds the text artifacts of a lesson. A lesson has at most one.
type LessonTranscript struct {
	ID              int64     `json:"id"`
	LessonID        int64     `json:"lesson_id"`
	RawTranscript   *string   `json:"raw_transcript,omitempty"`
	ScriptNarration *string   `json:"script_narration,omitempty"`
	SubtitlesSRT    *string   `json:"subtitles_srt,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// LessonDetail is a lesson with everything it owns or references, resolved by id.
type LessonDetail struct {
	Lesson
	Steps      []LessonStep      `json:"steps"`
	Tags       []Tag             `json:"tags"`
	Transcript *LessonTranscript `json:"transcript,omitempty"`
}

// LessonFilter narrows lesson listings.
type LessonFilter struct {
	TradeID int64
	Status  LessonStatus
	Limit   int
}
