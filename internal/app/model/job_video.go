package model

import (
	"fmt"
	"time"
)

// JobVideoStatus is the processing state of an uploaded source video.
type JobVideoStatus string

const (
	StatusUploadPending JobVideoStatus = "upload_pending"
	StatusUploaded      JobVideoStatus = "uploaded"
	StatusProcessing    JobVideoStatus = "processing"
	StatusProcessed     JobVideoStatus = "processed"
	StatusFailed        JobVideoStatus = "failed"
)

// transitions lists every legal edge of the job video state machine.
var transitions = map[JobVideoStatus][]JobVideoStatus{
	StatusUploadPending: {StatusUploaded},
	StatusUploaded:      {StatusProcessing},
	StatusProcessing:    {StatusProcessed, StatusFailed},
	StatusFailed:        {StatusUploaded},
}

// Valid reports whether s is one of the known statuses.
func (s JobVideoStatus) Valid() bool {
	switch s {
	case StatusUploadPending, StatusUploaded, StatusProcessing, StatusProcessed, StatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal edge.
func (s JobVideoStatus) CanTransitionTo(next JobVideoStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s JobVideoStatus) String() string {
	return string(s)
}

// ParseJobVideoStatus converts a raw status string.
func ParseJobVideoStatus(raw string) (JobVideoStatus, error) {
	s := JobVideoStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown job video status %q", raw)
	}
	return s, nil
}

// JobVideo represents one uploaded source video and its processing status.
type JobVideo struct {
	ID               int64          `json:"id" db:"id"`
	UploaderID       int64          `json:"uploader_id" db:"uploader_id"`
	TradeID          int64          `json:"trade_id" db:"trade_id"`
	FileURL          string         `json:"file_url" db:"file_url"`
	ThumbnailURL     *string        `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	OriginalFilename *string        `json:"original_filename,omitempty" db:"original_filename"`
	DurationSec      *int           `json:"duration_sec,omitempty" db:"duration_sec"`
	Status           JobVideoStatus `json:"status" db:"status"`
	JobTypeFreeText  *string        `json:"job_type_free_text" db:"job_type_free_text"`
	LocationType     *string        `json:"location_type" db:"location_type"`
	DifficultyLevel  *int           `json:"difficulty_level" db:"difficulty_level"`
	ErrorMessage     *string        `json:"error_message,omitempty" db:"error_message"`
	Attempts         int            `json:"attempts" db:"attempts"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// JobVideoMetadata holds the optional, client-supplied description of a job.
type JobVideoMetadata struct {
	JobTypeFreeText *string
	LocationType    *string
	DifficultyLevel *int
}

// JobVideoFilter narrows job video listings.
type JobVideoFilter struct {
	Status  JobVideoStatus
	TradeID int64
	Page    int
	Limit   int
}

// Offset returns the row offset for the filter's page.
func (f JobVideoFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}
