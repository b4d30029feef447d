package dto

import (
	"github.com/samber/lo"

	"plumberf/internal/app/model"
)

// LessonResponse is a lesson with its ordered steps, tags and transcript.
type LessonResponse struct {
	model.Lesson
	Steps      []StepResponse          `json:"steps"`
	Tags       []model.Tag             `json:"tags"`
	Transcript *model.LessonTranscript `json:"transcript,omitempty"`
}

// StepResponse is one lesson step with tool and material names resolved.
type StepResponse struct {
	ID           int64    `json:"id"`
	StepNumber   int      `json:"step_number"`
	Title        string   `json:"title"`
	Description  *string  `json:"description,omitempty"`
	StartTimeSec int      `json:"start_time_sec"`
	EndTimeSec   *int     `json:"end_time_sec,omitempty"`
	AIConfidence *int     `json:"ai_confidence,omitempty"`
	Tools        []string `json:"tools"`
	Materials    []string `json:"materials"`
}

// ListLessonsQuery filters lesson listings.
type ListLessonsQuery struct {
	TradeID int64  `form:"trade_id" binding:"omitempty,min=1"`
	Status  string `form:"status" binding:"omitempty,oneof=draft ready published hidden"`
	Limit   int    `form:"limit,default=50" binding:"min=1,max=200"`
}

// Filter converts the query to a store filter.
func (q ListLessonsQuery) Filter() model.LessonFilter {
	return model.LessonFilter{
		TradeID: q.TradeID,
		Status:  model.LessonStatus(q.Status),
		Limit:   q.Limit,
	}
}

// LessonListResponse is a list of lessons without their children.
type LessonListResponse struct {
	Lessons []model.Lesson `json:"lessons"`
	Count   int            `json:"count"`
}

// UpdateLessonStatusRequest sets a lesson's editorial status.
type UpdateLessonStatusRequest struct {
	Status string `json:"status" binding:"required" example:"published"`
}

// AttachTagsRequest links tags to a lesson by name.
type AttachTagsRequest struct {
	Tags []string `json:"tags" binding:"required,min=1,dive,max=100"`
}

// ToLessonResponse flattens a lesson detail for the API.
func ToLessonResponse(l *model.LessonDetail) *LessonResponse {
	return &LessonResponse{
		Lesson:     l.Lesson,
		Steps:      lo.Map(l.Steps, func(s model.LessonStep, _ int) StepResponse { return toStepResponse(s) }),
		Tags:       nonNil(l.Tags),
		Transcript: l.Transcript,
	}
}

func toStepResponse(s model.LessonStep) StepResponse {
	return StepResponse{
		ID:           s.ID,
		StepNumber:   s.StepNumber,
		Title:        s.Title,
		Description:  s.Description,
		StartTimeSec: s.StartTimeSec,
		EndTimeSec:   s.EndTimeSec,
		AIConfidence: s.AIConfidence,
		Tools:        lo.Map(s.Tools, func(t model.Tool, _ int) string { return t.Name }),
		Materials:    lo.Map(s.Materials, func(m model.Material, _ int) string { return m.Name }),
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
