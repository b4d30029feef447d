// Package export writes lessons to spreadsheets for offline review.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"plumberf/internal/app/model"
)

const (
	LessonsSheet = "Lessons"
	StepsSheet   = "Steps"
)

var (
	lessonHeader = []string{"ID", "Job Video", "Trade", "Title", "Status", "Language", "Est. Minutes", "Steps", "Tags", "Created"}
	stepHeader   = []string{"Lesson ID", "Step", "Title", "Description", "Start (s)", "End (s)", "AI Confidence", "Tools", "Materials"}
)

// Source is where lessons are read from.
type Source interface {
	ListLessons(ctx context.Context, filter model.LessonFilter) ([]model.Lesson, error)
	GetLesson(ctx context.Context, id int64) (*model.LessonDetail, error)
}

// Tracker receives progress as lessons are exported.
type Tracker interface {
	SetTotal(total int64)
	Increment()
}

// Report summarizes an export run.
type Report struct {
	Lessons int
	Steps   int
	Path    string
}

// Exporter writes lessons and their steps to an xlsx workbook.
type Exporter struct {
	source Source
	logger *zap.Logger
}

// NewExporter creates an exporter.
func NewExporter(source Source, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{source: source, logger: logger}
}

// ToExcel writes every lesson matching filter to path. tracker may be nil.
func (e *Exporter) ToExcel(ctx context.Context, filter model.LessonFilter, path string, tracker Tracker) (*Report, error) {
	lessons, err := e.source.ListLessons(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	if tracker != nil {
		tracker.SetTotal(int64(len(lessons)))
	}

	file := xlsx.NewFile()
	lessonSheet, err := file.AddSheet(LessonsSheet)
	if err != nil {
		return nil, err
	}
	stepSheet, err := file.AddSheet(StepsSheet)
	if err != nil {
		return nil, err
	}
	addHeader(lessonSheet, lessonHeader)
	addHeader(stepSheet, stepHeader)

	report := &Report{Path: path}
	for _, l := range lessons {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		detail, err := e.source.GetLesson(ctx, l.ID)
		if err != nil {
			return report, fmt.Errorf("load lesson %d: %w", l.ID, err)
		}
		writeLesson(lessonSheet, detail)
		for _, step := range detail.Steps {
			writeStep(stepSheet, detail.ID, step)
		}
		report.Lessons++
		report.Steps += len(detail.Steps)
		if tracker != nil {
			tracker.Increment()
		}
	}

	if err := file.Save(path); err != nil {
		return report, fmt.Errorf("save %s: %w", path, err)
	}
	e.logger.Info("lessons exported",
		zap.String("path", path),
		zap.Int("lessons", report.Lessons),
		zap.Int("steps", report.Steps))
	return report, nil
}

func addHeader(sheet *xlsx.Sheet, names []string) {
	row := sheet.AddRow()
	for _, name := range names {
		row.AddCell().Value = name
	}
}

func writeLesson(sheet *xlsx.Sheet, l *model.LessonDetail) {
	row := sheet.AddRow()
	row.AddCell().SetInt64(l.ID)
	row.AddCell().SetInt64(l.JobVideoID)
	row.AddCell().SetInt64(l.TradeID)
	row.AddCell().Value = l.Title
	row.AddCell().Value = string(l.Status)
	row.AddCell().Value = l.LanguageMain
	optionalInt(row.AddCell(), l.EstimatedDurationMin)
	row.AddCell().SetInt(len(l.Steps))
	row.AddCell().Value = strings.Join(lo.Map(l.Tags, func(t model.Tag, _ int) string { return t.Name }), ", ")
	row.AddCell().Value = l.CreatedAt.UTC().Format(time.RFC3339)
}

func writeStep(sheet *xlsx.Sheet, lessonID int64, s model.LessonStep) {
	row := sheet.AddRow()
	row.AddCell().SetInt64(lessonID)
	row.AddCell().SetInt(s.StepNumber)
	row.AddCell().Value = s.Title
	row.AddCell().Value = lo.FromPtr(s.Description)
	row.AddCell().SetInt(s.StartTimeSec)
	optionalInt(row.AddCell(), s.EndTimeSec)
	optionalInt(row.AddCell(), s.AIConfidence)
	row.AddCell().Value = strings.Join(lo.Map(s.Tools, func(t model.Tool, _ int) string { return t.Name }), ", ")
	row.AddCell().Value = strings.Join(lo.Map(s.Materials, func(m model.Material, _ int) string { return m.Name }), ", ")
}

func optionalInt(cell *xlsx.Cell, v *int) {
	if v != nil {
		cell.SetInt(*v)
	}
}
