package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/model"
)

const lessonColumns = `id, job_video_id, trade_id, title, short_description, language_main, status,
	estimated_duration_min, thumbnail_url, created_at, updated_at`

// CreateLesson persists a normalized draft as the lesson of jv. Steps are numbered
// 1..N in draft order. Callers are expected to run it inside WithTx.
func (s *Store) CreateLesson(ctx context.Context, jv *model.JobVideo, draft *model.LessonDraft) (int64, error) {
	lessonID, err := s.insertID(ctx,
		`INSERT INTO lessons (job_video_id, trade_id, title, short_description, language_main, status, estimated_duration_min)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		jv.ID, jv.TradeID, draft.Title, nullString(draft.ShortDescription), draft.Language,
		string(model.LessonStatusDraft), draft.EstimatedDurationMin,
	)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return 0, fmt.Errorf("job video %d already has a lesson: %w", jv.ID, err)
		}
		return 0, fmt.Errorf("insert lesson: %w", err)
	}

	for i, step := range draft.Steps {
		stepID, err := s.insertID(ctx,
			`INSERT INTO lesson_steps (lesson_id, step_number, title, description, start_time_sec, end_time_sec, ai_confidence)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			lessonID, i+1, step.Title, nullString(step.Description), step.StartTimeSec, step.EndTimeSec, step.Confidence,
		)
		if err != nil {
			return 0, fmt.Errorf("insert step %d: %w", i+1, err)
		}
		if err := s.linkStepTerms(ctx, stepID, jv.TradeID, model.VocabularyTools, step.Tools); err != nil {
			return 0, err
		}
		if err := s.linkStepTerms(ctx, stepID, jv.TradeID, model.VocabularyMaterials, step.Materials); err != nil {
			return 0, err
		}
	}

	if err := s.AttachTags(ctx, lessonID, jv.TradeID, draft.Tags); err != nil {
		return 0, err
	}
	if err := s.UpsertTranscript(ctx, lessonID, draft.Transcript); err != nil {
		return 0, err
	}
	return lessonID, nil
}

// GetLesson loads a lesson with its ordered steps, step tools and materials, tags and transcript.
func (s *Store) GetLesson(ctx context.Context, id int64) (*model.LessonDetail, error) {
	row := s.queryRow(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE id = ?`, id)
	return s.loadLesson(ctx, row, "lesson", id)
}

// GetLessonByJobVideo loads the lesson derived from a job video.
func (s *Store) GetLessonByJobVideo(ctx context.Context, jobVideoID int64) (*model.LessonDetail, error) {
	row := s.queryRow(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE job_video_id = ?`, jobVideoID)
	return s.loadLesson(ctx, row, "lesson for job video", jobVideoID)
}

// ListLessons returns lessons without their children, newest first.
func (s *Store) ListLessons(ctx context.Context, filter model.LessonFilter) ([]model.Lesson, error) {
	var conds []string
	var args []interface{}
	if filter.TradeID > 0 {
		conds = append(conds, "trade_id = ?")
		args = append(args, filter.TradeID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	query := `SELECT ` + lessonColumns + ` FROM lessons`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	lessons := make([]model.Lesson, 0)
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		lessons = append(lessons, *l)
	}
	return lessons, rows.Err()
}

// UpdateLessonStatus sets the editorial status. Last writer wins.
func (s *Store) UpdateLessonStatus(ctx context.Context, id int64, status model.LessonStatus) (bool, error) {
	res, err := s.exec(ctx, `UPDATE lessons SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, string(status), id)
	if err != nil {
		return false, fmt.Errorf("update failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

// AttachTags links tags to a lesson by name, creating trade scoped tags as needed.
func (s *Store) AttachTags(ctx context.Context, lessonID, tradeID int64, names []string) error {
	for _, name := range uniqueNames(names) {
		tagID, err := s.ensureTerm(ctx, model.VocabularyTags, tradeID, name)
		if err != nil {
			return err
		}
		if _, err := s.exec(ctx,
			`INSERT INTO lesson_tags (lesson_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			lessonID, tagID,
		); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}
	return nil
}

// UpsertTranscript stores the lesson's single authoritative transcript; a newer one replaces it.
func (s *Store) UpsertTranscript(ctx context.Context, lessonID int64, t model.TranscriptDraft) error {
	_, err := s.exec(ctx,
		`INSERT INTO lesson_transcripts (lesson_id, raw_transcript, script_narration, subtitles_srt)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (lesson_id) DO UPDATE SET
		     raw_transcript = excluded.raw_transcript,
		     script_narration = excluded.script_narration,
		     subtitles_srt = excluded.subtitles_srt,
		     created_at = CURRENT_TIMESTAMP`,
		lessonID, nullString(t.Raw), nullString(t.Narration), nullString(t.SubtitlesSRT),
	)
	if err != nil {
		return fmt.Errorf("upsert transcript: %w", err)
	}
	return nil
}

func (s *Store) linkStepTerms(ctx context.Context, stepID, tradeID int64, kind model.VocabularyKind, names []string) error {
	joinTable, column := "lesson_step_tools", "tool_id"
	if kind == model.VocabularyMaterials {
		joinTable, column = "lesson_step_materials", "material_id"
	}
	for _, name := range uniqueNames(names) {
		termID, err := s.ensureTerm(ctx, kind, tradeID, name)
		if err != nil {
			return err
		}
		if _, err := s.exec(ctx,
			`INSERT INTO `+joinTable+` (lesson_step_id, `+column+`) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			stepID, termID,
		); err != nil {
			return fmt.Errorf("link %s %q: %w", kind, name, err)
		}
	}
	return nil
}

func (s *Store) loadLesson(ctx context.Context, row *sql.Row, resource string, key int64) (*model.LessonDetail, error) {
	lesson, err := scanLesson(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(resource, key)
		}
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	detail := &model.LessonDetail{Lesson: *lesson}
	if detail.Steps, err = s.lessonSteps(ctx, lesson.ID); err != nil {
		return nil, err
	}
	if detail.Tags, err = s.lessonTags(ctx, lesson.ID); err != nil {
		return nil, err
	}
	if detail.Transcript, err = s.lessonTranscript(ctx, lesson.ID); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *Store) lessonSteps(ctx context.Context, lessonID int64) ([]model.LessonStep, error) {
	rows, err := s.query(ctx,
		`SELECT id, lesson_id, step_number, title, description, start_time_sec, end_time_sec, ai_confidence, created_at, updated_at
		 FROM lesson_steps WHERE lesson_id = ? ORDER BY step_number`,
		lessonID,
	)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := make([]model.LessonStep, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var st model.LessonStep
		if err := rows.Scan(&st.ID, &st.LessonID, &st.StepNumber, &st.Title, &st.Description,
			&st.StartTimeSec, &st.EndTimeSec, &st.AIConfidence, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		st.Tools = make([]model.Tool, 0)
		st.Materials = make([]model.Material, 0)
		index[st.ID] = len(steps)
		steps = append(steps, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	rows.Close()

	toolRows, err := s.stepTerms(ctx, lessonID, "lesson_step_tools", "tools", "tool_id")
	if err != nil {
		return nil, err
	}
	for _, r := range toolRows {
		i := index[r.stepID]
		steps[i].Tools = append(steps[i].Tools, model.Tool{ID: r.ID, Name: r.Name, TradeID: r.TradeID, Aliases: r.Aliases, CreatedAt: r.CreatedAt})
	}

	materialRows, err := s.stepTerms(ctx, lessonID, "lesson_step_materials", "materials", "material_id")
	if err != nil {
		return nil, err
	}
	for _, r := range materialRows {
		i := index[r.stepID]
		steps[i].Materials = append(steps[i].Materials, model.Material{ID: r.ID, Name: r.Name, TradeID: r.TradeID, Aliases: r.Aliases, CreatedAt: r.CreatedAt})
	}
	return steps, nil
}

type stepTermRow struct {
	termRow
	stepID int64
}

func (s *Store) stepTerms(ctx context.Context, lessonID int64, joinTable, table, column string) ([]stepTermRow, error) {
	rows, err := s.query(ctx,
		`SELECT j.lesson_step_id, t.id, t.name, t.trade_id, t.aliases, t.created_at
		 FROM `+joinTable+` j
		 JOIN `+table+` t ON t.id = j.`+column+`
		 JOIN lesson_steps st ON st.id = j.lesson_step_id
		 WHERE st.lesson_id = ?
		 ORDER BY t.name, t.id`,
		lessonID,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []stepTermRow
	for rows.Next() {
		var r stepTermRow
		var aliases sql.NullString
		if err := rows.Scan(&r.stepID, &r.ID, &r.Name, &r.TradeID, &aliases, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		r.Aliases = splitAliases(aliases)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) lessonTags(ctx context.Context, lessonID int64) ([]model.Tag, error) {
	rows, err := s.query(ctx,
		`SELECT t.id, t.name, t.category, t.trade_id, t.created_at
		 FROM lesson_tags lt JOIN tags t ON t.id = lt.tag_id
		 WHERE lt.lesson_id = ?
		 ORDER BY t.name, t.id`,
		lessonID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	tags := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.TradeID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *Store) lessonTranscript(ctx context.Context, lessonID int64) (*model.LessonTranscript, error) {
	var t model.LessonTranscript
	err := s.queryRow(ctx,
		`SELECT id, lesson_id, raw_transcript, script_narration, subtitles_srt, created_at
		 FROM lesson_transcripts WHERE lesson_id = ?`,
		lessonID,
	).Scan(&t.ID, &t.LessonID, &t.RawTranscript, &t.ScriptNarration, &t.SubtitlesSRT, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	return &t, nil
}

func scanLesson(row rowScanner) (*model.Lesson, error) {
	var l model.Lesson
	var status string
	if err := row.Scan(&l.ID, &l.JobVideoID, &l.TradeID, &l.Title, &l.ShortDescription, &l.LanguageMain,
		&status, &l.EstimatedDurationMin, &l.ThumbnailURL, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Status = model.LessonStatus(status)
	return &l, nil
}

// uniqueNames trims names and drops blanks and case-insensitive duplicates.
func uniqueNames(names []string) []string {
	trimmed := lo.FilterMap(names, func(n string, _ int) (string, bool) {
		n = strings.TrimSpace(n)
		return n, n != ""
	})
	return lo.UniqBy(trimmed, strings.ToLower)
}

func nullString(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
