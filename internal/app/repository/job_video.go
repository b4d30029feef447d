package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/model"
)

// ErrIllegalTransition is returned for a status change that is not an edge of
// the job video state machine.
var ErrIllegalTransition = errors.New("illegal job video transition")

const jobVideoColumns = `id, uploader_id, trade_id, file_url, thumbnail_url, original_filename, duration_sec,
	status, job_type_free_text, location_type, difficulty_level, error_message, attempts, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// CreateJobVideo inserts a job video and reloads it so server defaults are populated.
func (s *Store) CreateJobVideo(ctx context.Context, jv *model.JobVideo) error {
	id, err := s.insertID(ctx,
		`INSERT INTO job_videos (uploader_id, trade_id, file_url, original_filename, status,
			job_type_free_text, location_type, difficulty_level)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		jv.UploaderID, jv.TradeID, jv.FileURL, jv.OriginalFilename, string(jv.Status),
		jv.JobTypeFreeText, jv.LocationType, jv.DifficultyLevel,
	)
	if err != nil {
		return fmt.Errorf("insert job video: %w", err)
	}

	created, err := s.GetJobVideo(ctx, id)
	if err != nil {
		return err
	}
	*jv = *created
	return nil
}

// GetJobVideo loads a job video by id.
func (s *Store) GetJobVideo(ctx context.Context, id int64) (*model.JobVideo, error) {
	row := s.queryRow(ctx, `SELECT `+jobVideoColumns+` FROM job_videos WHERE id = ?`, id)
	jv, err := scanJobVideo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("job video", id)
		}
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return jv, nil
}

// ListJobVideos returns a page of job videos, newest first, and the total match count.
func (s *Store) ListJobVideos(ctx context.Context, filter model.JobVideoFilter) ([]model.JobVideo, int, error) {
	var conds []string
	var args []interface{}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.TradeID > 0 {
		conds = append(conds, "trade_id = ?")
		args = append(args, filter.TradeID)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM job_videos`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	filter.Limit = limit
	pageArgs := append(append([]interface{}{}, args...), limit, filter.Offset())
	rows, err := s.query(ctx,
		`SELECT `+jobVideoColumns+` FROM job_videos`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		pageArgs...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	videos := make([]model.JobVideo, 0)
	for rows.Next() {
		jv, err := scanJobVideo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan failed: %w", err)
		}
		videos = append(videos, *jv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return videos, total, nil
}

// TransitionJobVideo is a compare-and-set on status: the update only applies
// while the row is still in t.From, so concurrent callers cannot both win.
func (s *Store) TransitionJobVideo(ctx context.Context, id int64, t Transition) (bool, error) {
	if !t.From.CanTransitionTo(t.To) {
		return false, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, t.From, t.To)
	}

	var errorMessage interface{}
	if t.To == model.StatusFailed {
		errorMessage = t.ErrorMessage
	}
	attempts := 0
	if t.To == model.StatusProcessing {
		attempts = 1
	}

	res, err := s.exec(ctx,
		`UPDATE job_videos
		 SET status = ?,
		     file_url = COALESCE(?, file_url),
		     original_filename = COALESCE(?, original_filename),
		     duration_sec = COALESCE(?, duration_sec),
		     error_message = ?,
		     attempts = attempts + ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		string(t.To), t.FileURL, t.OriginalFilename, t.DurationSec, errorMessage, attempts,
		id, string(t.From),
	)
	if err != nil {
		return false, fmt.Errorf("update failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

// DeleteJobVideo removes a job video; its lesson and lesson children go with it.
func (s *Store) DeleteJobVideo(ctx context.Context, id int64) (bool, error) {
	res, err := s.exec(ctx, `DELETE FROM job_videos WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

func scanJobVideo(row rowScanner) (*model.JobVideo, error) {
	var jv model.JobVideo
	var status string
	err := row.Scan(
		&jv.ID,
		&jv.UploaderID,
		&jv.TradeID,
		&jv.FileURL,
		&jv.ThumbnailURL,
		&jv.OriginalFilename,
		&jv.DurationSec,
		&status,
		&jv.JobTypeFreeText,
		&jv.LocationType,
		&jv.DifficultyLevel,
		&jv.ErrorMessage,
		&jv.Attempts,
		&jv.CreatedAt,
		&jv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	jv.Status = model.JobVideoStatus(status)
	return &jv, nil
}
