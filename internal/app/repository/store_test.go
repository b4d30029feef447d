package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/model"
)

var errUnique = errors.New("unique violation")

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewStore(db, Dialect{
		Name:              "postgres",
		Placeholder:       func(n int) string { return "$" + strconv.Itoa(n) },
		IsUniqueViolation: func(err error) bool { return errors.Is(err, errUnique) },
	})
	return store, mock
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name        string
		placeholder PlaceholderFunc
		query       string
		want        string
	}{
		{
			name:        "postgres",
			placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
			query:       "SELECT * FROM t WHERE a = ? AND b = ?",
			want:        "SELECT * FROM t WHERE a = $1 AND b = $2",
		},
		{
			name:  "sqlite keeps question marks",
			query: "SELECT * FROM t WHERE a = ?",
			want:  "SELECT * FROM t WHERE a = ?",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(nil, Dialect{Placeholder: tt.placeholder})
			assert.Equal(t, tt.want, s.rebind(tt.query))
		})
	}
}

func TestTransitionJobVideo_CompareAndSet(t *testing.T) {
	tests := []struct {
		name         string
		transition   Transition
		rowsAffected int64
		wantApplied  bool
		wantMessage  interface{}
		wantAttempts int
	}{
		{
			name:         "claim increments attempts",
			transition:   Transition{From: model.StatusUploaded, To: model.StatusProcessing},
			rowsAffected: 1,
			wantApplied:  true,
			wantMessage:  nil,
			wantAttempts: 1,
		},
		{
			name:         "lost race",
			transition:   Transition{From: model.StatusUploaded, To: model.StatusProcessing},
			rowsAffected: 0,
			wantApplied:  false,
			wantMessage:  nil,
			wantAttempts: 1,
		},
		{
			name:         "failure stores message",
			transition:   Transition{From: model.StatusProcessing, To: model.StatusFailed, ErrorMessage: "transcribe failed: boom"},
			rowsAffected: 1,
			wantApplied:  true,
			wantMessage:  "transcribe failed: boom",
			wantAttempts: 0,
		},
		{
			name:         "retry clears message even if one is given",
			transition:   Transition{From: model.StatusFailed, To: model.StatusUploaded, ErrorMessage: "ignored"},
			rowsAffected: 1,
			wantApplied:  true,
			wantMessage:  nil,
			wantAttempts: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)

			mock.ExpectExec(regexp.QuoteMeta(`UPDATE job_videos`)).
				WithArgs(string(tt.transition.To), nil, nil, nil, tt.wantMessage, tt.wantAttempts, int64(7), string(tt.transition.From)).
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))

			applied, err := store.TransitionJobVideo(context.Background(), 7, tt.transition)
			require.NoError(t, err)
			assert.Equal(t, tt.wantApplied, applied)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTransitionJobVideo_UsesPostgresPlaceholders(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`WHERE id = \$7 AND status = \$8`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := store.TransitionJobVideo(context.Background(), 1, Transition{From: model.StatusUploadPending, To: model.StatusUploaded})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionJobVideo_RejectsIllegalEdges(t *testing.T) {
	illegal := []Transition{
		{From: model.StatusUploadPending, To: model.StatusProcessing},
		{From: model.StatusProcessed, To: model.StatusUploaded},
		{From: model.StatusFailed, To: model.StatusProcessed},
		{From: model.StatusUploaded, To: model.StatusUploaded},
	}

	for _, tr := range illegal {
		t.Run(fmt.Sprintf("%s->%s", tr.From, tr.To), func(t *testing.T) {
			store, mock := newMockStore(t)

			applied, err := store.TransitionJobVideo(context.Background(), 1, tr)
			assert.False(t, applied)
			assert.ErrorIs(t, err, ErrIllegalTransition)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTransitionJobVideo_DatabaseError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE job_videos`)).WillReturnError(errors.New("connection reset"))

	applied, err := store.TransitionJobVideo(context.Background(), 1, Transition{From: model.StatusUploaded, To: model.StatusProcessing})
	assert.False(t, applied)
	assert.ErrorContains(t, err, "connection reset")
}

func TestGetJobVideo_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM job_videos WHERE id = $1`)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	jv, err := store.GetJobVideo(context.Background(), 42)
	assert.Nil(t, jv)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateTrade_Duplicate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO trades (name, slug) VALUES ($1, $2) RETURNING id`)).
		WithArgs("Plumbing", "plumbing").
		WillReturnError(errUnique)

	err := store.CreateTrade(context.Background(), &model.Trade{Name: "Plumbing", Slug: "plumbing"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM job_videos WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := store.WithTx(context.Background(), func(tx *Store) error {
		if _, err := tx.DeleteJobVideo(context.Background(), 3); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_NestedReusesTransaction(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := store.WithTx(context.Background(), func(tx *Store) error {
		return tx.WithTx(context.Background(), func(inner *Store) error {
			assert.Same(t, tx, inner)
			return nil
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUniqueNames(t *testing.T) {
	got := uniqueNames([]string{" Pipe Wrench ", "pipe wrench", "", "PTFE tape", "  "})
	assert.Equal(t, []string{"Pipe Wrench", "PTFE tape"}, got)
}

func TestSplitAliases(t *testing.T) {
	assert.Nil(t, splitAliases(sqlNull("")))
	assert.Equal(t, []string{"teflon tape", "plumber's tape"}, splitAliases(sqlNull("teflon tape, plumber's tape,")))
}

func sqlNull(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
