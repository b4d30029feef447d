package migrate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plumberf/internal/app/repository/sqlite"
)

func TestLoad(t *testing.T) {
	for _, driver := range []string{"postgres", "sqlite3"} {
		t.Run(driver, func(t *testing.T) {
			migrations, err := Load(driver)
			require.NoError(t, err)
			require.NotEmpty(t, migrations)
			assert.Equal(t, "0001_init", migrations[0].Version)
			assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS job_videos")
		})
	}

	_, err := Load("mysql")
	assert.Error(t, err)
}

func TestUp_IsIdempotent(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "migrate.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	applied, err := Up(ctx, db, "sqlite3", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init"}, applied)

	applied, err = Up(ctx, db, "sqlite3", nil)
	require.NoError(t, err)
	assert.Empty(t, applied)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'lesson_transcripts'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSchema_RejectsStepEndingBeforeStart(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "check.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	_, err = Up(context.Background(), db, "sqlite3", nil)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO trades (name, slug) VALUES ('Plumbing', 'plumbing')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO job_videos (uploader_id, trade_id, status) VALUES (1, 1, 'processing')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO lessons (job_video_id, trade_id, title) VALUES (1, 1, 'Fix a leak')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO lesson_steps (lesson_id, step_number, title, start_time_sec, end_time_sec) VALUES (1, 1, 'a', 30, 10)`)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO job_videos (uploader_id, trade_id, status) VALUES (1, 1, 'archived')`)
	assert.Error(t, err)
}
