package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"plumberf/internal/app/model"
	"plumberf/internal/app/repository"
	"plumberf/internal/app/repository/migrate"
	"plumberf/internal/app/repository/pg"
	"plumberf/internal/app/repository/sqlite"
)

// SetupTestStore returns a migrated store. It uses POSTGRES_TEST_URL when set and a
// throwaway sqlite file otherwise; either way the database is cleaned up with the test.
func SetupTestStore(t *testing.T) *repository.Store {
	t.Helper()

	if pgURL := os.Getenv("POSTGRES_TEST_URL"); pgURL != "" {
		return setupTestPostgres(t, pgURL)
	}
	return SetupTestSQLite(t)
}

// SetupTestSQLite creates a migrated sqlite store in the test's temp dir.
func SetupTestSQLite(t *testing.T) *repository.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), fmt.Sprintf("plumberf_%d.sqlite", time.Now().UnixNano()))
	db, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("Failed to create SQLite test database: %v", err)
	}
	if _, err := migrate.Up(context.Background(), db, "sqlite3", nil); err != nil {
		db.Close()
		t.Fatalf("Failed to migrate SQLite test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return repository.NewStore(db, sqlite.Dialect)
}

func setupTestPostgres(t *testing.T, url string) *repository.Store {
	t.Helper()

	db, err := pg.Open(url)
	if err != nil {
		t.Fatalf("Failed to connect to PostgreSQL test database: %v", err)
	}
	if _, err := migrate.Up(context.Background(), db, "postgres", nil); err != nil {
		db.Close()
		t.Fatalf("Failed to migrate PostgreSQL test database: %v", err)
	}

	t.Cleanup(func() {
		for _, table := range []string{"job_videos", "lesson_tags", "tags", "tools", "materials", "trades"} {
			if _, err := db.Exec("DELETE FROM " + table); err != nil {
				t.Logf("Failed to clean %s: %v", table, err)
			}
		}
		db.Close()
	})
	return repository.NewStore(db, pg.Dialect)
}

// SeedTrade inserts a trade with the given slug and returns it.
func SeedTrade(t *testing.T, store *repository.Store, slug string) *model.Trade {
	t.Helper()

	trade := &model.Trade{Name: slug, Slug: slug}
	if err := store.CreateTrade(context.Background(), trade); err != nil {
		t.Fatalf("Failed to seed trade %s: %v", slug, err)
	}
	return trade
}

// SeedJobVideo inserts a job video in the given status for trade.
func SeedJobVideo(t *testing.T, store *repository.Store, tradeID int64, status model.JobVideoStatus) *model.JobVideo {
	t.Helper()

	jv := &model.JobVideo{
		UploaderID: 1,
		TradeID:    tradeID,
		FileURL:    "s3://job-videos/test.mp4",
		Status:     status,
	}
	if status == model.StatusUploadPending {
		jv.FileURL = ""
	}
	if err := store.CreateJobVideo(context.Background(), jv); err != nil {
		t.Fatalf("Failed to seed job video: %v", err)
	}
	return jv
}
