package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"plumberf/internal/app/model"
	"plumberf/internal/app/repository/migrate"
	"plumberf/internal/app/repository/sqlite"
	"plumberf/internal/config"
)

func testConfig(t *testing.T, redisAddr string) *config.Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "plumberf.sqlite")
	db, err := sqlite.Open(path)
	require.NoError(t, err)
	_, err = migrate.Up(context.Background(), db, "sqlite3", nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	return &config.Config{
		AppEnv:         "test",
		LogLevel:       "info",
		DatabaseDriver: "sqlite3",
		DatabaseURL:    path,
		HTTP: config.HTTPConfig{
			Host:         "127.0.0.1",
			Port:         "8000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Redis: config.RedisConfig{Addr: redisAddr},
		Queue: config.QueueConfig{Name: "plumberf:test"},
		Store: config.StorageConfig{
			Backend:        "local",
			LocalUploadDir: t.TempDir(),
			UploadURLTTL:   time.Hour,
		},
		OpenAI: config.OpenAIConfig{
			WhisperModel: "whisper-1",
			Timeout:      time.Minute,
		},
		Worker:    config.WorkerConfig{Concurrency: 3, HealthAddr: "127.0.0.1:0"},
		Segmenter: config.SegmenterConfig{MinGapSec: 2, MaxStepSec: 90},
	}
}

func TestInitializeServer(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, mr.Addr())

	srv, cleanup, err := InitializeServer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cleanup()

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trades", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "plumberf_queue_depth 0")
}

func TestInitializeServer_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	cfg := testConfig(t, addr)

	_, _, err := InitializeServer(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "Redis")
}

func TestInitializeWorker(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, mr.Addr())

	_, _, err := InitializeWorker(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "API key is required")

	cfg.OpenAI.APIKey = "sk-test-0123456789abcdef"
	w, cleanup, err := InitializeWorker(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, 3, w.Pool.Size())
	assert.Equal(t, "127.0.0.1:0", w.HealthAddr)
	status := w.Health.Status(context.Background())
	assert.True(t, status.Database.Connected)
	assert.Equal(t, "plumberf:test", status.Queue)
}

func TestInitializeExport(t *testing.T) {
	cfg := testConfig(t, "unused:6379")
	ctx := context.Background()

	deps, cleanup, err := InitializeExport(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cleanup()

	trade, err := deps.Catalog.CreateTrade(ctx, "Plumbing", "plumbing")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "lessons.xlsx")
	report, err := deps.Exporter.ToExcel(ctx, model.LessonFilter{TradeID: trade.ID}, path, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Lessons)
	assert.FileExists(t, path)
}

func TestProvideServerConfig(t *testing.T) {
	cfg := testConfig(t, "unused:6379")

	sc := provideServerConfig(cfg)

	assert.Equal(t, "127.0.0.1:8000", sc.Addr)
	assert.Equal(t, 20*time.Second, sc.IdleTimeout)
	assert.Equal(t, "test", sc.Environment)
}
