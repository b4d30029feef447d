package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app@localhost/plumberf?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "0.0.0.0:8000", cfg.HTTP.Addr())
	assert.Equal(t, "local", cfg.Store.Backend)
	assert.Equal(t, DefaultQueueName, cfg.Queue.Name)
	assert.Equal(t, 2, cfg.Worker.Concurrency)
	assert.Equal(t, 2*time.Minute, cfg.Worker.DrainTimeout)
	assert.Equal(t, 2.0, cfg.Segmenter.MinGapSec)
	assert.Equal(t, time.Hour, cfg.Store.UploadURLTTL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FailsClosedWithoutDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "x")
	t.Setenv("WORKER_CONCURRENCY", "many")
	t.Setenv("UPLOAD_URL_TTL", "soon")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WORKER_CONCURRENCY")
	assert.Contains(t, err.Error(), "UPLOAD_URL_TTL")
}

func TestValidate(t *testing.T) {
	t.Setenv("DATABASE_URL", "file.db")
	base := func() *Config {
		cfg, err := FromEnv()
		require.NoError(t, err)
		return cfg
	}

	testCases := []struct {
		name          string
		mutate        func(c *Config)
		errorContains string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:          "unknown driver",
			mutate:        func(c *Config) { c.DatabaseDriver = "mysql" },
			errorContains: "DATABASE_DRIVER",
		},
		{
			name:          "minio without credentials",
			mutate:        func(c *Config) { c.Store.Backend = "minio"; c.Store.MinioEndpoint = "localhost:9000" },
			errorContains: "MINIO_ACCESS_KEY, MINIO_SECRET_KEY",
		},
		{
			name: "minio with credentials",
			mutate: func(c *Config) {
				c.Store.Backend = "minio"
				c.Store.MinioEndpoint = "localhost:9000"
				c.Store.MinioAccessKey = "access"
				c.Store.MinioSecretKey = "secret"
			},
		},
		{
			name:          "bad port",
			mutate:        func(c *Config) { c.HTTP.Port = "http" },
			errorContains: "port invalid",
		},
		{
			name:          "bad log level",
			mutate:        func(c *Config) { c.LogLevel = "loud" },
			errorContains: "LOG_LEVEL",
		},
		{
			name:          "segment gap above max step",
			mutate:        func(c *Config) { c.Segmenter.MinGapSec = 120 },
			errorContains: "segmenter",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorContains)
		})
	}
}

func TestValidateWorker(t *testing.T) {
	cfg := &Config{
		OpenAI: OpenAIConfig{APIKey: "", Timeout: time.Minute},
		Worker: WorkerConfig{Concurrency: 2},
	}
	assert.Error(t, cfg.ValidateWorker())

	cfg.OpenAI.APIKey = "sk-1234567890abcdef1234567890"
	assert.NoError(t, cfg.ValidateWorker())

	cfg.Worker.Concurrency = 500
	assert.Error(t, cfg.ValidateWorker())
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PLUMBERF_TEST_VALUE=loaded\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(wd)
		os.Unsetenv("PLUMBERF_TEST_VALUE")
	})

	path, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ".env", path)
	assert.Equal(t, "loaded", os.Getenv("PLUMBERF_TEST_VALUE"))
}
