package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingDatabaseURL is returned when DATABASE_URL is not configured.
// There is no built-in connection string to fall back on.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// Config is the process configuration read from the environment.
type Config struct {
	AppEnv   string
	LogLevel string

	DatabaseDriver string
	DatabaseURL    string

	HTTP      HTTPConfig
	Redis     RedisConfig
	Queue     QueueConfig
	Store     StorageConfig
	OpenAI    OpenAIConfig
	Worker    WorkerConfig
	Segmenter SegmenterConfig
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Addr returns host:port.
func (h HTTPConfig) Addr() string {
	return h.Host + ":" + h.Port
}

// RedisConfig configures the redis connection used by the work queue.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// QueueConfig names the work queue.
type QueueConfig struct {
	Name string
}

// StorageConfig selects and configures the upload storage backend.
type StorageConfig struct {
	Backend        string
	LocalUploadDir string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	UploadURLTTL   time.Duration
}

// OpenAIConfig configures the transcription stage.
type OpenAIConfig struct {
	APIKey       string
	WhisperModel string
	Timeout      time.Duration
}

// WorkerConfig configures the processing worker pool.
type WorkerConfig struct {
	Concurrency int
	HealthAddr  string
	// DrainTimeout bounds how long an in-flight job video may keep running
	// after shutdown starts.
	DrainTimeout time.Duration
}

// SegmenterConfig tunes how transcript segments are grouped into steps.
type SegmenterConfig struct {
	MinGapSec  float64
	MaxStepSec float64
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// LoadEnv loads environment variables from the first .env file found.
// It returns the path it loaded, or "" when none exists.
func LoadEnv() (string, error) {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	// Environment variables might be set system-wide, so a missing file is fine.
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}
	return "", nil
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads the configuration from the environment without validating it.
func FromEnv() (*Config, error) {
	var errs []string
	cfg := &Config{
		AppEnv:         getEnvOrDefault("APP_ENV", DefaultAppEnv),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", DefaultLogLevel),
		DatabaseDriver: getEnvOrDefault("DATABASE_DRIVER", DefaultDatabaseDriver),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		HTTP: HTTPConfig{
			Host:         getEnvOrDefault("HTTP_HOST", DefaultHTTPHost),
			Port:         getEnvOrDefault("HTTP_PORT", DefaultHTTPPort),
			ReadTimeout:  getDuration("HTTP_READ_TIMEOUT", DefaultReadTimeout, &errs),
			WriteTimeout: getDuration("HTTP_WRITE_TIMEOUT", DefaultWriteTimeout, &errs),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", DefaultRedisAddr),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0, &errs),
		},
		Queue: QueueConfig{
			Name: getEnvOrDefault("QUEUE_NAME", DefaultQueueName),
		},
		Store: StorageConfig{
			Backend:        getEnvOrDefault("STORAGE_BACKEND", DefaultStorageBackend),
			LocalUploadDir: getEnvOrDefault("LOCAL_UPLOAD_DIR", DefaultLocalUploadDir),
			MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
			MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
			MinioBucket:    getEnvOrDefault("MINIO_BUCKET", DefaultMinioBucket),
			MinioUseSSL:    getBool("MINIO_USE_SSL", false, &errs),
			UploadURLTTL:   getDuration("UPLOAD_URL_TTL", DefaultUploadURLTTL, &errs),
		},
		OpenAI: OpenAIConfig{
			APIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			WhisperModel: getEnvOrDefault("WHISPER_MODEL", DefaultWhisperModel),
			Timeout:      getDuration("OPENAI_TIMEOUT", DefaultOpenAITimeout, &errs),
		},
		Worker: WorkerConfig{
			Concurrency:  getInt("WORKER_CONCURRENCY", DefaultWorkerConcurrency, &errs),
			HealthAddr:   getEnvOrDefault("WORKER_HEALTH_ADDR", DefaultWorkerHealthAddr),
			DrainTimeout: getDuration("WORKER_DRAIN_TIMEOUT", DefaultWorkerDrainTimeout, &errs),
		},
		Segmenter: SegmenterConfig{
			MinGapSec:  getFloat("SEGMENT_MIN_GAP_SEC", DefaultSegmentMinGapSec, &errs),
			MaxStepSec: getFloat("SEGMENT_MAX_STEP_SEC", DefaultSegmentMaxStepSec, &errs),
		},
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// GetProjectRoot finds the project root directory by looking for go.mod
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find project root (go.mod not found)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int, errs *[]string) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: not an integer", key))
		return defaultValue
	}
	return v
}

func getFloat(key string, defaultValue float64, errs *[]string) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: not a number", key))
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool, errs *[]string) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: not a boolean", key))
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: not a duration", key))
		return defaultValue
	}
	return v
}
