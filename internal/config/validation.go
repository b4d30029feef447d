package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validate checks the configuration needed by every command. Secrets have no
// defaults: a missing DATABASE_URL or MinIO credential stops startup.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q (want postgres or sqlite3)", c.DatabaseDriver)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if err := ValidatePort(c.HTTP.Port, "HTTP"); err != nil {
		return err
	}
	if err := ValidateTimeout(c.HTTP.ReadTimeout, "HTTP read"); err != nil {
		return err
	}
	if err := ValidateTimeout(c.HTTP.WriteTimeout, "HTTP write"); err != nil {
		return err
	}
	if strings.TrimSpace(c.Queue.Name) == "" {
		return errors.New("QUEUE_NAME must not be empty")
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if c.Segmenter.MinGapSec <= 0 || c.Segmenter.MaxStepSec <= c.Segmenter.MinGapSec {
		return fmt.Errorf("segmenter: need 0 < SEGMENT_MIN_GAP_SEC < SEGMENT_MAX_STEP_SEC, got %.1f and %.1f",
			c.Segmenter.MinGapSec, c.Segmenter.MaxStepSec)
	}
	return nil
}

// ValidateWorker checks the additional settings the processing worker needs.
func (c *Config) ValidateWorker() error {
	if err := ValidateConcurrency(c.Worker.Concurrency, "worker"); err != nil {
		return err
	}
	if err := ValidateAPIKey(c.OpenAI.APIKey, "OpenAI"); err != nil {
		return err
	}
	return ValidateTimeout(c.OpenAI.Timeout, "OpenAI")
}

// Validate checks the storage backend settings.
func (s StorageConfig) Validate() error {
	switch s.Backend {
	case "local":
		if strings.TrimSpace(s.LocalUploadDir) == "" {
			return errors.New("LOCAL_UPLOAD_DIR must not be empty")
		}
	case "minio":
		var missing []string
		if s.MinioEndpoint == "" {
			missing = append(missing, "MINIO_ENDPOINT")
		}
		if s.MinioAccessKey == "" {
			missing = append(missing, "MINIO_ACCESS_KEY")
		}
		if s.MinioSecretKey == "" {
			missing = append(missing, "MINIO_SECRET_KEY")
		}
		if s.MinioBucket == "" {
			missing = append(missing, "MINIO_BUCKET")
		}
		if len(missing) > 0 {
			return fmt.Errorf("minio storage requires %s", strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q (want local or minio)", s.Backend)
	}
	if s.UploadURLTTL <= 0 || s.UploadURLTTL > 7*24*time.Hour {
		return errors.New("UPLOAD_URL_TTL must be between 1s and 7 days")
	}
	return nil
}

// ParseLogLevel accepts the zap level names.
func ParseLogLevel(level string) (string, error) {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return strings.ToLower(level), nil
	}
	return "", fmt.Errorf("invalid LOG_LEVEL %q", level)
}

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidateConcurrency validates concurrency setting
func ValidateConcurrency(concurrency int, name string) error {
	if concurrency <= 0 {
		return fmt.Errorf("%s concurrency must be positive", name)
	}
	if concurrency > 100 {
		return fmt.Errorf("%s concurrency too high (max 100)", name)
	}
	return nil
}

// ValidateAPIKey validates API key format
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format: must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return fmt.Errorf("invalid OpenAI API key format: too short")
		}
	}
	return nil
}

// ValidatePort validates port number
func ValidatePort(port string, name string) error {
	if port == "" {
		return fmt.Errorf("%s port is required", name)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s port invalid", name)
	}
	return nil
}
