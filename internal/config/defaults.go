package config

import "time"

// Default configuration values
const (
	DefaultAppEnv         = "development"
	DefaultDatabaseDriver = "postgres"
	DefaultHTTPHost       = "0.0.0.0"
	DefaultHTTPPort       = "8000"
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultLogLevel       = "info"

	DefaultQueueName = "plumberf:job-videos"
	DefaultRedisAddr = "localhost:6379"

	DefaultStorageBackend = "local"
	DefaultLocalUploadDir = "./data/uploads"
	DefaultMinioBucket    = "job-videos"
	DefaultUploadURLTTL   = time.Hour

	DefaultWhisperModel       = "whisper-1"
	DefaultOpenAITimeout      = 5 * time.Minute
	DefaultWorkerConcurrency  = 2
	DefaultWorkerHealthAddr   = ":8081"
	DefaultWorkerDrainTimeout = 2 * time.Minute

	DefaultSegmentMinGapSec  = 2.0
	DefaultSegmentMaxStepSec = 90.0
)
