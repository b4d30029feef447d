package app

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"plumberf/internal/api/server"
	"plumberf/internal/app/catalog"
	"plumberf/internal/app/export"
	"plumberf/internal/app/lifecycle"
	"plumberf/internal/app/metrics"
	"plumberf/internal/app/pipeline"
	"plumberf/internal/app/queue"
	"plumberf/internal/app/repository"
	"plumberf/internal/app/repository/pg"
	"plumberf/internal/app/repository/sqlite"
	"plumberf/internal/app/storage/upload"
	"plumberf/internal/app/worker"
	"plumberf/internal/config"
)

// Export bundles what the export command needs: the exporter and the
// catalog used to resolve trade slugs.
type Export struct {
	Exporter *export.Exporter
	Catalog  *catalog.Service
}

// Worker is a fully assembled processing worker.
type Worker struct {
	Pool       *worker.Pool
	Processor  *worker.Processor
	Health     *worker.HealthServer
	HealthAddr string
}

func provideStore(cfg *config.Config) (*repository.Store, func(), error) {
	var (
		store *repository.Store
		err   error
	)
	switch cfg.DatabaseDriver {
	case "sqlite3":
		store, err = sqlite.NewStore(cfg.DatabaseURL)
	default:
		store, err = pg.NewStore(cfg.DatabaseURL)
	}
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

func provideCatalogStore(store *repository.Store) catalog.Store {
	return store
}

func provideTermSource(store *repository.Store) pipeline.TermSource {
	return store
}

func provideStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (upload.Storage, error) {
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Store.Backend {
	case "minio":
		return upload.NewMinioStorage(ctx, upload.MinioConfig{
			Endpoint:  cfg.Store.MinioEndpoint,
			AccessKey: cfg.Store.MinioAccessKey,
			SecretKey: cfg.Store.MinioSecretKey,
			Bucket:    cfg.Store.MinioBucket,
			UseSSL:    cfg.Store.MinioUseSSL,
			URLTTL:    cfg.Store.UploadURLTTL,
		}, logger)
	default:
		return upload.NewLocalStorage(cfg.Store.LocalUploadDir, logger)
	}
}

func provideAllocator(s upload.Storage) upload.Allocator { return s }

func provideFetcher(s upload.Storage) upload.Fetcher { return s }

func provideRedis(cfg *config.Config) (*redis.Client, error) {
	return queue.NewRedisClient(queue.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func provideQueue(cfg *config.Config, client *redis.Client, logger *zap.Logger) (queue.Queue, func()) {
	q := queue.NewRedisQueue(client, cfg.Queue.Name, logger)
	return q, func() { q.Close() }
}

func provideMetrics(q queue.Queue) *metrics.Metrics {
	m := metrics.New()
	m.RegisterQueueDepth(func() float64 {
		depth, err := q.Depth(context.Background())
		if err != nil {
			return -1
		}
		return float64(depth)
	})
	return m
}

func provideServerConfig(cfg *config.Config) server.Config {
	return server.Config{
		Addr:         cfg.HTTP.Addr(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  2 * cfg.HTTP.ReadTimeout,
		Environment:  cfg.AppEnv,
	}
}

func provideOpenAIClient(cfg *config.Config) (*openai.Client, error) {
	if err := cfg.ValidateWorker(); err != nil {
		return nil, err
	}
	return pipeline.NewOpenAIClient(pipeline.OpenAIConfig{
		APIKey:  cfg.OpenAI.APIKey,
		Timeout: cfg.OpenAI.Timeout,
	}), nil
}

func provideTranscriber(cfg *config.Config, client *openai.Client, fetcher upload.Fetcher, logger *zap.Logger) pipeline.Transcriber {
	extract := pipeline.FFmpegAvailable()
	if !extract {
		logger.Warn("ffmpeg not found, video files are sent to the transcription API as is")
	}
	return pipeline.NewWhisperTranscriber(client, fetcher, cfg.OpenAI.WhisperModel, extract, logger)
}

func provideSegmenter(cfg *config.Config) pipeline.Segmenter {
	return pipeline.NewGapSegmenter(cfg.Segmenter.MinGapSec, cfg.Segmenter.MaxStepSec)
}

func provideExtractor(terms pipeline.TermSource) pipeline.EntityExtractor {
	return pipeline.NewVocabularyExtractor(terms)
}

func providePipeline(t pipeline.Transcriber, s pipeline.Segmenter, e pipeline.EntityExtractor, m *metrics.Metrics, logger *zap.Logger) pipeline.Pipeline {
	return pipeline.NewStagedPipeline(t, s, e, m, logger)
}

func provideProcessor(cfg *config.Config, coord *lifecycle.Coordinator, p pipeline.Pipeline, logger *zap.Logger) *worker.Processor {
	processor := worker.NewProcessor(coord, p, logger)
	processor.SetDrainTimeout(cfg.Worker.DrainTimeout)
	return processor
}

func providePool(cfg *config.Config, q queue.Queue, processor *worker.Processor, logger *zap.Logger) *worker.Pool {
	return worker.NewPool(cfg.Worker.Concurrency, q, processor.Handle, logger)
}

func provideHealthServer(cfg *config.Config, store *repository.Store, q queue.Queue, pool *worker.Pool, processor *worker.Processor, m *metrics.Metrics, logger *zap.Logger) *worker.HealthServer {
	return worker.NewHealthServer(workerID(), cfg.Queue.Name, store, q, pool, processor, m, logger)
}

func provideWorker(cfg *config.Config, pool *worker.Pool, processor *worker.Processor, health *worker.HealthServer) *Worker {
	return &Worker{Pool: pool, Processor: processor, Health: health, HealthAddr: cfg.Worker.HealthAddr}
}

func provideExportSource(store *repository.Store) export.Source {
	return store
}

func workerID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "worker"
	}
	return fmt.Sprintf("%s-%s", host, uuid.NewString()[:8])
}
