//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"plumberf/internal/api/server"
	"plumberf/internal/api/v1/routes"
	"plumberf/internal/api/v1/services"
	"plumberf/internal/app/catalog"
	"plumberf/internal/app/export"
	"plumberf/internal/app/lessons"
	"plumberf/internal/app/lifecycle"
	"plumberf/internal/config"
)

var storeSet = wire.NewSet(provideStore)

var queueSet = wire.NewSet(provideRedis, provideQueue, provideMetrics)

var coordinatorSet = wire.NewSet(
	storeSet,
	queueSet,
	provideStorage,
	provideAllocator,
	lifecycle.NewCoordinator,
)

var pipelineSet = wire.NewSet(
	provideOpenAIClient,
	provideFetcher,
	provideTranscriber,
	provideSegmenter,
	provideTermSource,
	provideExtractor,
	providePipeline,
)

func InitializeServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*server.Server, func(), error) {
	wire.Build(
		coordinatorSet,
		lessons.NewService,
		provideCatalogStore,
		catalog.NewService,
		services.NewJobVideoService,
		services.NewLessonService,
		services.NewCatalogService,
		wire.Struct(new(routes.ServiceContainer), "*"),
		provideServerConfig,
		server.NewServer,
	)
	return nil, nil, nil
}

func InitializeWorker(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Worker, func(), error) {
	wire.Build(
		coordinatorSet,
		pipelineSet,
		provideProcessor,
		providePool,
		provideHealthServer,
		provideWorker,
	)
	return nil, nil, nil
}

func InitializeCoordinator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*lifecycle.Coordinator, func(), error) {
	wire.Build(coordinatorSet)
	return nil, nil, nil
}

func InitializeCatalog(cfg *config.Config, logger *zap.Logger) (*catalog.Service, func(), error) {
	wire.Build(storeSet, provideCatalogStore, catalog.NewService)
	return nil, nil, nil
}

func InitializeExport(cfg *config.Config, logger *zap.Logger) (*Export, func(), error) {
	wire.Build(
		storeSet,
		provideExportSource,
		export.NewExporter,
		provideCatalogStore,
		catalog.NewService,
		wire.Struct(new(Export), "*"),
	)
	return nil, nil, nil
}
