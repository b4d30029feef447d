package services

import (
	"context"

	"plumberf/internal/api/v1/dto"
	"plumberf/internal/app/catalog"
	"plumberf/internal/app/model"
)

// CatalogServiceImpl implements CatalogService
type CatalogServiceImpl struct {
	catalog *catalog.Service
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogService *catalog.Service) CatalogService {
	return &CatalogServiceImpl{catalog: catalogService}
}

func (s *CatalogServiceImpl) CreateTrade(ctx context.Context, req *dto.CreateTradeRequest) (*model.Trade, error) {
	return s.catalog.CreateTrade(ctx, req.Name, req.Slug)
}

func (s *CatalogServiceImpl) GetTrade(ctx context.Context, slug string) (*model.Trade, error) {
	return s.catalog.GetTrade(ctx, slug)
}

func (s *CatalogServiceImpl) ListTrades(ctx context.Context) ([]model.Trade, error) {
	return s.catalog.ListTrades(ctx)
}

func (s *CatalogServiceImpl) CreateTool(ctx context.Context, req *dto.CreateTermRequest) (*model.Tool, error) {
	return s.catalog.CreateTool(ctx, termParams(req))
}

func (s *CatalogServiceImpl) ListTools(ctx context.Context, query dto.VocabularyQuery) ([]model.Tool, error) {
	return s.catalog.ListTools(ctx, query.TradeID)
}

func (s *CatalogServiceImpl) CreateMaterial(ctx context.Context, req *dto.CreateTermRequest) (*model.Material, error) {
	return s.catalog.CreateMaterial(ctx, termParams(req))
}

func (s *CatalogServiceImpl) ListMaterials(ctx context.Context, query dto.VocabularyQuery) ([]model.Material, error) {
	return s.catalog.ListMaterials(ctx, query.TradeID)
}

func (s *CatalogServiceImpl) CreateTag(ctx context.Context, req *dto.CreateTermRequest) (*model.Tag, error) {
	return s.catalog.CreateTag(ctx, termParams(req))
}

func (s *CatalogServiceImpl) ListTags(ctx context.Context, query dto.VocabularyQuery) ([]model.Tag, error) {
	return s.catalog.ListTags(ctx, query.TradeID)
}

func termParams(req *dto.CreateTermRequest) catalog.TermParams {
	return catalog.TermParams{
		Name:     req.Name,
		TradeID:  req.TradeID,
		Aliases:  req.Aliases,
		Category: req.Category,
	}
}
