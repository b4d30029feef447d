// Package catalog manages the reference data lessons are built from:
// trades and the tool, material and tag vocabulary.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/model"
	"plumberf/internal/app/repository"
)

// Store is the persistence the catalog needs.
type Store interface {
	repository.TradeRepository
	repository.VocabularyRepository
}

// TermParams creates a tool, material or tag.
type TermParams struct {
	Name     string
	TradeID  *int64
	Aliases  []string
	Category *string
}

// Service is the catalog store's business layer.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a catalog service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// CreateTrade adds a trade. The slug is its permanent external id.
func (s *Service) CreateTrade(ctx context.Context, name, slug string) (*model.Trade, error) {
	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(slug)
	if name == "" {
		return nil, apperrors.InvalidField("name", "is required")
	}
	if !model.ValidSlug(slug) {
		return nil, apperrors.InvalidField("slug", "must be lowercase letters, digits and single hyphens")
	}

	trade := &model.Trade{Name: name, Slug: slug}
	if err := s.store.CreateTrade(ctx, trade); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.InvalidField("slug", fmt.Sprintf("trade %q already exists", slug))
		}
		return nil, err
	}
	s.logger.Info("trade created", zap.Int64("trade_id", trade.ID), zap.String("slug", trade.Slug))
	return trade, nil
}

// GetTrade looks a trade up by slug.
func (s *Service) GetTrade(ctx context.Context, slug string) (*model.Trade, error) {
	return s.store.GetTradeBySlug(ctx, strings.TrimSpace(slug))
}

// GetTradeByID looks a trade up by its internal id.
func (s *Service) GetTradeByID(ctx context.Context, id int64) (*model.Trade, error) {
	return s.store.GetTrade(ctx, id)
}

// ListTrades returns every trade.
func (s *Service) ListTrades(ctx context.Context) ([]model.Trade, error) {
	return s.store.ListTrades(ctx)
}

// CreateTool adds a tool, global when TradeID is nil.
func (s *Service) CreateTool(ctx context.Context, p TermParams) (*model.Tool, error) {
	if err := s.checkTerm(ctx, &p); err != nil {
		return nil, err
	}
	tool := &model.Tool{Name: p.Name, TradeID: p.TradeID, Aliases: p.Aliases}
	if err := s.store.CreateTool(ctx, tool); err != nil {
		return nil, err
	}
	return tool, nil
}

// ListTools returns the tools visible to a trade, or all tools when tradeID is nil.
func (s *Service) ListTools(ctx context.Context, tradeID *int64) ([]model.Tool, error) {
	return s.store.ListTools(ctx, tradeID)
}

// CreateMaterial adds a material, global when TradeID is nil.
func (s *Service) CreateMaterial(ctx context.Context, p TermParams) (*model.Material, error) {
	if err := s.checkTerm(ctx, &p); err != nil {
		return nil, err
	}
	material := &model.Material{Name: p.Name, TradeID: p.TradeID, Aliases: p.Aliases}
	if err := s.store.CreateMaterial(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

// ListMaterials returns the materials visible to a trade, or all when tradeID is nil.
func (s *Service) ListMaterials(ctx context.Context, tradeID *int64) ([]model.Material, error) {
	return s.store.ListMaterials(ctx, tradeID)
}

// CreateTag adds a tag, global when TradeID is nil.
func (s *Service) CreateTag(ctx context.Context, p TermParams) (*model.Tag, error) {
	if err := s.checkTerm(ctx, &p); err != nil {
		return nil, err
	}
	tag := &model.Tag{Name: p.Name, TradeID: p.TradeID, Category: p.Category}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// ListTags returns the tags visible to a trade, or all when tradeID is nil.
func (s *Service) ListTags(ctx context.Context, tradeID *int64) ([]model.Tag, error) {
	return s.store.ListTags(ctx, tradeID)
}

func (s *Service) checkTerm(ctx context.Context, p *TermParams) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperrors.InvalidField("name", "is required")
	}
	if len(p.Name) > 255 {
		return apperrors.InvalidField("name", "must be at most 255 characters")
	}
	p.Aliases = cleanAliases(p.Name, p.Aliases)
	if p.Category != nil {
		c := strings.TrimSpace(*p.Category)
		p.Category = lo.Ternary(c == "", nil, &c)
	}
	if p.TradeID == nil {
		return nil
	}
	if _, err := s.store.GetTrade(ctx, *p.TradeID); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.InvalidField("trade_id", fmt.Sprintf("trade %d does not exist", *p.TradeID))
		}
		return err
	}
	return nil
}

// cleanAliases trims, drops blanks and commas, and removes repeats of the name.
func cleanAliases(name string, aliases []string) []string {
	seen := map[string]bool{strings.ToLower(name): true}
	return lo.FilterMap(aliases, func(a string, _ int) (string, bool) {
		a = strings.TrimSpace(strings.ReplaceAll(a, ",", " "))
		key := strings.ToLower(a)
		if a == "" || seen[key] {
			return "", false
		}
		seen[key] = true
		return a, true
	})
}
