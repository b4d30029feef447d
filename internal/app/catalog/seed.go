package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/model"
)

// SeedFile is the YAML layout accepted by Seed. Vocabulary at the top level
// is global; vocabulary under a trade is scoped to it.
type SeedFile struct {
	Trades    []SeedTrade `yaml:"trades"`
	Tools     []SeedTerm  `yaml:"tools"`
	Materials []SeedTerm  `yaml:"materials"`
	Tags      []SeedTerm  `yaml:"tags"`
}

// SeedTrade is a trade and its scoped vocabulary.
type SeedTrade struct {
	Name      string     `yaml:"name"`
	Slug      string     `yaml:"slug"`
	Tools     []SeedTerm `yaml:"tools"`
	Materials []SeedTerm `yaml:"materials"`
	Tags      []SeedTerm `yaml:"tags"`
}

// SeedTerm is one vocabulary entry. A plain string is accepted as the name.
type SeedTerm struct {
	Name     string   `yaml:"name"`
	Aliases  []string `yaml:"aliases"`
	Category string   `yaml:"category"`
}

// UnmarshalYAML accepts either a mapping or a bare name.
func (t *SeedTerm) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		t.Name = value.Value
		return nil
	}
	type plain SeedTerm
	return value.Decode((*plain)(t))
}

// SeedReport counts what a seed run created.
type SeedReport struct {
	Trades    int `json:"trades"`
	Tools     int `json:"tools"`
	Materials int `json:"materials"`
	Tags      int `json:"tags"`
	Skipped   int `json:"skipped"`
}

// ParseSeed decodes a seed document.
func ParseSeed(r io.Reader) (*SeedFile, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// LoadSeedFile reads and decodes a seed file from disk.
func LoadSeedFile(path string) (*SeedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return ParseSeed(f)
}

// Seed creates whatever in f does not exist yet. Trades are matched by slug,
// vocabulary by case-insensitive name within the same scope, so running the
// same file twice creates nothing the second time.
func (s *Service) Seed(ctx context.Context, f *SeedFile) (*SeedReport, error) {
	report := &SeedReport{}

	if err := s.seedTerms(ctx, nil, f.Tools, f.Materials, f.Tags, report); err != nil {
		return report, err
	}

	for _, st := range f.Trades {
		trade, err := s.store.GetTradeBySlug(ctx, strings.TrimSpace(st.Slug))
		switch {
		case err == nil:
			report.Skipped++
		case apperrors.IsNotFound(err):
			trade, err = s.CreateTrade(ctx, st.Name, st.Slug)
			if err != nil {
				return report, fmt.Errorf("trade %q: %w", st.Slug, err)
			}
			report.Trades++
		default:
			return report, err
		}

		if err := s.seedTerms(ctx, &trade.ID, st.Tools, st.Materials, st.Tags, report); err != nil {
			return report, fmt.Errorf("trade %q: %w", st.Slug, err)
		}
	}

	s.logger.Info("catalog seeded",
		zap.Int("trades", report.Trades),
		zap.Int("tools", report.Tools),
		zap.Int("materials", report.Materials),
		zap.Int("tags", report.Tags),
		zap.Int("skipped", report.Skipped))
	return report, nil
}

func (s *Service) seedTerms(ctx context.Context, tradeID *int64, tools, materials, tags []SeedTerm, report *SeedReport) error {
	if len(tools) > 0 {
		existing, err := s.store.ListTools(ctx, tradeID)
		if err != nil {
			return err
		}
		have := namesInScope(tradeID, existing, func(t model.Tool) (string, *int64) { return t.Name, t.TradeID })
		for _, t := range tools {
			if have[strings.ToLower(strings.TrimSpace(t.Name))] {
				report.Skipped++
				continue
			}
			if _, err := s.CreateTool(ctx, TermParams{Name: t.Name, TradeID: tradeID, Aliases: t.Aliases}); err != nil {
				return fmt.Errorf("tool %q: %w", t.Name, err)
			}
			have[strings.ToLower(strings.TrimSpace(t.Name))] = true
			report.Tools++
		}
	}

	if len(materials) > 0 {
		existing, err := s.store.ListMaterials(ctx, tradeID)
		if err != nil {
			return err
		}
		have := namesInScope(tradeID, existing, func(m model.Material) (string, *int64) { return m.Name, m.TradeID })
		for _, m := range materials {
			if have[strings.ToLower(strings.TrimSpace(m.Name))] {
				report.Skipped++
				continue
			}
			if _, err := s.CreateMaterial(ctx, TermParams{Name: m.Name, TradeID: tradeID, Aliases: m.Aliases}); err != nil {
				return fmt.Errorf("material %q: %w", m.Name, err)
			}
			have[strings.ToLower(strings.TrimSpace(m.Name))] = true
			report.Materials++
		}
	}

	if len(tags) > 0 {
		existing, err := s.store.ListTags(ctx, tradeID)
		if err != nil {
			return err
		}
		have := namesInScope(tradeID, existing, func(t model.Tag) (string, *int64) { return t.Name, t.TradeID })
		for _, t := range tags {
			if have[strings.ToLower(strings.TrimSpace(t.Name))] {
				report.Skipped++
				continue
			}
			p := TermParams{Name: t.Name, TradeID: tradeID}
			if t.Category != "" {
				p.Category = &t.Category
			}
			if _, err := s.CreateTag(ctx, p); err != nil {
				return fmt.Errorf("tag %q: %w", t.Name, err)
			}
			have[strings.ToLower(strings.TrimSpace(t.Name))] = true
			report.Tags++
		}
	}
	return nil
}

// namesInScope indexes the lowercased names of entries whose trade matches tradeID exactly.
func namesInScope[T any](tradeID *int64, items []T, key func(T) (string, *int64)) map[string]bool {
	names := make(map[string]bool, len(items))
	for _, item := range items {
		name, scope := key(item)
		if sameScope(tradeID, scope) {
			names[strings.ToLower(name)] = true
		}
	}
	return names
}

func sameScope(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
