package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"plumberf/internal/app/model"
)

// TermSource supplies the catalog vocabulary usable for a trade.
type TermSource interface {
	Terms(ctx context.Context, kind model.VocabularyKind, tradeID int64) ([]model.Term, error)
}

// VocabularyExtractor tags steps with the tools and materials whose name or
// alias appears as a whole word in the step text. Tags are matched against
// the full transcript.
type VocabularyExtractor struct {
	terms TermSource
}

// NewVocabularyExtractor creates an extractor backed by the catalog.
func NewVocabularyExtractor(terms TermSource) *VocabularyExtractor {
	return &VocabularyExtractor{terms: terms}
}

type termMatcher struct {
	name     string
	patterns []*regexp.Regexp
}

func (m termMatcher) match(text string) bool {
	return lo.SomeBy(m.patterns, func(p *regexp.Regexp) bool {
		return p.MatchString(text)
	})
}

// Extract implements EntityExtractor.
func (e *VocabularyExtractor) Extract(ctx context.Context, in Input, t *Transcript, steps []model.StepDraft) ([]string, error) {
	tools, err := e.matchers(ctx, model.VocabularyTools, in.TradeID)
	if err != nil {
		return nil, err
	}
	materials, err := e.matchers(ctx, model.VocabularyMaterials, in.TradeID)
	if err != nil {
		return nil, err
	}
	tags, err := e.matchers(ctx, model.VocabularyTags, in.TradeID)
	if err != nil {
		return nil, err
	}

	for i := range steps {
		text := steps[i].Title + " " + steps[i].Description
		steps[i].Tools = lo.Uniq(append(steps[i].Tools, matchAll(tools, text)...))
		steps[i].Materials = lo.Uniq(append(steps[i].Materials, matchAll(materials, text)...))
	}
	return matchAll(tags, t.Text), nil
}

func (e *VocabularyExtractor) matchers(ctx context.Context, kind model.VocabularyKind, tradeID int64) ([]termMatcher, error) {
	terms, err := e.terms.Terms(ctx, kind, tradeID)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	return lo.Map(terms, func(term model.Term, _ int) termMatcher {
		names := lo.Uniq(append([]string{term.Name}, term.Aliases...))
		return termMatcher{
			name: term.Name,
			patterns: lo.FilterMap(names, func(name string, _ int) (*regexp.Regexp, bool) {
				name = strings.TrimSpace(name)
				if name == "" {
					return nil, false
				}
				return wholeWord(name), true
			}),
		}
	}), nil
}

func matchAll(matchers []termMatcher, text string) []string {
	return lo.Uniq(lo.FilterMap(matchers, func(m termMatcher, _ int) (string, bool) {
		return m.name, m.match(text)
	}))
}

// wholeWord matches name case-insensitively when not surrounded by letters or digits.
func wholeWord(name string) *regexp.Regexp {
	words := strings.Fields(regexp.QuoteMeta(name))
	return regexp.MustCompile(`(?i)(?:^|[^\pL\pN])` + strings.Join(words, `\s+`) + `(?:$|[^\pL\pN])`)
}
