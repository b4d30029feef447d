package catalog_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plumberf/internal/app/catalog"
	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/model"
	"plumberf/internal/app/testutil"
)

func newService(t *testing.T) *catalog.Service {
	t.Helper()
	return catalog.NewService(testutil.SetupTestSQLite(t), nil)
}

func TestCreateTrade(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	trade, err := svc.CreateTrade(ctx, " Plumbing ", "plumbing")
	require.NoError(t, err)
	assert.Equal(t, "Plumbing", trade.Name)
	assert.NotZero(t, trade.ID)

	got, err := svc.GetTrade(ctx, "plumbing")
	require.NoError(t, err)
	assert.Equal(t, trade.ID, got.ID)

	_, err = svc.CreateTrade(ctx, "Plumbing again", "plumbing")
	assert.True(t, apperrors.IsValidation(err), "slug is unique")

	for _, slug := range []string{"", "Plumbing", "hvac--r", "-hvac", "hvac_r"} {
		_, err = svc.CreateTrade(ctx, "HVAC", slug)
		assert.True(t, apperrors.IsValidation(err), "slug %q", slug)
	}

	_, err = svc.GetTrade(ctx, "roofing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateVocabulary(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	trade, err := svc.CreateTrade(ctx, "Plumbing", "plumbing")
	require.NoError(t, err)

	tool, err := svc.CreateTool(ctx, catalog.TermParams{
		Name:    "  Channel-lock pliers ",
		TradeID: &trade.ID,
		Aliases: []string{"channel locks", " ", "Channel-lock pliers", "CHANNEL LOCKS", "groove, joint"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Channel-lock pliers", tool.Name)
	assert.Equal(t, []string{"channel locks", "groove  joint"}, tool.Aliases)

	_, err = svc.CreateMaterial(ctx, catalog.TermParams{Name: "PTFE tape"})
	require.NoError(t, err)

	category := "fixture_type"
	tag, err := svc.CreateTag(ctx, catalog.TermParams{Name: "sink", Category: &category, TradeID: &trade.ID})
	require.NoError(t, err)
	assert.Equal(t, "fixture_type", *tag.Category)

	_, err = svc.CreateTool(ctx, catalog.TermParams{Name: "  "})
	assert.True(t, apperrors.IsValidation(err))

	missing := int64(404)
	_, err = svc.CreateMaterial(ctx, catalog.TermParams{Name: "Solder", TradeID: &missing})
	assert.True(t, apperrors.IsValidation(err))

	tools, err := svc.ListTools(ctx, &trade.ID)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, []string{"channel locks", "groove  joint"}, tools[0].Aliases)

	materials, err := svc.ListMaterials(ctx, &trade.ID)
	require.NoError(t, err)
	assert.Len(t, materials, 1, "global materials are visible to every trade")
}

const seedYAML = `
tools:
  - Bucket
materials:
  - name: PTFE tape
    aliases: [teflon tape]
trades:
  - name: Plumbing
    slug: plumbing
    tools:
      - name: Channel-lock pliers
        aliases: [channel locks]
      - Bucket
    tags:
      - name: sink
        category: fixture_type
`

func TestSeed_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	f, err := catalog.ParseSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)

	report, err := svc.Seed(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, catalog.SeedReport{Trades: 1, Tools: 3, Materials: 1, Tags: 1}, *report)

	report, err = svc.Seed(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, catalog.SeedReport{Skipped: 6}, *report)

	trade, err := svc.GetTrade(ctx, "plumbing")
	require.NoError(t, err)
	tools, err := svc.ListTools(ctx, &trade.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"Bucket", "Bucket", "Channel-lock pliers"}, names)

	tags, err := svc.ListTags(ctx, &trade.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "fixture_type", *tags[0].Category)
}

func TestParseSeed_Errors(t *testing.T) {
	_, err := catalog.ParseSeed(strings.NewReader("trades:\n  - nmae: typo\n"))
	assert.Error(t, err)

	f, err := catalog.ParseSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Trades)

	_, err = catalog.LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadSeedFile_ShippedCatalog(t *testing.T) {
	f, err := catalog.LoadSeedFile(filepath.Join("..", "..", "..", "configs", "catalog.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, f.Trades)

	svc := newService(t)
	report, err := svc.Seed(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, len(f.Trades), report.Trades)

	plumbing, err := svc.GetTrade(context.Background(), "plumbing")
	require.NoError(t, err)
	tags, err := svc.ListTags(context.Background(), &plumbing.ID)
	require.NoError(t, err)
	assert.True(t, containsTag(tags, "sink"))
}

func containsTag(tags []model.Tag, name string) bool {
	for _, t := range tags {
		if t.Name == name {
			return true
		}
	}
	return false
}
