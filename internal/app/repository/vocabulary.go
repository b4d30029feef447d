package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"plumberf/internal/app/model"
)

// termRow is the shared shape of the tools and materials tables.
type termRow struct {
	ID        int64
	Name      string
	TradeID   *int64
	Aliases   []string
	CreatedAt time.Time
}

// CreateTool inserts a tool.
func (s *Store) CreateTool(ctx context.Context, tool *model.Tool) error {
	id, createdAt, err := s.createTerm(ctx, model.VocabularyTools, tool.Name, tool.TradeID, tool.Aliases)
	if err != nil {
		return err
	}
	tool.ID, tool.CreatedAt = id, createdAt
	return nil
}

// ListTools returns tools, optionally limited to one trade plus global ones.
func (s *Store) ListTools(ctx context.Context, tradeID *int64) ([]model.Tool, error) {
	rows, err := s.listTerms(ctx, model.VocabularyTools, tradeID)
	if err != nil {
		return nil, err
	}
	tools := make([]model.Tool, 0, len(rows))
	for _, r := range rows {
		tools = append(tools, model.Tool{ID: r.ID, Name: r.Name, TradeID: r.TradeID, Aliases: r.Aliases, CreatedAt: r.CreatedAt})
	}
	return tools, nil
}

// CreateMaterial inserts a material.
func (s *Store) CreateMaterial(ctx context.Context, material *model.Material) error {
	id, createdAt, err := s.createTerm(ctx, model.VocabularyMaterials, material.Name, material.TradeID, material.Aliases)
	if err != nil {
		return err
	}
	material.ID, material.CreatedAt = id, createdAt
	return nil
}

// ListMaterials returns materials, optionally limited to one trade plus global ones.
func (s *Store) ListMaterials(ctx context.Context, tradeID *int64) ([]model.Material, error) {
	rows, err := s.listTerms(ctx, model.VocabularyMaterials, tradeID)
	if err != nil {
		return nil, err
	}
	materials := make([]model.Material, 0, len(rows))
	for _, r := range rows {
		materials = append(materials, model.Material{ID: r.ID, Name: r.Name, TradeID: r.TradeID, Aliases: r.Aliases, CreatedAt: r.CreatedAt})
	}
	return materials, nil
}

// CreateTag inserts a tag.
func (s *Store) CreateTag(ctx context.Context, tag *model.Tag) error {
	id, err := s.insertID(ctx, `INSERT INTO tags (name, category, trade_id) VALUES (?, ?, ?)`, tag.Name, tag.Category, tag.TradeID)
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return s.queryRow(ctx, `SELECT id, created_at FROM tags WHERE id = ?`, id).Scan(&tag.ID, &tag.CreatedAt)
}

// ListTags returns tags, optionally limited to one trade plus global ones.
func (s *Store) ListTags(ctx context.Context, tradeID *int64) ([]model.Tag, error) {
	query := `SELECT id, name, category, trade_id, created_at FROM tags`
	var args []interface{}
	if tradeID != nil {
		query += ` WHERE trade_id = ? OR trade_id IS NULL`
		args = append(args, *tradeID)
	}
	query += ` ORDER BY name, id`

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	tags := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.TradeID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Terms returns names and aliases of the vocabulary visible to a trade.
func (s *Store) Terms(ctx context.Context, kind model.VocabularyKind, tradeID int64) ([]model.Term, error) {
	if kind == model.VocabularyTags {
		tags, err := s.ListTags(ctx, &tradeID)
		if err != nil {
			return nil, err
		}
		terms := make([]model.Term, 0, len(tags))
		for _, t := range tags {
			terms = append(terms, model.Term{ID: t.ID, Name: t.Name})
		}
		return terms, nil
	}

	rows, err := s.listTerms(ctx, kind, &tradeID)
	if err != nil {
		return nil, err
	}
	terms := make([]model.Term, 0, len(rows))
	for _, r := range rows {
		terms = append(terms, model.Term{ID: r.ID, Name: r.Name, Aliases: r.Aliases})
	}
	return terms, nil
}

func (s *Store) createTerm(ctx context.Context, kind model.VocabularyKind, name string, tradeID *int64, aliases []string) (int64, time.Time, error) {
	table, err := termTable(kind)
	if err != nil {
		return 0, time.Time{}, err
	}
	id, err := s.insertID(ctx, `INSERT INTO `+table+` (name, trade_id, aliases) VALUES (?, ?, ?)`, name, tradeID, joinAliases(aliases))
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("insert %s: %w", table, err)
	}
	var createdAt time.Time
	if err := s.queryRow(ctx, `SELECT created_at FROM `+table+` WHERE id = ?`, id).Scan(&createdAt); err != nil {
		return 0, time.Time{}, fmt.Errorf("scan failed: %w", err)
	}
	return id, createdAt, nil
}

func (s *Store) listTerms(ctx context.Context, kind model.VocabularyKind, tradeID *int64) ([]termRow, error) {
	table, err := termTable(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, name, trade_id, aliases, created_at FROM ` + table
	var args []interface{}
	if tradeID != nil {
		query += ` WHERE trade_id = ? OR trade_id IS NULL`
		args = append(args, *tradeID)
	}
	query += ` ORDER BY name, id`

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var out []termRow
	for rows.Next() {
		var r termRow
		var aliases sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &r.TradeID, &aliases, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		r.Aliases = splitAliases(aliases)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ensureTerm returns the id of a vocabulary entry named name, preferring a
// trade scoped entry over a global one, and creates a trade scoped entry if none exists.
func (s *Store) ensureTerm(ctx context.Context, kind model.VocabularyKind, tradeID int64, name string) (int64, error) {
	table, err := termTable(kind)
	if err != nil {
		return 0, err
	}
	name = strings.TrimSpace(name)

	var id int64
	err = s.queryRow(ctx,
		`SELECT id FROM `+table+`
		 WHERE LOWER(name) = LOWER(?) AND (trade_id = ? OR trade_id IS NULL)
		 ORDER BY CASE WHEN trade_id IS NULL THEN 1 ELSE 0 END, id
		 LIMIT 1`,
		name, tradeID,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("lookup %s %q: %w", table, name, err)
	}

	id, err = s.insertID(ctx, `INSERT INTO `+table+` (name, trade_id) VALUES (?, ?)`, name, tradeID)
	if err != nil {
		return 0, fmt.Errorf("insert %s %q: %w", table, name, err)
	}
	return id, nil
}

func termTable(kind model.VocabularyKind) (string, error) {
	switch kind {
	case model.VocabularyTools, model.VocabularyMaterials, model.VocabularyTags:
		return string(kind), nil
	}
	return "", fmt.Errorf("unknown vocabulary kind %q", kind)
}
