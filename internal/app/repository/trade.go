package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "plumberf/internal/app/errors"
	"plumberf/internal/app/model"
)

// CreateTrade inserts a trade and fills in its id and creation time.
func (s *Store) CreateTrade(ctx context.Context, trade *model.Trade) error {
	id, err := s.insertID(ctx, `INSERT INTO trades (name, slug) VALUES (?, ?)`, trade.Name, trade.Slug)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return err
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	created, err := s.GetTrade(ctx, id)
	if err != nil {
		return err
	}
	*trade = *created
	return nil
}

// GetTrade loads a trade by its internal id.
func (s *Store) GetTrade(ctx context.Context, id int64) (*model.Trade, error) {
	return s.scanTrade(s.queryRow(ctx, `SELECT id, name, slug, created_at FROM trades WHERE id = ?`, id), id)
}

// GetTradeBySlug loads a trade by its external identifier.
func (s *Store) GetTradeBySlug(ctx context.Context, slug string) (*model.Trade, error) {
	return s.scanTrade(s.queryRow(ctx, `SELECT id, name, slug, created_at FROM trades WHERE slug = ?`, slug), slug)
}

// ListTrades returns all trades ordered by name.
func (s *Store) ListTrades(ctx context.Context) ([]model.Trade, error) {
	rows, err := s.query(ctx, `SELECT id, name, slug, created_at FROM trades ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	trades := make([]model.Trade, 0)
	for rows.Next() {
		var t model.Trade
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return trades, nil
}

func (s *Store) scanTrade(row *sql.Row, key interface{}) (*model.Trade, error) {
	var t model.Trade
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("trade", key)
		}
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return &t, nil
}
