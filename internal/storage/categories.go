package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/medassort/taxon/internal/model"
)

// GetCategories returns the full category table, ordered by code.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, code, name, COALESCE(parent_id, ''), depth, path
		FROM categories
		ORDER BY code`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Code, &cat.Name, &cat.ParentID, &cat.Depth, &cat.Path); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// SaveCategories upserts category rows. Used by seeding and by the
// external CRUD collaborator, never by the engine itself.
func (s *SQLiteStorage) SaveCategories(ctx context.Context, categories []model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(categories) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO categories (id, code, name, parent_id, depth, path)
		VALUES (?, ?, ?, NULLIF(?, ''), ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			parent_id = excluded.parent_id,
			depth = excluded.depth,
			path = excluded.path`)
	if err != nil {
		return fmt.Errorf("failed to prepare category insert: %w", err)
	}
	defer stmt.Close()

	for _, cat := range categories {
		if _, err := stmt.ExecContext(ctx, cat.ID, cat.Code, cat.Name, cat.ParentID, cat.Depth, cat.Path); err != nil {
			return fmt.Errorf("failed to save category %s: %w", cat.ID, err)
		}
	}

	return tx.Commit()
}

// GetCategoryByCode returns a category by its code, or nil when absent.
func (s *SQLiteStorage) GetCategoryByCode(ctx context.Context, code string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(code, "code"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, code, name, COALESCE(parent_id, ''), depth, path
		FROM categories
		WHERE code = ?`

	var cat model.Category
	err := s.db.QueryRowContext(ctx, query, code).Scan(
		&cat.ID, &cat.Code, &cat.Name, &cat.ParentID, &cat.Depth, &cat.Path,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}
