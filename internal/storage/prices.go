package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medassort/taxon/internal/model"
)

// GetReferencePrices returns the full reference-price table, ordered by id.
func (s *SQLiteStorage) GetReferencePrices(ctx context.Context) ([]model.ReferencePrice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, COALESCE(category_id, ''), COALESCE(leaf_category_id, ''),
			COALESCE(manufacturer_code, ''), COALESCE(component_description, ''), price
		FROM reference_prices
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reference prices: %w", err)
	}
	defer rows.Close()

	var prices []model.ReferencePrice
	for rows.Next() {
		var p model.ReferencePrice
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.LeafCategoryID, &p.ManufacturerCode, &p.ComponentDescription, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan reference price: %w", err)
		}
		prices = append(prices, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reference prices: %w", err)
	}

	slog.Debug("retrieved reference prices", "count", len(prices))
	return prices, nil
}

// SaveReferencePrices upserts reference-price rows. Seeding/import only.
func (s *SQLiteStorage) SaveReferencePrices(ctx context.Context, prices []model.ReferencePrice) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(prices) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO reference_prices (id, category_id, leaf_category_id, manufacturer_code, component_description, price)
		VALUES (?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category_id = excluded.category_id,
			leaf_category_id = excluded.leaf_category_id,
			manufacturer_code = excluded.manufacturer_code,
			component_description = excluded.component_description,
			price = excluded.price`)
	if err != nil {
		return fmt.Errorf("failed to prepare price insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range prices {
		if _, err := stmt.ExecContext(ctx, p.ID, p.CategoryID, p.LeafCategoryID, p.ManufacturerCode, p.ComponentDescription, p.Price); err != nil {
			return fmt.Errorf("failed to save reference price %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}
