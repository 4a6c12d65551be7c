package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/medassort/taxon/internal/model"
	"github.com/medassort/taxon/internal/service"
)

const productColumns = `id, name, COALESCE(description, ''), COALESCE(vendor_name, ''),
	COALESCE(manufacturer_name, ''), COALESCE(category_id, '')`

// GetProducts returns every catalog product, ordered by id.
func (s *SQLiteStorage) GetProducts(ctx context.Context) ([]model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY id`, productColumns)
	return s.queryProducts(ctx, query)
}

// GetUnclassifiedProducts returns products without a category assignment.
func (s *SQLiteStorage) GetUnclassifiedProducts(ctx context.Context) ([]model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE category_id IS NULL OR category_id = ''
		ORDER BY id`, productColumns)
	return s.queryProducts(ctx, query)
}

func (s *SQLiteStorage) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.VendorName, &p.ManufacturerName, &p.CategoryID); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	slog.Debug("retrieved products", "count", len(products))
	return products, nil
}

// GetProductByID returns a product by id, or nil when absent.
func (s *SQLiteStorage) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = ?`, productColumns)

	var p model.Product
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.VendorName, &p.ManufacturerName, &p.CategoryID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// SaveProducts upserts product rows. Used by seeding and importers; the
// engine only ever touches category_id via UpdateProductCategory.
func (s *SQLiteStorage) SaveProducts(ctx context.Context, products []model.Product) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (id, name, description, vendor_name, manufacturer_name, category_id)
		VALUES (?, ?, ?, ?, ?, NULLIF(?, ''))
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			vendor_name = excluded.vendor_name,
			manufacturer_name = excluded.manufacturer_name,
			category_id = excluded.category_id,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("failed to prepare product insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Description, p.VendorName, p.ManufacturerName, p.CategoryID); err != nil {
			return fmt.Errorf("failed to save product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// UpdateProductCategories applies a batch of category assignments in a
// single transaction. Any failing row rolls the whole batch back; the
// engine then falls back to row-at-a-time writes.
func (s *SQLiteStorage) UpdateProductCategories(ctx context.Context, updates []service.CategoryUpdate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE products
		SET category_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare category update: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		result, err := stmt.ExecContext(ctx, u.CategoryID, u.ProductID)
		if err != nil {
			return fmt.Errorf("failed to update product %s: %w", u.ProductID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check update result: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("product %s not found", u.ProductID)
		}
	}

	return tx.Commit()
}

// UpdateProductCategory sets the category assignment of one product.
func (s *SQLiteStorage) UpdateProductCategory(ctx context.Context, productID, categoryID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(productID, "productID"); err != nil {
		return err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET category_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, categoryID, productID)
	if err != nil {
		return fmt.Errorf("failed to update product category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("product %s not found", productID)
	}

	return nil
}
