package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/medassort/taxon/internal/model"
)

// DeleteMatchesByMethod removes every match carrying the given method
// tag. Matching runs replace their output wholesale, so this always
// precedes the insert phase.
func (s *SQLiteStorage) DeleteMatchesByMethod(ctx context.Context, method model.MatchMethod) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(string(method), "method"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM matches WHERE method = ?`, method)
	if err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}

	slog.Debug("deleted matches", "method", method, "count", deleted)
	return nil
}

// SaveMatches inserts match rows in a single transaction. Callers batch;
// a failed batch is retried row by row at the engine level.
func (s *SQLiteStorage) SaveMatches(ctx context.Context, matches []model.Match) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}

	for i := range matches {
		if err := validateMatch(&matches[i]); err != nil {
			return fmt.Errorf("match at index %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO matches (product_id, reference_price_id, score, reason, method)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare match insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range matches {
		if _, err := stmt.ExecContext(ctx, m.ProductID, m.ReferencePriceID, m.Score, m.Reason, m.Method); err != nil {
			return fmt.Errorf("failed to save match %s/%s: %w", m.ProductID, m.ReferencePriceID, err)
		}
	}

	return tx.Commit()
}

// GetMatchesByProduct returns the matches stored for a product, highest
// score first.
func (s *SQLiteStorage) GetMatchesByProduct(ctx context.Context, productID string) ([]model.Match, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(productID, "productID"); err != nil {
		return nil, err
	}

	query := `
		SELECT product_id, reference_price_id, score, reason, method
		FROM matches
		WHERE product_id = ?
		ORDER BY score DESC, reference_price_id`

	rows, err := s.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		if err := rows.Scan(&m.ProductID, &m.ReferencePriceID, &m.Score, &m.Reason, &m.Method); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}

	return matches, nil
}

// CountMatchesByMethod returns how many matches carry a method tag.
func (s *SQLiteStorage) CountMatchesByMethod(ctx context.Context, method model.MatchMethod) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(string(method), "method"); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE method = ?`, method).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}

	return count, nil
}
