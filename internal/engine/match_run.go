package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/medassort/taxon/internal/common"
	"github.com/medassort/taxon/internal/match"
	"github.com/medassort/taxon/internal/model"
	"github.com/medassort/taxon/internal/taxonomy"
)

// productMatches is the scored output for one product.
type productMatches struct {
	productID     string
	hadCandidates bool
	matches       []model.Match
}

// Match runs the matching pass: for every product with a category, the
// reference prices reachable via its ancestry are scored and the top-K
// survivors are persisted under the AUTO method tag, replacing the
// previous run's output wholesale.
func (e *Engine) Match(ctx context.Context, brands match.BrandTable) (*MatchReport, error) {
	if err := brands.Validate(); err != nil {
		return nil, err
	}

	index, err := e.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	products, err := e.storage.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	prices, err := e.storage.GetReferencePrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference prices: %w", err)
	}

	priceIndex := match.BuildPriceIndex(prices)
	scorer := match.NewScorer(index, brands, e.config.Score)

	slog.Info("Starting matching pass",
		"run_id", uuid.New().String(),
		"products", len(products),
		"prices", len(prices),
		"workers", e.config.Workers,
		"dry_run", e.config.DryRun)

	results, err := e.matchParallel(ctx, scorer, priceIndex, index, products)
	if err != nil {
		return nil, err
	}

	report := NewMatchReport()
	report.TotalProducts = len(products)
	report.SkippedPrices = priceIndex.SkippedCount()

	var allMatches []model.Match
	for _, r := range results {
		if r.hadCandidates {
			report.ProductsWithCandidates++
		}
		if len(r.matches) > 0 {
			report.ProductsMatched++
			report.TotalMatches += len(r.matches)
			allMatches = append(allMatches, r.matches...)
		}
	}

	if !e.config.DryRun {
		report.FailedWrites, err = e.replaceMatches(ctx, allMatches)
		if err != nil {
			return nil, err
		}
	}

	return report, nil
}

// matchParallel fans products out over the worker pool. The price index,
// tree index and brand table are frozen before workers start.
func (e *Engine) matchParallel(ctx context.Context, scorer *match.Scorer, priceIndex *match.PriceIndex, index *taxonomy.Index, products []model.Product) ([]productMatches, error) {
	workChan := make(chan model.Product, len(products))
	for _, p := range products {
		workChan <- p
	}
	close(workChan)

	resultsChan := make(chan productMatches, len(products))
	errChan := make(chan error, e.config.Workers)
	bar := e.newProgressBar(len(products), "Matching prices...")

	var wg sync.WaitGroup
	wg.Add(e.config.Workers)
	for i := 0; i < e.config.Workers; i++ {
		go func() {
			defer wg.Done()
			for product := range workChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				candidates, err := priceIndex.Candidates(&product, index)
				if err != nil {
					errChan <- fmt.Errorf("product %s: %w", product.ID, err)
					return
				}

				resultsChan <- productMatches{
					productID:     product.ID,
					hadCandidates: len(candidates) > 0,
					matches:       scorer.ScoreAll(&product, candidates),
				}
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultsChan)
		close(errChan)
	}()

	results := make([]productMatches, 0, len(products))
	for r := range resultsChan {
		results = append(results, r)
	}

	if err := <-errChan; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].productID < results[j].productID
	})

	return results, nil
}

// replaceMatches deletes the previous AUTO matches and inserts the new
// set in batches. Re-running with unchanged inputs reproduces an
// identical match table.
func (e *Engine) replaceMatches(ctx context.Context, matches []model.Match) ([]string, error) {
	if err := e.storage.DeleteMatchesByMethod(ctx, model.MethodAuto); err != nil {
		return nil, fmt.Errorf("failed to clear previous matches: %w", err)
	}

	// Grouped by product so batches land near each other.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].ProductID != matches[j].ProductID {
			return matches[i].ProductID < matches[j].ProductID
		}
		return matches[i].ReferencePriceID < matches[j].ReferencePriceID
	})

	var failed []string
	for start := 0; start < len(matches); start += e.config.WriteBatchSize {
		end := start + e.config.WriteBatchSize
		if end > len(matches) {
			end = len(matches)
		}
		batch := matches[start:end]

		err := common.WithRetry(ctx, func() error {
			return e.storage.SaveMatches(ctx, batch)
		}, common.RetryOptions{MaxAttempts: 2})
		if err == nil {
			continue
		}

		slog.Warn("Match batch write failed, retrying rows individually",
			"batch_size", len(batch), "error", err)

		for _, m := range batch {
			rowErr := common.WithRetry(ctx, func() error {
				return e.storage.SaveMatches(ctx, []model.Match{m})
			}, common.RetryOptions{MaxAttempts: 2})
			if rowErr != nil {
				common.LogError(rowErr, "failed to save match", common.Fields{
					"product_id": m.ProductID,
					"price_id":   m.ReferencePriceID,
				})
				failed = append(failed, m.ProductID+"/"+m.ReferencePriceID)
			}
		}
	}

	sort.Strings(failed)
	return failed, nil
}
