// Package engine orchestrates the classification and matching passes.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/medassort/taxon/internal/classify"
	"github.com/medassort/taxon/internal/common"
	"github.com/medassort/taxon/internal/match"
	"github.com/medassort/taxon/internal/model"
	"github.com/medassort/taxon/internal/service"
	"github.com/medassort/taxon/internal/taxonomy"
)

// Config holds configuration options for a batch run.
type Config struct {
	Workers          int
	WriteBatchSize   int
	DryRun           bool
	UnclassifiedOnly bool
	Score            match.ScoreConfig
	ProgressWriter   io.Writer // nil disables the progress bar
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Workers:        4,
		WriteBatchSize: 100,
		Score:          match.DefaultScoreConfig(),
	}
}

// Engine runs batch passes over an immutable snapshot of the catalog.
// All shared indexes are built and frozen before any worker starts;
// workers only read them plus their own product.
type Engine struct {
	storage service.Storage
	config  Config
}

// New creates an engine with the given storage and configuration.
func New(storage service.Storage, config Config) *Engine {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.WriteBatchSize <= 0 {
		config.WriteBatchSize = 100
	}
	return &Engine{storage: storage, config: config}
}

// classifyResult is the outcome of classifying one product.
type classifyResult struct {
	product    model.Product
	ruleName   string
	targetCode string
	outcome    model.ReclassOutcome
	categoryID string // id of the target code's category
}

// Classify runs the classification pass: every product is evaluated
// against the ordered rule list and the resulting outcome is applied to
// the product record unless DryRun is set. The report is computed before
// any write, so dry-run output matches a live run exactly.
func (e *Engine) Classify(ctx context.Context, rules []model.Rule) (*ClassificationReport, error) {
	index, err := e.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	classifier, err := classify.NewClassifier(rules, index)
	if err != nil {
		return nil, err
	}

	products, err := e.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	// Run ids only appear in logs: the report must not change between a
	// dry run and the live run that follows it.
	slog.Info("Starting classification pass",
		"run_id", uuid.New().String(),
		"products", len(products),
		"rules", classifier.RuleCount(),
		"workers", e.config.Workers,
		"dry_run", e.config.DryRun)

	results := e.classifyParallel(ctx, classifier, index, products)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := NewClassificationReport(classifier.RuleNames())
	report.TotalProducts = len(products)

	var updates []service.CategoryUpdate
	for _, r := range results {
		if r.ruleName == "" {
			report.Unclassified = append(report.Unclassified, r.product.Name)
			continue
		}
		report.RuleHits[r.ruleName]++
		report.Outcomes[r.outcome]++
		if classify.ShouldWrite(r.outcome) {
			updates = append(updates, service.CategoryUpdate{
				ProductID:  r.product.ID,
				CategoryID: r.categoryID,
				Outcome:    r.outcome,
			})
		}
	}
	sort.Strings(report.Unclassified)

	if !e.config.DryRun {
		report.FailedWrites = e.applyCategoryUpdates(ctx, updates)
	}

	return report, nil
}

func (e *Engine) loadIndex(ctx context.Context) (*taxonomy.Index, error) {
	categories, err := e.storage.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, common.NewConfigError("category table", "no categories loaded - run migrations and seed the table first")
	}

	index, err := taxonomy.NewIndex(categories)
	if err != nil {
		return nil, err
	}
	if err := index.Verify(); err != nil {
		return nil, err
	}

	slog.Info("Built category index", "categories", index.Len())
	return index, nil
}

func (e *Engine) loadProducts(ctx context.Context) ([]model.Product, error) {
	var (
		products []model.Product
		err      error
	)
	if e.config.UnclassifiedOnly {
		products, err = e.storage.GetUnclassifiedProducts(ctx)
	} else {
		products, err = e.storage.GetProducts(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// classifyParallel fans products out over a worker pool. Classification
// of one product never depends on another, so no locking is needed: the
// classifier and index are frozen before the first worker starts.
func (e *Engine) classifyParallel(ctx context.Context, classifier *classify.Classifier, index *taxonomy.Index, products []model.Product) []classifyResult {
	workChan := make(chan model.Product, len(products))
	for _, p := range products {
		workChan <- p
	}
	close(workChan)

	resultsChan := make(chan classifyResult, len(products))
	bar := e.newProgressBar(len(products), "Classifying products...")

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
				resultsChan <- e.classifyOne(classifier, index, product)
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]classifyResult, 0, len(products))
	for r := range resultsChan {
		results = append(results, r)
	}

	// Worker completion order is nondeterministic; product id order is not.
	sort.Slice(results, func(i, j int) bool {
		return results[i].product.ID < results[j].product.ID
	})

	return results
}

func (e *Engine) classifyOne(classifier *classify.Classifier, index *taxonomy.Index, product model.Product) classifyResult {
	r := classifyResult{product: product}

	result := classifier.Classify(product.Name)
	if result == nil {
		return r
	}

	r.ruleName = result.RuleName
	r.targetCode = result.TargetCode
	r.categoryID = index.GetByCode(result.TargetCode).ID
	r.outcome = classify.Decide(index.Code(product.CategoryID), result.TargetCode)
	return r
}

// applyCategoryUpdates writes product assignments in batches grouped by
// target category. A failed batch does not abort the run: it is retried
// row by row and remaining failures end up in the report.
func (e *Engine) applyCategoryUpdates(ctx context.Context, updates []service.CategoryUpdate) []string {
	sort.Slice(updates, func(i, j int) bool {
		if updates[i].CategoryID != updates[j].CategoryID {
			return updates[i].CategoryID < updates[j].CategoryID
		}
		return updates[i].ProductID < updates[j].ProductID
	})

	var failed []string
	for start := 0; start < len(updates); start += e.config.WriteBatchSize {
		end := start + e.config.WriteBatchSize
		if end > len(updates) {
			end = len(updates)
		}
		batch := updates[start:end]

		err := common.WithRetry(ctx, func() error {
			return e.storage.UpdateProductCategories(ctx, batch)
		}, common.RetryOptions{MaxAttempts: 2})
		if err == nil {
			continue
		}

		slog.Warn("Batch write failed, retrying rows individually",
			"batch_size", len(batch), "error", err)

		for _, u := range batch {
			rowErr := common.WithRetry(ctx, func() error {
				return e.storage.UpdateProductCategory(ctx, u.ProductID, u.CategoryID)
			}, common.RetryOptions{MaxAttempts: 2})
			if rowErr != nil {
				common.LogError(rowErr, "failed to update product category", common.Fields{
					"product_id": u.ProductID,
				})
				failed = append(failed, u.ProductID)
			}
		}
	}

	sort.Strings(failed)
	return failed
}

func (e *Engine) newProgressBar(total int, description string) *progressbar.ProgressBar {
	if e.config.ProgressWriter == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(e.config.ProgressWriter),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
	)
}
