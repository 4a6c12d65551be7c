package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medassort/taxon/internal/classify"
	"github.com/medassort/taxon/internal/common"
	"github.com/medassort/taxon/internal/match"
	"github.com/medassort/taxon/internal/model"
	"github.com/medassort/taxon/internal/testutil"
)

func newTestEngine(t *testing.T, dryRun bool) (*Engine, *testutil.TestDB) {
	t.Helper()

	db := testutil.SetupSeededTestDB(t)
	cfg := DefaultConfig()
	cfg.DryRun = dryRun
	return New(db.Storage, cfg), db
}

func TestClassifyDryRun(t *testing.T) {
	ctx := context.Background()
	engine, db := newTestEngine(t, true)

	report, err := engine.Classify(ctx, classify.DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, 8, report.TotalProducts)
	assert.Equal(t, 7, report.Classified())
	assert.Equal(t, []string{"Bone cement 40g"}, report.Unclassified)
	assert.Equal(t, 7, report.Outcomes[model.OutcomeNew])
	assert.Empty(t, report.FailedWrites)

	// Dry-run must leave the product table untouched.
	products, err := db.Storage.GetUnclassifiedProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 8)
}

func TestClassifyApply(t *testing.T) {
	ctx := context.Background()
	engine, db := newTestEngine(t, false)

	report, err := engine.Classify(ctx, classify.DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, 7, report.Classified())
	assert.Empty(t, report.FailedWrites)

	tests := []struct {
		productID string
		wantCat   string
	}{
		{"prod-001", "P09080301"},
		{"prod-002", "P09080302"},
		{"prod-003", "P090804010102"},
		{"prod-004", "P0908030401"},
		{"prod-005", "P090702"},
		{"prod-006", "P09080402"},
		{"prod-007", "P0908"},
		{"prod-008", ""},
	}
	for _, tt := range tests {
		p, err := db.Storage.GetProductByID(ctx, tt.productID)
		require.NoError(t, err)
		assert.Equal(t, tt.wantCat, p.CategoryID, "product %s", tt.productID)
	}

	t.Run("second run is all no-ops", func(t *testing.T) {
		report, err := engine.Classify(ctx, classify.DefaultRules())
		require.NoError(t, err)

		assert.Equal(t, 7, report.Outcomes[model.OutcomeNoOp])
		assert.Equal(t, 0, report.Outcomes[model.OutcomeNew])
		assert.Equal(t, 0, report.Outcomes[model.OutcomeDeepen])
		assert.Equal(t, 0, report.Outcomes[model.OutcomeFix])
	})
}

func TestDryRunReportMatchesApply(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupSeededTestDB(t)

	dryCfg := DefaultConfig()
	dryCfg.DryRun = true
	dryReport, err := New(db.Storage, dryCfg).Classify(ctx, classify.DefaultRules())
	require.NoError(t, err)

	applyReport, err := New(db.Storage, DefaultConfig()).Classify(ctx, classify.DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, dryReport.Render(), applyReport.Render())
}

func TestClassifyFatalBeforeSideEffects(t *testing.T) {
	ctx := context.Background()
	engine, db := newTestEngine(t, false)

	t.Run("unknown target code", func(t *testing.T) {
		rules := []model.Rule{{
			Name:            "bad",
			TargetCode:      "ZZZZ",
			IncludePatterns: []string{`cup`},
		}}

		_, err := engine.Classify(ctx, rules)
		require.Error(t, err)
		assert.True(t, common.IsFatal(err))

		products, err := db.Storage.GetUnclassifiedProducts(ctx)
		require.NoError(t, err)
		assert.Len(t, products, 8)
	})

	t.Run("empty category table", func(t *testing.T) {
		empty := testutil.SetupTestDB(t)
		_, err := New(empty.Storage, DefaultConfig()).Classify(ctx, classify.DefaultRules())
		require.Error(t, err)
		assert.True(t, common.IsFatal(err))
	})
}

func TestMatchRun(t *testing.T) {
	ctx := context.Background()
	engine, db := newTestEngine(t, false)

	_, err := engine.Classify(ctx, classify.DefaultRules())
	require.NoError(t, err)

	report, err := engine.Match(ctx, match.DefaultBrandTable())
	require.NoError(t, err)

	assert.Equal(t, 8, report.TotalProducts)
	assert.Equal(t, 7, report.ProductsWithCandidates)
	assert.Equal(t, 7, report.ProductsMatched)
	assert.Equal(t, 11, report.TotalMatches)
	assert.Equal(t, 1, report.SkippedPrices)
	assert.Empty(t, report.FailedWrites)

	t.Run("brand evidence outranks plain ancestry", func(t *testing.T) {
		matches, err := db.Storage.GetMatchesByProduct(ctx, "prod-002")
		require.NoError(t, err)
		require.Len(t, matches, 2)

		assert.Equal(t, "rp-002", matches[0].ReferencePriceID)
		assert.InDelta(t, 0.80, matches[0].Score, 1e-9)
		assert.Contains(t, matches[0].Reason, "trilogy")

		assert.Equal(t, "rp-005", matches[1].ReferencePriceID)
		assert.InDelta(t, 0.40, matches[1].Score, 1e-9)
	})

	t.Run("unclassified product has no matches", func(t *testing.T) {
		matches, err := db.Storage.GetMatchesByProduct(ctx, "prod-008")
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("rerun replaces instead of accumulating", func(t *testing.T) {
		report, err := engine.Match(ctx, match.DefaultBrandTable())
		require.NoError(t, err)
		assert.Equal(t, 11, report.TotalMatches)

		count, err := db.Storage.CountMatchesByMethod(ctx, model.MethodAuto)
		require.NoError(t, err)
		assert.Equal(t, 11, count)
	})

	t.Run("manual matches survive replacement", func(t *testing.T) {
		manual := model.Match{ProductID: "prod-001", ReferencePriceID: "rp-001", Score: 1.0, Method: model.MethodManual}
		require.NoError(t, db.Storage.SaveMatches(ctx, []model.Match{manual}))

		_, err := engine.Match(ctx, match.DefaultBrandTable())
		require.NoError(t, err)

		count, err := db.Storage.CountMatchesByMethod(ctx, model.MethodManual)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestMatchDryRun(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupSeededTestDB(t)

	applyCfg := DefaultConfig()
	applyEngine := New(db.Storage, applyCfg)
	_, err := applyEngine.Classify(ctx, classify.DefaultRules())
	require.NoError(t, err)

	dryCfg := DefaultConfig()
	dryCfg.DryRun = true
	dryEngine := New(db.Storage, dryCfg)

	dryReport, err := dryEngine.Match(ctx, match.DefaultBrandTable())
	require.NoError(t, err)

	// No writes happened.
	count, err := db.Storage.CountMatchesByMethod(ctx, model.MethodAuto)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	applyReport, err := applyEngine.Match(ctx, match.DefaultBrandTable())
	require.NoError(t, err)
	assert.Equal(t, dryReport.Render(), applyReport.Render())
}

func TestMatchRejectsBadBrandTable(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t, false)

	_, err := engine.Match(ctx, match.BrandTable{"ZIM": {}})
	require.Error(t, err)
	assert.True(t, common.IsFatal(err))
}

func TestSmallWriteBatches(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupSeededTestDB(t)

	cfg := DefaultConfig()
	cfg.WriteBatchSize = 2
	engine := New(db.Storage, cfg)

	report, err := engine.Classify(ctx, classify.DefaultRules())
	require.NoError(t, err)
	assert.Empty(t, report.FailedWrites)

	p, err := db.Storage.GetProductByID(ctx, "prod-007")
	require.NoError(t, err)
	assert.Equal(t, "P0908", p.CategoryID)
}

func TestSingleWorkerMatchesParallel(t *testing.T) {
	ctx := context.Background()

	render := func(workers int) string {
		db := testutil.SetupSeededTestDB(t)
		cfg := DefaultConfig()
		cfg.Workers = workers
		cfg.DryRun = true

		report, err := New(db.Storage, cfg).Classify(ctx, classify.DefaultRules())
		require.NoError(t, err)
		return report.Render()
	}

	assert.Equal(t, render(1), render(8))
}
