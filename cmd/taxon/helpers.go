package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"

	"github.com/medassort/taxon/internal/classify"
	"github.com/medassort/taxon/internal/config"
	"github.com/medassort/taxon/internal/engine"
	"github.com/medassort/taxon/internal/match"
	"github.com/medassort/taxon/internal/model"
	"github.com/medassort/taxon/internal/storage"
)

// initStorage opens the configured database and applies migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// engineConfig assembles the engine configuration from viper.
func engineConfig(dryRun bool) engine.Config {
	cfg := engine.DefaultConfig()
	cfg.DryRun = dryRun

	if workers := viper.GetInt("engine.workers"); workers > 0 {
		cfg.Workers = workers
	}
	if batch := viper.GetInt("engine.write_batch_size"); batch > 0 {
		cfg.WriteBatchSize = batch
	}
	cfg.Score = scoreConfig()

	// The bar belongs to a human terminal, not to piped output or tests.
	if isatty.IsTerminal(os.Stderr.Fd()) {
		cfg.ProgressWriter = os.Stderr
	}

	return cfg
}

// scoreConfig overlays configured weights on the defaults. The
// magnitudes decide which matches users see; overriding them is a
// deliberate, versioned decision, hence plain config keys.
func scoreConfig() match.ScoreConfig {
	sc := match.DefaultScoreConfig()

	overlay := func(key string, target *float64) {
		if viper.IsSet(key) {
			*target = viper.GetFloat64(key)
		}
	}
	overlay("matching.base_score", &sc.Base)
	overlay("matching.depth_bonus_0", &sc.DepthBonus0)
	overlay("matching.depth_bonus_1", &sc.DepthBonus1)
	overlay("matching.depth_bonus_2", &sc.DepthBonus2)
	overlay("matching.brand_bonus", &sc.BrandBonus)
	overlay("matching.token_bonus", &sc.TokenBonus)
	overlay("matching.score_cap", &sc.Cap)
	overlay("matching.min_score", &sc.MinScore)
	if viper.IsSet("matching.top_k") {
		sc.TopK = viper.GetInt("matching.top_k")
	}

	return sc
}

// loadRules returns the rule set: a YAML file when configured, the
// embedded defaults otherwise.
func loadRules() ([]model.Rule, error) {
	path := viper.GetString("classification.rules_file")
	if path == "" {
		return classify.DefaultRules(), nil
	}
	return classify.LoadRules(config.ExpandPath(path))
}

// loadBrands returns the manufacturer keyword table: a YAML file when
// configured, the embedded defaults otherwise.
func loadBrands() (match.BrandTable, error) {
	path := viper.GetString("matching.brands_file")
	if path == "" {
		return match.DefaultBrandTable(), nil
	}
	return match.LoadBrandTable(config.ExpandPath(path))
}
