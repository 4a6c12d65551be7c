package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/medassort/taxon/internal/engine"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run classification followed by matching",
		Long: `Run the full pipeline: classify products, then match the (possibly
updated) assignments against reference prices.

Matching always sees the classification pass's output, so a product
deepened in step one gathers candidates from its new, more specific
ancestry in step two.`,
		RunE: runFull,
	}

	cmd.Flags().Bool("dry-run", false, "Compute and print both reports without writing")

	_ = viper.BindPFlag("run.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runFull(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	dryRun := viper.GetBool("run.dry_run")

	slog.Info("Starting full pipeline", "dry_run", dryRun)

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	rules, err := loadRules()
	if err != nil {
		return err
	}
	brands, err := loadBrands()
	if err != nil {
		return err
	}

	eng := engine.New(store, engineConfig(dryRun))

	classReport, err := eng.Classify(ctx, rules)
	if err != nil {
		return err
	}
	fmt.Println(classReport.Render())

	matchReport, err := eng.Match(ctx, brands)
	if err != nil {
		return err
	}
	fmt.Println(matchReport.Render())

	return nil
}
