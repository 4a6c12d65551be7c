package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/medassort/taxon/internal/engine"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify products into nomenclature categories",
		Long: `Evaluate every product name against the ordered rule list and assign
the resulting category code.

Already-classified products are re-evaluated: a more specific candidate
deepens the assignment, a candidate on a different branch corrects it,
and a broader or identical candidate is a no-op.

Examples:
  taxon classify                      # evaluate all products and apply
  taxon classify --dry-run            # same report, no writes
  taxon classify --unclassified-only  # first-time assignment only`,
		RunE: runClassify,
	}

	cmd.Flags().Bool("dry-run", false, "Compute and print the report without writing")
	cmd.Flags().Bool("unclassified-only", false, "Skip products that already have a category")
	cmd.Flags().String("rules", "", "YAML rule file (default: embedded rule set)")

	_ = viper.BindPFlag("classification.dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("classification.unclassified_only", cmd.Flags().Lookup("unclassified-only"))
	_ = viper.BindPFlag("classification.rules_file", cmd.Flags().Lookup("rules"))

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	dryRun := viper.GetBool("classification.dry_run")

	slog.Info("Starting classification", "dry_run", dryRun)

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

	cfg := engineConfig(dryRun)
	cfg.UnclassifiedOnly = viper.GetBool("classification.unclassified_only")

	report, err := engine.New(store, cfg).Classify(ctx, rules)
	if err != nil {
		return err
	}

	fmt.Println(report.Render())
	return nil
}
