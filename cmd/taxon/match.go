package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/medassort/taxon/internal/engine"
)

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Link products to reference prices",
		Long: `Score every product against the reference prices reachable via its
category ancestry and store the top-scoring matches.

Matches produced by this engine carry the AUTO method tag and are
replaced wholesale on every run; manual matches are never touched.

Examples:
  taxon match            # score and store matches
  taxon match --dry-run  # same report, no writes`,
		RunE: runMatch,
	}

	cmd.Flags().Bool("dry-run", false, "Compute and print the report without writing")
	cmd.Flags().String("brands", "", "YAML manufacturer keyword file (default: embedded table)")

	_ = viper.BindPFlag("matching.dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("matching.brands_file", cmd.Flags().Lookup("brands"))

	return cmd
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	dryRun := viper.GetBool("matching.dry_run")

	slog.Info("Starting price matching", "dry_run", dryRun)

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	brands, err := loadBrands()
	if err != nil {
		return err
	}

	report, err := engine.New(store, engineConfig(dryRun)).Match(ctx, brands)
	if err != nil {
		return err
	}

	fmt.Println(report.Render())
	return nil
}
