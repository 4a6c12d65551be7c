package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medassort/taxon/internal/cli"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo data set",
		Long: `Populate the database with a small hip/knee implant data set:
a category tree, a handful of products, and reference prices. Useful
for trying out classification and matching without any imports.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SeedDemoData(ctx); err != nil {
				return fmt.Errorf("failed to seed demo data: %w", err)
			}

			fmt.Println(cli.StyleSuccess("Demo data loaded"))
			fmt.Println("Try: taxon classify --dry-run")
			return nil
		},
	}
}
