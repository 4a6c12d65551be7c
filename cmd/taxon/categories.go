package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/medassort/taxon/internal/cli"
	"github.com/medassort/taxon/internal/taxonomy"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect the category tree",
		Long:  `List the loaded nomenclature and verify its integrity.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(verifyCategoriesCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Run 'taxon seed' to load the demo fixture."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\n", "CODE", "DEPTH", "NAME")
			for _, cat := range categories {
				indent := strings.Repeat("  ", cat.Depth)
				fmt.Fprintf(w, "%s\t%d\t%s%s\n", cat.Code, cat.Depth, indent, cat.Name)
			}

			return nil
		},
	}
}

func verifyCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check tree integrity",
		Long: `Build the category index and walk every ancestor chain. A chain that
fails to terminate means a cycle in the parent links; the same check
aborts every classification or matching run before any side effect.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			index, err := taxonomy.NewIndex(categories)
			if err != nil {
				return err
			}
			if err := index.Verify(); err != nil {
				return err
			}

			hist := index.DepthHistogram()
			depths := make([]int, 0, len(hist))
			for d := range hist {
				depths = append(depths, d)
			}
			sort.Ints(depths)

			fmt.Println(cli.StyleSuccess(fmt.Sprintf("Category tree OK: %d nodes, %d roots", index.Len(), len(index.Roots()))))
			for _, d := range depths {
				fmt.Printf("  depth %d: %d\n", d, hist[d])
			}

			return nil
		},
	}
}
