package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/medassort/taxon/internal/classify"
	"github.com/medassort/taxon/internal/cli"
	"github.com/medassort/taxon/internal/config"
	"github.com/medassort/taxon/internal/model"
	"github.com/medassort/taxon/internal/taxonomy"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate the classification rule set",
	}

	cmd.PersistentFlags().String("rules", "", "YAML rule file (default: embedded rule set)")

	cmd.AddCommand(listRulesCmd())
	cmd.AddCommand(checkRulesCmd())

	return cmd
}

func listRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rules in evaluation order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules, err := loadRuleFlag(cmd)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", "#", "NAME", "TARGET", "PATTERNS")
			for i, rule := range rules {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d include / %d exclude\n",
					i+1, rule.Name, rule.TargetCode,
					len(rule.IncludePatterns), len(rule.ExcludePatterns))
			}

			return nil
		},
	}
}

func checkRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate rules against the category table",
		Long: `Compile every pattern and verify every target code exists in the
category table. This is the same validation every classification run
performs before touching the first product.`,
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

			rules, err := loadRuleFlag(cmd)
			if err != nil {
				return err
			}

			classifier, err := classify.NewClassifier(rules, index)
			if err != nil {
				return err
			}

			fmt.Println(cli.StyleSuccess(fmt.Sprintf("Rule set OK: %d rules, all target codes resolve", classifier.RuleCount())))
			return nil
		},
	}
}

// loadRuleFlag prefers the command's own --rules flag over the
// configured rule file.
func loadRuleFlag(cmd *cobra.Command) ([]model.Rule, error) {
	path, _ := cmd.Flags().GetString("rules")
	if path != "" {
		return classify.LoadRules(config.ExpandPath(path))
	}
	return loadRules()
}
