package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"franchiseops/internal/money"
)

func newRecalcCmd(opts *options) *cobra.Command {
	var autoLink bool
	cmd := &cobra.Command{
		Use:   "recalc <recipe-id> <template-id>",
		Short: "Recalculate and store a recipe's cost against a price template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipeID, err := parseID(args[0])
			if err != nil {
				return fmt.Errorf("recipe id: %w", err)
			}
			templateID, err := parseID(args[1])
			if err != nil {
				return fmt.Errorf("template id: %w", err)
			}
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if autoLink {
				report, err := s.costs.AutoLink(cmd.Context(), s.tenantID, recipeID)
				if err != nil {
					return err
				}
				for _, decision := range report.Linked {
					fmt.Fprintf(out, "linked %q -> %s\n", decision.Name, decision.Match.Match.NameEN)
				}
			}

			version, err := s.costs.Recalculate(cmd.Context(), s.tenantID, recipeID, templateID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tINGREDIENT\tQTY\tUNIT PRICE\tYIELD\tCOST\tNOTE")
			for _, line := range version.Lines {
				fmt.Fprintf(w, "%d\t%s\t%g %s\t%.6f\t%.0f%%\t%s\t%s\n",
					line.Position+1, line.Name, line.Quantity, line.Unit, line.UnitPrice,
					line.YieldRate, money.Format(line.LineCost, version.Currency), line.Note)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "total %s", money.Format(version.TotalCost, version.Currency))
			if version.CostPerUnit != nil {
				fmt.Fprintf(out, ", per unit %s", money.Format(*version.CostPerUnit, version.Currency))
			}
			fmt.Fprintf(out, " (run %s)\n", version.RunID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&autoLink, "auto-link", false, "Link high-confidence catalog matches before calculating")
	return cmd
}

func newMatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "match <name>...",
		Short: "Match free-text ingredient names against the tenant catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			results, err := s.costs.Match(cmd.Context(), s.tenantID, args)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INPUT\tMATCH\tSCORE\tCONFIDENCE\tALTERNATIVES")
			for _, result := range results {
				match := "-"
				if result.Match != nil {
					match = fmt.Sprintf("%d %s", result.Match.ID, result.Match.NameEN)
				}
				alternatives := make([]string, 0, len(result.Alternatives))
				for _, alt := range result.Alternatives {
					alternatives = append(alternatives, fmt.Sprintf("%s (%.2f)", alt.Candidate.NameEN, alt.Score))
				}
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n", result.Input, match, result.Score, result.Confidence, strings.Join(alternatives, ", "))
			}
			return w.Flush()
		},
	}
}

func parseID(value string) (uint, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil || parsed == 0 {
		return 0, fmt.Errorf("%q is not a positive id", value)
	}
	return uint(parsed), nil
}
