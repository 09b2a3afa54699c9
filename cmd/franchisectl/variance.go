package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newVarianceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "variance <period-id>",
		Short: "Recompute theoretical usage and variance for an inventory period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			periodID, err := parseID(args[0])
			if err != nil {
				return fmt.Errorf("period id: %w", err)
			}
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			report, err := s.variance.Recompute(cmd.Context(), s.tenantID, periodID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INGREDIENT\tACTUAL\tTHEORETICAL\tVARIANCE")
			for _, usage := range report.Usage {
				fmt.Fprintf(w, "%d\t%g\t%g\t%+g\n", usage.MasterIngredientID, usage.ActualUsage, usage.TheoreticalUsage, usage.Variance)
			}
			return w.Flush()
		},
	}
}
