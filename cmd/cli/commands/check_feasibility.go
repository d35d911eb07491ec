package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/rider-rota/pkg/core/services"
)

// CheckFeasibilityCmd creates the checkFeasibility command
func CheckFeasibilityCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "checkFeasibility",
		Short: "Check whether the configured targets can be met before allocating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.CheckFeasibility(app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			plan := result.Plan

			fmt.Fprintf(out, "\nScheme:        %s\n", result.Scheme)
			fmt.Fprintf(out, "Workers:       %d\n", result.Workers)
			fmt.Fprintf(out, "Min required:  %d\n", plan.MinRequired)
			fmt.Fprintf(out, "Max placeable: %d\n\n", plan.MaxPlaceable)

			printSlotTable(out, result.Labels, plan.Targets, nil, plan.Max)
			fmt.Fprintln(out)

			if plan.Redistributed {
				fmt.Fprintf(out, "%sTargets redistributed from %v%s\n", colorYellow, plan.OriginalTargets, colorReset)
			}
			if plan.Advisory != "" {
				fmt.Fprintf(out, "%s%s%s\n", colorYellow, plan.Advisory, colorReset)
			}

			if !result.Feasible() {
				fmt.Fprintf(out, "%s✗ Infeasible: %s%s\n\n", colorRed, result.Describe(), colorReset)
				return nil
			}

			fmt.Fprintf(out, "%s✓ Targets are feasible%s\n\n", colorGreen, colorReset)
			return nil
		},
	}
}
