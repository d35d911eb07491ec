package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/rider-rota/pkg/core/services"
)

// AllocateShiftsCmd creates the allocateShifts command
func AllocateShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocateShifts",
		Short: "Allocate shift combinations to the configured workers and store the run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			app.Logger.Debug("allocateShifts command", zap.Bool("dry_run", dryRun))

			// Without a database the allocation can still be previewed
			if app.Database == nil && !dryRun {
				return fmt.Errorf("%w: use --dry-run to allocate without storing", ErrNoDatabase)
			}

			result, err := services.AllocateShifts(app.Ctx, app.Database, app.Cfg, app.Logger, services.AllocateOptions{DryRun: dryRun})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			run := result.Run

			if result.Stored {
				fmt.Fprintf(out, "\n✓ Schedule stored\n\n")
				fmt.Fprintf(out, "Run ID:       %s\n", run.ID)
				if run.PeriodStart != "" {
					fmt.Fprintf(out, "Period start: %s\n", run.PeriodStart)
				}
			} else {
				fmt.Fprintf(out, "\n%sDry run: schedule not stored%s\n\n", colorDim, colorReset)
			}

			fmt.Fprintf(out, "Scheme:       %s\n", run.Scheme)
			fmt.Fprintf(out, "Workers:      %d (%d placed, %d unscheduled)\n", run.Workers, len(result.Assignments), run.Unscheduled)
			fmt.Fprintf(out, "Preferred:    %d\n", run.PreferredCount)
			fmt.Fprintf(out, "Extra:        %d\n\n", run.ExtraCount)

			printSlotTable(out, run.Labels, run.Targets, run.Occupancy, run.Max)
			fmt.Fprintln(out)

			combinations := make([][]string, len(result.Assignments))
			for i, a := range result.Assignments {
				combinations[i] = a.Slots
			}
			order, counts := combinationCounts(combinations)
			fmt.Fprintf(out, "Combinations:\n")
			for _, key := range order {
				fmt.Fprintf(out, "  %-20s %d\n", key, counts[key])
			}
			fmt.Fprintln(out)

			if run.Advisory != "" {
				fmt.Fprintf(out, "%s%s%s\n", colorYellow, run.Advisory, colorReset)
			}
			for _, v := range result.Outcome.ValidationErrors {
				fmt.Fprintf(out, "%s✗ %s: %s%s\n", colorRed, v.CriterionName, v.Description, colorReset)
			}

			switch {
			case run.Success && run.Redistributed:
				fmt.Fprintf(out, "%s⚠️  Redistributed targets met; configured targets were lowered to fit %d workers%s\n\n",
					colorYellow, run.Workers, colorReset)
			case run.Success:
				fmt.Fprintf(out, "%s✓ All targets met%s\n\n", colorGreen, colorReset)
			default:
				fmt.Fprintf(out, "%s⚠️  Shortfall of %d shifts%s\n\n", colorYellow, run.Shortfall, colorReset)
			}

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Allocate without storing the run")

	return cmd
}
