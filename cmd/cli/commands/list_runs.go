package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/rider-rota/pkg/core/services"
)

// ListRunsCmd creates the listRuns command
func ListRunsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listRuns",
		Short: "List stored allocation runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.requireDatabase()
			if err != nil {
				return err
			}

			runs, err := services.ListRuns(app.Ctx, store, app.Logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No stored runs.")
				return nil
			}

			fmt.Fprintf(out, "\nFound %d runs:\n\n", len(runs))
			fmt.Fprintf(out, "%-36s  %-16s  %-10s  %-8s  %7s  %9s  %s\n",
				"ID", "Created", "Period", "Scheme", "Workers", "Shortfall", "Status")
			for _, run := range runs {
				status := colorGreen + "met" + colorReset
				if !run.Success {
					status = colorYellow + "short" + colorReset
				}
				period := run.PeriodStart
				if period == "" {
					period = "-"
				}
				fmt.Fprintf(out, "%-36s  %-16s  %-10s  %-8s  %7d  %9d  %s\n",
					run.ID,
					run.CreatedAt.Format("2006-01-02 15:04"),
					period,
					run.Scheme,
					run.Workers,
					run.Shortfall,
					status,
				)
			}
			fmt.Fprintln(out)

			return nil
		},
	}
}
