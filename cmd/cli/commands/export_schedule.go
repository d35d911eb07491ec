package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/rider-rota/pkg/core/services"
)

// ExportScheduleCmd creates the exportSchedule command
func ExportScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exportSchedule [run_id]",
		Short: "Export a stored run as CSV (defaults to the latest run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var runID string
			if len(args) > 0 {
				runID = args[0]
			}
			outPath, _ := cmd.Flags().GetString("out")

			app.Logger.Debug("exportSchedule command",
				zap.String("run_id", runID),
				zap.String("out", outPath))

			store, err := app.requireDatabase()
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			run, err := services.ExportSchedule(app.Ctx, store, app.Logger, runID, w)
			if err != nil {
				return err
			}

			if outPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported run %s to %s\n", run.ID, outPath)
			}

			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "", "Write the CSV to this file instead of stdout")

	return cmd
}
