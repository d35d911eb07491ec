package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/rider-rota/pkg/core/services"
)

// PublishScheduleCmd creates the publishSchedule command
func PublishScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishSchedule [run_id]",
		Short: "Publish a stored run to the schedule spreadsheet (defaults to the latest run)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var runID string
			if len(args) > 0 {
				runID = args[0]
			}

			app.Logger.Debug("publishSchedule command", zap.String("run_id", runID))

			store, err := app.requireDatabase()
			if err != nil {
				return err
			}
			if app.Cfg.ScheduleSheetID == "" {
				return services.ErrNoScheduleSheet
			}

			publisher, err := app.Publisher()
			if err != nil {
				return fmt.Errorf("failed to create publisher: %w", err)
			}

			result, err := services.PublishSchedule(app.Ctx, store, publisher, app.Cfg, app.Logger, runID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Published run %s to tab %q\n\n", result.Run.ID, result.TabTitle)
			return nil
		},
	}
}
