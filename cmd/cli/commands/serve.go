package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jakechorley/rider-rota/internal/config"
	"github.com/jakechorley/rider-rota/pkg/api"
)

const defaultServerAddress = ":8080"

// serverAddress picks the flag value, then the configured address, then the default
func serverAddress(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.ServerAddress != "" {
		return cfg.ServerAddress
	}
	return defaultServerAddress
}

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve feasibility checks and dry-run allocations over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")

			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(app.Logger, api.NewMetrics())
			return server.ListenAndServe(ctx, serverAddress(addr, app.Cfg))
		},
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to serverAddress from config, then "+defaultServerAddress+")")

	return cmd
}
