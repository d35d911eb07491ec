package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/rider-rota/cmd/cli/commands"
	"github.com/jakechorley/rider-rota/internal/config"
	"github.com/jakechorley/rider-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/rider-rota/pkg/core/services"
	"github.com/jakechorley/rider-rota/pkg/postgres"
	"github.com/jakechorley/rider-rota/pkg/utils"
	"github.com/jakechorley/rider-rota/pkg/utils/logging"
)

var (
	env      string
	app      = &commands.AppContext{}
	database *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rota",
		Short: "Rider rota - allocate shift combinations to riders",
		Long:  `A CLI tool for checking, allocating, storing and publishing shift-combination schedules.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if database != nil {
				database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.CheckFeasibilityCmd(app))
	rootCmd.AddCommand(commands.AllocateShiftsCmd(app))
	rootCmd.AddCommand(commands.ExportScheduleCmd(app))
	rootCmd.AddCommand(commands.PublishScheduleCmd(app))
	rootCmd.AddCommand(commands.ListRunsCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and database. The spreadsheet client is created on
// first publish.
func initApp() error {
	var err error
	app.Ctx = context.Background()
	app.Env = env

	app.Logger, err = logging.InitLogger(env, "")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.String("scheme", app.Cfg.Scheme),
		zap.Int("workers", app.Cfg.Workers))

	if app.Cfg.DatabaseURL != "" {
		app.Logger.Info("Connecting to database")
		database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL, app.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.RunMigrations(app.Ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Database = database
		app.Logger.Info("Database initialized successfully")
	} else {
		app.Logger.Info("No databaseURL configured, runs will not be stored")
	}

	app.NewPublisher = newSheetsPublisher

	return nil
}

func newSheetsPublisher() (services.SchedulePublisher, error) {
	app.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := app.Cfg.LoadOAuthClient(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	tokens, err := utils.DefaultTokenStore()
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, tokens, env, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	app.Logger.Debug("Sheets client initialized successfully")

	return client, nil
}
