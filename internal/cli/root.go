// Package cli holds the cobra commands of the portfolio backend binary.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marquinacarlos/portablogio-backend/internal/config"
	"github.com/marquinacarlos/portablogio-backend/internal/db"
	"github.com/marquinacarlos/portablogio-backend/internal/logging"
)

// NewRootCommand creates the root command. Running it without a
// subcommand starts the HTTP server.
func NewRootCommand() *cobra.Command {
	serve := NewServeCommand()

	cmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "Portfolio backend: blog posts, projects, services and contact relay",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	cmd.Flags().AddFlagSet(serve.Flags())

	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewSeedAdminCommand())

	return cmd
}

// loadDatabaseConfig loads configuration for the commands that only talk
// to the database.
func loadDatabaseConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return nil, err
	}
	initLogging(cfg)
	return cfg, nil
}

func initLogging(cfg *config.Config) {
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

func openStore(ctx context.Context, cfg *config.Config) (*db.Store, error) {
	store, err := db.NewStore(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	return store, nil
}
