package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marquinacarlos/portablogio-backend/internal/logging"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Long: `Create the tables and indexes the API needs.

Every statement uses IF NOT EXISTS, so the command can run on every deploy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadDatabaseConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			tables, err := store.Tables(ctx)
			if err != nil {
				logging.Warn().Err(err).Msg("could not list tables")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tables: %s\n", strings.Join(tables, ", "))
			return nil
		},
	}
}
