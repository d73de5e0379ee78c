package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"SearchAPI/internal/config"
	"SearchAPI/internal/db"
	"SearchAPI/internal/logger"
)

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Applies every pending migration of MIGRATIONS_DIR to the configured
backend (BACKEND=postgres uses POSTGRES_DSN, BACKEND=sqlite uses SQLITE_PATH).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.SetOutput(cmd.ErrOrStderr())
			cfg := config.LoadConfig()

			switch cfg.Backend {
			case config.BackendPostgres:
				if err := db.MigratePostgres(cfg.PostgresDSN, cfg.MigrationsDir); err != nil {
					return err
				}
			case config.BackendSQLite:
				conn, err := db.OpenSQLite(cfg.SQLitePath)
				if err != nil {
					return err
				}
				defer conn.Close()
				if err := db.MigrateSQLite(conn, cfg.MigrationsDir); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown backend %q", cfg.Backend)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", cfg.Backend)
			return nil
		},
	}
}
