package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"SearchAPI/internal/config"
	"SearchAPI/internal/db"
	"SearchAPI/internal/logger"
	"SearchAPI/internal/registry"
)

func NewWhitelistsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitelists",
		Short: "Inspect and distribute entity whitelists",
	}
	cmd.AddCommand(newWhitelistsPublishCmd(), newWhitelistsListCmd())
	return cmd
}

func newWhitelistsPublishCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Load whitelist files and store them in Redis",
		Long: `Reads every whitelist file of WHITELIST_DIR (or --dir) and replaces the
Redis hash REDIS_WHITELIST_KEY with them, so instances started with
WHITELIST_SOURCE=redis pick them up.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.SetOutput(cmd.ErrOrStderr())
			cfg := config.LoadConfig()
			if dir == "" {
				dir = cfg.Whitelists.Dir
			}

			reg, err := registry.LoadDir(dir)
			if err != nil {
				return err
			}

			db.InitRedis(cfg.Whitelists.RedisAddr)
			defer func() { _ = db.CloseRedis() }()
			if err := db.PingRedis(cmd.Context()); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			if err := registry.Publish(cmd.Context(), db.RDB, cfg.Whitelists.RedisKey, reg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %d whitelists to %s\n", reg.Len(), cfg.Whitelists.RedisKey)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "whitelist directory (defaults to WHITELIST_DIR)")
	return cmd
}

func newWhitelistsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the entities of the configured whitelist source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.SetOutput(cmd.ErrOrStderr())
			cfg := config.LoadConfig()
			reg, err := loadRegistry(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range reg.Names() {
				e, _ := reg.Get(name)
				fmt.Fprintf(out, "%s\ttable=%s\tfields=%v\tfilterable=%v\n",
					name, e.Table, e.Whitelist.Names(), e.Whitelist.FilterableNames())
			}
			return nil
		},
	}
}
