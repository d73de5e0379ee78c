// Package cli defines the searchapi command tree.
package cli

import (
	"github.com/spf13/cobra"

	"SearchAPI/internal/logger"
)

// NewRootCmd builds the searchapi command. Without a subcommand it serves HTTP.
func NewRootCmd() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:   "searchapi",
		Short: "Whitelist-driven search API over SQL entities",
		Long: `searchapi exposes paginated, filtered and sorted search over the entities
declared in whitelist files. Only declared fields can be searched, filtered
or sorted, and soft-deleted rows are never returned.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logger.SetDebug(debug)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	root.AddCommand(
		NewServeCmd(),
		NewMigrateCmd(),
		NewExplainCmd(),
		NewWhitelistsCmd(),
	)
	return root
}
