package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/uplift/internal/version"
	"github.com/arthur-debert/uplift/pkg/logging"
)

var (
	verbosity int

	rootCmd = &cobra.Command{
		Use:   "uplift",
		Short: "Integrates a pinned SurrealDB release as an embeddable library",
		Long: `uplift fetches a specific SurrealDB release, restructures the
monolithic application tree into a reusable library layout with explicit
extension points, and records what was applied so repeated runs are
safe and cheap.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newIntegrateCmd())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for uplift`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("uplift version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}
