package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// watchersCmd represents the watchers command
var watchersCmd = &cobra.Command{
	Use:   "watchers",
	Short: "Maintain subscription watchers",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'watchers' requires a subcommand (refresh)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// watchersRefreshCmd represents the watchers refresh command
var watchersRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recount saved searches and notify their subscribers",
	Long: `Recount the results of every saved search watcher. Subscribers are
notified when a count went up or down.

Example:
  mcodctl watchers refresh`,
	Run: func(cmd *cobra.Command, args []string) {
		s, err := newApp()
		if err != nil {
			fail("Failed to start", err)
		}
		ctx, stop := signalContext()
		defer stop()

		changed, err := s.Watchers.RefreshQueryWatchers(ctx)
		if err != nil {
			fail("Refresh failed", err)
		}
		fmt.Printf("Refreshed query watchers: %d changed\n", changed)
	},
}

func init() {
	rootCmd.AddCommand(watchersCmd)
	watchersCmd.AddCommand(watchersRefreshCmd)
}
