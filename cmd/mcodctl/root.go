package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mcodctl",
	Short: "Otwarte Dane portal API and harvester",
	Long: `mcodctl runs and administers the Otwarte Dane open data portal:
the public JSON:API server, database migrations, the catalog harvester,
resource link checks and subscription watchers.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
