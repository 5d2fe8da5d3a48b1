package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// resourcesCmd represents the resources command
var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Maintain dataset resources",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'resources' requires a subcommand (check-links)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// resourcesCheckLinksCmd represents the resources check-links command
var resourcesCheckLinksCmd = &cobra.Command{
	Use:   "check-links",
	Short: "Check resource links and record their status",
	Long: `Check the links of resources and record whether they are reachable.

Without --dataset every resource with a link is checked.

Example:
  mcodctl resources check-links
  mcodctl resources check-links --dataset 42`,
	Run: func(cmd *cobra.Command, args []string) {
		var datasetID *uint
		if raw, _ := cmd.Flags().GetString("dataset"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				fail("Invalid dataset id", fmt.Errorf("%q is not a dataset id", raw))
			}
			v := uint(id)
			datasetID = &v
		}

		s, err := newApp()
		if err != nil {
			fail("Failed to start", err)
		}
		ctx, stop := signalContext()
		defer stop()

		summary, err := s.LinkChecker.CheckResources(ctx, s.ResourcesStore, datasetID)
		if err != nil {
			fail("Link check failed", err)
		}
		fmt.Printf("Checked %d links: %d ok, %d broken, %d formats detected\n",
			summary.Checked, summary.Ok, summary.Broken, summary.Detected)
	},
}

func init() {
	rootCmd.AddCommand(resourcesCmd)
	resourcesCmd.AddCommand(resourcesCheckLinksCmd)
	resourcesCheckLinksCmd.Flags().String("dataset", "", "Only check resources of this dataset")
}
