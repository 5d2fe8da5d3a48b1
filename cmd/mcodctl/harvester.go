package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/otwartedane/mcod/pkg/harvester"
	"github.com/otwartedane/mcod/pkg/server"
)

// harvesterCmd represents the harvester command
var harvesterCmd = &cobra.Command{
	Use:   "harvester",
	Short: "Manage catalog harvesting",
	Long:  `Run imports of external catalogs and manage their data sources.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'harvester' requires a subcommand (run, sources)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// harvesterRunCmd represents the harvester run command
var harvesterRunCmd = &cobra.Command{
	Use:   "run <source-id>",
	Short: "Harvest one data source now",
	Long: `Harvest one data source now and print the import summary.

Example:
  mcodctl harvester run 3`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil || id == 0 {
			fail("Invalid source id", fmt.Errorf("%q is not a source id", args[0]))
		}
		s, err := newApp()
		if err != nil {
			fail("Failed to start", err)
		}
		ctx, stop := signalContext()
		defer stop()

		imp, err := s.Harvester.RunNow(ctx, uint(id))
		if err != nil {
			fail("Harvest failed", err)
		}
		fmt.Printf("Import %s finished with status %s\n", imp.RunID, imp.Status)
		fmt.Printf("Datasets: %d (created %d, updated %d, deleted %d)\n",
			imp.DatasetsCount, imp.DatasetsCreated, imp.DatasetsUpdated, imp.DatasetsDeleted)
		fmt.Printf("Resources: %d (created %d, updated %d, deleted %d)\n",
			imp.ResourcesCount, imp.ResourcesCreated, imp.ResourcesUpdated, imp.ResourcesDeleted)
		if imp.InvalidCount > 0 {
			fmt.Printf("Invalid records: %d\n", imp.InvalidCount)
		}
		if imp.ErrorDesc != "" {
			fmt.Printf("Error: %s\n", imp.ErrorDesc)
		}
	},
}

// harvesterSourcesCmd represents the harvester sources command
var harvesterSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage harvested data sources",
	Long:  `Register harvested data sources from a YAML file.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'sources' requires a subcommand (apply, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

// harvesterSourcesApplyCmd represents the harvester sources apply command
var harvesterSourcesApplyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Create or update data sources from a YAML file",
	Long: `Create or update data sources from a YAML file. Sources are matched by name.

Example file:
  sources:
    - name: GUS
      type: ckan
      api_url: https://ckan.example.org/api/3/action/package_search
      organization: gus
      frequency_in_days: 7

Example:
  mcodctl harvester sources apply sources.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := newApp()
		if err != nil {
			fail("Failed to start", err)
		}
		f, err := harvester.LoadSources(args[0])
		if err != nil {
			fail("Failed to read sources", err)
		}
		saved, err := f.Apply(context.Background(), s.DataSourcesStore, s.HarvestStore)
		if err != nil {
			fail("Failed to apply sources", err)
		}
		for _, src := range saved {
			fmt.Printf("%d\t%s\t%s\t%s\n", src.ID, src.Name, src.SourceType, src.SourceURL())
		}
	},
}

// harvesterSourcesWatchCmd represents the harvester sources watch command
var harvesterSourcesWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a sources file and apply it whenever it changes",
	Long: `Watch a sources file and apply it whenever it is written or replaced.

The file is applied once on start.

Example:
  mcodctl harvester sources watch /etc/mcod/sources.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := newApp()
		if err != nil {
			fail("Failed to start", err)
		}
		if err := watchSources(s, args[0]); err != nil {
			fail("Failed to watch sources", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(harvesterCmd)
	harvesterCmd.AddCommand(harvesterRunCmd)
	harvesterCmd.AddCommand(harvesterSourcesCmd)
	harvesterSourcesCmd.AddCommand(harvesterSourcesApplyCmd)
	harvesterSourcesCmd.AddCommand(harvesterSourcesWatchCmd)
}

func watchSources(s *server.Server, path string) error {
	ctx, stop := signalContext()
	defer stop()

	apply := func(ctx context.Context, f *harvester.SourcesFile) error {
		_, err := f.Apply(ctx, s.DataSourcesStore, s.HarvestStore)
		return err
	}

	f, err := harvester.LoadSources(path)
	if err != nil {
		return err
	}
	if err := apply(ctx, f); err != nil {
		return err
	}
	s.Logger.Info("watching sources", zap.String("path", path), zap.Int("sources", len(f.Sources)))
	return harvester.WatchSources(ctx, path, s.Logger, apply)
}
