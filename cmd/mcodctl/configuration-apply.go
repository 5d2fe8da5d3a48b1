package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/otwartedane/mcod/pkg/config"
	"github.com/otwartedane/mcod/pkg/db"
)

// configurationApplyCmd represents the configuration apply command
var configurationApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Validate configuration and signal the running server",
	Long: `Validate the current state of the configuration file and then send
SIGHUP to the running server so it re-reads its data sources.

Changes to the file or to environment variables take effect when the
server is restarted.

Use --test to validate configuration without signalling.

Example:
  mcodctl configuration apply
  mcodctl configuration apply --test`,
	Run: func(cmd *cobra.Command, args []string) {
		testMode, _ := cmd.Flags().GetBool("test")

		if err := applyConfiguration(testMode); err != nil {
			fail("Failed to apply configuration", err)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationApplyCmd)
	configurationApplyCmd.Flags().Bool("test", false, "Validate configuration without signalling the server")
}

func applyConfiguration(testMode bool) error {
	fmt.Println("Validating configuration...")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	fmt.Printf("Config file: %s\n", cfg.ConfigFilePath())

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if db.URL() == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if cfg.JWTSecret() == "" {
		return errors.New("MCOD_JWT_SECRET is not set")
	}

	fmt.Println("Configuration is valid.")

	if testMode {
		fmt.Println("Test mode: not signalling server.")
		return nil
	}

	pgrep := exec.Command("pgrep", "-f", "mcodctl server")
	output, err := pgrep.Output()
	if err != nil {
		return errors.New("no running mcodctl server found")
	}

	var pid int
	if _, err := fmt.Sscanf(string(output), "%d", &pid); err != nil {
		return fmt.Errorf("failed to parse PID: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(syscall.SIGHUP); err != nil {
		return fmt.Errorf("failed to send signal: %w", err)
	}

	fmt.Printf("Sent reload signal to process %d\n", pid)
	return nil
}
