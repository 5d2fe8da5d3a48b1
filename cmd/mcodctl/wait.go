package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the portal API and its database to be ready",
	Long: `Wait for the portal API to be ready by polling the health endpoint.

The health endpoint answers 200 only when the database is reachable, so a
successful wait means both the server and its database are up.

Example:
  mcodctl wait
  mcodctl wait --port 3000 --retries 60`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		retries, _ := cmd.Flags().GetInt("retries")

		if err := waitForServer(port, retries); err != nil {
			fail("Server did not become ready", err)
		}

		fmt.Println("Portal API is ready")
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().IntP("port", "p", defaultPortInt(), "Server port to check")
	waitCmd.Flags().IntP("retries", "r", 90, "Number of retries")
}

func waitForServer(port, retries int) error {
	url := fmt.Sprintf("http://localhost:%d/health", port)
	client := &http.Client{Timeout: 2 * time.Second}

	fmt.Fprintln(os.Stderr, "Waiting for the portal API to be ready...")

	for i := 0; i < retries; i++ {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode < 300 {
				fmt.Fprintln(os.Stderr)
				return nil
			}
		}

		fmt.Fprint(os.Stderr, ".")
		time.Sleep(1 * time.Second)
	}

	fmt.Fprintln(os.Stderr)
	return fmt.Errorf("not ready after %d seconds", retries)
}
