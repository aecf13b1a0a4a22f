// Liad is the consciousness agent daemon.
//
// The serve command starts the agent with its HTTP API, memory stores, and
// state persistence. The remaining commands are thin clients against a
// running daemon.
//
// Usage:
//
//	# Start the daemon with defaults
//	liad serve
//
//	# Start with a config file
//	liad serve --config ~/.config/liad/config.yaml
//
//	# Talk to a running daemon
//	liad interact "hello there"
//	liad state
//	liad evolve
//
// Configuration is loaded from the config file and LIAD_* environment
// variables. See internal/config for details.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var (
	// configFile is the config file path, empty selects the default.
	configFile string
	// serverURL is the daemon address for the client commands.
	serverURL string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "liad",
	Short: "Consciousness agent daemon",
	Long: `liad hosts a single long-lived consciousness agent: interactions flow
through its perception, quantum, neural, consciousness, and emotional stages,
each response folds back into the agent's dimensional state, and experiences
integrate into vector-backed long-term memory.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8090", "liad server URL")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default ~/.config/liad/config.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(interactCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(evolveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("liad\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}
