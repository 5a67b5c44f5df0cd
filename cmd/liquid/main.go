// liquid is a terminal liquid simulator: a cellular automaton that pours,
// sloshes and pressurises water inside containers drawn in the terminal.
//
// Usage:
//
//	liquid list                  - List available scenarios
//	liquid play <scenario>       - Run a scenario interactively
//	liquid menu                  - Pick scenarios interactively
//	liquid run <scenario>        - Step a scenario headless and report mass
//	liquid runs [scenario]       - Show run history
//	liquid snapshots             - List or delete saved snapshots
//	liquid serve                 - Start SSH server for remote sessions
//
// Global flags:
//
//	--fps <rate>        - Ticks per second (default: from config)
//	--size <n>          - Grid side (default: from config)
//	--config <path>     - Path to liquid.yaml
//	--db <path>         - Set database path (default: ~/.liquid/liquid.db)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS      int
	flagSize     int
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "liquid",
	Short: "Liquid - a water simulation in your terminal",
	Long: `Liquid simulates water as a grid of cells exchanging mass under
gravity. Pour with the mouse, tilt the container with the arrow keys and
watch the pressure build up at the bottom.

Available commands:
  list       - Show all available scenarios
  play       - Run a scenario directly
  menu       - Interactive scenario picker
  run        - Step a scenario without a UI
  runs       - View run history
  snapshots  - Manage saved snapshots
  serve      - Start SSH server for remote sessions

Scenario files (*.yaml) are picked up from ./scenarios and
~/.liquid/scenarios.

Examples:
  liquid list
  liquid play pool
  liquid run dam --ticks 2000 --ascii
  liquid serve --ssh :2222`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = engine.tick_rate from config)")
	rootCmd.PersistentFlags().IntVar(&flagSize, "size", 0, "Grid side in cells (0 = engine.size from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to liquid.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.liquid/liquid.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(serveCmd)
}
