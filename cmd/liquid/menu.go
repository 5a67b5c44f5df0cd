package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-liquid/internal/platform/tui"
	"github.com/vovakirdan/tui-liquid/internal/scenario"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick scenarios from an interactive menu",
	Long: `Start the simulator in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to open a scenario.
Leaving a scenario with Esc or B returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Open scenario
  Tab          - Run history
  Q            - Quit

Examples:
  liquid menu
  liquid menu --fps 60
  liquid menu --db ./liquid.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore()
	fileLog, closeLog := fileLogger()
	defer closeLog()

	rt := runtimeConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(rt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		rt = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsHistory {
			goBack, histErr := tui.RunHistory(store, rt.ScreenW, rt.ScreenH)
			if histErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", histErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from history
		}

		sc, err := scenario.Create(menuResult.ScenarioID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		if err := tui.Run(sc, tui.Options{
			Config:  appConfig,
			Runtime: rt,
			Store:   store,
			Logger:  fileLog,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error running scenario: %v\n", err)
		}

		// Loop back to menu
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
