package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-liquid/internal/platform/tui"
	"github.com/vovakirdan/tui-liquid/internal/scenario"
	"github.com/vovakirdan/tui-liquid/internal/storage"
)

var flagSnapshot string

var playCmd = &cobra.Command{
	Use:   "play [scenario]",
	Short: "Run a scenario interactively",
	Long: `Open the specified scenario in the terminal.

Controls:
  Mouse        - Click and drag to pour
  Arrows       - Point gravity down/up/left/right
  [ / ]        - Rotate gravity by 15 degrees
  T            - Toggle tilt sway
  P/Space      - Pause, . steps while paused
  R            - Reset the scenario
  S            - Save a snapshot
  Ctrl+S       - Save the grid as text
  Q/Ctrl+C     - Quit

With --snapshot the scenario may be omitted; the snapshot's own scenario
is used.

Examples:
  liquid play pool
  liquid play dam --size 40
  liquid play --snapshot pool-20260101-120000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSnapshot, "snapshot", "", "Name of a saved snapshot to restore")
}

func runPlay(_ *cobra.Command, args []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	var snap *storage.Snapshot
	if flagSnapshot != "" {
		if store == nil {
			return errors.New("snapshots need the run database")
		}
		s, err := store.LoadSnapshot(flagSnapshot)
		if err != nil {
			return err
		}
		snap = s
		// The snapshot's grid fixes the size.
		appConfig.Engine.Size = snap.Size
	}

	var id string
	switch {
	case len(args) == 1:
		id = args[0]
	case snap != nil:
		id = snap.Scenario
	default:
		return errors.New("play needs a scenario or --snapshot")
	}

	sc, err := scenario.Create(id)
	if err != nil {
		return fmt.Errorf("%w\nRun 'liquid list' to see available scenarios", err)
	}

	fileLog, closeLog := fileLogger()
	defer closeLog()

	return tui.Run(sc, tui.Options{
		Config:   appConfig,
		Runtime:  runtimeConfig(),
		Store:    store,
		Logger:   fileLog,
		Snapshot: snap,
	})
}
