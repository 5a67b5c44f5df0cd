package main

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-liquid/internal/input"
	"github.com/vovakirdan/tui-liquid/internal/render"
	"github.com/vovakirdan/tui-liquid/internal/scenario"
	"github.com/vovakirdan/tui-liquid/internal/storage"
)

var (
	flagTicks    int
	flagEvery    int
	flagASCII    bool
	flagSaveName string
	flagRotate   float64
)

var runCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Step a scenario without a UI",
	Long: `Advance a scenario for a number of ticks and report how well mass
was conserved. Statistics are logged every --every ticks.

Examples:
  liquid run pool --ticks 1000
  liquid run dam --ticks 500 --ascii --size 32
  liquid run pool --rotate 90 --save pool-sideways`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagTicks, "ticks", 500, "Number of ticks to run")
	runCmd.Flags().IntVar(&flagEvery, "every", 100, "Log statistics every N ticks (0 = never)")
	runCmd.Flags().BoolVar(&flagASCII, "ascii", false, "Print the final grid")
	runCmd.Flags().StringVar(&flagSaveName, "save", "", "Save the final state as a snapshot with this name")
	runCmd.Flags().Float64Var(&flagRotate, "rotate", 0, "Rotate gravity counter-clockwise by this many degrees before running")
}

func runRun(_ *cobra.Command, args []string) error {
	id := args[0]
	if flagTicks < 0 {
		return fmt.Errorf("--ticks must not be negative, got %d", flagTicks)
	}

	sim, err := scenario.Build(id, appConfig)
	if err != nil {
		return fmt.Errorf("%w\nRun 'liquid list' to see available scenarios", err)
	}

	if flagRotate != 0 {
		if err := input.NewAdapter(sim, logger).Apply(input.RotateGravity{Degrees: flagRotate}); err != nil {
			return err
		}
	}

	startMass := sim.TotalMass()
	logger.Info("run started",
		"scenario", id,
		"size", sim.Size(),
		"ticks", flagTicks,
		"mass", startMass,
		"gravity", input.Heading(sim.Gravity()),
	)

	started := time.Now()
	for t := 1; t <= flagTicks; t++ {
		st := sim.Step()
		if flagEvery > 0 && t%flagEvery == 0 {
			logger.Info("tick",
				"tick", sim.Tick(),
				"active", st.Active,
				"moved", fmt.Sprintf("%.4f", st.Moved),
				"mass", fmt.Sprintf("%.6f", sim.TotalMass()),
			)
		}
	}
	elapsed := time.Since(started)

	run := storage.Run{
		Scenario:  id,
		Ticks:     sim.Tick(),
		StartMass: startMass,
		EndMass:   sim.TotalMass(),
		Duration:  elapsed,
	}

	if flagASCII {
		fmt.Println(render.ASCII(sim))
		fmt.Println()
	}

	fmt.Printf("Scenario:   %s\n", id)
	fmt.Printf("Ticks:      %d (%s)\n", run.Ticks, elapsed.Round(time.Millisecond))
	fmt.Printf("Start mass: %.6f\n", run.StartMass)
	fmt.Printf("End mass:   %.6f\n", run.EndMass)
	fmt.Printf("Drift:      %+.3e", run.Drift())
	if run.StartMass > 0 {
		fmt.Printf(" (%.2e relative)", math.Abs(run.Drift())/run.StartMass)
	}
	fmt.Println()

	store := openStore()
	if store == nil {
		if flagSaveName != "" {
			return fmt.Errorf("cannot save snapshot %q without the run database", flagSaveName)
		}
		return nil
	}
	defer store.Close()

	if run.Ticks > 0 {
		if _, err := store.SaveRun(run); err != nil {
			logger.Warn("could not save run", "error", err)
		}
	}

	if flagSaveName != "" {
		if _, err := store.SaveSnapshot(storage.Capture(flagSaveName, id, sim)); err != nil {
			return err
		}
		fmt.Printf("Saved snapshot %q\n", flagSaveName)
	}
	return nil
}
