package main

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-liquid/internal/scenario"
	"github.com/vovakirdan/tui-liquid/internal/storage"
)

var (
	flagRunsLimit int
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [scenario]",
	Short: "Show run history",
	Long: `Display recent runs, newest first. Without a scenario, every
scenario's runs are listed followed by per-scenario totals.

Examples:
  liquid runs
  liquid runs pool --limit 5
  liquid runs dam --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the scenario's run history")
}

func runRuns(_ *cobra.Command, args []string) error {
	var id string
	if len(args) == 1 {
		id = args[0]
		if !scenario.Exists(id) {
			return fmt.Errorf("unknown scenario %q\nRun 'liquid list' to see available scenarios", id)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagRunsClear {
		if id == "" {
			return errors.New("--clear needs a scenario")
		}
		if err := store.ClearRuns(id); err != nil {
			return err
		}
		fmt.Printf("Cleared run history of %s\n", id)
		return nil
	}

	runs, err := store.RecentRuns(id, flagRunsLimit)
	if err != nil {
		return err
	}

	title := "all scenarios"
	if id != "" {
		title = id
	}
	fmt.Printf("Recent runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-12s  %-8s  %-11s  %-8s  %s\n", "Scenario", "Ticks", "Drift", "Time", "Date")
	fmt.Printf("  %-12s  %-8s  %-11s  %-8s  %s\n", "--------", "-----", "-----", "----", "----")
	for _, r := range runs {
		fmt.Printf("  %-12s  %-8d  %-11s  %-8s  %s\n",
			r.Scenario,
			r.Ticks,
			fmt.Sprintf("%+.2e", r.Drift()),
			r.Duration.Round(time.Second),
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	if id != "" {
		return nil
	}

	stats, err := store.AllScenarioStats()
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(stats))
	for k := range stats {
		ids = append(ids, k)
	}
	slices.Sort(ids)

	fmt.Println()
	fmt.Printf("  %-12s  %-6s  %-10s  %s\n", "Scenario", "Runs", "Ticks", "Max drift")
	fmt.Printf("  %-12s  %-6s  %-10s  %s\n", "--------", "----", "-----", "---------")
	for _, k := range ids {
		st := stats[k]
		fmt.Printf("  %-12s  %-6d  %-10d  %.2e\n", st.Scenario, st.RunsCount, st.TotalTicks, st.MaxDrift)
	}
	return nil
}
