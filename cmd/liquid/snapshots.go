package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-liquid/internal/input"
	"github.com/vovakirdan/tui-liquid/internal/storage"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List saved snapshots",
	Long: `Snapshots are saved with S while a scenario runs, or by
'liquid run --save'. Restore one with 'liquid play --snapshot <name>'.

Examples:
  liquid snapshots
  liquid snapshots rm pool-20260101-120000`,
	Args: cobra.NoArgs,
	RunE: runSnapshots,
}

var snapshotsRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotsRm,
}

func init() {
	snapshotsCmd.AddCommand(snapshotsRmCmd)
}

func runSnapshots(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	snaps, err := store.ListSnapshots()
	if err != nil {
		return err
	}

	if len(snaps) == 0 {
		fmt.Println("No snapshots saved yet.")
		return nil
	}

	maxNameLen := 4 // "Name" header
	for _, s := range snaps {
		maxNameLen = max(maxNameLen, len(s.Name))
	}

	fmt.Printf("  %-*s  %-10s  %-5s  %-8s  %-7s  %s\n", maxNameLen, "Name", "Scenario", "Size", "Tick", "Gravity", "Date")
	fmt.Printf("  %-*s  %-10s  %-5s  %-8s  %-7s  %s\n", maxNameLen, "----", "--------", "----", "----", "-------", "----")
	for _, s := range snaps {
		fmt.Printf("  %-*s  %-10s  %-5d  %-8d  %-7s  %s\n",
			maxNameLen, s.Name,
			s.Scenario,
			s.Size,
			s.Tick,
			fmt.Sprintf("%.0f°", input.Heading(s.Gravity)),
			s.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return nil
}

func runSnapshotsRm(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteSnapshot(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted snapshot %q\n", args[0])
	return nil
}
