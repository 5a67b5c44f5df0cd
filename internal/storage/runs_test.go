package storage

import (
	"math"
	"testing"
	"time"
)

func TestSaveAndRecentRuns(t *testing.T) {
	store := openTestStore(t)

	saved := []Run{
		{Scenario: "pool", Ticks: 100, StartMass: 50, EndMass: 50, Duration: 2 * time.Second},
		{Scenario: "dam", Ticks: 300, StartMass: 72, EndMass: 72.000001, Duration: 1500 * time.Millisecond},
		{Scenario: "pool", Ticks: 200, StartMass: 50, EndMass: 49.5, Duration: time.Second},
	}
	for _, r := range saved {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	all, err := store.RecentRuns("", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(all))
	}
	if all[0].Ticks != 200 || all[2].Ticks != 100 {
		t.Errorf("Runs not newest first: ticks %d, %d, %d", all[0].Ticks, all[1].Ticks, all[2].Ticks)
	}

	pool, err := store.RecentRuns("pool", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(pool) != 2 {
		t.Fatalf("Expected 2 pool runs, got %d", len(pool))
	}

	r := pool[0]
	if r.Scenario != "pool" || r.Duration != time.Second || r.EndMass != 49.5 {
		t.Errorf("Round trip mismatch: %+v", r)
	}
	if r.Drift() != -0.5 {
		t.Errorf("Drift() = %v, expected -0.5", r.Drift())
	}
	if r.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set by the database")
	}
}

func TestRecentRunsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 30 {
		if _, err := store.SaveRun(Run{Scenario: "droplet", Ticks: uint64(i)}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.RecentRuns("droplet", 5)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 5 {
		t.Errorf("Expected 5 runs, got %d", len(runs))
	}

	runs, err = store.RecentRuns("droplet", 0)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 20 {
		t.Errorf("Default limit returned %d runs, expected 20", len(runs))
	}
}

func TestAllScenarioStats(t *testing.T) {
	store := openTestStore(t)

	runs := []Run{
		{Scenario: "pool", Ticks: 100, StartMass: 10, EndMass: 10.25},
		{Scenario: "pool", Ticks: 50, StartMass: 10, EndMass: 9.5},
		{Scenario: "dam", Ticks: 7, StartMass: 3, EndMass: 3},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	stats, err := store.AllScenarioStats()
	if err != nil {
		t.Fatalf("AllScenarioStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected stats for 2 scenarios, got %d", len(stats))
	}

	pool := stats["pool"]
	if pool.RunsCount != 2 || pool.TotalTicks != 150 {
		t.Errorf("pool stats = %+v, expected 2 runs and 150 ticks", pool)
	}
	if math.Abs(pool.MaxDrift-0.5) > 1e-12 {
		t.Errorf("pool MaxDrift = %v, expected 0.5", pool.MaxDrift)
	}
	if stats["dam"].MaxDrift != 0 {
		t.Errorf("dam MaxDrift = %v, expected 0", stats["dam"].MaxDrift)
	}
}

func TestClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{Scenario: "pool"})
	store.SaveRun(Run{Scenario: "dam"})

	if err := store.ClearRuns("pool"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	all, _ := store.RecentRuns("", 10)
	if len(all) != 1 || all[0].Scenario != "dam" {
		t.Errorf("Expected only the dam run to remain, got %+v", all)
	}
}
