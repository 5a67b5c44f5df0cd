package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Run is one finished simulation session.
type Run struct {
	ID        int64
	Scenario  string
	Ticks     uint64
	StartMass float64
	EndMass   float64
	Duration  time.Duration
	CreatedAt time.Time
}

// Drift returns how much total mass changed over the run.
func (r Run) Drift() float64 {
	return r.EndMass - r.StartMass
}

// SaveRun records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (scenario, ticks, start_mass, end_mass, duration_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		r.Scenario, int64(r.Ticks), r.StartMass, r.EndMass, r.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns returns the latest runs, newest first. An empty scenario
// matches every scenario.
func (s *Store) RecentRuns(scenario string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		rows *sql.Rows
		err  error
	)
	const cols = `SELECT id, scenario, ticks, start_mass, end_mass, duration_ms, created_at FROM runs`
	if scenario == "" {
		rows, err = s.db.Query(cols+` ORDER BY id DESC LIMIT ?`, limit)
	} else {
		rows, err = s.db.Query(cols+` WHERE scenario = ? ORDER BY id DESC LIMIT ?`, scenario, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			ticks     int64
			durMS     int64
			createdAt any
		)
		if err := rows.Scan(&r.ID, &r.Scenario, &ticks, &r.StartMass, &r.EndMass, &durMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Ticks = uint64(ticks)
		r.Duration = time.Duration(durMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// ScenarioStats contains aggregated run statistics for a scenario.
type ScenarioStats struct {
	Scenario   string
	RunsCount  int
	TotalTicks int64
	MaxDrift   float64 // Largest absolute mass drift of any run
	LastRun    time.Time
}

// AllScenarioStats retrieves statistics for every scenario that has runs.
func (s *Store) AllScenarioStats() (map[string]*ScenarioStats, error) {
	rows, err := s.db.Query(
		`SELECT scenario, COUNT(*), SUM(ticks), MAX(ABS(end_mass - start_mass)), MAX(created_at)
		 FROM runs
		 GROUP BY scenario`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scenario stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ScenarioStats)
	for rows.Next() {
		var st ScenarioStats
		var lastRun any
		if err := rows.Scan(&st.Scenario, &st.RunsCount, &st.TotalTicks, &st.MaxDrift, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastRun = parseTime(lastRun)
		stats[st.Scenario] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearRuns deletes the run history of a scenario.
func (s *Store) ClearRuns(scenario string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE scenario = ?", scenario)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}
