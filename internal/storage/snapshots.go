package storage

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/tui-liquid/internal/liquid"
)

// Snapshot is a named copy of a simulation's grid, tick and gravity.
type Snapshot struct {
	ID        int64
	Name      string
	Scenario  string
	Size      int
	Tick      uint64
	Gravity   liquid.Vector
	Masses    []float64 // Row-major, border cells included; nil in listings
	CreatedAt time.Time
}

// Capture takes a snapshot of sim under name.
func Capture(name, scenario string, sim *liquid.Simulation) Snapshot {
	return Snapshot{
		Name:     name,
		Scenario: scenario,
		Size:     sim.Size(),
		Tick:     sim.Tick(),
		Gravity:  sim.Gravity(),
		Masses:   sim.Masses(),
	}
}

// Apply restores the snapshot into sim. sim must have been built from the
// same scenario so that walls line up.
func (snap Snapshot) Apply(sim *liquid.Simulation) error {
	if snap.Size != sim.Size() {
		return fmt.Errorf("%w: snapshot %q is %dx%d, grid is %dx%d",
			liquid.ErrLayoutMismatch, snap.Name, snap.Size, snap.Size, sim.Size(), sim.Size())
	}
	if err := sim.Restore(snap.Masses, snap.Tick); err != nil {
		return err
	}
	sim.SetGravity(snap.Gravity)
	return nil
}

// SaveSnapshot stores snap, replacing any snapshot with the same name.
// Returns the ID of the stored record.
func (s *Store) SaveSnapshot(snap Snapshot) (int64, error) {
	if len(snap.Masses) != snap.Size*snap.Size {
		return 0, fmt.Errorf("storage: snapshot %q has %d masses for size %d", snap.Name, len(snap.Masses), snap.Size)
	}

	_, err := s.db.Exec(
		`INSERT INTO snapshots (name, scenario, size, tick, gravity_i, gravity_j, masses)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   scenario = excluded.scenario,
		   size = excluded.size,
		   tick = excluded.tick,
		   gravity_i = excluded.gravity_i,
		   gravity_j = excluded.gravity_j,
		   masses = excluded.masses,
		   created_at = CURRENT_TIMESTAMP`,
		snap.Name, snap.Scenario, snap.Size, int64(snap.Tick),
		snap.Gravity.I, snap.Gravity.J, encodeMasses(snap.Masses),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save snapshot: %w", err)
	}

	var id int64
	if err := s.db.QueryRow("SELECT id FROM snapshots WHERE name = ?", snap.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("storage: cannot get snapshot ID: %w", err)
	}
	return id, nil
}

// LoadSnapshot retrieves a snapshot by name, masses included.
func (s *Store) LoadSnapshot(name string) (*Snapshot, error) {
	var (
		snap      Snapshot
		tick      int64
		blob      []byte
		createdAt any
	)
	err := s.db.QueryRow(
		`SELECT id, name, scenario, size, tick, gravity_i, gravity_j, masses, created_at
		 FROM snapshots
		 WHERE name = ?`,
		name,
	).Scan(&snap.ID, &snap.Name, &snap.Scenario, &snap.Size, &tick,
		&snap.Gravity.I, &snap.Gravity.J, &blob, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrSnapshotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query snapshot: %w", err)
	}

	masses, err := decodeMasses(blob)
	if err != nil {
		return nil, fmt.Errorf("storage: snapshot %q: %w", name, err)
	}
	snap.Tick = uint64(tick)
	snap.Masses = masses
	snap.CreatedAt = parseTime(createdAt)
	return &snap, nil
}

// ListSnapshots returns every snapshot without its masses, newest first.
func (s *Store) ListSnapshots() ([]Snapshot, error) {
	rows, err := s.db.Query(
		`SELECT id, name, scenario, size, tick, gravity_i, gravity_j, created_at
		 FROM snapshots
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var (
			snap      Snapshot
			tick      int64
			createdAt any
		)
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.Scenario, &snap.Size, &tick,
			&snap.Gravity.I, &snap.Gravity.J, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		snap.Tick = uint64(tick)
		snap.CreatedAt = parseTime(createdAt)
		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return snaps, nil
}

// DeleteSnapshot removes a snapshot by name.
func (s *Store) DeleteSnapshot(name string) error {
	res, err := s.db.Exec("DELETE FROM snapshots WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("storage: cannot delete snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrSnapshotNotFound, name)
	}
	return nil
}

// encodeMasses packs masses as little-endian IEEE 754 doubles.
func encodeMasses(masses []float64) []byte {
	buf := make([]byte, 8*len(masses))
	for k, m := range masses {
		binary.LittleEndian.PutUint64(buf[8*k:], math.Float64bits(m))
	}
	return buf
}

func decodeMasses(buf []byte) ([]float64, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("mass blob of %d bytes is not a multiple of 8", len(buf))
	}
	masses := make([]float64, len(buf)/8)
	for k := range masses {
		masses[k] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*k:]))
	}
	return masses, nil
}
