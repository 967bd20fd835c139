package telemetry

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store records run metadata, window statistics and lineage in SQLite.
// It is a write-mostly record of a run and cannot restore a world.
type Store struct {
	conn *sqlx.DB
}

// WindowRow is the persisted subset of WindowStats.
type WindowRow struct {
	RunID      string  `db:"run_id"`
	WindowEnd  int64   `db:"window_end"`
	SimTime    float64 `db:"sim_time"`
	Blobs      int     `db:"blobs"`
	RipeBushes int     `db:"ripe_bushes"`
	Births     int     `db:"births"`
	Deaths     int     `db:"deaths"`
	Harvests   int     `db:"harvests"`
	Drinks     int     `db:"drinks"`
	HungerMean float64 `db:"hunger_mean"`
	ThirstMean float64 `db:"thirst_mean"`
	HPMean     float64 `db:"hp_mean"`
	AgeMax     float64 `db:"age_max"`
	MaxGen     int64   `db:"max_generation"`
}

// OpenStore opens or creates a SQLite database at the given path.
func OpenStore(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		map_width INTEGER NOT NULL,
		map_height INTEGER NOT NULL,
		started_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS window_stats (
		run_id TEXT NOT NULL,
		window_end INTEGER NOT NULL,
		sim_time REAL NOT NULL,
		blobs INTEGER NOT NULL,
		ripe_bushes INTEGER NOT NULL,
		births INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		harvests INTEGER NOT NULL,
		drinks INTEGER NOT NULL,
		hunger_mean REAL NOT NULL,
		thirst_mean REAL NOT NULL,
		hp_mean REAL NOT NULL,
		age_max REAL NOT NULL,
		max_generation INTEGER NOT NULL,
		PRIMARY KEY (run_id, window_end)
	);

	CREATE TABLE IF NOT EXISTS births (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		blob_id INTEGER NOT NULL,
		parent_id INTEGER NOT NULL,
		mate_id INTEGER NOT NULL,
		generation INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		PRIMARY KEY (run_id, blob_id)
	);

	CREATE INDEX IF NOT EXISTS idx_births_parent ON births(run_id, parent_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// BeginRun registers a run.
func (s *Store) BeginRun(runID string, seed int64, width, height int) error {
	if s == nil {
		return nil
	}
	_, err := s.conn.Exec(
		`INSERT INTO runs (id, seed, map_width, map_height, started_at) VALUES (?, ?, ?, ?, ?)`,
		runID, seed, width, height, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// SaveWindow writes one window of statistics.
func (s *Store) SaveWindow(runID string, w WindowStats) error {
	if s == nil {
		return nil
	}
	row := WindowRow{
		RunID:      runID,
		WindowEnd:  int64(w.WindowEndTick),
		SimTime:    w.SimTimeSec,
		Blobs:      w.Blobs,
		RipeBushes: w.RipeBushes,
		Births:     w.Births,
		Deaths:     w.Deaths,
		Harvests:   w.Harvests,
		Drinks:     w.Drinks,
		HungerMean: w.HungerMean,
		ThirstMean: w.ThirstMean,
		HPMean:     w.HPMean,
		AgeMax:     w.AgeMax,
		MaxGen:     int64(w.MaxGeneration),
	}
	_, err := s.conn.NamedExec(`INSERT OR REPLACE INTO window_stats
		(run_id, window_end, sim_time, blobs, ripe_bushes, births, deaths,
		 harvests, drinks, hunger_mean, thirst_mean, hp_mean, age_max, max_generation)
		VALUES (:run_id, :window_end, :sim_time, :blobs, :ripe_bushes, :births, :deaths,
		 :harvests, :drinks, :hunger_mean, :thirst_mean, :hp_mean, :age_max, :max_generation)`, row)
	return err
}

// SaveBirths writes birth events in one transaction. Non-birth events are skipped.
func (s *Store) SaveBirths(runID string, events []Event) error {
	if s == nil || len(events) == 0 {
		return nil
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO births
		(run_id, tick, blob_id, parent_id, mate_id, generation, x, y)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if e.Type != EventBirth {
			continue
		}
		if _, err := stmt.Exec(runID, int64(e.Tick), e.BlobID, e.ParentID, e.MateID, e.Generation, e.X, e.Y); err != nil {
			return fmt.Errorf("insert birth %d: %w", e.BlobID, err)
		}
	}
	return tx.Commit()
}

// WindowCount returns the number of windows stored for a run.
func (s *Store) WindowCount(runID string) (int, error) {
	var n int
	err := s.conn.Get(&n, "SELECT COUNT(*) FROM window_stats WHERE run_id = ?", runID)
	return n, err
}

// BirthCount returns the number of births stored for a run.
func (s *Store) BirthCount(runID string) (int, error) {
	var n int
	err := s.conn.Get(&n, "SELECT COUNT(*) FROM births WHERE run_id = ?", runID)
	return n, err
}

// Windows returns a run's stored windows ordered by tick.
func (s *Store) Windows(runID string) ([]WindowRow, error) {
	var rows []WindowRow
	err := s.conn.Select(&rows,
		"SELECT * FROM window_stats WHERE run_id = ? ORDER BY window_end", runID)
	return rows, err
}

// Descendants returns the ids of blobs whose initiating parent is parentID.
func (s *Store) Descendants(runID string, parentID uint32) ([]uint32, error) {
	var ids []uint32
	err := s.conn.Select(&ids,
		"SELECT blob_id FROM births WHERE run_id = ? AND parent_id = ? ORDER BY blob_id", runID, parentID)
	return ids, err
}
