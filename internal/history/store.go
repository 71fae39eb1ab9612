// Package history persists per-run summaries so coupling trends can be
// tracked across analyses. Persistence is a downstream concern; the core
// pipeline never touches it.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"archscope/internal/analysis"
	"archscope/internal/logging"
)

// Store provides persistence for run summaries in a SQLite database.
type Store struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// RunSummary is the persisted, point-in-time digest of one analysis run
type RunSummary struct {
	RunID           string    `json:"runId"`
	Unit            string    `json:"unit,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	TypeCount       int       `json:"typeCount"`
	EdgeCount       int       `json:"edgeCount"`
	PackageCount    int       `json:"packageCount"`
	CycleCount      int       `json:"cycleCount"`
	PackageCycles   int       `json:"packageCycles"`
	ViolationCount  int       `json:"violationCount"`
	DiagnosticCount int       `json:"diagnosticCount"`
	AvgInstability  float64   `json:"avgInstability"`
}

// Summarize digests an analysis result for persistence.
func Summarize(res *analysis.Result) RunSummary {
	var total float64
	for _, rec := range res.Coupling {
		total += rec.Instability
	}
	avg := 0.0
	if len(res.Coupling) > 0 {
		avg = total / float64(len(res.Coupling))
	}

	return RunSummary{
		RunID:           res.RunID,
		Unit:            res.Unit,
		CreatedAt:       time.Now().UTC(),
		TypeCount:       res.TypeGraph.NodeCount(),
		EdgeCount:       res.TypeGraph.EdgeCount(),
		PackageCount:    res.PackageGraph.NodeCount(),
		CycleCount:      len(res.Cycles),
		PackageCycles:   len(res.PackageCycles),
		ViolationCount:  len(res.Violations),
		DiagnosticCount: len(res.Diagnostics),
		AvgInstability:  avg,
	}
}

// OpenStore opens or creates the history database at <dir>/history.db
func OpenStore(dir string, logger *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "history.db")
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	store := &Store{conn: conn, logger: logger, dbPath: dbPath}
	if err := store.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return store, nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			unit TEXT,
			created_at TEXT NOT NULL,
			type_count INTEGER NOT NULL,
			edge_count INTEGER NOT NULL,
			package_count INTEGER NOT NULL,
			cycle_count INTEGER NOT NULL,
			package_cycles INTEGER NOT NULL,
			violation_count INTEGER NOT NULL,
			diagnostic_count INTEGER NOT NULL,
			avg_instability REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_unit ON runs(unit);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveRun persists one run summary.
func (s *Store) SaveRun(summary RunSummary) error {
	_, err := s.conn.Exec(`
		INSERT INTO runs (
			run_id, unit, created_at, type_count, edge_count, package_count,
			cycle_count, package_cycles, violation_count, diagnostic_count,
			avg_instability
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID, summary.Unit, summary.CreatedAt.Format(time.RFC3339),
		summary.TypeCount, summary.EdgeCount, summary.PackageCount,
		summary.CycleCount, summary.PackageCycles, summary.ViolationCount,
		summary.DiagnosticCount, summary.AvgInstability)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", summary.RunID, err)
	}

	if s.logger != nil {
		s.logger.Debug("Saved run summary", map[string]interface{}{
			"runId": summary.RunID,
			"path":  s.dbPath,
		})
	}
	return nil
}

// RecentRuns returns the most recent summaries for a unit, newest first.
// An empty unit matches all runs.
func (s *Store) RecentRuns(unit string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT run_id, unit, created_at, type_count, edge_count,
			package_count, cycle_count, package_cycles, violation_count,
			diagnostic_count, avg_instability
		FROM runs`
	args := []interface{}{}
	if unit != "" {
		query += " WHERE unit = ?"
		args = append(args, unit)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var summaries []RunSummary
	for rows.Next() {
		var r RunSummary
		var createdAt string
		if err := rows.Scan(&r.RunID, &r.Unit, &createdAt, &r.TypeCount,
			&r.EdgeCount, &r.PackageCount, &r.CycleCount, &r.PackageCycles,
			&r.ViolationCount, &r.DiagnosticCount, &r.AvgInstability); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		summaries = append(summaries, r)
	}
	return summaries, rows.Err()
}

// Prune deletes all but the newest maxRuns summaries.
func (s *Store) Prune(maxRuns int) error {
	if maxRuns <= 0 {
		return nil
	}
	_, err := s.conn.Exec(`
		DELETE FROM runs WHERE run_id NOT IN (
			SELECT run_id FROM runs ORDER BY created_at DESC LIMIT ?
		)`, maxRuns)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.conn.Close()
}
