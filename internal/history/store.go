// Package history persists audit scores so runs can be compared over time
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ludo-technologies/schemascan/domain"
	"github.com/ludo-technologies/schemascan/internal/logging"
)

// schemaVersion is bumped whenever migrations gains an entry
const schemaVersion = 1

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		generated_at TEXT NOT NULL,
		schema_path TEXT,
		overall_score INTEGER NOT NULL,
		level TEXT NOT NULL,
		issue_checkpoints INTEGER NOT NULL DEFAULT 0,
		warning_checkpoints INTEGER NOT NULL DEFAULT 0,
		version TEXT
	);
	CREATE TABLE IF NOT EXISTS dimension_scores (
		run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
		dimension TEXT NOT NULL,
		score INTEGER NOT NULL,
		PRIMARY KEY (run_id, dimension)
	);
	CREATE INDEX IF NOT EXISTS idx_runs_schema_path ON runs(schema_path);`,
}

// RunRecord is one stored audit run
type RunRecord struct {
	RunID              string                   `json:"run_id" yaml:"run_id"`
	GeneratedAt        time.Time                `json:"generated_at" yaml:"generated_at"`
	SchemaPath         string                   `json:"schema_path,omitempty" yaml:"schema_path,omitempty"`
	OverallScore       int                      `json:"overall_score" yaml:"overall_score"`
	Level              domain.QualityLevel      `json:"level" yaml:"level"`
	IssueCheckpoints   int                      `json:"issue_checkpoints" yaml:"issue_checkpoints"`
	WarningCheckpoints int                      `json:"warning_checkpoints" yaml:"warning_checkpoints"`
	Version            string                   `json:"version,omitempty" yaml:"version,omitempty"`
	Dimensions         map[domain.Dimension]int `json:"dimensions" yaml:"dimensions"`

	// Delta is the overall score change from the previous run; nil for the oldest run
	Delta *int `json:"delta,omitempty" yaml:"delta,omitempty"`
}

// Store is a SQLite-backed audit history
type Store struct {
	conn   *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens or creates the history database at path
func Open(path string, logger *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// A single connection keeps pragmas and writes on one session
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	store := &Store{conn: conn, path: path, logger: logging.OrDiscard(logger)}
	if err := store.migrate(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	if _, err := s.conn.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`); err != nil {
		return err
	}

	var current int
	if err := s.conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return err
	}
	for v := current; v < len(migrations); v++ {
		if _, err := s.conn.Exec(migrations[v]); err != nil {
			return fmt.Errorf("migration %d: %w", v+1, err)
		}
		if _, err := s.conn.Exec(`INSERT INTO schema_version (version) VALUES (?)`, v+1); err != nil {
			return err
		}
		s.logger.Debug("history migration applied", "version", v+1, "path", s.path)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Save records an audit response
func (s *Store) Save(ctx context.Context, response *domain.AuditResponse) error {
	if response == nil {
		return errors.New("no audit response to save")
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, generated_at, schema_path, overall_score, level,
			issue_checkpoints, warning_checkpoints, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		response.RunID,
		response.GeneratedAt.UTC().Format(time.RFC3339Nano),
		response.SchemaPath,
		response.Overall.Score,
		string(response.Overall.Level),
		response.Summary.IssueCheckpoints,
		response.Summary.WarningCheckpoints,
		response.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", response.RunID, err)
	}

	for _, d := range response.Dimensions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dimension_scores (run_id, dimension, score) VALUES (?, ?, ?)`,
			response.RunID, string(d.Dimension), d.Score); err != nil {
			return fmt.Errorf("failed to save %s score: %w", d.Dimension, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", response.RunID, err)
	}
	s.logger.Info("audit saved to history", "run_id", response.RunID, "overall", response.Overall.Score)
	return nil
}

// Recent returns up to limit runs, newest first. Each run carries its
// overall score change from the run saved before it.
func (s *Store) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	// One extra row supplies the delta of the oldest returned run
	rows, err := s.conn.QueryContext(ctx, `
		SELECT run_id, generated_at, COALESCE(schema_path, ''), overall_score, level,
			issue_checkpoints, warning_checkpoints, COALESCE(version, '')
		FROM runs ORDER BY seq DESC LIMIT ?`, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var generatedAt, level string
		if err := rows.Scan(&r.RunID, &generatedAt, &r.SchemaPath, &r.OverallScore, &level,
			&r.IssueCheckpoints, &r.WarningCheckpoints, &r.Version); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Level = domain.QualityLevel(level)
		if t, err := time.Parse(time.RFC3339Nano, generatedAt); err == nil {
			r.GeneratedAt = t
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := 0; i+1 < len(records); i++ {
		delta := records[i].OverallScore - records[i+1].OverallScore
		records[i].Delta = &delta
	}
	if len(records) > limit {
		records = records[:limit]
	}

	for i := range records {
		dims, err := s.dimensions(ctx, records[i].RunID)
		if err != nil {
			return nil, err
		}
		records[i].Dimensions = dims
	}
	return records, nil
}

func (s *Store) dimensions(ctx context.Context, runID string) (map[domain.Dimension]int, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT dimension, score FROM dimension_scores WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dimension scores: %w", err)
	}
	defer rows.Close()

	dims := make(map[domain.Dimension]int)
	for rows.Next() {
		var name string
		var score int
		if err := rows.Scan(&name, &score); err != nil {
			return nil, err
		}
		dims[domain.Dimension(name)] = score
	}
	return dims, rows.Err()
}
