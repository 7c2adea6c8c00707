package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	// Pure-Go SQLite driver registered as "sqlite".
	_ "modernc.org/sqlite"

	"github.com/mrz1836/evmscan/internal/chain"
	"github.com/mrz1836/evmscan/internal/scan"
	scanerr "github.com/mrz1836/evmscan/pkg/errors"
)

// ErrNoRun is returned when a finding or summary arrives before StartRun.
var ErrNoRun = errors.New("no run started")

// SQLiteStore records findings and per-target summaries under a run ID.
// Secrets are never written to the database.
type SQLiteStore struct {
	db *sql.DB

	mu    sync.Mutex
	runID string
}

// StoredFinding is a finding as persisted in the store.
type StoredFinding struct {
	RunID   string    `json:"run_id"`
	Address string    `json:"address"`
	Chain   string    `json:"chain"`
	Symbol  string    `json:"symbol"`
	Amount  string    `json:"amount"`
	Bucket  Bucket    `json:"bucket"`
	FoundAt time.Time `json:"found_at"`
}

// Run is one scan invocation as persisted in the store.
type Run struct {
	ID          string     `json:"run_id"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	CatalogSize int        `json:"catalog_size"`
	Targets     int        `json:"targets"`
	Findings    int        `json:"findings"`
}

// OpenStore opens (creating if needed) the database at path and applies migrations.
func OpenStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating database dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection serializes writers from concurrent probes.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RunID returns the current run ID, or "" before StartRun.
func (s *SQLiteStore) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// StartRun opens a new run and makes it current.
func (s *SQLiteStore) StartRun(ctx context.Context, catalogSize int) (string, error) {
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs(run_id, started_at, catalog_size)
		VALUES(?, ?, ?)
	`, id, time.Now().Unix(), catalogSize)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	s.mu.Lock()
	s.runID = id
	s.mu.Unlock()
	return id, nil
}

// FinishRun stamps the current run with its end time and target count.
func (s *SQLiteStore) FinishRun(ctx context.Context, targets int) error {
	runID, err := s.current()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, targets = ? WHERE run_id = ?
	`, time.Now().Unix(), targets, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Record implements scan.Sink. The secret is dropped.
func (s *SQLiteStore) Record(ctx context.Context, f scan.Finding) error {
	runID, err := s.current()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO findings(run_id, address, chain, symbol, amount, bucket, found_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)
	`, runID, f.Address, f.Chain, f.Symbol, chain.FormatAmount(f.Amount), string(Classify(f.Amount)), time.Now().Unix())
	if err != nil {
		return scanerr.WithCause(scanerr.ErrResultWrite, fmt.Errorf("insert finding: %w", err))
	}
	return nil
}

// ReportTarget implements scan.Reporter.
func (s *SQLiteStore) ReportTarget(ctx context.Context, sum scan.Summary) error {
	runID, err := s.current()
	if err != nil {
		return err
	}

	expanded := 0
	if sum.Expanded {
		expanded = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO targets(run_id, target_index, address, chains_probed, balances_found, expanded, duration_ms, error)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, target_index) DO UPDATE SET
			address=excluded.address,
			chains_probed=excluded.chains_probed,
			balances_found=excluded.balances_found,
			expanded=excluded.expanded,
			duration_ms=excluded.duration_ms,
			error=excluded.error
	`, runID, sum.Index, sum.Address, sum.ChainsProbed, sum.BalancesFound, expanded, sum.Duration.Milliseconds(), sum.Error)
	if err != nil {
		return scanerr.WithCause(scanerr.ErrResultWrite, fmt.Errorf("upsert target: %w", err))
	}
	return nil
}

// Findings lists the findings of runID in insertion order.
func (s *SQLiteStore) Findings(ctx context.Context, runID string) ([]StoredFinding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, address, chain, symbol, amount, bucket, found_at
		FROM findings
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []StoredFinding
	for rows.Next() {
		var (
			f       StoredFinding
			bucket  string
			foundAt int64
		)
		if err := rows.Scan(&f.RunID, &f.Address, &f.Chain, &f.Symbol, &f.Amount, &bucket, &foundAt); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		f.Bucket = Bucket(bucket)
		f.FoundAt = time.Unix(foundAt, 0).UTC()
		out = append(out, f)
	}
	return out, rows.Err()
}

// Runs lists runs newest first, at most limit of them (all when limit <= 0).
func (s *SQLiteStore) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.run_id, r.started_at, r.finished_at, r.catalog_size, r.targets,
		       (SELECT COUNT(*) FROM findings f WHERE f.run_id = r.run_id)
		FROM runs r
		ORDER BY r.started_at DESC, r.rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Run
	for rows.Next() {
		var (
			r        Run
			started  int64
			finished sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.CatalogSize, &r.Targets, &r.Findings); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.Unix(started, 0).UTC()
		if finished.Valid {
			t := time.Unix(finished.Int64, 0).UTC()
			r.FinishedAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) current() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runID == "" {
		return "", ErrNoRun
	}
	return s.runID, nil
}
