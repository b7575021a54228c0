// SPDX-License-Identifier: MIT

// Package store persists run summaries to SQLite: one row per run, the mode
// share tables of every computed purpose and the VMT/PMT totals with their
// zone-group marginals. A run is written in a single transaction.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/modesplit/report"
)

//go:embed schema.sql
var schemaSQL string

// ErrRunNotFound indicates an unknown run id.
var ErrRunNotFound = errors.New("store: run not found")

// DB wraps a SQLite connection with write serialization.
type DB struct {
	conn    *sql.DB
	writeMu sync.Mutex
	logger  *slog.Logger
}

// Open opens (or creates) the database at path and ensures the schema.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}
	// one connection: SQLite has a single writer and ":memory:" is per connection
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("Open: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			logger.Warn("pragma not applied", "pragma", pragma, "err", err)
		}
	}

	db := &DB{conn: conn, logger: logger}
	if err = db.ensureSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	logger.Info("database ready", "path", path)
	return db, nil
}

// Close closes the connection.
func (db *DB) Close() error { return db.conn.Close() }

func (db *DB) ensureSchema(ctx context.Context) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()
	if _, err := db.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Run is the summary of one model run.
type Run struct {
	ID         string // assigned by SaveRun when empty
	StartedAt  time.Time
	FinishedAt time.Time
	Zones      int
	Shares     []*report.ShareTable
	Travel     map[string]*report.Travel // metric ("VMT", "PMT", "VMT:PK") → summary
}

// Purposes returns the purposes of the run's share tables.
func (r Run) Purposes() []string {
	out := make([]string, 0, len(r.Shares))
	for _, s := range r.Shares {
		out = append(out, s.Purpose)
	}
	return out
}

// SaveRun writes run and returns its id.
func (db *DB) SaveRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("SaveRun: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx,
		"INSERT INTO runs (run_id, started_at_utc, finished_at_utc, zones, purposes) VALUES (?, ?, ?, ?, ?)",
		run.ID, run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339),
		run.Zones, strings.Join(run.Purposes(), ","),
	); err != nil {
		return "", fmt.Errorf("SaveRun: run: %w", err)
	}
	if err = insertShares(ctx, tx, run.ID, run.Shares); err != nil {
		return "", fmt.Errorf("SaveRun: %w", err)
	}
	if err = insertTravel(ctx, tx, run.ID, run.Travel); err != nil {
		return "", fmt.Errorf("SaveRun: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("SaveRun: commit: %w", err)
	}
	db.logger.Info("run saved", "run", run.ID, "purposes", len(run.Shares))
	return run.ID, nil
}

func insertShares(ctx context.Context, tx *sql.Tx, runID string, tables []*report.ShareTable) error {
	segStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO mode_shares (run_id, purpose, mode, segment, trips) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare mode_shares: %w", err)
	}
	defer segStmt.Close()
	totStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO mode_totals (run_id, purpose, mode, trips, share) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare mode_totals: %w", err)
	}
	defer totStmt.Close()

	for _, t := range tables {
		for _, row := range t.Rows {
			for _, seg := range t.Segments {
				v, ok := row.BySegment[seg]
				if !ok {
					continue
				}
				if _, err = segStmt.ExecContext(ctx, runID, t.Purpose, row.Mode, seg, v); err != nil {
					return fmt.Errorf("mode_shares %s %s %s: %w", t.Purpose, row.Mode, seg, err)
				}
			}
			if _, err = totStmt.ExecContext(ctx, runID, t.Purpose, row.Mode, row.Total, row.Share); err != nil {
				return fmt.Errorf("mode_totals %s %s: %w", t.Purpose, row.Mode, err)
			}
		}
	}
	return nil
}

func insertTravel(ctx context.Context, tx *sql.Tx, runID string, travel map[string]*report.Travel) error {
	metrics := make([]string, 0, len(travel))
	for m := range travel {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)
	for _, metric := range metrics {
		t := travel[metric]
		if t == nil {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO travel_summaries (run_id, metric, total) VALUES (?, ?, ?)",
			runID, metric, t.Total); err != nil {
			return fmt.Errorf("travel_summaries %s: %w", metric, err)
		}
		for _, g := range t.GroupNames() {
			m := t.Groups[g]
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO travel_groups (run_id, metric, zone_group, production, attraction) VALUES (?, ?, ?, ?, ?)",
				runID, metric, g, m.Production, m.Attraction); err != nil {
				return fmt.Errorf("travel_groups %s %s: %w", metric, g, err)
			}
		}
	}
	return nil
}

// RunRecord is a stored run header.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Zones      int
	Purposes   []string
}

// GetRun returns the header of run id.
func (db *DB) GetRun(ctx context.Context, id string) (RunRecord, error) {
	var (
		rec               RunRecord
		started, finished string
		purposes          string
	)
	err := db.conn.QueryRowContext(ctx,
		"SELECT run_id, started_at_utc, finished_at_utc, zones, purposes FROM runs WHERE run_id = ?", id,
	).Scan(&rec.ID, &started, &finished, &rec.Zones, &purposes)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("GetRun %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("GetRun %s: %w", id, err)
	}
	if rec.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
		return RunRecord{}, fmt.Errorf("GetRun %s: %w", id, err)
	}
	if rec.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
		return RunRecord{}, fmt.Errorf("GetRun %s: %w", id, err)
	}
	if purposes != "" {
		rec.Purposes = strings.Split(purposes, ",")
	}
	return rec, nil
}

// ModeTotal is one stored mode_totals row.
type ModeTotal struct {
	Purpose string
	Mode    string
	Trips   float64
	Share   float64
}

// ModeTotals returns the per-mode totals of run id ordered by purpose and mode.
func (db *DB) ModeTotals(ctx context.Context, id string) ([]ModeTotal, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT purpose, mode, trips, share FROM mode_totals WHERE run_id = ? ORDER BY purpose, mode", id)
	if err != nil {
		return nil, fmt.Errorf("ModeTotals %s: %w", id, err)
	}
	defer rows.Close()

	var out []ModeTotal
	for rows.Next() {
		var mt ModeTotal
		if err = rows.Scan(&mt.Purpose, &mt.Mode, &mt.Trips, &mt.Share); err != nil {
			return nil, fmt.Errorf("ModeTotals %s: %w", id, err)
		}
		out = append(out, mt)
	}
	return out, rows.Err()
}

// SegmentTrips returns the stored trips of one purpose, mode and segment.
func (db *DB) SegmentTrips(ctx context.Context, id, purpose, modeName, segment string) (float64, bool, error) {
	var v float64
	err := db.conn.QueryRowContext(ctx,
		"SELECT trips FROM mode_shares WHERE run_id = ? AND purpose = ? AND mode = ? AND segment = ?",
		id, purpose, modeName, segment).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("SegmentTrips %s: %w", id, err)
	}
	return v, true, nil
}

// TravelTotals returns metric → total for run id.
func (db *DB) TravelTotals(ctx context.Context, id string) (map[string]float64, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT metric, total FROM travel_summaries WHERE run_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("TravelTotals %s: %w", id, err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var (
			metric string
			total  float64
		)
		if err = rows.Scan(&metric, &total); err != nil {
			return nil, fmt.Errorf("TravelTotals %s: %w", id, err)
		}
		out[metric] = total
	}
	return out, rows.Err()
}

// TravelGroups returns zone group → marginal of one metric of run id.
func (db *DB) TravelGroups(ctx context.Context, id, metric string) (map[string]report.Marginal, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT zone_group, production, attraction FROM travel_groups WHERE run_id = ? AND metric = ?", id, metric)
	if err != nil {
		return nil, fmt.Errorf("TravelGroups %s: %w", id, err)
	}
	defer rows.Close()

	out := make(map[string]report.Marginal)
	for rows.Next() {
		var (
			g string
			m report.Marginal
		)
		if err = rows.Scan(&g, &m.Production, &m.Attraction); err != nil {
			return nil, fmt.Errorf("TravelGroups %s: %w", id, err)
		}
		out[g] = m
	}
	return out, rows.Err()
}
