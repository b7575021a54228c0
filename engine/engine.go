// SPDX-License-Identifier: MIT

// Package engine runs the mode-choice model purpose by purpose.
//
// For one purpose the engine validates the parameter table against the
// resolver's rules and the loaded trip tables, then solves and splits the four
// market segments concurrently, and finally publishes the purpose into the
// result container in one step. A failing segment aborts its purpose; nothing
// partial is stored.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/nlogit"
	"github.com/katalvlaran/modesplit/param"
	"github.com/katalvlaran/modesplit/resolve"
	"github.com/katalvlaran/modesplit/result"
	"github.com/katalvlaran/modesplit/split"
)

var (
	// ErrNilInput indicates a missing resolver context, container or trip source.
	ErrNilInput = errors.New("engine: nil input")

	// ErrNilTable indicates a nil parameter table.
	ErrNilTable = errors.New("engine: nil parameter table")

	// ErrMissingTrips indicates a segment without a base trip table.
	ErrMissingTrips = errors.New("engine: missing base trip table")
)

// TripSource provides base trip matrices by table name (see mode.Segment.TripTable).
type TripSource interface {
	TripTable(name string) (matrix.Matrix, bool)
}

// TripTables is an in-memory TripSource.
type TripTables map[string]matrix.Matrix

// TripTable implements TripSource.
func (t TripTables) TripTable(name string) (matrix.Matrix, bool) {
	m, ok := t[name]
	return m, ok && m != nil
}

// Engine binds the inputs of one run to a result container.
type Engine struct {
	rc      *resolve.Context
	results *result.Container
	trips   TripSource
	workers int
	logger  *slog.Logger
	modes   []string
}

// New returns an engine publishing into results.
func New(rc *resolve.Context, results *result.Container, trips TripSource, opts ...Option) (*Engine, error) {
	if rc == nil || results == nil || trips == nil {
		return nil, ErrNilInput
	}
	e := &Engine{
		rc:      rc,
		results: results,
		trips:   trips,
		workers: DefaultWorkers,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Results returns the container the engine publishes into.
func (e *Engine) Results() *result.Container { return e.results }

func (e *Engine) modesFor(table *param.Table) []string {
	if len(e.modes) > 0 {
		return e.modes
	}
	return table.Modes()
}

// Validate checks a purpose without solving it: the resolver rules and
// occupancies of every (variable, mode) pair, the constants of every segment
// and the presence of every base trip table. All problems are returned joined.
func (e *Engine) Validate(table *param.Table) error {
	if table == nil {
		return ErrNilTable
	}
	modes := e.modesFor(table)
	var errs []error
	if err := e.rc.Validate(table, modes); err != nil {
		errs = append(errs, err)
	}
	if err := table.RequireASC(modes, mode.SegmentKeys); err != nil {
		errs = append(errs, err)
	}
	for _, seg := range mode.Segments(table.Purpose()) {
		if _, ok := e.trips.TripTable(seg.TripTable()); !ok {
			errs = append(errs, fmt.Errorf("%s %q: %w", seg, seg.TripTable(), ErrMissingTrips))
		}
	}
	return errors.Join(errs...)
}

// RunPurpose computes every segment of table's purpose and stores the result.
//
// Implementation:
//   - Stage 1: Validate the purpose; configuration errors abort before any solve.
//   - Stage 2: Solve and split the segments on at most workers goroutines.
//   - Stage 3: Store all segments at once.
//
// Errors:
//   - ErrNilTable, joined validation errors, the first segment error, or ctx.Err().
func (e *Engine) RunPurpose(ctx context.Context, table *param.Table) error {
	if table == nil {
		return ErrNilTable
	}
	purpose := table.Purpose()
	log := e.logger.With("purpose", purpose)
	start := time.Now()

	if err := e.Validate(table); err != nil {
		log.Error("purpose invalid", "err", err)
		return fmt.Errorf("RunPurpose %s: %w", purpose, err)
	}
	modes := e.modesFor(table)
	log.Info("purpose started", "modes", len(modes), "workers", e.workers)

	segs := mode.Segments(purpose)
	out := make(result.Segments, len(segs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for _, seg := range segs {
		seg := seg
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t0 := time.Now()
			trips, unavailable, err := e.runSegment(seg, modes, table)
			if err != nil {
				return err
			}
			mu.Lock()
			out[seg.Key()] = trips
			mu.Unlock()
			log.Info("segment calculated", "segment", seg.Key(), "unavailable_pairs", unavailable, "elapsed", time.Since(t0))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("purpose failed", "err", err)
		return fmt.Errorf("RunPurpose %s: %w", purpose, err)
	}
	if err := e.results.Store(purpose, out); err != nil {
		return fmt.Errorf("RunPurpose %s: %w", purpose, err)
	}
	log.Info("purpose finished", "segments", len(out), "elapsed", time.Since(start))
	return nil
}

// runSegment solves and splits one segment. unavailable counts the pairs
// where no nest is available; their trips are dropped.
func (e *Engine) runSegment(seg mode.Segment, modes []string, table *param.Table) (trips split.Trips, unavailable int, err error) {
	base, ok := e.trips.TripTable(seg.TripTable())
	if !ok {
		return nil, 0, fmt.Errorf("%s %q: %w", seg, seg.TripTable(), ErrMissingTrips)
	}
	res, err := nlogit.Solve(e.rc, seg, modes, table)
	if err != nil {
		return nil, 0, err
	}
	if trips, err = split.Split(e.rc.Index(), base, res.Probabilities); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", seg, err)
	}
	return trips, res.Unavailable.Count(), nil
}

// RunAll runs every table in order. A failing purpose is logged and skipped;
// the remaining purposes still run and the failures are returned joined.
// Cancellation stops the loop.
func (e *Engine) RunAll(ctx context.Context, tables []*param.Table) error {
	var errs []error
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := e.RunPurpose(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
