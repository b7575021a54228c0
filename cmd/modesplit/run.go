// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/katalvlaran/modesplit/config"
	"github.com/katalvlaran/modesplit/engine"
	"github.com/katalvlaran/modesplit/ingest"
	"github.com/katalvlaran/modesplit/param"
	"github.com/katalvlaran/modesplit/report"
	"github.com/katalvlaran/modesplit/resolve"
	"github.com/katalvlaran/modesplit/result"
	"github.com/katalvlaran/modesplit/store"
	"github.com/katalvlaran/modesplit/zonal"
	"github.com/katalvlaran/modesplit/zone"
)

type runOptions struct {
	verbose   bool
	store     bool
	breakdown report.Breakdown
}

func parseBreakdown(s string) (report.Breakdown, error) {
	switch s {
	case "":
		return report.NoBreakdown, nil
	case "period":
		return report.ByPeriod, nil
	case "ownership":
		return report.ByOwnership, nil
	case "purpose":
		return report.ByPurpose, nil
	default:
		return report.NoBreakdown, fmt.Errorf("--by %q: want period, ownership or purpose", s)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// project is a loaded project: configuration, run context and engine.
type project struct {
	cfg     *config.Config
	rc      *resolve.Context
	engine  *engine.Engine
	tables  []*param.Table
	groups  []string // zone group labels; nil when not configured
	loadErr error    // parameter tables that failed to load
}

func loadProject(dir string, logger *slog.Logger) (*project, error) {
	if err := config.LoadEnv(filepath.Join(dir, ".env"), filepath.Join(dir, ".env.local")); err != nil {
		return nil, err
	}
	cfg, err := config.LoadProject(dir)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	ix, err := zone.New(cfg.Zones)
	if err != nil {
		return nil, err
	}

	zones, err := ingest.ReadZonesFile(cfg.Path(cfg.Inputs.LandUse))
	if err != nil {
		return nil, err
	}
	var parking *zonal.Table
	if cfg.Inputs.Parking != "" {
		pz, err := ingest.ReadZonesFile(cfg.Path(cfg.Inputs.Parking))
		if err != nil {
			return nil, err
		}
		parking = pz.Table
	}
	attrs, err := zonal.Derive(ix, zones.Table, parking)
	if err != nil {
		return nil, err
	}
	if missing := attrs.Missing(); len(missing) > 0 {
		logger.Warn("zonal variables not derived", "variables", missing)
	}
	logger.Info("zonal variables generated", "zones", ix.N, "elapsed", time.Since(start))

	skims, err := ingest.LoadSkims(cfg.Path(cfg.Inputs.Skims))
	if err != nil {
		return nil, err
	}
	logger.Info("skims loaded", "fields", skims.Len(), "elapsed", time.Since(start))

	rc, err := resolve.NewContext(ix, skims, attrs,
		resolve.WithSettings(cfg.Settings()), resolve.WithOccupancy(cfg.Occupancy()))
	if err != nil {
		return nil, err
	}

	tables, loadErr := ingest.LoadParams(cfg.Path(cfg.Inputs.Params), cfg.Purposes)
	if loadErr != nil {
		logger.Error("parameter tables not loaded", "err", loadErr)
	}
	trips, err := ingest.LoadTrips(cfg.Path(cfg.Inputs.Trips), cfg.Purposes)
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{engine.WithWorkers(cfg.Workers), engine.WithLogger(logger)}
	if len(cfg.Modes) > 0 {
		opts = append(opts, engine.WithModes(cfg.Modes...))
	}
	eng, err := engine.New(rc, result.New(cfg.Purposes...), trips, opts...)
	if err != nil {
		return nil, err
	}

	p := &project{cfg: cfg, rc: rc, engine: eng, tables: tables, loadErr: loadErr}
	if col := cfg.Inputs.ZoneGroups; col != "" {
		if labels, ok := zones.Labels[col]; ok {
			p.groups = labels
		} else {
			logger.Warn("zone group column not found", "column", col)
		}
	}
	return p, nil
}

func runModel(ctx context.Context, dir string, opts runOptions) error {
	logger := newLogger(opts.verbose)
	started := time.Now()
	p, err := loadProject(dir, logger)
	if err != nil {
		return err
	}

	runErr := errors.Join(p.loadErr, p.engine.RunAll(ctx, p.tables))
	results := p.engine.Results()
	if len(results.Purposes()) == 0 {
		if runErr == nil {
			runErr = errors.New("no parameter tables")
		}
		return fmt.Errorf("no purpose computed: %w", runErr)
	}

	run := store.Run{StartedAt: started, Zones: p.cfg.Zones, Travel: map[string]*report.Travel{}}
	for _, purpose := range results.Purposes() {
		tbl, ok, err := report.ModeShare(results, purpose)
		if err != nil || !ok {
			runErr = errors.Join(runErr, err)
			continue
		}
		printShareTable(os.Stdout, tbl)
		run.Shares = append(run.Shares, tbl)
		if p.cfg.OutputDir != "" {
			if err = writePurpose(results, p.cfg.OutputDir, purpose); err != nil {
				runErr = errors.Join(runErr, err)
			}
		}
	}

	var groupOpts []report.Option
	if p.groups != nil {
		groupOpts = append(groupOpts, report.WithZoneGroups(p.groups))
	}
	travelOpts := append([]report.Option{report.WithBreakdown(opts.breakdown)}, groupOpts...)
	if vmt, err := report.VMT(results, p.rc, p.cfg.Occupancy(), travelOpts...); err != nil {
		runErr = errors.Join(runErr, err)
	} else {
		addTravel(run.Travel, "VMT", vmt)
	}
	if pmt, err := report.PMT(results, p.rc, travelOpts...); err != nil {
		runErr = errors.Join(runErr, err)
	} else {
		addTravel(run.Travel, "PMT", pmt)
	}
	printTravel(os.Stdout, run.Travel)
	if cats, err := report.CategoryShare(results, p.rc.Catalog(), groupOpts...); err != nil {
		runErr = errors.Join(runErr, err)
	} else {
		printCategories(os.Stdout, cats)
	}
	if rides, err := report.TransitRidership(results, p.rc.Catalog(), nil, nil); err != nil {
		runErr = errors.Join(runErr, err)
	} else {
		printRidership(os.Stdout, rides)
	}

	run.FinishedAt = time.Now()
	if opts.store {
		db, err := store.Open(ctx, p.cfg.Database, logger)
		if err != nil {
			return errors.Join(runErr, err)
		}
		defer db.Close()
		id, err := db.SaveRun(ctx, run)
		if err != nil {
			return errors.Join(runErr, err)
		}
		logger.Info("run stored", "run", id, "database", p.cfg.Database)
	}
	logger.Info("run finished", "purposes", len(run.Shares), "elapsed", time.Since(started))
	return runErr
}

// addTravel files t under metric and each breakdown part under "metric:key".
func addTravel(dst map[string]*report.Travel, metric string, t *report.Travel) {
	dst[metric] = t
	for _, k := range t.PartNames() {
		dst[metric+":"+k] = t.Parts[k]
	}
}

func writePurpose(results *result.Container, dir, purpose string) error {
	segs, ok := results.Get(purpose)
	if !ok {
		return nil
	}
	for key, trips := range segs {
		if err := ingest.WriteTrips(filepath.Join(dir, purpose), key, trips); err != nil {
			return err
		}
	}
	return nil
}

func runValidate(_ context.Context, dir string, verbose bool) error {
	logger := newLogger(verbose)
	p, err := loadProject(dir, logger)
	if err != nil {
		return err
	}
	errs := []error{p.loadErr}
	for _, t := range p.tables {
		if err := p.engine.Validate(t); err != nil {
			fmt.Printf("✗ %s\n%v\n", t.Purpose(), err)
			errs = append(errs, err)
			continue
		}
		fmt.Printf("✓ %s: %d modes, %d variables\n", t.Purpose(), len(t.Modes()), len(t.Variables()))
	}
	return errors.Join(errs...)
}
