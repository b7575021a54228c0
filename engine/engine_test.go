// SPDX-License-Identifier: MIT

package engine_test

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/modesplit/engine"
	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/param"
	"github.com/katalvlaran/modesplit/resolve"
	"github.com/katalvlaran/modesplit/result"
	"github.com/katalvlaran/modesplit/skim"
	"github.com/katalvlaran/modesplit/zonal"
	"github.com/katalvlaran/modesplit/zone"
)

var ix = zone.Index{N: 2}

func dense(t *testing.T, rows ...[]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFromRows(rows)
	require.NoError(t, err)
	return m
}

// context with DA terminal times of 1 and walk times of 2 everywhere.
func runContext(t *testing.T) *resolve.Context {
	t.Helper()
	b := skim.NewBank()
	for _, p := range []mode.Period{mode.Peak, mode.OffPeak} {
		require.NoError(t, b.Put(mode.SkimDrive, p, skim.TerminalTimes, dense(t, []float64{1, 1}, []float64{1, 1})))
	}
	require.NoError(t, b.Put(mode.SkimWalk, "", skim.TimeField(mode.Walk), dense(t, []float64{2, 2}, []float64{2, 2})))
	attrs, err := zonal.NewAttributes(ix, nil)
	require.NoError(t, err)
	rc, err := resolve.NewContext(ix, b, attrs)
	require.NoError(t, err)
	return rc
}

func table(t *testing.T, purpose string) *param.Table {
	t.Helper()
	asc := map[string]float64{}
	for _, k := range mode.SegmentKeys {
		asc[k] = 0
	}
	rows := []param.Row{
		{Mode: mode.DA, Nest: "auto", Theta: 1, ASC: asc, Coef: map[string]float64{resolve.OVTT: -1}},
		{Mode: mode.Walk, Nest: "active", Theta: 1, ASC: asc, Coef: map[string]float64{resolve.OVTT: -1}},
	}
	tbl, err := param.New(purpose, []string{resolve.OVTT}, rows)
	require.NoError(t, err)
	return tbl
}

// trips with 10 trips per pair for each segment of purposes, plus a wider
// zone system than the run.
func trips(t *testing.T, purposes ...string) engine.TripTables {
	t.Helper()
	out := engine.TripTables{}
	for _, p := range purposes {
		for _, seg := range mode.Segments(p) {
			m, err := matrix.NewFilled(3, 3, 10)
			require.NoError(t, err)
			out[seg.TripTable()] = m
		}
	}
	return out
}

func TestRunPurpose_SplitsEverySegment(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	results := result.New(mode.DefaultPurposes()...)
	e, err := engine.New(runContext(t), results, trips(t, mode.HBW),
		engine.WithWorkers(2), engine.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)

	require.NoError(t, e.RunPurpose(context.Background(), table(t, mode.HBW)))

	segs, ok := results.Get(mode.HBW)
	require.True(t, ok)
	require.Len(t, segs, 4)
	pDA := math.Exp(-1) / (math.Exp(-1) + math.Exp(-2))
	for _, key := range mode.SegmentKeys {
		da, walk := segs[key][mode.DA], segs[key][mode.Walk]
		require.NotNil(t, da, key)
		assert.Equal(t, 2, da.Rows())
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				a, _ := da.At(i, j)
				w, _ := walk.At(i, j)
				assert.InDelta(t, 10*pDA, a, 1e-9)
				assert.InDelta(t, 10.0, a+w, 1e-9)
			}
		}
	}
	assert.Contains(t, logs.String(), "segment calculated")
	assert.Contains(t, logs.String(), "purpose finished")

	_, ok = results.Get(mode.HBO)
	assert.False(t, ok)
}

func TestRunPurpose_ConfigurationErrors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		trips engine.TripTables
		opts  []engine.Option
		want  error
	}{
		{name: "missing trip table", trips: engine.TripTables{}, want: engine.ErrMissingTrips},
		{name: "mode not in table", trips: trips(t, mode.HBW), opts: []engine.Option{engine.WithModes(mode.DA, mode.Bike)}, want: param.ErrModeNotInTable},
		{name: "unknown mode", trips: trips(t, mode.HBW), opts: []engine.Option{engine.WithModes("Teleport")}, want: param.ErrModeNotInTable},
		{name: "repeated mode", trips: trips(t, mode.HBW), opts: []engine.Option{engine.WithModes(mode.DA, mode.Walk, mode.DA)}, want: param.ErrDuplicateMode},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			results := result.New(mode.HBW)
			e, err := engine.New(runContext(t), results, tc.trips, tc.opts...)
			require.NoError(t, err)
			err = e.RunPurpose(context.Background(), table(t, mode.HBW))
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, result.Uncomputed, results.State(mode.HBW))
		})
	}
}

func TestRunPurpose_ResolverErrorNamesTheInput(t *testing.T) {
	t.Parallel()
	b := skim.NewBank()
	attrs, err := zonal.NewAttributes(ix, nil)
	require.NoError(t, err)
	rc, err := resolve.NewContext(ix, b, attrs)
	require.NoError(t, err)
	e, err := engine.New(rc, result.New(), trips(t, mode.HBO))
	require.NoError(t, err)

	err = e.RunPurpose(context.Background(), table(t, mode.HBO))
	require.ErrorIs(t, err, resolve.ErrMissingSkim)
	var rerr *resolve.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, mode.HBO, rerr.Purpose)
	assert.Equal(t, resolve.OVTT, rerr.Variable)
}

func TestRunAll_ContinuesPastFailures(t *testing.T) {
	t.Parallel()
	results := result.New(mode.HBW, mode.HBO, mode.NHB)
	e, err := engine.New(runContext(t), results, trips(t, mode.HBW, mode.NHB))
	require.NoError(t, err)

	err = e.RunAll(context.Background(), []*param.Table{
		table(t, mode.HBW), table(t, mode.HBO), table(t, mode.NHB),
	})
	require.ErrorIs(t, err, engine.ErrMissingTrips)
	assert.Equal(t, []string{mode.HBW, mode.NHB}, results.Purposes())
	assert.Equal(t, result.Uncomputed, results.State(mode.HBO))

	total, err := results.Aggregate(mode.Walk, "1_OP")
	require.NoError(t, err)
	v, _ := total.At(1, 0)
	pWalk := math.Exp(-2) / (math.Exp(-1) + math.Exp(-2))
	assert.InDelta(t, 20*pWalk, v, 1e-9)
}

func TestRunAll_Cancelled(t *testing.T) {
	t.Parallel()
	results := result.New(mode.HBW)
	e, err := engine.New(runContext(t), results, trips(t, mode.HBW))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, e.RunAll(ctx, []*param.Table{table(t, mode.HBW)}), context.Canceled)
	assert.Empty(t, results.Purposes())
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()
	_, err := engine.New(nil, result.New(), engine.TripTables{})
	require.ErrorIs(t, err, engine.ErrNilInput)
	e, err := engine.New(runContext(t), result.New(), engine.TripTables{})
	require.NoError(t, err)
	require.ErrorIs(t, e.RunPurpose(context.Background(), nil), engine.ErrNilTable)
	require.ErrorIs(t, e.Validate(nil), engine.ErrNilTable)
}
