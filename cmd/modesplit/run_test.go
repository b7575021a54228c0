// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/modesplit/ingest"
	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/report"
	"github.com/katalvlaran/modesplit/skim"
)

func write(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

// project lays out a two-zone HBW project with drive and walk modes.
func testProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write(t, filepath.Join(dir, "modesplit.yaml"), `
zones: 2
workers: 2
purposes: [HBW]
database: run.db
output_dir: out
inputs:
  zone_groups: TOWN
`)
	write(t, filepath.Join(dir, "data", "land_use.csv"), "TAZ_ID,TOWN,Tot_Pop,Area\n2,Cambridge,50,5\n1,Boston,100,4\n")
	for _, p := range []string{"PK", "OP"} {
		write(t, filepath.Join(dir, "data", "skims", "drive_"+p, skim.TerminalTimes+".csv"), "1,1\n1,1\n")
		write(t, filepath.Join(dir, "data", "skims", "drive_"+p, skim.Length+".csv"), "1,2\n2,1\n")
	}
	write(t, filepath.Join(dir, "data", "skims", "Walk", "WalkTime.csv"), "2,2\n2,2\n")
	write(t, filepath.Join(dir, "data", "params", "HBW.csv"),
		"mode,nest,nest_coefficient,ASC_0_PK,ASC_1_PK,ASC_0_OP,ASC_1_OP,OVTT\n"+
			"DA,auto,1,0,0,0,0,-1\n"+
			"Walk,active,1,0,0,0,0,-1\n")
	for _, seg := range mode.Segments(mode.HBW) {
		write(t, filepath.Join(dir, "data", "trips", seg.TripTable()+".csv"), "10,10,10\n10,10,10\n10,10,10\n")
	}
	return dir
}

func TestRunModel_EndToEnd(t *testing.T) {
	dir := testProject(t)
	require.NoError(t, runModel(context.Background(), dir, runOptions{store: true, breakdown: report.ByPeriod}))

	_, err := os.Stat(filepath.Join(dir, "run.db"))
	require.NoError(t, err)

	da, err := ingest.ReadMatrixFile(filepath.Join(dir, "out", mode.HBW, "DA_1_OP.csv"))
	require.NoError(t, err)
	walk, err := ingest.ReadMatrixFile(filepath.Join(dir, "out", mode.HBW, "Walk_1_OP.csv"))
	require.NoError(t, err)
	a, _ := da.At(0, 1)
	w, _ := walk.At(0, 1)
	assert.InDelta(t, 10.0, a+w, 1e-9)
	assert.Greater(t, a, w)
}

func TestRunValidate(t *testing.T) {
	dir := testProject(t)
	require.NoError(t, runValidate(context.Background(), dir, false))

	require.NoError(t, os.Remove(filepath.Join(dir, "data", "trips", "HBW_OP_wAuto.csv")))
	require.Error(t, runValidate(context.Background(), dir, false))
}

func TestParseBreakdown(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]report.Breakdown{
		"":          report.NoBreakdown,
		"period":    report.ByPeriod,
		"ownership": report.ByOwnership,
		"purpose":   report.ByPurpose,
	} {
		got, err := parseBreakdown(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseBreakdown("weekday")
	require.Error(t, err)
}
