// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/modesplit/config"
	"github.com/katalvlaran/modesplit/engine"
	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/resolve"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2730, cfg.Zones)
	assert.Equal(t, mode.DefaultPurposes(), cfg.Purposes)
	assert.Equal(t, resolve.DefaultSettings(), cfg.Settings())
	occ, ok := cfg.Occupancy()[mode.HBW][mode.SR3]
	require.True(t, ok)
	assert.Equal(t, 3.5, occ)
}

func TestParse_OverridesOnlyGivenKeys(t *testing.T) {
	t.Parallel()
	cfg, err := config.Parse([]byte(`
zones: 3
purposes: [HBW, NHB]
modes: [DA, Walk]
inputs:
  land_use: lu.csv
  zone_groups: BOSTON_NB
model:
  cost_per_mile: 0.2
  occupancy:
    NHB: {DA: 1, SR2: 2.2}
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Zones)
	assert.Equal(t, engine.DefaultWorkers, cfg.Workers, "absent keys keep their defaults")
	assert.Equal(t, []string{mode.HBW, mode.NHB}, cfg.Purposes)
	assert.Equal(t, []string{mode.DA, mode.Walk}, cfg.Modes)
	assert.Equal(t, "lu.csv", cfg.Inputs.LandUse)
	assert.Equal(t, "skims", cfg.Inputs.Skims)
	assert.Equal(t, "BOSTON_NB", cfg.Inputs.ZoneGroups)

	s := cfg.Settings()
	assert.Equal(t, 0.2, s.CostPerMile)
	assert.Equal(t, resolve.DefaultNoPathPenalty, s.NoPathPenalty)
	assert.Equal(t, 2.2, cfg.Occupancy()[mode.NHB][mode.SR2])
	assert.Equal(t, 3.5, cfg.Occupancy()[mode.HBW][mode.SR3])
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	_, err := config.Parse([]byte("zones: [1"))
	require.Error(t, err)

	cfg, err := config.Parse([]byte("zones: 0\nworkers: 0\nmodel: {shared_cost_factor: 0, occupancy: {HBW: {DA: -1}}}\n"))
	require.NoError(t, err)
	err = cfg.Validate()
	require.ErrorIs(t, err, config.ErrInvalid)
	for _, want := range []string{"zones 0", "workers 0", "shared_cost_factor", "occupancy HBW DA"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidate_DuplicateNames(t *testing.T) {
	t.Parallel()
	cfg, err := config.Parse([]byte("purposes: [HBW, HBW]\nmodes: [DA, Walk, DA]\n"))
	require.NoError(t, err)
	err = cfg.Validate()
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.Contains(t, err.Error(), `modes: "DA" listed twice`)
	assert.Contains(t, err.Error(), `purposes: "HBW" listed twice`)
}

func TestLoadProject_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte("zones: 5\ndata_dir: inputs\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(config.EnvWorkers+"=8\n"), 0o644))

	t.Setenv(config.EnvZones, "7")
	t.Setenv(config.EnvWorkers, "")
	t.Setenv(config.EnvDatabase, "")
	t.Setenv(config.EnvDataDir, "")
	require.NoError(t, os.Unsetenv(config.EnvWorkers))
	require.NoError(t, config.LoadEnv(filepath.Join(dir, ".env"), filepath.Join(dir, ".env.local")))

	cfg, err := config.LoadProject(dir)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Zones, "environment wins over the file")
	assert.Equal(t, 8, cfg.Workers, ".env fills unset variables")
	assert.Equal(t, filepath.Join(dir, "inputs"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "modesplit.db"), cfg.Database)
	assert.Equal(t, filepath.Join(dir, "inputs", "lu.csv"), cfg.Path("lu.csv"))
}

func TestApplyEnv_BadNumber(t *testing.T) {
	t.Setenv(config.EnvZones, "many")
	cfg := config.Default()
	require.ErrorIs(t, cfg.ApplyEnv(), config.ErrInvalid)
}
