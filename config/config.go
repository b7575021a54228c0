// SPDX-License-Identifier: MIT

// Package config loads a model run configuration from a YAML file with
// environment overrides.
//
// Resolution order: built-in defaults, then the YAML file, then .env files,
// then the process environment (MODESPLIT_*). Only keys present in the file
// replace defaults; a purpose listed under occupancy replaces that purpose's
// whole occupancy map.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/modesplit/engine"
	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/resolve"
	"github.com/katalvlaran/modesplit/zone"
)

// Environment variables overriding the file.
const (
	EnvDataDir  = "MODESPLIT_DATA_DIR"
	EnvDatabase = "MODESPLIT_DATABASE"
	EnvWorkers  = "MODESPLIT_WORKERS"
	EnvZones    = "MODESPLIT_ZONES"
)

// DefaultFile is the configuration file looked up in a project directory.
const DefaultFile = "modesplit.yaml"

var (
	// ErrInvalid indicates a configuration value out of range.
	ErrInvalid = errors.New("config: invalid value")
)

// Inputs names the input locations relative to DataDir.
type Inputs struct {
	Skims   string `yaml:"skims"`
	Params  string `yaml:"params"`
	Trips   string `yaml:"trips"`
	LandUse string `yaml:"land_use"`
	Parking string `yaml:"parking"` // optional
	// ZoneGroups is the land-use label column used for group summaries.
	ZoneGroups string `yaml:"zone_groups"`
}

// Model holds the scalar model constants.
type Model struct {
	CostPerMile          float64 `yaml:"cost_per_mile"`
	NoPathPenalty        float64 `yaml:"no_path_penalty"`
	TollSentinel         float64 `yaml:"toll_sentinel"`
	OnDemandBaseFare     float64 `yaml:"on_demand_base_fare"`
	OnDemandDistanceCoef float64 `yaml:"on_demand_distance_coef"`
	OnDemandTimeCoef     float64 `yaml:"on_demand_time_coef"`
	OnDemandWait         float64 `yaml:"on_demand_wait"`
	SharedIVTTFactor     float64 `yaml:"shared_ivtt_factor"`
	SharedOVTTFactor     float64 `yaml:"shared_ovtt_factor"`
	SharedCostFactor     float64 `yaml:"shared_cost_factor"`

	Occupancy map[string]map[string]float64 `yaml:"occupancy"`
}

// Config is a complete run configuration.
type Config struct {
	DataDir   string   `yaml:"data_dir"`
	OutputDir string   `yaml:"output_dir"` // empty: trip matrices are not written
	Database  string   `yaml:"database"`
	Workers   int      `yaml:"workers"`
	Zones     int      `yaml:"zones"`
	Purposes  []string `yaml:"purposes"`
	Modes     []string `yaml:"modes"` // empty: every mode of each parameter table
	Inputs    Inputs   `yaml:"inputs"`
	Model     Model    `yaml:"model"`
}

// Default returns the reference-deployment configuration.
func Default() *Config {
	s := resolve.DefaultSettings()
	return &Config{
		DataDir:  "data",
		Database: "modesplit.db",
		Workers:  engine.DefaultWorkers,
		Zones:    zone.ReferenceZones,
		Purposes: mode.DefaultPurposes(),
		Inputs: Inputs{
			Skims:   "skims",
			Params:  "params",
			Trips:   "trips",
			LandUse: "land_use.csv",
		},
		Model: Model{
			CostPerMile:          s.CostPerMile,
			NoPathPenalty:        s.NoPathPenalty,
			TollSentinel:         s.TollSentinel,
			OnDemandBaseFare:     s.OnDemandBaseFare,
			OnDemandDistanceCoef: s.OnDemandDistanceCoef,
			OnDemandTimeCoef:     s.OnDemandTimeCoef,
			OnDemandWait:         s.OnDemandWait,
			SharedIVTTFactor:     s.SharedIVTTFactor,
			SharedOVTTFactor:     s.SharedOVTTFactor,
			SharedCostFactor:     s.SharedCostFactor,
			Occupancy:            resolve.DefaultOccupancy(),
		},
	}
}

// Load reads the YAML file at path over the defaults, applies the environment
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("Load %s: %w", path, err)
	}
	if err = cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("Load %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Load %s: %w", path, err)
	}
	return cfg, nil
}

// LoadProject loads DefaultFile from dir. Relative data and database paths
// are taken relative to dir.
func LoadProject(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, DefaultFile))
	if err != nil {
		return nil, err
	}
	for _, p := range []*string{&cfg.DataDir, &cfg.OutputDir, &cfg.Database} {
		if *p != "" && *p != ":memory:" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults without touching the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("Parse: %w", err)
	}
	return cfg, nil
}

// LoadEnv loads .env style files into the process environment without
// overriding variables already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("LoadEnv %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from the MODESPLIT_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Database = v
	}
	for key, dst := range map[string]*int{EnvWorkers: &c.Workers, EnvZones: &c.Zones} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", key, v, ErrInvalid)
		}
		*dst = n
	}
	return nil
}

// Validate checks ranges. All problems are returned joined.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format+": %w", append(args, ErrInvalid)...))
	}
	if c.Zones <= 0 {
		bad("zones %d", c.Zones)
	}
	if c.Workers < 1 {
		bad("workers %d", c.Workers)
	}
	if len(c.Purposes) == 0 {
		bad("no purposes")
	}
	for field, names := range map[string][]string{"purposes": c.Purposes, "modes": c.Modes} {
		seen := make(map[string]struct{}, len(names))
		for _, n := range names {
			if _, dup := seen[n]; dup {
				bad("%s: %q listed twice", field, n)
			}
			seen[n] = struct{}{}
		}
	}
	if c.DataDir == "" {
		bad("empty data_dir")
	}
	m := c.Model
	for name, v := range map[string]float64{
		"cost_per_mile":           m.CostPerMile,
		"no_path_penalty":         m.NoPathPenalty,
		"toll_sentinel":           m.TollSentinel,
		"on_demand_base_fare":     m.OnDemandBaseFare,
		"on_demand_distance_coef": m.OnDemandDistanceCoef,
		"on_demand_time_coef":     m.OnDemandTimeCoef,
		"on_demand_wait":          m.OnDemandWait,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			bad("%s %g", name, v)
		}
	}
	for name, v := range map[string]float64{
		"shared_ivtt_factor": m.SharedIVTTFactor,
		"shared_ovtt_factor": m.SharedOVTTFactor,
		"shared_cost_factor": m.SharedCostFactor,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			bad("%s %g", name, v)
		}
	}
	for p, modes := range m.Occupancy {
		for name, v := range modes {
			if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
				bad("occupancy %s %s %g", p, name, v)
			}
		}
	}
	return errors.Join(errs...)
}

// Settings returns the resolver settings.
func (c *Config) Settings() resolve.Settings {
	m := c.Model
	return resolve.Settings{
		CostPerMile:          m.CostPerMile,
		NoPathPenalty:        m.NoPathPenalty,
		TollSentinel:         m.TollSentinel,
		OnDemandBaseFare:     m.OnDemandBaseFare,
		OnDemandDistanceCoef: m.OnDemandDistanceCoef,
		OnDemandTimeCoef:     m.OnDemandTimeCoef,
		OnDemandWait:         m.OnDemandWait,
		SharedIVTTFactor:     m.SharedIVTTFactor,
		SharedOVTTFactor:     m.SharedOVTTFactor,
		SharedCostFactor:     m.SharedCostFactor,
	}
}

// Occupancy returns the resolver occupancy table.
func (c *Config) Occupancy() resolve.Occupancy { return resolve.Occupancy(c.Model.Occupancy) }

// Path joins name onto DataDir unless it is absolute or empty.
func (c *Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
