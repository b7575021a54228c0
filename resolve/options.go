// SPDX-License-Identifier: MIT

package resolve

import "github.com/katalvlaran/modesplit/mode"

// Reference-deployment constants.
const (
	// DefaultCostPerMile is the auto operating cost per mile.
	DefaultCostPerMile = 0.184

	// DefaultNoPathPenalty replaces transit in-vehicle times of exactly 0.
	DefaultNoPathPenalty = 1e4

	// DefaultTollSentinel bounds valid toll magnitudes; larger tolls are zeroed.
	DefaultTollSentinel = 1e6

	// DefaultOnDemandBaseFare is base fare plus booking fee.
	DefaultOnDemandBaseFare = 2.1 + 1.85

	DefaultOnDemandDistanceCoef = 1.35
	DefaultOnDemandTimeCoef     = 0.21
	DefaultSharedIVTTFactor     = 1.3
	DefaultSharedOVTTFactor     = 1.3
	DefaultSharedCostFactor     = 1.3

	// DefaultOnDemandWait is the ride-alone wait (minutes) used as its
	// out-of-vehicle time for every pair.
	DefaultOnDemandWait = 5.0
)

// Settings are the scalar constants the rules read.
type Settings struct {
	CostPerMile   float64
	NoPathPenalty float64
	TollSentinel  float64

	OnDemandBaseFare     float64
	OnDemandDistanceCoef float64
	OnDemandTimeCoef     float64
	OnDemandWait         float64
	SharedIVTTFactor     float64
	SharedOVTTFactor     float64
	SharedCostFactor     float64
}

// DefaultSettings returns the reference-deployment settings.
func DefaultSettings() Settings {
	return Settings{
		CostPerMile:          DefaultCostPerMile,
		NoPathPenalty:        DefaultNoPathPenalty,
		TollSentinel:         DefaultTollSentinel,
		OnDemandBaseFare:     DefaultOnDemandBaseFare,
		OnDemandDistanceCoef: DefaultOnDemandDistanceCoef,
		OnDemandTimeCoef:     DefaultOnDemandTimeCoef,
		OnDemandWait:         DefaultOnDemandWait,
		SharedIVTTFactor:     DefaultSharedIVTTFactor,
		SharedOVTTFactor:     DefaultSharedOVTTFactor,
		SharedCostFactor:     DefaultSharedCostFactor,
	}
}

// Occupancy maps purpose → mode → average vehicle occupancy.
type Occupancy map[string]map[string]float64

// DefaultOccupancy returns the reference-deployment occupancies. Only HBW
// carries SR3+; no purpose carries SR2+.
func DefaultOccupancy() Occupancy {
	base := func() map[string]float64 {
		return map[string]float64{mode.DA: 1, mode.SR2: 2, mode.SMRA: 1, mode.SMSH: 2}
	}
	occ := Occupancy{}
	for _, p := range mode.DefaultPurposes() {
		occ[p] = base()
	}
	occ[mode.HBW][mode.SR3] = 3.5
	return occ
}

func (o Occupancy) clone() Occupancy {
	out := make(Occupancy, len(o))
	for p, modes := range o {
		m := make(map[string]float64, len(modes))
		for k, v := range modes {
			m[k] = v
		}
		out[p] = m
	}
	return out
}

// Option customizes a Context.
type Option func(*Context)

// WithCatalog replaces the default mode catalog.
func WithCatalog(c *mode.Catalog) Option {
	return func(x *Context) { x.catalog = c }
}

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(x *Context) { x.settings = s }
}

// WithOccupancy replaces the default occupancy table. The table is copied.
func WithOccupancy(o Occupancy) Option {
	return func(x *Context) { x.occupancy = o.clone() }
}
