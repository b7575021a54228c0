// SPDX-License-Identifier: MIT

package resolve

import (
	"fmt"

	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/skim"
	"github.com/katalvlaran/modesplit/zonal"
)

// Variable names as they appear in parameter-table columns.
const (
	IVTT      = "IVTT"
	OVTT      = "OVTT"
	Cost      = "Cost"
	Parking   = "Parking"
	Length    = "length"
	SqrLength = "Sqrlength"
	AccPEV    = "AccPEV"
	EgrPEV    = "EgrPEV"
	PopD      = "PopD"
	EmpD      = "EmpD"
	HHSize    = "HHSize"
	VPW       = "VPW"
	WaccFact  = "wacc_fact"
	WegrFact  = "wegr_fact"
)

// request is one (segment, mode) evaluation.
type request struct {
	seg  mode.Segment
	mode mode.Mode
}

// rule computes one variable for one mode. Results may alias context data.
type rule func(c *Context, r request) (*matrix.Dense, error)

// rules is the (variable, class) dispatch table. Every variable lists every
// class; notApplicable marks classes the variable does not describe.
var rules = map[string]map[mode.Class]rule{
	IVTT: {
		mode.Drive:        skimRule(skim.CongTime),
		mode.DriveTransit: transitIVTT,
		mode.WalkTransit:  transitIVTT,
		mode.Active:       notApplicable,
		mode.OnDemand:     onDemandIVTT,
	},
	OVTT: {
		mode.Drive:        skimRule(skim.TerminalTimes),
		mode.DriveTransit: driveTransitOVTT,
		mode.WalkTransit:  skimRule(skim.TotalOVTT),
		mode.Active:       activeTime,
		mode.OnDemand:     onDemandOVTT,
	},
	Cost: {
		mode.Drive:        driveCost,
		mode.DriveTransit: skimRule(skim.TotalCost),
		mode.WalkTransit:  skimRule(skim.TotalCost),
		mode.Active:       notApplicable,
		mode.OnDemand:     onDemandCost,
	},
	Parking:   only(zonalRule(zonal.Parking), mode.Drive),
	Length:    only(skimRule(skim.Length), mode.Active),
	SqrLength: only(sqrtLength, mode.Active),
	AccPEV:    only(zonalRule(zonal.AccPEV), mode.Active, mode.WalkTransit),
	EgrPEV:    only(zonalRule(zonal.EgrPEV), mode.Active, mode.WalkTransit, mode.DriveTransit),
	PopD:      only(zonalRule(zonal.PopD), mode.Active, mode.WalkTransit),
	EmpD:      only(zonalRule(zonal.EmpD), mode.Active, mode.DriveTransit),
	HHSize:    only(zonalRule(zonal.HHSize), mode.Drive),
	VPW:       only(zonalRule(zonal.VPW), mode.Drive),
	WaccFact:  only(periodZonalRule(zonal.WaccFor), mode.WalkTransit),
	WegrFact:  only(periodZonalRule(zonal.WegrFor), mode.WalkTransit, mode.DriveTransit),
}

// only builds a row applying r to the listed classes and notApplicable to the rest.
func only(r rule, classes ...mode.Class) map[mode.Class]rule {
	row := make(map[mode.Class]rule, len(mode.Classes))
	for _, cl := range mode.Classes {
		row[cl] = notApplicable
	}
	for _, cl := range classes {
		row[cl] = r
	}
	return row
}

// notApplicable marks a class the variable does not describe. Its entry is
// present in the table but nil; lookup serves it with zeroRule.
var notApplicable rule

func zeroRule(c *Context, _ request) (*matrix.Dense, error) { return c.zeros() }

// field reads a skim field of the mode's own source for the segment's period.
func field(c *Context, r request, name string) (*matrix.Dense, error) {
	m, ok, err := c.Skim(r.mode.Skim, r.seg.Period, name)
	if err != nil {
		return nil, fmt.Errorf("%s/%s %q: %w", r.mode.Skim, r.seg.Period, name, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s/%s %q: %w", r.mode.Skim, r.seg.Period, name, ErrMissingSkim)
	}
	return m, nil
}

func zonalMatrix(c *Context, name string) (*matrix.Dense, error) {
	m, ok, err := c.attrs.Matrix(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrMissingZonal)
	}
	return m, nil
}

func skimRule(name string) rule {
	return func(c *Context, r request) (*matrix.Dense, error) { return field(c, r, name) }
}

func zonalRule(name string) rule {
	return func(c *Context, _ request) (*matrix.Dense, error) { return zonalMatrix(c, name) }
}

func periodZonalRule(nameFor func(mode.Period) string) rule {
	return func(c *Context, r request) (*matrix.Dense, error) { return zonalMatrix(c, nameFor(r.seg.Period)) }
}

func transitIVTT(c *Context, r request) (*matrix.Dense, error) {
	ivtt, err := field(c, r, skim.TotalIVTT)
	if err != nil {
		return nil, err
	}
	return SubstituteNoPath(ivtt, c.settings.NoPathPenalty)
}

func onDemandIVTT(c *Context, r request) (*matrix.Dense, error) {
	t, err := field(c, r, skim.CongTime)
	if err != nil || !r.mode.Shared {
		return t, err
	}
	return matrix.Scale(t, c.settings.SharedIVTTFactor)
}

// driveTransitOVTT adds the production-zone highway terminal time to the
// transit out-of-vehicle time. Zero cells are kept as they are.
func driveTransitOVTT(c *Context, r request) (*matrix.Dense, error) {
	ovtt, err := field(c, r, skim.TotalOVTT)
	if err != nil {
		return nil, err
	}
	term, err := zonalMatrix(c, zonal.HwyProdTerm)
	if err != nil {
		return nil, err
	}
	return matrix.Add(ovtt, term)
}

func activeTime(c *Context, r request) (*matrix.Dense, error) {
	return field(c, r, skim.TimeField(r.mode.Name))
}

func onDemandOVTT(c *Context, r request) (*matrix.Dense, error) {
	wait, err := c.ix.Filled(c.settings.OnDemandWait)
	if err != nil || !r.mode.Shared {
		return wait, err
	}
	return matrix.Scale(wait, c.settings.SharedOVTTFactor)
}

func sqrtLength(c *Context, r request) (*matrix.Dense, error) {
	l, err := field(c, r, skim.Length)
	if err != nil {
		return nil, err
	}
	return matrix.Sqrt(l)
}

func sanitizedToll(c *Context, r request) (*matrix.Dense, error) {
	toll, err := field(c, r, skim.Toll)
	if err != nil {
		return nil, err
	}
	return SanitizeToll(toll, c.settings.TollSentinel)
}

// driveCost is toll / occupancy + length * cost per mile.
func driveCost(c *Context, r request) (*matrix.Dense, error) {
	ao, ok := c.Occupancy(r.seg.Purpose, r.mode.Name)
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", r.seg.Purpose, r.mode.Name, ErrMissingOccupancy)
	}
	toll, err := sanitizedToll(c, r)
	if err != nil {
		return nil, err
	}
	length, err := field(c, r, skim.Length)
	if err != nil {
		return nil, err
	}
	out, err := matrix.DivScalar(toll, ao)
	if err != nil {
		return nil, err
	}
	if err = matrix.AddScaledInPlace(out, c.settings.CostPerMile, length); err != nil {
		return nil, err
	}
	return out, nil
}

// onDemandCost is base fare + distance coef * length + time coef * time + toll;
// the shared variant divides the total by the shared cost factor.
func onDemandCost(c *Context, r request) (*matrix.Dense, error) {
	toll, err := sanitizedToll(c, r)
	if err != nil {
		return nil, err
	}
	length, err := field(c, r, skim.Length)
	if err != nil {
		return nil, err
	}
	t, err := field(c, r, skim.CongTime)
	if err != nil {
		return nil, err
	}
	s := c.settings
	total, err := matrix.Scale(length, s.OnDemandDistanceCoef)
	if err != nil {
		return nil, err
	}
	if total, err = matrix.AddScalar(total, s.OnDemandBaseFare); err != nil {
		return nil, err
	}
	if err = matrix.AddScaledInPlace(total, s.OnDemandTimeCoef, t); err != nil {
		return nil, err
	}
	if err = matrix.AddInPlace(total, toll); err != nil {
		return nil, err
	}
	if !r.mode.Shared {
		return total, nil
	}
	return matrix.DivScalar(total, s.SharedCostFactor)
}
