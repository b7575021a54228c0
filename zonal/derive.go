// SPDX-License-Identifier: MIT

package zonal

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/zone"
)

// Source column names of the land-use exports.
const (
	ColDailyParking = "Daily Parking Cost"
	ColAccPEV       = "Acc_PEV"
	ColEgrPEV       = "Egr_PEV"
	ColTotPop       = "Tot_Pop"
	ColTotEmp       = "Tot_Emp"
	ColArea         = "Area"
	ColHHPop        = "HH_Pop"
	ColHH           = "HH"
	ColVPW          = "VehiclesPerWorker"
	ColAMWacc       = "AM_wacc_fact"
	ColMDWacc       = "MD_wacc_fact"
	ColHwyProdTerm  = "Hwy Prod Term Time"
)

// Derived variable names.
const (
	Parking     = "Parking"
	AccPEV      = "AccPEV"
	EgrPEV      = "EgrPEV"
	PopD        = "PopD"
	EmpD        = "EmpD"
	HHSize      = "HHSize"
	VPW         = "VPW"
	WaccPK      = "wacc_PK"
	WaccOP      = "wacc_OP"
	WegrPK      = "wegr_PK"
	WegrOP      = "wegr_OP"
	HwyProdTerm = "Hwy_Prod_Term"
)

// PEVFill replaces missing pedestrian-environment values.
const PEVFill = 0.001

// Side says which end of a trip a zonal variable describes.
type Side int

const (
	// Production broadcasts v[i] along row i.
	Production Side = iota
	// Attraction broadcasts v[j] down column j.
	Attraction
)

// Vector is a derived per-zone variable.
type Vector struct {
	Values []float64
	Side   Side
}

// Attributes holds the derived zonal variables of a run. It is read-only
// once returned by Derive.
type Attributes struct {
	ix      zone.Index
	vectors map[string]Vector
	missing []string
}

// Get returns the named variable.
func (a *Attributes) Get(name string) (Vector, bool) {
	v, ok := a.vectors[name]
	return v, ok
}

// Missing lists the variables that could not be derived because their
// source columns were absent, sorted.
func (a *Attributes) Missing() []string {
	out := make([]string, len(a.missing))
	copy(out, a.missing)
	return out
}

// Matrix broadcasts the named variable to an N×N matrix on its side.
func (a *Attributes) Matrix(name string) (*matrix.Dense, bool, error) {
	v, ok := a.vectors[name]
	if !ok {
		return nil, false, nil
	}
	var (
		m   *matrix.Dense
		err error
	)
	if v.Side == Production {
		m, err = a.ix.ExpandProduction(v.Values)
	} else {
		m, err = a.ix.ExpandAttraction(v.Values)
	}
	if err != nil {
		return nil, true, fmt.Errorf("Matrix %s: %w", name, err)
	}
	return m, true, nil
}

// WaccFor returns the walk-access factor name for period p.
func WaccFor(p mode.Period) string {
	if p == mode.Peak {
		return WaccPK
	}
	return WaccOP
}

// WegrFor returns the walk-egress factor name for period p.
func WegrFor(p mode.Period) string {
	if p == mode.Peak {
		return WegrPK
	}
	return WegrOP
}

// NewAttributes wraps precomputed vectors, truncating each to ix.N.
// Vectors shorter than ix.N fail with zone.ErrShapeTooSmall.
func NewAttributes(ix zone.Index, vectors map[string]Vector) (*Attributes, error) {
	a := &Attributes{ix: ix, vectors: make(map[string]Vector, len(vectors))}
	for name, v := range vectors {
		fv, err := ix.FitVector(v.Values)
		if err != nil {
			return nil, fmt.Errorf("NewAttributes %s: %w", name, err)
		}
		a.vectors[name] = Vector{Values: fv, Side: v.Side}
	}
	return a, nil
}

// Derive computes the model's zonal variables from the land-use table z and
// the parking table p (nil when no parking data is available).
//
//   - Parking: daily parking cost / 2, attraction side, missing → 0.
//   - AccPEV / EgrPEV: production / attraction, missing → PEVFill.
//   - PopD: sqrt(Tot_Pop / Area), production. EmpD: sqrt(Tot_Emp / Area), attraction.
//   - HHSize: HH_Pop / HH, production, undefined → 0.
//   - VPW: production, missing → mean of the present values.
//   - wacc_PK / wacc_OP: AM / MD walk-access factor, production.
//   - wegr_PK / wegr_OP: the same AM / MD factors, attraction.
//   - Hwy_Prod_Term: highway production terminal time, production.
//
// A variable whose source columns are absent is skipped and reported by
// Attributes.Missing; the resolver fails only if a parameter table uses it.
func Derive(ix zone.Index, z, p *Table) (*Attributes, error) {
	if ix.N <= 0 {
		return nil, zone.ErrInvalidIndex
	}
	vectors := make(map[string]Vector)
	var missing []string
	add := func(name string, side Side, cols []string, f func(cols [][]float64) []float64, t *Table) {
		if t == nil {
			missing = append(missing, name)
			return
		}
		src, err := t.require(cols...)
		if err != nil {
			missing = append(missing, name)
			return
		}
		vectors[name] = Vector{Values: f(src), Side: side}
	}

	add(Parking, Attraction, []string{ColDailyParking}, func(c [][]float64) []float64 {
		return mapValues(c[0], func(v float64) float64 { return fillNaN(v, 0) / 2 })
	}, p)
	add(AccPEV, Production, []string{ColAccPEV}, func(c [][]float64) []float64 {
		return mapValues(c[0], func(v float64) float64 { return fillNaN(v, PEVFill) })
	}, z)
	add(EgrPEV, Attraction, []string{ColEgrPEV}, func(c [][]float64) []float64 {
		return mapValues(c[0], func(v float64) float64 { return fillNaN(v, PEVFill) })
	}, z)
	add(PopD, Production, []string{ColTotPop, ColArea}, func(c [][]float64) []float64 {
		return sqrtRatio(c[0], c[1])
	}, z)
	add(EmpD, Attraction, []string{ColTotEmp, ColArea}, func(c [][]float64) []float64 {
		return sqrtRatio(c[0], c[1])
	}, z)
	add(HHSize, Production, []string{ColHHPop, ColHH}, func(c [][]float64) []float64 {
		out := make([]float64, len(c[0]))
		for i := range out {
			out[i] = fillNaN(c[0][i]/c[1][i], 0)
		}
		return out
	}, z)
	add(VPW, Production, []string{ColVPW}, func(c [][]float64) []float64 {
		mean := nanMean(c[0])
		return mapValues(c[0], func(v float64) float64 { return fillNaN(v, mean) })
	}, z)
	identity := func(c [][]float64) []float64 { return mapValues(c[0], func(v float64) float64 { return v }) }
	add(WaccPK, Production, []string{ColAMWacc}, identity, z)
	add(WaccOP, Production, []string{ColMDWacc}, identity, z)
	add(WegrPK, Attraction, []string{ColAMWacc}, identity, z)
	add(WegrOP, Attraction, []string{ColMDWacc}, identity, z)
	add(HwyProdTerm, Production, []string{ColHwyProdTerm}, identity, z)

	a, err := NewAttributes(ix, vectors)
	if err != nil {
		return nil, fmt.Errorf("Derive: %w", err)
	}
	sort.Strings(missing)
	a.missing = missing
	return a, nil
}

func mapValues(v []float64, f func(float64) float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = f(x)
	}
	return out
}

func fillNaN(v, fill float64) float64 {
	if math.IsNaN(v) {
		return fill
	}
	return v
}

func sqrtRatio(num, den []float64) []float64 {
	out := make([]float64, len(num))
	floats.DivTo(out, num, den)
	for i, v := range out {
		out[i] = math.Sqrt(v)
	}
	return out
}

// nanMean averages the non-NaN entries; an all-NaN column yields NaN.
func nanMean(v []float64) float64 {
	present := make([]float64, 0, len(v))
	for _, x := range v {
		if !math.IsNaN(x) {
			present = append(present, x)
		}
	}
	if len(present) == 0 {
		return math.NaN()
	}
	return floats.Sum(present) / float64(len(present))
}
