// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/resolve"
	"github.com/katalvlaran/modesplit/result"
	"github.com/katalvlaran/modesplit/skim"
	"github.com/katalvlaran/modesplit/zone"
)

// SkimReader reads fitted skim fields; *resolve.Context implements it.
type SkimReader interface {
	Skim(source string, period mode.Period, field string) (*matrix.Dense, bool, error)
}

// Marginal is a production/attraction pair of miles traveled.
type Marginal struct {
	Production float64
	Attraction float64
}

// Travel is a miles-traveled summary.
//
// Production[i] is half the miles of trips produced by zone i and
// Attraction[j] half the miles of trips attracted to zone j, so both sum to
// Total / 2.
type Travel struct {
	Total      float64
	Production []float64
	Attraction []float64
	Groups     map[string]Marginal // nil without WithZoneGroups
	// Parts holds the same summary per breakdown key; nil without WithBreakdown.
	Parts map[string]*Travel
}

// PartNames returns the breakdown keys, sorted.
func (t *Travel) PartNames() []string {
	out := make([]string, 0, len(t.Parts))
	for k := range t.Parts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// GroupNames returns the group labels, sorted.
func (t *Travel) GroupNames() []string {
	out := make([]string, 0, len(t.Groups))
	for g := range t.Groups {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// VMT sums vehicle miles traveled over every computed purpose and segment:
// each auto mode's trips divided by its occupancy for the purpose, times the
// drive length skim of the segment's period.
//
// Errors:
//   - ErrNilInput, ErrNoResults.
//   - resolve.ErrMissingOccupancy for an auto mode present without occupancy.
//   - resolve.ErrMissingSkim when a period has no drive length skim.
func VMT(c *result.Container, skims SkimReader, occ resolve.Occupancy, opts ...Option) (*Travel, error) {
	return milesTraveled("VMT", c, skims, func(purpose, m string) (float64, error) {
		v, ok := occ[purpose][m]
		if !ok || v <= 0 {
			return 0, fmt.Errorf("%s %s: %w", purpose, m, resolve.ErrMissingOccupancy)
		}
		return v, nil
	}, opts)
}

// PMT sums person miles traveled by the auto modes over every computed
// purpose and segment.
func PMT(c *result.Container, skims SkimReader, opts ...Option) (*Travel, error) {
	return milesTraveled("PMT", c, skims, func(string, string) (float64, error) { return 1, nil }, opts)
}

// milesTraveled accumulates Σ (trips / divisor) ⊙ length.
//
// Implementation:
//   - Stage 1: For each computed purpose and segment, sum the auto-mode trips
//     present, each divided by divisor(purpose, mode).
//   - Stage 2: Multiply by the drive length skim of the segment's period.
//   - Stage 3: Add the row and column sums, halved, to the marginals and to
//     the breakdown part of the segment.
//
// Complexity:
//   - Time O(P·S·M·N²), Space O(N²).
func milesTraveled(tag string, c *result.Container, skims SkimReader,
	divisor func(purpose, modeName string) (float64, error), opts []Option) (*Travel, error) {
	if c == nil || skims == nil {
		return nil, ErrNilInput
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	purposes := c.Purposes()
	if len(purposes) == 0 {
		return nil, ErrNoResults
	}

	var t *Travel
	for _, p := range purposes {
		segs, _ := c.Get(p)
		for _, key := range segmentKeys(segs) {
			seg, err := mode.ParseSegment(p, key)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", tag, err)
			}
			var auto *matrix.Dense
			for _, m := range o.autoModes {
				tm, ok := segs[key][m]
				if !ok {
					continue
				}
				d, err := divisor(p, m)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", tag, err)
				}
				if auto == nil {
					if auto, err = matrix.NewDense(tm.Rows(), tm.Cols()); err != nil {
						return nil, fmt.Errorf("%s: %w", tag, err)
					}
				}
				if err = matrix.AddScaledInPlace(auto, 1/d, tm); err != nil {
					return nil, fmt.Errorf("%s %s %s: %w", tag, seg, m, err)
				}
			}
			if auto == nil {
				continue
			}
			length, ok, err := skims.Skim(mode.SkimDrive, seg.Period, skim.Length)
			if err == nil && !ok {
				err = resolve.ErrMissingSkim
			}
			if err != nil {
				return nil, fmt.Errorf("%s %s length: %w", tag, seg, err)
			}
			miles, err := matrix.Hadamard(auto, length)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", tag, seg, err)
			}
			if t == nil {
				t = newTravel(miles.Rows(), miles.Cols())
				if o.breakdown != NoBreakdown {
					t.Parts = make(map[string]*Travel)
				}
			}
			if err = t.add(miles); err != nil {
				return nil, fmt.Errorf("%s %s: %w", tag, seg, err)
			}
			if t.Parts == nil {
				continue
			}
			k := o.breakdown.key(seg)
			part, ok := t.Parts[k]
			if !ok {
				part = newTravel(miles.Rows(), miles.Cols())
				t.Parts[k] = part
			}
			if err = part.add(miles); err != nil {
				return nil, fmt.Errorf("%s %s: %w", tag, seg, err)
			}
		}
	}
	if t == nil {
		return &Travel{}, nil
	}
	if o.groups != nil {
		g, err := newGrouping(o.groups, len(t.Production))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tag, err)
		}
		t.group(g)
		for _, part := range t.Parts {
			part.group(g)
		}
	}
	return t, nil
}

func newTravel(rows, cols int) *Travel {
	return &Travel{Production: make([]float64, rows), Attraction: make([]float64, cols)}
}

func (t *Travel) group(g *grouping) {
	prod, attr := g.sum(t.Production), g.sum(t.Attraction)
	t.Groups = make(map[string]Marginal, len(prod))
	for name := range prod {
		t.Groups[name] = Marginal{Production: prod[name], Attraction: attr[name]}
	}
}

func (t *Travel) add(miles *matrix.Dense) error {
	rs, err := matrix.RowSums(miles)
	if err != nil {
		return err
	}
	cs, err := matrix.ColSums(miles)
	if err != nil {
		return err
	}
	t.Total += floats.Sum(rs)
	floats.AddScaled(t.Production, 0.5, rs)
	floats.AddScaled(t.Attraction, 0.5, cs)
	return nil
}

// grouping maps zone index → group label.
type grouping struct {
	labels []string
}

func newGrouping(labels []string, n int) (*grouping, error) {
	if len(labels) < n {
		return nil, fmt.Errorf("zone groups: got %d labels for %d zones: %w", len(labels), n, zone.ErrShapeTooSmall)
	}
	return &grouping{labels: labels[:n]}, nil
}

// sum adds v[i] into its zone's group; unlabeled zones are dropped.
func (g *grouping) sum(v []float64) map[string]float64 {
	out := make(map[string]float64)
	for i, x := range v {
		if l := g.labels[i]; l != "" {
			out[l] += x
		}
	}
	return out
}
