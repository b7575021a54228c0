// SPDX-License-Identifier: MIT

// Package report summarizes the trip matrices held in a result container:
// mode shares per purpose, vehicle and person miles traveled with
// production/attraction marginals, and shares by mode category.
//
// Purposes that were not computed are skipped, never counted as zero.
package report

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/result"
)

// ShareRow is one mode of a ShareTable.
type ShareRow struct {
	Mode      string
	BySegment map[string]float64 // segment key → trips
	Total     float64
	Share     float64 // Total / table total; 0 when the table is empty
}

// ShareTable is the mode share summary of one purpose.
type ShareTable struct {
	Purpose  string
	Segments []string
	Rows     []ShareRow // sorted by mode
	Total    float64
}

// Row returns the row of modeName.
func (t *ShareTable) Row(modeName string) (ShareRow, bool) {
	for _, r := range t.Rows {
		if r.Mode == modeName {
			return r, true
		}
	}
	return ShareRow{}, false
}

// ModeShare sums every mode's trips per segment for purpose and divides each
// mode's total by the purpose total. ok is false when the purpose has not
// been computed.
func ModeShare(c *result.Container, purpose string) (table *ShareTable, ok bool, err error) {
	if c == nil {
		return nil, false, ErrNilInput
	}
	segs, ok := c.Get(purpose)
	if !ok {
		return nil, false, nil
	}
	t := &ShareTable{Purpose: purpose, Segments: segmentKeys(segs)}
	byMode := make(map[string]*ShareRow)
	for _, key := range t.Segments {
		for m, tm := range segs[key] {
			s, err := matrix.Sum(tm)
			if err != nil {
				return nil, true, fmt.Errorf("ModeShare %s %s %s: %w", purpose, key, m, err)
			}
			row, seen := byMode[m]
			if !seen {
				row = &ShareRow{Mode: m, BySegment: make(map[string]float64, len(t.Segments))}
				byMode[m] = row
			}
			row.BySegment[key] = s
			row.Total += s
		}
	}

	totals := make([]float64, 0, len(byMode))
	for _, row := range byMode {
		totals = append(totals, row.Total)
	}
	t.Total = floats.Sum(totals)
	for _, row := range byMode {
		if t.Total != 0 {
			row.Share = row.Total / t.Total
		}
		t.Rows = append(t.Rows, *row)
	}
	sort.Slice(t.Rows, func(i, j int) bool { return t.Rows[i].Mode < t.Rows[j].Mode })
	return t, true, nil
}

// segmentKeys orders keys by mode.SegmentKeys, unknown keys last and sorted.
func segmentKeys(segs result.Segments) []string {
	rank := make(map[string]int, len(mode.SegmentKeys))
	for i, k := range mode.SegmentKeys {
		rank[k] = i
	}
	keys := make([]string, 0, len(segs))
	for k := range segs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// Categories is the trip split by mode category.
type Categories struct {
	Trips  map[string]float64            // category → trips
	Share  map[string]float64            // category → share of all trips
	Groups map[string]map[string]float64 // zone group → category → share; nil without WithZoneGroups
}

// CategoryShare sums the trips of every computed purpose and segment by mode
// category (drive, non-motorized, transit, smart mobility). With zone groups,
// each zone's trips are the mean of its row and column sums, as a zone both
// produces and attracts trips, and shares are computed within each group.
func CategoryShare(c *result.Container, catalog *mode.Catalog, opts ...Option) (*Categories, error) {
	if c == nil || catalog == nil {
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

	out := &Categories{Trips: make(map[string]float64), Share: make(map[string]float64)}
	for _, cat := range mode.Categories {
		out.Trips[cat] = 0
	}
	var zoneTrips map[string][]float64 // category → per-zone trip ends
	var groups *grouping
	for _, p := range purposes {
		segs, _ := c.Get(p)
		for key, trips := range segs {
			for m, tm := range trips {
				md, err := catalog.Lookup(m)
				if err != nil {
					return nil, fmt.Errorf("CategoryShare %s %s: %w", p, key, err)
				}
				cat := md.Class.Category()
				s, err := matrix.Sum(tm)
				if err != nil {
					return nil, fmt.Errorf("CategoryShare %s %s %s: %w", p, key, m, err)
				}
				out.Trips[cat] += s
				if o.groups == nil {
					continue
				}
				if groups == nil {
					if groups, err = newGrouping(o.groups, tm.Rows()); err != nil {
						return nil, fmt.Errorf("CategoryShare: %w", err)
					}
					zoneTrips = make(map[string][]float64)
				}
				ends, err := tripEnds(tm)
				if err != nil {
					return nil, fmt.Errorf("CategoryShare %s %s %s: %w", p, key, m, err)
				}
				if zoneTrips[cat] == nil {
					zoneTrips[cat] = make([]float64, len(ends))
				}
				floats.Add(zoneTrips[cat], ends)
			}
		}
	}

	out.Share = shares(out.Trips)
	if groups != nil {
		perGroup := make(map[string]map[string]float64)
		for cat, v := range zoneTrips {
			for g, s := range groups.sum(v) {
				if perGroup[g] == nil {
					perGroup[g] = make(map[string]float64)
				}
				perGroup[g][cat] = s
			}
		}
		out.Groups = make(map[string]map[string]float64, len(perGroup))
		for g, trips := range perGroup {
			out.Groups[g] = shares(trips)
		}
	}
	return out, nil
}

// tripEnds returns (rowsum + colsum) / 2 per zone.
func tripEnds(m matrix.Matrix) ([]float64, error) {
	rs, err := matrix.RowSums(m)
	if err != nil {
		return nil, err
	}
	cs, err := matrix.ColSums(m)
	if err != nil {
		return nil, err
	}
	floats.Add(rs, cs)
	floats.Scale(0.5, rs)
	return rs, nil
}

func shares(trips map[string]float64) map[string]float64 {
	vals := make([]float64, 0, len(trips))
	for _, v := range trips {
		vals = append(vals, v)
	}
	total := floats.Sum(vals)
	out := make(map[string]float64, len(trips))
	for k, v := range trips {
		if total != 0 {
			out[k] = v / total
		} else {
			out[k] = 0
		}
	}
	return out
}
