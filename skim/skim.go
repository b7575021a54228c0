// SPDX-License-Identifier: MIT

// Package skim holds network skims: zone-to-zone matrices of time, cost and
// distance per source (drive, each transit access variant, walk, bike) and
// per period.
//
// A Bank is filled once before a run and read concurrently afterwards. Sources
// that do not vary by time of day (walk, bike) are registered with an empty
// period and are served for both PK and OP lookups.
package skim

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/mode"
)

// Field names as they appear in the skim exports.
const (
	CongTime      = "CongTime"
	TerminalTimes = "TerminalTimes"
	Toll          = "Auto_Toll (Skim)"
	Length        = "Length (Skim)"
	TotalIVTT     = "Total_IVTT"
	TotalOVTT     = "Total_OVTT"
	TotalCost     = "Total_Cost"
)

// TimeField returns the travel-time field of an active-mode skim ("WalkTime").
func TimeField(modeName string) string { return modeName + "Time" }

var (
	// ErrEmptyName indicates an empty source or field name.
	ErrEmptyName = errors.New("skim: empty source or field name")

	// ErrBadPeriod indicates a period other than PK, OP or period-independent.
	ErrBadPeriod = errors.New("skim: invalid period")
)

type key struct {
	source string
	period mode.Period // "" = period-independent
}

// Bank maps (source, period) → field → matrix.
type Bank struct {
	mu     sync.RWMutex
	tables map[key]map[string]*matrix.Dense
}

// NewBank returns an empty bank.
func NewBank() *Bank {
	return &Bank{tables: make(map[key]map[string]*matrix.Dense)}
}

// Put registers m as field of source for period. Use an empty period for
// sources valid at every time of day. A later Put for the same triple replaces
// the earlier matrix.
func (b *Bank) Put(source string, period mode.Period, field string, m *matrix.Dense) error {
	if source == "" || field == "" {
		return ErrEmptyName
	}
	if period != "" && !period.Valid() {
		return fmt.Errorf("Put %s/%s: %w", source, period, ErrBadPeriod)
	}
	if err := matrix.ValidateNotNil(m); err != nil {
		return fmt.Errorf("Put %s/%s/%s: %w", source, period, field, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	k := key{source: source, period: period}
	fields, ok := b.tables[k]
	if !ok {
		fields = make(map[string]*matrix.Dense)
		b.tables[k] = fields
	}
	fields[field] = m
	return nil
}

// Field returns the matrix for (source, period, field). Period-specific
// entries take precedence over period-independent ones. The returned matrix
// is shared; callers must not mutate it.
func (b *Bank) Field(source string, period mode.Period, field string) (*matrix.Dense, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if fields, ok := b.tables[key{source: source, period: period}]; ok {
		if m, ok := fields[field]; ok {
			return m, true
		}
	}
	if fields, ok := b.tables[key{source: source}]; ok {
		if m, ok := fields[field]; ok {
			return m, true
		}
	}
	return nil, false
}

// Fields lists the fields known for (source, period), sorted, including
// period-independent ones.
func (b *Bank) Fields(source string, period mode.Period) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, k := range []key{{source: source, period: period}, {source: source}} {
		for f := range b.tables[k] {
			seen[f] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered (source, period) tables.
func (b *Bank) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.tables)
}
