// SPDX-License-Identifier: MIT

// Package resolve assembles explanatory-variable matrices for the mode-choice
// model.
//
// Resolve(segment, variable, mode) returns the N×N matrix of one variable for
// one mode in one market segment. Dispatch goes through a rule table keyed by
// variable and then by mode class; every known variable carries a rule for
// every class, and classes the variable does not apply to carry an explicit
// not-applicable rule that yields the all-zero matrix. Anything outside the
// table is a configuration error.
//
// All inputs live in a Context built once per run and never mutated. Returned
// matrices may alias skim storage or a shared zero matrix: callers must treat
// them as read-only.
package resolve

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/mode"
	"github.com/katalvlaran/modesplit/skim"
	"github.com/katalvlaran/modesplit/zonal"
	"github.com/katalvlaran/modesplit/zone"
)

// Context carries every input the rules read. It is immutable after
// NewContext and safe for concurrent use.
type Context struct {
	ix        zone.Index
	catalog   *mode.Catalog
	skims     *skim.Bank
	attrs     *zonal.Attributes
	occupancy Occupancy
	settings  Settings

	zeroOnce sync.Once
	zero     *matrix.Dense
	zeroErr  error
}

// NewContext binds the inputs of one run. skims and attrs must be fully
// loaded; they are read, never written.
func NewContext(ix zone.Index, skims *skim.Bank, attrs *zonal.Attributes, opts ...Option) (*Context, error) {
	if ix.N <= 0 {
		return nil, zone.ErrInvalidIndex
	}
	if skims == nil {
		return nil, fmt.Errorf("NewContext: nil skim bank: %w", ErrMissingSkim)
	}
	if attrs == nil {
		return nil, fmt.Errorf("NewContext: nil zonal attributes: %w", ErrMissingZonal)
	}
	c := &Context{
		ix:        ix,
		catalog:   mode.DefaultCatalog(),
		skims:     skims,
		attrs:     attrs,
		occupancy: DefaultOccupancy(),
		settings:  DefaultSettings(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Index returns the zone index of the run.
func (c *Context) Index() zone.Index { return c.ix }

// Catalog returns the mode catalog of the run.
func (c *Context) Catalog() *mode.Catalog { return c.catalog }

// Settings returns the scalar settings of the run.
func (c *Context) Settings() Settings { return c.settings }

// Occupancy returns the average occupancy of modeName for purpose.
func (c *Context) Occupancy(purpose, modeName string) (float64, bool) {
	v, ok := c.occupancy[purpose][modeName]
	return v, ok
}

// Skim returns a skim field for period fitted to N×N. ok is false when the
// field is not loaded.
func (c *Context) Skim(source string, period mode.Period, field string) (m *matrix.Dense, ok bool, err error) {
	raw, ok := c.skims.Field(source, period, field)
	if !ok {
		return nil, false, nil
	}
	if m, err = c.ix.Fit(raw); err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// zeros returns the shared read-only N×N zero matrix.
func (c *Context) zeros() (*matrix.Dense, error) {
	c.zeroOnce.Do(func() { c.zero, c.zeroErr = c.ix.Zeros() })
	return c.zero, c.zeroErr
}
