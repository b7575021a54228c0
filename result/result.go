// SPDX-License-Identifier: MIT

// Package result accumulates mode-split trip matrices per travel purpose.
//
// Each purpose owns one tagged slot: Uncomputed, or Computed with its
// segment → mode → matrix data. A slot moves from Uncomputed to Computed when
// Store publishes a purpose's complete result; a rerun replaces the data
// under the same lock, so readers see either the old or the new result and
// never a mix. There is no way back to Uncomputed.
//
// Container is safe for concurrent use. Stored matrices are shared with
// readers and must be treated as read-only.
package result

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/katalvlaran/modesplit/matrix"
	"github.com/katalvlaran/modesplit/split"
)

var (
	// ErrEmptyPurpose indicates an empty purpose name.
	ErrEmptyPurpose = errors.New("result: empty purpose")

	// ErrEmptyResult indicates a Store without any segment or mode.
	ErrEmptyResult = errors.New("result: empty purpose result")

	// ErrNilMatrix indicates a nil trip matrix in a Store.
	ErrNilMatrix = errors.New("result: nil trip matrix")

	// ErrNoData indicates an aggregation that matched no computed purpose.
	ErrNoData = errors.New("result: no computed data for mode and segment")
)

// State is the tag of a purpose slot.
type State int

const (
	// Uncomputed is the initial state of every purpose.
	Uncomputed State = iota
	// Computed holds a complete purpose result.
	Computed
)

func (s State) String() string {
	if s == Computed {
		return "computed"
	}
	return "uncomputed"
}

// Segments maps segment key → per-mode trips.
type Segments map[string]split.Trips

// entry is the tagged slot of one purpose. data is nil unless state is Computed.
type entry struct {
	state State
	data  Segments
}

// Container holds every purpose slot of a model run.
type Container struct {
	mu    sync.RWMutex
	order []string
	slots map[string]entry
}

// New returns a container with an Uncomputed slot for each purpose.
func New(purposes ...string) *Container {
	c := &Container{slots: make(map[string]entry, len(purposes))}
	for _, p := range purposes {
		if _, ok := c.slots[p]; ok || p == "" {
			continue
		}
		c.order = append(c.order, p)
		c.slots[p] = entry{state: Uncomputed}
	}
	return c
}

// Store publishes a purpose's complete result, replacing any earlier one.
// Unknown purposes get a new slot. The maps are copied; matrices are shared.
func (c *Container) Store(purpose string, segs Segments) error {
	if purpose == "" {
		return ErrEmptyPurpose
	}
	cp, err := copySegments(segs)
	if err != nil {
		return fmt.Errorf("Store %s: %w", purpose, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.slots[purpose]; !ok {
		c.order = append(c.order, purpose)
	}
	c.slots[purpose] = entry{state: Computed, data: cp}
	return nil
}

func copySegments(segs Segments) (Segments, error) {
	if len(segs) == 0 {
		return nil, ErrEmptyResult
	}
	out := make(Segments, len(segs))
	for key, trips := range segs {
		if len(trips) == 0 {
			return nil, fmt.Errorf("segment %s: %w", key, ErrEmptyResult)
		}
		t := make(split.Trips, len(trips))
		for m, tm := range trips {
			if tm == nil {
				return nil, fmt.Errorf("segment %s mode %s: %w", key, m, ErrNilMatrix)
			}
			t[m] = tm
		}
		out[key] = t
	}
	return out, nil
}

// Get returns a purpose's result, or ok=false when the purpose was never
// computed in this run.
func (c *Container) Get(purpose string) (Segments, bool) {
	c.mu.RLock()
	e, ok := c.slots[purpose]
	c.mu.RUnlock()
	if !ok || e.state != Computed {
		return nil, false
	}
	out, _ := copySegments(e.data)
	return out, true
}

// State returns the tag of purpose's slot.
func (c *Container) State(purpose string) State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.slots[purpose].state
}

// Purposes returns the computed purposes in registration order.
func (c *Container) Purposes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, p := range c.order {
		if c.slots[p].state == Computed {
			out = append(out, p)
		}
	}
	return out
}

// Aggregate sums the trips of modeName in segment key across every computed
// purpose. Uncomputed purposes, and computed ones without that mode, are
// skipped. ErrNoData when nothing matched.
func (c *Container) Aggregate(modeName, key string) (*matrix.Dense, error) {
	var acc *matrix.Dense
	for _, p := range c.Purposes() {
		segs, ok := c.Get(p)
		if !ok {
			continue
		}
		tm, ok := segs[key][modeName]
		if !ok {
			continue
		}
		if acc == nil {
			acc = tm.Copy()
			continue
		}
		if err := matrix.AddInPlace(acc, tm); err != nil {
			return nil, fmt.Errorf("Aggregate %s %s %s: %w", modeName, key, p, err)
		}
	}
	if acc == nil {
		return nil, fmt.Errorf("Aggregate %s %s: %w", modeName, key, ErrNoData)
	}
	return acc, nil
}

// Modes returns every mode present in any computed purpose, sorted.
func (c *Container) Modes() []string {
	seen := make(map[string]struct{})
	for _, p := range c.Purposes() {
		segs, _ := c.Get(p)
		for _, trips := range segs {
			for m := range trips {
				seen[m] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
