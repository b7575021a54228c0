// SPDX-License-Identifier: MIT

// Package mode declares travel alternatives, their attribute-sourcing classes,
// and the market segments a purpose is evaluated over.
//
// A Mode belongs to exactly one Class. The Class decides which skim and which
// formula the variable resolver uses for every explanatory variable; the Mode
// name only refines the choice inside a class (ride-alone vs shared on-demand,
// walk vs bike, one drive-access transit skim per line type).
package mode

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownMode indicates a mode name that is not part of the catalog.
	ErrUnknownMode = errors.New("mode: unknown mode")

	// ErrDuplicateMode indicates two catalog entries sharing one name.
	ErrDuplicateMode = errors.New("mode: duplicate mode")

	// ErrBadSegment indicates a segment key that is not "<autos>_<period>".
	ErrBadSegment = errors.New("mode: malformed segment key")
)

// Class groups modes that share attribute-sourcing rules.
type Class int

const (
	// Drive covers private-vehicle modes (drive alone and shared ride).
	Drive Class = iota + 1
	// DriveTransit is transit with drive access.
	DriveTransit
	// WalkTransit is transit with walk access.
	WalkTransit
	// Active covers walk and bike.
	Active
	// OnDemand covers ride-hailing (ride-alone and shared).
	OnDemand
)

// Classes lists every class in declaration order.
var Classes = []Class{Drive, DriveTransit, WalkTransit, Active, OnDemand}

// String returns the short class name used in diagnostics.
func (c Class) String() string {
	switch c {
	case Drive:
		return "drive"
	case DriveTransit:
		return "DAT"
	case WalkTransit:
		return "WAT"
	case Active:
		return "active"
	case OnDemand:
		return "on-demand"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Category is the coarse reporting bucket of a class.
func (c Class) Category() string {
	switch c {
	case Drive:
		return CategoryDrive
	case DriveTransit, WalkTransit:
		return CategoryTransit
	case Active:
		return CategoryNonMotorized
	case OnDemand:
		return CategorySmartMobility
	default:
		return ""
	}
}

// Reporting categories.
const (
	CategoryDrive         = "drive"
	CategoryNonMotorized  = "non-motorized"
	CategoryTransit       = "transit"
	CategorySmartMobility = "smart mobility"
)

// Categories lists the reporting categories in output order.
var Categories = []string{CategoryDrive, CategoryNonMotorized, CategoryTransit, CategorySmartMobility}

// Skim source names.
const (
	SkimDrive = "drive"
	SkimWAT   = "WAT"
	SkimWalk  = "Walk"
	SkimBike  = "Bike"
)

// Mode is a named alternative.
type Mode struct {
	Name  string
	Class Class
	// Skim is the skim source the mode reads. DAT modes each own a skim
	// named after the mode; all WAT modes share SkimWAT.
	Skim string
	// Shared marks the shared-ride on-demand variant, whose time and cost
	// are scaled by the configured inflation factors.
	Shared bool
}

// Mode names of the reference deployment.
const (
	DA      = "DA"
	SR2     = "SR2"
	SR3     = "SR3+"
	SR2Plus = "SR2+"
	DATCR   = "DAT_CR"
	DATRT   = "DAT_RT"
	DATLB   = "DAT_LB"
	DATB    = "DAT_B"
	WAT     = "WAT"
	WATCR   = "WAT_CR"
	WATRT   = "WAT_RT"
	WATLB   = "WAT_LB"
	WATB    = "WAT_B"
	Walk    = "Walk"
	Bike    = "Bike"
	SMRA    = "SM_RA"
	SMSH    = "SM_SH"
)

// Catalog is an immutable name → Mode lookup.
type Catalog struct {
	byName map[string]Mode
	order  []string
}

// NewCatalog builds a catalog; names must be unique and non-empty and
// every mode needs a valid class.
func NewCatalog(modes ...Mode) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Mode, len(modes)), order: make([]string, 0, len(modes))}
	for _, m := range modes {
		if m.Name == "" || m.Class < Drive || m.Class > OnDemand {
			return nil, fmt.Errorf("NewCatalog: %q: %w", m.Name, ErrUnknownMode)
		}
		if _, dup := c.byName[m.Name]; dup {
			return nil, fmt.Errorf("NewCatalog: %q: %w", m.Name, ErrDuplicateMode)
		}
		c.byName[m.Name] = m
		c.order = append(c.order, m.Name)
	}
	return c, nil
}

// DefaultCatalog returns the seventeen modes of the reference deployment.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		Mode{Name: DA, Class: Drive, Skim: SkimDrive},
		Mode{Name: SR2, Class: Drive, Skim: SkimDrive},
		Mode{Name: SR3, Class: Drive, Skim: SkimDrive},
		Mode{Name: SR2Plus, Class: Drive, Skim: SkimDrive},
		Mode{Name: DATCR, Class: DriveTransit, Skim: DATCR},
		Mode{Name: DATRT, Class: DriveTransit, Skim: DATRT},
		Mode{Name: DATLB, Class: DriveTransit, Skim: DATLB},
		Mode{Name: DATB, Class: DriveTransit, Skim: DATB},
		Mode{Name: WAT, Class: WalkTransit, Skim: SkimWAT},
		Mode{Name: WATCR, Class: WalkTransit, Skim: SkimWAT},
		Mode{Name: WATRT, Class: WalkTransit, Skim: SkimWAT},
		Mode{Name: WATLB, Class: WalkTransit, Skim: SkimWAT},
		Mode{Name: WATB, Class: WalkTransit, Skim: SkimWAT},
		Mode{Name: Walk, Class: Active, Skim: SkimWalk},
		Mode{Name: Bike, Class: Active, Skim: SkimBike},
		Mode{Name: SMRA, Class: OnDemand, Skim: SkimDrive},
		Mode{Name: SMSH, Class: OnDemand, Skim: SkimDrive, Shared: true},
	)
	if err != nil {
		panic(err) // static table
	}
	return c
}

// Lookup returns the mode registered under name.
func (c *Catalog) Lookup(name string) (Mode, error) {
	m, ok := c.byName[name]
	if !ok {
		return Mode{}, fmt.Errorf("Lookup %q: %w", name, ErrUnknownMode)
	}
	return m, nil
}

// Names returns the registered names in registration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// OfClass returns the names registered under cl, sorted.
func (c *Catalog) OfClass(cl Class) []string {
	var out []string
	for _, n := range c.order {
		if c.byName[n].Class == cl {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
