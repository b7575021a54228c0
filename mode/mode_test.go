// SPDX-License-Identifier: MIT

package mode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/modesplit/mode"
)

func TestDefaultCatalog_Classes(t *testing.T) {
	t.Parallel()
	c := mode.DefaultCatalog()
	require.Len(t, c.Names(), 17)

	assert.Equal(t, []string{"DA", "SR2", "SR2+", "SR3+"}, c.OfClass(mode.Drive))
	assert.Equal(t, []string{"DAT_B", "DAT_CR", "DAT_LB", "DAT_RT"}, c.OfClass(mode.DriveTransit))
	assert.Len(t, c.OfClass(mode.WalkTransit), 5)
	assert.Equal(t, []string{"Bike", "Walk"}, c.OfClass(mode.Active))
	assert.Equal(t, []string{"SM_RA", "SM_SH"}, c.OfClass(mode.OnDemand))

	for _, name := range c.OfClass(mode.WalkTransit) {
		m, err := c.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, mode.SkimWAT, m.Skim, name)
	}
	dat, err := c.Lookup(mode.DATCR)
	require.NoError(t, err)
	assert.Equal(t, "DAT_CR", dat.Skim)

	sh, err := c.Lookup(mode.SMSH)
	require.NoError(t, err)
	assert.True(t, sh.Shared)
	assert.Equal(t, mode.SkimDrive, sh.Skim)
}

func TestCatalog_Errors(t *testing.T) {
	t.Parallel()
	_, err := mode.DefaultCatalog().Lookup("Teleport")
	require.ErrorIs(t, err, mode.ErrUnknownMode)

	_, err = mode.NewCatalog(mode.Mode{Name: "A", Class: mode.Drive}, mode.Mode{Name: "A", Class: mode.Active})
	require.ErrorIs(t, err, mode.ErrDuplicateMode)

	_, err = mode.NewCatalog(mode.Mode{Name: "A"})
	require.ErrorIs(t, err, mode.ErrUnknownMode)
}

func TestClass_Category(t *testing.T) {
	t.Parallel()
	cases := map[mode.Class]string{
		mode.Drive:        mode.CategoryDrive,
		mode.DriveTransit: mode.CategoryTransit,
		mode.WalkTransit:  mode.CategoryTransit,
		mode.Active:       mode.CategoryNonMotorized,
		mode.OnDemand:     mode.CategorySmartMobility,
	}
	for cl, want := range cases {
		assert.Equal(t, want, cl.Category(), cl.String())
	}
}

func TestSegment_Naming(t *testing.T) {
	t.Parallel()
	segs := mode.Segments(mode.HBW)
	require.Len(t, segs, 4)
	for i, s := range segs {
		assert.Equal(t, mode.SegmentKeys[i], s.Key())
	}
	assert.Equal(t, "HBW_PK_0Auto", segs[0].TripTable())
	assert.Equal(t, "HBW_PK_wAuto", segs[1].TripTable())
	assert.Equal(t, "HBW_OP_wAuto", segs[3].TripTable())
	assert.Equal(t, "ASC_0_OP", segs[2].ASCColumn())
	assert.Equal(t, "HBW/1_OP", segs[3].String())
}

func TestParseSegment(t *testing.T) {
	t.Parallel()
	s, err := mode.ParseSegment(mode.NHB, "1_OP")
	require.NoError(t, err)
	assert.Equal(t, mode.Segment{Purpose: mode.NHB, Period: mode.OffPeak, Autos: 1}, s)

	for _, bad := range []string{"", "1PK", "2_PK", "0_AM"} {
		_, err := mode.ParseSegment(mode.NHB, bad)
		require.ErrorIs(t, err, mode.ErrBadSegment, bad)
	}
}
