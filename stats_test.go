package pxlpeep_test

import (
	"image"
	"math"
	"testing"

	"github.com/mdouchement/pxlpeep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	m := newColorImage(t, 4, 4, func(x, y int) [3]uint16 {
		return [3]uint16{uint16(x), uint16(10 * y), 500}
	})

	stats, err := m.Stats(image.Rect(0, 0, 2, 2))
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, 4, stats[0].Count)
	assert.InDelta(t, 0.5, stats[0].Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(1.0/3), stats[0].StdDev, 1e-12)
	assert.Equal(t, 0.0, stats[0].Min)
	assert.Equal(t, 1.0, stats[0].Max)

	assert.InDelta(t, 5, stats[1].Mean, 1e-12)
	assert.Equal(t, 10.0, stats[1].Max)

	assert.InDelta(t, 500, stats[2].Mean, 1e-12)
	assert.Zero(t, stats[2].StdDev)
}

func TestStatsClipsRegion(t *testing.T) {
	m := newGreyImage(t, 3, 3, func(x, y int) uint16 { return uint16(x + 3*y) })

	stats, err := m.Stats(image.Rect(5, 5, 1, 1))
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 4, stats[0].Count)
	assert.Equal(t, 4.0, stats[0].Min)
	assert.Equal(t, 8.0, stats[0].Max)

	single, err := m.Stats(image.Rect(2, 2, 3, 3))
	require.NoError(t, err)
	assert.Equal(t, 8.0, single[0].Mean)
	assert.Zero(t, single[0].StdDev)

	_, err = m.Stats(image.Rect(10, 10, 12, 12))
	assert.ErrorIs(t, err, pxlpeep.ErrDegenerateRegion)

	_, err = pxlpeep.NewImageData().Stats(image.Rect(0, 0, 1, 1))
	assert.ErrorIs(t, err, pxlpeep.ErrNoImage)
}

func TestDiagonal(t *testing.T) {
	dx, dy, length := pxlpeep.Diagonal(image.Rect(4, 5, 1, 1))
	assert.Equal(t, 3, dx)
	assert.Equal(t, 4, dy)
	assert.Equal(t, 5.0, length)
}
