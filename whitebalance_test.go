package pxlpeep_test

import (
	"image"
	"testing"

	"github.com/mdouchement/pxlpeep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newColorImage(t *testing.T, w, h int, pixel func(x, y int) [3]uint16) *pxlpeep.ImageData {
	t.Helper()
	m := pxlpeep.NewImageData()
	require.NoError(t, m.Reallocate(w, h, 3, 16))
	samples := make([]uint16, 0, w*h*3)
	for y := range h {
		for x := range w {
			p := pixel(x, y)
			samples = append(samples, p[0], p[1], p[2])
		}
	}
	require.NoError(t, m.FeedRaw(samples))
	return m
}

func newGreyImage(t *testing.T, w, h int, pixel func(x, y int) uint16) *pxlpeep.ImageData {
	t.Helper()
	m := pxlpeep.NewImageData()
	require.NoError(t, m.Reallocate(w, h, 1, 14))
	samples := make([]uint16, 0, w*h)
	for y := range h {
		for x := range w {
			samples = append(samples, pixel(x, y))
		}
	}
	require.NoError(t, m.FeedRaw(samples))
	return m
}

func TestWhiteBalanceColor(t *testing.T) {
	m := newColorImage(t, 8, 6, func(x, y int) [3]uint16 {
		return [3]uint16{uint16(2000 + 10*x), uint16(3000 + 5*y), uint16(1500 + x*y)}
	})
	original := append([]uint16(nil), m.Samples()...)
	p := &countingPainter{}
	m.SetPainter(p)

	roi := image.Rect(2, 1, 6, 5)
	require.NoError(t, m.WhiteBalance(roi))
	assert.Equal(t, 1, p.calls)

	// The region averages are equal after balancing.
	stats, err := m.Stats(roi)
	require.NoError(t, err)
	assert.InDelta(t, stats[0].Mean, stats[1].Mean, 1)
	assert.InDelta(t, stats[1].Mean, stats[2].Mean, 1)

	gains := m.Gains()
	assert.NotEqual(t, 1.0, gains[0])

	require.NoError(t, m.ResetWhiteBalance())
	assert.Equal(t, [3]float64{1, 1, 1}, m.Gains())
	for i, v := range m.Samples() {
		assert.InDelta(t, original[i], v, 1, "sample %d", i)
	}
	assert.Equal(t, 2, p.calls)
}

func TestWhiteBalanceAccumulates(t *testing.T) {
	m := newColorImage(t, 10, 10, func(x, y int) [3]uint16 {
		if x < 5 {
			return [3]uint16{4000, 3000, 2500}
		}
		return [3]uint16{3000, 3600, 3300}
	})
	original := append([]uint16(nil), m.Samples()...)

	require.NoError(t, m.WhiteBalance(image.Rect(0, 0, 5, 10)))
	first := m.Gains()
	assert.InDelta(t, 3166.67/4000, first[0], 1e-3)
	assert.InDelta(t, 3166.67/3000, first[1], 1e-3)
	assert.InDelta(t, 3166.67/2500, first[2], 1e-3)

	// Expected correction computed on the balanced image.
	right := image.Rect(5, 0, 10, 10)
	stats, err := m.Stats(right)
	require.NoError(t, err)
	goal := (stats[0].Mean + stats[1].Mean + stats[2].Mean) / 3

	require.NoError(t, m.WhiteBalance(right))
	second := m.Gains()
	for c := range 3 {
		assert.InDelta(t, first[c]*goal/stats[c].Mean, second[c], 1e-9)
	}

	require.NoError(t, m.ResetWhiteBalance())
	for i, v := range m.Samples() {
		assert.InDelta(t, original[i], v, 2, "sample %d", i)
	}
}

func TestWhiteBalanceBayer(t *testing.T) {
	// RGGB-like mosaic: each parity class has its own level.
	levels := [2][2]uint16{{1000, 2000}, {2000, 4000}}
	m := newGreyImage(t, 6, 6, func(x, y int) uint16 {
		return levels[x%2][y%2]
	})
	original := append([]uint16(nil), m.Samples()...)

	// An odd origin must still classify by absolute coordinates.
	require.NoError(t, m.WhiteBalance(image.Rect(1, 1, 5, 5)))

	goal := (1000.0 + 2000 + 2000 + 4000) / 4
	gains := m.BayerGains()
	for i := range 2 {
		for j := range 2 {
			assert.InDelta(t, goal/float64(levels[i][j]), gains[i][j], 1e-9)
		}
	}
	for _, v := range m.Samples() {
		assert.InDelta(t, goal, float64(v), 1)
	}
	assert.Equal(t, m.Min(), m.Max())

	require.NoError(t, m.ResetWhiteBalance())
	assert.Equal(t, [2][2]float64{{1, 1}, {1, 1}}, m.BayerGains())
	for i, v := range m.Samples() {
		assert.InDelta(t, original[i], v, 1, "sample %d", i)
	}
}

func TestWhiteBalanceErrors(t *testing.T) {
	t.Run("no image", func(t *testing.T) {
		m := pxlpeep.NewImageData()
		assert.ErrorIs(t, m.WhiteBalance(image.Rect(0, 0, 2, 2)), pxlpeep.ErrNoImage)
		assert.ErrorIs(t, m.ResetWhiteBalance(), pxlpeep.ErrNoImage)
	})

	t.Run("degenerate grey region", func(t *testing.T) {
		m := newGreyImage(t, 4, 4, func(x, y int) uint16 { return 100 })
		assert.ErrorIs(t, m.WhiteBalance(image.Rect(0, 0, 1, 4)), pxlpeep.ErrDegenerateRegion)
		assert.ErrorIs(t, m.WhiteBalance(image.Rect(10, 10, 20, 20)), pxlpeep.ErrDegenerateRegion)
	})

	t.Run("degenerate color region", func(t *testing.T) {
		m := newColorImage(t, 4, 4, func(x, y int) [3]uint16 { return [3]uint16{1, 2, 3} })
		assert.ErrorIs(t, m.WhiteBalance(image.Rect(2, 2, 2, 3)), pxlpeep.ErrDegenerateRegion)
		assert.NoError(t, m.WhiteBalance(image.Rect(2, 2, 3, 3)))
	})

	t.Run("zero average", func(t *testing.T) {
		m := newColorImage(t, 4, 4, func(x, y int) [3]uint16 { return [3]uint16{100, 0, 100} })
		assert.ErrorIs(t, m.WhiteBalance(image.Rect(0, 0, 4, 4)), pxlpeep.ErrZeroTarget)
		assert.Equal(t, [3]float64{1, 1, 1}, m.Gains())
	})
}

func TestResetWhiteBalanceQuantization(t *testing.T) {
	px := [][3]uint16{{100, 200, 300}, {40000, 10, 60000}, {10, 10, 301}}
	m := newColorImage(t, 3, 1, func(x, _ int) [3]uint16 { return px[x] })

	// Gains are 2, 1 and 2/3.
	require.NoError(t, m.WhiteBalance(image.Rect(0, 0, 1, 1)))
	assert.Equal(t, uint16(65535), m.Pixel(1, 0, 0))
	assert.Equal(t, uint16(201), m.Pixel(2, 0, 2))

	require.NoError(t, m.ResetWhiteBalance())
	assert.Equal(t, []uint16{100, 200, 300}, m.Samples()[0:3])
	assert.Equal(t, uint16(32768), m.Pixel(1, 0, 0), "clamped sample")
	assert.Equal(t, uint16(60000), m.Pixel(1, 0, 2))
	assert.Equal(t, uint16(302), m.Pixel(2, 0, 2), "rounded twice below unit gain")
}
