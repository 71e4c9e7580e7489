package pxlpeep

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ChannelStats summarizes the samples of one channel over a region.
type ChannelStats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Count  int
}

// Stats returns per-channel statistics of the region, clipped to the image.
func (m *ImageData) Stats(roi image.Rectangle) ([]ChannelStats, error) {
	if m.Empty() {
		return nil, ErrNoImage
	}
	roi = roi.Canon().Intersect(m.Bounds())
	if roi.Empty() {
		return nil, ErrDegenerateRegion
	}

	n := roi.Dx() * roi.Dy()
	out := make([]ChannelStats, m.channels)
	x := make([]float64, 0, n)
	for c := 0; c < m.channels; c++ {
		x = x[:0]
		for py := roi.Min.Y; py < roi.Max.Y; py++ {
			for px := roi.Min.X; px < roi.Max.X; px++ {
				x = append(x, float64(m.Pixel(px, py, c)))
			}
		}

		s := ChannelStats{Count: n, Min: floats.Min(x), Max: floats.Max(x)}
		if n > 1 {
			s.Mean, s.StdDev = stat.MeanStdDev(x, nil)
		} else {
			s.Mean = x[0]
		}
		out[c] = s
	}
	return out, nil
}

// Diagonal returns the pixel extent and diagonal length of a region.
func Diagonal(roi image.Rectangle) (dx, dy int, length float64) {
	roi = roi.Canon()
	dx, dy = roi.Dx(), roi.Dy()
	return dx, dy, math.Hypot(float64(dx), float64(dy))
}
