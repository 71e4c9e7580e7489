package pxlpeep

import (
	"image"

	"github.com/mdouchement/pxlpeep/internal/workerpool"
)

// WhiteBalance equalizes the region averages and applies the correction
// to the whole image. The gains accumulate until ResetWhiteBalance.
//
// Color images get one gain per channel. Grey images are treated as a
// 2x2 Bayer mosaic: pixels are classified by the parity of their absolute
// coordinates and each class gets its own gain.
func (m *ImageData) WhiteBalance(roi image.Rectangle) error {
	if m.Empty() {
		return ErrNoImage
	}
	roi = roi.Canon().Intersect(m.Bounds())

	var err error
	if m.channels == 1 {
		err = m.whiteBalanceGrey(roi)
	} else {
		err = m.whiteBalanceColor(roi)
	}
	if err != nil {
		return err
	}

	m.rescan()
	return m.signal()
}

func (m *ImageData) whiteBalanceColor(roi image.Rectangle) error {
	if roi.Dx() < 1 || roi.Dy() < 1 {
		return ErrDegenerateRegion
	}

	var sum [3]float64
	for y := roi.Min.Y; y < roi.Max.Y; y++ {
		for x := roi.Min.X; x < roi.Max.X; x++ {
			for c := range 3 {
				sum[c] += float64(m.Pixel(x, y, c))
			}
		}
	}
	n := float64(roi.Dx() * roi.Dy())

	var avg, gains [3]float64
	goal := 0.0
	for c := range 3 {
		avg[c] = sum[c] / n
		if avg[c] == 0 {
			return ErrZeroTarget
		}
		goal += avg[c] / 3
	}
	for c := range 3 {
		gains[c] = goal / avg[c]
		m.colorGains[c] *= gains[c]
	}

	m.scale(func(_, _, c int) float64 { return gains[c] })
	m.opts.Logger.Debug("color white balance", "roi", roi, "gains", gains, "accumulated", m.colorGains)
	return nil
}

func (m *ImageData) whiteBalanceGrey(roi image.Rectangle) error {
	if roi.Dx() < 2 || roi.Dy() < 2 {
		return ErrDegenerateRegion
	}

	var sum, count [2][2]float64
	for y := roi.Min.Y; y < roi.Max.Y; y++ {
		for x := roi.Min.X; x < roi.Max.X; x++ {
			sum[x%2][y%2] += float64(m.Pixel(x, y, 0))
			count[x%2][y%2]++
		}
	}

	var avg, gains [2][2]float64
	goal := 0.0
	for i := range 2 {
		for j := range 2 {
			avg[i][j] = sum[i][j] / count[i][j]
			if avg[i][j] == 0 {
				return ErrZeroTarget
			}
			goal += avg[i][j] / 4
		}
	}
	for i := range 2 {
		for j := range 2 {
			gains[i][j] = goal / avg[i][j]
			m.greyGains[i][j] *= gains[i][j]
		}
	}

	m.scale(func(x, y, _ int) float64 { return gains[x%2][y%2] })
	m.opts.Logger.Debug("bayer white balance", "roi", roi, "gains", gains, "accumulated", m.greyGains)
	return nil
}

// ResetWhiteBalance divides out the accumulated gains.
//
// Every apply rounds samples to 16 bits, so after one apply a reset
// restores a sample exactly where its gain is above 1 and to within
// 1/(2·gain) + 1/2 where it is below. Samples clamped at 65535 are lost.
func (m *ImageData) ResetWhiteBalance() error {
	if m.Empty() {
		return ErrNoImage
	}

	if m.channels == 1 {
		g := m.greyGains
		m.scale(func(x, y, _ int) float64 { return 1 / g[x%2][y%2] })
	} else {
		g := m.colorGains
		m.scale(func(_, _, c int) float64 { return 1 / g[c] })
	}
	m.resetGains()

	m.rescan()
	return m.signal()
}

// Gains returns the accumulated per-channel gains of a color image.
func (m *ImageData) Gains() [3]float64 {
	return m.colorGains
}

// BayerGains returns the accumulated gains of a grey image indexed by
// [x%2][y%2].
func (m *ImageData) BayerGains() [2][2]float64 {
	return m.greyGains
}

// scale multiplies every sample by gain(x, y, c), rounding and clamping to 16 bits.
func (m *ImageData) scale(gain func(x, y, c int) float64) {
	workerpool.ParallelFor(m.height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < m.width; x++ {
				for c := 0; c < m.channels; c++ {
					i := (y*m.width+x)*m.channels + c
					m.data[i] = clampUint16(float64(m.data[i]) * gain(x, y, c))
				}
			}
		}
	})
}
