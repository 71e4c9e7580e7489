package display

import "math"

// A Window applies a windowing function to sample values of an image whose
// samples span [Min, Max].
type Window struct {
	Function Function
	Min      float64
	Max      float64
	Dip      float64

	// parabola coefficients for the brighten/darken curves
	a, b, c float64
	curve   bool
}

// NewWindow prepares fn for an image spanning [mn, mx] with dip factor d.
func NewWindow(fn Function, mn, mx, d float64) Window {
	w := Window{Function: fn, Min: mn, Max: mx, Dip: d}

	if mn == mx {
		return w
	}
	mid := (mn + mx) / 2
	switch fn {
	case BrightenDark:
		w.a, w.b, w.c = parabola(mn, mn, mid, mid*d, mx, mx)
		w.curve = true
	case DarkenLight:
		if d == 0 {
			return w
		}
		w.a, w.b, w.c = parabola(mn, mn, mid, mid/d, mx, mx)
		w.curve = true
	}
	return w
}

// Apply returns the windowed value of v.
func (w Window) Apply(v float64) float64 {
	switch w.Function {
	case Log10:
		return log10(v)
	case Log10BrightenDark:
		return log10(v * w.Dip * w.Dip)
	case Log10DarkenLight:
		if w.Dip <= 0 {
			return 0
		}
		return log10(v / (w.Dip * w.Dip))
	case BrightenDark, DarkenLight:
		if !w.curve {
			return v
		}
		y := (w.a*v+w.b)*v + w.c
		return min(max(y, w.Min), w.Max)
	default:
		return v
	}
}

func log10(v float64) float64 {
	if v > 0 {
		return math.Log10(v)
	}
	return 0
}

// parabola returns the coefficients of y = ax² + bx + c through three points.
func parabola(x0, y0, x1, y1, x2, y2 float64) (a, b, c float64) {
	denom := (x0 - x1) * (x0 - x2) * (x1 - x2)
	a = (x2*(y1-y0) + x1*(y0-y2) + x0*(y2-y1)) / denom
	b = (x2*x2*(y0-y1) + x1*x1*(y2-y0) + x0*x0*(y1-y2)) / denom
	c = (x1*x2*(x1-x2)*y0 + x2*x0*(x2-x0)*y1 + x0*x1*(x0-x1)*y2) / denom
	return
}
