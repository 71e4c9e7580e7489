package display

import (
	"fmt"
	"math"
)

// Params are the translation parameters: a windowed value v is displayed
// at palette index (v - Offset) * Scale.
type Params struct {
	Offset float64
	Scale  float64
	// Min and Max bound the displayed sample range. In User mode Max is
	// the widened UserMax when UserMin == UserMax.
	Min float64
	Max float64
}

// ComputeParams derives the translation parameters for an image spanning
// [mn, mx] and a palette whose largest index is maxDisp.
func ComputeParams(mn, mx float64, cfg Config, maxDisp int) Params {
	w := NewWindow(cfg.Function, mn, mx, cfg.DipFactor)
	f := w.Apply
	disp := float64(maxDisp)

	var p Params
	switch cfg.Scaling {
	case Centered:
		r := f(mn)
		if mx > mn {
			r = f(mx)
		}
		r = math.Abs(r)

		p.Min, p.Max = -r, r
		if r == 0 {
			p.Scale = 1
			p.Offset = -disp / 2
			break
		}
		p.Scale = disp / 2 / r
		p.Offset = -disp / 2 / p.Scale
	case Fit:
		p.Min, p.Max = mn, mx
		p.Offset = f(mn)
		p.Scale = ratio(disp, f(mx)-f(mn))
		if mx == mn {
			p.Scale = 1
		}
	default:
		lo, hi := cfg.UserMin, cfg.UserMax
		if lo == hi {
			hi += 255
		}
		p.Min, p.Max = lo, hi
		p.Offset = f(lo)
		p.Scale = ratio(disp, f(hi)-f(lo))
	}
	return p
}

func ratio(n, d float64) float64 {
	if d == 0 {
		return 1
	}
	return n / d
}

// ParamsString encodes the configuration for file names, e.g. "_s2_f0_m0_r1_R-B".
// The channel suffix is only written for color images.
func ParamsString(cfg Config, channels int) string {
	s := fmt.Sprintf("_s%d_f%d_m%d_r%d", cfg.Scaling, cfg.Function, cfg.Palette, cfg.Rotation)
	if channels == 1 {
		return s
	}
	return s + "_" + cfg.Channels.String()
}
