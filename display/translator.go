// Package display turns an ImageData into displayable RGBA pixels.
package display

import (
	"image"
	"log/slog"

	"github.com/mdouchement/pxlpeep"
	"github.com/mdouchement/pxlpeep/colormap"
	"github.com/mdouchement/pxlpeep/internal/workerpool"
	"github.com/pkg/errors"
)

// Options configures a Translator.
type Options struct {
	// Pool runs the row loops. Defaults to the shared pool.
	Pool *workerpool.Pool
	// Logger receives debug traces.
	Logger *slog.Logger
}

// WithPool sets the worker pool.
func WithPool(p *workerpool.Pool) func(*Options) {
	return func(o *Options) {
		o.Pool = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = l
	}
}

// A Translator renders images through its own Colormapper into a reused frame.
// It is not safe for concurrent use.
type Translator struct {
	opts   Options
	cm     *colormap.Colormapper
	frame  *image.RGBA
	params Params
	window Window
}

// NewTranslator returns a Translator using cm.
func NewTranslator(cm *colormap.Colormapper, opts ...func(*Options)) *Translator {
	t := &Translator{cm: cm}
	for _, opt := range opts {
		opt(&t.opts)
	}
	if t.opts.Pool == nil {
		t.opts.Pool = workerpool.Shared()
	}
	if t.opts.Logger == nil {
		t.opts.Logger = slog.Default()
	}
	return t
}

// Colormapper returns the translator's colormapper.
func (t *Translator) Colormapper() *colormap.Colormapper {
	return t.cm
}

// Params returns the parameters of the last translation.
func (t *Translator) Params() Params {
	return t.params
}

// Frame returns the last translated frame, nil before the first translation.
func (t *Translator) Frame() *image.RGBA {
	return t.frame
}

// Translate renders src with cfg. The returned image is owned by the
// Translator and overwritten by the next call.
func (t *Translator) Translate(src *pxlpeep.ImageData, cfg Config) (*image.RGBA, error) {
	if src == nil || src.Empty() {
		return nil, pxlpeep.ErrNoImage
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := t.cm.SetColormap(cfg.Palette); err != nil {
		return nil, errors.Wrap(err, "could not select palette")
	}

	w, h := src.Width(), src.Height()
	dw, dh := DisplaySize(w, h, cfg.Rotation)
	if t.frame == nil || t.frame.Rect.Dx() != dw || t.frame.Rect.Dy() != dh {
		t.opts.Logger.Debug("new frame", "width", dw, "height", dh)
		t.frame = image.NewRGBA(image.Rect(0, 0, dw, dh))
	}

	mn, mx := float64(src.Min()), float64(src.Max())
	t.params = ComputeParams(mn, mx, cfg, t.cm.MaxValue())
	t.window = NewWindow(cfg.Function, mn, mx, cfg.DipFactor)
	levels := t.levels(int(src.Max()))

	samples := src.Samples()
	channels := src.Channels()
	pix := t.frame.Pix

	if c, ok := cfg.single(channels); ok {
		t.opts.Pool.ParallelFor(h, func(start, end int) {
			for y := start; y < end; y++ {
				for x := range w {
					v := samples[(y*w+x)*channels+c]
					dst := 4 * DestIndex(x, y, w, h, cfg.Rotation, cfg.FlipH, cfg.FlipV)
					t.cm.Translate(pix[dst:dst+4], t.level(levels, v))
				}
			}
		})
		return t.frame, nil
	}

	var active [3]bool
	for c := range active {
		active[c] = cfg.Channels&(1<<c) != 0
	}
	t.opts.Pool.ParallelFor(h, func(start, end int) {
		var v [3]float64
		for y := start; y < end; y++ {
			for x := range w {
				i := (y*w + x) * channels
				for c := range v {
					v[c] = 0
					if active[c] {
						v[c] = t.level(levels, samples[i+c])
					}
				}
				dst := 4 * DestIndex(x, y, w, h, cfg.Rotation, cfg.FlipH, cfg.FlipV)
				t.cm.TranslateMulti(pix[dst:dst+4], v[0], v[1], v[2])
			}
		}
	})
	return t.frame, nil
}

// levels tabulates the palette index of every sample value up to top.
func (t *Translator) levels(top int) []float64 {
	levels := make([]float64, top+1)
	for v := range levels {
		levels[v] = t.index(float64(v))
	}
	return levels
}

// level looks v up in levels. Samples written after the last min/max scan
// may exceed the table and are computed directly.
func (t *Translator) level(levels []float64, v uint16) float64 {
	if int(v) < len(levels) {
		return levels[v]
	}
	return t.index(float64(v))
}

func (t *Translator) index(v float64) float64 {
	return (t.window.Apply(v) - t.params.Offset) * t.params.Scale
}

// Colorbar renders a width×height gradient of the last translation range.
func (t *Translator) Colorbar(width, height int) *image.RGBA {
	bar := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return bar
	}

	p := t.params
	for x := range width {
		v := p.Min
		if width > 1 {
			v += float64(x) / float64(width-1) * (p.Max - p.Min)
		}
		px := bar.Pix[4*x : 4*x+4]
		t.cm.Translate(px, t.index(v))
		for y := 1; y < height; y++ {
			copy(bar.Pix[y*bar.Stride+4*x:], px)
		}
	}
	return bar
}
