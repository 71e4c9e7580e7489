package main

import (
	"image"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mdouchement/pxlpeep"
	"github.com/mdouchement/pxlpeep/colormap"
	"github.com/mdouchement/pxlpeep/display"
	"github.com/mdouchement/pxlpeep/slot"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
)

type displayFlags struct {
	scaling  string
	function string
	palette  string
	rotation string
	channels string
	flipH    bool
	flipV    bool
	userMin  float64
	userMax  float64
	dip      float64
}

func (f *displayFlags) register(fs *pflag.FlagSet) {
	d := display.DefaultConfig()
	fs.StringVarP(&f.scaling, "scaling", "s", d.Scaling.String(), "Scaling mode (fit, centered, user)")
	fs.StringVarP(&f.function, "function", "f", d.Function.String(), "Windowing function (1:1, log10, log10-brighten, log10-darken, brighten, darken)")
	fs.StringVarP(&f.palette, "palette", "p", d.Palette.Alias(), "Palette ("+strings.Join(lo.Map(colormap.Palettes(), func(p colormap.Palette, _ int) string {
		return p.Alias()
	}), ", ")+")")
	fs.StringVarP(&f.rotation, "rotate", "r", "0", "Counter-clockwise rotation in degrees")
	fs.StringVar(&f.channels, "channels", d.Channels.String(), "Displayed channels of color images")
	fs.BoolVar(&f.flipH, "flip-h", false, "Flip horizontally")
	fs.BoolVar(&f.flipV, "flip-v", false, "Flip vertically")
	fs.Float64Var(&f.userMin, "min", d.UserMin, "Lower bound of the user scaling")
	fs.Float64Var(&f.userMax, "max", d.UserMax, "Upper bound of the user scaling")
	fs.Float64Var(&f.dip, "dip", d.DipFactor, "Strength of the brighten/darken curves")
}

func (f *displayFlags) config() (display.Config, error) {
	cfg := display.DefaultConfig()

	var err error
	if cfg.Scaling, err = display.ParseScaling(f.scaling); err != nil {
		return cfg, err
	}
	if cfg.Function, err = display.ParseFunction(f.function); err != nil {
		return cfg, err
	}
	if cfg.Palette, err = colormap.ParsePalette(f.palette); err != nil {
		return cfg, err
	}
	if cfg.Rotation, err = display.ParseRotation(f.rotation); err != nil {
		return cfg, err
	}
	if cfg.Channels, err = display.ParseChannels(f.channels); err != nil {
		return cfg, err
	}
	if err = cfg.SetDipFactor(f.dip); err != nil {
		return cfg, err
	}
	cfg.FlipH, cfg.FlipV = f.flipH, f.flipV
	cfg.UserMin, cfg.UserMax = f.userMin, f.userMax
	return cfg, cfg.Validate()
}

type loadFlags struct {
	rawReversed bool
	bottomUp    bool
	memLimit    int64
}

func (f *loadFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.rawReversed, "raw-reversed", false, "Read raw sensor dumps in reverse sample order")
	fs.BoolVar(&f.bottomUp, "bottom-up", false, "Store decoded images bottom row first")
	fs.Int64Var(&f.memLimit, "mem-limit", 0, "Image memory budget in bytes (0 for unlimited)")
}

func (f *loadFlags) allocator() *pxlpeep.HeapAllocator {
	return pxlpeep.NewHeapAllocator(f.memLimit)
}

func (f *loadFlags) options(alloc pxlpeep.Allocator) func(*slot.Options) {
	return slot.WithLoadOptions(
		pxlpeep.WithAllocator(alloc),
		pxlpeep.WithRawReversed(f.rawReversed),
		pxlpeep.WithBottomUp(f.bottomUp),
		pxlpeep.WithLogger(slog.Default()),
	)
}

func newSlot(cm *colormap.Colormapper, cfg display.Config, load func(*slot.Options)) *slot.Slot {
	tr := display.NewTranslator(cm.Clone(), display.WithLogger(slog.Default()))
	return slot.New(tr, slot.WithConfig(cfg), slot.WithLogger(slog.Default()), load)
}

// parseInts parses n comma separated integers.
func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.Errorf("expected %d comma separated integers, got %q", n, s)
	}
	v := make([]int, n)
	for i, p := range parts {
		var err error
		if v[i], err = strconv.Atoi(strings.TrimSpace(p)); err != nil {
			return nil, errors.Wrapf(err, "invalid integer %q", p)
		}
	}
	return v, nil
}

// parseRect parses "x0,y0,x1,y1".
func parseRect(s string) (image.Rectangle, error) {
	v, err := parseInts(s, 4)
	if err != nil {
		return image.Rectangle{}, err
	}
	return image.Rect(v[0], v[1], v[2], v[3]), nil
}

// parsePoint parses "x,y".
func parsePoint(s string) (image.Point, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(v[0], v[1]), nil
}
