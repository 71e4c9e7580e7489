// Package colormap maps display values to RGBA pixels through lookup tables.
//
// The tables are built once by New and shared, read-only, by every
// Colormapper cloned from it. Each Colormapper has its own active palette.
package colormap

import (
	"github.com/mdouchement/pxlpeep/internal/workerpool"
	"golang.org/x/sync/errgroup"
)

// chunk is the number of entries built per work item.
const chunk = 1 << 16

type tables [NumPalettes][]byte

// Colormapper translates values through the active palette.
type Colormapper struct {
	tables   *tables
	colormap Palette
}

// New builds all palettes and returns a Colormapper set to Grey.
func New() *Colormapper {
	t := &tables{}

	var g errgroup.Group
	for _, p := range Palettes() {
		g.Go(func() error {
			t[p] = build(p)
			return nil
		})
	}
	_ = g.Wait()

	return &Colormapper{tables: t, colormap: Grey}
}

func build(p Palette) []byte {
	size := p.Size()
	table := make([]byte, 4*size)
	chunks := (size + chunk - 1) / chunk
	workerpool.ParallelFor(chunks, func(start, end int) {
		for i := start * chunk; i < min(end*chunk, size); i++ {
			fill(p, table[4*i:4*i+4], i)
		}
	})
	return table
}

// Clone returns a Colormapper sharing the tables with its own active palette.
func (c *Colormapper) Clone() *Colormapper {
	return &Colormapper{tables: c.tables, colormap: c.colormap}
}

// SetColormap selects the active palette.
func (c *Colormapper) SetColormap(p Palette) error {
	if !p.Valid() {
		return ErrInvalidPalette
	}
	c.colormap = p
	return nil
}

// Colormap returns the active palette.
func (c *Colormapper) Colormap() Palette {
	return c.colormap
}

// Name returns the display name of the active palette.
func (c *Colormapper) Name() string {
	return c.colormap.String()
}

// MaxValue returns the largest index of the active palette.
func (c *Colormapper) MaxValue() int {
	return c.colormap.Size() - 1
}

// Entry returns entry i of palette p as RGBA.
func (c *Colormapper) Entry(p Palette, i int) [4]byte {
	var e [4]byte
	copy(e[:], c.tables[p][4*i:4*i+4])
	return e
}

// Translate writes the RGBA entry for v into dst[0:4].
// v is truncated toward zero and clamped to the palette range.
func (c *Colormapper) Translate(dst []byte, v float64) {
	i := c.index(v)
	copy(dst[:4], c.tables[c.colormap][4*i:4*i+4])
}

// TranslateMulti builds an RGBA pixel from three values: each channel takes
// its own component from the entry of its value.
func (c *Colormapper) TranslateMulti(dst []byte, v0, v1, v2 float64) {
	table := c.tables[c.colormap]
	dst[0] = table[4*c.index(v0)]
	dst[1] = table[4*c.index(v1)+1]
	dst[2] = table[4*c.index(v2)+2]
	dst[3] = 0xFF
}

func (c *Colormapper) index(v float64) int {
	last := c.colormap.Size() - 1
	switch {
	case !(v > 0): // negative or NaN
		return 0
	case v >= float64(last):
		return last
	default:
		return int(v)
	}
}
