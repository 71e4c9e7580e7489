package colormap

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Palette identifies a lookup table.
type Palette int

// Palettes, in menu order.
const (
	Grey Palette = iota
	GreyInverted
	GreySaturationWarning
	GreyInvertedSaturationWarning
	ColorExpansion
	Colormap1
	NumPalettes
)

// ErrInvalidPalette is returned for palette values outside [Grey, Colormap1].
var ErrInvalidPalette = errors.New("colormap: invalid palette")

var sizes = [NumPalettes]int{256, 256, 256, 256, 1 << 24, 1 << 24}

var names = [NumPalettes]string{
	"Grey",
	"Inv. grey",
	"Grey w/ saturation",
	"Inv. grey w/ saturation",
	"Color expansion",
	"Colormap 1",
}

// aliases are the command line spellings.
var aliases = [NumPalettes]string{
	"grey",
	"inv-grey",
	"grey-sat",
	"inv-grey-sat",
	"expansion",
	"colormap1",
}

// colormap1Stops: black, purple, blue, green, magenta, red, yellow, white.
var colormap1Stops = []colorful.Color{
	rgb255(0, 0, 0),
	rgb255(128, 0, 128),
	rgb255(0, 0, 255),
	rgb255(0, 128, 0),
	rgb255(255, 0, 255),
	rgb255(255, 0, 0),
	rgb255(255, 255, 0),
	rgb255(255, 255, 255),
}

// Saturation warning colors and threshold (5% of the 8-bit range).
var (
	warnLow       = [3]byte{0, 0, 255}
	warnNearLow   = [3]byte{128, 128, 255}
	warnHigh      = [3]byte{255, 0, 0}
	warnNearHigh  = [3]byte{255, 128, 128}
	warnThreshold = 0.05 * 255
)

func rgb255(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Valid reports whether p names a palette.
func (p Palette) Valid() bool {
	return p >= Grey && p < NumPalettes
}

// Size returns the number of entries of the palette.
func (p Palette) Size() int {
	if !p.Valid() {
		return 0
	}
	return sizes[p]
}

// String implements Stringer.
func (p Palette) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Palette(%d)", int(p))
	}
	return names[p]
}

// Alias returns the command line spelling of the palette.
func (p Palette) Alias() string {
	if !p.Valid() {
		return ""
	}
	return aliases[p]
}

// Palettes returns all palettes in menu order.
func Palettes() []Palette {
	ps := make([]Palette, NumPalettes)
	for i := range ps {
		ps[i] = Palette(i)
	}
	return ps
}

// ParsePalette accepts a palette name or its command line alias.
func ParsePalette(s string) (Palette, error) {
	for _, p := range Palettes() {
		if strings.EqualFold(s, p.String()) || strings.EqualFold(s, p.Alias()) {
			return p, nil
		}
	}
	return 0, errors.Wrap(ErrInvalidPalette, s)
}

// fill writes entry i of palette p as RGBA into dst.
func fill(p Palette, dst []byte, i int) {
	dst[3] = 0xFF
	switch p {
	case Grey:
		greyscale(dst, float64(i))
	case GreyInverted:
		greyscale(dst, float64(255-i))
	case GreySaturationWarning:
		saturationWarning(dst, float64(i))
	case GreyInvertedSaturationWarning:
		saturationWarning(dst, float64(255-i))
	case ColorExpansion:
		dst[0], dst[1], dst[2] = byte(i>>16), byte(i>>8), byte(i)
	case Colormap1:
		colormap1(dst, float64(i))
	}
}

func greyscale(dst []byte, v float64) {
	g := byte(min(max(v, 0), 255))
	dst[0], dst[1], dst[2] = g, g, g
}

func saturationWarning(dst []byte, v float64) {
	switch {
	case v <= 0:
		copy(dst, warnLow[:])
	case v < warnThreshold:
		copy(dst, warnNearLow[:])
	case v >= 255:
		copy(dst, warnHigh[:])
	case 255-v < warnThreshold:
		copy(dst, warnNearHigh[:])
	default:
		greyscale(dst, v)
	}
}

func colormap1(dst []byte, v float64) {
	last := len(colormap1Stops) - 1
	index := v / float64(sizes[Colormap1]-1) * float64(last)
	index = min(max(index, 0), float64(last))

	l := int(index)
	c := colormap1Stops[l]
	if l < last {
		c = c.BlendRgb(colormap1Stops[l+1], index-float64(l))
	}
	dst[0], dst[1], dst[2] = trunc255(c.R), trunc255(c.G), trunc255(c.B)
}

// trunc255 truncates a [0, 1] component to 8 bits. The epsilon keeps exact
// stop values from falling one level below.
func trunc255(v float64) byte {
	return byte(min(max(v*255+1e-9, 0), 255))
}
