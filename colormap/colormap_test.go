package colormap_test

import (
	"testing"

	"github.com/mdouchement/pxlpeep/colormap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shared = colormap.New()

func TestPaletteMetadata(t *testing.T) {
	assert.Equal(t, 256, colormap.Grey.Size())
	assert.Equal(t, 1<<24, colormap.Colormap1.Size())
	assert.Equal(t, "Inv. grey w/ saturation", colormap.GreyInvertedSaturationWarning.String())
	assert.Equal(t, "Palette(9)", colormap.Palette(9).String())
	assert.Len(t, colormap.Palettes(), int(colormap.NumPalettes))

	p, err := colormap.ParsePalette("colormap 1")
	require.NoError(t, err)
	assert.Equal(t, colormap.Colormap1, p)

	p, err = colormap.ParsePalette("inv-grey")
	require.NoError(t, err)
	assert.Equal(t, colormap.GreyInverted, p)

	_, err = colormap.ParsePalette("rainbow")
	assert.ErrorIs(t, err, colormap.ErrInvalidPalette)
}

func TestSetColormap(t *testing.T) {
	cm := shared.Clone()
	assert.Equal(t, colormap.Grey, cm.Colormap())
	assert.Equal(t, 255, cm.MaxValue())

	require.NoError(t, cm.SetColormap(colormap.ColorExpansion))
	assert.Equal(t, "Color expansion", cm.Name())
	assert.Equal(t, 1<<24-1, cm.MaxValue())

	assert.ErrorIs(t, cm.SetColormap(colormap.NumPalettes), colormap.ErrInvalidPalette)
	assert.ErrorIs(t, cm.SetColormap(-1), colormap.ErrInvalidPalette)
	assert.Equal(t, colormap.ColorExpansion, cm.Colormap())

	// Clones do not share the active palette.
	assert.Equal(t, colormap.Grey, shared.Colormap())
}

func TestGreyPalettes(t *testing.T) {
	for i := range 256 {
		g := byte(i)
		assert.Equal(t, [4]byte{g, g, g, 255}, shared.Entry(colormap.Grey, i))
		assert.Equal(t, [4]byte{255 - g, 255 - g, 255 - g, 255}, shared.Entry(colormap.GreyInverted, i))
	}
}

func TestSaturationWarning(t *testing.T) {
	cases := []struct {
		index    int
		expected [4]byte
	}{
		{0, [4]byte{0, 0, 255, 255}},
		{1, [4]byte{128, 128, 255, 255}},
		{12, [4]byte{128, 128, 255, 255}},
		{13, [4]byte{13, 13, 13, 255}},
		{242, [4]byte{242, 242, 242, 255}},
		{243, [4]byte{255, 128, 128, 255}},
		{254, [4]byte{255, 128, 128, 255}},
		{255, [4]byte{255, 0, 0, 255}},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, shared.Entry(colormap.GreySaturationWarning, c.index), "index %d", c.index)
	}

	assert.Equal(t, [4]byte{255, 0, 0, 255}, shared.Entry(colormap.GreyInvertedSaturationWarning, 0))
	assert.Equal(t, [4]byte{0, 0, 255, 255}, shared.Entry(colormap.GreyInvertedSaturationWarning, 255))
	assert.Equal(t, [4]byte{155, 155, 155, 255}, shared.Entry(colormap.GreyInvertedSaturationWarning, 100))
}

func TestColorExpansion(t *testing.T) {
	assert.Equal(t, [4]byte{0x12, 0x34, 0x56, 255}, shared.Entry(colormap.ColorExpansion, 0x123456))
	assert.Equal(t, [4]byte{255, 255, 255, 255}, shared.Entry(colormap.ColorExpansion, 1<<24-1))
}

func TestColormap1(t *testing.T) {
	size := colormap.Colormap1.Size()
	assert.Equal(t, [4]byte{0, 0, 0, 255}, shared.Entry(colormap.Colormap1, 0))
	assert.Equal(t, [4]byte{255, 255, 255, 255}, shared.Entry(colormap.Colormap1, size-1))

	step := (size - 1) / 7
	assert.Equal(t, [4]byte{128, 0, 128, 255}, shared.Entry(colormap.Colormap1, step))
	assert.Equal(t, [4]byte{0, 0, 255, 255}, shared.Entry(colormap.Colormap1, 2*step))
	assert.Equal(t, [4]byte{255, 255, 0, 255}, shared.Entry(colormap.Colormap1, 6*step))

	// 63.99997 is truncated, not rounded.
	half := shared.Entry(colormap.Colormap1, step/2)
	assert.Equal(t, [4]byte{63, 0, 63, 255}, half)
}

func TestTranslateClamps(t *testing.T) {
	cm := shared.Clone()
	dst := make([]byte, 4)

	cm.Translate(dst, -12.5)
	assert.Equal(t, []byte{0, 0, 0, 255}, dst)

	cm.Translate(dst, 1e9)
	assert.Equal(t, []byte{255, 255, 255, 255}, dst)

	cm.Translate(dst, 100.99)
	assert.Equal(t, []byte{100, 100, 100, 255}, dst)

	require.NoError(t, cm.SetColormap(colormap.GreySaturationWarning))
	cm.Translate(dst, 300)
	assert.Equal(t, []byte{255, 0, 0, 255}, dst)
}

func TestTranslateMulti(t *testing.T) {
	cm := shared.Clone()
	dst := make([]byte, 4)

	cm.TranslateMulti(dst, 10, 200, 300)
	assert.Equal(t, []byte{10, 200, 255, 255}, dst)

	require.NoError(t, cm.SetColormap(colormap.GreyInverted))
	cm.TranslateMulti(dst, 0, -1, 255)
	assert.Equal(t, []byte{255, 255, 0, 255}, dst)
}
