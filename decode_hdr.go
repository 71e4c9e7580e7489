package pxlpeep

import (
	"image"
	"io"
	"math"

	"github.com/mdouchement/hdr"
	_ "github.com/mdouchement/hdr/codec/hli"  // HLI
	_ "github.com/mdouchement/hdr/codec/rgbe" // Radiance
	"github.com/pkg/errors"
)

// decodeHDR decodes a Radiance or HLI image and normalizes its radiance
// to the 16-bit range against the brightest component.
func decodeHDR(r io.Reader) (image.Image, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	hm, ok := m.(hdr.Image)
	if !ok {
		return nil, errors.New("not an HDR image")
	}
	return normalizeHDR(hm), nil
}

func normalizeHDR(m hdr.Image) *image.RGBA64 {
	b := m.Bounds()
	peak := 0.0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := m.HDRAt(x, y).HDRRGBA()
			peak = math.Max(peak, math.Max(r, math.Max(g, bl)))
		}
	}

	dst := image.NewRGBA64(image.Rect(0, 0, b.Dx(), b.Dy()))
	scale := 0.0
	if peak > 0 && !math.IsInf(peak, 1) {
		scale = 65535 / peak
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := m.HDRAt(x, y).HDRRGBA()
			i := dst.PixOffset(x-b.Min.X, y-b.Min.Y)
			for c, v := range [3]float64{r, g, bl} {
				s := clampUint16(v * scale)
				dst.Pix[i+2*c] = byte(s >> 8)
				dst.Pix[i+2*c+1] = byte(s)
			}
			dst.Pix[i+6], dst.Pix[i+7] = 0xFF, 0xFF
		}
	}
	return dst
}
