package pxlpeep

import (
	"image"
	"image/color"
)

// FeedDecoded sizes the buffer for img and copies its pixels.
// Palette images are fed as the grey level of each entry, alpha is dropped.
func (m *ImageData) FeedDecoded(img image.Image) error {
	channels, bpp, ok := pixelType(img)
	if !ok {
		return UnsupportedError("pixel type")
	}

	b := img.Bounds()
	if err := m.Reallocate(b.Dx(), b.Dy(), channels, bpp); err != nil {
		return err
	}

	switch src := img.(type) {
	case *image.Gray:
		m.feedRows(b, func(x, y int, dst []uint16) {
			dst[0] = uint16(src.Pix[src.PixOffset(x, y)])
		})
	case *image.Gray16:
		m.feedRows(b, func(x, y int, dst []uint16) {
			i := src.PixOffset(x, y)
			dst[0] = uint16(src.Pix[i])<<8 | uint16(src.Pix[i+1])
		})
	case *image.Paletted:
		levels := make([]uint16, len(src.Palette))
		for i, c := range src.Palette {
			levels[i] = uint16(color.GrayModel.Convert(c).(color.Gray).Y)
		}
		m.feedRows(b, func(x, y int, dst []uint16) {
			idx := int(src.Pix[src.PixOffset(x, y)])
			if idx < len(levels) {
				dst[0] = levels[idx]
			} else {
				dst[0] = 0
			}
		})
	case *image.RGBA:
		m.feedRows(b, func(x, y int, dst []uint16) {
			i := src.PixOffset(x, y)
			dst[0], dst[1], dst[2] = uint16(src.Pix[i]), uint16(src.Pix[i+1]), uint16(src.Pix[i+2])
		})
	case *image.NRGBA:
		m.feedRows(b, func(x, y int, dst []uint16) {
			i := src.PixOffset(x, y)
			dst[0], dst[1], dst[2] = uint16(src.Pix[i]), uint16(src.Pix[i+1]), uint16(src.Pix[i+2])
		})
	case *image.RGBA64:
		m.feedRows(b, func(x, y int, dst []uint16) {
			i := src.PixOffset(x, y)
			dst[0] = uint16(src.Pix[i])<<8 | uint16(src.Pix[i+1])
			dst[1] = uint16(src.Pix[i+2])<<8 | uint16(src.Pix[i+3])
			dst[2] = uint16(src.Pix[i+4])<<8 | uint16(src.Pix[i+5])
		})
	case *image.NRGBA64:
		m.feedRows(b, func(x, y int, dst []uint16) {
			i := src.PixOffset(x, y)
			dst[0] = uint16(src.Pix[i])<<8 | uint16(src.Pix[i+1])
			dst[1] = uint16(src.Pix[i+2])<<8 | uint16(src.Pix[i+3])
			dst[2] = uint16(src.Pix[i+4])<<8 | uint16(src.Pix[i+5])
		})
	default:
		// YCbCr, CMYK and codec specific types go through the color model.
		shift := 16 - uint(bpp)
		m.feedRows(b, func(x, y int, dst []uint16) {
			r, g, bl, _ := img.At(x, y).RGBA()
			if channels == 1 {
				dst[0] = uint16(r >> shift)
				return
			}
			dst[0], dst[1], dst[2] = uint16(r>>shift), uint16(g>>shift), uint16(bl>>shift)
		})
	}

	if m.opts.BottomUp {
		m.flipVertical()
	}
	return nil
}

// pixelType maps a decoded image to the stored channel count and bit depth.
func pixelType(img image.Image) (channels, bpp int, ok bool) {
	switch img.(type) {
	case *image.Gray, *image.Paletted:
		return 1, 8, true
	case *image.Gray16:
		return 1, 16, true
	case *image.RGBA, *image.NRGBA, *image.YCbCr, *image.NYCbCrA, *image.CMYK:
		return 3, 8, true
	case *image.RGBA64, *image.NRGBA64:
		return 3, 16, true
	}

	switch img.ColorModel() {
	case color.GrayModel:
		return 1, 8, true
	case color.Gray16Model:
		return 1, 16, true
	case color.RGBAModel, color.NRGBAModel, color.YCbCrModel, color.NYCbCrAModel, color.CMYKModel:
		return 3, 8, true
	case color.RGBA64Model, color.NRGBA64Model:
		return 3, 16, true
	default:
		return 0, 0, false
	}
}

// feedRows copies every pixel of b through set and tracks min and max.
func (m *ImageData) feedRows(b image.Rectangle, set func(x, y int, dst []uint16)) {
	m.resetMinMax()
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst := m.data[i*m.channels : (i+1)*m.channels]
			set(x, y, dst)
			for _, v := range dst {
				m.checkMinMax(v, i)
			}
			i++
		}
	}
}

// FeedRaw copies sensor samples into the buffer, which must already be
// sized by Reallocate.
func (m *ImageData) FeedRaw(samples []uint16) error {
	n := m.Area() * m.channels
	if n == 0 {
		return ErrNoImage
	}
	if len(samples) < n {
		return FormatError("short raw data")
	}
	m.resetMinMax()
	for i, v := range samples[:n] {
		m.data[i] = v
		m.checkMinMax(v, i/m.channels)
	}
	return nil
}

// FeedRawReversed is FeedRaw with the sample order reversed.
func (m *ImageData) FeedRawReversed(samples []uint16) error {
	n := m.Area() * m.channels
	if n == 0 {
		return ErrNoImage
	}
	if len(samples) < n {
		return FormatError("short raw data")
	}
	m.resetMinMax()
	for i := range n {
		v := samples[n-1-i]
		m.data[i] = v
		m.checkMinMax(v, i/m.channels)
	}
	return nil
}
