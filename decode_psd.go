package pxlpeep

// Resources:
// https://www.adobe.com/devnet-apps/photoshop/fileformatashtml/ (Photoshop File Formats Specification)

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"
)

type psdHeader struct {
	channels int
	width    int
	height   int
	depth    int
	mode     int
}

// decodePSD decodes the merged composite image of a PSD file.
// Grayscale, indexed and RGB modes at 8 or 16 bits are supported.
func decodePSD(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)

	h, err := readPSDHeader(br)
	if err != nil {
		return nil, err
	}

	// Color mode data holds the palette of indexed images.
	colorData, err := readSection(br)
	if err != nil {
		return nil, errors.Wrap(err, "could not read color mode data")
	}
	// Image resources and layers are not used by the composite image.
	if _, err = readSection(br); err != nil {
		return nil, errors.Wrap(err, "could not read image resources")
	}
	if _, err = readSection(br); err != nil {
		return nil, errors.Wrap(err, "could not read layer and mask information")
	}

	planes := 1
	switch h.mode {
	case psdGrayscale, psdIndexed:
	case psdRGB:
		planes = 3
	default:
		return nil, UnsupportedError("PSD color mode " + psdModeName(h.mode))
	}
	if h.channels < planes {
		return nil, FormatError("not enough channels for color mode")
	}
	if h.mode == psdIndexed && (h.depth != 8 || len(colorData) != 768) {
		return nil, FormatError("invalid indexed color table")
	}

	data, err := readPlanes(br, h, planes)
	if err != nil {
		return nil, err
	}

	bounds := image.Rect(0, 0, h.width, h.height)
	plane := h.width * h.height * h.depth / 8
	switch {
	case h.mode == psdIndexed:
		palette := make(color.Palette, 256)
		for i := range palette {
			palette[i] = color.RGBA{R: colorData[i], G: colorData[256+i], B: colorData[512+i], A: 0xFF}
		}
		m := image.NewPaletted(bounds, palette)
		copy(m.Pix, data)
		return m, nil
	case h.mode == psdGrayscale && h.depth == 8:
		m := image.NewGray(bounds)
		copy(m.Pix, data)
		return m, nil
	case h.mode == psdGrayscale:
		m := image.NewGray16(bounds)
		copy(m.Pix, data)
		return m, nil
	case h.depth == 8:
		m := image.NewNRGBA(bounds)
		for i := 0; i < h.width*h.height; i++ {
			m.Pix[4*i] = data[i]
			m.Pix[4*i+1] = data[plane+i]
			m.Pix[4*i+2] = data[2*plane+i]
			m.Pix[4*i+3] = 0xFF
		}
		return m, nil
	default:
		m := image.NewNRGBA64(bounds)
		for i := 0; i < h.width*h.height; i++ {
			for c := 0; c < 3; c++ {
				m.Pix[8*i+2*c] = data[c*plane+2*i]
				m.Pix[8*i+2*c+1] = data[c*plane+2*i+1]
			}
			m.Pix[8*i+6] = 0xFF
			m.Pix[8*i+7] = 0xFF
		}
		return m, nil
	}
}

func readPSDHeader(r io.Reader) (h psdHeader, err error) {
	p := make([]byte, psdHeaderLen)
	if _, err = io.ReadFull(r, p); err != nil {
		return h, FormatError("short PSD header")
	}
	if string(p[0:4]) != psdSignature {
		return h, FormatError("not a PSD file")
	}
	if v := binary.BigEndian.Uint16(p[4:6]); v != 1 {
		return h, UnsupportedError(fmt.Sprintf("PSD version %d", v))
	}

	h.channels = int(binary.BigEndian.Uint16(p[12:14]))
	h.height = int(binary.BigEndian.Uint32(p[14:18]))
	h.width = int(binary.BigEndian.Uint32(p[18:22]))
	h.depth = int(binary.BigEndian.Uint16(p[22:24]))
	h.mode = int(binary.BigEndian.Uint16(p[24:26]))

	switch {
	case h.channels < 1 || h.channels > psdMaxChannel:
		return h, FormatError("invalid channel count")
	case h.width < 1 || h.height < 1:
		return h, FormatError("invalid dimensions")
	case h.depth != 8 && h.depth != 16:
		return h, UnsupportedError(fmt.Sprintf("PSD depth %d", h.depth))
	}
	return h, nil
}

// readSection reads a length-prefixed section.
func readSection(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	if n > 1<<30 {
		return nil, FormatError("oversized section")
	}
	p := make([]byte, n)
	_, err := io.ReadFull(r, p)
	return p, err
}

// readPlanes returns the first count planes of the planar image data.
func readPlanes(r io.Reader, h psdHeader, count int) ([]byte, error) {
	var compression uint16
	if err := binary.Read(r, binary.BigEndian, &compression); err != nil {
		return nil, FormatError("missing image data")
	}

	rowLen := h.width * h.depth / 8
	plane := rowLen * h.height
	switch compression {
	case psdRaw:
		p := make([]byte, plane*count)
		if _, err := io.ReadFull(r, p); err != nil {
			return nil, FormatError("short image data")
		}
		return p, nil
	case psdRLE:
		// Byte counts of every scanline of every channel come first.
		counts := make([]uint16, h.channels*h.height)
		if err := binary.Read(r, binary.BigEndian, counts); err != nil {
			return nil, FormatError("short RLE byte counts")
		}
		p := make([]byte, 0, plane*count)
		for i := 0; i < count*h.height; i++ {
			line := make([]byte, counts[i])
			if _, err := io.ReadFull(r, line); err != nil {
				return nil, FormatError("short RLE scanline")
			}
			row, err := unpackBits(bytes.NewReader(line), rowLen)
			if err != nil {
				return nil, err
			}
			p = append(p, row...)
		}
		return p, nil
	case psdZIP, psdZIPPredict:
		p, err := inflate(r, plane*count)
		if err != nil {
			return nil, err
		}
		if compression == psdZIPPredict {
			unpredict(p, h.width, h.depth)
		}
		return p, nil
	default:
		return nil, UnsupportedError(fmt.Sprintf("PSD compression %d", compression))
	}
}

func psdModeName(mode int) string {
	switch mode {
	case psdBitmap:
		return "Bitmap"
	case psdGrayscale:
		return "Grayscale"
	case psdIndexed:
		return "Indexed"
	case psdRGB:
		return "RGB"
	case psdCMYK:
		return "CMYK"
	case psdMultichannel:
		return "Multichannel"
	case psdDuotone:
		return "Duotone"
	case psdLab:
		return "Lab"
	default:
		return fmt.Sprintf("Unknown(%d)", mode)
	}
}
