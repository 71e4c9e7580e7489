package pxlpeep_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/mdouchement/pxlpeep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPSDGrayRaw(t *testing.T) {
	planes := [][]byte{{0, 10, 20, 30, 40, 50}}
	path := writePSD(t, psdFixture{width: 3, height: 2, depth: 8, mode: 1, planes: planes})

	m, _, err := pxlpeep.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Channels())
	assert.Equal(t, 8, m.BPP())
	assert.Equal(t, []uint16{0, 10, 20, 30, 40, 50}, m.Samples())
}

func TestPSDRGBRLE(t *testing.T) {
	planes := [][]byte{
		{1, 1, 1, 1, 2, 3, 4, 5},
		{9, 9, 9, 9, 9, 9, 9, 9},
		{7, 6, 5, 4, 3, 2, 1, 0},
	}
	// An alpha plane is present in the file and ignored.
	alpha := []byte{255, 255, 255, 255, 255, 255, 255, 255}
	path := writePSD(t, psdFixture{width: 4, height: 2, depth: 8, mode: 3, compression: 1, planes: append(planes, alpha)})

	m, _, err := pxlpeep.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Channels())
	assert.Equal(t, 4, m.Width())
	assert.Equal(t, []uint16{1, 9, 7}, []uint16{m.Pixel(0, 0, 0), m.Pixel(0, 0, 1), m.Pixel(0, 0, 2)})
	assert.Equal(t, []uint16{5, 9, 0}, []uint16{m.Pixel(3, 1, 0), m.Pixel(3, 1, 1), m.Pixel(3, 1, 2)})
}

func TestPSDGray16ZIPPrediction(t *testing.T) {
	values := []uint16{100, 300, 65000, 2, 4000, 4001}
	plane := make([]byte, 2*len(values))
	for i, v := range values {
		binary.BigEndian.PutUint16(plane[2*i:], v)
	}
	path := writePSD(t, psdFixture{width: 3, height: 2, depth: 16, mode: 1, compression: 3, planes: [][]byte{plane}})

	m, _, err := pxlpeep.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, m.BPP())
	assert.Equal(t, values, m.Samples())
	assert.Equal(t, uint16(65000), m.Max())
}

func TestPSDIndexed(t *testing.T) {
	table := make([]byte, 768)
	for i := range 256 {
		table[i], table[256+i], table[512+i] = byte(i), byte(i), byte(i)
	}
	path := writePSD(t, psdFixture{width: 2, height: 1, depth: 8, mode: 2, colorData: table, planes: [][]byte{{3, 200}}})

	m, _, err := pxlpeep.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []uint16{3, 200}, m.Samples())
}

func TestPSDErrors(t *testing.T) {
	t.Run("CMYK", func(t *testing.T) {
		path := writePSD(t, psdFixture{width: 1, height: 1, depth: 8, mode: 4, planes: [][]byte{{0}, {0}, {0}, {0}}})
		_, _, err := pxlpeep.Load(path)
		var uerr pxlpeep.UnsupportedError
		require.ErrorAs(t, err, &uerr)
		assert.Contains(t, err.Error(), "CMYK")
	})

	t.Run("truncated", func(t *testing.T) {
		path := writePSD(t, psdFixture{width: 3, height: 2, depth: 8, mode: 1, planes: [][]byte{{0, 10, 20, 30, 40, 50}}})
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data[:len(data)-3], 0o644))

		_, _, err = pxlpeep.Load(path)
		assert.Error(t, err)
	})

	t.Run("signature", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.psd")
		require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{'x'}, 64), 0o644))
		_, _, err := pxlpeep.Load(path)
		var ferr pxlpeep.FormatError
		assert.ErrorAs(t, err, &ferr)
	})
}

///////////////////////////
//                       //
// PSD builder           //
//                       //
///////////////////////////

type psdFixture struct {
	width, height int
	depth         int
	mode          int
	compression   int
	colorData     []byte
	planes        [][]byte // planar channel data, uncompressed
}

func writePSD(t *testing.T, f psdFixture) string {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("8BPS")
	be := func(v any) { require.NoError(t, binary.Write(&buf, binary.BigEndian, v)) }
	be(uint16(1))
	buf.Write(make([]byte, 6))
	be(uint16(len(f.planes)))
	be(uint32(f.height))
	be(uint32(f.width))
	be(uint16(f.depth))
	be(uint16(f.mode))

	be(uint32(len(f.colorData)))
	buf.Write(f.colorData)
	be(uint32(0)) // image resources
	be(uint32(0)) // layer and mask information

	be(uint16(f.compression))
	rowLen := f.width * f.depth / 8
	switch f.compression {
	case 0:
		for _, p := range f.planes {
			buf.Write(p)
		}
	case 1:
		var rows [][]byte
		for _, p := range f.planes {
			for y := range f.height {
				rows = append(rows, packBits(p[y*rowLen:(y+1)*rowLen]))
			}
		}
		for _, r := range rows {
			be(uint16(len(r)))
		}
		for _, r := range rows {
			buf.Write(r)
		}
	case 2, 3:
		var raw []byte
		for _, p := range f.planes {
			raw = append(raw, p...)
		}
		if f.compression == 3 {
			raw = predict(raw, f.width, f.depth)
		}
		zw := zlib.NewWriter(&buf)
		_, err := zw.Write(raw)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
	}

	path := filepath.Join(t.TempDir(), "fixture.psd")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// packBits encodes runs of identical bytes as repeats and the rest as literals.
func packBits(src []byte) []byte {
	var dst []byte
	for i := 0; i < len(src); {
		j := i
		for j < len(src) && j-i < 128 && src[j] == src[i] {
			j++
		}
		if n := j - i; n >= 2 {
			dst = append(dst, byte(int8(1-n)), src[i])
			i = j
			continue
		}
		dst = append(dst, 0, src[i])
		i++
	}
	return dst
}

// predict applies the horizontal delta predictor on big-endian rows.
func predict(p []byte, width, depth int) []byte {
	out := append([]byte(nil), p...)
	if depth == 8 {
		for row := 0; row < len(p); row += width {
			for x := width - 1; x > 0; x-- {
				out[row+x] = p[row+x] - p[row+x-1]
			}
		}
		return out
	}
	stride := 2 * width
	for row := 0; row < len(p); row += stride {
		for x := stride - 2; x > 0; x -= 2 {
			cur := binary.BigEndian.Uint16(p[row+x:])
			prev := binary.BigEndian.Uint16(p[row+x-2:])
			binary.BigEndian.PutUint16(out[row+x:], cur-prev)
		}
	}
	return out
}
