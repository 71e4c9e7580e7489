package pxlpeep_test

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	"github.com/mdouchement/hdrtool"
	"github.com/mdouchement/pxlpeep"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestLoadPNG16(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 5, 4))
	src.SetGray16(4, 3, color.Gray16{Y: 60000})
	src.SetGray16(0, 0, color.Gray16{Y: 12})
	src.SetGray16(1, 0, color.Gray16{Y: 3})
	path := write(t, "gray.png", func(buf *bytes.Buffer) error { return png.Encode(buf, src) })

	m, exif, err := pxlpeep.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Channels())
	assert.Equal(t, 16, m.BPP())
	assert.Equal(t, uint16(60000), m.Max())
	assert.Equal(t, 19, m.MaxIndex())
	assert.Equal(t, uint16(0), m.Min())

	_, ok := exif.Make()
	assert.False(t, ok)
}

func TestLoadTIFF(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	src.SetRGBA(2, 1, color.RGBA{R: 250, G: 5, B: 128, A: 255})
	path := write(t, "color.TIFF", func(buf *bytes.Buffer) error { return tiff.Encode(buf, src, nil) })

	m, _, err := pxlpeep.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Channels())
	assert.Equal(t, []uint16{250, 5, 128}, []uint16{m.Pixel(2, 1, 0), m.Pixel(2, 1, 1), m.Pixel(2, 1, 2)})
}

func TestLoadBMP(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for i := range src.Pix {
		src.Pix[i] = 0xFF
	}
	src.SetRGBA(0, 2, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	path := write(t, "pic.bmp", func(buf *bytes.Buffer) error { return bmp.Encode(buf, src) })

	m, _, err := pxlpeep.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Channels())
	assert.Equal(t, uint16(1), m.Min())
	assert.Equal(t, 6, m.MinIndex())
}

func TestLoadHDR(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	src := hdr.NewRGB(image.Rect(0, 0, 16, 16))
	for y := range 16 {
		for x := range 16 {
			src.SetRGB(x, y, hdrcolor.RGB{R: rng.Float64() * 50, G: rng.Float64() * 10, B: rng.Float64()})
		}
	}
	path := write(t, "scene.hdr", func(buf *bytes.Buffer) error { return rgbe.Encode(buf, src) })

	m, _, err := pxlpeep.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Channels())
	assert.Equal(t, 16, m.BPP())
	assert.Equal(t, uint16(65535), m.Max())

	// Rebuild the radiance from the normalized samples and compare with
	// the decoded Radiance file.
	base, err := loadHDR(path)
	require.NoError(t, err)

	peak := 0.0
	b := base.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := base.HDRAt(x, y).HDRRGBA()
			peak = max(peak, r, g, bl)
		}
	}
	rebuilt := hdr.NewRGB(b)
	for y := range 16 {
		for x := range 16 {
			rebuilt.SetRGB(x, y, hdrcolor.RGB{
				R: float64(m.Pixel(x, y, 0)) / 65535 * peak,
				G: float64(m.Pixel(x, y, 1)) / 65535 * peak,
				B: float64(m.Pixel(x, y, 2)) / 65535 * peak,
			})
		}
	}

	ssim := hdrtool.HDRSSIM(base, rebuilt)
	assert.InDelta(t, 1, ssim, 1e-3)
}

func TestLoadRaw(t *testing.T) {
	const w, h = 3264, 2448
	data := make([]byte, w*h*2)
	binary.LittleEndian.PutUint16(data[0:], 16000)
	binary.LittleEndian.PutUint16(data[len(data)-2:], 7)
	for i := 2; i < len(data)-2; i += 2 {
		binary.LittleEndian.PutUint16(data[i:], 100)
	}
	path := write(t, "dump.raw", func(buf *bytes.Buffer) error {
		_, err := buf.Write(data)
		return err
	})

	m, _, err := pxlpeep.Load(path)
	require.NoError(t, err)
	assert.Equal(t, w, m.Width())
	assert.Equal(t, h, m.Height())
	assert.Equal(t, 14, m.BPP())
	assert.Equal(t, 0, m.MaxIndex())
	assert.Equal(t, w*h-1, m.MinIndex())

	reversed, _, err := pxlpeep.Load(path, pxlpeep.WithRawReversed(true))
	require.NoError(t, err)
	assert.Equal(t, w*h-1, reversed.MaxIndex())
	assert.Equal(t, 0, reversed.MinIndex())
}

func TestLoadRawUnknownSize(t *testing.T) {
	path := write(t, "dump.RAW", func(buf *bytes.Buffer) error {
		_, err := buf.Write(make([]byte, 4000*3000))
		return err
	})

	_, _, err := pxlpeep.Load(path)
	assert.ErrorIs(t, err, pxlpeep.ErrRawSize)
}

func TestLoadErrors(t *testing.T) {
	var uerr pxlpeep.UnsupportedError

	_, _, err := pxlpeep.Load(filepath.Join(t.TempDir(), "noext"))
	assert.ErrorAs(t, err, &uerr)

	_, _, err = pxlpeep.Load(filepath.Join(t.TempDir(), "file.xyz"))
	assert.ErrorAs(t, err, &uerr)

	_, _, err = pxlpeep.Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadImageFailureKeepsPrevious(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	src.SetGray(3, 3, color.Gray{Y: 99})
	good := write(t, "good.png", func(buf *bytes.Buffer) error { return png.Encode(buf, src) })
	bad := write(t, "bad.png", func(buf *bytes.Buffer) error {
		_, err := buf.WriteString("\x89PNG garbage")
		return err
	})

	m := pxlpeep.NewImageData()
	_, err := m.ReadImage(good)
	require.NoError(t, err)

	_, err = m.ReadImage(bad)
	assert.Error(t, err)
	assert.Equal(t, 4, m.Width())
	assert.Equal(t, uint16(99), m.Max())
}

func TestExtensions(t *testing.T) {
	exts := pxlpeep.Extensions()
	for _, ext := range []string{"TIF", "TIFF", "JPG", "JPEG", "PNG", "BMP", "PSD", "RAW", "WEBP", "JP2", "J2K", "HDR"} {
		assert.Contains(t, exts, ext)
	}
	assert.True(t, pxlpeep.Supported("/a/b/IMG_0001.JPG"))
	assert.True(t, pxlpeep.Supported("x.tif"))
	assert.False(t, pxlpeep.Supported("notes.txt"))
}

///////////////////////////
//                       //
// Benchmarks            //
//                       //
///////////////////////////

// go test -run=NONE -bench=.

var sink *pxlpeep.ImageData

func BenchmarkLoadPNG(b *testing.B) {
	src := image.NewRGBA64(image.Rect(0, 0, 512, 512))
	var buf bytes.Buffer
	assert.NoError(b, png.Encode(&buf, src))
	path := filepath.Join(b.TempDir(), "bench.png")
	assert.NoError(b, os.WriteFile(path, buf.Bytes(), 0o644))

	m := pxlpeep.NewImageData()
	for n := 0; n < b.N; n++ {
		if _, err := m.ReadImage(path); err != nil {
			b.Fatal(err)
		}
	}
	sink = m
}

///////////////////////////
//                       //
// Fixtures              //
//                       //
///////////////////////////

func write(t *testing.T, name string, encode func(*bytes.Buffer) error) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, encode(&buf))
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func loadHDR(path string) (hdr.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open image")
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode image")
	}

	hm, ok := m.(hdr.Image)
	if !ok {
		return nil, errors.New("not an HDR image")
	}
	return hm, nil
}
