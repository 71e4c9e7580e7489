package pxlpeep

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/pkg/errors"
)

// A Painter is told when the pixels of an ImageData changed.
type Painter interface {
	SignalNewData() error
}

// Options configures an ImageData.
type Options struct {
	// Allocator provides the sample storage.
	Allocator Allocator
	// RawReversed feeds raw sensor dumps in reverse sample order.
	RawReversed bool
	// BottomUp flips decoded rows so that the first stored row is the bottom of the picture.
	BottomUp bool
	// Logger receives debug traces.
	Logger *slog.Logger
}

// WithAllocator sets the sample storage allocator.
func WithAllocator(a Allocator) func(*Options) {
	return func(o *Options) {
		o.Allocator = a
	}
}

// WithRawReversed enables the reversed raw feed.
func WithRawReversed(v bool) func(*Options) {
	return func(o *Options) {
		o.RawReversed = v
	}
}

// WithBottomUp enables the vertical flip of decoded images.
func WithBottomUp(v bool) func(*Options) {
	return func(o *Options) {
		o.BottomUp = v
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = l
	}
}

// ImageData is a decoded image stored as interleaved 16-bit samples.
// Samples are stored row-major, channel-interleaved for color images.
type ImageData struct {
	opts Options

	width    int
	height   int
	channels int
	bpp      int

	data         []uint16
	memSizeBytes int64

	minValue uint16
	maxValue uint16
	minIndex int
	maxIndex int

	colorGains [3]float64
	greyGains  [2][2]float64

	painter Painter
}

// NewImageData returns an empty ImageData.
func NewImageData(opts ...func(*Options)) *ImageData {
	m := &ImageData{}
	for _, opt := range opts {
		opt(&m.opts)
	}
	if m.opts.Allocator == nil {
		m.opts.Allocator = defaultAllocator
	}
	if m.opts.Logger == nil {
		m.opts.Logger = slog.Default()
	}
	m.resetGains()
	return m
}

// Reallocate sizes the buffer for an image of the given geometry.
// The buffer is reused when large enough and never shrinks.
// On failure the previous image stays intact.
func (m *ImageData) Reallocate(width, height, channels, bpp int) error {
	if width <= 0 || height <= 0 {
		return FormatError(fmt.Sprintf("invalid dimensions %dx%d", width, height))
	}
	if channels != 1 && channels != 3 {
		return UnsupportedError(fmt.Sprintf("%d channels", channels))
	}
	if bpp < 1 || bpp > 16 {
		return UnsupportedError(fmt.Sprintf("%d bits per sample", bpp))
	}

	need := int64(width) * int64(height) * int64(channels) * sampleSize
	if need > m.memSizeBytes {
		buf, err := m.opts.Allocator.Allocate(int(need / sampleSize))
		if err != nil {
			return errors.Wrap(err, "could not allocate image data")
		}
		if m.data != nil {
			m.opts.Allocator.Free(m.data)
		}
		m.opts.Logger.Debug("image buffer allocated", "bytes", need, "previous", m.memSizeBytes)
		m.data = buf
		m.memSizeBytes = need
	}

	m.width = width
	m.height = height
	m.channels = channels
	m.bpp = bpp
	m.resetMinMax()
	m.resetGains()
	return nil
}

// Release returns the buffer to the allocator.
func (m *ImageData) Release() {
	if m.data != nil {
		m.opts.Allocator.Free(m.data)
	}
	m.data = nil
	m.memSizeBytes = 0
	m.width, m.height, m.channels, m.bpp = 0, 0, 0, 0
	m.resetMinMax()
	m.resetGains()
}

// SetPainter registers the observer notified after mutations.
func (m *ImageData) SetPainter(p Painter) {
	m.painter = p
}

// Width returns the image width in pixels.
func (m *ImageData) Width() int { return m.width }

// Height returns the image height in pixels.
func (m *ImageData) Height() int { return m.height }

// Channels returns 1 for grey images and 3 for color images.
func (m *ImageData) Channels() int { return m.channels }

// BPP returns the informational bit depth of the source.
func (m *ImageData) BPP() int { return m.bpp }

// Bounds returns the image rectangle.
func (m *ImageData) Bounds() image.Rectangle { return image.Rect(0, 0, m.width, m.height) }

// Area returns the number of pixels.
func (m *ImageData) Area() int { return m.width * m.height }

// Capacity returns the buffer size in bytes.
func (m *ImageData) Capacity() int64 { return m.memSizeBytes }

// Empty reports whether no image is loaded.
func (m *ImageData) Empty() bool { return m.Area() == 0 }

// Samples returns the live samples of the current image.
func (m *ImageData) Samples() []uint16 {
	return m.data[:m.Area()*m.channels]
}

// Min returns the smallest sample value.
func (m *ImageData) Min() uint16 { return m.minValue }

// Max returns the largest sample value.
func (m *ImageData) Max() uint16 { return m.maxValue }

// MinIndex returns the pixel index (y*width+x, not the sample index)
// holding the smallest sample.
func (m *ImageData) MinIndex() int { return m.minIndex }

// MaxIndex returns the pixel index holding the largest sample.
func (m *ImageData) MaxIndex() int { return m.maxIndex }

// Pixel returns the sample of channel c at (x, y).
func (m *ImageData) Pixel(x, y, c int) uint16 {
	return m.data[(y*m.width+x)*m.channels+c]
}

// PixelAt returns the sample of channel c at pixel index i.
func (m *ImageData) PixelAt(i, c int) uint16 {
	return m.data[i*m.channels+c]
}

// SetPixel sets the sample of channel c at (x, y).
// Min and max are not updated until RecalcMinMax.
func (m *ImageData) SetPixel(x, y, c int, v uint16) {
	m.data[(y*m.width+x)*m.channels+c] = v
}

// SetPixelAt sets the sample of channel c at pixel index i.
func (m *ImageData) SetPixelAt(i, c int, v uint16) {
	m.data[i*m.channels+c] = v
}

// RecalcMinMax rescans all samples and notifies the painter.
func (m *ImageData) RecalcMinMax() error {
	m.rescan()
	return m.signal()
}

func (m *ImageData) rescan() {
	m.resetMinMax()
	for i, v := range m.Samples() {
		m.checkMinMax(v, i/m.channels)
	}
}

func (m *ImageData) signal() error {
	if m.painter == nil {
		return nil
	}
	return m.painter.SignalNewData()
}

func (m *ImageData) resetMinMax() {
	m.minValue = 0xFFFF
	m.maxValue = 0
	m.minIndex = 0
	m.maxIndex = 0
}

func (m *ImageData) checkMinMax(v uint16, pixel int) {
	if v < m.minValue {
		m.minValue = v
		m.minIndex = pixel
	}
	if v > m.maxValue {
		m.maxValue = v
		m.maxIndex = pixel
	}
}

func (m *ImageData) resetGains() {
	m.colorGains = [3]float64{1, 1, 1}
	m.greyGains = [2][2]float64{{1, 1}, {1, 1}}
}

// flipVertical swaps rows top to bottom.
func (m *ImageData) flipVertical() {
	stride := m.width * m.channels
	tmp := make([]uint16, stride)
	for top, bottom := 0, m.height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := m.data[top*stride : (top+1)*stride]
		b := m.data[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
	m.rescan()
}

// String implements Stringer.
func (m *ImageData) String() string {
	return fmt.Sprintf("%dx%d %dch %dbpp min=%d@%d max=%d@%d", m.width, m.height, m.channels, m.bpp, m.minValue, m.minIndex, m.maxValue, m.maxIndex)
}
