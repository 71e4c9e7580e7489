package pxlpeep

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"
)

// rawGeometry returns the sensor geometry matching a raw file size.
func rawGeometry(size int64) (width, height int, err error) {
	for _, r := range rawResolutions {
		if int64(r.X)*int64(r.Y)*sampleSize == size {
			return r.X, r.Y, nil
		}
	}
	return 0, 0, errors.Wrapf(ErrRawSize, "%d bytes", size)
}

// readRaw loads a headerless little-endian 16-bit sensor dump.
func (m *ImageData) readRaw(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, "could not stat raw file")
	}
	width, height, err := rawGeometry(fi.Size())
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "could not read raw file")
	}
	if int64(len(data)) != fi.Size() {
		return FormatError("raw file changed while reading")
	}

	samples := make([]uint16, len(data)/sampleSize)
	for i := range samples {
		samples[i] = binary.LittleEndian.Uint16(data[2*i:])
	}

	if err = m.Reallocate(width, height, 1, rawBPP); err != nil {
		return err
	}
	if m.opts.RawReversed {
		return m.FeedRawReversed(samples)
	}
	return m.FeedRaw(samples)
}
