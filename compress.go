package pxlpeep

import (
	"bufio"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

type byteReader interface {
	io.Reader
	io.ByteReader
}

// unpackBits decodes the PackBits-compressed data read from r until
// n bytes are produced.
//
// The PackBits compression format is described in section 9 (p. 42)
// of the TIFF spec and reused as-is by PSD RLE scanlines.
func unpackBits(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, 128)
	dst := make([]byte, 0, n)
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	for len(dst) < n {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, FormatError("short PackBits data")
			}
			return nil, err
		}
		code := int(int8(b))
		switch {
		case code >= 0:
			m, err := io.ReadFull(br, buf[:code+1])
			if err != nil {
				return nil, FormatError("short PackBits literal run")
			}
			dst = append(dst, buf[:m]...)
		case code == -128:
			// No-op.
		default:
			if b, err = br.ReadByte(); err != nil {
				return nil, FormatError("short PackBits repeat run")
			}
			for j := 0; j < 1-code; j++ {
				buf[j] = b
			}
			dst = append(dst, buf[:1-code]...)
		}
	}

	if len(dst) > n {
		return nil, FormatError("PackBits overrun")
	}
	return dst, nil
}

// inflate decompresses the zlib stream read from r into exactly n bytes.
func inflate(r io.Reader, n int) ([]byte, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not open zlib stream")
	}
	defer zr.Close()

	dst := make([]byte, n)
	if _, err = io.ReadFull(zr, dst); err != nil {
		return nil, FormatError("short zlib data")
	}
	return dst, nil
}

// unpredict reverts the horizontal delta predictor applied on rows of
// width samples of depth bits (8 or 16, big-endian).
func unpredict(p []byte, width, depth int) {
	switch depth {
	case 8:
		for row := 0; row+width <= len(p); row += width {
			for x := 1; x < width; x++ {
				p[row+x] += p[row+x-1]
			}
		}
	case 16:
		stride := 2 * width
		for row := 0; row+stride <= len(p); row += stride {
			for x := 2; x < stride; x += 2 {
				prev := uint16(p[row+x-2])<<8 | uint16(p[row+x-1])
				cur := uint16(p[row+x])<<8 | uint16(p[row+x+1])
				cur += prev
				p[row+x], p[row+x+1] = byte(cur>>8), byte(cur)
			}
		}
	}
}
