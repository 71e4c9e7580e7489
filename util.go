package pxlpeep

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// A FormatError reports that the input is not a valid image.
type FormatError string

func (e FormatError) Error() string {
	return fmt.Sprintf("pxlpeep: invalid format: %s", string(e))
}

// An UnsupportedError reports that the input uses a valid but
// unimplemented feature.
type UnsupportedError string

func (e UnsupportedError) Error() string {
	return fmt.Sprintf("pxlpeep: unsupported feature: %s", string(e))
}

// An InternalError reports that an internal error was encountered.
type InternalError string

func (e InternalError) Error() string {
	return fmt.Sprintf("pxlpeep: internal error: %s", string(e))
}

var (
	// ErrNoImage is returned when an operation needs pixel data and none is loaded.
	ErrNoImage = errors.New("pxlpeep: no image loaded")
	// ErrDegenerateRegion is returned when a region is too small for the requested operation.
	ErrDegenerateRegion = errors.New("pxlpeep: degenerate region")
	// ErrZeroTarget is returned when a white balance region averages to zero.
	ErrZeroTarget = errors.New("pxlpeep: zero white balance target")
	// ErrRawSize is returned when a raw file size matches no known sensor geometry.
	ErrRawSize = errors.New("pxlpeep: unknown raw file size")
)

func clampUint16(v float64) uint16 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 65535:
		return 65535
	default:
		return uint16(v + 0.5)
	}
}

func tagname(t uint16) string {
	switch t {
	case tMake:
		return "Make"
	case tModel:
		return "Model"
	case tSoftware:
		return "Software"
	case tExifIFD:
		return "ExifIFDPointer"
	case tExposureTime:
		return "ExposureTime"
	case tFNumber:
		return "FNumber"
	case tISOSpeedRatings:
		return "ISOSpeedRatings"
	case tDateTimeOriginal:
		return "DateTimeOriginal"
	case tMakerNote:
		return "MakerNote"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// valuename renders a tag the way camera tools print it.
// ExposureTime reads "1/250 sec" and FNumber "F2.8".
func valuename(t tag) string {
	var v any
	switch t.id {
	case tExposureTime:
		if t.datatype == dtRational {
			num, den := t.fraction(0)
			v = fmt.Sprintf("%d/%d sec", num, den)
		} else {
			v = t.ascii()
		}
	case tFNumber:
		if t.datatype == dtRational {
			v = fmt.Sprintf("F%g", t.asFloat(0))
		} else {
			v = t.ascii()
		}
	case tMakerNote:
		v = fmt.Sprintf("%d bytes", len(t.raw))
	default:
		v = formatDatatype(t)
	}
	return fmt.Sprintf("%v", v)
}

func formatDatatype(t tag) any {
	switch t.datatype {
	case dtASCII:
		return t.ascii()
	case dtRational:
		sl := make([]*big.Rat, 0, len(t.val)/2)
		for i := 0; i < len(t.val)/2; i++ {
			sl = append(sl, t.rational(i))
		}
		return sl
	case dtSRational:
		sl := make([]*big.Rat, 0, len(t.val)/2)
		for i := 0; i < len(t.val)/2; i++ {
			sl = append(sl, t.sRational(i))
		}
		return sl
	case dtUndefined:
		return fmt.Sprintf("%d bytes", len(t.raw))
	default:
		return t.val
	}
}

// trimASCII strips the NUL terminator and padding of EXIF strings.
func trimASCII(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
