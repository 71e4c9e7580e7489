package pxlpeep

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Exif holds the camera metadata read from a JPEG file.
// Every field has a presence flag: a missing or malformed tag leaves it absent.
type Exif struct {
	make     string
	firmware string
	date     string
	iso      int
	shutter  float64 // ms
	aperture float64

	sensor  float64
	dsp     float64
	battery float64
	pmic    float64

	hasMake         bool
	hasFirmware     bool
	hasISO          bool
	hasShutter      bool
	hasAperture     bool
	hasDate         bool
	hasTemperatures bool
}

// DecodeExif extracts the metadata of the JPEG stream r.
// A stream without EXIF gives an empty Exif and no error.
func DecodeExif(r io.Reader) (*Exif, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read exif source")
	}
	return readExif(data), nil
}

// readExif never fails: anything it cannot parse is reported as absent.
func readExif(data []byte) *Exif {
	e := &Exif{}
	payload, ok := exifPayload(data)
	if !ok {
		return e
	}
	d, _ := newIDF(bytes.NewReader(payload))
	if d == nil {
		return e
	}
	e.fill(d)
	return e
}

// exifPayload walks the JPEG marker segments up to the first scan and
// returns the TIFF structure of the Exif APP1 segment.
func exifPayload(data []byte) ([]byte, bool) {
	if len(data) < 4 || data[0] != markerStart || data[1] != markerSOI {
		return nil, false
	}

	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != markerStart {
			return nil, false
		}
		marker := data[pos+1]
		if marker == markerStart { // Fill byte.
			pos++
			continue
		}
		if marker == markerSOS || marker == markerEOI {
			return nil, false
		}

		length := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
		if length < 2 || pos+2+length > len(data) {
			return nil, false
		}
		segment := data[pos+4 : pos+2+length]
		if marker == markerAPP1 && bytes.HasPrefix(segment, []byte(exifHeader)) {
			return segment[len(exifHeader):], true
		}
		pos += 2 + length
	}
	return nil, false
}

func (e *Exif) fill(d *idf) {
	if t, ok := d.features[tMake]; ok {
		e.make = t.ascii()
		if m, ok := d.features[tModel]; ok {
			e.make += " " + m.ascii()
		}
		e.hasMake = true
	}

	if t, ok := d.features[tSoftware]; ok {
		e.firmware = t.ascii()
		e.hasFirmware = true
	}

	if t, ok := d.features[tISOSpeedRatings]; ok {
		if t.datatype == dtASCII {
			if iso, err := strconv.Atoi(t.ascii()); err == nil {
				e.iso = iso
				e.hasISO = true
			}
		} else if len(t.val) > 0 {
			e.iso = int(d.firstVal(tISOSpeedRatings))
			e.hasISO = true
		}
	}

	if t, ok := d.features[tFNumber]; ok {
		// Printed as "F2.8".
		s := t.PrettyPrintedValue()
		if len(s) > 1 {
			if f, err := strconv.ParseFloat(s[1:], 64); err == nil && f > 0 {
				e.aperture = f
				e.hasAperture = true
			}
		}
	}

	if t, ok := d.features[tExposureTime]; ok {
		if ms, ok := parseShutter(t.PrettyPrintedValue()); ok {
			e.shutter = ms
			e.hasShutter = true
		}
	}

	if t, ok := d.features[tDateTimeOriginal]; ok {
		if s := t.ascii(); s != "" {
			e.date = strings.Replace(s, ":", "-", 2)
			e.hasDate = true
		}
	}

	if t, ok := d.features[tMakerNote]; ok {
		e.fillTemperatures(t.raw)
	}
}

// parseShutter converts "n/d sec" into milliseconds.
func parseShutter(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "sec"))
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, false
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, false
	}
	den, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || den == 0 {
		return 0, false
	}
	return num / den * 1000, true
}

func (e *Exif) fillTemperatures(mn []byte) {
	if len(mn) < mnMinLen || mn[mnMarkerOffset] != mnMarkerValue {
		return
	}
	if !bytes.Equal(mn[mnSigOffset:mnSigOffset+len(mnSignature)], mnSignature) {
		return
	}
	e.sensor = float64(mn[mnSensorOffset])
	e.dsp = float64(mn[mnDSPOffset])
	e.battery = float64(mn[mnBatOffset])
	e.pmic = float64(mn[mnPMICOffset])
	e.hasTemperatures = true
}

// Make returns the camera make and model joined by a space.
func (e *Exif) Make() (string, bool) {
	return e.make, e.hasMake
}

// Firmware returns the software tag.
func (e *Exif) Firmware() (string, bool) {
	return e.firmware, e.hasFirmware
}

// ISO returns the ISO speed rating.
func (e *Exif) ISO() (int, bool) {
	return e.iso, e.hasISO
}

// Shutter returns the exposure time in milliseconds.
func (e *Exif) Shutter() (float64, bool) {
	return e.shutter, e.hasShutter
}

// Aperture returns the f-number.
func (e *Exif) Aperture() (float64, bool) {
	return e.aperture, e.hasAperture
}

// Date returns the capture date formatted as "YYYY-MM-DD hh:mm:ss".
func (e *Exif) Date() (string, bool) {
	return e.date, e.hasDate
}

// Temperatures returns the sensor, DSP, battery and PMIC temperatures.
func (e *Exif) Temperatures() (sensor, dsp, battery, pmic float64, ok bool) {
	return e.sensor, e.dsp, e.battery, e.pmic, e.hasTemperatures
}

// EV returns the exposure value normalized to ISO 100.
func (e *Exif) EV() (float64, bool) {
	if !e.hasAperture || !e.hasShutter || !e.hasISO || e.shutter <= 0 || e.iso <= 0 {
		return 0, false
	}
	ev := math.Log2(e.aperture*e.aperture/(e.shutter/1000)) + math.Log2(float64(e.iso)/100)
	return ev, true
}
