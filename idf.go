package pxlpeep

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

//------------------------//
// EXIF header parser     //
//------------------------//

type (
	idf struct {
		r         io.ReaderAt
		byteOrder binary.ByteOrder
		features  map[uint16]tag // IFD0 and Exif sub-IFD merged
	}
)

// newIDF parses the TIFF structure embedded in an EXIF payload.
func newIDF(r io.ReaderAt) (d *idf, err error) {
	d = &idf{
		r:        r,
		features: make(map[uint16]tag),
	}

	p := make([]byte, 8)
	if _, err = d.r.ReadAt(p, 0); err != nil {
		return nil, err
	}
	switch string(p[0:4]) {
	case leHeader:
		d.byteOrder = binary.LittleEndian
	case beHeader:
		d.byteOrder = binary.BigEndian
	default:
		return nil, FormatError("malformed exif header")
	}

	ifdOffset := int64(d.byteOrder.Uint32(p[4:8]))
	if err = d.parseIDF(ifdOffset); err != nil {
		return nil, err
	}

	// A broken sub-IFD keeps the IFD0 fields already parsed.
	if exif, ok := d.features[tExifIFD]; ok {
		if off := int64(exif.firstVal()); off != ifdOffset {
			if err = d.parseIDF(off); err != nil {
				return d, err
			}
		}
	}

	return
}

// firstVal is a convenient accessor of tag#firstVal().
func (d *idf) firstVal(tag uint16) uint {
	return d.features[tag].firstVal()
}

func (d *idf) parseIDF(ifdOffset int64) error {
	p := make([]byte, 2)

	// The first two bytes contain the number of entries (12 bytes each).
	if _, err := d.r.ReadAt(p, ifdOffset); err != nil {
		return err
	}
	numItems := int(d.byteOrder.Uint16(p))

	// All IFD entries are read in one chunk.
	p = make([]byte, ifdLen*numItems)
	if _, err := d.r.ReadAt(p, ifdOffset+2); err != nil {
		return err
	}

	for i := 0; i < len(p); i += ifdLen {
		d.parseIFD(p[i : i+ifdLen])
	}

	return nil
}

// parseIFD decides whether the IFD entry in p is "interesting" and
// stows away the data in the parser. Malformed entries are skipped.
func (d *idf) parseIFD(p []byte) {
	tid := d.byteOrder.Uint16(p[0:2])
	switch tid {
	case tMake,
		tModel,
		tSoftware,
		tExifIFD,
		tExposureTime,
		tFNumber,
		tISOSpeedRatings,
		tDateTimeOriginal,
		tMakerNote:
		t, err := d.ifdValue(p)
		if err != nil {
			return
		}
		t.id = tid
		d.features[tid] = t
	}
}

// ifdValue decodes the IFD entry in p and returns its values.
func (d *idf) ifdValue(p []byte) (t tag, err error) {
	var raw []byte
	datatype := d.byteOrder.Uint16(p[2:4])
	if datatype == 0 || int(datatype) >= len(lengths) {
		return t, UnsupportedError("data type")
	}
	count := d.byteOrder.Uint32(p[4:8])
	datalen := uint64(lengths[datatype]) * uint64(count)
	if datalen > maxTagLen {
		return t, FormatError("oversized exif entry")
	}

	if datalen > 4 {
		// The IFD contains a pointer to the real value.
		raw = make([]byte, datalen)
		if _, err = d.r.ReadAt(raw, int64(d.byteOrder.Uint32(p[8:12]))); err != nil {
			return t, err
		}
	} else {
		raw = p[8 : 8+datalen]
	}

	t.datatype = uint(datatype)
	switch datatype {
	case dtByte, dtSByte:
		t.val = make([]uint, count)
		for i := range count {
			t.val[i] = uint(raw[i])
		}
	case dtASCII, dtUndefined:
		t.raw = append([]byte(nil), raw...)
	case dtShort, dtSShort:
		t.val = make([]uint, count)
		for i := range count {
			t.val[i] = uint(d.byteOrder.Uint16(raw[2*i : 2*(i+1)]))
		}
	case dtLong, dtSLong, dtFloat:
		t.val = make([]uint, count)
		for i := range count {
			t.val[i] = uint(d.byteOrder.Uint32(raw[4*i : 4*(i+1)]))
		}
	case dtRational, dtSRational:
		t.val = make([]uint, 2*count)
		for i := range count {
			t.val[2*i] = uint(d.byteOrder.Uint32(raw[8*i : 8*i+4]))
			t.val[2*i+1] = uint(d.byteOrder.Uint32(raw[8*i+4 : 8*(i+1)]))
		}
	case dtDouble:
		t.val = make([]uint, count)
		for i := range count {
			t.val[i] = uint(d.byteOrder.Uint64(raw[8*i : 8*(i+1)]))
		}
	}
	return t, nil
}

func (d *idf) String() string {
	buf := bytes.NewBufferString("== EXIF ==\n")
	for _, t := range d.features {
		buf.WriteString(fmt.Sprintf("%v\n", t))
	}
	buf.WriteString(fmt.Sprintf("ByteOrder: %v\n", d.byteOrder))
	return buf.String()
}
