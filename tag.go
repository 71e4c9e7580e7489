package pxlpeep

import (
	"fmt"
	"math"
	"math/big"
)

// tag is a decoded IFD entry.
// Rationals are stored as consecutive numerator/denominator pairs in val.
type tag struct {
	id       uint16
	datatype uint
	val      []uint
	raw      []byte // ASCII and UNDEFINED payloads
}

// firstVal returns the first uint of the entry, or 0 if the entry is empty.
func (t tag) firstVal() uint {
	if len(t.val) == 0 {
		return 0
	}
	return t.val[0]
}

// fraction returns the numerator and denominator of the rational at index.
func (t tag) fraction(index int) (num, den uint) {
	if len(t.val) < 2*(index+1) {
		return 0, 0
	}
	return t.val[2*index], t.val[2*index+1]
}

// rational returns the unsigned rational at index,
// or nil if the index is out of range or the denominator is zero.
func (t tag) rational(index int) *big.Rat {
	num, den := t.fraction(index)
	if den == 0 {
		return nil
	}
	return big.NewRat(int64(num), int64(den))
}

// sRational returns the signed rational at index,
// or nil if the index is out of range or the denominator is zero.
func (t tag) sRational(index int) *big.Rat {
	num, den := t.fraction(index)
	if int32(den) == 0 {
		return nil
	}
	return big.NewRat(int64(int32(num)), int64(int32(den)))
}

// double returns the float64 at index, or 0 if the index is out of range.
func (t tag) double(index int) float64 {
	if len(t.val) <= index {
		return 0
	}
	return math.Float64frombits(uint64(t.val[index]))
}

// asFloat returns the converted float64 at index of the entry,
// or 0 if the value does not exist.
func (t tag) asFloat(index int) float64 {
	switch t.datatype {
	case dtRational:
		r := t.rational(index)
		if r == nil {
			return 0
		}
		v, _ := r.Float64()
		return v
	case dtSRational:
		r := t.sRational(index)
		if r == nil {
			return 0
		}
		v, _ := r.Float64()
		return v
	case dtDouble:
		return t.double(index)
	case dtFloat:
		if len(t.val) <= index {
			return 0
		}
		return float64(math.Float32frombits(uint32(t.val[index])))
	default:
		if len(t.val) <= index {
			return 0
		}
		return float64(t.val[index])
	}
}

// ascii returns the entry as a trimmed string.
func (t tag) ascii() string {
	return trimASCII(string(t.raw))
}

// Name returns the common name of the tag.
func (t tag) Name() string {
	return tagname(t.id)
}

// PrettyPrintedValue returns the formatted value.
func (t tag) PrettyPrintedValue() string {
	return valuename(t)
}

// String implements Stringer.
func (t tag) String() string {
	return fmt.Sprintf("%s: %s", t.Name(), t.PrettyPrintedValue())
}
