// Package wire holds the tag table and the size decisions shared by the
// size estimator and the encoder.
package wire

import (
	"math"
	"math/big"
)

// Tag values from erl_ext_dist.
const (
	Version       = 131
	NewFloat      = 70  // 'F'
	SmallInteger  = 97  // 'a'
	Integer       = 98  // 'b'
	Float         = 99  // 'c', 31-byte ASCII, decode only
	Atom          = 100 // 'd'
	Pid           = 103 // 'g'
	SmallTuple    = 104 // 'h'
	LargeTuple    = 105 // 'i'
	Nil           = 106 // 'j'
	String        = 107 // 'k'
	List          = 108 // 'l'
	Binary        = 109 // 'm'
	SmallBig      = 110 // 'n'
	LargeBig      = 111 // 'o'
	NewReference  = 114 // 'r'
	SmallAtom     = 115 // 's', decode only
	Map           = 116 // 't'
	AtomUTF8      = 118 // 'v', decode only
	SmallAtomUTF8 = 119 // 'w', decode only
)

// Fixed payload widths.
const (
	LegacyFloatLen = 31
	MaxTextLen     = math.MaxUint16
	MaxBigBytes    = 8 // decode limit for big integer magnitudes
)

// Names maps tags to their erl_ext_dist names.
var Names = map[byte]string{
	NewFloat:      "NEW_FLOAT_EXT",
	SmallInteger:  "SMALL_INTEGER_EXT",
	Integer:       "INTEGER_EXT",
	Float:         "FLOAT_EXT",
	Atom:          "ATOM_EXT",
	Pid:           "PID_EXT",
	SmallTuple:    "SMALL_TUPLE_EXT",
	LargeTuple:    "LARGE_TUPLE_EXT",
	Nil:           "NIL_EXT",
	String:        "STRING_EXT",
	List:          "LIST_EXT",
	Binary:        "BINARY_EXT",
	SmallBig:      "SMALL_BIG_EXT",
	LargeBig:      "LARGE_BIG_EXT",
	NewReference:  "NEW_REFERENCE_EXT",
	SmallAtom:     "SMALL_ATOM_EXT",
	Map:           "MAP_EXT",
	AtomUTF8:      "ATOM_UTF8_EXT",
	SmallAtomUTF8: "SMALL_ATOM_UTF8_EXT",
}

// IntClass is the wire form chosen for an integer.
type IntClass uint8

const (
	ClassSmall IntClass = iota // [0, 255]
	ClassInt32                 // [-2^31, 2^31-1]
	ClassBig                   // everything else
)

// ClassifyInt picks the wire form for v.
func ClassifyInt(v int64) IntClass {
	switch {
	case v >= 0 && v <= math.MaxUint8:
		return ClassSmall
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return ClassInt32
	}
	return ClassBig
}

// ClassifyBig picks the wire form for v.
func ClassifyBig(v *big.Int) IntClass {
	if v.IsInt64() {
		return ClassifyInt(v.Int64())
	}
	return ClassBig
}

// Magnitude returns |v| as minimal little-endian bytes and whether v is negative.
func Magnitude(v int64) ([]byte, bool) {
	neg := v < 0
	u := uint64(v)
	if neg {
		u = -u
	}
	var out []byte
	for ; u != 0; u >>= 8 {
		out = append(out, byte(u))
	}
	return out, neg
}

// MagnitudeLen returns the number of bytes Magnitude would return.
func MagnitudeLen(v int64) int {
	u := uint64(v)
	if v < 0 {
		u = -u
	}
	n := 0
	for ; u != 0; u >>= 8 {
		n++
	}
	return n
}

// BigMagnitude returns |v| as minimal little-endian bytes and whether v is negative.
func BigMagnitude(v *big.Int) ([]byte, bool) {
	be := v.Bytes()
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return le, v.Sign() < 0
}

// BigMagnitudeLen returns the number of bytes BigMagnitude would return.
func BigMagnitudeLen(v *big.Int) int {
	return (v.BitLen() + 7) / 8
}

// BigHeaderLen is the tag plus count field width for a magnitude of n bytes,
// plus the sign byte.
func BigHeaderLen(n int) int {
	if n <= math.MaxUint8 {
		return 1 + 1 + 1
	}
	return 1 + 4 + 1
}

// IntLen is the full encoded length of v including its tag.
func IntLen(v int64) int {
	switch ClassifyInt(v) {
	case ClassSmall:
		return 2
	case ClassInt32:
		return 5
	}
	n := MagnitudeLen(v)
	return BigHeaderLen(n) + n
}

// BigLen is the full encoded length of v including its tag.
func BigLen(v *big.Int) int {
	if v.IsInt64() {
		return IntLen(v.Int64())
	}
	n := BigMagnitudeLen(v)
	return BigHeaderLen(n) + n
}

// TupleHeaderLen is the tag plus arity field width for a tuple of n elements.
func TupleHeaderLen(n int) int {
	if n <= math.MaxUint8 {
		return 2
	}
	return 5
}
