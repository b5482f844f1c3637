package term

import (
	"bytes"
	"math"
	"math/big"
	"time"
)

// Equal reports whether a and b are structurally equal.
//
// Either side may be a Term or a Go value accepted by Lift. Integers compare
// by value across Int and BigInt. A Proplist equals the list of 2-tuples it
// encodes as. Map entries compare regardless of order. A 3-tuple of integers
// equals a time.Time naming the same microsecond.
func Equal(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		return equalTime(ta, b)
	}
	if tb, ok := b.(time.Time); ok {
		return equalTime(tb, a)
	}
	x, err := Lift(a)
	if err != nil {
		return false
	}
	y, err := Lift(b)
	if err != nil {
		return false
	}
	return equalTerms(x, y)
}

func equalTime(t time.Time, other any) bool {
	switch v := other.(type) {
	case time.Time:
		return t.UnixMicro() == v.UnixMicro()
	case Tuple:
		ot, ok := v.Time()
		return ok && ot.UnixMicro() == t.UnixMicro()
	}
	return false
}

func equalTerms(a, b Term) bool {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y
		case BigInt:
			return y.Value != nil && y.Value.IsInt64() && y.Value.Int64() == int64(x)
		}
		return false
	case BigInt:
		switch y := b.(type) {
		case Int:
			return x.Value != nil && x.Value.IsInt64() && x.Value.Int64() == int64(y)
		case BigInt:
			return bigOrZero(x.Value).Cmp(bigOrZero(y.Value)) == 0
		}
		return false
	case Float:
		y, ok := b.(Float)
		return ok && math.Float64bits(float64(x)) == math.Float64bits(float64(y))
	case Atom:
		y, ok := b.(Atom)
		return ok && x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Null:
		_, ok := b.(Null)
		return ok
	case Undefined:
		_, ok := b.(Undefined)
		return ok
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Binary:
		y, ok := b.(Binary)
		return ok && bytes.Equal(x, y)
	case Tuple:
		y, ok := b.(Tuple)
		return ok && equalSeq(x, y)
	case List:
		switch y := b.(type) {
		case List:
			return equalSeq(x, y)
		case Proplist:
			return equalSeq(x, y.List())
		}
		return false
	case Proplist:
		switch y := b.(type) {
		case Proplist:
			return equalSeq(x.List(), y.List())
		case List:
			return equalSeq(x.List(), y)
		}
		return false
	case Map:
		y, ok := b.(Map)
		return ok && equalMap(x, y)
	case Pid:
		y, ok := b.(Pid)
		return ok && x.Node == y.Node && x.Num == y.Num
	case Ref:
		y, ok := b.(Ref)
		if !ok || x.Node != y.Node || x.Creation != y.Creation || len(x.IDs) != len(y.IDs) {
			return false
		}
		for i := range x.IDs {
			if x.IDs[i] != y.IDs[i] {
				return false
			}
		}
		return true
	}
	return false
}

func equalSeq[S ~[]Term](a, b S) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalTerms(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalMap(a, b Map) bool {
	if len(a.Entries) != len(b.Entries) {
		return false
	}
	for _, e := range a.Entries {
		v, ok := b.Get(e.Key)
		if !ok || !equalTerms(e.Value, v) {
			return false
		}
	}
	return true
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
