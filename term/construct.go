package term

import (
	"math/big"

	"github.com/wippyai/etf/errors"
)

// NewAtom returns the atom named s.
func NewAtom(s string) Atom { return Atom(s) }

// NewBinary copies src into a Binary. Accepted sources are []byte, string,
// Binary and []int with every element in 0..255.
func NewBinary(src any) (Binary, error) {
	switch v := src.(type) {
	case []byte:
		return append(Binary(nil), v...), nil
	case Binary:
		return append(Binary(nil), v...), nil
	case string:
		return Binary(v), nil
	case []int:
		out := make(Binary, len(v))
		for i, b := range v {
			if b < 0 || b > 255 {
				return nil, errors.New(errors.PhaseConstruct, errors.KindUnsupportedType).
					GoType("[]int").
					Value(b).
					Detail("element %d is %d, not a byte", i, b).
					Build()
			}
			out[i] = byte(b)
		}
		return out, nil
	}
	return nil, errors.UnsupportedType(errors.PhaseConstruct, src, "binary source must be []byte, string or []int")
}

// NewTuple returns a tuple of the given elements.
func NewTuple(elems ...Term) Tuple {
	return append(Tuple(nil), elems...)
}

// NewList returns a proper list of the given elements.
func NewList(elems ...Term) List {
	return append(List{}, elems...)
}

// NewBigInt returns a BigInt holding a copy of v.
func NewBigInt(v *big.Int) BigInt {
	return BigInt{Value: new(big.Int).Set(v)}
}

// Integer returns v as an Int when it fits in 64 bits, otherwise as a BigInt.
func Integer(v *big.Int) Term {
	if v.IsInt64() {
		return Int(v.Int64())
	}
	return NewBigInt(v)
}

// NewPid packs id, serial and creation into a Pid. Excess bits are dropped.
func NewPid(node Atom, id, serial uint32, creation uint8) Pid {
	num := (id&PidIDMask)<<15 | (serial&PidSerialMask)<<2 | uint32(creation&PidCreationMask)
	return Pid{Node: node, Num: num & 0x3fffffff}
}

// NewRef returns a reference. At most MaxRefIDs ids are allowed.
func NewRef(node Atom, creation uint8, ids ...uint32) (Ref, error) {
	if len(ids) > MaxRefIDs {
		return Ref{}, errors.InvalidArity(errors.PhaseConstruct, errors.NoOffset, len(ids), MaxRefIDs)
	}
	return Ref{
		Node:     node,
		Creation: creation & PidCreationMask,
		IDs:      append([]uint32(nil), ids...),
	}, nil
}

// Entry is shorthand for a MapEntry.
func Entry(k, v Term) MapEntry {
	return MapEntry{Key: k, Value: v}
}

// NewMap returns a map whose text keys are written as keyType.
func NewMap(keyType KeyType, entries ...MapEntry) Map {
	return Map{KeyType: keyType, Entries: append([]MapEntry(nil), entries...)}
}

// NewProplist returns a proplist of the given pairs.
func NewProplist(props ...Prop) Proplist {
	return append(Proplist(nil), props...)
}
