package term

import (
	"math/big"

	"github.com/wippyai/etf/errors"
)

// Term is a value representable in the external term format.
// The set of implementations is closed; see the variants below.
type Term interface {
	isTerm()
}

// Int is an integer. It encodes as a small integer, a 32-bit integer or a
// small big depending on its range.
type Int int64

// BigInt is an integer of arbitrary magnitude.
type BigInt struct {
	Value *big.Int
}

// Float is an IEEE-754 double.
type Float float64

// Atom is a named constant.
type Atom string

// Bool is the host boolean, carried on the wire as the atom true or false.
type Bool bool

// Null is the host null, carried on the wire as the atom null.
type Null struct{}

// Undefined is the host absent value, carried on the wire as the atom undefined.
type Undefined struct{}

// String is plain text, carried on the wire with the string tag.
type String string

// Binary is an opaque byte sequence.
type Binary []byte

// Tuple is a fixed sequence of terms.
type Tuple []Term

// List is a proper list. The tail is always nil.
type List []Term

// KeyType selects how text keys of a Map are written.
type KeyType uint8

const (
	KeyDefault KeyType = iota // defer to the encoder options (binary)
	KeyBinary
	KeyAtom
	KeyString
)

// String returns the configuration name of the key type.
func (k KeyType) String() string {
	switch k {
	case KeyBinary:
		return "binary"
	case KeyAtom:
		return "atom"
	case KeyString:
		return "string"
	default:
		return "default"
	}
}

// ParseKeyType parses "binary", "atom" or "string". The empty string is KeyDefault.
func ParseKeyType(s string) (KeyType, error) {
	switch s {
	case "":
		return KeyDefault, nil
	case "binary":
		return KeyBinary, nil
	case "atom":
		return KeyAtom, nil
	case "string":
		return KeyString, nil
	}
	return KeyDefault, errors.New(errors.PhaseConfig, errors.KindInvalidData).
		Value(s).
		Detail("unknown map key type %q (want binary, atom or string)", s).
		Build()
}

// MapEntry is a single key/value association.
type MapEntry struct {
	Key   Term
	Value Term
}

// Map is an association of unique keys to values. Entries keep insertion
// order, which is also the order they are written in.
type Map struct {
	Entries []MapEntry
	KeyType KeyType
}

// Len returns the number of entries.
func (m Map) Len() int { return len(m.Entries) }

// Get returns the value stored under a key equal to k.
func (m Map) Get(k Term) (Term, bool) {
	for _, e := range m.Entries {
		if equalTerms(e.Key, k) {
			return e.Value, true
		}
	}
	return nil, false
}

// Prop is one element of a Proplist.
type Prop struct {
	Key   string
	Value Term
}

// Proplist is a list of {atom, value} pairs with distinct keys. It encodes
// exactly like a List of 2-tuples.
type Proplist []Prop

// Get returns the value stored under key.
func (p Proplist) Get(key string) (Term, bool) {
	for _, e := range p {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// List returns the pairs as an explicit list of 2-tuples.
func (p Proplist) List() List {
	out := make(List, len(p))
	for i, e := range p {
		out[i] = Tuple{Atom(e.Key), e.Value}
	}
	return out
}

// Pid packing: id in 15 bits, serial in 13 bits, creation in 2 bits.
const (
	PidIDMask       = 0x7fff
	PidSerialMask   = 0x1fff
	PidCreationMask = 0x3
)

// Pid is a process identifier. ID, serial and creation are packed into Num.
type Pid struct {
	Node Atom
	Num  uint32
}

// ID returns the 15-bit process id.
func (p Pid) ID() uint32 { return (p.Num >> 15) & PidIDMask }

// Serial returns the 13-bit serial.
func (p Pid) Serial() uint32 { return (p.Num >> 2) & PidSerialMask }

// Creation returns the 2-bit creation.
func (p Pid) Creation() uint8 { return uint8(p.Num & PidCreationMask) }

// MaxRefIDs is the largest id count a Ref may carry.
const MaxRefIDs = 3

// Ref is a reference.
type Ref struct {
	Node     Atom
	IDs      []uint32
	Creation uint8
}

func (Int) isTerm()       {}
func (BigInt) isTerm()    {}
func (Float) isTerm()     {}
func (Atom) isTerm()      {}
func (Bool) isTerm()      {}
func (Null) isTerm()      {}
func (Undefined) isTerm() {}
func (String) isTerm()    {}
func (Binary) isTerm()    {}
func (Tuple) isTerm()     {}
func (List) isTerm()      {}
func (Map) isTerm()       {}
func (Proplist) isTerm()  {}
func (Pid) isTerm()       {}
func (Ref) isTerm()       {}
