package codec

import (
	"math"
	"strconv"

	"github.com/wippyai/etf/codec/internal/wire"
	"github.com/wippyai/etf/errors"
	"github.com/wippyai/etf/term"
)

// Size returns the exact encoded length of t, excluding the version byte.
func (e *Encoder) Size(t term.Term) (int, error) {
	return e.sizeOf(t, nil)
}

func (e *Encoder) sizeOf(t term.Term, path []string) (int, error) {
	switch v := t.(type) {
	case nil:
		return atomLen(atomNull), nil
	case term.Int:
		return wire.IntLen(int64(v)), nil
	case term.BigInt:
		if v.Value == nil {
			return 0, errors.Unencodable(errors.PhaseEncode, path, v, "nil big integer")
		}
		return wire.BigLen(v.Value), nil
	case term.Float:
		return 1 + 8, nil
	case term.Atom:
		if len(v) > wire.MaxTextLen {
			return 0, textTooLong(path, v, len(v))
		}
		return atomLen(string(v)), nil
	case term.Bool:
		if v {
			return atomLen(atomTrue), nil
		}
		return atomLen(atomFalse), nil
	case term.Null:
		return atomLen(atomNull), nil
	case term.Undefined:
		return atomLen(atomUndefined), nil
	case term.String:
		if len(v) > wire.MaxTextLen {
			return 0, textTooLong(path, v, len(v))
		}
		return 1 + 2 + len(v), nil
	case term.Binary:
		if uint64(len(v)) > math.MaxUint32 {
			return 0, errors.Unencodable(errors.PhaseEncode, path, len(v), "binary longer than 2^32-1 bytes")
		}
		return 1 + 4 + len(v), nil
	case term.Tuple:
		return e.sizeSeq(wire.TupleHeaderLen(len(v)), v, path)
	case term.List:
		if len(v) == 0 {
			return 1, nil
		}
		n, err := e.sizeSeq(1+4, v, path)
		return n + 1, err
	case term.Proplist:
		return e.sizeProplist(v, path)
	case term.Map:
		return e.sizeMap(v, path)
	case term.Pid:
		if len(v.Node) > wire.MaxTextLen {
			return 0, textTooLong(path, v.Node, len(v.Node))
		}
		return 1 + atomLen(string(v.Node)) + 4 + 4 + 1, nil
	case term.Ref:
		if len(v.IDs) > term.MaxRefIDs {
			return 0, errors.InvalidArity(errors.PhaseEncode, errors.NoOffset, len(v.IDs), term.MaxRefIDs)
		}
		if len(v.Node) > wire.MaxTextLen {
			return 0, textTooLong(path, v.Node, len(v.Node))
		}
		return 1 + 2 + atomLen(string(v.Node)) + 1 + 4*len(v.IDs), nil
	}
	return 0, errors.Unencodable(errors.PhaseEncode, path, t, "not a term variant")
}

func (e *Encoder) sizeSeq(header int, elems []term.Term, path []string) (int, error) {
	if uint64(len(elems)) > math.MaxUint32 {
		return 0, errors.Unencodable(errors.PhaseEncode, path, len(elems), "more than 2^32-1 elements")
	}
	total := header
	for i, el := range elems {
		n, err := e.sizeOf(el, child(path, i))
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (e *Encoder) sizeProplist(p term.Proplist, path []string) (int, error) {
	if len(p) == 0 {
		return 1, nil
	}
	total := 1 + 4 + 1
	for i, prop := range p {
		if len(prop.Key) > wire.MaxTextLen {
			return 0, textTooLong(child(path, i), prop.Key, len(prop.Key))
		}
		n, err := e.sizeOf(prop.Value, child(path, i))
		if err != nil {
			return 0, err
		}
		total += wire.TupleHeaderLen(2) + atomLen(prop.Key) + n
	}
	return total, nil
}

// sizeMap also rejects keys that would be written identically.
func (e *Encoder) sizeMap(m term.Map, path []string) (int, error) {
	kt := e.opts.keyType(m)
	total := 1 + 4
	seen := make(map[string]struct{}, len(m.Entries))
	for i, entry := range m.Entries {
		kn, err := e.sizeKey(entry.Key, kt, child(path, i))
		if err != nil {
			return 0, err
		}
		id, err := e.keyIdentity(entry.Key, kt, kn)
		if err != nil {
			return 0, err
		}
		if _, dup := seen[id]; dup {
			return 0, errors.DuplicateMapKey(errors.PhaseEncode, errors.NoOffset, entry.Key)
		}
		seen[id] = struct{}{}

		vn, err := e.sizeOf(entry.Value, child(path, i))
		if err != nil {
			return 0, err
		}
		total += kn + vn
	}
	return total, nil
}

func (e *Encoder) sizeKey(k term.Term, kt term.KeyType, path []string) (int, error) {
	s, ok := k.(term.String)
	if !ok {
		return e.sizeOf(k, path)
	}
	switch kt {
	case term.KeyAtom, term.KeyString:
		if len(s) > wire.MaxTextLen {
			return 0, textTooLong(path, s, len(s))
		}
		return 1 + 2 + len(s), nil
	}
	return 1 + 4 + len(s), nil
}

// keyIdentity returns the wire bytes of a key as a string.
func (e *Encoder) keyIdentity(k term.Term, kt term.KeyType, n int) (string, error) {
	buf := getKeyBuf(n)
	defer putKeyBuf(buf)

	w := writer{enc: e, mem: WrapBuffer(*buf)}
	w.key(k, kt)
	if w.err != nil {
		return "", w.err
	}
	return string(*buf), nil
}

const (
	atomTrue      = "true"
	atomFalse     = "false"
	atomNull      = "null"
	atomUndefined = "undefined"
)

func atomLen(s string) int {
	return 1 + 2 + len(s)
}

func textTooLong(path []string, v any, n int) error {
	return errors.Unencodable(errors.PhaseEncode, path, v, "text of "+strconv.Itoa(n)+" bytes exceeds 65535")
}

func child(path []string, i int) []string {
	return append(path[:len(path):len(path)], "["+strconv.Itoa(i)+"]")
}
