package codec

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/etf"
	"github.com/wippyai/etf/codec/internal/wire"
	"github.com/wippyai/etf/errors"
	"github.com/wippyai/etf/term"
)

// Decoder reads terms in the external term format. A Decoder holds only
// its options and is safe for concurrent use.
type Decoder struct {
	opts DecodeOptions
}

// NewDecoder returns a decoder with the given options.
func NewDecoder(opts DecodeOptions) *Decoder {
	return &Decoder{opts: opts}
}

// Decode decodes data with default options.
func Decode(data []byte) (term.Term, error) {
	return NewDecoder(DefaultDecodeOptions()).Decode(data)
}

// DecodeWithOptions decodes data.
func DecodeWithOptions(data []byte, opts DecodeOptions) (term.Term, error) {
	return NewDecoder(opts).Decode(data)
}

// Decode decodes a complete buffer: the version byte, exactly one term and
// nothing after it. data is not retained; binaries are copied out.
func (d *Decoder) Decode(data []byte) (term.Term, error) {
	return d.DecodeFrom(WrapBuffer(data), 0, uint32(len(data)))
}

// DecodeFrom decodes length bytes of mem starting at offset. Error offsets
// are relative to offset.
func (d *Decoder) DecodeFrom(mem etf.Memory, offset, length uint32) (term.Term, error) {
	if uint64(offset)+uint64(length) > math.MaxUint32 {
		return nil, errors.InvalidData(errors.PhaseDecode, nil, "range exceeds 32-bit address space")
	}
	r := reader{dec: d, mem: mem, base: offset, end: offset + length, pos: offset}

	if length == 0 {
		return nil, errors.Truncated(0, 0, 1, 0)
	}
	v, err := r.u8(0)
	if err != nil {
		return nil, err
	}
	if v != wire.Version {
		return nil, errors.InvalidVersion(v)
	}

	t, err := r.term()
	if err != nil {
		Logger().Debug("decode failed", zap.Error(err))
		return nil, err
	}
	if r.pos != r.end {
		return nil, errors.TrailingData(r.off(), int(length))
	}
	Logger().Debug("decoded term", zap.Uint32("bytes", length))
	return t, nil
}

// reader walks mem from pos to end.
type reader struct {
	dec   *Decoder
	mem   etf.Memory
	base  uint32
	end   uint32
	pos   uint32
	depth int
}

func (r *reader) off() int { return int(r.pos - r.base) }

func (r *reader) remaining() uint32 { return r.end - r.pos }

// need fails unless n more bytes are available.
func (r *reader) need(tag byte, n uint64) error {
	if n > uint64(r.remaining()) {
		return errors.Truncated(r.off(), tag, int(n), int(r.remaining()))
	}
	return nil
}

func (r *reader) memErr(tag byte, err error) error {
	return errors.New(errors.PhaseDecode, errors.KindTruncatedBuffer).
		Offset(r.off()).
		Tag(tag).
		Cause(err).
		Detail("read failed").
		Build()
}

func (r *reader) u8(tag byte) (uint8, error) {
	if err := r.need(tag, 1); err != nil {
		return 0, err
	}
	v, err := r.mem.ReadU8(r.pos)
	if err != nil {
		return 0, r.memErr(tag, err)
	}
	r.pos++
	return v, nil
}

func (r *reader) u16(tag byte) (uint16, error) {
	if err := r.need(tag, 2); err != nil {
		return 0, err
	}
	v, err := r.mem.ReadU16(r.pos)
	if err != nil {
		return 0, r.memErr(tag, err)
	}
	r.pos += 2
	return v, nil
}

func (r *reader) u32(tag byte) (uint32, error) {
	if err := r.need(tag, 4); err != nil {
		return 0, err
	}
	v, err := r.mem.ReadU32(r.pos)
	if err != nil {
		return 0, r.memErr(tag, err)
	}
	r.pos += 4
	return v, nil
}

func (r *reader) u64(tag byte) (uint64, error) {
	if err := r.need(tag, 8); err != nil {
		return 0, err
	}
	v, err := r.mem.ReadU64(r.pos)
	if err != nil {
		return 0, r.memErr(tag, err)
	}
	r.pos += 8
	return v, nil
}

// bytes returns a copy of the next n bytes.
func (r *reader) bytes(tag byte, n uint32) ([]byte, error) {
	if err := r.need(tag, uint64(n)); err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	b, err := r.mem.Read(r.pos, n)
	if err != nil {
		return nil, r.memErr(tag, err)
	}
	r.pos += n
	return append([]byte(nil), b...), nil
}

// count checks that n elements of at least min bytes each can fit.
func (r *reader) count(tag byte, n, min uint64) error {
	if n*min > uint64(r.remaining()) {
		return errors.Truncated(r.off(), tag, int(n*min), int(r.remaining()))
	}
	return nil
}

func (r *reader) term() (term.Term, error) {
	start := r.off()
	tag, err := r.u8(0)
	if err != nil {
		return nil, err
	}
	switch tag {
	case wire.SmallTuple, wire.LargeTuple, wire.List, wire.Map:
		if r.depth >= r.dec.opts.maxDepth() {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Offset(start).
				Tag(tag).
				Detail("nesting deeper than %d", r.dec.opts.maxDepth()).
				Build()
		}
		r.depth++
		defer func() { r.depth-- }()
	}
	switch tag {
	case wire.SmallInteger:
		v, err := r.u8(tag)
		return term.Int(v), err
	case wire.Integer:
		v, err := r.u32(tag)
		return term.Int(int32(v)), err
	case wire.SmallBig:
		n, err := r.u8(tag)
		if err != nil {
			return nil, err
		}
		return r.big(tag, start, uint32(n))
	case wire.LargeBig:
		n, err := r.u32(tag)
		if err != nil {
			return nil, err
		}
		return r.big(tag, start, n)
	case wire.NewFloat:
		v, err := r.u64(tag)
		return term.Float(math.Float64frombits(v)), err
	case wire.Float:
		return r.legacyFloat(tag, start)
	case wire.Atom, wire.AtomUTF8:
		s, err := r.text16(tag)
		if err != nil {
			return nil, err
		}
		return canonicalAtom(s), nil
	case wire.SmallAtom, wire.SmallAtomUTF8:
		s, err := r.text8(tag)
		if err != nil {
			return nil, err
		}
		return canonicalAtom(s), nil
	case wire.String:
		s, err := r.text16(tag)
		return term.String(s), err
	case wire.Binary:
		n, err := r.u32(tag)
		if err != nil {
			return nil, err
		}
		b, err := r.bytes(tag, n)
		return term.Binary(b), err
	case wire.SmallTuple:
		n, err := r.u8(tag)
		if err != nil {
			return nil, err
		}
		return r.tuple(tag, uint32(n))
	case wire.LargeTuple:
		n, err := r.u32(tag)
		if err != nil {
			return nil, err
		}
		return r.tuple(tag, n)
	case wire.Nil:
		return term.List{}, nil
	case wire.List:
		return r.list(tag, start)
	case wire.Map:
		return r.mapTerm(tag)
	case wire.Pid:
		return r.pid(tag)
	case wire.NewReference:
		return r.ref(tag, start)
	}
	return nil, errors.UnknownTag(start, tag)
}

func (r *reader) big(tag byte, start int, n uint32) (term.Term, error) {
	if n > wire.MaxBigBytes {
		return nil, errors.IntegerTooLarge(start, tag, n)
	}
	sign, err := r.u8(tag)
	if err != nil {
		return nil, err
	}
	mag, err := r.bytes(tag, n)
	if err != nil {
		return nil, err
	}
	var u uint64
	for i := len(mag) - 1; i >= 0; i-- {
		u = u<<8 | uint64(mag[i])
	}
	switch {
	case sign == 0 && u <= math.MaxInt64:
		return term.Int(int64(u)), nil
	case sign != 0 && u <= 1<<63:
		return term.Int(-int64(u)), nil
	}
	v := new(big.Int).SetUint64(u)
	if sign != 0 {
		v.Neg(v)
	}
	return term.BigInt{Value: v}, nil
}

func (r *reader) legacyFloat(tag byte, start int) (term.Term, error) {
	b, err := r.bytes(tag, wire.LegacyFloatLen)
	if err != nil {
		return nil, err
	}
	s := strings.TrimSpace(strings.TrimRight(string(b), "\x00"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(start).
			Tag(tag).
			Value(s).
			Cause(err).
			Detail("malformed float text").
			Build()
	}
	return term.Float(f), nil
}

func (r *reader) text16(tag byte) (string, error) {
	n, err := r.u16(tag)
	if err != nil {
		return "", err
	}
	b, err := r.bytes(tag, uint32(n))
	return string(b), err
}

func (r *reader) text8(tag byte) (string, error) {
	n, err := r.u8(tag)
	if err != nil {
		return "", err
	}
	b, err := r.bytes(tag, uint32(n))
	return string(b), err
}

// canonicalAtom maps the atoms true, false, undefined and null to their
// host variants.
func canonicalAtom(s string) term.Term {
	switch s {
	case atomTrue:
		return term.Bool(true)
	case atomFalse:
		return term.Bool(false)
	case atomUndefined:
		return term.Undefined{}
	case atomNull:
		return term.Null{}
	}
	return term.Atom(s)
}

func (r *reader) tuple(tag byte, n uint32) (term.Term, error) {
	if err := r.count(tag, uint64(n), 1); err != nil {
		return nil, err
	}
	out := make(term.Tuple, n)
	for i := range out {
		el, err := r.term()
		if err != nil {
			return nil, err
		}
		out[i] = el
	}
	return out, nil
}

func (r *reader) list(tag byte, start int) (term.Term, error) {
	n, err := r.u32(tag)
	if err != nil {
		return nil, err
	}
	// n elements plus the tail
	if err := r.count(tag, uint64(n)+1, 1); err != nil {
		return nil, err
	}
	out := make(term.List, n)
	for i := range out {
		el, err := r.term()
		if err != nil {
			return nil, err
		}
		out[i] = el
	}
	tailAt := r.off()
	tail, err := r.u8(tag)
	if err != nil {
		return nil, err
	}
	if tail != wire.Nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(tailAt).
			Tag(tail).
			Detail("improper list starting at offset %d", start).
			Build()
	}
	if r.dec.opts.FoldProplists {
		return term.Fold(out), nil
	}
	return out, nil
}

// mapTerm decodes a map. Atom, binary and string keys all become
// term.String; the map records the key type when every text key used the
// same one. Keys that only collide once converted keep their wire form
// (term.Atom, term.Binary) and the map falls back to KeyDefault, or to
// KeyString when one of the colliding keys was a string.
func (r *reader) mapTerm(tag byte) (term.Term, error) {
	n, err := r.u32(tag)
	if err != nil {
		return nil, err
	}
	if err := r.count(tag, uint64(n), 2); err != nil {
		return nil, err
	}

	type decodedKey struct {
		raw   term.Term
		host  term.Term
		hid   string
		ktype term.KeyType
	}
	keys := make([]decodedKey, 0, n)
	vals := make([]term.Term, 0, n)
	wireSeen := make(map[string]struct{}, n)
	hostSeen := make(map[string]int, n)
	for i := uint32(0); i < n; i++ {
		keyAt := r.off()
		k, err := r.term()
		if err != nil {
			return nil, err
		}
		wid, hid, err := r.keyIdentity(k)
		if err != nil {
			return nil, err
		}
		if _, dup := wireSeen[wid]; dup {
			return nil, errors.DuplicateMapKey(errors.PhaseDecode, keyAt, k)
		}
		wireSeen[wid] = struct{}{}
		hostSeen[hid]++

		host, ktype := mapKey(k)
		keys = append(keys, decodedKey{raw: k, host: host, hid: hid, ktype: ktype})

		v, err := r.term()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}

	stringClash := false
	for _, k := range keys {
		if k.ktype == term.KeyString && hostSeen[k.hid] > 1 {
			stringClash = true
			break
		}
	}

	m := term.Map{Entries: make([]term.MapEntry, len(keys))}
	kt := term.KeyDefault
	mixed := false
	for i, k := range keys {
		key := k.host
		switch {
		case hostSeen[k.hid] > 1:
			key = wireKey(k.raw)
			mixed = true
		case stringClash && k.ktype == term.KeyBinary && len(k.host.(term.String)) > wire.MaxTextLen:
			// too long to be written back as a string
			key = k.raw
		case k.ktype == term.KeyDefault:
		case kt == term.KeyDefault:
			kt = k.ktype
		case kt != k.ktype:
			mixed = true
		}
		m.Entries[i] = term.MapEntry{Key: key, Value: vals[i]}
	}
	switch {
	case stringClash:
		// the colliding string key stays a String and must be written as one
		m.KeyType = term.KeyString
	case !mixed:
		m.KeyType = kt
	}
	return m, nil
}

// mapKey converts a decoded key to its host form and reports the key type
// it was written with.
func mapKey(k term.Term) (term.Term, term.KeyType) {
	if name, ok := atomName(k); ok {
		return term.String(name), term.KeyAtom
	}
	switch v := k.(type) {
	case term.Binary:
		return term.String(v), term.KeyBinary
	case term.String:
		return v, term.KeyString
	}
	return k, term.KeyDefault
}

// wireKey is the form of a text key that stays distinct from the other
// text kinds.
func wireKey(k term.Term) term.Term {
	if name, ok := atomName(k); ok {
		return term.Atom(name)
	}
	return k
}

// atomName reports the atom text of decoded atoms, including those
// canonicalized to Bool, Null and Undefined.
func atomName(k term.Term) (string, bool) {
	switch v := k.(type) {
	case term.Atom:
		return string(v), true
	case term.Bool:
		if v {
			return atomTrue, true
		}
		return atomFalse, true
	case term.Null:
		return atomNull, true
	case term.Undefined:
		return atomUndefined, true
	}
	return "", false
}

// keyIdentity returns the identity of a decoded key on the wire and after
// conversion to its host form. Text keys of different kinds differ on the
// wire but share a host identity.
func (r *reader) keyIdentity(k term.Term) (wireID, hostID string, err error) {
	if name, ok := atomName(k); ok {
		return "a" + name, "s" + name, nil
	}
	switch v := k.(type) {
	case term.Binary:
		return "b" + string(v), "s" + string(v), nil
	case term.String:
		return "k" + string(v), "s" + string(v), nil
	}
	enc := NewEncoder(EncodeOptions{MapKeyType: term.KeyBinary})
	b, err := enc.Encode(k)
	if err != nil {
		return "", "", errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "map key")
	}
	return "t" + string(b), "t" + string(b), nil
}

func (r *reader) pid(tag byte) (term.Term, error) {
	node, err := r.node(tag)
	if err != nil {
		return nil, err
	}
	id, err := r.u32(tag)
	if err != nil {
		return nil, err
	}
	serial, err := r.u32(tag)
	if err != nil {
		return nil, err
	}
	creation, err := r.u8(tag)
	if err != nil {
		return nil, err
	}
	return term.NewPid(node, id, serial, creation), nil
}

func (r *reader) ref(tag byte, start int) (term.Term, error) {
	n, err := r.u16(tag)
	if err != nil {
		return nil, err
	}
	if n > term.MaxRefIDs {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidArity).
			Offset(start).
			Tag(tag).
			Value(int(n)).
			Detail("reference with %d ids exceeds %d", n, term.MaxRefIDs).
			Build()
	}
	node, err := r.node(tag)
	if err != nil {
		return nil, err
	}
	creation, err := r.u8(tag)
	if err != nil {
		return nil, err
	}
	ids := make([]uint32, n)
	for i := range ids {
		if ids[i], err = r.u32(tag); err != nil {
			return nil, err
		}
	}
	return term.Ref{Node: node, Creation: creation & term.PidCreationMask, IDs: ids}, nil
}

// node reads the atom naming a node. It is never canonicalized.
func (r *reader) node(owner byte) (term.Atom, error) {
	at := r.off()
	tag, err := r.u8(owner)
	if err != nil {
		return "", err
	}
	var s string
	switch tag {
	case wire.Atom, wire.AtomUTF8:
		s, err = r.text16(tag)
	case wire.SmallAtom, wire.SmallAtomUTF8:
		s, err = r.text8(tag)
	default:
		return "", errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(at).
			Tag(tag).
			Detail("node name must be an atom, found %s", tagName(tag)).
			Build()
	}
	return term.Atom(s), err
}

func tagName(tag byte) string {
	if n, ok := wire.Names[tag]; ok {
		return n
	}
	return "tag " + strconv.Itoa(int(tag))
}
