package codec

import (
	"math"
	"math/big"

	"go.uber.org/zap"

	"github.com/wippyai/etf"
	"github.com/wippyai/etf/codec/internal/wire"
	"github.com/wippyai/etf/errors"
	"github.com/wippyai/etf/term"
)

// Version is the leading byte of every encoding.
const Version = wire.Version

// Encoder writes terms in the external term format. An Encoder holds only
// its options and is safe for concurrent use.
type Encoder struct {
	opts EncodeOptions
}

// NewEncoder returns an encoder with the given options.
func NewEncoder(opts EncodeOptions) *Encoder {
	return &Encoder{opts: opts}
}

// Encode returns the encoding of t with default options.
func Encode(t term.Term) ([]byte, error) {
	return NewEncoder(DefaultEncodeOptions()).Encode(t)
}

// EncodeWithOptions returns the encoding of t.
func EncodeWithOptions(t term.Term, opts EncodeOptions) ([]byte, error) {
	return NewEncoder(opts).Encode(t)
}

// EncodeValue lifts a Go value with term.Lift and encodes the result.
func EncodeValue(v any, opts EncodeOptions) ([]byte, error) {
	t, err := term.Lift(v)
	if err != nil {
		return nil, err
	}
	return NewEncoder(opts).Encode(t)
}

// Encode sizes t, allocates the exact buffer and writes the version byte
// followed by the term.
func (e *Encoder) Encode(t term.Term) ([]byte, error) {
	size, err := e.Size(t)
	if err != nil {
		return nil, err
	}
	buf := NewBuffer(1 + size)
	if _, err := e.encodeTo(buf, 0, t, size); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo writes the encoding of t into mem at offset and returns the
// number of bytes written. If mem reports its size, a term that does not
// fit is rejected before anything is written.
func (e *Encoder) EncodeTo(mem etf.Memory, offset uint32, t term.Term) (uint32, error) {
	size, err := e.Size(t)
	if err != nil {
		return 0, err
	}
	if sz, ok := mem.(etf.MemorySizer); ok {
		if uint64(offset)+1+uint64(size) > uint64(sz.Size()) {
			return 0, errors.New(errors.PhaseEncode, errors.KindTruncatedBuffer).
				Offset(int(offset)).
				Detail("need %d bytes, memory has %d after offset", 1+size, int64(sz.Size())-int64(offset)).
				Build()
		}
	}
	return e.encodeTo(mem, offset, t, size)
}

func (e *Encoder) encodeTo(mem etf.Memory, offset uint32, t term.Term, size int) (uint32, error) {
	if uint64(offset)+1+uint64(size) > math.MaxUint32 {
		return 0, errors.Unencodable(errors.PhaseEncode, nil, size, "encoding exceeds 32-bit address space")
	}
	w := writer{enc: e, mem: mem, base: offset, pos: offset}
	w.u8(wire.Version)
	w.term(t)
	if w.err != nil {
		return 0, w.err
	}
	written := int(w.pos - offset)
	if written != 1+size {
		Logger().Warn("encoded length differs from size estimate",
			zap.Int("written", written),
			zap.Int("estimated", 1+size))
		return 0, errors.SizeMismatch(written, 1+size)
	}
	Logger().Debug("encoded term", zap.Int("bytes", written))
	return uint32(written), nil
}

// writer appends to mem. The first failure sticks and later writes are
// skipped.
type writer struct {
	enc  *Encoder
	mem  etf.Memory
	err  error
	base uint32
	pos  uint32
}

func (w *writer) fail(err error) {
	if w.err == nil {
		w.err = errors.New(errors.PhaseEncode, errors.KindTruncatedBuffer).
			Offset(int(w.pos - w.base)).
			Cause(err).
			Detail("write failed").
			Build()
	}
}

func (w *writer) u8(v uint8) {
	if w.err != nil {
		return
	}
	if err := w.mem.WriteU8(w.pos, v); err != nil {
		w.fail(err)
		return
	}
	w.pos++
}

func (w *writer) u16(v uint16) {
	if w.err != nil {
		return
	}
	if err := w.mem.WriteU16(w.pos, v); err != nil {
		w.fail(err)
		return
	}
	w.pos += 2
}

func (w *writer) u32(v uint32) {
	if w.err != nil {
		return
	}
	if err := w.mem.WriteU32(w.pos, v); err != nil {
		w.fail(err)
		return
	}
	w.pos += 4
}

func (w *writer) u64(v uint64) {
	if w.err != nil {
		return
	}
	if err := w.mem.WriteU64(w.pos, v); err != nil {
		w.fail(err)
		return
	}
	w.pos += 8
}

func (w *writer) bytes(b []byte) {
	if w.err != nil || len(b) == 0 {
		return
	}
	if err := w.mem.Write(w.pos, b); err != nil {
		w.fail(err)
		return
	}
	w.pos += uint32(len(b))
}

func (w *writer) term(t term.Term) {
	if w.err != nil {
		return
	}
	switch v := t.(type) {
	case nil:
		w.atom(atomNull)
	case term.Int:
		w.int(int64(v))
	case term.BigInt:
		w.big(v.Value)
	case term.Float:
		w.u8(wire.NewFloat)
		w.u64(math.Float64bits(float64(v)))
	case term.Atom:
		w.atom(string(v))
	case term.Bool:
		if v {
			w.atom(atomTrue)
		} else {
			w.atom(atomFalse)
		}
	case term.Null:
		w.atom(atomNull)
	case term.Undefined:
		w.atom(atomUndefined)
	case term.String:
		w.u8(wire.String)
		w.u16(uint16(len(v)))
		w.bytes([]byte(v))
	case term.Binary:
		w.binary(v)
	case term.Tuple:
		w.tupleHeader(len(v))
		for _, el := range v {
			w.term(el)
		}
	case term.List:
		w.list(len(v), func(i int) { w.term(v[i]) })
	case term.Proplist:
		w.list(len(v), func(i int) {
			w.tupleHeader(2)
			w.atom(v[i].Key)
			w.term(v[i].Value)
		})
	case term.Map:
		kt := w.enc.opts.keyType(v)
		w.u8(wire.Map)
		w.u32(uint32(len(v.Entries)))
		for _, entry := range v.Entries {
			w.key(entry.Key, kt)
			w.term(entry.Value)
		}
	case term.Pid:
		w.u8(wire.Pid)
		w.atom(string(v.Node))
		w.u32(v.ID())
		w.u32(v.Serial())
		w.u8(v.Creation())
	case term.Ref:
		w.u8(wire.NewReference)
		w.u16(uint16(len(v.IDs)))
		w.atom(string(v.Node))
		w.u8(v.Creation & term.PidCreationMask)
		for _, id := range v.IDs {
			w.u32(id)
		}
	default:
		w.err = errors.Unencodable(errors.PhaseEncode, nil, t, "not a term variant")
	}
}

func (w *writer) atom(s string) {
	w.u8(wire.Atom)
	w.u16(uint16(len(s)))
	w.bytes([]byte(s))
}

func (w *writer) binary(b []byte) {
	w.u8(wire.Binary)
	w.u32(uint32(len(b)))
	w.bytes(b)
}

func (w *writer) tupleHeader(n int) {
	if n <= math.MaxUint8 {
		w.u8(wire.SmallTuple)
		w.u8(uint8(n))
		return
	}
	w.u8(wire.LargeTuple)
	w.u32(uint32(n))
}

func (w *writer) list(n int, elem func(i int)) {
	if n == 0 {
		w.u8(wire.Nil)
		return
	}
	w.u8(wire.List)
	w.u32(uint32(n))
	for i := 0; i < n; i++ {
		elem(i)
	}
	w.u8(wire.Nil)
}

// key writes a map key. String keys follow the key type; other terms are
// written as themselves.
func (w *writer) key(k term.Term, kt term.KeyType) {
	s, ok := k.(term.String)
	if !ok {
		w.term(k)
		return
	}
	switch kt {
	case term.KeyAtom:
		w.atom(string(s))
	case term.KeyString:
		w.u8(wire.String)
		w.u16(uint16(len(s)))
		w.bytes([]byte(s))
	default:
		w.binary([]byte(s))
	}
}

func (w *writer) int(v int64) {
	switch wire.ClassifyInt(v) {
	case wire.ClassSmall:
		w.u8(wire.SmallInteger)
		w.u8(uint8(v))
	case wire.ClassInt32:
		w.u8(wire.Integer)
		w.u32(uint32(int32(v)))
	default:
		mag, neg := wire.Magnitude(v)
		w.bigHeader(len(mag), neg)
		w.bytes(mag)
	}
}

func (w *writer) big(v *big.Int) {
	if v == nil {
		w.err = errors.Unencodable(errors.PhaseEncode, nil, v, "nil big integer")
		return
	}
	if wire.ClassifyBig(v) != wire.ClassBig {
		w.int(v.Int64())
		return
	}
	mag, neg := wire.BigMagnitude(v)
	w.bigHeader(len(mag), neg)
	w.bytes(mag)
}

func (w *writer) bigHeader(n int, neg bool) {
	if n <= math.MaxUint8 {
		w.u8(wire.SmallBig)
		w.u8(uint8(n))
	} else {
		w.u8(wire.LargeBig)
		w.u32(uint32(n))
	}
	if neg {
		w.u8(1)
	} else {
		w.u8(0)
	}
}
