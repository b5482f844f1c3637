package codec

import (
	"bytes"
	"errors"
	"math"
	"testing"

	etferrors "github.com/wippyai/etf/errors"
	"github.com/wippyai/etf/term"
)

func TestDecode_Vectors(t *testing.T) {
	for _, tt := range encodeVectors(t) {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.want)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !term.Equal(got, tt.term) {
				t.Errorf("Decode = %#v, want %#v", got, tt.term)
			}
		})
	}
}

func TestDecode_Canonicalization(t *testing.T) {
	tests := []struct {
		want term.Term
		name string
		data []byte
	}{
		{name: "true", data: []byte{131, 100, 0, 4, 116, 114, 117, 101}, want: term.Bool(true)},
		{name: "false", data: []byte{131, 100, 0, 5, 102, 97, 108, 115, 101}, want: term.Bool(false)},
		{name: "null", data: []byte{131, 100, 0, 4, 110, 117, 108, 108}, want: term.Null{}},
		{name: "undefined", data: []byte{131, 100, 0, 9, 117, 110, 100, 101, 102, 105, 110, 101, 100}, want: term.Undefined{}},
		{name: "small atom", data: []byte{131, 115, 2, 111, 107}, want: term.Atom("ok")},
		{name: "small utf8 atom true", data: []byte{131, 119, 4, 116, 114, 117, 101}, want: term.Bool(true)},
		{name: "utf8 atom", data: []byte{131, 118, 0, 2, 195, 169}, want: term.Atom("é")},
		{name: "zero width big", data: []byte{131, 110, 0, 0}, want: term.Int(0)},
		{name: "large big", data: []byte{131, 111, 0, 0, 0, 1, 1, 5}, want: term.Int(-5)},
		{name: "int32", data: []byte{131, 98, 128, 0, 0, 0}, want: term.Int(math.MinInt32)},
		{
			name: "min int64",
			data: []byte{131, 110, 8, 1, 0, 0, 0, 0, 0, 0, 0, 128},
			want: term.Int(math.MinInt64),
		},
		{
			name: "max uint64",
			data: []byte{131, 110, 8, 0, 255, 255, 255, 255, 255, 255, 255, 255},
			want: term.NewBigInt(bigFromString(t, "18446744073709551615")),
		},
		{
			name: "negative max uint64",
			data: []byte{131, 110, 8, 1, 255, 255, 255, 255, 255, 255, 255, 255},
			want: term.NewBigInt(bigFromString(t, "-18446744073709551615")),
		},
		{name: "empty binary", data: []byte{131, 109, 0, 0, 0, 0}, want: term.Binary{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !term.Equal(got, tt.want) {
				t.Errorf("Decode = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecode_LegacyFloat(t *testing.T) {
	text := "1.50000000000000000000e+00"
	data := append([]byte{131, 99}, text...)
	data = append(data, make([]byte, 31-len(text))...)

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != term.Float(1.5) {
		t.Errorf("Decode = %#v, want 1.5", got)
	}
}

func TestDecode_LegacyFloatMalformed(t *testing.T) {
	data := append([]byte{131, 99}, make([]byte, 31)...)
	copy(data[2:], "not a float")
	_, err := Decode(data)
	if !errors.Is(err, etferrors.ErrInvalidData) {
		t.Errorf("err = %v, want invalid data", err)
	}
}

func TestDecode_ProplistFold(t *testing.T) {
	data := []byte{131, 108, 0, 0, 0, 2, 104, 2, 100, 0, 1, 97, 97, 1, 104, 2, 100, 0, 1, 98, 97, 2, 106}

	folded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	p, ok := folded.(term.Proplist)
	if !ok {
		t.Fatalf("Decode = %T, want term.Proplist", folded)
	}
	if v, _ := p.Get("b"); v != term.Int(2) {
		t.Errorf("b = %v, want 2", v)
	}

	raw, err := DecodeWithOptions(data, DecodeOptions{FoldProplists: false})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	l, ok := raw.(term.List)
	if !ok {
		t.Fatalf("Decode without fold = %T, want term.List", raw)
	}
	if len(l) != 2 {
		t.Errorf("len = %d, want 2", len(l))
	}

	// both forms encode to the same bytes
	for _, v := range []term.Term{folded, raw} {
		got, err := Encode(v)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("re-encode of %T = %v, want %v", v, got, data)
		}
	}
}

func TestDecode_NoFoldOnRepeatedKeys(t *testing.T) {
	data := []byte{131, 108, 0, 0, 0, 2, 104, 2, 100, 0, 1, 97, 97, 1, 104, 2, 100, 0, 1, 97, 97, 2, 106}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, ok := got.(term.List); !ok {
		t.Errorf("Decode = %T, want term.List", got)
	}
}

func TestDecode_MapKeys(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		keyType term.KeyType
	}{
		{
			name:    "binary",
			data:    []byte{131, 116, 0, 0, 0, 1, 109, 0, 0, 0, 1, 97, 97, 1},
			keyType: term.KeyBinary,
		},
		{
			name:    "atom",
			data:    []byte{131, 116, 0, 0, 0, 1, 100, 0, 1, 97, 97, 1},
			keyType: term.KeyAtom,
		},
		{
			name:    "string",
			data:    []byte{131, 116, 0, 0, 0, 1, 107, 0, 1, 97, 97, 1},
			keyType: term.KeyString,
		},
		{
			name:    "mixed",
			data:    []byte{131, 116, 0, 0, 0, 2, 100, 0, 1, 97, 97, 1, 107, 0, 1, 98, 97, 2},
			keyType: term.KeyDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			m, ok := got.(term.Map)
			if !ok {
				t.Fatalf("Decode = %T, want term.Map", got)
			}
			if m.KeyType != tt.keyType {
				t.Errorf("KeyType = %s, want %s", m.KeyType, tt.keyType)
			}
			if v, ok := m.Get(term.String("a")); !ok || v != term.Int(1) {
				t.Errorf("a = %v, %v; want 1", v, ok)
			}
		})
	}
}

func TestDecode_MapKeyNamedTrue(t *testing.T) {
	data := []byte{131, 116, 0, 0, 0, 1, 100, 0, 4, 116, 114, 117, 101, 97, 1}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	m := got.(term.Map)
	if _, ok := m.Get(term.String("true")); !ok {
		t.Errorf("key true should decode as text, got %#v", m.Entries[0].Key)
	}
}

func TestDecode_MapRoundTripKeepsKeyTags(t *testing.T) {
	data := []byte{131, 116, 0, 0, 0, 2, 100, 0, 1, 97, 97, 1, 100, 0, 1, 98, 97, 2}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	out, err := Encode(got)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("re-encode = %v, want %v", out, data)
	}
}

func TestDecode_MapKeysCollidingAsText(t *testing.T) {
	// #{a => 1, <<"a">> => 2}
	data := []byte{131, 116, 0, 0, 0, 2, 100, 0, 1, 'a', 97, 1, 109, 0, 0, 0, 1, 'a', 97, 2}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := term.NewMap(term.KeyDefault,
		term.Entry(term.Atom("a"), term.Int(1)),
		term.Entry(term.Binary("a"), term.Int(2)),
	)
	if !term.Equal(got, want) {
		t.Fatalf("Decode = %#v, want %#v", got, want)
	}
	if m := got.(term.Map); m.KeyType != term.KeyDefault {
		t.Errorf("KeyType = %s, want default", m.KeyType)
	}

	out, err := Encode(got)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("re-encode = %v, want %v", out, data)
	}
}

func TestDecode_MapKeysCollidingKeepOthersAsText(t *testing.T) {
	// #{true => 1, <<"true">> => 2, <<"x">> => 3}
	data := []byte{131, 116, 0, 0, 0, 3,
		100, 0, 4, 't', 'r', 'u', 'e', 97, 1,
		109, 0, 0, 0, 4, 't', 'r', 'u', 'e', 97, 2,
		109, 0, 0, 0, 1, 'x', 97, 3,
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := term.NewMap(term.KeyDefault,
		term.Entry(term.Atom("true"), term.Int(1)),
		term.Entry(term.Binary("true"), term.Int(2)),
		term.Entry(term.String("x"), term.Int(3)),
	)
	if !term.Equal(got, want) {
		t.Errorf("Decode = %#v, want %#v", got, want)
	}
}

func TestDecode_MapStringKeyCollision(t *testing.T) {
	// #{"a" => 1, <<"a">> => 2, c => 3} with "a" as a string
	data := []byte{131, 116, 0, 0, 0, 3,
		107, 0, 1, 'a', 97, 1,
		109, 0, 0, 0, 1, 'a', 97, 2,
		100, 0, 1, 'c', 97, 3,
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	m, ok := got.(term.Map)
	if !ok {
		t.Fatalf("Decode = %T, want term.Map", got)
	}
	if m.KeyType != term.KeyString {
		t.Errorf("KeyType = %s, want string", m.KeyType)
	}
	want := term.NewMap(term.KeyString,
		term.Entry(term.String("a"), term.Int(1)),
		term.Entry(term.Binary("a"), term.Int(2)),
		term.Entry(term.String("c"), term.Int(3)),
	)
	if !term.Equal(m, want) {
		t.Fatalf("Decode = %#v, want %#v", m, want)
	}

	out, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	again, err := Decode(out)
	if err != nil {
		t.Fatalf("Decode of re-encoded map: %v", err)
	}
	if !term.Equal(again, m) {
		t.Errorf("round trip = %#v, want %#v", again, m)
	}
}

func nestedTuples(depth int) []byte {
	data := make([]byte, 0, 2+2*depth)
	data = append(data, 131)
	for i := 0; i < depth; i++ {
		data = append(data, 104, 1)
	}
	return append(data, 106)
}

func TestDecode_MaxDepth(t *testing.T) {
	if _, err := Decode(nestedTuples(DefaultMaxDepth)); err != nil {
		t.Fatalf("Decode at the limit: %v", err)
	}

	tests := []struct {
		name   string
		data   []byte
		opts   DecodeOptions
		offset int
		tag    int
	}{
		{name: "default limit", data: nestedTuples(DefaultMaxDepth + 1), opts: DefaultDecodeOptions(), offset: 1 + 2*DefaultMaxDepth, tag: 104},
		{name: "far past the limit", data: nestedTuples(1_000_000), opts: DefaultDecodeOptions(), offset: 1 + 2*DefaultMaxDepth, tag: 104},
		{name: "zero means default", data: nestedTuples(DefaultMaxDepth + 1), opts: DecodeOptions{}, offset: 1 + 2*DefaultMaxDepth, tag: 104},
		{
			name:   "custom limit with lists and maps",
			data:   []byte{131, 108, 0, 0, 0, 1, 116, 0, 0, 0, 1, 97, 1, 104, 0, 106},
			opts:   DecodeOptions{MaxDepth: 2},
			offset: 13,
			tag:    104,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeWithOptions(tt.data, tt.opts)
			if !errors.Is(err, etferrors.ErrInvalidData) {
				t.Fatalf("err = %v, want invalid data", err)
			}
			if got != nil {
				t.Errorf("partial term returned: %#v", got)
			}
			var e *etferrors.Error
			if !errors.As(err, &e) {
				t.Fatalf("err is %T, want *errors.Error", err)
			}
			if e.Offset != tt.offset || e.Tag != tt.tag {
				t.Errorf("offset, tag = %d, %d, want %d, %d", e.Offset, e.Tag, tt.offset, tt.tag)
			}
		})
	}
}

func TestDecode_Pid(t *testing.T) {
	// fields wider than their bit widths are masked
	data := []byte{131, 103, 100, 0, 3, 97, 64, 98, 255, 255, 255, 255, 0, 0, 0, 5, 7}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	p, ok := got.(term.Pid)
	if !ok {
		t.Fatalf("Decode = %T, want term.Pid", got)
	}
	if p.Node != "a@b" || p.ID() != 0x7fff || p.Serial() != 5 || p.Creation() != 3 {
		t.Errorf("pid = %s %d %d %d", p.Node, p.ID(), p.Serial(), p.Creation())
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		target error
		name   string
		data   []byte
		offset int
		tag    int
	}{
		{name: "empty", data: nil, target: etferrors.ErrTruncatedBuffer, offset: 0},
		{name: "bad version", data: []byte{130, 97, 1}, target: etferrors.ErrInvalidVersion, offset: 0},
		{name: "version only", data: []byte{131}, target: etferrors.ErrTruncatedBuffer, offset: 1},
		{name: "trailing", data: []byte{131, 97, 1, 0}, target: etferrors.ErrTrailingData, offset: 3},
		{name: "unknown tag", data: []byte{131, 200}, target: etferrors.ErrUnknownTag, offset: 1, tag: 200},
		{name: "short int32", data: []byte{131, 98, 0, 0}, target: etferrors.ErrTruncatedBuffer, offset: 2, tag: 98},
		{name: "short binary", data: []byte{131, 109, 0, 0, 0, 4, 1}, target: etferrors.ErrTruncatedBuffer, offset: 6, tag: 109},
		{name: "short atom", data: []byte{131, 100, 0, 5, 104}, target: etferrors.ErrTruncatedBuffer, offset: 4, tag: 100},
		{name: "short float", data: []byte{131, 70, 64}, target: etferrors.ErrTruncatedBuffer, offset: 2, tag: 70},
		{name: "huge list", data: []byte{131, 108, 255, 255, 255, 255}, target: etferrors.ErrTruncatedBuffer, offset: 6, tag: 108},
		{name: "huge tuple", data: []byte{131, 105, 255, 255, 255, 255}, target: etferrors.ErrTruncatedBuffer, offset: 6, tag: 105},
		{name: "huge map", data: []byte{131, 116, 0, 1, 0, 0}, target: etferrors.ErrTruncatedBuffer, offset: 6, tag: 116},
		{name: "missing list tail", data: []byte{131, 108, 0, 0, 0, 1, 97, 1}, target: etferrors.ErrTruncatedBuffer},
		{
			name:   "improper list",
			data:   []byte{131, 108, 0, 0, 0, 1, 97, 1, 97, 2},
			target: etferrors.ErrInvalidData,
			offset: 8,
			tag:    97,
		},
		{
			name:   "nine byte big",
			data:   []byte{131, 110, 9, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
			target: etferrors.ErrIntegerTooLarge,
			offset: 1,
			tag:    110,
		},
		{
			name:   "large big too wide",
			data:   []byte{131, 111, 0, 0, 1, 0, 0},
			target: etferrors.ErrIntegerTooLarge,
			offset: 1,
			tag:    111,
		},
		{
			name:   "duplicate map key",
			data:   []byte{131, 116, 0, 0, 0, 2, 100, 0, 1, 97, 97, 1, 115, 1, 97, 97, 2},
			target: etferrors.ErrDuplicateMapKey,
			offset: 12,
		},
		{
			name:   "ref with four ids",
			data:   []byte{131, 114, 0, 4, 100, 0, 1, 110, 0, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4},
			target: etferrors.ErrInvalidArity,
			offset: 1,
			tag:    114,
		},
		{
			name:   "pid node not an atom",
			data:   []byte{131, 103, 97, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0},
			target: etferrors.ErrInvalidData,
			offset: 2,
			tag:    97,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data)
			if err == nil {
				t.Fatalf("Decode = %#v, want error", got)
			}
			if got != nil {
				t.Errorf("partial term returned: %#v", got)
			}
			if !errors.Is(err, tt.target) {
				t.Fatalf("err = %v, want %v", err, tt.target)
			}
			var e *etferrors.Error
			if !errors.As(err, &e) {
				t.Fatalf("err is %T, want *errors.Error", err)
			}
			if e.Phase != etferrors.PhaseDecode {
				t.Errorf("phase = %s, want decode", e.Phase)
			}
			if tt.offset != 0 && e.Offset != tt.offset {
				t.Errorf("offset = %d, want %d", e.Offset, tt.offset)
			}
			if tt.tag != 0 && e.Tag != tt.tag {
				t.Errorf("tag = %d, want %d", e.Tag, tt.tag)
			}
		})
	}
}

func TestDecodeFrom(t *testing.T) {
	mem := NewBuffer(32)
	enc := NewEncoder(DefaultEncodeOptions())
	n, err := enc.EncodeTo(mem, 10, term.NewTuple(term.Atom("ok"), term.Binary("hi")))
	if err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}

	got, err := NewDecoder(DefaultDecodeOptions()).DecodeFrom(mem, 10, n)
	if err != nil {
		t.Fatalf("DecodeFrom: %v", err)
	}
	if !term.Equal(got, term.NewTuple(term.Atom("ok"), term.Binary("hi"))) {
		t.Errorf("DecodeFrom = %#v", got)
	}

	// offsets in errors are relative to the start of the term
	_, err = NewDecoder(DefaultDecodeOptions()).DecodeFrom(mem, 10, n-1)
	var e *etferrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("err = %v, want *errors.Error", err)
	}
	if e.Offset < 0 || e.Offset >= int(n) {
		t.Errorf("offset = %d, want within [0, %d)", e.Offset, n)
	}
}

func TestDecode_BinaryIsCopied(t *testing.T) {
	data := []byte{131, 109, 0, 0, 0, 2, 1, 2}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	data[6] = 99
	if b := got.(term.Binary); b[0] != 1 {
		t.Errorf("decoded binary aliases input: %v", b)
	}
}
