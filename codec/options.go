package codec

import "github.com/wippyai/etf/term"

// EncodeOptions configures an Encoder.
type EncodeOptions struct {
	// MapKeyType selects how String keys of a Map are written when the map
	// does not set its own KeyType. The zero value writes binaries.
	MapKeyType term.KeyType
}

// DecodeOptions configures a Decoder.
type DecodeOptions struct {
	// FoldProplists turns a decoded list of {atom, value} pairs with
	// distinct keys into a term.Proplist. The fold is lossy: a genuine
	// list of pairs cannot be told apart from an encoded proplist.
	FoldProplists bool

	// MaxDepth bounds how deeply tuples, lists and maps may nest. Deeper
	// input fails with an invalid data error. Zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultMaxDepth is the nesting limit used when DecodeOptions.MaxDepth is
// zero.
const DefaultMaxDepth = 10000

// DefaultEncodeOptions returns binary map keys.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{MapKeyType: term.KeyBinary}
}

// DefaultDecodeOptions returns the options used by Decode.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{FoldProplists: true, MaxDepth: DefaultMaxDepth}
}

func (o DecodeOptions) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// keyType resolves the key type for m.
func (o EncodeOptions) keyType(m term.Map) term.KeyType {
	if m.KeyType != term.KeyDefault {
		return m.KeyType
	}
	if o.MapKeyType != term.KeyDefault {
		return o.MapKeyType
	}
	return term.KeyBinary
}
