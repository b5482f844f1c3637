// Package etf provides a Go implementation of the Erlang External Term Format.
//
// The library encodes Go values and explicit terms into the standard
// `[131][tag][payload...]` wire representation and decodes any conformant
// buffer back into an equivalent term.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	etf/                 Root package with the Memory buffer interface
//	├── term/            Closed term model, constructors, Lift, Equal
//	├── codec/           Size estimator, encoder and decoder
//	├── format/          Erlang-syntax printer and literal parser
//	├── guestmem/        wazero linear memory adapter
//	├── config/          TOML configuration for the etf command
//	├── errors/          Structured error types
//	└── cmd/etf/         Command line encoder, decoder and inspector
//
// # Quick Start
//
// Encode an explicit term:
//
//	data, err := codec.Encode(term.NewTuple(term.Atom("ok"), term.Int(42)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// data = [131 104 2 100 0 2 111 107 97 42]
//
// Encode a plain Go value (lifted by the canonicalization rules):
//
//	data, err := codec.EncodeValue(map[string]any{"a": 1, "b": 2}, codec.DefaultEncodeOptions())
//	// #{<<"a">> => 1, <<"b">> => 2}
//
// Decode:
//
//	t, err := codec.Decode(data)
//	fmt.Println(format.Term(t))
//
// # Canonicalization
//
// Plain text encodes as the wire string type. Atoms and binaries always
// need explicit construction. The atoms true, false, undefined and null
// decode to term.Bool, term.Undefined and term.Null, so an atom literally
// named true is indistinguishable from the boolean.
//
// A decoded list of {atom, value} pairs with distinct keys folds into a
// term.Proplist unless DecodeOptions.FoldProplists is off. The Proplist
// encodes back to the same list of pairs.
//
// # Thread Safety
//
// Encoder and Decoder are immutable after construction and safe for
// concurrent use. Terms are plain values and are never mutated by the codec.
package etf
