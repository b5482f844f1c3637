// Package codec encodes and decodes terms in the Erlang External Term Format.
//
//	┌──────────────────────────────────────────────────────────┐
//	│ term.Term ←→ [Encoder / Decoder] ←→ [131][tag][payload]  │
//	└──────────────────────────────────────────────────────────┘
//
// # Encoding
//
// Encoding runs in two passes. Size walks the term and returns the exact
// byte count; Encode allocates one buffer of that size plus the version
// byte and fills it. The integer width decision is shared by both passes,
// so a written length that differs from the estimate is reported as
// errors.ErrSizeMismatch rather than producing a short or padded buffer.
//
//	Term            Tag     Layout
//	────────────────────────────────────────────────────────────
//	Int 0..255      97      u8
//	Int int32       98      i32
//	Int / BigInt    110     n:u8 sign:u8 magnitude (little-endian)
//	                111     n:u32 sign:u8 magnitude
//	Float           70      f64
//	Atom            100     len:u16 bytes
//	Bool            100     true | false
//	Null            100     null
//	Undefined       100     undefined
//	String          107     len:u16 bytes
//	Binary          109     len:u32 bytes
//	Tuple           104     arity:u8 elems
//	                105     arity:u32 elems
//	List            106     (empty)
//	                108     len:u32 elems 106
//	Proplist        108     as a List of {Atom, Value}
//	Map             116     arity:u32 (key value)*
//	Pid             103     node id:u32 serial:u32 creation:u8
//	Ref             114     n:u16 node creation:u8 id:u32*
//
// String keys of a Map are written as binaries, atoms or strings per the
// map's KeyType, falling back to EncodeOptions.MapKeyType.
//
// # Decoding
//
// Decode accepts the tags above plus the legacy float (99) and the
// small and UTF-8 atom tags (115, 118, 119). Atoms named true, false, null
// and undefined become Bool, Null and Undefined. Map keys that arrive as
// atoms, binaries or strings become term.String. With FoldProplists set a
// list of {Atom, Value} pairs with distinct keys becomes a term.Proplist.
//
// Big integers wider than 8 magnitude bytes are rejected with
// errors.ErrIntegerTooLarge. Every error carries the byte offset it was
// found at; the whole input must be consumed.
//
// # Memory
//
// EncodeTo and DecodeFrom work against any etf.Memory, such as a Buffer
// or guest memory exposed by the guestmem package.
//
// # Concurrency
//
// Encoders and Decoders carry no per-call state and may be shared.
// Inputs are never modified.
package codec
