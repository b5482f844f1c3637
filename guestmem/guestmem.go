package guestmem

import (
	"github.com/wippyai/etf/codec"
	"github.com/wippyai/etf/term"
)

// Region is an encoded term placed in guest memory.
type Region struct {
	Ptr uint32
	Len uint32
}

// Encode sizes t, allocates exactly that many bytes in the guest and
// writes the encoding there.
func Encode(mem *Wrapper, alloc Allocator, t term.Term, opts codec.EncodeOptions) (Region, error) {
	enc := codec.NewEncoder(opts)
	size, err := enc.Size(t)
	if err != nil {
		return Region{}, err
	}
	ptr, err := alloc.Alloc(uint32(1+size), 1)
	if err != nil {
		return Region{}, err
	}
	n, err := enc.EncodeTo(mem, ptr, t)
	if err != nil {
		return Region{}, err
	}
	return Region{Ptr: ptr, Len: n}, nil
}

// EncodeAt writes the encoding of t at a caller-chosen offset.
func EncodeAt(mem *Wrapper, offset uint32, t term.Term, opts codec.EncodeOptions) (Region, error) {
	n, err := codec.NewEncoder(opts).EncodeTo(mem, offset, t)
	if err != nil {
		return Region{}, err
	}
	return Region{Ptr: offset, Len: n}, nil
}

// Decode reads the term stored in r. Binaries in the result are copies
// and stay valid after guest memory changes.
func Decode(mem *Wrapper, r Region, opts codec.DecodeOptions) (term.Term, error) {
	return codec.NewDecoder(opts).DecodeFrom(mem, r.Ptr, r.Len)
}
