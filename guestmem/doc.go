// Package guestmem runs the codec directly against WebAssembly linear
// memory hosted by wazero.
//
// A host passes terms to a guest module by encoding them into memory the
// guest allocated, then handing over the pointer and length:
//
//	mem := guestmem.Wrap(mod.ExportedMemory("memory"))
//	alloc := guestmem.WrapAllocator(ctx, mod.ExportedFunction("cabi_realloc"))
//	r, err := guestmem.Encode(mem, alloc, t, codec.DefaultEncodeOptions())
//
// Results flow back the same way:
//
//	t, err := guestmem.Decode(mem, guestmem.Region{Ptr: ptr, Len: n}, codec.DefaultDecodeOptions())
package guestmem
