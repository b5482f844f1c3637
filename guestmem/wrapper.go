package guestmem

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/etf"
)

var (
	_ etf.Memory      = (*Wrapper)(nil)
	_ etf.MemorySizer = (*Wrapper)(nil)
)

// Wrap adapts a guest linear memory to etf.Memory.
func Wrap(mem api.Memory) *Wrapper {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// WrapAllocator adapts a guest realloc export, called as
// realloc(0, 0, align, size), to Allocator.
func WrapAllocator(ctx context.Context, fn api.Function) *AllocatorWrapper {
	if fn == nil {
		return nil
	}
	return &AllocatorWrapper{Ctx: ctx, Fn: fn}
}

// Wrapper implements etf.Memory over wazero memory. Multi-byte values are
// big-endian, unlike wazero's own accessors.
type Wrapper struct {
	Mem api.Memory
}

// Size returns the current memory size in bytes.
func (m *Wrapper) Size() uint32 { return m.Mem.Size() }

// Read returns a view of guest memory. The view is invalidated when the
// guest grows its memory.
func (m *Wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, m.outOfBounds("read", offset, length)
	}
	return data, nil
}

// Write copies data into guest memory.
func (m *Wrapper) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return m.outOfBounds("write", offset, uint32(len(data)))
	}
	return nil
}

func (m *Wrapper) outOfBounds(op string, offset, length uint32) error {
	return fmt.Errorf("guest memory %s out of bounds: offset=%d, length=%d, size=%d", op, offset, length, m.Mem.Size())
}

// ReadU8 reads an unsigned 8-bit value.
func (m *Wrapper) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.Mem.ReadByte(offset)
	if !ok {
		return 0, m.outOfBounds("read", offset, 1)
	}
	return v, nil
}

// ReadU16 reads an unsigned 16-bit big-endian value.
func (m *Wrapper) ReadU16(offset uint32) (uint16, error) {
	b, err := m.Read(offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadU32 reads an unsigned 32-bit big-endian value.
func (m *Wrapper) ReadU32(offset uint32) (uint32, error) {
	b, err := m.Read(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadU64 reads an unsigned 64-bit big-endian value.
func (m *Wrapper) ReadU64(offset uint32) (uint64, error) {
	b, err := m.Read(offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// WriteU8 writes an unsigned 8-bit value.
func (m *Wrapper) WriteU8(offset uint32, value uint8) error {
	if !m.Mem.WriteByte(offset, value) {
		return m.outOfBounds("write", offset, 1)
	}
	return nil
}

// WriteU16 writes an unsigned 16-bit big-endian value.
func (m *Wrapper) WriteU16(offset uint32, value uint16) error {
	return m.Write(offset, binary.BigEndian.AppendUint16(nil, value))
}

// WriteU32 writes an unsigned 32-bit big-endian value.
func (m *Wrapper) WriteU32(offset uint32, value uint32) error {
	return m.Write(offset, binary.BigEndian.AppendUint32(nil, value))
}

// WriteU64 writes an unsigned 64-bit big-endian value.
func (m *Wrapper) WriteU64(offset uint32, value uint64) error {
	return m.Write(offset, binary.BigEndian.AppendUint64(nil, value))
}

// Allocator reserves guest memory for an encoded term.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
}

// AllocatorWrapper calls a guest realloc export.
type AllocatorWrapper struct {
	Ctx context.Context
	Fn  api.Function
}

// Alloc allocates size bytes in the guest.
func (a *AllocatorWrapper) Alloc(size, align uint32) (uint32, error) {
	res, err := a.Fn.Call(a.Ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, fmt.Errorf("guest alloc of %d bytes: %w", size, err)
	}
	if len(res) != 1 {
		return 0, fmt.Errorf("guest alloc returned %d results, want 1", len(res))
	}
	return uint32(res[0]), nil
}
