package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/wippyai/etf"
)

// Buffer is a fixed-size byte buffer implementing etf.Memory.
// It never grows; writes past the end fail.
type Buffer struct {
	data []byte
}

var (
	_ etf.Memory      = (*Buffer)(nil)
	_ etf.MemorySizer = (*Buffer)(nil)
)

// NewBuffer allocates a zeroed buffer of n bytes.
func NewBuffer(n int) *Buffer {
	return &Buffer{data: make([]byte, n)}
}

// WrapBuffer uses data as the buffer contents without copying.
func WrapBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Bytes returns the underlying slice.
func (b *Buffer) Bytes() []byte { return b.data }

// Size returns the buffer length.
func (b *Buffer) Size() uint32 { return uint32(len(b.data)) }

func (b *Buffer) span(offset, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(b.data)) {
		return nil, fmt.Errorf("buffer access out of bounds: offset=%d, length=%d, size=%d", offset, length, len(b.data))
	}
	return b.data[offset:end], nil
}

// Read returns length bytes at offset. The slice aliases the buffer.
func (b *Buffer) Read(offset uint32, length uint32) ([]byte, error) {
	return b.span(offset, length)
}

// Write copies data to offset.
func (b *Buffer) Write(offset uint32, data []byte) error {
	s, err := b.span(offset, uint32(len(data)))
	if err != nil {
		return err
	}
	copy(s, data)
	return nil
}

// ReadU8 reads an unsigned 8-bit value.
func (b *Buffer) ReadU8(offset uint32) (uint8, error) {
	s, err := b.span(offset, 1)
	if err != nil {
		return 0, err
	}
	return s[0], nil
}

// ReadU16 reads an unsigned 16-bit big-endian value.
func (b *Buffer) ReadU16(offset uint32) (uint16, error) {
	s, err := b.span(offset, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(s), nil
}

// ReadU32 reads an unsigned 32-bit big-endian value.
func (b *Buffer) ReadU32(offset uint32) (uint32, error) {
	s, err := b.span(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(s), nil
}

// ReadU64 reads an unsigned 64-bit big-endian value.
func (b *Buffer) ReadU64(offset uint32) (uint64, error) {
	s, err := b.span(offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(s), nil
}

// WriteU8 writes an unsigned 8-bit value.
func (b *Buffer) WriteU8(offset uint32, value uint8) error {
	s, err := b.span(offset, 1)
	if err != nil {
		return err
	}
	s[0] = value
	return nil
}

// WriteU16 writes an unsigned 16-bit big-endian value.
func (b *Buffer) WriteU16(offset uint32, value uint16) error {
	s, err := b.span(offset, 2)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint16(s, value)
	return nil
}

// WriteU32 writes an unsigned 32-bit big-endian value.
func (b *Buffer) WriteU32(offset uint32, value uint32) error {
	s, err := b.span(offset, 4)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint32(s, value)
	return nil
}

// WriteU64 writes an unsigned 64-bit big-endian value.
func (b *Buffer) WriteU64(offset uint32, value uint64) error {
	s, err := b.span(offset, 8)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint64(s, value)
	return nil
}
