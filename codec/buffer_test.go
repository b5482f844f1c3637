package codec

import (
	"bytes"
	"testing"
)

func TestBuffer_ReadWrite(t *testing.T) {
	b := NewBuffer(16)

	if err := b.WriteU8(0, 0xab); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteU16(1, 0x0102); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteU32(3, 0x03040506); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteU64(7, 0x0708090a0b0c0d0e); err != nil {
		t.Fatal(err)
	}
	if err := b.Write(15, []byte{0xff}); err != nil {
		t.Fatal(err)
	}

	want := []byte{0xab, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 0xff}
	if !bytes.Equal(b.Bytes(), want) {
		t.Fatalf("Bytes = %v, want %v", b.Bytes(), want)
	}

	if v, _ := b.ReadU8(0); v != 0xab {
		t.Errorf("ReadU8 = %#x", v)
	}
	if v, _ := b.ReadU16(1); v != 0x0102 {
		t.Errorf("ReadU16 = %#x", v)
	}
	if v, _ := b.ReadU32(3); v != 0x03040506 {
		t.Errorf("ReadU32 = %#x", v)
	}
	if v, _ := b.ReadU64(7); v != 0x0708090a0b0c0d0e {
		t.Errorf("ReadU64 = %#x", v)
	}
	if s, _ := b.Read(14, 2); !bytes.Equal(s, []byte{14, 0xff}) {
		t.Errorf("Read = %v", s)
	}
}

func TestBuffer_OutOfBounds(t *testing.T) {
	b := NewBuffer(4)

	tests := []struct {
		fn   func() error
		name string
	}{
		{name: "read u32 at end", fn: func() error { _, err := b.ReadU32(1); return err }},
		{name: "read u64", fn: func() error { _, err := b.ReadU64(0); return err }},
		{name: "write u16 past end", fn: func() error { return b.WriteU16(3, 1) }},
		{name: "write slice", fn: func() error { return b.Write(2, []byte{1, 2, 3}) }},
		{name: "read overflow", fn: func() error { _, err := b.Read(0xffffffff, 2); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); err == nil {
				t.Error("expected out of bounds error")
			}
		})
	}
	if !bytes.Equal(b.Bytes(), make([]byte, 4)) {
		t.Errorf("failed writes changed buffer: %v", b.Bytes())
	}
}

func TestKeyBufPool(t *testing.T) {
	buf := getKeyBuf(10)
	if len(*buf) != 10 {
		t.Fatalf("len = %d, want 10", len(*buf))
	}
	putKeyBuf(buf)

	big := getKeyBuf(poolMaxCap + 1)
	if cap(*big) < poolMaxCap+1 {
		t.Fatalf("cap = %d", cap(*big))
	}
	putKeyBuf(big) // dropped, not pooled
	putKeyBuf(nil)
}
