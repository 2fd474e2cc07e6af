package protocol

import (
	"errors"
	"io"
	"math"
	"testing"
)

func TestEncoderDecoderRoundTrip(t *testing.T) {
	e := NewEncoder()
	e.WriteByte(0xAB)
	e.WriteUvarint(300)
	e.WriteSvarint(-42)
	e.WriteString("hello")
	e.WriteBool(true)
	e.WriteUint32(0xDEADBEEF)
	e.WriteFloat64(math.Pi)

	d := NewDecoder(e.Bytes())

	if b, err := d.ReadByte(); err != nil || b != 0xAB {
		t.Errorf("ReadByte() = %x, %v, want ab", b, err)
	}
	if v, err := d.ReadUvarint(); err != nil || v != 300 {
		t.Errorf("ReadUvarint() = %d, %v, want 300", v, err)
	}
	if v, err := d.ReadSvarint(); err != nil || v != -42 {
		t.Errorf("ReadSvarint() = %d, %v, want -42", v, err)
	}
	if s, err := d.ReadString(); err != nil || s != "hello" {
		t.Errorf("ReadString() = %q, %v, want hello", s, err)
	}
	if b, err := d.ReadBool(); err != nil || !b {
		t.Errorf("ReadBool() = %v, %v, want true", b, err)
	}
	if v, err := d.ReadUint32(); err != nil || v != 0xDEADBEEF {
		t.Errorf("ReadUint32() = %x, %v, want deadbeef", v, err)
	}
	if v, err := d.ReadFloat64(); err != nil || v != math.Pi {
		t.Errorf("ReadFloat64() = %v, %v, want pi", v, err)
	}
	if !d.EOF() {
		t.Errorf("Remaining() = %d, want 0", d.Remaining())
	}
}

func TestUvarintLengths(t *testing.T) {
	tests := []struct {
		value uint64
		bytes int
	}{
		{0, 1},
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
		{math.MaxUint32, 5},
		{math.MaxUint64, 10},
	}
	for _, tc := range tests {
		e := NewEncoder()
		e.WriteUvarint(tc.value)
		if e.Len() != tc.bytes {
			t.Errorf("WriteUvarint(%d) = %d bytes, want %d", tc.value, e.Len(), tc.bytes)
		}
		got, err := NewDecoder(e.Bytes()).ReadUvarint()
		if err != nil || got != tc.value {
			t.Errorf("ReadUvarint() = %d, %v, want %d", got, err, tc.value)
		}
	}
}

func TestDecoderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(*Decoder) error
		want error
	}{
		{
			name: "empty byte",
			data: nil,
			read: func(d *Decoder) error { _, err := d.ReadByte(); return err },
			want: io.ErrUnexpectedEOF,
		},
		{
			name: "varint overflow",
			data: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01},
			read: func(d *Decoder) error { _, err := d.ReadUvarint(); return err },
			want: ErrVarintOverflow,
		},
		{
			name: "string longer than buffer",
			data: []byte{0x05, 'a', 'b'},
			read: func(d *Decoder) error { _, err := d.ReadString(); return err },
			want: io.ErrUnexpectedEOF,
		},
		{
			name: "invalid bool",
			data: []byte{0x02},
			read: func(d *Decoder) error { _, err := d.ReadBool(); return err },
			want: ErrInvalidBool,
		},
		{
			name: "collection too large",
			data: []byte{0xFF, 0xFF, 0xFF, 0x7F},
			read: func(d *Decoder) error { _, err := d.ReadCollectionCount(); return err },
			want: ErrCollectionTooLarge,
		},
		{
			name: "collection larger than input",
			data: []byte{0x10, 0x00},
			read: func(d *Decoder) error { _, err := d.ReadCollectionCount(); return err },
			want: io.ErrUnexpectedEOF,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.read(NewDecoder(tc.data))
			if !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestEncoderReset(t *testing.T) {
	e := NewEncoder()
	e.WriteString("abc")
	e.Reset()
	if e.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", e.Len())
	}
}
