package protocol

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// Limits applied while decoding untrusted input.
const (
	// DefaultMaxAllocation bounds a single string (4MB).
	DefaultMaxAllocation = 4 << 20

	// MaxCollectionCount bounds the frames in one array.
	MaxCollectionCount = 100_000
)

var (
	ErrVarintOverflow     = errors.New("protocol: varint overflow")
	ErrInvalidBool        = errors.New("protocol: invalid boolean value")
	ErrAllocationTooLarge = errors.New("protocol: allocation size exceeds limit")
	ErrCollectionTooLarge = errors.New("protocol: collection count exceeds limit")
)

// Decoder reads primitives written by Encoder. Reads past the end fail
// with io.ErrUnexpectedEOF.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder reads from buf without copying it.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the unread length.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

// EOF reports whether the input is exhausted.
func (d *Decoder) EOF() bool { return d.Remaining() <= 0 }

// take consumes n bytes.
func (d *Decoder) take(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	p := d.buf[d.pos : d.pos+n]
	d.pos += n
	return p, nil
}

func (d *Decoder) ReadByte() (byte, error) {
	p, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// ReadBytes consumes n bytes. The result aliases the input.
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	return d.take(n)
}

func (d *Decoder) ReadUvarint() (uint64, error) {
	v, n := binary.Uvarint(d.buf[d.pos:])
	switch {
	case n == 0:
		return 0, io.ErrUnexpectedEOF
	case n < 0:
		return 0, ErrVarintOverflow
	}
	d.pos += n
	return v, nil
}

func (d *Decoder) ReadSvarint() (int64, error) {
	v, n := binary.Varint(d.buf[d.pos:])
	switch {
	case n == 0:
		return 0, io.ErrUnexpectedEOF
	case n < 0:
		return 0, ErrVarintOverflow
	}
	d.pos += n
	return v, nil
}

// ReadString reads a length-prefixed string.
func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if n > uint64(d.Remaining()) {
		return "", io.ErrUnexpectedEOF
	}
	if n > DefaultMaxAllocation {
		return "", ErrAllocationTooLarge
	}
	p, _ := d.take(int(n))
	return string(p), nil
}

// ReadBool accepts only 0 and 1.
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	if b > 1 {
		return false, ErrInvalidBool
	}
	return b == 1, nil
}

func (d *Decoder) ReadUint32() (uint32, error) {
	p, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

func (d *Decoder) ReadUint64() (uint64, error) {
	p, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(p), nil
}

func (d *Decoder) ReadFloat64() (float64, error) {
	v, err := d.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadCollectionCount reads an element count. Every element takes at least
// one byte, so counts beyond the remaining input fail before allocation.
func (d *Decoder) ReadCollectionCount() (int, error) {
	n, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if n > MaxCollectionCount {
		return 0, ErrCollectionTooLarge
	}
	if n > uint64(d.Remaining()) {
		return 0, io.ErrUnexpectedEOF
	}
	return int(n), nil
}
