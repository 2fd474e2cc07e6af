package protocol

import (
	"encoding/binary"
	"math"
)

// Encoder appends primitives to a growing buffer. Integers are varints
// unless a fixed width is named; fixed widths are big-endian.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder with room for a small document.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Reset empties the buffer and keeps its capacity.
func (e *Encoder) Reset() { e.buf = e.buf[:0] }

// Bytes returns the encoded data. The slice aliases the buffer until the
// next Reset or write.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the encoded length.
func (e *Encoder) Len() int { return len(e.buf) }

// WriteByte appends b.
func (e *Encoder) WriteByte(b byte) { e.buf = append(e.buf, b) }

// WriteBytes appends p unframed.
func (e *Encoder) WriteBytes(p []byte) { e.buf = append(e.buf, p...) }

// WriteUvarint appends v as an unsigned varint.
func (e *Encoder) WriteUvarint(v uint64) { e.buf = binary.AppendUvarint(e.buf, v) }

// WriteSvarint appends v as a zig-zag varint.
func (e *Encoder) WriteSvarint(v int64) { e.buf = binary.AppendVarint(e.buf, v) }

// WriteString appends s prefixed with its byte length.
func (e *Encoder) WriteString(s string) {
	e.WriteUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// WriteBool appends 1 for true and 0 for false.
func (e *Encoder) WriteBool(b bool) {
	var v byte
	if b {
		v = 1
	}
	e.buf = append(e.buf, v)
}

// WriteUint32 appends v in four bytes.
func (e *Encoder) WriteUint32(v uint32) { e.buf = binary.BigEndian.AppendUint32(e.buf, v) }

// WriteUint64 appends v in eight bytes.
func (e *Encoder) WriteUint64(v uint64) { e.buf = binary.BigEndian.AppendUint64(e.buf, v) }

// WriteFloat64 appends the IEEE 754 bits of v.
func (e *Encoder) WriteFloat64(v float64) { e.WriteUint64(math.Float64bits(v)) }
