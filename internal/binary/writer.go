package binary

import (
	"bytes"
	"encoding/binary"
)

// Writer provides buffered writing utilities matching Reader.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteU8 writes a single byte.
func (w *Writer) WriteU8(b uint8) {
	w.buf.WriteByte(b)
}

// WriteBool writes 1 for true and 0 for false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteU16 writes a little-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteU32 writes a little-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteS8 writes the low byte of v.
func (w *Writer) WriteS8(v int8) {
	w.buf.WriteByte(byte(v))
}

// WriteS16 writes a little-endian int16.
func (w *Writer) WriteS16(v int16) {
	w.WriteU16(uint16(v))
}

// WriteS32 writes a little-endian int32.
func (w *Writer) WriteS32(v int32) {
	w.WriteU32(uint32(v))
}
