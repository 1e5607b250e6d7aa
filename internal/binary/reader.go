package binary

import (
	"encoding/binary"

	"github.com/wippyai/sksl-runtime/errors"
)

// Reader is a cursor over an in-memory artifact. All multi-byte values are
// little-endian and fixed width; narrower on-wire fields are widened by the
// caller's choice of signed or unsigned accessor.
type Reader struct {
	data  []byte
	pos   int
	phase errors.Phase
}

// NewReader creates a new Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, phase: errors.PhaseDecode}
}

// SetPhase sets the phase reported by underrun errors.
func (r *Reader) SetPhase(p errors.Phase) {
	r.phase = p
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// Data returns the whole underlying buffer.
func (r *Reader) Data() []byte {
	return r.data
}

func (r *Reader) need(n int) error {
	if n < 0 || r.Len() < n {
		return errors.Underrun(r.phase, r.pos, n, r.Len())
	}
	return nil
}

// ReadBytes returns the next n bytes without copying.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// ReadU8 reads an unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadS8 reads a signed byte, sign-extended to int32.
func (r *Reader) ReadS8() (int32, error) {
	v, err := r.ReadU8()
	return int32(int8(v)), err
}

// ReadS16 reads a little-endian int16, sign-extended to int32.
func (r *Reader) ReadS16() (int32, error) {
	v, err := r.ReadU16()
	return int32(int16(v)), err
}

// ReadS32 reads a little-endian int32.
func (r *Reader) ReadS32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadBool reads a byte and reports whether it is non-zero.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadU8()
	return v != 0, err
}
