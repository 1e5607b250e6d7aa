package dehydrate

import (
	"fortio.org/safecast"

	"github.com/wippyai/sksl-runtime/errors"
	"github.com/wippyai/sksl-runtime/internal/binary"
)

// stringBlob interns strings in first-use order. Each entry is a u8 length
// followed by the bytes; references are u16 offsets of the entry.
type stringBlob struct {
	w       *binary.Writer
	offsets map[string]uint16
}

func newStringBlob() *stringBlob {
	return &stringBlob{w: binary.NewWriter(), offsets: make(map[string]uint16)}
}

func (b *stringBlob) intern(s string) (uint16, error) {
	if off, ok := b.offsets[s]; ok {
		return off, nil
	}
	n, err := narrow[uint8](len(s), "string length")
	if err != nil {
		return 0, err
	}
	off, err := narrow[uint16](b.w.Len(), "string offset")
	if err != nil {
		return 0, err
	}
	b.w.WriteU8(n)
	b.w.WriteBytes([]byte(s))
	b.offsets[s] = off
	return off, nil
}

func (b *stringBlob) bytes() []byte { return b.w.Bytes() }
func (b *stringBlob) count() int    { return len(b.offsets) }

// narrow converts v to a fixed-width wire field, failing on overflow.
func narrow[T safecast.Integer, V safecast.Integer](v V, field string) (T, error) {
	out, err := safecast.Conv[T](v)
	if err != nil {
		return 0, errors.Overflow(errors.PhaseEncode, v, field)
	}
	return out, nil
}
