package binary

import (
	"bytes"
	"errors"
	"testing"

	rterrors "github.com/wippyai/sksl-runtime/errors"
)

func TestReaderReadU8(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	r := NewReader(data)

	for i, want := range data {
		if r.Position() != i {
			t.Errorf("position before read %d: got %d, want %d", i, r.Position(), i)
		}
		b, err := r.ReadU8()
		if err != nil {
			t.Fatalf("ReadU8 %d: %v", i, err)
		}
		if b != want {
			t.Errorf("ReadU8 %d: got 0x%02x, want 0x%02x", i, b, want)
		}
	}

	if r.Len() != 0 {
		t.Errorf("remaining: got %d, want 0", r.Len())
	}

	_, err := r.ReadU8()
	if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseDecode, Kind: rterrors.KindUnderrun}) {
		t.Errorf("expected underrun, got %v", err)
	}
}

func TestReaderFixedWidth(t *testing.T) {
	data := []byte{
		0x34, 0x12, // u16
		0x78, 0x56, 0x34, 0x12, // u32
		0xff,       // s8
		0xfe, 0xff, // s16
		0xfd, 0xff, 0xff, 0xff, // s32
	}
	r := NewReader(data)

	u16, err := r.ReadU16()
	if err != nil || u16 != 0x1234 {
		t.Errorf("ReadU16: got 0x%04x, %v", u16, err)
	}
	u32, err := r.ReadU32()
	if err != nil || u32 != 0x12345678 {
		t.Errorf("ReadU32: got 0x%08x, %v", u32, err)
	}
	s8, err := r.ReadS8()
	if err != nil || s8 != -1 {
		t.Errorf("ReadS8: got %d, %v", s8, err)
	}
	s16, err := r.ReadS16()
	if err != nil || s16 != -2 {
		t.Errorf("ReadS16: got %d, %v", s16, err)
	}
	s32, err := r.ReadS32()
	if err != nil || s32 != -3 {
		t.Errorf("ReadS32: got %d, %v", s32, err)
	}
	if r.Position() != len(data) {
		t.Errorf("position: got %d, want %d", r.Position(), len(data))
	}
}

func TestReaderSignExtension(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(*Reader) (int32, error)
		want int32
	}{
		{"s8 positive", []byte{0x7f}, (*Reader).ReadS8, 127},
		{"s8 negative", []byte{0x80}, (*Reader).ReadS8, -128},
		{"s16 positive", []byte{0xff, 0x7f}, (*Reader).ReadS16, 32767},
		{"s16 negative", []byte{0x00, 0x80}, (*Reader).ReadS16, -32768},
		{"s32 min", []byte{0x00, 0x00, 0x00, 0x80}, (*Reader).ReadS32, -2147483648},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.read(NewReader(tt.data))
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReaderUnderrunKeepsPosition(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03})
	if _, err := r.ReadU8(); err != nil {
		t.Fatal(err)
	}
	_, err := r.ReadU32()
	if err == nil {
		t.Fatal("expected underrun")
	}
	var rerr *rterrors.Error
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if rerr.Offset != 1 {
		t.Errorf("Offset = %d, want 1", rerr.Offset)
	}
	if r.Position() != 1 {
		t.Errorf("position moved on failed read: %d", r.Position())
	}
}

func TestReaderReadBytesAndSkip(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05})

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("ReadBytes: got %v", got)
	}
	if err := r.Skip(1); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if err := r.Skip(5); err == nil {
		t.Error("expected error skipping past end")
	}
	if _, err := r.ReadBytes(-1); err == nil {
		t.Error("expected error for negative length")
	}
}

func TestReaderPhase(t *testing.T) {
	r := NewReader(nil)
	r.SetPhase(rterrors.PhaseHeader)
	_, err := r.ReadU16()
	if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseHeader, Kind: rterrors.KindUnderrun}) {
		t.Errorf("expected header underrun, got %v", err)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteU8(0xab)
	w.WriteBool(true)
	w.WriteBool(false)
	w.WriteU16(0xbeef)
	w.WriteU32(0xdeadbeef)
	w.WriteS8(-5)
	w.WriteS16(-300)
	w.WriteS32(-70000)
	w.WriteBytes([]byte("ok"))

	if w.Len() != 1+1+1+2+4+1+2+4+2 {
		t.Fatalf("Len = %d", w.Len())
	}

	r := NewReader(w.Bytes())
	if v, _ := r.ReadU8(); v != 0xab {
		t.Errorf("u8 = %x", v)
	}
	if v, _ := r.ReadBool(); !v {
		t.Error("bool true")
	}
	if v, _ := r.ReadBool(); v {
		t.Error("bool false")
	}
	if v, _ := r.ReadU16(); v != 0xbeef {
		t.Errorf("u16 = %x", v)
	}
	if v, _ := r.ReadU32(); v != 0xdeadbeef {
		t.Errorf("u32 = %x", v)
	}
	if v, _ := r.ReadS8(); v != -5 {
		t.Errorf("s8 = %d", v)
	}
	if v, _ := r.ReadS16(); v != -300 {
		t.Errorf("s16 = %d", v)
	}
	if v, _ := r.ReadS32(); v != -70000 {
		t.Errorf("s32 = %d", v)
	}
	if v, _ := r.ReadBytes(2); string(v) != "ok" {
		t.Errorf("bytes = %q", v)
	}
	if r.Len() != 0 {
		t.Errorf("remaining = %d", r.Len())
	}
}
