package serialize

import (
	"bytes"
	"math"
	"testing"
)

func TestBinaryStreamRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Binary)
	if err := w.WriteInt8(200); err != nil {
		t.Fatalf("WriteInt8: %v", err)
	}
	if err := w.WriteInt64(-5); err != nil {
		t.Fatalf("WriteInt64: %v", err)
	}
	if err := w.WriteBool(true); err != nil {
		t.Fatalf("WriteBool: %v", err)
	}
	if err := w.WriteString("hello world"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}

	r := NewReader(&buf, Binary)
	if v, err := r.ReadInt8(); err != nil || v != 200 {
		t.Fatalf("ReadInt8 = %v, %v", v, err)
	}
	if v, err := r.ReadInt64(); err != nil || v != -5 {
		t.Fatalf("ReadInt64 = %v, %v", v, err)
	}
	if v, err := r.ReadBool(); err != nil || !v {
		t.Fatalf("ReadBool = %v, %v", v, err)
	}
	if v, err := r.ReadString(); err != nil || v != "hello world" {
		t.Fatalf("ReadString = %q, %v", v, err)
	}
}

func TestBinaryInt64TruncatesToLow32Bits(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Binary)
	big := int64(1) << 40
	if err := w.WriteInt64(big); err != nil {
		t.Fatalf("WriteInt64: %v", err)
	}
	r := NewReader(&buf, Binary)
	got, err := r.ReadInt64()
	if err != nil {
		t.Fatalf("ReadInt64: %v", err)
	}
	if got == big {
		t.Fatalf("expected truncation to lose the high bits, got exact value back")
	}
}

func TestTextStreamRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, Text)
	if err := w.WriteInt64(42); err != nil {
		t.Fatalf("WriteInt64: %v", err)
	}
	if err := w.WriteString("a b c"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := w.WriteBool(false); err != nil {
		t.Fatalf("WriteBool: %v", err)
	}
	if err := w.WriteInt8(7); err != nil {
		t.Fatalf("WriteInt8: %v", err)
	}

	r := NewReader(&buf, Text)
	if v, err := r.ReadInt64(); err != nil || v != 42 {
		t.Fatalf("ReadInt64 = %v, %v", v, err)
	}
	if v, err := r.ReadString(); err != nil || v != "a b c" {
		t.Fatalf("ReadString = %q, %v", v, err)
	}
	if v, err := r.ReadBool(); err != nil || v {
		t.Fatalf("ReadBool = %v, %v", v, err)
	}
	if v, err := r.ReadInt8(); err != nil || v != 7 {
		t.Fatalf("ReadInt8 = %v, %v", v, err)
	}
}

func TestHeaderRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHeader(&buf, Text); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	enc, version, err := ReadHeader(&buf)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if enc != Text || version != ProducerVersion {
		t.Fatalf("got enc=%v version=%v", enc, version)
	}
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("XXXX\x00\x00\x01")
	if _, _, err := ReadHeader(buf); err == nil {
		t.Fatalf("expected an error for bad magic")
	}
}

func TestHexFloatRoundTrip(t *testing.T) {
	v := math.Pi
	s, err := parseHexFloat("0x1.921fb54442d18p+01")
	if err != nil {
		t.Fatalf("parseHexFloat: %v", err)
	}
	if math.Abs(s-v) > 1e-12 {
		t.Fatalf("got %v, want %v", s, v)
	}
}
