package bitstream

import (
	"testing"

	"github.com/thebagchi/asn1c-go/lib/errs"
)

func TestInitZeroesAttachDoesNot(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	s := Init(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("Init did not zero byte %d: got %#x", i, v)
		}
	}
	if s.bytePos != 0 || s.bitPos != 0 {
		t.Fatalf("Init cursor not at origin")
	}

	buf2 := []byte{0xAA, 0xBB}
	_ = AttachBuffer(buf2)
	if buf2[0] != 0xAA || buf2[1] != 0xBB {
		t.Fatalf("AttachBuffer mutated buffer")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	w := Init(buf)
	if err := w.Write(3, 0x5); err != nil {
		t.Fatalf("Write(3): %v", err)
	}
	if err := w.Write(5, 0x1A); err != nil {
		t.Fatalf("Write(5): %v", err)
	}
	if err := w.Write(16, 0xBEEF); err != nil {
		t.Fatalf("Write(16): %v", err)
	}
	if w.Length() != 3 {
		t.Fatalf("Length() = %d, want 3", w.Length())
	}

	r := AttachBuffer(buf)
	v, err := r.Read(3)
	if err != nil || v != 0x5 {
		t.Fatalf("Read(3) = %d, %v; want 5", v, err)
	}
	v, err = r.Read(5)
	if err != nil || v != 0x1A {
		t.Fatalf("Read(5) = %d, %v; want 0x1A", v, err)
	}
	v, err = r.Read(16)
	if err != nil || v != 0xBEEF {
		t.Fatalf("Read(16) = %#x, %v; want 0xBEEF", v, err)
	}
}

func TestWriteCrossesByteBoundary(t *testing.T) {
	buf := make([]byte, 2)
	w := Init(buf)
	if err := w.Write(4, 0xF); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(8, 0xAB); err != nil {
		t.Fatal(err)
	}
	// 1111 1010 1011 .... -> F A B 0 nibbles: 0xFA, 0xB0
	if buf[0] != 0xFA || buf[1] != 0xB0 {
		t.Fatalf("got % x, want [FA B0]", buf)
	}
}

func TestAppendPartialAndBit(t *testing.T) {
	buf := make([]byte, 1)
	w := Init(buf)
	if err := w.AppendBit(1); err != nil {
		t.Fatal(err)
	}
	if err := w.AppendPartial(0x5, 3, false); err != nil {
		t.Fatal(err)
	}
	if err := w.AppendPartial(0x3, 4, false); err != nil {
		t.Fatal(err)
	}
	// bits: 1 101 0011 = 1101 0011 = 0xD3
	if buf[0] != 0xD3 {
		t.Fatalf("got %#x, want 0xD3", buf[0])
	}
}

func TestAppendNZeroAppendNOne(t *testing.T) {
	buf := make([]byte, 2)
	w := Init(buf)
	if err := w.AppendNOne(4); err != nil {
		t.Fatal(err)
	}
	if err := w.AppendNZero(4); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0xF0 {
		t.Fatalf("got %#x, want 0xF0", buf[0])
	}
}

func TestOverflowIsFailFast(t *testing.T) {
	buf := make([]byte, 1)
	w := Init(buf)
	if err := w.Write(8, 0xFF); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(1, 1); err == nil {
		t.Fatalf("expected overflow error")
	} else if got := errs.Code(err); got != errs.CodeNoMem {
		t.Fatalf("Code(err) = %d, want %d", got, errs.CodeNoMem)
	}

	r := AttachBuffer(buf)
	if _, err := r.Read(8); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Read(1); err == nil {
		t.Fatalf("expected underflow error")
	} else if got := errs.Code(err); got != errs.CodeOutOfData {
		t.Fatalf("Code(err) = %d, want %d", got, errs.CodeOutOfData)
	}
}

func TestAlignWordDWord(t *testing.T) {
	buf := make([]byte, 8)
	w := Init(buf)
	if err := w.Write(3, 0x5); err != nil {
		t.Fatal(err)
	}
	if err := w.AlignWord(); err != nil {
		t.Fatal(err)
	}
	if w.BytePos() != 2 {
		t.Fatalf("AlignWord: bytePos = %d, want 2", w.BytePos())
	}
	if err := w.Write(8, 0); err != nil {
		t.Fatal(err)
	}
	if err := w.AlignDWord(); err != nil {
		t.Fatal(err)
	}
	if w.BytePos() != 4 {
		t.Fatalf("AlignDWord: bytePos = %d, want 4", w.BytePos())
	}
}

func TestAppendBitsReadBitsRoundTrip(t *testing.T) {
	buf := make([]byte, 2)
	w := Init(buf)
	src := []byte{0xB4, 0xC0} // 10 meaningful bits: 1011 0100 11
	if err := w.AppendBits(src, 10); err != nil {
		t.Fatal(err)
	}

	r := AttachBuffer(buf)
	out, err := r.ReadBits(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0] != 0xB4 || out[1] != 0xC0 {
		t.Fatalf("got % x, want [B4 C0]", out)
	}
}

func TestWriteBytesReadBytesByteAligned(t *testing.T) {
	buf := make([]byte, 4)
	w := Init(buf)
	if err := w.WriteBytes([]byte{0x01, 0x02, 0x03}); err != nil {
		t.Fatal(err)
	}
	r := AttachBuffer(buf)
	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "\x01\x02\x03" {
		t.Fatalf("got % x", got)
	}
}
