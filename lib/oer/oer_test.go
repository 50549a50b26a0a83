package oer

import (
	"testing"

	"github.com/thebagchi/asn1c-go/lib/errs"
)

func TestLengthDeterminantShortForm(t *testing.T) {
	for _, n := range []uint64{0, 1, 127} {
		buf := make([]byte, 4)
		enc := NewEncoder(buf)
		if err := enc.EncodeLengthDeterminant(n); err != nil {
			t.Fatalf("encode(%d): %v", n, err)
		}
		if enc.Len() != 1 {
			t.Fatalf("short form must be 1 byte, got %d", enc.Len())
		}
		dec := NewDecoder(enc.Bytes())
		got, err := dec.DecodeLengthDeterminant()
		if err != nil || got != n {
			t.Fatalf("round-trip %d: got %d, %v", n, got, err)
		}
	}
}

func TestBooleanRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		buf := make([]byte, 1)
		enc := NewEncoder(buf)
		if err := enc.EncodeBoolean(v); err != nil {
			t.Fatalf("encode(%v): %v", v, err)
		}
		if enc.Len() != 1 {
			t.Fatalf("boolean must be 1 byte, got %d", enc.Len())
		}
		dec := NewDecoder(enc.Bytes())
		got, err := dec.DecodeBoolean()
		if err != nil || got != v {
			t.Fatalf("round-trip %v: got %v, %v", v, got, err)
		}
	}
}

func TestLengthDeterminantLongForm(t *testing.T) {
	cases := []uint64{128, 255, 256, 65535, 70000, 0x01FF}
	for _, n := range cases {
		buf := make([]byte, 16)
		enc := NewEncoder(buf)
		if err := enc.EncodeLengthDeterminant(n); err != nil {
			t.Fatalf("encode(%d): %v", n, err)
		}
		dec := NewDecoder(enc.Bytes())
		got, err := dec.DecodeLengthDeterminant()
		if err != nil || got != n {
			t.Fatalf("round-trip %d: got %d, %v", n, got, err)
		}
	}
}

// TestBadLengthPrefixContentAbsent reproduces the declared scenario:
// a length-of-length-2 prefix (0x82) claiming a 0x01FF-byte payload
// that the buffer does not actually contain.
func TestBadLengthPrefixContentAbsent(t *testing.T) {
	buf := []byte{0x82, 0x01, 0xFF}
	dec := NewDecoder(buf)
	_, err := dec.DecodeOctetStringInternal(0xFFFF)
	if err == nil {
		t.Fatalf("expected bad-length error")
	}
	if errs.Code(err) != errs.CodeBadLength {
		t.Fatalf("expected CodeBadLength, got %d (%v)", errs.Code(err), err)
	}
}

func TestFixedWidthUnsignedRoundTrip(t *testing.T) {
	cases := []struct {
		width int
		value uint64
	}{
		{1, 0}, {1, 255}, {2, 65535}, {4, 0xFFFFFFFF}, {8, 0xFFFFFFFFFFFFFFFF},
	}
	for _, tc := range cases {
		buf := make([]byte, 8)
		enc := NewEncoder(buf)
		if err := enc.EncodeFixedWidthUnsigned(tc.value, tc.width); err != nil {
			t.Fatalf("encode width=%d: %v", tc.width, err)
		}
		dec := NewDecoder(enc.Bytes())
		got, err := dec.DecodeFixedWidthUnsigned(tc.width)
		if err != nil || got != tc.value {
			t.Fatalf("round-trip width=%d value=%d: got %d, %v", tc.width, tc.value, got, err)
		}
	}
}

func TestFixedWidthSignedRoundTrip(t *testing.T) {
	cases := []struct {
		width int
		value int64
	}{
		{1, -11}, {1, 13}, {2, -300}, {4, -70000}, {8, -1},
	}
	for _, tc := range cases {
		buf := make([]byte, 8)
		enc := NewEncoder(buf)
		if err := enc.EncodeFixedWidthSigned(tc.value, tc.width); err != nil {
			t.Fatalf("encode width=%d value=%d: %v", tc.width, tc.value, err)
		}
		dec := NewDecoder(enc.Bytes())
		got, err := dec.DecodeFixedWidthSigned(tc.width)
		if err != nil || got != tc.value {
			t.Fatalf("round-trip width=%d value=%d: got %d, %v", tc.width, tc.value, got, err)
		}
	}
}

// TestChoiceTagNegativeElevenScenario reproduces the single-alternative
// slice of the declared "choice(a)=-11" scenario: tag byte 0x80
// (alternative 0) followed by the signed 1-byte value -11 (0xF5).
func TestChoiceTagNegativeElevenScenario(t *testing.T) {
	buf := make([]byte, 4)
	enc := NewEncoder(buf)
	if err := enc.EncodeChoiceTag(0); err != nil {
		t.Fatal(err)
	}
	if err := enc.EncodeFixedWidthSigned(-11, 1); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x80, 0xF5}
	got := enc.Bytes()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got % x, want % x", got, want)
	}
	dec := NewDecoder(got)
	idx, err := dec.DecodeChoiceTag(1)
	if err != nil || idx != 0 {
		t.Fatalf("tag: got %d, %v", idx, err)
	}
	v, err := dec.DecodeFixedWidthSigned(1)
	if err != nil || v != -11 {
		t.Fatalf("value: got %d, %v", v, err)
	}
}

// TestChoiceTagRejectsUndefined reproduces the declared bad-choice
// scenario: decoding tag byte 0x83 against a 3-alternative choice
// (valid tags 0x80..0x82) must fail with bad-choice.
func TestChoiceTagRejectsUndefined(t *testing.T) {
	buf := []byte{0x83, 0x00}
	dec := NewDecoder(buf)
	_, err := dec.DecodeChoiceTag(3)
	if err == nil {
		t.Fatalf("expected bad-choice error")
	}
	if errs.Code(err) != errs.CodeBadChoice {
		t.Fatalf("expected CodeBadChoice, got %d (%v)", errs.Code(err), err)
	}
}

func TestChoiceTagExtendedIndexRoundTrip(t *testing.T) {
	indices := []uint64{0, 0x7E, 0x7F, 200, 5000}
	for _, idx := range indices {
		buf := make([]byte, 8)
		enc := NewEncoder(buf)
		if err := enc.EncodeChoiceTag(idx); err != nil {
			t.Fatalf("encode(%d): %v", idx, err)
		}
		dec := NewDecoder(enc.Bytes())
		got, err := dec.DecodeChoiceTag(idx + 1)
		if err != nil || got != idx {
			t.Fatalf("round-trip %d: got %d, %v", idx, got, err)
		}
	}
}

func TestPreambleRoundTripByteAligned(t *testing.T) {
	present := []bool{true, false, true}
	buf := make([]byte, 4)
	enc := NewEncoder(buf)
	if err := enc.EncodePreamble(present); err != nil {
		t.Fatal(err)
	}
	if enc.Len() != 1 {
		t.Fatalf("preamble must byte-align, got %d bytes", enc.Len())
	}
	dec := NewDecoder(enc.Bytes())
	got, err := dec.DecodePreamble(len(present))
	if err != nil {
		t.Fatal(err)
	}
	for i := range present {
		if got[i] != present[i] {
			t.Fatalf("bit %d: got %v want %v", i, got[i], present[i])
		}
	}
}

func TestSequenceOfLengthRejectsOverMax(t *testing.T) {
	buf := make([]byte, 4)
	enc := NewEncoder(buf)
	if err := enc.EncodeSequenceOfLength(10); err != nil {
		t.Fatal(err)
	}
	dec := NewDecoder(enc.Bytes())
	if _, err := dec.DecodeSequenceOfLength(5); err == nil {
		t.Fatalf("expected bad-length error")
	}
}

func TestOctetStringInternalRoundTrip(t *testing.T) {
	value := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	buf := make([]byte, 16)
	enc := NewEncoder(buf)
	if err := enc.EncodeOctetStringInternal(value); err != nil {
		t.Fatal(err)
	}
	dec := NewDecoder(enc.Bytes())
	got, err := dec.DecodeOctetStringInternal(100)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(value) {
		t.Fatalf("got % x, want % x", got, value)
	}
}
