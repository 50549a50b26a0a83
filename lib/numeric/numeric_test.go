package numeric

import "testing"

// Boundary-value tables adapted from the teacher's
// TestMinimumOctetNonNegativeBinaryIntegerLength and
// TestOctetsTwosComplementBinaryInteger
// (thebagchi-asn1c-go/lib/per/per_test.go), renamed to this package's
// ByteWidthOf/SignedByteWidth.

func TestByteWidthOf(t *testing.T) {
	test := func(value uint64, expected int, description string) {
		t.Run(description, func(t *testing.T) {
			result := ByteWidthOf(value)
			if result != expected {
				t.Errorf("ByteWidthOf(%d) = %d, want %d", value, result, expected)
			}
		})
	}
	test(0, 0, "0 needs no octets")
	test(1, 1, "1 fits in 1 octet")
	test(0xFF, 1, "255 (max 1 octet)")
	test(0x100, 2, "256 (needs 2 octets)")
	test(0xFFFF, 2, "65535 (max 2 octets)")
	test(0x10000, 3, "65536 (needs 3 octets)")
	test(0xFFFFFF, 3, "16777215 (max 3 octets)")
	test(0x1000000, 4, "16777216 (needs 4 octets)")
	test(0xFFFFFFFF, 4, "max uint32")
	test(0x100000000, 5, "requires 5 octets")
	test(0xFFFFFFFFFFFFFFFF, 8, "max uint64")
	test(0x8000000000000000, 8, "high bit set")
	test(0x7F, 1, "127 (7 bits, fits in 1 octet)")
	test(0x80, 1, "128 (8 bits, fits in 1 octet)")
	test(0x01FF, 2, "511 (9 bits, needs 2 octets)")
}

func TestSignedByteWidth(t *testing.T) {
	test := func(value int64, expected int, description string) {
		t.Run(description, func(t *testing.T) {
			result := SignedByteWidth(value)
			if result != expected {
				t.Errorf("SignedByteWidth(%d) = %d, want %d", value, result, expected)
			}
		})
	}
	// Zero
	test(0, 1, "zero")
	// Positive values
	test(1, 1, "positive 1")
	test(63, 1, "positive 63 (0x3F - fits in 1 octet with sign bit)")
	test(64, 1, "positive 64 (0x40 - still fits in 1 octet)")
	test(127, 1, "positive 127 (0x7F - max positive for 1 octet)")
	test(128, 2, "positive 128 (0x80 - needs 2 octets, sign bit conflict)")
	test(255, 2, "positive 255 (0xFF - needs 2 octets)")
	test(32767, 2, "positive 32767 (0x7FFF - max positive for 2 octets)")
	test(32768, 3, "positive 32768 (0x8000 - needs 3 octets)")
	test(8388607, 3, "positive 8388607 (0x7FFFFF - max positive for 3 octets)")
	test(8388608, 4, "positive 8388608 (0x800000 - needs 4 octets)")
	test(2147483647, 4, "positive 2147483647 (0x7FFFFFFF - max int32)")
	test(2147483648, 5, "positive 2147483648 (0x80000000 - needs 5 octets)")
	test(9223372036854775807, 8, "positive 9223372036854775807 (max int64)")
	// Negative values
	test(-1, 1, "negative -1 (0xFF - fits in 1 octet)")
	test(-64, 1, "negative -64 (0xC0 - fits in 1 octet)")
	test(-128, 1, "negative -128 (0x80 - min negative for 1 octet)")
	test(-129, 2, "negative -129 (0xFF7F - needs 2 octets)")
	test(-255, 2, "negative -255 (needs 2 octets)")
	test(-256, 2, "negative -256 (0xFF00 - fits in 2 octets)")
	test(-32768, 2, "negative -32768 (0x8000 - min negative for 2 octets)")
	test(-32769, 3, "negative -32769 (needs 3 octets)")
	test(-8388608, 3, "negative -8388608 (0x800000 - min negative for 3 octets)")
}

func TestBitsFor(t *testing.T) {
	test := func(value uint64, expected uint8, description string) {
		t.Run(description, func(t *testing.T) {
			result := BitsFor(value)
			if result != expected {
				t.Errorf("BitsFor(%d) = %d, want %d", value, result, expected)
			}
		})
	}
	test(0, 0, "zero needs no bits")
	test(1, 1, "1 needs 1 bit")
	test(0x7F, 7, "127 needs 7 bits")
	test(0x80, 8, "128 needs 8 bits")
	test(0xFF, 8, "255 needs 8 bits")
	test(0x100, 9, "256 needs 9 bits")
}

func TestGetCharIndex(t *testing.T) {
	set := []byte("ABCDEF")
	if got := GetCharIndex('A', set); got != 0 {
		t.Fatalf("GetCharIndex('A') = %d, want 0", got)
	}
	if got := GetCharIndex('F', set); got != 5 {
		t.Fatalf("GetCharIndex('F') = %d, want 5", got)
	}
	if got := GetCharIndex('Z', set); got != 0 {
		t.Fatalf("GetCharIndex('Z') (absent) = %d, want 0 (defensive default)", got)
	}
}
