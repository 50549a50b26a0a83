// Package numeric holds the small set of minimum-width helpers that
// the integer, real, and string codecs in lib/per and lib/acn both
// depend on identically. They are kept standalone (not
// inlined) because the original asn1scc runtime exposes them as
// standalone functions (GetLengthInBytesOfUInt, GetLengthInBytesOfSInt,
// GetNumberOfBitsForNonNegativeInteger, GetCharIndex) that several
// framings call by name.
package numeric

import "math/bits"

// BitsFor returns the minimum number of bits needed to represent the
// non-negative value v (0 for v == 0), i.e. popcount_width(v) in
// spec terms.
func BitsFor(v uint64) uint8 {
	return uint8(bits.Len64(v))
}

// ByteWidthOf returns the minimum number of bytes needed to hold the
// non-negative value v as an unsigned big-endian integer (0 for v ==
// 0, otherwise ceil(BitsFor(v)/8)).
func ByteWidthOf(v uint64) int {
	n := BitsFor(v)
	return int((n + 7) / 8)
}

// SignedByteWidth returns the minimum number of bytes k such that v
// fits in a k-byte two's-complement integer: -2^(8k-1) <= v <
// 2^(8k-1).
func SignedByteWidth(v int64) int {
	for k := 1; k < 8; k++ {
		lo := -(int64(1) << uint(8*k-1))
		hi := int64(1) << uint(8*k-1)
		if v >= lo && v < hi {
			return k
		}
	}
	// Every int64 value fits in 8 bytes of two's complement by
	// construction; k=8 is the fallback for anything 7 bytes can't hold.
	return 8
}

// GetCharIndex returns the index of ch within set, or 0 if ch is not
// present — a linear search with a defensive default, matching the
// original runtime's behavior for restricted-charset encoding rather
// than introducing a new failure mode for an out-of-set character.
func GetCharIndex(ch byte, set []byte) int {
	for i, c := range set {
		if c == ch {
			return i
		}
	}
	return 0
}
