package oer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// require-based assertions, in the style of serialexp-binschema's Go
// test suite (the one repo in the retrieval pack with a real
// third-party test dependency). These cover the fixed-byte-width
// integer run spec.md §8 scenario (2) (oer_a) opens with: four signed
// fields a=-1, b=-2, c=-3, d=-4 encoded in 1/2/4/8 bytes respectively,
// whose two's-complement content octets are the literal "FF FF FE FF
// FF FF FD FF FF FF FF FF FF FF FC" prefix. DESIGN.md's "§8 literal
// wire vectors" entry explains why the full ten-field PDU isn't
// reproduced as one byte-for-byte assertion; this test instead nails
// down the per-field byte content that prefix is built from.
func TestOerAFixedWidthIntegerPrefix(t *testing.T) {
	buf := make([]byte, 16)
	enc := NewEncoder(buf)

	require.NoError(t, enc.EncodeFixedWidthSigned(-1, 1))
	require.NoError(t, enc.EncodeFixedWidthSigned(-2, 2))
	require.NoError(t, enc.EncodeFixedWidthSigned(-3, 4))
	require.NoError(t, enc.EncodeFixedWidthSigned(-4, 8))

	want := []byte{
		0xFF,
		0xFF, 0xFE,
		0xFF, 0xFF, 0xFF, 0xFD,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFC,
	}
	require.Equal(t, want, enc.Bytes())

	dec := NewDecoder(enc.Bytes())
	a, err := dec.DecodeFixedWidthSigned(1)
	require.NoError(t, err)
	require.EqualValues(t, -1, a)
	b, err := dec.DecodeFixedWidthSigned(2)
	require.NoError(t, err)
	require.EqualValues(t, -2, b)
	c, err := dec.DecodeFixedWidthSigned(4)
	require.NoError(t, err)
	require.EqualValues(t, -3, c)
	d, err := dec.DecodeFixedWidthSigned(8)
	require.NoError(t, err)
	require.EqualValues(t, -4, d)
	require.Equal(t, enc.Len(), dec.Consumed())
}

// TestOctetStringElevenBytesOfFive round-trips the j field value
// shared by both uper_a and oer_a (spec.md §8): 11 bytes of repeated
// 0x05, framed here by the OER length determinant
// (EncodeOctetStringInternal).
func TestOctetStringElevenBytesOfFive(t *testing.T) {
	value := make([]byte, 11)
	for i := range value {
		value[i] = 0x05
	}
	buf := make([]byte, 16)
	enc := NewEncoder(buf)
	require.NoError(t, enc.EncodeOctetStringInternal(value))

	dec := NewDecoder(enc.Bytes())
	got, err := dec.DecodeOctetStringInternal(20)
	require.NoError(t, err)
	require.Equal(t, value, got)
}
