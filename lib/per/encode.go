// Package per implements the PER (Packed Encoding Rules) wire variant
// — both unaligned (uPER) and aligned, selected by the aligned flag on
// Encoder/Decoder, matching the constructor shape of the teacher this
// package was adapted from.
//
// Functions below are annotated with their ITU-T X.691 clause where
// the behavior is drawn directly from the standard; composite framing
// (clauses 19/20/23) has no prior Go implementation in the codebase
// this was built from and is authored fresh against those clauses.
package per

import (
	"encoding/asn1"
	"fmt"
	"math"
	"unsafe"

	"github.com/thebagchi/asn1c-go/lib/bitstream"
	"github.com/thebagchi/asn1c-go/lib/errs"
	"github.com/thebagchi/asn1c-go/lib/numeric"
)

// Encoder writes PER-encoded values into a caller-supplied, fixed
// capacity buffer.
type Encoder struct {
	stream  *bitstream.BitStream
	aligned bool
}

// NewEncoder attaches buf (zeroing it) and begins encoding. aligned
// selects Aligned PER byte-alignment behavior for length-prefixed
// string/octet content; false selects unaligned (bit-packed) PER.
func NewEncoder(buf []byte, aligned bool) *Encoder {
	return &Encoder{stream: bitstream.Init(buf), aligned: aligned}
}

// Bytes returns the encoded prefix of the attached buffer.
func (e *Encoder) Bytes() []byte { return e.stream.Bytes() }

// Len returns the number of bytes written so far (rounded up to
// include a partial final byte).
func (e *Encoder) Len() int { return e.stream.Length() }

func (e *Encoder) alignIfAligned() error {
	if e.aligned {
		return e.stream.Align()
	}
	return nil
}

// --- Integer Codec (spec §4.2) ---

// BitsNonNegativeBinaryInteger writes v as a w-bit MSB-first field (w
// may be 0, meaning nothing is written). ITU-T X.691 clause 10.3: the
// leading (w - popcount_width(v)) bits are zero by construction of a
// fixed-width binary write.
func (e *Encoder) BitsNonNegativeBinaryInteger(v uint64, w uint8) error {
	if w == 0 {
		return nil
	}
	return e.stream.Write(w, v)
}

// EncodeNonNegativeIntegerNeg writes v (or its ones'-complement, when
// negate is set) as a w-bit MSB-first field.
//
// The asn1scc runtime this module traces to split this operation into
// a high/low 32-bit pair whenever w exceeded 32 (a 32-bit-platform
// artifact), and carried a source comment labelling that split's
// negate handling "bug !!!!" — negate was applied to the low half
// only, not symmetrically to both halves. This module uses native
// 64-bit arithmetic throughout (see DESIGN.md, Open Question 2), so
// the split — and the asymmetry it caused — has no code path here: a
// single Write(w, ...) covers the full 0..64 bit range. The observable
// contract (round-trip correctness for values whose high 32 bits are
// non-zero and that require sign inversion across what used to be the
// split point) is exercised by TestEncodeNonNegativeIntegerNegHighBits.
func (e *Encoder) EncodeNonNegativeIntegerNeg(v uint64, w uint8, negate bool) error {
	if negate {
		v = ^v
	}
	return e.BitsNonNegativeBinaryInteger(v, w)
}

// EncodeConstrainedWholeNumber implements ITU-T X.691 clause 11.5: for
// a declared range [min,max], encode v-min in bits_for(max-min) bits.
// An empty range (min==max) emits nothing.
func (e *Encoder) EncodeConstrainedWholeNumber(min, max, v int64) error {
	if v < min || v > max {
		return fmt.Errorf("per: value %d outside constraint [%d,%d]", v, min, max)
	}
	rng := uint64(max - min)
	w := numeric.BitsFor(rng)
	if w == 0 {
		return nil
	}
	return e.BitsNonNegativeBinaryInteger(uint64(v-min), w)
}

// EncodeSemiConstrainedWholeNumber implements clause 11.6: an 8-bit
// byte-length header followed by that many bytes of v-min.
func (e *Encoder) EncodeSemiConstrainedWholeNumber(min, v int64) error {
	if v < min {
		return fmt.Errorf("per: value %d below minimum %d", v, min)
	}
	off := uint64(v - min)
	nBytes := numeric.ByteWidthOf(off)
	if err := e.alignIfAligned(); err != nil {
		return err
	}
	if err := e.EncodeConstrainedWholeNumber(0, 255, int64(nBytes)); err != nil {
		return err
	}
	if nBytes == 0 {
		return nil
	}
	return e.stream.Write(uint8(nBytes*8), off)
}

// EncodeUnconstrainedWholeNumber implements clause 11.8: a byte-length
// header followed by that many bytes of v in two's complement. Go's
// int64→uint64 reinterpretation already is v's two's complement
// pattern, so truncating to the low nBytes*8 bits (which Write does)
// reproduces the sign-extended magnitude directly — no separate
// zero/one leading-pad branch is needed in a 64-bit-native rewrite.
func (e *Encoder) EncodeUnconstrainedWholeNumber(v int64) error {
	nBytes := numeric.SignedByteWidth(v)
	if err := e.alignIfAligned(); err != nil {
		return err
	}
	if err := e.EncodeConstrainedWholeNumber(0, 255, int64(nBytes)); err != nil {
		return err
	}
	return e.stream.Write(uint8(nBytes*8), uint64(v))
}

// EncodeBoolean writes a single bit: 1 for true, 0 for false (clause
// 12).
func (e *Encoder) EncodeBoolean(v bool) error {
	if v {
		return e.stream.AppendBit(1)
	}
	return e.stream.AppendBit(0)
}

// EncodeInteger dispatches an INTEGER value to the constrained,
// semi-constrained, or unconstrained framing depending on which bounds
// are declared, per clause 12. When extensible is true, a leading bit
// marks whether v falls within the declared root range (0) or is an
// extension addition encoded as an unconstrained whole number (1).
func (e *Encoder) EncodeInteger(v int64, lb, ub *int64, extensible bool) error {
	inRange := (lb == nil || v >= *lb) && (ub == nil || v <= *ub)
	if extensible {
		if err := e.EncodeBoolean(!inRange); err != nil {
			return err
		}
		if !inRange {
			return e.EncodeUnconstrainedWholeNumber(v)
		}
	} else if !inRange {
		return fmt.Errorf("per: value %d outside non-extensible constraint", v)
	}
	switch {
	case lb != nil && ub != nil:
		return e.EncodeConstrainedWholeNumber(*lb, *ub, v)
	case lb != nil:
		return e.EncodeSemiConstrainedWholeNumber(*lb, v)
	default:
		return e.EncodeUnconstrainedWholeNumber(v)
	}
}

// EncodeEnumerated writes a tag index into [0,count-1] as a
// constrained whole number (clause 13), with the same extension-marker
// convention as EncodeInteger when extensible is set.
func (e *Encoder) EncodeEnumerated(index, count uint64, extensible bool) error {
	if extensible {
		inRange := index < count
		if err := e.EncodeBoolean(!inRange); err != nil {
			return err
		}
		if !inRange {
			return e.EncodeSemiConstrainedWholeNumber(0, int64(index))
		}
	} else if index >= count {
		return errs.ErrBadEnum
	}
	if count == 0 {
		return errs.ErrBadEnum
	}
	return e.EncodeConstrainedWholeNumber(0, int64(count)-1, int64(index))
}

// --- Real Codec (spec §4.3) ---

// EncodeRealIEEE754 copies the IEEE-754 bit pattern of v directly,
// 8 bytes, big-endian on the wire (PER's native byte order).
func (e *Encoder) EncodeRealIEEE754(v float64) error {
	if err := e.alignIfAligned(); err != nil {
		return err
	}
	return e.stream.Write(64, math.Float64bits(v))
}

// EncodeReal implements ITU-T X.691 clause 15 / the ASN.1 binary REAL
// form: a length-prefixed header byte (sign, base, scale factor,
// exponent-length-format) followed by a signed exponent and an
// unsigned mantissa, with the zero/±infinity/NaN specials from clause
// 15.5-15.7. Grounded in asn1crt.c's BitStream_EncodeReal.
func (e *Encoder) EncodeReal(v float64) error {
	if err := e.alignIfAligned(); err != nil {
		return err
	}
	switch {
	case v == 0 && !math.Signbit(v):
		return e.EncodeConstrainedWholeNumber(0, 0xFF, 0) // length 0
	case math.IsNaN(v):
		if err := e.EncodeConstrainedWholeNumber(0, 0xFF, 1); err != nil {
			return err
		}
		return e.stream.Write(8, 0x42)
	case math.IsInf(v, 1):
		if err := e.EncodeConstrainedWholeNumber(0, 0xFF, 1); err != nil {
			return err
		}
		return e.stream.Write(8, 0x40)
	case math.IsInf(v, -1):
		if err := e.EncodeConstrainedWholeNumber(0, 0xFF, 1); err != nil {
			return err
		}
		return e.stream.Write(8, 0x41)
	case v == 0 && math.Signbit(v):
		if err := e.EncodeConstrainedWholeNumber(0, 0xFF, 1); err != nil {
			return err
		}
		return e.stream.Write(8, 0x43)
	}

	negative := v < 0
	mag := math.Abs(v)
	mantissa, exponent := frexp754(mag)

	nExpLen := numeric.SignedByteWidth(int64(exponent))
	nManLen := numeric.ByteWidthOf(mantissa)

	header := byte(0x80)
	if negative {
		header |= 0x40
	}
	// Base (bits 5-4) and scale factor (bits 3-2) stay 00/00 (base 2,
	// F=0): frexp754 already normalizes to an odd mantissa, so there is
	// never a smaller encoding to be had from base 8/16 or F != 0 here,
	// matching the teacher's own EncodeReal (see DESIGN.md).
	lengthPrefixed := nExpLen > 3
	if lengthPrefixed {
		header |= 0x03
	} else {
		header |= byte(nExpLen - 1)
	}

	extra := 0
	if lengthPrefixed {
		extra = 1
	}
	totalLen := 1 + extra + nExpLen + nManLen
	if err := e.EncodeConstrainedWholeNumber(0, 0xFF, int64(totalLen)); err != nil {
		return err
	}
	if err := e.stream.Write(8, uint64(header)); err != nil {
		return err
	}
	if lengthPrefixed {
		if err := e.stream.Write(8, uint64(nExpLen)); err != nil {
			return err
		}
	}
	if err := e.stream.Write(uint8(nExpLen*8), uint64(int64(exponent))); err != nil {
		return err
	}
	return e.stream.Write(uint8(nManLen*8), mantissa)
}

// frexp754 decomposes mag (> 0) into an odd mantissa and a base-2
// exponent such that mag == mantissa * 2^exponent, matching the
// teacher's MakeReal/MakeFloat64 normalization (odd mantissa).
func frexp754(mag float64) (mantissa uint64, exponent int) {
	frac, exp := math.Frexp(mag)
	m := uint64(frac * (1 << 53))
	e := exp - 53
	for m != 0 && m&1 == 0 {
		m >>= 1
		e++
	}
	return m, e
}

// --- String / Octet / Bit String Codec (spec §4.4) ---

// EncodeOctetStringFixSize emits exactly len(value) octets (the
// caller is responsible for ensuring len(value) equals the schema
// maximum).
func (e *Encoder) EncodeOctetStringFixSize(value []byte) error {
	if err := e.alignIfAligned(); err != nil {
		return err
	}
	return e.stream.WriteBytes(value)
}

// EncodeOctetStringExternal emits value's bytes with no length prefix
// (the length was already communicated elsewhere on the wire).
func (e *Encoder) EncodeOctetStringExternal(value []byte) error {
	return e.EncodeOctetStringFixSize(value)
}

// EncodeOctetStringInternal emits a length (as a constrained integer
// over [min,max]) followed by value's bytes.
func (e *Encoder) EncodeOctetStringInternal(min, max int64, value []byte) error {
	if err := e.EncodeConstrainedWholeNumber(min, max, int64(len(value))); err != nil {
		return err
	}
	return e.EncodeOctetStringFixSize(value)
}

// EncodeOctetStringNullTerminated emits value's bytes up to max, then
// a terminator byte.
func (e *Encoder) EncodeOctetStringNullTerminated(max int, term byte, value []byte) error {
	n := len(value)
	if n > max {
		n = max
	}
	if err := e.EncodeOctetStringFixSize(value[:n]); err != nil {
		return err
	}
	return e.stream.Write(8, uint64(term))
}

// EncodeBitString writes bitLen bits of value MSB-first (value shaped
// like asn1.BitString.Bytes), with no length prefix — callers needing
// a length prefix combine this with EncodeConstrainedWholeNumber or
// EncodeLengthDeterminant as their framing requires.
func (e *Encoder) EncodeBitString(value []byte, bitLen int) error {
	if err := e.alignIfAligned(); err != nil {
		return err
	}
	return e.stream.AppendBits(value, bitLen)
}

// EncodeBitStringInternal emits a bit-length (as a constrained integer
// over [min,max]) followed by that many bits.
func (e *Encoder) EncodeBitStringInternal(min, max int64, bs asn1.BitString) error {
	bitLen := int64(bs.BitLength)
	if err := e.EncodeConstrainedWholeNumber(min, max, bitLen); err != nil {
		return err
	}
	return e.EncodeBitString(bs.Bytes, bs.BitLength)
}

// EncodeRestrictedString encodes value as a sequence of indices into
// permitted, each index a constrained integer over [0,len(permitted)-1],
// per clause 27's "character index" form. Characters absent from
// permitted are clamped to index 0 (matching GetCharIndex's defensive
// default rather than failing).
func (e *Encoder) EncodeRestrictedString(value string, permitted []byte) error {
	b := unsafe.Slice(unsafe.StringData(value), len(value))
	top := int64(len(permitted) - 1)
	for _, ch := range b {
		idx := numeric.GetCharIndex(ch, permitted)
		if err := e.EncodeConstrainedWholeNumber(0, top, int64(idx)); err != nil {
			return err
		}
	}
	return nil
}

// EncodeNull is a no-op: the ASN.1 NULL type carries no wire content.
func (e *Encoder) EncodeNull() error { return nil }

// EncodeObjectIdentifier DER-encodes oid (kept from the teacher: OER
// and PER both reuse the DER content octets for OBJECT IDENTIFIER,
// framed by this variant's own length determinant).
func (e *Encoder) EncodeObjectIdentifier(oid asn1.ObjectIdentifier) error {
	der, err := asn1.Marshal(oid)
	if err != nil {
		return err
	}
	// Strip the DER tag (0x06) and length octet(s); the caller's
	// length-determinant framing already records the content length.
	if len(der) < 2 {
		return fmt.Errorf("per: malformed OID DER encoding")
	}
	content := der[2:]
	if der[1]&0x80 != 0 {
		content = der[2+int(der[1]&0x7F):]
	}
	if err := e.EncodeConstrainedWholeNumber(0, 0xFF, int64(len(content))); err != nil {
		return err
	}
	return e.EncodeOctetStringFixSize(content)
}
