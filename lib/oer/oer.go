// Package oer implements the byte-aligned Octet Encoding Rules wire
// variant (spec §4.6): fixed byte-width integers, the OER length
// determinant, byte-padded presence preambles, and tag-byte choice
// discriminants. None of this had a prior implementation in the
// teacher (thebagchi/asn1c-go carries only a uPER/Aligned-PER front
// end); it is authored fresh here, grounded on asn1crt.c's
// decode-mirrors-encode discipline and on the OER clauses spec.md §4.4
// /§4.5 quote directly (ITU-T X.696).
package oer

import (
	"encoding/binary"
	"fmt"

	"github.com/thebagchi/asn1c-go/lib/bitstream"
	"github.com/thebagchi/asn1c-go/lib/errs"
)

// Encoder writes OER-encoded values into a caller-supplied, fixed
// capacity, byte-aligned buffer.
type Encoder struct {
	stream *bitstream.BitStream
}

// Decoder reads OER-encoded values from a caller-supplied byte region.
type Decoder struct {
	stream *bitstream.BitStream
}

func NewEncoder(buf []byte) *Encoder { return &Encoder{stream: bitstream.Init(buf)} }
func NewDecoder(data []byte) *Decoder { return &Decoder{stream: bitstream.AttachBuffer(data)} }

func (e *Encoder) Bytes() []byte { return e.stream.Bytes() }
func (e *Encoder) Len() int      { return e.stream.Length() }
func (d *Decoder) Consumed() int { return d.stream.Length() }

// --- Length determinant (spec §4.4) ---

// EncodeLengthDeterminant implements the OER length-prefix rule: L≤127
// is a single byte; otherwise a leading byte 0x80|k followed by L in k
// big-endian bytes, where k = minimum byte width of L. k is capped at
// 8 (this module's native int width is always 64-bit, so the "unless
// the target is 64-bit" exception in spec.md always applies — values
// needing more than 4 bytes are accepted here rather than rejected,
// matching a 64-bit build).
func (e *Encoder) EncodeLengthDeterminant(length uint64) error {
	if length <= 127 {
		return e.stream.Write(8, length)
	}
	k := byteWidth(length)
	if err := e.stream.Write(8, uint64(0x80|k)); err != nil {
		return err
	}
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], length)
	return e.stream.WriteBytes(tmp[8-k:])
}

// DecodeLengthDeterminant mirrors EncodeLengthDeterminant, validating
// k ≤ 8 per spec.md's decoder rule.
func (d *Decoder) DecodeLengthDeterminant() (uint64, error) {
	first, err := d.stream.ReadByte()
	if err != nil {
		return 0, err
	}
	if first&0x80 == 0 {
		return uint64(first), nil
	}
	k := int(first & 0x7F)
	if k == 0 || k > 8 {
		return 0, fmt.Errorf("%w: oer length-of-length %d out of range", errs.ErrBadLength, k)
	}
	raw, err := d.stream.ReadBytes(k)
	if err != nil {
		return 0, err
	}
	var tmp [8]byte
	copy(tmp[8-k:], raw)
	return binary.BigEndian.Uint64(tmp[:]), nil
}

func byteWidth(v uint64) int {
	n := 1
	for v > 0xFF {
		v >>= 8
		n++
	}
	return n
}

// --- Fixed byte-width integer (spec §4.2/§4.6) ---

// EncodeFixedWidthUnsigned writes v in width bytes (1, 2, 4, or 8),
// big-endian, the byte width chosen by the schema's declared range.
func (e *Encoder) EncodeFixedWidthUnsigned(v uint64, width int) error {
	if err := validWidth(width); err != nil {
		return err
	}
	return e.stream.Write(uint8(width*8), v)
}

// DecodeFixedWidthUnsigned reads width bytes back as an unsigned value.
func (d *Decoder) DecodeFixedWidthUnsigned(width int) (uint64, error) {
	if err := validWidth(width); err != nil {
		return 0, err
	}
	return d.stream.Read(uint8(width * 8))
}

// EncodeFixedWidthSigned writes v's two's-complement representation in
// width bytes.
func (e *Encoder) EncodeFixedWidthSigned(v int64, width int) error {
	if err := validWidth(width); err != nil {
		return err
	}
	return e.stream.Write(uint8(width*8), uint64(v))
}

// DecodeFixedWidthSigned reads width bytes back and sign-extends to
// int64.
func (d *Decoder) DecodeFixedWidthSigned(width int) (int64, error) {
	if err := validWidth(width); err != nil {
		return 0, err
	}
	w := uint8(width * 8)
	v, err := d.stream.Read(w)
	if err != nil {
		return 0, err
	}
	if w < 64 && v&(1<<(w-1)) != 0 {
		v |= ^bitstream.Mask64(w)
	}
	return int64(v), nil
}

func validWidth(width int) error {
	switch width {
	case 1, 2, 4, 8:
		return nil
	default:
		return fmt.Errorf("%w: oer fixed integer width must be 1, 2, 4 or 8, got %d", errs.ErrBadLength, width)
	}
}

// --- Boolean (spec §3) ---

// EncodeBoolean writes a single OER boolean octet: 0x00 for false,
// 0xFF for true (ITU-T X.696 clause 8.9).
func (e *Encoder) EncodeBoolean(v bool) error {
	if v {
		return e.stream.Write(8, 0xFF)
	}
	return e.stream.Write(8, 0x00)
}

// DecodeBoolean reads the octet back: any non-zero byte decodes true,
// matching the permissive "FALSE is 0x00, TRUE is any other octet"
// decoder rule.
func (d *Decoder) DecodeBoolean() (bool, error) {
	b, err := d.stream.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0x00, nil
}

// --- Presence preamble (spec §4.5) ---

// EncodePreamble writes one presence byte-padded bitmap covering every
// optional/default field, padded with zero bits to the next byte
// boundary (OER's byte-aligned equivalent of PER's bit-packed
// preamble).
func (e *Encoder) EncodePreamble(present []bool) error {
	for _, p := range present {
		if p {
			if err := e.stream.AppendBit(1); err != nil {
				return err
			}
		} else if err := e.stream.AppendBit(0); err != nil {
			return err
		}
	}
	return e.stream.Align()
}

// DecodePreamble reads n presence bits and discards the pad.
func (d *Decoder) DecodePreamble(n int) ([]bool, error) {
	out := make([]bool, n)
	for i := range out {
		v, err := d.stream.ReadBit()
		if err != nil {
			return nil, err
		}
		out[i] = v != 0
	}
	if err := d.stream.Align(); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Choice tag discriminant (spec §4.5) ---

// EncodeChoiceTag writes a tag byte 0x80|index for index < 0x7F;
// indices at or beyond that use the high-bit continuation convention
// (ASN.1 long-form tag-number extension): 0xFF followed by index as a
// base-128 big-endian varint with continuation bit 0x80 set on every
// byte but the last.
func (e *Encoder) EncodeChoiceTag(index uint64) error {
	if index < 0x7F {
		return e.stream.Write(8, 0x80|index)
	}
	if err := e.stream.Write(8, 0xFF); err != nil {
		return err
	}
	var digits []byte
	v := index
	digits = append(digits, byte(v&0x7F))
	v >>= 7
	for v > 0 {
		digits = append(digits, byte(v&0x7F)|0x80)
		v >>= 7
	}
	for i := len(digits) - 1; i >= 0; i-- {
		if err := e.stream.Write(8, uint64(digits[i])); err != nil {
			return err
		}
	}
	return nil
}

// DecodeChoiceTag reads a tag byte back into an alternative index,
// rejecting any index outside [0,count) with ErrBadChoice.
func (d *Decoder) DecodeChoiceTag(count uint64) (uint64, error) {
	first, err := d.stream.ReadByte()
	if err != nil {
		return 0, err
	}
	var index uint64
	if first != 0xFF {
		if first&0x80 == 0 {
			return 0, errs.ErrBadChoice
		}
		index = uint64(first & 0x7F)
	} else {
		for {
			b, err := d.stream.ReadByte()
			if err != nil {
				return 0, err
			}
			index = (index << 7) | uint64(b&0x7F)
			if b&0x80 == 0 {
				break
			}
		}
	}
	if index >= count {
		return 0, errs.ErrBadChoice
	}
	return index, nil
}

// --- Length-prefixed octet string (spec §4.4) ---

// EncodeOctetStringInternal writes an OER length determinant followed
// by value's bytes.
func (e *Encoder) EncodeOctetStringInternal(value []byte) error {
	if err := e.EncodeLengthDeterminant(uint64(len(value))); err != nil {
		return err
	}
	return e.stream.WriteBytes(value)
}

// DecodeOctetStringInternal reads the length determinant back, then
// that many bytes. max bounds the accepted length; exceeding it is a
// bad-length error (this is the decoder path spec.md §8 scenario 6
// exercises with a length-of-length prefix whose declared content is
// absent from the buffer).
func (d *Decoder) DecodeOctetStringInternal(max int64) ([]byte, error) {
	n, err := d.DecodeLengthDeterminant()
	if err != nil {
		return nil, err
	}
	if int64(n) > max {
		return nil, errs.ErrBadLength
	}
	// A length determinant that declares more content than the
	// buffer has left is a length-determinant violation (spec §7,
	// category 2), not a generic capacity/underflow error — the
	// distinction spec.md §8 scenario 6 (length-of-length 2, value
	// 0x01FF, content absent) exercises.
	if int64(n) > int64(d.stream.Cap()-d.stream.BytePos()) {
		return nil, errs.ErrBadLength
	}
	return d.stream.ReadBytes(int(n))
}

// --- Sequence-of length (spec §4.5) ---

// EncodeSequenceOfLength writes a SEQUENCE OF's element count as an
// OER length determinant.
func (e *Encoder) EncodeSequenceOfLength(n uint64) error { return e.EncodeLengthDeterminant(n) }

// DecodeSequenceOfLength reads the count back and rejects lengths
// exceeding the compile-time max.
func (d *Decoder) DecodeSequenceOfLength(max uint64) (uint64, error) {
	n, err := d.DecodeLengthDeterminant()
	if err != nil {
		return 0, err
	}
	if n > max {
		return 0, errs.ErrBadLength
	}
	return n, nil
}
