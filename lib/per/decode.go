package per

import (
	"encoding/asn1"
	"fmt"
	"math"

	"github.com/thebagchi/asn1c-go/lib/bitstream"
	"github.com/thebagchi/asn1c-go/lib/errs"
	"github.com/thebagchi/asn1c-go/lib/numeric"
)

// Decoder reads PER-encoded values from a caller-supplied byte region.
// Every method here mirrors the Encoder method of the same name 1:1;
// none had a prior implementation to adapt from (the teacher's
// decode.go was a 19-line stub), so each is grounded directly on the
// corresponding BitStream_Decode*/Acn_Dec_* function in the asn1scc
// runtime this specification traces to.
type Decoder struct {
	stream  *bitstream.BitStream
	aligned bool
}

// NewDecoder attaches data (without zeroing it — decode never
// mutates) and begins decoding.
func NewDecoder(data []byte, aligned bool) *Decoder {
	return &Decoder{stream: bitstream.AttachBuffer(data), aligned: aligned}
}

// Consumed returns the number of bytes consumed so far.
func (d *Decoder) Consumed() int { return d.stream.Length() }

func (d *Decoder) alignIfAligned() error {
	if d.aligned {
		return d.stream.Align()
	}
	return nil
}

// --- Integer Codec ---

func (d *Decoder) BitsNonNegativeBinaryInteger(w uint8) (uint64, error) {
	if w == 0 {
		return 0, nil
	}
	return d.stream.Read(w)
}

// DecodeNonNegativeIntegerNeg mirrors Encoder.EncodeNonNegativeIntegerNeg;
// see its doc comment for the preserved-behavior discussion.
func (d *Decoder) DecodeNonNegativeIntegerNeg(w uint8, negate bool) (uint64, error) {
	v, err := d.BitsNonNegativeBinaryInteger(w)
	if err != nil {
		return 0, err
	}
	if negate {
		v = ^v & bitstream.Mask64(w)
	}
	return v, nil
}

func (d *Decoder) DecodeConstrainedWholeNumber(min, max int64) (int64, error) {
	rng := uint64(max - min)
	w := numeric.BitsFor(rng)
	if w == 0 {
		return min, nil
	}
	v, err := d.BitsNonNegativeBinaryInteger(w)
	if err != nil {
		return 0, err
	}
	return min + int64(v), nil
}

func (d *Decoder) DecodeSemiConstrainedWholeNumber(min int64) (int64, error) {
	if err := d.alignIfAligned(); err != nil {
		return 0, err
	}
	nBytesV, err := d.DecodeConstrainedWholeNumber(0, 255)
	if err != nil {
		return 0, err
	}
	nBytes := int(nBytesV)
	if nBytes == 0 {
		return min, nil
	}
	v, err := d.stream.Read(uint8(nBytes * 8))
	if err != nil {
		return 0, err
	}
	return min + int64(v), nil
}

func (d *Decoder) DecodeUnconstrainedWholeNumber() (int64, error) {
	if err := d.alignIfAligned(); err != nil {
		return 0, err
	}
	nBytesV, err := d.DecodeConstrainedWholeNumber(0, 255)
	if err != nil {
		return 0, err
	}
	nBytes := int(nBytesV)
	if nBytes == 0 || nBytes > 8 {
		return 0, fmt.Errorf("%w: unconstrained integer length %d out of range", errs.ErrBadLength, nBytes)
	}
	w := uint8(nBytes * 8)
	v, err := d.stream.Read(w)
	if err != nil {
		return 0, err
	}
	// Sign-extend from the w-bit two's complement field to int64.
	if w < 64 && v&(1<<(w-1)) != 0 {
		v |= ^bitstream.Mask64(w)
	}
	return int64(v), nil
}

func (d *Decoder) DecodeBoolean() (bool, error) {
	v, err := d.stream.ReadBit()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (d *Decoder) DecodeInteger(lb, ub *int64, extensible bool) (int64, error) {
	if extensible {
		isExt, err := d.DecodeBoolean()
		if err != nil {
			return 0, err
		}
		if isExt {
			return d.DecodeUnconstrainedWholeNumber()
		}
	}
	switch {
	case lb != nil && ub != nil:
		return d.DecodeConstrainedWholeNumber(*lb, *ub)
	case lb != nil:
		return d.DecodeSemiConstrainedWholeNumber(*lb)
	default:
		return d.DecodeUnconstrainedWholeNumber()
	}
}

func (d *Decoder) DecodeEnumerated(count uint64, extensible bool) (uint64, error) {
	if extensible {
		isExt, err := d.DecodeBoolean()
		if err != nil {
			return 0, err
		}
		if isExt {
			v, err := d.DecodeSemiConstrainedWholeNumber(0)
			if err != nil {
				return 0, err
			}
			return uint64(v), nil
		}
	}
	if count == 0 {
		return 0, errs.ErrBadEnum
	}
	v, err := d.DecodeConstrainedWholeNumber(0, int64(count)-1)
	if err != nil {
		return 0, err
	}
	if uint64(v) >= count {
		return 0, errs.ErrBadEnum
	}
	return uint64(v), nil
}

// --- Real Codec ---

func (d *Decoder) DecodeRealIEEE754() (float64, error) {
	if err := d.alignIfAligned(); err != nil {
		return 0, err
	}
	v, err := d.stream.Read(64)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (d *Decoder) DecodeReal() (float64, error) {
	if err := d.alignIfAligned(); err != nil {
		return 0, err
	}
	totalLenV, err := d.DecodeConstrainedWholeNumber(0, 0xFF)
	if err != nil {
		return 0, err
	}
	totalLen := int(totalLenV)
	if totalLen == 0 {
		return 0, nil
	}
	headerV, err := d.stream.Read(8)
	if err != nil {
		return 0, err
	}
	header := byte(headerV)

	if header == 0x40 {
		return math.Inf(1), nil
	}
	if header == 0x41 {
		return math.Inf(-1), nil
	}
	if header == 0x42 {
		return math.NaN(), nil
	}
	if header == 0x43 {
		return math.Copysign(0, -1), nil
	}

	negative := header&0x40 != 0

	// Base (bits 5-4): 00/01/10 -> 2/8/16, expressed as the power of 2
	// each unit of exponent represents (asn1crt.c's expFactor).
	var expFactor int64
	switch (header >> 4) & 0x03 {
	case 0:
		expFactor = 1
	case 1:
		expFactor = 3
	case 2:
		expFactor = 4
	default:
		return 0, fmt.Errorf("%w: real header declares reserved base field", errs.ErrIncorrectStream)
	}
	// Scale factor F (bits 3-2): mantissa is left-shifted by F before
	// combining with the exponent.
	scale := uint((header >> 2) & 0x03)

	remaining := totalLen - 1
	var nExpLen int
	if header&0x03 == 0x03 {
		// Length-prefixed exponent: a length octet, then that many
		// two's-complement exponent octets.
		lenRaw, err := d.stream.Read(8)
		if err != nil {
			return 0, err
		}
		nExpLen = int(lenRaw)
		remaining--
	} else {
		nExpLen = int(header&0x03) + 1
	}
	if nExpLen <= 0 || nExpLen > 8 || nExpLen > remaining {
		return 0, fmt.Errorf("%w: real exponent length %d inconsistent with total length %d", errs.ErrBadLength, nExpLen, totalLen)
	}

	expRaw, err := d.stream.Read(uint8(nExpLen * 8))
	if err != nil {
		return 0, err
	}
	exponent := int64(expRaw)
	if expRaw&(1<<(nExpLen*8-1)) != 0 {
		exponent |= ^int64(bitstream.Mask64(uint8(nExpLen * 8)))
	}

	nManLen := remaining - nExpLen
	if nManLen < 0 || nManLen > 8 {
		return 0, fmt.Errorf("%w: real mantissa length %d inconsistent with total length %d", errs.ErrBadLength, nManLen, totalLen)
	}

	var mantissa uint64
	if nManLen > 0 {
		mantissa, err = d.stream.Read(uint8(nManLen * 8))
		if err != nil {
			return 0, err
		}
	}
	mantissa <<= scale

	value := float64(mantissa) * math.Pow(2, float64(expFactor*exponent))
	if negative {
		value = -value
	}
	return value, nil
}

// --- String / Octet / Bit String Codec ---

func (d *Decoder) DecodeOctetStringFixSize(n int) ([]byte, error) {
	if err := d.alignIfAligned(); err != nil {
		return nil, err
	}
	return d.stream.ReadBytes(n)
}

func (d *Decoder) DecodeOctetStringExternal(n int) ([]byte, error) {
	return d.DecodeOctetStringFixSize(n)
}

func (d *Decoder) DecodeOctetStringInternal(min, max int64) ([]byte, error) {
	n, err := d.DecodeConstrainedWholeNumber(min, max)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > max {
		return nil, errs.ErrBadLength
	}
	return d.DecodeOctetStringFixSize(int(n))
}

func (d *Decoder) DecodeOctetStringNullTerminated(max int, term byte) ([]byte, error) {
	out := make([]byte, 0, max)
	for len(out) < max {
		b, err := d.stream.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == term {
			return out, nil
		}
		out = append(out, b)
	}
	b, err := d.stream.ReadByte()
	if err != nil {
		return nil, err
	}
	if b != term {
		return nil, fmt.Errorf("%w: missing terminator after max length", errs.ErrIncorrectStream)
	}
	return out, nil
}

func (d *Decoder) DecodeBitString(bitLen int) ([]byte, error) {
	if err := d.alignIfAligned(); err != nil {
		return nil, err
	}
	return d.stream.ReadBits(bitLen)
}

func (d *Decoder) DecodeBitStringInternal(min, max int64) (asn1.BitString, error) {
	bitLen, err := d.DecodeConstrainedWholeNumber(min, max)
	if err != nil {
		return asn1.BitString{}, err
	}
	if bitLen < 0 || bitLen > max {
		return asn1.BitString{}, errs.ErrBadLength
	}
	bytesOut, err := d.DecodeBitString(int(bitLen))
	if err != nil {
		return asn1.BitString{}, err
	}
	return asn1.BitString{Bytes: bytesOut, BitLength: int(bitLen)}, nil
}

func (d *Decoder) DecodeRestrictedString(n int, permitted []byte) (string, error) {
	out := make([]byte, n)
	top := int64(len(permitted) - 1)
	for i := 0; i < n; i++ {
		idx, err := d.DecodeConstrainedWholeNumber(0, top)
		if err != nil {
			return "", err
		}
		if idx < 0 || int(idx) >= len(permitted) {
			return "", errs.ErrBadEnum
		}
		out[i] = permitted[idx]
	}
	return string(out), nil
}

func (d *Decoder) DecodeNull() error { return nil }

func (d *Decoder) DecodeObjectIdentifier() (asn1.ObjectIdentifier, error) {
	nV, err := d.DecodeConstrainedWholeNumber(0, 0xFF)
	if err != nil {
		return nil, err
	}
	content, err := d.DecodeOctetStringFixSize(int(nV))
	if err != nil {
		return nil, err
	}
	var lenOctets []byte
	if len(content) < 128 {
		lenOctets = []byte{byte(len(content))}
	} else {
		// DER long form: content length up to 255 (EncodeObjectIdentifier's
		// own ceiling, per the [0,0xFF] range of its length prefix) always
		// fits in a single length-of-length byte, 0x81.
		lenOctets = []byte{0x81, byte(len(content))}
	}
	der := append(append([]byte{0x06}, lenOctets...), content...)
	var oid asn1.ObjectIdentifier
	if _, err := asn1.Unmarshal(der, &oid); err != nil {
		return nil, err
	}
	return oid, nil
}
