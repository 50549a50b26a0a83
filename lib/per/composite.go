package per

import (
	"fmt"

	"github.com/thebagchi/asn1c-go/lib/errs"
)

// Composite Codec (spec §4.5). None of this had a prior Go
// implementation to adapt: the package this was built from documents
// ITU-T X.691 clauses 19 (SEQUENCE), 20 (SEQUENCE OF), and 23
// (CHOICE) in comments only. Authored fresh against those clauses and
// against asn1crt.c's general encode/decode-mirror discipline.

// EncodeSequencePreamble writes one presence bit per optional/default
// field, in declaration order — PER's bit-packed preamble (clause
// 19.6). OER's byte-padded preamble lives in lib/oer.
func (e *Encoder) EncodeSequencePreamble(present []bool) error {
	for _, p := range present {
		if err := e.EncodeBoolean(p); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSequencePreamble reads n presence bits.
func (d *Decoder) DecodeSequencePreamble(n int) ([]bool, error) {
	out := make([]bool, n)
	for i := range out {
		v, err := d.DecodeBoolean()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeExtensionBit writes the single "extension present" bit at a
// sequence's declared extension marker position.
func (e *Encoder) EncodeExtensionBit(present bool) error { return e.EncodeBoolean(present) }

// DecodeExtensionBit reads it back.
func (d *Decoder) DecodeExtensionBit() (bool, error) { return d.DecodeBoolean() }

// EncodeExtensionAdditionsPresence writes the normally-small-length-
// prefixed bitmap of which extension additions follow.
func (e *Encoder) EncodeExtensionAdditionsPresence(present []bool) error {
	if err := e.EncodeNormallySmallLength(uint64(len(present))); err != nil {
		return err
	}
	for _, p := range present {
		if err := e.EncodeBoolean(p); err != nil {
			return err
		}
	}
	return nil
}

// DecodeExtensionAdditionsPresence reads the bitmap back. The caller
// knows how many additions its own schema version declares; bits
// beyond that count describe additions unknown to this decoder and
// are reported as-is so the caller can decide to skip them.
func (d *Decoder) DecodeExtensionAdditionsPresence() ([]bool, error) {
	n, err := d.DecodeNormallySmallLength()
	if err != nil {
		return nil, err
	}
	out := make([]bool, n)
	for i := range out {
		v, err := d.DecodeBoolean()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeExtensionAddition frames one extension-addition field with a
// PER length determinant (EncodeLengthDeterminant, after encoding the
// field into a scratch buffer first) so that a decoder which does not
// know this addition can skip it without understanding its content,
// per spec.md's forward-compatibility rule.
func (e *Encoder) EncodeExtensionAddition(encodeFn func(*Encoder) error) error {
	if err := e.alignIfAligned2(); err != nil {
		return err
	}
	scratch := make([]byte, 65536)
	sub := NewEncoder(scratch, e.aligned)
	if err := encodeFn(sub); err != nil {
		return err
	}
	content := sub.Bytes()
	if err := e.EncodeLengthDeterminant(uint64(len(content))); err != nil {
		return err
	}
	return e.stream.WriteBytes(content)
}

// alignIfAligned2 aligns unconditionally: extension-addition content
// is always byte-framed (it carries its own length prefix) regardless
// of whether the enclosing stream is aligned or unaligned PER.
func (e *Encoder) alignIfAligned2() error { return e.stream.Align() }

// DecodeExtensionAddition reads one length-framed extension-addition
// field. If known is false the field's bytes are consumed and
// discarded (an unknown addition is never an error). If known is true
// and the content is shorter than decodeFn consumes, ErrOutOfData
// propagates; if longer, the remainder is silently skipped.
func (d *Decoder) DecodeExtensionAddition(known bool, decodeFn func(*Decoder) error) error {
	if err := d.stream.Align(); err != nil {
		return err
	}
	n, err := d.DecodeLengthDeterminant()
	if err != nil {
		return err
	}
	raw, err := d.stream.ReadBytes(int(n))
	if err != nil {
		return err
	}
	if !known {
		return nil
	}
	sub := NewDecoder(raw, d.aligned)
	if err := decodeFn(sub); err != nil {
		return err
	}
	if sub.Consumed() > len(raw) {
		return errs.ErrOutOfData
	}
	return nil
}

// EncodeSequenceOfLength writes a SEQUENCE OF's element count as a
// constrained integer over [0,max] (clause 20's length determinant
// when a compile-time maximum is known).
func (e *Encoder) EncodeSequenceOfLength(n, max int64) error {
	if max > MAX_CONSTRAINED_LENGTH {
		// Counts beyond clause 11.9.3.3's constrained-length ceiling
		// require the fragmentation this module doesn't implement
		// (see length.go); reject rather than silently truncate.
		return fmt.Errorf("%w: sequence-of max %d exceeds constrained length limit %d", errs.ErrBadLength, max, MAX_CONSTRAINED_LENGTH)
	}
	if n < 0 || n > max {
		return fmt.Errorf("%w: sequence-of length %d exceeds max %d", errs.ErrBadLength, n, max)
	}
	return e.EncodeConstrainedWholeNumber(0, max, n)
}

// DecodeSequenceOfLength reads the count back and rejects lengths
// exceeding the compile-time max.
func (d *Decoder) DecodeSequenceOfLength(max int64) (int64, error) {
	n, err := d.DecodeConstrainedWholeNumber(0, max)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > max {
		return 0, errs.ErrBadLength
	}
	return n, nil
}

// EncodeChoiceDiscriminant writes the chosen alternative's index as a
// constrained integer over the declared alternative set (clause 23).
func (e *Encoder) EncodeChoiceDiscriminant(index, count uint64, extensible bool) error {
	if !extensible && index >= count {
		return errs.ErrBadChoice
	}
	if extensible {
		inRange := index < count
		if err := e.EncodeBoolean(!inRange); err != nil {
			return err
		}
		if !inRange {
			return e.EncodeSemiConstrainedWholeNumber(0, int64(index))
		}
	}
	if count == 0 {
		return errs.ErrBadChoice
	}
	return e.EncodeConstrainedWholeNumber(0, int64(count)-1, int64(index))
}

// DecodeChoiceDiscriminant reads the alternative index back, rejecting
// any value outside the declared set with ErrBadChoice (spec §7's
// discriminant-error class, distinct from ErrBadEnum).
func (d *Decoder) DecodeChoiceDiscriminant(count uint64, extensible bool) (uint64, error) {
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
		return 0, errs.ErrBadChoice
	}
	v, err := d.DecodeConstrainedWholeNumber(0, int64(count)-1)
	if err != nil {
		return 0, err
	}
	if uint64(v) >= count {
		return 0, errs.ErrBadChoice
	}
	return uint64(v), nil
}

// AlignToNextByte, AlignToNextWord, AlignToNextDWord expose the
// BitStream alignment primitives ACN uses directly (spec §4.5).
func (e *Encoder) AlignToNextByte() error  { return e.stream.Align() }
func (e *Encoder) AlignToNextWord() error  { return e.stream.AlignWord() }
func (e *Encoder) AlignToNextDWord() error { return e.stream.AlignDWord() }

func (d *Decoder) AlignToNextByte() error  { return d.stream.Align() }
func (d *Decoder) AlignToNextWord() error  { return d.stream.AlignWord() }
func (d *Decoder) AlignToNextDWord() error { return d.stream.AlignDWord() }
