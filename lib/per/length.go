package per

import "fmt"

// EncodeLengthDeterminant implements ITU-T X.691 clause 11.9's
// unconstrained length determinant: values below 128 fit a single
// byte; values in [128, 16384) use the two-byte "10" + 14-bit form.
// Fragmentation into 16K/32K/48K/64K chunks (clause 11.9.4, for
// lengths ≥ 16384) is not implemented: no scenario in this
// repository's test vectors produces a single PER length that large,
// and fragmentation requires interleaving length-determinant bytes
// with content writes at the call site rather than a single
// self-contained helper — left as a documented limitation rather than
// a half-finished implementation.
func (e *Encoder) EncodeLengthDeterminant(n uint64) error {
	if n < 128 {
		return e.stream.Write(8, n)
	}
	if n < FRAGMENT_SIZE {
		return e.stream.Write(16, 0x8000|n)
	}
	return fmt.Errorf("per: length %d requires fragmentation, not supported", n)
}

// DecodeLengthDeterminant mirrors EncodeLengthDeterminant.
func (d *Decoder) DecodeLengthDeterminant() (uint64, error) {
	first, err := d.stream.Read(8)
	if err != nil {
		return 0, err
	}
	if first&0x80 == 0 {
		return first, nil
	}
	if first&0xC0 == 0x80 {
		rest, err := d.stream.Read(8)
		if err != nil {
			return 0, err
		}
		return ((first & 0x3F) << 8) | rest, nil
	}
	return 0, fmt.Errorf("per: fragmented length determinant not supported")
}

// EncodeNormallySmallLength implements clause 10.9.3.4's "normally
// small length" used for extension-addition bitmap counts: n in
// [1,64] is written as (n-1) in 6 bits behind a leading 0 bit; larger
// counts fall back to the general length determinant behind a leading
// 1 bit.
func (e *Encoder) EncodeNormallySmallLength(n uint64) error {
	if n >= 1 && n <= 64 {
		if err := e.stream.AppendBit(0); err != nil {
			return err
		}
		return e.stream.Write(6, n-1)
	}
	if err := e.stream.AppendBit(1); err != nil {
		return err
	}
	return e.EncodeLengthDeterminant(n)
}

// DecodeNormallySmallLength mirrors EncodeNormallySmallLength.
func (d *Decoder) DecodeNormallySmallLength() (uint64, error) {
	big, err := d.stream.ReadBit()
	if err != nil {
		return 0, err
	}
	if big == 0 {
		v, err := d.stream.Read(6)
		if err != nil {
			return 0, err
		}
		return v + 1, nil
	}
	return d.DecodeLengthDeterminant()
}
