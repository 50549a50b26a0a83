// Package errs defines the fixed-value error taxonomy shared by every
// wire variant in this module. The numeric codes are ABI-stable: a
// caller on the other side of a C-style encode/decode boundary (a
// negative return value in place of a byte count) recovers them via
// Code.
package errs

import "errors"

// Fixed ABI codes. Do not renumber: generated callers may depend on
// these values crossing a non-Go boundary.
const (
	CodeOutOfData        = 101
	CodeIncorrectStream   = 102
	CodeBadChoice         = 103
	CodeBadEnum           = 104
	CodeNoMem             = 110
	CodeBadLength         = 111
)

// Sentinel errors. Wrap with fmt.Errorf("%w: ...", ErrX) for context;
// callers compare with errors.Is.
var (
	// ErrOutOfData is returned when a read would need more bits than
	// remain in the attached buffer.
	ErrOutOfData = errors.New("asn1c-go: insufficient data")

	// ErrIncorrectStream marks a decoded value that is structurally
	// inconsistent with the stream (e.g. a non-digit byte in an ACN
	// ASCII integer, or a reserved base field in a binary REAL header).
	ErrIncorrectStream = errors.New("asn1c-go: incorrect stream")

	// ErrBadChoice marks a choice discriminant outside the declared
	// set of alternatives.
	ErrBadChoice = errors.New("asn1c-go: bad choice alternative")

	// ErrBadEnum marks an enumerated tag outside the declared set.
	ErrBadEnum = errors.New("asn1c-go: bad enumerated value")

	// ErrNoMem is returned when a write would exceed the capacity of
	// the caller-supplied buffer.
	ErrNoMem = errors.New("asn1c-go: out of capacity")

	// ErrBadLength marks a length determinant that is internally
	// inconsistent (too many length-of-length bytes) or that the
	// schema forbids.
	ErrBadLength = errors.New("asn1c-go: bad length determinant")
)

var codes = map[error]int{
	ErrOutOfData:        CodeOutOfData,
	ErrIncorrectStream:  CodeIncorrectStream,
	ErrBadChoice:        CodeBadChoice,
	ErrBadEnum:          CodeBadEnum,
	ErrNoMem:            CodeNoMem,
	ErrBadLength:        CodeBadLength,
}

// Code recovers the fixed ABI integer for an error produced by this
// module, walking the wrap chain. Returns 0 if err is nil and -1 if
// err does not wrap one of the sentinels above.
func Code(err error) int {
	if err == nil {
		return 0
	}
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return -1
}
