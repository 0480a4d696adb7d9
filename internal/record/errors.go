package record

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Decode failure classes. End of input is reported as io.EOF, not as one of
// these.
var (
	ErrBadFraming      = errors.New("bad framing")
	ErrUnsupportedType = errors.New("unsupported record type")
	ErrChecksum        = errors.New("checksum mismatch")
	ErrTruncated       = errors.New("unexpected end of input inside record")
)

// DecodeError locates a decode failure in the input stream. When At is set,
// Offset is the position of the offending byte; otherwise it is the position
// just past the record that failed.
type DecodeError struct {
	Err    error
	Offset int64
	Code   byte
	At     bool
	Detail string
}

// Position describes Offset relative to the failure, "at" or "before".
func (e *DecodeError) Position() string {
	if e.At {
		return "at"
	}
	return "before"
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("%v (code %02X) %s offset %04X", e.Err, e.Code, e.Position(), e.Offset)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// NewDecodeError builds a DecodeError for class err detected before offset.
func NewDecodeError(err error, offset int64, code byte, detail string) error {
	return errors.WithStack(&DecodeError{Err: err, Offset: offset, Code: code, Detail: detail})
}

// NewDecodeErrorAt builds a DecodeError for the offending byte code found at
// offset.
func NewDecodeErrorAt(err error, offset int64, code byte, detail string) error {
	return errors.WithStack(&DecodeError{Err: err, Offset: offset, Code: code, At: true, Detail: detail})
}

// Offset returns the input offset recorded in err, if any.
func Offset(err error) (int64, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Offset, true
	}
	return 0, false
}
