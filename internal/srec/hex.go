package srec

import (
	"bufio"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/davidknoll/flexutils/internal/record"
)

// byteSource counts every byte taken from the underlying reader so decode
// errors can report where they happened.
type byteSource struct {
	r      *bufio.Reader
	offset int64
}

func newByteSource(r io.Reader) *byteSource {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &byteSource{r: br}
}

func (s *byteSource) ReadByte() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, err
	}
	s.offset++
	return b, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')
}

// ReadNibble consumes input up to and including the next uppercase hex digit
// and returns its value. Anything else, lowercase digits included, is skipped
// silently. This leniency lets the decoder resynchronise past line noise and
// will also step over genuine corruption; the checksum is the only guard.
// End of input before a digit is reported as a truncated record.
func ReadNibble(r io.ByteReader) (byte, error) {
	for {
		c, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, record.ErrTruncated
			}
			return 0, err
		}
		if !isHexDigit(c) {
			continue
		}
		if c <= '9' {
			return c - '0', nil
		}
		return c - 'A' + 0x0A, nil
	}
}

// ReadByte reads two nibbles, high first.
func ReadByte(r io.ByteReader) (byte, error) {
	hi, err := ReadNibble(r)
	if err != nil {
		return 0, err
	}
	lo, err := ReadNibble(r)
	if err != nil {
		return 0, err
	}
	return hi<<4 | lo, nil
}

// ReadWord reads two hex bytes, high first.
func ReadWord(r io.ByteReader) (uint16, error) {
	hi, err := ReadByte(r)
	if err != nil {
		return 0, err
	}
	lo, err := ReadByte(r)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}
