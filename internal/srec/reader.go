package srec

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/davidknoll/flexutils/internal/record"
)

// Reader decodes Motorola S-records (S0, S1, S5 and S9) from a text stream.
type Reader struct {
	src *byteSource
}

// NewReader wraps r for record decoding.
func NewReader(r io.Reader) *Reader {
	return &Reader{src: newByteSource(r)}
}

// Offset returns the number of input bytes consumed so far.
func (r *Reader) Offset() int64 { return r.src.offset }

// ReadRecord decodes the next record. NUL, CR and LF between records are
// skipped. It returns io.EOF when the input ends cleanly between records and
// a *record.DecodeError for bad framing, unsupported types, truncation and
// checksum mismatches. The returned record has already been verified.
func (r *Reader) ReadRecord() (record.Record, error) {
	for {
		c, err := r.src.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return record.Record{}, io.EOF
			}
			return record.Record{}, errors.Wrap(err, "read s-record")
		}
		if c == 'S' {
			break
		}
		if c != 0x00 && c != '\r' && c != '\n' {
			return record.Record{}, record.NewDecodeErrorAt(record.ErrBadFraming, r.src.offset-1, c,
				"expected S at start of record")
		}
	}

	typ, err := r.src.ReadByte()
	if err != nil {
		return record.Record{}, r.fail(err, 'S')
	}
	var kind record.Kind
	switch typ {
	case '0':
		kind = record.Header
	case '1':
		kind = record.Data
	case '5':
		kind = record.Count
	case '9':
		kind = record.TransferAddress
	default:
		return record.Record{}, record.NewDecodeErrorAt(record.ErrUnsupportedType, r.src.offset-1, typ,
			fmt.Sprintf("S%c records are not supported", typ))
	}

	count, err := ReadByte(r.src)
	if err != nil {
		return record.Record{}, r.fail(err, typ)
	}
	if count < 3 {
		return record.Record{}, record.NewDecodeError(record.ErrBadFraming, r.src.offset, typ,
			fmt.Sprintf("byte count %d is shorter than address and checksum", count))
	}
	addr, err := ReadWord(r.src)
	if err != nil {
		return record.Record{}, r.fail(err, typ)
	}
	rec := record.Record{Kind: kind, Address: addr}
	if n := int(count) - 3; n > 0 {
		rec.Payload = make([]byte, n)
		for i := range rec.Payload {
			if rec.Payload[i], err = ReadByte(r.src); err != nil {
				return record.Record{}, r.fail(err, typ)
			}
		}
	}
	if rec.Checksum, err = ReadByte(r.src); err != nil {
		return record.Record{}, r.fail(err, typ)
	}
	if !rec.Valid() {
		return record.Record{}, record.NewDecodeError(record.ErrChecksum, r.src.offset, typ,
			fmt.Sprintf("stored %02X, computed %02X", rec.Checksum, record.Checksum(rec.Frame())))
	}
	return rec, nil
}

func (r *Reader) fail(err error, code byte) error {
	if errors.Is(err, record.ErrTruncated) || errors.Is(err, io.EOF) {
		return record.NewDecodeError(record.ErrTruncated, r.src.offset, code, "")
	}
	return errors.Wrap(err, "read s-record")
}
