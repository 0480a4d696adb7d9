// Package flexbin reads and writes FLEX binary loader images.
//
// An image is a sequence of records:
//
//	0x02 addrHi addrLo len data[len]   data record
//	0x16 addrHi addrLo                 transfer address record
//
// Zero bytes between records are padding. Any other leading byte ends the
// image as far as the loader is concerned.
package flexbin

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/davidknoll/flexutils/internal/record"
)

const (
	TypePad      = 0x00
	TypeData     = 0x02
	TypeTransfer = 0x16
)

// Reader decodes FLEX binary records.
type Reader struct {
	r      *bufio.Reader
	offset int64
}

// NewReader wraps r for record decoding.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br}
}

// Offset returns the number of input bytes consumed so far.
func (r *Reader) Offset() int64 { return r.offset }

func (r *Reader) next() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, err
	}
	r.offset++
	return b, nil
}

// ReadRecord decodes the next data or transfer record, skipping padding. It
// returns io.EOF at a clean end of input. An unrecognised type byte yields a
// *record.DecodeError wrapping record.ErrUnsupportedType with the offset of
// that byte.
func (r *Reader) ReadRecord() (record.Record, error) {
	var typ byte
	for {
		b, err := r.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return record.Record{}, io.EOF
			}
			return record.Record{}, errors.Wrap(err, "read flex binary")
		}
		if b != TypePad {
			typ = b
			break
		}
	}

	var rec record.Record
	switch typ {
	case TypeData:
		rec.Kind = record.Data
	case TypeTransfer:
		rec.Kind = record.TransferAddress
	default:
		return record.Record{}, record.NewDecodeErrorAt(record.ErrUnsupportedType, r.offset-1, typ,
			"unrecognised record type")
	}

	var addr [2]byte
	if err := r.full(addr[:], typ); err != nil {
		return record.Record{}, err
	}
	rec.Address = uint16(addr[0])<<8 | uint16(addr[1])

	if rec.Kind == record.Data {
		n, err := r.next()
		if err != nil {
			return record.Record{}, r.fail(err, typ)
		}
		if n > 0 {
			rec.Payload = make([]byte, n)
			if err := r.full(rec.Payload, typ); err != nil {
				return record.Record{}, err
			}
		}
		if len(rec.Payload) > record.MaxPayload {
			return record.Record{}, record.NewDecodeError(record.ErrBadFraming, r.offset, typ,
				fmt.Sprintf("data record of %d bytes exceeds %d", n, record.MaxPayload))
		}
	}
	rec.Seal()
	return rec, nil
}

func (r *Reader) full(buf []byte, typ byte) error {
	n, err := io.ReadFull(r.r, buf)
	r.offset += int64(n)
	if err != nil {
		return r.fail(err, typ)
	}
	return nil
}

func (r *Reader) fail(err error, typ byte) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return record.NewDecodeError(record.ErrTruncated, r.offset, typ, "")
	}
	return errors.Wrap(err, "read flex binary")
}

// Writer encodes records as FLEX binary. Output is buffered; call Flush when
// done.
type Writer struct {
	w       *bufio.Writer
	written int64
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Written returns the number of bytes emitted so far.
func (w *Writer) Written() int64 { return w.written }

// WriteRecord emits a data or transfer address record. Other kinds have no
// FLEX binary representation and are rejected.
func (w *Writer) WriteRecord(rec record.Record) error {
	var buf []byte
	switch rec.Kind {
	case record.Data:
		if len(rec.Payload) > 0xFF {
			return errors.Wrapf(record.ErrBadFraming, "payload of %d bytes exceeds 255", len(rec.Payload))
		}
		buf = make([]byte, 0, len(rec.Payload)+4)
		buf = append(buf, TypeData, byte(rec.Address>>8), byte(rec.Address), byte(len(rec.Payload)))
		buf = append(buf, rec.Payload...)
	case record.TransferAddress:
		buf = []byte{TypeTransfer, byte(rec.Address >> 8), byte(rec.Address)}
	default:
		return errors.Wrapf(record.ErrUnsupportedType, "cannot encode %s record as flex binary", rec.Kind)
	}
	n, err := w.w.Write(buf)
	w.written += int64(n)
	if err != nil {
		return errors.Wrap(err, "write flex binary")
	}
	return nil
}

// Flush pushes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return errors.Wrap(err, "flush flex binary")
	}
	return nil
}
