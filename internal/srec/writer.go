package srec

import (
	"bufio"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/davidknoll/flexutils/internal/record"
)

// DefaultTransfer is the null start record written when a stream carries no
// transfer address of its own.
const DefaultTransfer = "S9030000FC"

// Writer encodes records as S-record lines. Output is buffered; call Flush
// when done.
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

// WriteRecord emits rec with a freshly computed checksum, one record per
// line. Header records are written with address 0000.
func (w *Writer) WriteRecord(rec record.Record) error {
	var typ byte
	switch rec.Kind {
	case record.Header:
		typ = '0'
		rec.Address = 0
	case record.Data:
		typ = '1'
	case record.Count:
		typ = '5'
		rec.Payload = nil
	case record.TransferAddress:
		typ = '9'
		rec.Payload = nil
	default:
		return errors.Wrapf(record.ErrUnsupportedType, "cannot encode %s record", rec.Kind)
	}
	if len(rec.Payload) > record.MaxPayload {
		return errors.Wrapf(record.ErrBadFraming, "payload of %d bytes exceeds %d", len(rec.Payload), record.MaxPayload)
	}
	rec.Seal()

	line := make([]byte, 0, 2*(len(rec.Payload)+4)+3)
	line = append(line, 'S', typ)
	for _, b := range rec.Frame() {
		line = appendHex(line, b)
	}
	line = appendHex(line, rec.Checksum)
	line = append(line, '\n')
	n, err := w.w.Write(line)
	w.written += int64(n)
	if err != nil {
		return errors.Wrap(err, "write s-record")
	}
	return nil
}

// WriteDefaultTransfer emits the null S9 record.
func (w *Writer) WriteDefaultTransfer() error {
	return w.WriteRecord(record.Record{Kind: record.TransferAddress})
}

// Flush pushes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return errors.Wrap(err, "flush s-records")
	}
	return nil
}

const hexDigits = "0123456789ABCDEF"

func appendHex(dst []byte, b byte) []byte {
	return append(dst, hexDigits[b>>4], hexDigits[b&0x0F])
}
