package convert

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/davidknoll/flexutils/internal/flexbin"
	"github.com/davidknoll/flexutils/internal/options"
	"github.com/davidknoll/flexutils/internal/record"
	"github.com/davidknoll/flexutils/internal/srec"
)

func init() {
	Register(FlexToSRec{})
}

// FlexToSRec converts a FLEX binary image to S-records, one S1 per FLEX data
// record and one S9 per transfer address.
type FlexToSRec struct{}

// Name returns the canonical converter name.
func (FlexToSRec) Name() string { return "flex2sr" }

// Convert writes an S0 header (control bytes dropped, cut to one record),
// every record of in, then on a clean end of input an S5 count and, when in carried no transfer address, a null S9.
// A decode failure stops the run with no trailer; output written so far is
// flushed and left in place.
func (FlexToSRec) Convert(ctx context.Context, in io.Reader, out io.Writer, opts Options) (*Stats, error) {
	st := newStats()
	log := options.Logger(ctx).WithField("run_id", st.RunID)
	dec := flexbin.NewReader(in)
	enc := srec.NewWriter(out)
	finish := func(err error) (*Stats, error) {
		st.BytesIn = dec.Offset()
		if ferr := enc.Flush(); ferr != nil && err == nil {
			err = ferr
		}
		st.BytesOut = enc.Written()
		return st, err
	}

	header := options.CleanHeader(opts.Header)
	if err := enc.WriteRecord(record.Record{Kind: record.Header, Payload: header}); err != nil {
		return finish(err)
	}
	for {
		if err := ctx.Err(); err != nil {
			return finish(errors.Wrap(err, "flex2sr"))
		}
		rec, err := dec.ReadRecord()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return finish(err)
		}
		switch rec.Kind {
		case record.Data:
			st.DataRecords++
		case record.TransferAddress:
			st.AddressRecords++
		}
		logRecord(log, dec.Offset(), rec)
		if err := enc.WriteRecord(rec); err != nil {
			return finish(err)
		}
	}

	if st.DataRecords > 0xFFFF {
		log.WithField("data_records", st.DataRecords).Warn("data record count exceeds S5 range, writing low 16 bits")
	}
	if err := enc.WriteRecord(record.Record{Kind: record.Count, Address: uint16(st.DataRecords)}); err != nil {
		return finish(err)
	}
	if st.AddressRecords == 0 {
		if err := enc.WriteDefaultTransfer(); err != nil {
			return finish(err)
		}
	}
	st, err := finish(nil)
	if err == nil {
		log.WithFields(st.Fields()).Debug("flex2sr complete")
	}
	return st, err
}

func logRecord(log logrus.FieldLogger, offset int64, rec record.Record) {
	log.WithFields(logrus.Fields{
		"offset":  offset,
		"kind":    rec.Kind.String(),
		"address": fmt.Sprintf("%04X", rec.Address),
		"length":  len(rec.Payload),
	}).Debug("record")
}
