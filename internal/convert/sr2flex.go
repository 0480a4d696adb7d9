package convert

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/davidknoll/flexutils/internal/flexbin"
	"github.com/davidknoll/flexutils/internal/options"
	"github.com/davidknoll/flexutils/internal/record"
	"github.com/davidknoll/flexutils/internal/srec"
)

func init() {
	Register(SRecToFlex{})
}

// SRecToFlex converts S-records to a FLEX binary image. Output records are
// the same size as input records and the image is not padded.
type SRecToFlex struct{}

// Name returns the canonical converter name.
func (SRecToFlex) Name() string { return "sr2flex" }

// Convert decodes every record of in. Empty S1 records and S9 records with a
// zero address are dropped, S0 and S5 are verified but produce no output.
// The first decode failure stops the run; nothing is written for the failing
// record.
func (SRecToFlex) Convert(ctx context.Context, in io.Reader, out io.Writer, _ Options) (*Stats, error) {
	st := newStats()
	log := options.Logger(ctx).WithField("run_id", st.RunID)
	dec := srec.NewReader(in)
	enc := flexbin.NewWriter(out)
	finish := func(err error) (*Stats, error) {
		st.BytesIn = dec.Offset()
		if ferr := enc.Flush(); ferr != nil && err == nil {
			err = ferr
		}
		st.BytesOut = enc.Written()
		return st, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return finish(errors.Wrap(err, "sr2flex"))
		}
		rec, err := dec.ReadRecord()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return finish(err)
		}
		logRecord(log, dec.Offset(), rec)

		switch rec.Kind {
		case record.Header:
			st.Header = string(rec.Payload)
			continue
		case record.Count:
			st.DeclaredCount = int(rec.Address)
			st.CountSeen = true
			continue
		case record.Data:
			st.DataRecords++
			if len(rec.Payload) == 0 {
				st.SkippedRecords++
				continue
			}
		case record.TransferAddress:
			if rec.Address == 0 {
				st.SkippedRecords++
				continue
			}
			st.AddressRecords++
		}
		if err := enc.WriteRecord(rec); err != nil {
			return finish(err)
		}
	}

	if st.CountSeen && st.DeclaredCount != st.DataRecords&0xFFFF {
		log.WithFields(st.Fields()).Warn("S5 record count does not match data records")
	}
	st, err := finish(nil)
	if err == nil {
		log.WithFields(st.Fields()).Debug("sr2flex complete")
	}
	return st, err
}
