package convert

import (
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
)

// Stats accumulates stream-level counters for one run. A fresh value is
// allocated per run; nothing carries over between conversions.
type Stats struct {
	RunID string

	// DataRecords counts every data record decoded, including empty S1
	// records that produced no output.
	DataRecords    int
	AddressRecords int
	SkippedRecords int

	// Header and DeclaredCount hold the S0 text and S5 value seen on S-record
	// input. CountSeen is false when the input had no S5.
	Header        string
	DeclaredCount int
	CountSeen     bool

	BytesIn  int64
	BytesOut int64
}

func newStats() *Stats {
	return &Stats{RunID: ksuid.New().String()}
}

// Fields renders the counters for structured logging.
func (s *Stats) Fields() logrus.Fields {
	f := logrus.Fields{
		"run_id":          s.RunID,
		"data_records":    s.DataRecords,
		"address_records": s.AddressRecords,
		"skipped_records": s.SkippedRecords,
		"bytes_in":        s.BytesIn,
		"bytes_out":       s.BytesOut,
	}
	if s.Header != "" {
		f["header"] = s.Header
	}
	if s.CountSeen {
		f["declared_count"] = s.DeclaredCount
	}
	return f
}
