package flexbin

import (
	"bytes"
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/davidknoll/flexutils/internal/record"
	"github.com/davidknoll/flexutils/internal/testutil"
)

func readAll(t *testing.T, raw []byte) ([]record.Record, error) {
	t.Helper()
	r := NewReader(bytes.NewReader(raw))
	var recs []record.Record
	for {
		rec, err := r.ReadRecord()
		if errors.Is(err, io.EOF) {
			return recs, nil
		}
		if err != nil {
			return recs, err
		}
		recs = append(recs, rec)
	}
}

func sealed(recs ...record.Record) []record.Record {
	for i := range recs {
		recs[i].Seal()
	}
	return recs
}

func TestReadRecordFixture(t *testing.T) {
	raw := testutil.LoadHex(t, "flex/monitor.hex")
	recs, err := readAll(t, raw)
	require.NoError(t, err)
	want := sealed(
		record.Record{Kind: record.Data, Address: 0x2000, Payload: []byte{0x86, 0x41}},
		record.Record{Kind: record.Data, Address: 0x2002, Payload: []byte{0x39}},
		record.Record{Kind: record.TransferAddress, Address: 0x2000},
	)
	if diff := cmp.Diff(want, recs); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRecordPaddingIsIgnored(t *testing.T) {
	plain := []byte{0x02, 0x01, 0x00, 0x02, 0xAA, 0xBB, 0x16, 0x01, 0x00}
	padded := []byte{0x00, 0x02, 0x01, 0x00, 0x02, 0xAA, 0xBB, 0x00, 0x00, 0x00, 0x16, 0x01, 0x00, 0x00}
	a, err := readAll(t, plain)
	require.NoError(t, err)
	b, err := readAll(t, padded)
	require.NoError(t, err)
	require.Len(t, a, 2)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("padding changed records (-plain +padded):\n%s", diff)
	}
}

func TestReadRecordChecksum(t *testing.T) {
	recs, err := readAll(t, []byte{0x02, 0x01, 0x00, 0x02, 0xAA, 0xBB})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, byte(0x94), recs[0].Checksum)
}

func TestReadRecordUnknownType(t *testing.T) {
	recs, err := readAll(t, []byte{0x16, 0x01, 0x00, 0x00, 0x7F, 0x02})
	require.Len(t, recs, 1)
	require.True(t, errors.Is(err, record.ErrUnsupportedType))
	var de *record.DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, byte(0x7F), de.Code)
	require.Equal(t, int64(4), de.Offset)
}

func TestReadRecordTruncated(t *testing.T) {
	for _, raw := range [][]byte{
		{0x02},
		{0x02, 0x01, 0x00},
		{0x02, 0x01, 0x00, 0x03, 0xAA},
		{0x16, 0x01},
	} {
		_, err := readAll(t, raw)
		require.True(t, errors.Is(err, record.ErrTruncated), "% X: %v", raw, err)
		off, ok := record.Offset(err)
		require.True(t, ok)
		require.Equal(t, int64(len(raw)), off)
	}
}

func TestReadRecordOversized(t *testing.T) {
	raw := append([]byte{0x02, 0x00, 0x00, 0xFD}, make([]byte, 0xFD)...)
	_, err := readAll(t, raw)
	require.True(t, errors.Is(err, record.ErrBadFraming))
}

func TestWriteRecord(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteRecord(record.Record{Kind: record.Data, Address: 0x0100, Payload: []byte{0xAA, 0xBB}}))
	require.NoError(t, w.WriteRecord(record.Record{Kind: record.TransferAddress, Address: 0xC100}))
	require.NoError(t, w.Flush())
	require.Equal(t, []byte{0x02, 0x01, 0x00, 0x02, 0xAA, 0xBB, 0x16, 0xC1, 0x00}, buf.Bytes())
	require.Equal(t, int64(9), w.Written())

	err := w.WriteRecord(record.Record{Kind: record.Header, Payload: []byte("x")})
	require.True(t, errors.Is(err, record.ErrUnsupportedType))
}

func TestReadRecordErrorPosition(t *testing.T) {
	_, err := readAll(t, []byte{0x00, 0x7F})
	var de *record.DecodeError
	require.True(t, errors.As(err, &de))
	require.True(t, de.At)

	_, err = readAll(t, []byte{0x02, 0x01})
	require.True(t, errors.As(err, &de))
	require.False(t, de.At)
}
