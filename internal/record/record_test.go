package record

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	cases := []struct {
		name  string
		frame []byte
		want  byte
	}{
		{"data", []byte{0x05, 0x01, 0x00, 0xAA, 0xBB}, 0x94},
		{"null transfer", []byte{0x03, 0x00, 0x00}, 0xFC},
		{"count one", []byte{0x03, 0x00, 0x01}, 0xFB},
		{"empty", nil, 0xFF},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Checksum(tc.frame))
		})
	}
}

func TestChecksumSplitParts(t *testing.T) {
	require.Equal(t, Checksum([]byte{1, 2, 3, 4}), Checksum([]byte{1, 2}, []byte{3, 4}))
}

func TestSealSatisfiesChecksumLaw(t *testing.T) {
	recs := []Record{
		{Kind: Data, Address: 0xC100, Payload: []byte{0x86, 0x41, 0xB7, 0xE0, 0x04}},
		{Kind: TransferAddress, Address: 0xC100},
		{Kind: Header, Payload: []byte("FLEX")},
		{Kind: Count, Address: 300},
	}
	for _, rec := range recs {
		rec.Seal()
		var sum byte
		for _, b := range rec.Frame() {
			sum += b
		}
		require.Equal(t, byte(0xFF), sum+rec.Checksum, rec.String())
		require.True(t, rec.Valid())

		rec.Checksum++
		require.False(t, rec.Valid())
	}
}

func TestFrameLayout(t *testing.T) {
	rec := Record{Kind: Data, Address: 0x0100, Payload: []byte{0xAA, 0xBB}}
	require.Equal(t, []byte{0x05, 0x01, 0x00, 0xAA, 0xBB}, rec.Frame())
}

func TestDecodeError(t *testing.T) {
	err := NewDecodeError(ErrChecksum, 0x1F, '1', "stored 00")
	require.True(t, errors.Is(err, ErrChecksum))
	require.False(t, errors.Is(err, ErrBadFraming))

	off, ok := Offset(err)
	require.True(t, ok)
	require.Equal(t, int64(0x1F), off)
	require.Contains(t, err.Error(), "offset 001F")

	_, ok = Offset(errors.New("plain"))
	require.False(t, ok)
}

func TestDecodeErrorPosition(t *testing.T) {
	var de *DecodeError
	require.True(t, errors.As(NewDecodeError(ErrTruncated, 8, '1', ""), &de))
	require.Equal(t, "before", de.Position())

	require.True(t, errors.As(NewDecodeErrorAt(ErrUnsupportedType, 4, 0x7F, ""), &de))
	require.Equal(t, "at", de.Position())
	require.Contains(t, de.Error(), "(code 7F) at offset 0004")
}
