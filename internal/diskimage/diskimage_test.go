package diskimage

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, cfg Config) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, cfg))
	require.Equal(t, cfg.Size(), int64(buf.Len()))
	return buf.Bytes()
}

func sectorAt(img []byte, cfg Config, trk, sec int) []byte {
	off := (trk*cfg.Sectors + sec - 1) * SectorSize
	return img[off : off+SectorSize]
}

func TestSystemInformationRecord(t *testing.T) {
	cfg := Config{
		Tracks:       35,
		Sectors:      10,
		VolumeName:   "SYSTEM",
		VolumeNumber: 0x0102,
		Date:         time.Date(2015, time.July, 26, 12, 0, 0, 0, time.Local),
	}
	img := build(t, cfg)
	sir := sectorAt(img, cfg, 0, 3)

	require.Equal(t, make([]byte, 16), sir[:16])
	require.Equal(t, []byte("SYSTEM\x00\x00\x00\x00\x00"), sir[0x10:0x1B])
	require.Equal(t, []byte{0x01, 0x02}, sir[0x1B:0x1D])
	require.Equal(t, []byte{1, 1, 34, 10}, sir[0x1D:0x21])
	require.Equal(t, []byte{0x01, 0x54}, sir[0x21:0x23]) // 34*10 = 340
	require.Equal(t, []byte{7, 26, 15}, sir[0x23:0x26])
	require.Equal(t, []byte{34, 10}, sir[0x26:0x28])
	require.Equal(t, make([]byte, 216), sir[0x28:])
}

func TestChains(t *testing.T) {
	cfg := Config{Tracks: 4, Sectors: 6, Date: time.Now()}
	img := build(t, cfg)

	walk := func(trk, sec int) int {
		n := 0
		for trk != 0 || sec != 0 {
			s := sectorAt(img, cfg, trk, sec)
			require.Equal(t, make([]byte, SectorSize-2), s[2:])
			trk, sec = int(s[0]), int(s[1])
			n++
			require.LessOrEqual(t, n, cfg.Tracks*cfg.Sectors, "chain loops")
		}
		return n
	}
	require.Equal(t, (cfg.Tracks-1)*cfg.Sectors, walk(1, 1))
	// Directory runs from sector 5 to the last sector of track 0.
	require.Equal(t, cfg.Sectors-4, walk(0, 5))

	for _, sec := range []int{1, 2, 4} {
		require.Equal(t, make([]byte, SectorSize), sectorAt(img, cfg, 0, sec))
	}
	require.Equal(t, []byte{2, 1}, sectorAt(img, cfg, 1, 6)[:2])
	require.Equal(t, []byte{0, 0}, sectorAt(img, cfg, 3, 6)[:2])
}

func TestMinimalGeometry(t *testing.T) {
	cfg := Config{Tracks: MinTracks, Sectors: MinSectors, Date: time.Now()}
	img := build(t, cfg)
	// Sector 5 is the last of track 0, so the directory is a single sector.
	require.Equal(t, []byte{0, 0}, sectorAt(img, cfg, 0, 5)[:2])
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	bad := []Config{
		{Tracks: 1, Sectors: 15},
		{Tracks: 257, Sectors: 15},
		{Tracks: 77, Sectors: 4},
		{Tracks: 77, Sectors: 256},
		{Tracks: 77, Sectors: 15, VolumeName: "TWELVECHARSX"},
		{Tracks: 77, Sectors: 15, VolumeNumber: 70000},
	}
	for _, cfg := range bad {
		require.Error(t, cfg.Validate(), "%+v", cfg)
		require.Error(t, Write(context.Background(), &bytes.Buffer{}, cfg))
	}
}

func TestWriteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := Write(ctx, &buf, DefaultConfig())
	require.True(t, errors.Is(err, context.Canceled))
	require.Zero(t, buf.Len())
}
