package flexutils

import (
	"context"
	"io"
	"time"

	"github.com/davidknoll/flexutils/internal/diskimage"
)

// DiskOptions describes a blank FLEX volume. Zero Tracks or Sectors take the
// 77 track, 15 sector default geometry.
type DiskOptions struct {
	Tracks       int
	Sectors      int
	VolumeName   string
	VolumeNumber int
	// Date is stamped into the System Information Record; zero means today.
	Date time.Time
}

func (opts DiskOptions) toInternal() diskimage.Config {
	cfg := diskimage.DefaultConfig()
	if opts.Tracks != 0 {
		cfg.Tracks = opts.Tracks
	}
	if opts.Sectors != 0 {
		cfg.Sectors = opts.Sectors
	}
	cfg.VolumeName = opts.VolumeName
	cfg.VolumeNumber = opts.VolumeNumber
	cfg.Date = opts.Date
	return cfg
}

// DiskImageSize returns the byte length of the image CreateDiskImage writes.
func DiskImageSize(opts DiskOptions) int64 {
	return opts.toInternal().Size()
}

// CreateDiskImage writes a blank, formatted FLEX disk image to w.
func CreateDiskImage(ctx context.Context, w io.Writer, opts DiskOptions) error {
	return diskimage.Write(ctx, w, opts.toInternal())
}
