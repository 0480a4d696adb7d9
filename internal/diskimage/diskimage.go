// Package diskimage builds blank FLEX filesystem disk images.
//
// Sectors are 256 bytes and numbered from 1; tracks are numbered from 0. Each
// sector starts with a link to the next sector in its chain (track, sector),
// 0/0 ending the chain. Track 0 holds the boot sectors (1-2), the System
// Information Record (3), a reserved sector (4) and the directory chain
// (5 onward). Every sector of the remaining tracks is on the free chain.
package diskimage

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	SectorSize    = 256
	MaxNameLength = 11

	MinTracks  = 2
	MaxTracks  = 256
	MinSectors = 5
	MaxSectors = 255

	sirSector = 3
	dirStart  = 5
)

// Config describes the volume to generate.
type Config struct {
	Tracks       int
	Sectors      int
	VolumeName   string
	VolumeNumber int
	// Date is stamped into the System Information Record. The zero value
	// means the current local date.
	Date time.Time
}

// DefaultConfig returns an 8" single density style geometry.
func DefaultConfig() Config {
	return Config{Tracks: 77, Sectors: 15}
}

// Validate checks the geometry fits the on-disk fields.
func (c Config) Validate() error {
	if c.Tracks < MinTracks || c.Tracks > MaxTracks {
		return errors.Newf("track count %d out of range %d-%d", c.Tracks, MinTracks, MaxTracks)
	}
	if c.Sectors < MinSectors || c.Sectors > MaxSectors {
		return errors.Newf("sector count %d out of range %d-%d", c.Sectors, MinSectors, MaxSectors)
	}
	if len(c.VolumeName) > MaxNameLength {
		return errors.Newf("volume name %q longer than %d characters", c.VolumeName, MaxNameLength)
	}
	if c.VolumeNumber < 0 || c.VolumeNumber > 0xFFFF {
		return errors.Newf("volume number %d out of range 0-65535", c.VolumeNumber)
	}
	return nil
}

// Size returns the image length in bytes.
func (c Config) Size() int64 {
	return int64(c.Tracks) * int64(c.Sectors) * SectorSize
}

// Write emits the whole image for cfg to w, track by track. Cancelling ctx
// stops the image between tracks; the partial image is flushed.
func Write(ctx context.Context, w io.Writer, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Date.IsZero() {
		cfg.Date = time.Now()
	}
	bw := bufio.NewWriter(w)
	for trk := 0; trk < cfg.Tracks; trk++ {
		if err := ctx.Err(); err != nil {
			if ferr := bw.Flush(); ferr != nil {
				return errors.Wrap(ferr, "flush disk image")
			}
			return errors.Wrapf(err, "disk image stopped at track %d", trk)
		}
		for sec := 1; sec <= cfg.Sectors; sec++ {
			buf := Sector(cfg, trk, sec)
			if _, err := bw.Write(buf[:]); err != nil {
				return errors.Wrapf(err, "write track %d sector %d", trk, sec)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "flush disk image")
	}
	return nil
}

// Sector returns the contents of one sector of a blank volume.
func Sector(cfg Config, trk, sec int) [SectorSize]byte {
	last := cfg.Tracks - 1
	switch {
	case trk == 0 && sec == sirSector:
		return sir(cfg)
	case trk == 0 && sec >= dirStart && sec < cfg.Sectors:
		return link(0, sec+1)
	case trk == 0:
		// boot, reserved, or end of directory chain
		return link(0, 0)
	case trk == last && sec == cfg.Sectors:
		return link(0, 0)
	case sec == cfg.Sectors:
		return link(trk+1, 1)
	default:
		return link(trk, sec+1)
	}
}

func link(trk, sec int) [SectorSize]byte {
	var buf [SectorSize]byte
	buf[0] = byte(trk)
	buf[1] = byte(sec)
	return buf
}

// SIR field offsets.
const (
	sirName      = 0x10
	sirVolume    = 0x1B
	sirFreeStart = 0x1D
	sirFreeEnd   = 0x1F
	sirFreeCount = 0x21
	sirDate      = 0x23
	sirMaxTrack  = 0x26
	sirMaxSector = 0x27
)

func sir(cfg Config) [SectorSize]byte {
	var buf [SectorSize]byte
	last := cfg.Tracks - 1
	free := last * cfg.Sectors

	copy(buf[sirName:sirName+MaxNameLength], cfg.VolumeName)
	buf[sirVolume] = byte(cfg.VolumeNumber >> 8)
	buf[sirVolume+1] = byte(cfg.VolumeNumber)

	buf[sirFreeStart] = 1
	buf[sirFreeStart+1] = 1
	buf[sirFreeEnd] = byte(last)
	buf[sirFreeEnd+1] = byte(cfg.Sectors)
	buf[sirFreeCount] = byte(free >> 8)
	buf[sirFreeCount+1] = byte(free)

	date := cfg.Date
	if date.IsZero() {
		date = time.Now()
	}
	buf[sirDate] = byte(date.Month())
	buf[sirDate+1] = byte(date.Day())
	buf[sirDate+2] = byte(date.Year() % 100)

	buf[sirMaxTrack] = byte(last)
	buf[sirMaxSector] = byte(cfg.Sectors)
	return buf
}
