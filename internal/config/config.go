package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/davidknoll/flexutils/internal/diskimage"
)

const dateLayout = "2006-01-02"

// Volume is the on-disk form of a disk image description.
type Volume struct {
	Tracks       int    `yaml:"tracks"`
	Sectors      int    `yaml:"sectors"`
	VolumeName   string `yaml:"volume_name"`
	VolumeNumber int    `yaml:"volume_number"`
	// Date is optional, YYYY-MM-DD. Empty means the date of generation.
	Date string `yaml:"date,omitempty"`
}

// DefaultVolume returns the geometry mkflexfs uses without a config file.
func DefaultVolume() *Volume {
	d := diskimage.DefaultConfig()
	return &Volume{Tracks: d.Tracks, Sectors: d.Sectors}
}

// LoadVolume reads a volume description. Fields missing from the file keep
// their defaults.
func LoadVolume(path string) (*Volume, error) {
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.Wrap(err, "invalid config path")
		}
		path = abs
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	vol := DefaultVolume()
	if err := yaml.Unmarshal(data, vol); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	return vol, nil
}

// SaveVolume writes vol as YAML, creating the parent directory.
func SaveVolume(vol *Volume, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	data, err := yaml.Marshal(vol)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// DiskConfig converts vol to a validated generator configuration.
func (v *Volume) DiskConfig() (diskimage.Config, error) {
	cfg := diskimage.Config{
		Tracks:       v.Tracks,
		Sectors:      v.Sectors,
		VolumeName:   v.VolumeName,
		VolumeNumber: v.VolumeNumber,
	}
	if v.Date != "" {
		date, err := time.ParseInLocation(dateLayout, v.Date, time.Local)
		if err != nil {
			return diskimage.Config{}, errors.Wrapf(err, "invalid date %q", v.Date)
		}
		cfg.Date = date
	}
	if err := cfg.Validate(); err != nil {
		return diskimage.Config{}, err
	}
	return cfg, nil
}

// Overrides holds values given explicitly on the command line. Nil fields
// leave the volume untouched.
type Overrides struct {
	Tracks       *int
	Sectors      *int
	VolumeName   *string
	VolumeNumber *int
}

// Apply copies every set override onto v.
func (v *Volume) Apply(o Overrides) {
	if o.Tracks != nil {
		v.Tracks = *o.Tracks
	}
	if o.Sectors != nil {
		v.Sectors = *o.Sectors
	}
	if o.VolumeName != nil {
		v.VolumeName = *o.VolumeName
	}
	if o.VolumeNumber != nil {
		v.VolumeNumber = *o.VolumeNumber
	}
}
