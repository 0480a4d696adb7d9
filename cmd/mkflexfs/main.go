package main

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/davidknoll/flexutils/internal/config"
	"github.com/davidknoll/flexutils/internal/diskimage"
)

type settings struct {
	configPath   string
	output       string
	tracks       int
	sectors      int
	volumeName   string
	volumeNumber int
}

func newRootCmd() (*cobra.Command, *settings) {
	s := &settings{}
	cmd := &cobra.Command{
		Use:   "mkflexfs",
		Short: "FLEX blank disk image creator",
		Long: `FLEX blank disk image creator.

tracks is an integer, default 77, min 2
sectors is an integer, default 15, min 5
volname is max 11 characters, default empty
volnum is an integer, default 0
filename may be (and defaults to) -, but won't output to the terminal`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			vol, err := s.volume(cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := vol.DiskConfig()
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return run(cmd.Context(), cfg, s.output)
		},
	}

	d := diskimage.DefaultConfig()
	f := cmd.Flags()
	f.IntVarP(&s.tracks, "tracks", "t", d.Tracks, "number of tracks (min 2)")
	f.IntVarP(&s.sectors, "sectors", "s", d.Sectors, "sectors per track (min 5)")
	f.StringVarP(&s.volumeName, "volname", "n", "", "volume name, max 11 characters")
	f.IntVarP(&s.volumeNumber, "volnum", "v", 0, "volume number")
	f.StringVarP(&s.output, "output", "o", "-", "output file, - for stdout")
	f.StringVarP(&s.configPath, "config", "c", "", "YAML volume description; flags override its values")
	return cmd, s
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	rootCmd, _ := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logrus.Fatal(err)
	}
}

// volume loads the optional config file and applies the flags set explicitly.
func (s *settings) volume(f *pflag.FlagSet) (*config.Volume, error) {
	vol := config.DefaultVolume()
	if s.configPath != "" {
		loaded, err := config.LoadVolume(s.configPath)
		if err != nil {
			return nil, err
		}
		vol = loaded
	}
	var o config.Overrides
	if f.Changed("tracks") {
		o.Tracks = &s.tracks
	}
	if f.Changed("sectors") {
		o.Sectors = &s.sectors
	}
	if f.Changed("volname") {
		o.VolumeName = &s.volumeName
	}
	if f.Changed("volnum") {
		o.VolumeNumber = &s.volumeNumber
	}
	vol.Apply(o)
	return vol, nil
}

func run(ctx context.Context, cfg diskimage.Config, path string) (err error) {
	var w io.Writer
	if path == "-" {
		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return errors.New("refusing to write a disk image to the terminal, use -o or redirect output")
		}
		w = os.Stdout
	} else {
		f, ferr := os.Create(path)
		if ferr != nil {
			return errors.Wrapf(ferr, "error opening file %s for output", path)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}
	if err := diskimage.Write(ctx, w, cfg); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"tracks":  cfg.Tracks,
		"sectors": cfg.Sectors,
		"volume":  cfg.VolumeName,
		"number":  cfg.VolumeNumber,
		"bytes":   cfg.Size(),
	}).Info("disk image written")
	return nil
}
