package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/davidknoll/flexutils/pkg/flexutils"
)

var (
	rootCmd = &cobra.Command{
		Use:   "flex2sr infile outfile",
		Short: "FLEX binary to Motorola S-record converter",
		Long: `FLEX binary to Motorola S-record converter.

It is recommended that the output be put through srec_cat(1)
or similar before further use, as this program generates records
as long as those in the input file.`,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			opts := flexutils.ConvertOptions{Logger: logrus.StandardLogger()}
			if cmd.Flags().Changed("header") {
				opts.Header = []byte(header)
			}
			return run(cmd.Context(), args[0], args[1], opts)
		},
	}

	header  string
	verbose bool
)

func init() {
	rootCmd.Flags().StringVar(&header, "header", "", "S0 header text (default: input file name)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every record")
	cobra.OnInitialize(func() {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	})
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Fatal(flexutils.Describe(err))
	}
}

func run(ctx context.Context, in, out string, opts flexutils.ConvertOptions) error {
	result, err := flexutils.ConvertFile(ctx, flexutils.FlexToSRec, in, out, opts)
	if err != nil {
		return err
	}
	logrus.WithFields(result.Stats.Fields()).Info("conversion complete")
	return nil
}
