package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/davidknoll/flexutils/pkg/flexutils"
)

var (
	rootCmd = &cobra.Command{
		Use:   "sr2flex infile outfile",
		Short: "Motorola S-record to FLEX binary converter",
		Long: `Motorola S-record to FLEX binary converter.

Output records are the same size as input records, so may not
be as large as possible even where data is contiguous.
Output is not padded to a multiple of 252 bytes in size.`,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			opts := flexutils.ConvertOptions{Logger: logrus.StandardLogger()}
			return run(cmd.Context(), args[0], args[1], opts)
		},
	}

	verbose bool
)

func init() {
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
	result, err := flexutils.ConvertFile(ctx, flexutils.SRecToFlex, in, out, opts)
	if err != nil {
		return err
	}
	logrus.WithFields(result.Stats.Fields()).Info("conversion complete")
	return nil
}
