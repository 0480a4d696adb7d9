package flexutils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/davidknoll/flexutils/internal/convert"
	"github.com/davidknoll/flexutils/internal/options"
	"github.com/davidknoll/flexutils/internal/record"
)

// Converter names accepted by Convert and ConvertFile.
const (
	FlexToSRec = "flex2sr"
	SRecToFlex = "sr2flex"
)

// Result captures the outcome of a conversion.
type Result struct {
	Converter string
	Input     string
	Output    string
	Stats     *convert.Stats
}

// String renders a human-readable representation of the result.
func (r Result) String() string {
	summary := map[string]any{
		"converter": r.Converter,
	}
	if r.Input != "" {
		summary["input"] = r.Input
	}
	if r.Output != "" {
		summary["output"] = r.Output
	}
	if r.Stats != nil {
		for k, v := range r.Stats.Fields() {
			summary[k] = v
		}
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Sprintf("converter: %s (marshal error: %v)", r.Converter, err)
	}
	return string(data)
}

// Convert runs the named converter from in to out.
func Convert(ctx context.Context, name string, in io.Reader, out io.Writer, opts ConvertOptions) (Result, error) {
	c, err := convert.Lookup(name)
	if err != nil {
		return Result{}, err
	}
	ctx, copts := opts.toInternal(ctx)
	st, err := c.Convert(ctx, in, out, copts)
	return Result{Converter: c.Name(), Stats: st}, err
}

// ConvertFile runs the named converter between two files. For flex2sr the S0
// header defaults to the base name of inPath. The output file is left in
// place, possibly partial, when the conversion fails.
func ConvertFile(ctx context.Context, name, inPath, outPath string, opts ConvertOptions) (res Result, err error) {
	res = Result{Converter: name, Input: inPath, Output: outPath}
	if _, err := convert.Lookup(name); err != nil {
		return res, err
	}
	in, err := os.Open(inPath)
	if err != nil {
		return res, errors.Wrapf(err, "error opening file %s for input", inPath)
	}
	defer in.Close()
	out, err := os.Create(outPath)
	if err != nil {
		return res, errors.Wrapf(err, "error opening file %s for output", outPath)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", outPath)
		}
	}()

	if opts.Header == nil {
		opts.Header = options.HeaderText(inPath)
	}
	r, err := Convert(ctx, name, in, out, opts)
	res.Stats = r.Stats
	return res, err
}

// Describe formats a conversion error the way the command line tools report
// it: the failure class, offending code and input offset. The offset is
// reported "at" the offending byte when it is known, otherwise "before" the
// point where decoding stopped.
func Describe(err error) string {
	var de *record.DecodeError
	if errors.As(err, &de) {
		return fmt.Sprintf("Error %v (code %02X) %s offset %04X in input file", de.Err, de.Code, de.Position(), de.Offset)
	}
	return err.Error()
}
