package flexutils

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/davidknoll/flexutils/internal/convert"
	internalopts "github.com/davidknoll/flexutils/internal/options"
)

// ConvertOptions configures a conversion.
type ConvertOptions struct {
	// Header overrides the S0 text. Nil lets ConvertFile derive it from the
	// input file name; an empty non-nil slice writes an empty header.
	Header []byte
	Logger logrus.FieldLogger
}

func (opts ConvertOptions) toInternal(ctx context.Context) (context.Context, convert.Options) {
	ctx = internalopts.WithLogger(ctx, opts.Logger)
	return ctx, convert.Options{Header: opts.Header}
}
