package options

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/davidknoll/flexutils/internal/record"
)

type contextKey struct{}

// WithLogger stores the run logger inside the context.
func WithLogger(ctx context.Context, log logrus.FieldLogger) context.Context {
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, log)
}

// Logger retrieves the run logger from context, falling back to the logrus
// standard logger.
func Logger(ctx context.Context) logrus.FieldLogger {
	if v := ctx.Value(contextKey{}); v != nil {
		if log, ok := v.(logrus.FieldLogger); ok {
			return log
		}
	}
	return logrus.StandardLogger()
}

// HeaderText derives S0 header bytes from an input path: the base name with
// control characters removed, cut to the largest payload one record holds.
func HeaderText(path string) []byte {
	name := strings.TrimSpace(path)
	if name != "" {
		name = filepath.Base(name)
	}
	return CleanHeader([]byte(name))
}

// CleanHeader makes arbitrary text fit a single S0 record: ASCII control
// bytes are removed and the result is cut to record.MaxPayload bytes.
func CleanHeader(text []byte) []byte {
	clean := make([]byte, 0, len(text))
	for _, b := range text {
		if b < 0x20 || b == 0x7F {
			continue
		}
		clean = append(clean, b)
	}
	if len(clean) > record.MaxPayload {
		clean = clean[:record.MaxPayload]
	}
	return clean
}
