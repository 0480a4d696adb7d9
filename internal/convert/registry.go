package convert

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

// Options tunes a single conversion run.
type Options struct {
	// Header is the S0 text written ahead of S-record output.
	Header []byte
}

// Converter turns one load format into another.
type Converter interface {
	Name() string
	Convert(ctx context.Context, in io.Reader, out io.Writer, opts Options) (*Stats, error)
}

var (
	regMu    sync.RWMutex
	registry = map[string]Converter{}
)

// Register makes a converter available under its name.
func Register(c Converter) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[c.Name()] = c
}

// Lookup returns the converter registered under name.
func Lookup(name string) (Converter, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	if c, ok := registry[name]; ok {
		return c, nil
	}
	return nil, errors.Newf("converter not found: %q", name)
}

// Names lists the registered converters in sorted order.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
