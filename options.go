package demod

import (
	"io"

	"github.com/charmbracelet/log"
)

// Option customizes a Pipeline.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger sets the logger for stage setup and stream events. The default
// logger discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
