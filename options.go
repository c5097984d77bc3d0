package marionette

import "log/slog"

const defaultCommandCap = 256

// Option configures an Engine.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	debug      bool
	commandCap int
}

func defaultOptions() options {
	return options{commandCap: defaultCommandCap}
}

// WithLogger sets the logger for one engine, overriding [SetLogger].
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithDebug enables per-frame timing logs and tree shape warnings.
func WithDebug(on bool) Option {
	return func(o *options) {
		o.debug = on
	}
}

// WithCommandCapacity preallocates room for n render commands. The buffer
// grows as needed, so this only avoids early reallocations.
func WithCommandCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.commandCap = n
		}
	}
}
