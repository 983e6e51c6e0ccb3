package artifactory

import (
	"io"

	"github.com/rs/zerolog"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger used for debug and warning output.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithVerboseOutput sets where verbose_level 1 lines are written.
// Defaults to os.Stdout.
func WithVerboseOutput(w io.Writer) Option {
	return func(c *Client) {
		if w != nil {
			c.out = w
		}
	}
}

// CallOption configures a single call.
type CallOption func(*callOptions)

type callOptions struct {
	settings map[string]any
	options  string
}

// WithSettings temporarily merges settings over the client's settings for
// one call. The previous settings are restored when the call returns.
// Overrides must not be used concurrently on a shared Client.
func WithSettings(settings map[string]any) CallOption {
	return func(o *callOptions) {
		o.settings = settings
	}
}

// WithOptions appends a pre-built options string (for example
// "&recursive=0" or "?deep=1&depth=2") verbatim to the call target.
func WithOptions(options string) CallOption {
	return func(o *callOptions) {
		o.options += options
	}
}

func newCallOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
