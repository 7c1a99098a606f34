package ajimu

import (
	"io"
	"log/slog"
	"os"
)

// Options configures a New Interpreter, mirroring the teacher's
// Options/opt split: a small user-facing struct with sane zero-value
// defaults applied in New.
type Options struct {
	// Stdout is where `display` writes. Defaults to os.Stdout.
	Stdout io.Writer
	// Stderr is where the default error observer writes when no other
	// observer is registered. Defaults to os.Stderr.
	Stderr io.Writer
	// Logger receives structured GC/evaluator diagnostics. Defaults to a
	// discard logger, so embedding is silent unless a caller opts in.
	Logger *slog.Logger
	// GCThreshold overrides the collector's allocated-bytes trigger
	// (§4.4). Zero means "use the default 10 KiB value"; pass a negative
	// number for unconditional (every-tick) collection.
	GCThreshold int64
}

func (o Options) withDefaults() Options {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}
