package csvmd

import (
	"github.com/olekukonko/ll"
)

const (
	defaultChunkSize     = 64 << 10
	defaultMaxBufferSize = 8 << 20
	defaultLookahead     = 100
)

// Options holds the tunables shared by the conversion entry points.
type Options struct {
	// ChunkSize is the read size of the chunked spill strategy.
	ChunkSize int
	// MaxBufferSize is the largest non-seekable input [Convert] copies into
	// memory. Larger inputs spill to a temporary file.
	MaxBufferSize int64
	// Lookahead is how many records the best-effort mode inspects before
	// fixing the width.
	Lookahead int
	// TempDir is where spill files are created. Empty means os.TempDir.
	TempDir string
	// Logger receives debug traces. Nil disables tracing.
	Logger *ll.Logger
}

// Option configures Options.
type Option func(*Options)

// WithChunkSize sets the spill strategy's read size.
func WithChunkSize(n int) Option {
	return func(o *Options) {
		o.ChunkSize = n
	}
}

// WithMaxBufferSize sets how much of a non-seekable input [Convert] holds in
// memory before switching to a spill file.
func WithMaxBufferSize(n int64) Option {
	return func(o *Options) {
		o.MaxBufferSize = n
	}
}

// WithLookahead sets the number of records [ConvertBestEffort] inspects
// when run through [ConvertUsing].
func WithLookahead(n int) Option {
	return func(o *Options) {
		o.Lookahead = n
	}
}

// WithTempDir sets the directory for spill files.
func WithTempDir(dir string) Option {
	return func(o *Options) {
		o.TempDir = dir
	}
}

// WithLogger sets the debug trace logger.
func WithLogger(logger *ll.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func newOptions(opts []Option) Options {
	o := Options{
		ChunkSize:     defaultChunkSize,
		MaxBufferSize: defaultMaxBufferSize,
		Lookahead:     defaultLookahead,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.Logger == nil {
		o.Logger = ll.New("csvmd")
		o.Logger.Disable()
	}
	return o
}
