package csvmd

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrUnsupportedStrategy is returned for an unknown strategy name.
var ErrUnsupportedStrategy = errors.New("unsupported strategy")

// Strategy names a width-resolution algorithm.
type Strategy string

const (
	StrategyAuto       Strategy = "auto"        // Convert
	StrategyMemory     Strategy = "memory"      // ConvertToString
	StrategyBuffer     Strategy = "buffer"      // ConvertStreaming
	StrategySeek       Strategy = "seek"        // ConvertStreamingSeekable
	StrategyChunked    Strategy = "chunked"     // ConvertStreamingChunked
	StrategyBestEffort Strategy = "best-effort" // ConvertBestEffort
)

var strategies = []Strategy{StrategyAuto, StrategyMemory, StrategyBuffer, StrategySeek, StrategyChunked, StrategyBestEffort}

// String returns the strategy name.
func (s Strategy) String() string { return string(s) }

// Strategies returns all strategy names.
func Strategies() []Strategy {
	out := make([]Strategy, len(strategies))
	copy(out, strategies)
	return out
}

// ParseStrategy parses a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedStrategy, s)
}

// ConvertUsing runs the named strategy. StrategySeek requires a source that
// can seek; StrategyBestEffort reads its look-ahead from WithLookahead.
func ConvertUsing(strategy Strategy, src io.Reader, sink io.Writer, cfg Config, opts ...Option) error {
	switch strategy {
	case StrategyAuto:
		return Convert(src, sink, cfg, opts...)
	case StrategyMemory:
		out, err := ConvertToString(src, cfg, opts...)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(sink, out); err != nil {
			return writeErr(err)
		}
		return nil
	case StrategyBuffer:
		return ConvertStreaming(src, sink, cfg, opts...)
	case StrategySeek:
		rs, ok := seekable(src)
		if !ok {
			return fmt.Errorf("%w: strategy %q requires a seekable source, got %T", ErrSeek, strategy, src)
		}
		return ConvertStreamingSeekable(rs, sink, cfg, opts...)
	case StrategyChunked:
		o := newOptions(opts)
		return ConvertStreamingChunked(src, sink, cfg, o.ChunkSize, opts...)
	case StrategyBestEffort:
		o := newOptions(opts)
		return ConvertBestEffort(src, sink, cfg, o.Lookahead, opts...)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedStrategy, strategy)
	}
}

// Convert streams the table for src to sink, choosing a strategy from what
// the source supports:
//
//   - a source that can seek is read twice in place;
//   - a non-seekable source that ends within MaxBufferSize bytes is read
//     twice from memory;
//   - anything larger is spilled to a temporary file in ChunkSize chunks,
//     starting with the bytes already buffered.
//
// All of them produce identical output. The choice is made once, before any
// output is written. Convert never uses the best-effort look-ahead.
func Convert(src io.Reader, sink io.Writer, cfg Config, opts ...Option) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	o := newOptions(opts)
	if o.ChunkSize <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidChunkSize, o.ChunkSize)
	}

	if rs, ok := seekable(src); ok {
		o.Logger.Infof("strategy %s", StrategySeek)
		return ConvertStreamingSeekable(rs, sink, cfg, WithLogger(o.Logger))
	}

	prefix, complete, err := readPrefix(src, o.MaxBufferSize)
	if err != nil {
		return err
	}
	if complete {
		o.Logger.Infof("strategy %s: input of %d bytes fits the buffer", StrategyBuffer, len(prefix))
		rp := &memoryReplay{data: prefix}
		defer rp.release()
		return twoPass(rp, sink, cfg, o)
	}
	o.Logger.Infof("strategy %s: input exceeds %d bytes", StrategyChunked, o.MaxBufferSize)
	return chunked(prefix, src, sink, cfg, o.ChunkSize, o)
}

// readPrefix reads up to limit+1 bytes. complete reports that src ended
// within limit bytes.
func readPrefix(src io.Reader, limit int64) (prefix []byte, complete bool, err error) {
	limit = max(limit, 0)
	if limit == math.MaxInt64 {
		buf, err := io.ReadAll(src)
		if err != nil {
			return nil, false, readErr(err)
		}
		return buf, true, nil
	}
	buf, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, false, readErr(err)
	}
	return buf, int64(len(buf)) <= limit, nil
}
