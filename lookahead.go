package csvmd

import (
	"bufio"
	"fmt"
	"io"
	"slices"
)

// ConvertBestEffort is a low-latency, best-effort mode. It buffers only the
// first lookahead records, fixes the width to the widest of them, and then
// streams the rest immediately.
//
// The output is only well-formed when no later record is wider than the
// first lookahead records. A wider record is written with all its cells,
// which makes the table ragged; nothing is truncated. Use [Convert] or one
// of the two-pass strategies when the table must be exact.
func ConvertBestEffort(src io.Reader, sink io.Writer, cfg Config, lookahead int, opts ...Option) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if lookahead <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidLookahead, lookahead)
	}
	o := newOptions(opts)

	rr := newRecordReader(src, cfg)
	probe := make([][]string, 0, min(lookahead, 64))
	width := 0
	eof := false
	for len(probe) < lookahead {
		rec, err := rr.Read()
		if err == io.EOF {
			eof = true
			break
		}
		if err != nil {
			return err
		}
		width = max(width, len(rec))
		probe = append(probe, slices.Clone(rec))
	}
	o.Logger.Debugf("probed %d records, width %d", len(probe), width)
	if len(probe) == 0 {
		return nil
	}

	bw := bufio.NewWriter(sink)
	a := newAssembler(bw, cfg, width)
	a.wider = true
	for _, rec := range probe {
		if err := a.emit(rec); err != nil {
			return err
		}
	}

	for !eof {
		rec, err := rr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := a.emit(rec); err != nil {
			return err
		}
	}
	if a.overflow > 0 {
		o.Logger.Infof("%d records exceeded the probed width of %d", a.overflow, width)
	}
	if err := bw.Flush(); err != nil {
		return writeErr(err)
	}
	return nil
}
