package csvmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// ConvertToString reads every record into memory, then renders the table.
// Memory use is proportional to the input size.
func ConvertToString(src io.Reader, cfg Config, opts ...Option) (string, error) {
	if err := cfg.validate(); err != nil {
		return "", err
	}
	o := newOptions(opts)

	records, width, err := readAll(src, cfg)
	if err != nil {
		return "", err
	}
	o.Logger.Debugf("materialized %d records, width %d", len(records), width)
	if len(records) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.Grow(tableSize(records, width))
	if err := renderTable(&sb, cfg, records, width); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func readAll(src io.Reader, cfg Config) ([][]string, int, error) {
	rr := newRecordReader(src, cfg)
	var records [][]string
	width := 0
	for {
		rec, err := rr.Read()
		if err == io.EOF {
			return records, width, nil
		}
		if err != nil {
			return nil, 0, err
		}
		width = max(width, len(rec))
		records = append(records, slices.Clone(rec))
	}
}

// ConvertStreaming copies src into memory once, runs the record reader over
// the copy to resolve the width, then again to write rows to sink.
func ConvertStreaming(src io.Reader, sink io.Writer, cfg Config, opts ...Option) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	o := newOptions(opts)

	rp, err := materializeMemory(src)
	if err != nil {
		return err
	}
	defer rp.release()
	o.Logger.Debugf("buffered %d bytes for two passes", len(rp.data))
	return twoPass(rp, sink, cfg, o)
}

// ConvertStreamingSeekable resolves the width with one pass over src, seeks
// back to where src was positioned on entry, and writes rows on a second
// pass. At most one record is held in memory.
func ConvertStreamingSeekable(src io.ReadSeeker, sink io.Writer, cfg Config, opts ...Option) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	o := newOptions(opts)

	rp, err := newSeekReplay(src)
	if err != nil {
		return err
	}
	o.Logger.Debugf("seekable source at offset %d", rp.origin)
	return twoPass(rp, sink, cfg, o)
}

// ConvertStreamingChunked copies src to a temporary spill file in chunks of
// chunkSize bytes while estimating the width from the raw bytes, then
// renders from the spill file. Live memory is bounded by the chunk size.
// The spill file is removed before returning.
func ConvertStreamingChunked(src io.Reader, sink io.Writer, cfg Config, chunkSize int, opts ...Option) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if chunkSize <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidChunkSize, chunkSize)
	}
	o := newOptions(opts)
	return chunked(nil, src, sink, cfg, chunkSize, o)
}

// twoPass resolves the width on a first pass and renders on a second.
func twoPass(rp replay, sink io.Writer, cfg Config, o Options) error {
	r, err := rp.pass()
	if err != nil {
		return err
	}
	width, records, err := countColumns(r, cfg)
	if err != nil {
		return err
	}
	o.Logger.Debugf("first pass: %d records, width %d", records, width)
	if records == 0 {
		return nil
	}

	r, err = rp.pass()
	if err != nil {
		return err
	}
	return streamRows(r, sink, cfg, width)
}

// chunked spills prefix and then the rest of src, estimating the width as
// bytes go by, and renders from the spill file.
func chunked(prefix []byte, src io.Reader, sink io.Writer, cfg Config, chunkSize int, o Options) (err error) {
	spill, err := newSpillReplay(o.TempDir)
	if err != nil {
		return err
	}
	o.Logger.Debugf("spilling to %s in %d byte chunks", spill.name(), chunkSize)
	defer func() {
		if rerr := spill.release(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	scan := newColumnScanner(byte(cfg.delimiter()))
	w := io.MultiWriter(spill, scan)
	if len(prefix) > 0 {
		if _, err := w.Write(prefix); err != nil {
			return err
		}
	}
	n, err := copyChunks(w, src, chunkSize)
	if err != nil {
		return err
	}
	width := scan.Close()
	o.Logger.Debugf("spilled %d bytes, estimated %d records, width %d", int64(len(prefix))+n, scan.records, width)
	if scan.records == 0 {
		return nil
	}

	r, err := spill.pass()
	if err != nil {
		return err
	}
	return streamRows(r, sink, cfg, width)
}

// copyChunks reads src in chunkSize reads and writes each chunk to w.
func copyChunks(w io.Writer, src io.Reader, chunkSize int) (int64, error) {
	buf := make([]byte, chunkSize)
	var total int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return total, err
			}
			total += int64(n)
		}
		if errors.Is(rerr, io.EOF) {
			return total, nil
		}
		if rerr != nil {
			return total, readErr(rerr)
		}
	}
}

// streamRows renders r through a buffered writer on sink.
func streamRows(r io.Reader, sink io.Writer, cfg Config, width int) error {
	bw := bufio.NewWriter(sink)
	if err := renderPass(r, newAssembler(bw, cfg, width)); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return writeErr(err)
	}
	return nil
}
