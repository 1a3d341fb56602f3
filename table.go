package csvmd

import (
	"fmt"
	"io"
)

// assembler renders records in arrival order against a fixed width and
// inserts the header separator after the first row. Rows are written to w
// one at a time.
type assembler struct {
	w     io.Writer
	cfg   Config
	width int
	rows  int
	buf   []byte

	// wider lets records longer than width through at their own length.
	// Only the best-effort look-ahead mode sets it.
	wider    bool
	overflow int
}

func newAssembler(w io.Writer, cfg Config, width int) *assembler {
	return &assembler{w: w, cfg: cfg, width: width}
}

func (a *assembler) emit(fields []string) error {
	width := a.width
	if len(fields) > width {
		if !a.wider {
			return fmt.Errorf("%w: record %d has %d fields, resolved width is %d", ErrWidthExceeded, a.rows+1, len(fields), a.width)
		}
		a.overflow++
		width = len(fields)
	}
	a.buf = appendRow(a.buf[:0], fields, width)
	if a.rows == 0 && a.cfg.HasHeaders {
		a.buf = appendSeparator(a.buf, a.width, a.cfg.HeaderAlignment)
	}
	a.rows++
	if _, err := a.w.Write(a.buf); err != nil {
		return writeErr(err)
	}
	return nil
}

// renderPass reads r once and writes every record against width.
func renderPass(r io.Reader, a *assembler) error {
	rr := newRecordReader(r, a.cfg)
	for {
		rec, err := rr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := a.emit(rec); err != nil {
			return err
		}
	}
}

// renderTable writes fully materialized records.
func renderTable(w io.Writer, cfg Config, records [][]string, width int) error {
	a := newAssembler(w, cfg, width)
	for _, rec := range records {
		if err := a.emit(rec); err != nil {
			return err
		}
	}
	return nil
}

func tableSize(records [][]string, width int) int {
	n := 2 + 8*width
	for _, rec := range records {
		n += rowSize(rec, width)
	}
	return n
}
