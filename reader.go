package csvmd

import (
	"encoding/csv"
	"errors"
	"io"
	"iter"
	"unicode/utf8"
)

// recordReader decodes delimited records and normalizes every failure into
// a *ParseError or an ErrRead-wrapped I/O error. The returned slice is
// reused between calls.
type recordReader struct {
	cr      *csv.Reader
	records int
}

func newRecordReader(r io.Reader, cfg Config) *recordReader {
	cr := csv.NewReader(r)
	cr.Comma = cfg.delimiter()
	cr.ReuseRecord = true
	// A quote inside an unquoted field is an error, not data.
	cr.LazyQuotes = false
	if cfg.Flexible {
		cr.FieldsPerRecord = -1
	}
	return &recordReader{cr: cr}
}

// Read returns the next record, or io.EOF once the input is exhausted.
func (rr *recordReader) Read() ([]string, error) {
	rec, err := rr.cr.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	rr.records++
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &ParseError{Line: pe.Line, Column: pe.Column, Record: rr.records, Err: pe.Err}
		}
		return nil, readErr(err)
	}
	for i, f := range rec {
		if !utf8.ValidString(f) {
			line, col := rr.cr.FieldPos(i)
			return nil, &ParseError{Line: line, Column: col, Record: rr.records, Err: ErrInvalidUTF8}
		}
	}
	return rec, nil
}

// Records lazily yields the records of src. Iteration stops after the
// first error. Yielded slices are only valid until the next iteration.
func Records(src io.Reader, cfg Config) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		if err := cfg.validate(); err != nil {
			yield(nil, err)
			return
		}
		rr := newRecordReader(src, cfg)
		for {
			rec, err := rr.Read()
			if err == io.EOF {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// countColumns runs the reader over r once and returns the widest record
// length and the number of records.
func countColumns(r io.Reader, cfg Config) (width, records int, err error) {
	rr := newRecordReader(r, cfg)
	for {
		rec, err := rr.Read()
		if err == io.EOF {
			return width, records, nil
		}
		if err != nil {
			return 0, 0, err
		}
		records++
		width = max(width, len(rec))
	}
}
