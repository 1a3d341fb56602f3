package csvmd

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Sentinel errors for programmatic error handling.
var (
	ErrInvalidDelimiter = errors.New("invalid delimiter")
	ErrInvalidAlignment = errors.New("invalid alignment")
	ErrInvalidChunkSize = errors.New("invalid chunk size")
	ErrInvalidLookahead = errors.New("invalid lookahead")
	ErrInvalidUTF8      = errors.New("invalid UTF-8")
	ErrWidthExceeded    = errors.New("record wider than resolved column count")

	ErrRead  = errors.New("read source")
	ErrSeek  = errors.New("seek source")
	ErrWrite = errors.New("write output")
	ErrSpill = errors.New("spill file")
)

// Alignment controls the header separator markers.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

var alignNames = map[Alignment]string{
	AlignLeft:   "left",
	AlignCenter: "center",
	AlignRight:  "right",
}

// String returns the alignment name.
func (a Alignment) String() string {
	if s, ok := alignNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Alignment(%d)", int(a))
}

// ParseAlignment parses an alignment name. It accepts "left", "center",
// "centre", and "right" in any case.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}
	return AlignLeft, fmt.Errorf("%w: %q (valid: left, center, right)", ErrInvalidAlignment, s)
}

// Config controls one conversion. It is passed by value and never modified.
type Config struct {
	// HasHeaders emits a separator line after the first row.
	HasHeaders bool
	// Flexible allows records of different lengths. When false, any record
	// whose length differs from the first one is a parse failure.
	Flexible bool
	// Delimiter separates fields. Zero means comma.
	Delimiter rune
	// HeaderAlignment selects the separator marker.
	HeaderAlignment Alignment
}

// DefaultConfig returns a headed, flexible, comma-separated, left-aligned
// configuration.
func DefaultConfig() Config {
	return Config{
		HasHeaders:      true,
		Flexible:        true,
		Delimiter:       ',',
		HeaderAlignment: AlignLeft,
	}
}

func (c Config) delimiter() rune {
	if c.Delimiter == 0 {
		return ','
	}
	return c.Delimiter
}

// validate rejects delimiters the chunk scanner cannot track byte-wise and
// the record reader refuses.
func (c Config) validate() error {
	d := c.delimiter()
	if d >= utf8.RuneSelf || d == '"' || d == '\r' || d == '\n' {
		return fmt.Errorf("%w: %q (must be a single ASCII character other than quote, CR, or LF)", ErrInvalidDelimiter, d)
	}
	if _, ok := alignNames[c.HeaderAlignment]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidAlignment, int(c.HeaderAlignment))
	}
	return nil
}

// ParseError reports a record the reader could not decode.
type ParseError struct {
	Line   int // 1-based line where the error was detected
	Column int // 1-based byte column, 0 when unknown
	Record int // 1-based record number
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("parse error on line %d, column %d, record %d: %v", e.Line, e.Column, e.Record, e.Err)
	}
	return fmt.Sprintf("parse error on line %d, record %d: %v", e.Line, e.Record, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func readErr(err error) error  { return fmt.Errorf("%w: %w", ErrRead, err) }
func writeErr(err error) error { return fmt.Errorf("%w: %w", ErrWrite, err) }
