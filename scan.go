package csvmd

// columnScanner estimates the widest record of a delimited stream that
// arrives in arbitrary chunks. State carries across chunk boundaries, so a
// quoted field may span chunks and lines.
//
// It follows the record reader's rules for well-formed input: a quote opens
// a quoted field only as the first byte of a field, a doubled quote inside a
// quoted field is a literal quote, delimiters inside quotes do not split,
// and lines that are empty (or a lone CR) are not records. Malformed input
// is counted on a best-effort basis; the reader reports it on the render
// pass.
type columnScanner struct {
	delim byte

	max     int
	records int

	fields     int  // delimiters seen in the current record, plus one
	lineLen    int  // bytes consumed in the current record
	last       byte // previous byte of the current record
	fieldStart bool // next byte begins a field
	quoted     bool // inside a quoted field
	quoteSeen  bool // inside a quoted field, previous byte was a quote
}

func newColumnScanner(delim byte) *columnScanner {
	s := &columnScanner{delim: delim}
	s.reset()
	return s
}

func (s *columnScanner) reset() {
	s.fields = 1
	s.lineLen = 0
	s.last = 0
	s.fieldStart = true
	s.quoted = false
	s.quoteSeen = false
}

// Write feeds a chunk. It never fails; it satisfies io.Writer so the
// scanner can sit behind an io.MultiWriter.
func (s *columnScanner) Write(p []byte) (int, error) {
	for _, c := range p {
		s.step(c)
	}
	return len(p), nil
}

func (s *columnScanner) step(c byte) {
	if s.quoted {
		switch {
		case s.quoteSeen && c == '"':
			s.quoteSeen = false
			s.consume(c)
			return
		case s.quoteSeen:
			s.quoteSeen = false
			s.quoted = false
		case c == '"':
			s.quoteSeen = true
			s.consume(c)
			return
		default:
			s.consume(c)
			return
		}
	}

	switch {
	case c == '\n':
		s.endRecord()
	case c == s.delim:
		s.fields++
		s.consume(c)
		s.fieldStart = true
	case c == '"' && s.fieldStart:
		s.quoted = true
		s.consume(c)
	default:
		s.consume(c)
	}
}

func (s *columnScanner) consume(c byte) {
	s.lineLen++
	s.last = c
	s.fieldStart = false
}

func (s *columnScanner) blank() bool {
	return s.lineLen == 0 || (s.lineLen == 1 && s.last == '\r')
}

func (s *columnScanner) endRecord() {
	if !s.blank() {
		s.records++
		s.max = max(s.max, s.fields)
	}
	s.reset()
}

// Close accounts for a final record without a trailing newline and returns
// the widest record seen.
func (s *columnScanner) Close() int {
	if s.quoted || !s.blank() {
		s.records++
		s.max = max(s.max, s.fields)
	}
	s.reset()
	return s.max
}
