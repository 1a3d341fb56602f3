package csvmd

import "strings"

// EscapeCell makes a raw field safe inside a Markdown table cell. Pipes
// become \|, line feeds become <br>, and carriage returns are dropped.
// Fields without any of those characters are returned as is.
func EscapeCell(field string) string {
	if !needsEscape(field) {
		return field
	}
	return string(appendEscaped(make([]byte, 0, len(field)+8), field))
}

func needsEscape(field string) bool {
	return strings.ContainsAny(field, "|\n\r")
}

func appendEscaped(dst []byte, field string) []byte {
	if !needsEscape(field) {
		return append(dst, field...)
	}
	for i := 0; i < len(field); i++ {
		switch c := field[i]; c {
		case '|':
			dst = append(dst, '\\', '|')
		case '\n':
			dst = append(dst, "<br>"...)
		case '\r':
		default:
			dst = append(dst, c)
		}
	}
	return dst
}
