package csvmd

var separatorCells = map[Alignment]string{
	AlignLeft:   " --- |",
	AlignCenter: " :---: |",
	AlignRight:  " ---: |",
}

// RenderRow renders raw fields as one table row of exactly width cells.
// Missing fields render as empty cells. Fields are escaped with
// [EscapeCell].
func RenderRow(fields []string, width int) string {
	return string(appendRow(nil, fields, width))
}

// RenderSeparator renders the header separator line for width columns.
func RenderSeparator(width int, align Alignment) string {
	return string(appendSeparator(nil, width, align))
}

func appendRow(dst []byte, fields []string, width int) []byte {
	dst = append(dst, '|')
	for i := range width {
		dst = append(dst, ' ')
		if i < len(fields) {
			dst = appendEscaped(dst, fields[i])
		}
		dst = append(dst, " |"...)
	}
	return append(dst, '\n')
}

func appendSeparator(dst []byte, width int, align Alignment) []byte {
	cell, ok := separatorCells[align]
	if !ok {
		cell = separatorCells[AlignLeft]
	}
	dst = append(dst, '|')
	for range width {
		dst = append(dst, cell...)
	}
	return append(dst, '\n')
}

// rowSize estimates the rendered size of a row, used to presize buffers.
func rowSize(fields []string, width int) int {
	n := 2 + 3*width
	for _, f := range fields {
		n += len(f)
	}
	return n
}
