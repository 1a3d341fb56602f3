// Package csvmd converts delimiter-separated text into Markdown tables.
//
// Every output row has the same number of cells: the largest field count of
// any record in the input. Shorter records are padded with empty cells.
// Because that width is only known after the whole input has been seen, the
// package offers several strategies that trade memory for I/O:
//
//   - [ConvertToString] reads every record into memory, then renders.
//   - [ConvertStreaming] copies the input into memory once and parses it
//     twice, first to find the width and then to write rows.
//   - [ConvertStreamingSeekable] parses a seekable source, seeks back, and
//     parses it again. Memory use is one record.
//   - [ConvertStreamingChunked] copies the input to a temporary file in
//     fixed-size chunks while estimating the width, then renders from the
//     file. Memory use is one chunk.
//
// All four produce byte-identical output for the same input and [Config].
// [Convert] picks one from the capabilities of the source:
//
//	f, err := os.Open("people.csv")
//	if err != nil { ... }
//	defer f.Close()
//	err = csvmd.Convert(f, os.Stdout, csvmd.DefaultConfig())
//
// # Output
//
// Rows are written as "| a | b |" with one newline each. When
// [Config.HasHeaders] is set, a separator line follows the first row, with
// markers chosen by [Config.HeaderAlignment]:
//
//	| Name | Age |
//	| --- | --- |
//	| John | 25 |
//
// Cells are escaped with [EscapeCell]: pipes become \|, line feeds become
// <br>, and carriage returns are removed. Empty input produces no output.
//
// # Best Effort
//
// [ConvertBestEffort] fixes the width after a bounded number of records and
// streams the rest without waiting for the end of input. It is faster to
// first byte but produces a ragged table when a later record is wider. It is
// never chosen by [Convert].
//
// # Errors
//
// Decoding failures are returned as [*ParseError] with the line and record
// number. I/O failures wrap [ErrRead], [ErrSeek], [ErrWrite], or [ErrSpill]
// around the underlying cause. Configuration errors are reported before any
// input is read:
//
//   - [ErrInvalidDelimiter] — delimiter is not a single ASCII character
//   - [ErrInvalidAlignment] — unknown alignment
//   - [ErrInvalidChunkSize] — chunk size is not positive
//   - [ErrInvalidLookahead] — look-ahead is not positive
//   - [ErrUnsupportedStrategy] — unknown strategy name
//
// A failed conversion may leave partial output on the sink. Temporary
// files are removed on every path.
package csvmd
