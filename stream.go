package csvmd

import (
	"io"
	"iter"
	"slices"
)

// ConvertIter renders records that were already split into fields. The
// width is only known once seq is exhausted, so every record is collected
// before the first row is written. Delimiter and Flexible are ignored.
func ConvertIter(w io.Writer, cfg Config, seq iter.Seq[[]string]) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	var records [][]string
	width := 0
	seq(func(rec []string) bool {
		width = max(width, len(rec))
		records = append(records, slices.Clone(rec))
		return true
	})
	if len(records) == 0 {
		return nil
	}
	return renderTable(w, cfg, records, width)
}

// ConvertChan renders records received from a channel until it is closed.
// It is a thin wrapper around [ConvertIter].
func ConvertChan(w io.Writer, cfg Config, ch <-chan []string) error {
	return ConvertIter(w, cfg, chanToIter(ch))
}

func chanToIter[T any](ch <-chan T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for item := range ch {
			if !yield(item) {
				return
			}
		}
	}
}
