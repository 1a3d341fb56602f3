// Package input opens the byte stream the converter reads, undoing any
// compression on the way.
package input

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// ErrUnsupportedCompression is returned for an unknown compression name.
var ErrUnsupportedCompression = errors.New("unsupported compression")

// Compression names a stream encoding.
type Compression string

const (
	Auto  Compression = "auto"
	None  Compression = "none"
	Gzip  Compression = "gzip"
	Bzip2 Compression = "bzip2"
	XZ    Compression = "xz"
	Zstd  Compression = "zstd"
)

var compressions = []Compression{Auto, None, Gzip, Bzip2, XZ, Zstd}

// Compressions returns all compression names.
func Compressions() []Compression {
	out := make([]Compression, len(compressions))
	copy(out, compressions)
	return out
}

// ParseCompression parses a compression name.
func ParseCompression(s string) (Compression, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Auto, nil
	}
	for _, c := range compressions {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCompression, s)
}

var magic = []struct {
	c      Compression
	prefix []byte
}{
	{Gzip, []byte{0x1f, 0x8b}},
	{Bzip2, []byte("BZh")},
	{XZ, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}},
	{Zstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
}

// Detect peeks at the head of br and reports the compression it starts
// with, or None. No bytes are consumed.
func Detect(br *bufio.Reader) (Compression, error) {
	head, err := br.Peek(6)
	if err != nil && !errors.Is(err, io.EOF) {
		return None, err
	}
	for _, m := range magic {
		if bytes.HasPrefix(head, m.prefix) {
			return m.c, nil
		}
	}
	return None, nil
}

// Decompress wraps r in a decoder for c. Auto sniffs the first bytes. The
// returned close func releases decoder state; it never closes r.
//
// When no decoding happens and c is None, r itself is returned so that a
// seekable source stays seekable.
func Decompress(r io.Reader, c Compression) (io.Reader, func() error, error) {
	if c == None {
		return r, nopClose, nil
	}
	if c == Auto {
		br := bufio.NewReader(r)
		detected, err := Detect(br)
		if err != nil {
			return nil, nil, fmt.Errorf("detecting compression: %w", err)
		}
		if detected == None {
			if rs, ok := r.(io.Seeker); ok {
				// Nothing was consumed from r beyond what br holds; rewind so
				// the caller keeps a seekable source.
				if _, err := rs.Seek(-int64(br.Buffered()), io.SeekCurrent); err == nil {
					return r, nopClose, nil
				}
			}
			return br, nopClose, nil
		}
		return open(br, detected)
	}
	return open(r, c)
}

func open(r io.Reader, c Compression) (io.Reader, func() error, error) {
	switch c {
	case Gzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return gz, gz.Close, nil
	case Bzip2:
		return bzip2.NewReader(r), nopClose, nil
	case XZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return xr, nopClose, nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		return dec, func() error { dec.Close(); return nil }, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedCompression, c)
	}
}

func nopClose() error { return nil }
