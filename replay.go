package csvmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// replay gives repeated passes over one input. Each call to pass returns a
// reader positioned at the start of the input. release frees whatever the
// replay holds and must be called on every exit path.
type replay interface {
	pass() (io.Reader, error)
	release() error
}

// seekReplay repositions a seekable source to the offset it had when the
// replay was created.
type seekReplay struct {
	rs     io.ReadSeeker
	origin int64
}

func newSeekReplay(rs io.ReadSeeker) (*seekReplay, error) {
	origin, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeek, err)
	}
	return &seekReplay{rs: rs, origin: origin}, nil
}

func (s *seekReplay) pass() (io.Reader, error) {
	if _, err := s.rs.Seek(s.origin, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeek, err)
	}
	return s.rs, nil
}

// The source belongs to the caller.
func (s *seekReplay) release() error { return nil }

// memoryReplay holds a full in-memory copy of the input.
type memoryReplay struct {
	data []byte
}

func materializeMemory(src io.Reader) (*memoryReplay, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, readErr(err)
	}
	return &memoryReplay{data: data}, nil
}

func (m *memoryReplay) pass() (io.Reader, error) {
	if m.data == nil {
		return nil, errors.New("replay released")
	}
	return bytes.NewReader(m.data), nil
}

func (m *memoryReplay) release() error {
	m.data = nil
	return nil
}

// spillReplay holds a copy of the input in a private temporary file. The
// file is removed on release.
type spillReplay struct {
	f *os.File
}

func newSpillReplay(dir string) (*spillReplay, error) {
	f, err := os.CreateTemp(dir, "csvmd-spill-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpill, err)
	}
	return &spillReplay{f: f}, nil
}

func (s *spillReplay) Write(p []byte) (int, error) {
	n, err := s.f.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrSpill, err)
	}
	return n, nil
}

func (s *spillReplay) name() string { return s.f.Name() }

func (s *spillReplay) pass() (io.Reader, error) {
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpill, err)
	}
	return s.f, nil
}

func (s *spillReplay) release() error {
	cerr := s.f.Close()
	rerr := os.Remove(s.f.Name())
	if err := errors.Join(cerr, rerr); err != nil {
		return fmt.Errorf("%w: %w", ErrSpill, err)
	}
	return nil
}

// seekable reports whether src can really be repositioned. Pipes and
// terminals implement io.Seeker through *os.File, so files must also be
// regular.
func seekable(src io.Reader) (io.ReadSeeker, bool) {
	rs, ok := src.(io.ReadSeeker)
	if !ok {
		return nil, false
	}
	if f, ok := src.(*os.File); ok {
		fi, err := f.Stat()
		if err != nil || !fi.Mode().IsRegular() {
			return nil, false
		}
	}
	if _, err := rs.Seek(0, io.SeekCurrent); err != nil {
		return nil, false
	}
	return rs, true
}
