package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bjaus/csvmd/internal/input"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

const (
	waitingNotice = "Waiting for input via stdin... (To read from a file, use `csvmd path/to/file.csv`.)"
	noticeDelay   = 2 * time.Second
)

// openInput opens the named file, or stdin for no argument or "-", and
// undoes its compression. The returned func closes everything opened here.
func openInput(cmd *cobra.Command, args []string, c input.Compression) (io.Reader, func() error, error) {
	var (
		src     io.Reader
		closeFn = func() error { return nil }
	)
	if len(args) == 0 || args[0] == "-" {
		stdin := cmd.InOrStdin()
		src = stdin
		if isTerminal(stdin) {
			src = &noticeReader{r: stdin, w: cmd.ErrOrStderr(), msg: waitingNotice, delay: noticeDelay}
			// Sniffing would wait for bytes the user has not typed yet.
			if c == input.Auto {
				c = input.None
			}
		}
	} else {
		file, err := os.Open(args[0])
		if err != nil {
			return nil, nil, fmt.Errorf("opening input: %w", err)
		}
		src = file
		closeFn = file.Close
	}

	r, closeDec, err := input.Decompress(src, c)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return r, func() error {
		return errors.Join(closeDec(), closeFn())
	}, nil
}

// noticeReader prints msg on w when the first read from r blocks longer
// than delay, and erases it once that read returns.
type noticeReader struct {
	r     io.Reader
	w     io.Writer
	msg   string
	delay time.Duration
	done  bool
}

type readResult struct {
	n   int
	err error
}

func (n *noticeReader) Read(p []byte) (int, error) {
	if n.done {
		return n.r.Read(p)
	}
	n.done = true

	ch := make(chan readResult, 1)
	go func() {
		k, err := n.r.Read(p)
		ch <- readResult{k, err}
	}()

	timer := time.NewTimer(n.delay)
	defer timer.Stop()
	select {
	case res := <-ch:
		return res.n, res.err
	case <-timer.C:
	}

	fmt.Fprint(n.w, n.msg)
	res := <-ch
	fmt.Fprintf(n.w, "\r%s\r", strings.Repeat(" ", runewidth.StringWidth(n.msg)))
	return res.n, res.err
}
