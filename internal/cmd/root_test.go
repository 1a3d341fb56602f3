package cmd

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bjaus/csvmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const people = "Name,Age\nJohn,25\nJane,30,NYC\n"

const peopleTable = "| Name | Age |  |\n| --- | --- | --- |\n| John | 25 |  |\n| Jane | 30 | NYC |\n"

// execute runs the command with an empty config file so the user's own
// config never leaks into a test.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	return executeWithConfig(t, cfg, stdin, args...)
}

func executeWithConfig(t *testing.T, cfg string, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetIn(stdin)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestRootStdin(t *testing.T) {
	t.Parallel()
	for _, args := range [][]string{nil, {"-"}} {
		out, _, err := execute(t, strings.NewReader(people), args...)
		require.NoError(t, err)
		assert.Equal(t, peopleTable, out)
	}
}

func TestRootStrategies(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "people.csv", people)
	for _, st := range csvmd.Strategies() {
		t.Run(string(st), func(t *testing.T) {
			t.Parallel()
			out, _, err := execute(t, strings.NewReader(""), "--strategy", string(st), path)
			require.NoError(t, err)
			assert.Equal(t, peopleTable, out)
		})
	}
}

func TestRootStream(t *testing.T) {
	t.Parallel()
	tests := map[string]io.Reader{
		"seekable": strings.NewReader(people),
		"pipe":     io.MultiReader(strings.NewReader(people)),
	}
	for name, stdin := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			out, _, err := execute(t, stdin, "--stream", "--max-buffer", "4", "--chunk-size", "3")
			require.NoError(t, err)
			assert.Equal(t, peopleTable, out)
		})
	}
}

func TestRootFlags(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input string
		args  []string
		want  string
	}{
		"no headers": {
			input: "a,b\nc,d\n",
			args:  []string{"--no-headers"},
			want:  "| a | b |\n| c | d |\n",
		},
		"semicolon": {
			input: "a;b\n",
			args:  []string{"-d", ";"},
			want:  "| a | b |\n| --- | --- |\n",
		},
		"tab escape": {
			input: "a\tb\n",
			args:  []string{"-d", `\t`},
			want:  "| a | b |\n| --- | --- |\n",
		},
		"tab word": {
			input: "a\tb\n",
			args:  []string{"--delimiter", "tab"},
			want:  "| a | b |\n| --- | --- |\n",
		},
		"center": {
			input: "a,b\n",
			args:  []string{"--align", "center"},
			want:  "| a | b |\n| :---: | :---: |\n",
		},
		"right": {
			input: "a,b\n",
			args:  []string{"--align", "RIGHT"},
			want:  "| a | b |\n| ---: | ---: |\n",
		},
		"empty": {
			input: "",
			want:  "",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			out, _, err := execute(t, strings.NewReader(tt.input), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRootErrors(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input  string
		args   []string
		target error
	}{
		"bad delimiter":  {args: []string{"-d", ";;"}, target: csvmd.ErrInvalidDelimiter},
		"quote":          {args: []string{"-d", `"`}, target: csvmd.ErrInvalidDelimiter},
		"bad alignment":  {args: []string{"--align", "middle"}, target: csvmd.ErrInvalidAlignment},
		"bad strategy":   {args: []string{"--strategy", "fast"}, target: csvmd.ErrUnsupportedStrategy},
		"seek on pipe":   {input: "a\n", args: []string{"--strategy", "seek"}, target: csvmd.ErrSeek},
		"zero chunk":     {input: "a\n", args: []string{"--strategy", "chunked", "--chunk-size", "0"}, target: csvmd.ErrInvalidChunkSize},
		"zero lookahead": {input: "a\n", args: []string{"--strategy", "best-effort", "--lookahead", "0"}, target: csvmd.ErrInvalidLookahead},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, _, err := execute(t, io.MultiReader(strings.NewReader(tt.input)), tt.args...)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestRootStrict(t *testing.T) {
	t.Parallel()
	_, _, err := execute(t, strings.NewReader("a,b\nc\n"), "--strict")
	var pe *csvmd.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Record)
}

func TestRootMissingFile(t *testing.T) {
	t.Parallel()
	_, _, err := execute(t, strings.NewReader(""), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRootTooManyArgs(t *testing.T) {
	t.Parallel()
	_, _, err := execute(t, strings.NewReader(""), "a.csv", "b.csv")
	assert.Error(t, err)
}

func TestRootOutputFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.md")
	out, _, err := execute(t, strings.NewReader(people), "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, peopleTable, string(data))
}

func TestRootGzipInput(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(people))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	path := writeFile(t, "people.csv.gz", buf.String())
	for _, args := range [][]string{{path}, {"--decompress", "gzip", path}, {"--stream", path}} {
		out, _, err := execute(t, strings.NewReader(""), args...)
		require.NoError(t, err)
		assert.Equal(t, peopleTable, out)
	}

	_, _, err = execute(t, strings.NewReader(""), "--strategy", "seek", path)
	assert.ErrorIs(t, err, csvmd.ErrSeek)
}

func TestRootConfigFile(t *testing.T) {
	t.Parallel()
	cfg := writeFile(t, "config.yaml", "delimiter: \";\"\nalign: right\nno_headers: false\nstrategy: chunked\nchunk_size: 2\n")

	out, _, err := executeWithConfig(t, cfg, strings.NewReader("a;b\n"))
	require.NoError(t, err)
	assert.Equal(t, "| a | b |\n| ---: | ---: |\n", out)

	// Flags win over the file.
	out, _, err = executeWithConfig(t, cfg, strings.NewReader("a,b\n"), "-d", ",", "--align", "left")
	require.NoError(t, err)
	assert.Equal(t, "| a | b |\n| --- | --- |\n", out)
}

func TestRootConfigFileInvalid(t *testing.T) {
	t.Parallel()
	cfg := writeFile(t, "config.yaml", "strategy: [\n")
	_, _, err := executeWithConfig(t, cfg, strings.NewReader("a\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestRootDebug(t *testing.T) {
	t.Parallel()
	out, errOut, err := execute(t, io.MultiReader(strings.NewReader(people)), "--stream", "--debug")
	require.NoError(t, err)
	assert.Equal(t, peopleTable, out)
	assert.Contains(t, errOut, "strategy buffer")

	_, errOut, err = execute(t, strings.NewReader(people), "--stream", "--debug")
	require.NoError(t, err)
	assert.Contains(t, errOut, "strategy seek")
}

func TestRootVersion(t *testing.T) {
	t.Parallel()
	out, _, err := execute(t, strings.NewReader(""), "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "csvmd version")
}

func TestSetVersionInfo(t *testing.T) {
	oldVersion, oldCommit, oldDate := version, commit, date
	t.Cleanup(func() { SetVersionInfo(oldVersion, oldCommit, oldDate) })

	SetVersionInfo("1.2.3", "abc123", "2026-01-02")
	out, _, err := execute(t, strings.NewReader(""), "--version")
	require.NoError(t, err)
	assert.Equal(t, "csvmd version 1.2.3 (commit: abc123, built: 2026-01-02)\n", out)
}

func TestRootUnboundedMaxBuffer(t *testing.T) {
	t.Parallel()
	out, _, err := execute(t, io.MultiReader(strings.NewReader(people)), "--stream", "--max-buffer", "9223372036854775807")
	require.NoError(t, err)
	assert.Equal(t, peopleTable, out)
}

func TestOpenInputCloseReportsError(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "people.csv", people)
	r, closeFn, err := openInput(NewRootCmd(), []string{path}, "auto")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, people, string(data))

	require.NoError(t, closeFn())
	assert.ErrorIs(t, closeFn(), os.ErrClosed)
}

func TestParseDelimiter(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		in   string
		want rune
		err  bool
	}{
		"comma":     {in: ",", want: ','},
		"tab":       {in: "\t", want: '\t'},
		"escaped":   {in: `\t`, want: '\t'},
		"word":      {in: "TAB", want: '\t'},
		"non-ascii": {in: "é", want: 'é'},
		"empty":     {in: "", err: true},
		"two":       {in: ",,", err: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := parseDelimiter(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, csvmd.ErrInvalidDelimiter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type slowReader struct {
	wait time.Duration
	data string
	read bool
}

func (s *slowReader) Read(p []byte) (int, error) {
	if s.read {
		return 0, io.EOF
	}
	s.read = true
	time.Sleep(s.wait)
	return copy(p, s.data), nil
}

func TestNoticeReaderShowsAndClears(t *testing.T) {
	t.Parallel()
	var notice bytes.Buffer
	nr := &noticeReader{r: &slowReader{wait: 50 * time.Millisecond, data: "a,b\n"}, w: &notice, msg: "waiting", delay: time.Millisecond}
	data, err := io.ReadAll(nr)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
	assert.Equal(t, "waiting\r       \r", notice.String())
}

func TestNoticeReaderQuietWhenFast(t *testing.T) {
	t.Parallel()
	var notice bytes.Buffer
	nr := &noticeReader{r: strings.NewReader("a,b\n"), w: &notice, msg: "waiting", delay: time.Hour}
	data, err := io.ReadAll(nr)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
	assert.Empty(t, notice.String())
}

func TestNoticeClearsWideRunes(t *testing.T) {
	t.Parallel()
	var notice bytes.Buffer
	nr := &noticeReader{r: &slowReader{wait: 50 * time.Millisecond, data: "x"}, w: &notice, msg: "待つ", delay: time.Millisecond}
	_, err := io.ReadAll(nr)
	require.NoError(t, err)
	assert.Equal(t, "待つ\r    \r", notice.String())
}
