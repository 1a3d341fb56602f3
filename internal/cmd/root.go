// Package cmd implements the csvmd command line.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/bjaus/csvmd"
	"github.com/olekukonko/ll"
	"github.com/olekukonko/ll/lh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Version is set at build time
	version = "dev"
	// Commit is set at build time
	commit = "none"
	// Date is set at build time
	date = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

type flags struct {
	delimiter  string
	align      string
	strategy   string
	output     string
	decompress string
	configFile string
	tempDir    string
	noHeaders  bool
	strict     bool
	stream     bool
	debug      bool
	chunkSize  int
	lookahead  int
	maxBuffer  int64
}

// NewRootCmd builds the csvmd command. Input, output and error streams come
// from the command, so tests can replace them with SetIn, SetOut and SetErr.
func NewRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "csvmd [file|-]",
		Short: "Convert CSV to a Markdown table",
		Long: `csvmd converts delimited text into a Markdown table. Every row gets as
many cells as the widest record in the input.

With no file, or with "-", input is read from stdin. Compressed input
(gzip, bzip2, xz, zstd) is detected and decoded.

Strategies:
  memory       read everything, then render (default)
  auto         pick seek, buffer or chunked from the input (--stream)
  buffer       copy the input into memory and read it twice
  seek         read a regular file twice in place
  chunked      spill to a temporary file while counting columns
  best-effort  fix the width after --lookahead records; may be ragged

Config file: ~/.config/csvmd/config.yaml`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f)
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("csvmd version %s (commit: %s, built: %s)\n", version, commit, date))

	fl := root.Flags()
	fl.StringVarP(&f.delimiter, "delimiter", "d", ",", `Field delimiter (a single character; \t or tab for tabs)`)
	fl.BoolVar(&f.noHeaders, "no-headers", false, "Treat the first row as data, not headers")
	fl.StringVar(&f.align, "align", "left", "Header alignment (left|center|right)")
	fl.BoolVar(&f.strict, "strict", false, "Reject records whose field count differs from the first record")
	fl.BoolVar(&f.stream, "stream", false, "Stream output instead of rendering in memory (same as --strategy auto)")
	fl.StringVar(&f.strategy, "strategy", "", "Conversion strategy (auto|memory|buffer|seek|chunked|best-effort)")
	fl.IntVar(&f.chunkSize, "chunk-size", 64<<10, "Read size for the chunked strategy, in bytes")
	fl.Int64Var(&f.maxBuffer, "max-buffer", 8<<20, "Largest piped input held in memory by the auto strategy, in bytes")
	fl.IntVar(&f.lookahead, "lookahead", 100, "Records inspected by the best-effort strategy")
	fl.StringVar(&f.tempDir, "temp-dir", "", "Directory for spill files (default: system temp dir)")
	fl.StringVarP(&f.output, "output", "o", "", "Write the table to a file instead of stdout")
	fl.StringVar(&f.decompress, "decompress", "auto", "Input compression (auto|none|gzip|bzip2|xz|zstd)")
	fl.StringVar(&f.configFile, "config", "", "Config file (default: ~/.config/csvmd/config.yaml)")
	fl.BoolVar(&f.debug, "debug", false, "Trace strategy decisions on stderr")

	return root
}

// Execute runs the root command
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "csvmd: %v\n", err)
		return err
	}
	return nil
}

func run(cmd *cobra.Command, args []string, f *flags) (err error) {
	s, err := resolve(cmd, f)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(cmd, args, s.compression)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeIn(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	out, closeOut, err := openOutput(cmd, f.output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	opts := s.options
	if f.debug {
		logger := ll.New("csvmd").Handler(lh.NewTextHandler(cmd.ErrOrStderr()))
		logger.Enable()
		opts = append(opts, csvmd.WithLogger(logger))
	}
	return csvmd.ConvertUsing(s.strategy, in, out, s.config, opts...)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	if cmd.Flags().Changed(name) {
		return true
	}
	return cmd.InheritedFlags().Changed(name)
}

func isTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}
	return file, file.Close, nil
}
