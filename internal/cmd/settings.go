package cmd

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bjaus/csvmd"
	"github.com/bjaus/csvmd/internal/config"
	"github.com/bjaus/csvmd/internal/input"
	"github.com/spf13/cobra"
)

// settings is the resolved run configuration: flag > config file > default.
type settings struct {
	config      csvmd.Config
	strategy    csvmd.Strategy
	compression input.Compression
	options     []csvmd.Option
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return &config.Config{}, nil
		}
		path = p
	}
	return config.Load(path)
}

func resolve(cmd *cobra.Command, f *flags) (settings, error) {
	var s settings
	fc, err := loadConfig(f.configFile)
	if err != nil {
		return s, err
	}

	delim := f.delimiter
	if !flagChanged(cmd, "delimiter") && fc.Delimiter != "" {
		delim = fc.Delimiter
	}
	r, err := parseDelimiter(delim)
	if err != nil {
		return s, err
	}

	align := f.align
	if !flagChanged(cmd, "align") && fc.Align != "" {
		align = fc.Align
	}
	alignment, err := csvmd.ParseAlignment(align)
	if err != nil {
		return s, err
	}

	noHeaders := f.noHeaders
	if !flagChanged(cmd, "no-headers") && fc.NoHeaders != nil {
		noHeaders = *fc.NoHeaders
	}
	strict := f.strict
	if !flagChanged(cmd, "strict") && fc.Strict != nil {
		strict = *fc.Strict
	}

	s.config = csvmd.Config{
		HasHeaders:      !noHeaders,
		Flexible:        !strict,
		Delimiter:       r,
		HeaderAlignment: alignment,
	}

	// Strategy: --strategy > --stream > config > memory
	name := string(csvmd.StrategyMemory)
	switch {
	case flagChanged(cmd, "strategy"):
		name = f.strategy
	case f.stream:
		name = string(csvmd.StrategyAuto)
	case fc.Strategy != "":
		name = fc.Strategy
	}
	s.strategy, err = csvmd.ParseStrategy(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return s, err
	}

	comp := f.decompress
	if !flagChanged(cmd, "decompress") && fc.Decompress != "" {
		comp = fc.Decompress
	}
	s.compression, err = input.ParseCompression(comp)
	if err != nil {
		return s, err
	}

	chunkSize := f.chunkSize
	if !flagChanged(cmd, "chunk-size") && fc.ChunkSize != 0 {
		chunkSize = fc.ChunkSize
	}
	maxBuffer := f.maxBuffer
	if !flagChanged(cmd, "max-buffer") && fc.MaxBuffer != 0 {
		maxBuffer = fc.MaxBuffer
	}
	lookahead := f.lookahead
	if !flagChanged(cmd, "lookahead") && fc.Lookahead != 0 {
		lookahead = fc.Lookahead
	}
	tempDir := f.tempDir
	if !flagChanged(cmd, "temp-dir") && fc.TempDir != "" {
		tempDir = fc.TempDir
	}
	s.options = []csvmd.Option{
		csvmd.WithChunkSize(chunkSize),
		csvmd.WithMaxBufferSize(maxBuffer),
		csvmd.WithLookahead(lookahead),
		csvmd.WithTempDir(tempDir),
	}
	return s, nil
}

// parseDelimiter accepts a single character, or \t and "tab" for a tab.
func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: %q (must be a single character)", csvmd.ErrInvalidDelimiter, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
