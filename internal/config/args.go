package config

import (
	"errors"
	"fmt"
)

// Recognised flags. Each takes exactly one value.
const (
	FlagInput       = "--input"
	FlagOutput      = "--output"
	FlagMaxSize     = "--max_size"
	FlagConfig      = "--config"
	FlagFilter      = "--filter"
	FlagJPEGQuality = "--jpeg_quality"
	FlagReport      = "--report"
	FlagLogLevel    = "--log_level"
	FlagLogFile     = "--log_file"
)

var known = map[string]bool{
	FlagInput:       true,
	FlagOutput:      true,
	FlagMaxSize:     true,
	FlagConfig:      true,
	FlagFilter:      true,
	FlagJPEGQuality: true,
	FlagReport:      true,
	FlagLogLevel:    true,
	FlagLogFile:     true,
}

// ErrMissingValue is returned when a flag is the last token.
var ErrMissingValue = errors.New("config: missing value")

// Flags maps a recognised flag to its raw value. Absent flags are not set.
type Flags map[string]string

// ParseArgs scans command line tokens. Flags may appear in any order and
// the last occurrence wins. Unrecognised tokens are ignored. When a bare
// "--" is present only the tokens after it are scanned, so the tool can be
// invoked through wrappers that pass their own arguments first.
func ParseArgs(args []string) (Flags, error) {
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}

	flags := make(Flags)
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if !known[tok] {
			continue
		}
		if i+1 >= len(args) {
			return nil, fmt.Errorf("%w for %s", ErrMissingValue, tok)
		}
		flags[tok] = args[i+1]
		i++
	}
	return flags, nil
}
