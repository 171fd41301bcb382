// Package config resolves batch settings from defaults, an optional YAML
// file and command line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"lv-glb-resizer/internal/logger"
	"lv-glb-resizer/internal/resize"
	"lv-glb-resizer/internal/texture"
)

// ErrInvalidMaxSize is returned when max_size is not a positive integer.
var ErrInvalidMaxSize = errors.New("config: invalid max_size")

// Config holds all batch settings.
type Config struct {
	Input       string        `yaml:"input"`
	Output      string        `yaml:"output"`
	MaxSize     int           `yaml:"max_size"`
	Filter      string        `yaml:"filter"`
	JPEGQuality int           `yaml:"jpeg_quality"`
	Report      string        `yaml:"report"`
	Logging     LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in settings, with input and output folders
// next to baseDir.
func Default(baseDir string) Config {
	return Config{
		Input:       filepath.Join(baseDir, "input"),
		Output:      filepath.Join(baseDir, "output"),
		MaxSize:     resize.DefaultMaxSize,
		Filter:      resize.FilterCatmullRom,
		JPEGQuality: texture.DefaultJPEGQuality,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load overlays the YAML file at path onto c. Keys absent from the file
// keep their current values. Relative paths in the file are resolved
// against the file's directory.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	// Decode again onto c so that keys present with zero values, such as
	// max_size: 0, still override and are caught by Validate.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for _, p := range []struct {
		fromFile string
		dst      *string
	}{
		{file.Input, &c.Input},
		{file.Output, &c.Output},
		{file.Report, &c.Report},
		{file.Logging.LogFile, &c.Logging.LogFile},
	} {
		if p.fromFile != "" {
			*p.dst = relativeTo(base, expandHome(p.fromFile))
		}
	}
	return nil
}

// Resolve applies flag overrides and makes every path absolute.
func (c *Config) Resolve(flags Flags) error {
	if v, ok := flags[FlagInput]; ok {
		c.Input = expandHome(v)
	}
	if v, ok := flags[FlagOutput]; ok {
		c.Output = expandHome(v)
	}
	if v, ok := flags[FlagMaxSize]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: --max_size %q", ErrInvalidMaxSize, v)
		}
		c.MaxSize = n
	}
	if v, ok := flags[FlagFilter]; ok {
		c.Filter = v
	}
	if v, ok := flags[FlagJPEGQuality]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: invalid --jpeg_quality %q", v)
		}
		c.JPEGQuality = n
	}
	if v, ok := flags[FlagReport]; ok {
		c.Report = expandHome(v)
	}
	if v, ok := flags[FlagLogLevel]; ok {
		c.Logging.Level = v
	}
	if v, ok := flags[FlagLogFile]; ok {
		c.Logging.LogFile = expandHome(v)
	}

	for _, p := range []*string{&c.Input, &c.Output, &c.Report, &c.Logging.LogFile} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("config: resolve %s: %w", *p, err)
		}
		*p = abs
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.MaxSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSize, c.MaxSize)
	}
	if c.Input == "" {
		return errors.New("config: input directory is empty")
	}
	if c.Output == "" {
		return errors.New("config: output directory is empty")
	}
	if _, err := resize.ParseFilter(c.Filter); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("config: jpeg_quality %d out of range 1-100", c.JPEGQuality)
	}
	if !logger.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("config: unknown log level %q", c.Logging.Level)
	}
	return nil
}

// DetectBaseDir returns the directory holding the running executable, or
// the working directory when that cannot be determined.
func DetectBaseDir() string {
	if exe, err := os.Executable(); err == nil && exe != "" {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	cwd, _ := os.Getwd()
	return cwd
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

func relativeTo(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
