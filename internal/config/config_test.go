package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Flags
	}{
		{"empty", nil, Flags{}},
		{"all three", []string{"--input", "in", "--max_size", "256", "--output", "out"},
			Flags{FlagInput: "in", FlagOutput: "out", FlagMaxSize: "256"}},
		{"unknown tokens ignored", []string{"-b", "stray", "--input", "in", "--verbose"},
			Flags{FlagInput: "in"}},
		{"only after separator", []string{"--input", "host-arg", "--", "--input", "mine"},
			Flags{FlagInput: "mine"}},
		{"last wins", []string{"--max_size", "1", "--max_size", "2"}, Flags{FlagMaxSize: "2"}},
		{"value may look like a flag", []string{"--input", "--output"}, Flags{FlagInput: "--output"}},
		{"extended flags", []string{"--config", "c.yaml", "--filter", "lanczos", "--report", "r.json"},
			Flags{FlagConfig: "c.yaml", FlagFilter: "lanczos", FlagReport: "r.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgsMissingValue(t *testing.T) {
	_, err := ParseArgs([]string{"--input", "in", "--max_size"})
	assert.ErrorIs(t, err, ErrMissingValue)
	assert.Contains(t, err.Error(), "--max_size")
}

func TestDefaults(t *testing.T) {
	cfg := Default("/opt/tool")
	assert.Equal(t, filepath.Join("/opt/tool", "input"), cfg.Input)
	assert.Equal(t, filepath.Join("/opt/tool", "output"), cfg.Output)
	assert.Equal(t, 512, cfg.MaxSize)
	require.NoError(t, cfg.Validate())
}

func TestResolveOverrides(t *testing.T) {
	dir := t.TempDir()
	cfg := Default(dir)
	require.NoError(t, cfg.Resolve(Flags{
		FlagInput:   filepath.Join(dir, "models"),
		FlagOutput:  "relative-out",
		FlagMaxSize: "1024",
	}))
	require.NoError(t, cfg.Validate())

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "models"), cfg.Input)
	assert.Equal(t, filepath.Join(cwd, "relative-out"), cfg.Output)
	assert.Equal(t, 1024, cfg.MaxSize)
}

func TestResolveInvalidMaxSize(t *testing.T) {
	for _, v := range []string{"0", "-5", "abc", "12.5", ""} {
		cfg := Default(t.TempDir())
		err := cfg.Resolve(Flags{FlagMaxSize: v})
		assert.ErrorIs(t, err, ErrInvalidMaxSize, v)
	}
}

func TestResolveExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg := Default(t.TempDir())
	require.NoError(t, cfg.Resolve(Flags{FlagInput: "~/models"}))
	assert.Equal(t, filepath.Join(home, "models"), cfg.Input)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resize.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input: models
max_size: 256
filter: lanczos
logging:
  log_file: logs/resize.log
`), 0644))

	cfg := Default("/base")
	require.NoError(t, cfg.Load(path))
	assert.Equal(t, filepath.Join(dir, "models"), cfg.Input)
	assert.Equal(t, filepath.Join("/base", "output"), cfg.Output)
	assert.Equal(t, 256, cfg.MaxSize)
	assert.Equal(t, "lanczos", cfg.Filter)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, filepath.Join(dir, "logs", "resize.log"), cfg.Logging.LogFile)

	// Flags still win over the file.
	require.NoError(t, cfg.Resolve(Flags{FlagMaxSize: "128"}))
	assert.Equal(t, 128, cfg.MaxSize)
}

func TestLoadExplicitZeroMaxSizeFailsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resize.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_size: 0\n"), 0644))

	cfg := Default("/base")
	require.NoError(t, cfg.Load(path))
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidMaxSize)
}

func TestLoadErrors(t *testing.T) {
	cfg := Default("/base")
	assert.Error(t, cfg.Load(filepath.Join(t.TempDir(), "missing.yaml")))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_size: [1, 2\n"), 0644))
	assert.Error(t, cfg.Load(path))
}

func TestValidate(t *testing.T) {
	base := Default("/base")

	bad := base
	bad.Filter = "sinc"
	assert.Error(t, bad.Validate())

	bad = base
	bad.JPEGQuality = 101
	assert.Error(t, bad.Validate())

	bad = base
	bad.Logging.Level = "trace"
	assert.Error(t, bad.Validate())
}
