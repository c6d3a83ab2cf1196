package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, "hex", cfg.Format)
	require.False(t, cfg.Flatten)
	require.Equal(t, 10, cfg.Workers)
	require.Equal(t, "sprites.db", cfg.Database)
	require.Empty(t, cfg.Palette)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, 4, cfg.Server.Scale)
	require.Equal(t, "info", cfg.Logger.Level)
	require.Empty(t, cfg.Logger.File)
	require.Equal(t, 50, cfg.Logger.MaxSize)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "png2src.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
format: binary
flatten: true
workers: 4
palette:
  - "#e0f8cf"
  - "#86c06c"
  - "#306850"
  - "#071821"
server:
  scale: 8
logger:
  level: debug
  file: png2src.log
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "binary", cfg.Format)
	require.True(t, cfg.Flatten)
	require.Equal(t, 4, cfg.Workers)
	require.Len(t, cfg.Palette, 4)

	// Values the file does not mention keep their defaults.
	require.Equal(t, "sprites.db", cfg.Database)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, 8, cfg.Server.Scale)

	require.Equal(t, "debug", cfg.Logger.Level)
	require.Equal(t, "png2src.log", cfg.Logger.File)
	require.Equal(t, 3, cfg.Logger.MaxBackups)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: [not a number\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.ErrorContains(t, err, path)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadDefaultFile(t *testing.T) {
	orig, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(orig)

	tmp := t.TempDir()
	require.NoError(t, os.Chdir(tmp))

	// No file in the working directory: plain defaults, no error.
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 10, cfg.Workers)

	require.NoError(t, os.WriteFile(filepath.Join(tmp, DefaultFile), []byte("workers: 2\n"), 0o644))

	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Workers)
}
