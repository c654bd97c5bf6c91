package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault_WritesLoadableToml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nextappd.toml")

	require.NoError(t, WriteDefault(path))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "listen_addr")

	Reset()
	t.Chdir(dir)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, cfg.Server.ListenAddr)
}

func TestWriteDefault_RefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nextappd.toml")
	require.NoError(t, WriteDefault(path))

	err := WriteDefault(path)
	assert.Error(t, err)
}
