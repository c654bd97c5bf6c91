package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	Reset()
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, cfg.Server.ListenAddr)
	assert.Equal(t, DefaultDBPath, cfg.Database.Path)
	assert.Equal(t, DefaultQueueDepth, cfg.Pubsub.QueueDepth)
}

func TestLoad_ProjectFileOverridesDefaults(t *testing.T) {
	Reset()
	dir := t.TempDir()
	t.Chdir(dir)

	toml := "[server]\nlisten_addr = \":9000\"\n\n[database]\npath = \"custom.db\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nextappd.toml"), []byte(toml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.ListenAddr)
	assert.Equal(t, "custom.db", cfg.Database.Path)
}

func TestLoad_EnvVarOverridesProjectFile(t *testing.T) {
	Reset()
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nextappd.toml"), []byte("[server]\nlisten_addr = \":9000\"\n"), 0o644))
	t.Setenv("NEXTAPPD_SERVER_LISTEN_ADDR", ":7000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.ListenAddr)
}

func TestLoad_CachesResult(t *testing.T) {
	Reset()
	t.Chdir(t.TempDir())

	first, err := Load()
	require.NoError(t, err)
	t.Setenv("NEXTAPPD_SERVER_LISTEN_ADDR", ":9999")
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)
}
