package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ZBIRKA_DB", "")
	os.Unsetenv("ZBIRKA_DB")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "zbirka.sqlite3", cfg.DBPath)
	assert.Equal(t, "labels", cfg.LabelDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("ZBIRKA_DB", "/tmp/cards.sqlite3")
	t.Setenv("ZBIRKA_LABEL_DIR", "/tmp/barcodes")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cards.sqlite3", cfg.DBPath)
	assert.Equal(t, "/tmp/barcodes", cfg.LabelDir)
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ZBIRKA_LOG_LEVEL=debug\nZBIRKA_LOG_FILE=zbirka.log\n"), 0o644))

	t.Setenv("ZBIRKA_LOG_LEVEL", "warn")
	t.Setenv("ZBIRKA_LOG_FILE", "")
	os.Unsetenv("ZBIRKA_LOG_FILE")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "zbirka.log", cfg.LogFile)
}
