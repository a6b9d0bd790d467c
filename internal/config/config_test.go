package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	dir := t.TempDir()

	cfg, err := load("", filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, language.English, cfg.Tag())
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "blutable.yaml", `
addr: "127.0.0.1:9000"
page_size: 25
locale: sv
static_dir: /srv/static
max_sessions: 50
`)
	envFile := writeFile(t, dir, ".env", "BLUTABLE_ROW_HEIGHT=32\n")
	t.Cleanup(func() { os.Unsetenv("BLUTABLE_ROW_HEIGHT") })

	t.Setenv("BLUTABLE_PAGE_SIZE", "50")
	t.Setenv("BLUTABLE_FETCH_TIMEOUT", "5s")
	t.Setenv("BLUTABLE_SESSION_IDLE_TIMEOUT", "15m")

	cfg, err := load(path, envFile)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "/srv/static", cfg.StaticDir)
	// Environment wins over the file.
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 32.0, cfg.RowHeight)
	assert.Equal(t, "sv", cfg.Tag().String())
	assert.Equal(t, 50, cfg.MaxSessions)
	assert.Equal(t, 15*time.Minute, cfg.SessionIdleTimeout)
}

func TestLoadFromEnvPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "other.yaml", "cache_size: 7\n")
	t.Setenv(EnvConfigFile, path)

	cfg, err := load("", filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.CacheSize)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "ZeroPageSize", yaml: "page_size: 0\n"},
		{name: "NegativeRowHeight", yaml: "row_height: -1\n"},
		{name: "BadLocale", yaml: "locale: \"not a locale!\"\n"},
		{name: "BadLogLevel", yaml: "log_level: loud\n"},
		{name: "BadEnvInt", yaml: "page_size: 10\n", env: map[string]string{"BLUTABLE_CACHE_SIZE": "many"}},
		{name: "ZeroMaxSessions", yaml: "max_sessions: 0\n"},
		{name: "BadIdleTimeout", yaml: "page_size: 10\n", env: map[string]string{"BLUTABLE_SESSION_IDLE_TIMEOUT": "-1m"}},
		{name: "BadEnvDuration", yaml: "page_size: 10\n", env: map[string]string{"BLUTABLE_FETCH_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "blutable.yaml", tt.yaml)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := load(path, filepath.Join(dir, "missing.env"))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := t.TempDir()
	_, err := load(filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}
