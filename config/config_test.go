package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
repository: https://mirror.example.com/repo/
verify_checksums: false
http:
  timeout: 5s
documents: [primary, updateinfo]
log:
  verbosity: 2
`

func TestDefault(t *testing.T) {
	assert := assert.New(t)
	cfg := Default()
	assert.NoError(cfg.Validate())
	assert.True(cfg.VerifyChecksums)
	assert.Equal(30*time.Second, cfg.HTTP.Timeout)
	assert.True(cfg.Allowed("filelists"))
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "repodata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.NoError(cfg.Validate())
	assert.Equal("https://mirror.example.com/repo/", cfg.Repository)
	assert.False(cfg.VerifyChecksums)
	assert.Equal(5*time.Second, cfg.HTTP.Timeout)
	// unset keys keep their defaults
	assert.Equal("repodata", cfg.HTTP.UserAgent)
	assert.Equal(2, cfg.Log.Verbosity)
	assert.True(cfg.Allowed("primary"))
	assert.False(cfg.Allowed("filelists"))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("repostory: /srv\n"), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "repostory")
}

func TestLoadEmpty(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestPath(t *testing.T) {
	t.Setenv(EnvVar, "/etc/repodata.yaml")
	assert.Equal(t, "/etc/repodata.yaml", Path(""))
	assert.Equal(t, "local.yaml", Path("local.yaml"))
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"no repository", func(c *Config) { c.Repository = "" }, "repository is required"},
		{"negative timeout", func(c *Config) { c.HTTP.Timeout = -time.Second }, "http.timeout"},
		{"negative verbosity", func(c *Config) { c.Log.Verbosity = -1 }, "log.verbosity"},
		{"unknown document", func(c *Config) { c.Documents = []string{"primary", "other"} }, "unknown document type other"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
}
