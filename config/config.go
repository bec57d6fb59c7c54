// Package config loads the configuration of the repodata command.
//
// Configuration is loaded from a single YAML file named by:
//   - the REPODATA_CONFIG environment variable, or
//   - the --config flag passed to the command
//
// The flag wins when both are set. Without either, Default is used.
// Command line flags override values from the file.
package config

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "REPODATA_CONFIG"

// Documents lists the document types the command can bind.
var Documents = []string{"primary", "filelists", "patches", "updateinfo"}

// Config is the repodata command configuration.
type Config struct {
	// Repository is the repository base: an http(s) URL or a directory.
	Repository string `yaml:"repository"`

	// VerifyChecksums verifies each document against the checksum the
	// index records for it.
	VerifyChecksums bool `yaml:"verify_checksums"`

	HTTP HTTPConfig `yaml:"http"`

	// Documents restricts the document types the command opens. All
	// types are allowed when empty.
	Documents []string `yaml:"documents"`

	Log LogConfig `yaml:"log"`
}

// HTTPConfig configures fetching from HTTP repositories.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Verbosity is the glog V level used when -v is not given.
	Verbosity int `yaml:"verbosity"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Repository:      ".",
		VerifyChecksums: true,
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "repodata",
		},
	}
}

// Path returns the config file path: flagValue if set, otherwise the
// value of EnvVar. The empty string means no file.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvVar)
}

// Load returns the configuration in the file at path, over the
// defaults. An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	if err := cfg.Parse(data); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse merges the YAML document data into c. Unknown keys are errors.
func (c *Config) Parse(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var problems []string
	if c.Repository == "" {
		problems = append(problems, "repository is required")
	}
	if c.HTTP.Timeout < 0 {
		problems = append(problems, "http.timeout must not be negative")
	}
	if c.Log.Verbosity < 0 {
		problems = append(problems, "log.verbosity must not be negative")
	}
	for _, doc := range c.Documents {
		if !known(doc) {
			problems = append(problems, "unknown document type "+doc+" (want one of "+strings.Join(Documents, ", ")+")")
		}
	}
	if len(problems) > 0 {
		return errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Allowed returns true if the document type typ may be opened.
func (c *Config) Allowed(typ string) bool {
	if len(c.Documents) == 0 {
		return true
	}
	for _, doc := range c.Documents {
		if doc == typ {
			return true
		}
	}
	return false
}

func known(typ string) bool {
	for _, doc := range Documents {
		if doc == typ {
			return true
		}
	}
	return false
}
