package modekit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"

	"github.com/modekit/modekit/pkg/internal"
)

// ConfigAppName names the per-user config and cache directories.
const ConfigAppName = "modekit"

// DefaultLibraryURL points at the curated index of installable chatmodes and
// instructions.
const DefaultLibraryURL = "https://raw.githubusercontent.com/modekit/mode-library/main/library.json"

// Environment overrides. ReadOnlyEnvKey keeps the name the original server
// honored so existing MCP client configs keep working.
const (
	LibraryURLEnvKey = "MODEKIT_LIBRARY_URL"
	ReadOnlyEnvKey   = "MCP_CHATMODE_READ_ONLY"
)

// Config is the user-level configuration, read from
// <config-dir>/modekit/config.yaml with environment overrides applied on
// top.
type Config struct {
	// PromptsDir overrides VS Code prompts-directory discovery when set.
	PromptsDir string `yaml:"prompts_dir,omitempty"`

	// LibraryURL is the remote index of installable documents.
	LibraryURL string `yaml:"library_url,omitempty"`

	// LibraryTTL bounds how long a library snapshot is served without a
	// refresh.
	LibraryTTL time.Duration `yaml:"library_ttl,omitempty"`

	// ReadOnly refuses all mutating operations when true.
	ReadOnly bool `yaml:"read_only,omitempty"`

	Updated string `yaml:"updated,omitempty"`
}

// DefaultConfig returns a config with every field at its default.
func DefaultConfig() *Config {
	return &Config{
		LibraryURL: DefaultLibraryURL,
	}
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LibraryURL, validation.Required, is.URL),
		validation.Field(&c.LibraryTTL, validation.Min(time.Duration(0))),
	)
}

// ApplyEnv layers environment overrides onto the receiver.
func (c *Config) ApplyEnv() {
	if dir := os.Getenv(internal.PromptsDirEnvKey); dir != "" {
		c.PromptsDir = dir
	}
	if url := os.Getenv(LibraryURLEnvKey); url != "" {
		c.LibraryURL = url
	}
	if v := os.Getenv(ReadOnlyEnvKey); v != "" {
		c.ReadOnly = strings.EqualFold(v, "true") || v == "1"
	}
}

// ResolvePromptsDir returns the storage root: the configured directory when
// set, otherwise the host's VS Code User prompts directory.
func (c *Config) ResolvePromptsDir() (string, error) {
	if c.PromptsDir != "" {
		return c.PromptsDir, nil
	}
	return internal.GetPromptsDir()
}

// LibraryCachePath returns where library snapshots persist between runs.
func LibraryCachePath() (string, error) {
	dir, err := internal.GetCacheDir(ConfigAppName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "library.json"), nil
}

// ReadConfig loads the user config, applying defaults and env overrides. A
// missing file is not an error; the defaults stand.
func ReadConfig() (*Config, error) {
	dir, err := internal.GetConfigDir(ConfigAppName)
	if err != nil {
		return nil, err
	}
	return ReadConfigFrom(filepath.Join(dir, "config.yaml"))
}

// ReadConfigFrom loads config from an explicit path.
func ReadConfigFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
		if cfg.LibraryURL == "" {
			cfg.LibraryURL = DefaultLibraryURL
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// WriteConfig persists the config atomically to path, creating parent
// directories as needed.
func (c *Config) WriteConfig(path string) error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if path == "" {
		return fmt.Errorf("path required")
	}
	if c.Updated == "" {
		c.Updated = time.Now().UTC().Format(time.RFC3339)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// atomic write using temp file in same dir
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write temp config %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %q -> %q: %w", tmp, path, err)
	}
	return nil
}
