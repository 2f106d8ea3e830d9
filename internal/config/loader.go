package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	// ConfigDir is the directory name under ~/.config
	ConfigDir = "codr"
	// ConfigFile is the config file name
	ConfigFile = "config.json"
)

// Environment variables consulted after the dotfile.
const (
	EnvBaseURL = "CODR_BASE_URL"
	EnvAPIKey  = "CODR_API_KEY"
	EnvModel   = "CODR_MODEL"
	EnvBackend = "CODR_BACKEND"
)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LookupEnv matches os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs  FileSystem
	env LookupEnv
}

// NewLoader creates a production Loader using the real filesystem and environment
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}, env: os.LookupEnv}
}

// NewLoaderWithFS creates a Loader with a custom filesystem and environment (for testing).
// A nil env disables environment overrides.
func NewLoaderWithFS(fs FileSystem, env LookupEnv) *Loader {
	if env == nil {
		env = func(string) (string, bool) { return "", false }
	}
	return &Loader{fs: fs, env: env}
}

// Load reads configuration from ~/.config/codr/config.json, merges it with
// defaults and applies CODR_* environment overrides.
// Returns default config if the dotfile doesn't exist.
// Returns error only for parse errors, permission issues, or validation failures.
//
// NOTE: JSON keys are unmarshalled directly over the default configuration,
// so explicit zero values (0, false, "") in the config file override defaults.
// Required endpoint settings are not checked here; see ValidateRequired.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := l.readDotfile(cfg); err != nil {
		return nil, err
	}

	l.applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *Loader) readDotfile(cfg *Config) error {
	homeDir, err := l.fs.UserHomeDir()
	if err != nil {
		return nil // Use defaults if can't get home dir
	}

	configPath := filepath.Join(homeDir, ".config", ConfigDir, ConfigFile)
	data, err := l.fs.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err // Permission issues and the like
	}

	return json.Unmarshal(data, cfg)
}

func (l *Loader) applyEnvOverrides(cfg *Config) {
	if v, ok := l.env(EnvBaseURL); ok && v != "" {
		cfg.Provider.BaseURL = v
	}
	if v, ok := l.env(EnvAPIKey); ok && v != "" {
		cfg.Provider.APIKey = v
	}
	if v, ok := l.env(EnvModel); ok && v != "" {
		cfg.Provider.Model = v
	}
	if v, ok := l.env(EnvBackend); ok && v != "" {
		cfg.Provider.Backend = v
	}
}

// Load is a convenience function using the default loader
func Load() (*Config, error) {
	return NewLoader().Load()
}
