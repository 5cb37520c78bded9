package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user preferences read from the configuration file.
// Every field is optional; command-line flags always win over the file.
type Config struct {
	// Format is the default input dialect. Empty means guess.
	Format string `toml:"format"`

	// Outputs lists the default output kinds for convert.
	Outputs []string `toml:"outputs"`

	// CacheDir overrides the XDG cache directory.
	CacheDir string `toml:"cache_dir"`

	// Detailed turns on detailed diagram labels by default.
	Detailed bool `toml:"detailed"`

	// Serve configures the HTTP server.
	Serve ServeConfig `toml:"serve"`
}

// ServeConfig holds defaults for the serve command.
type ServeConfig struct {
	// Addr is the listen address (e.g., ":8080").
	Addr string `toml:"addr"`

	// RedisAddr enables the Redis artifact cache when set (e.g., "localhost:6379").
	RedisAddr string `toml:"redis_addr"`
}

// configPath returns the configuration file path using XDG standard
// (~/.config/croquis/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads the user's configuration file. A missing file is not an
// error and yields an empty config; a malformed file is reported.
func LoadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return &Config{}, nil
	}

	cfg, err := loadConfigFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	return cfg, err
}

// loadConfigFile reads a configuration file from an explicit path. Unlike
// LoadConfig, a missing file is an error here: the user named it.
func loadConfigFile(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
