package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds file-based defaults for the CLI. Flags override everything
// here. The file is looked up as ./kincut.toml, then
// $XDG_CONFIG_HOME/kincut/config.toml, or ~/.config/kincut/config.toml when
// XDG_CONFIG_HOME is unset; a missing file yields the zero config.
//
// Example:
//
//	[kinship]
//	backend = "memory"
//	missing_parent = ["-1", "."]
//	skip_first_line = true
//
//	[cache]
//	redis = "localhost:6379"
//
//	[serve]
//	addr = ":8080"
type Config struct {
	Kinship KinshipConfig `toml:"kinship"`
	Cache   CacheConfig   `toml:"cache"`
	Serve   ServeConfig   `toml:"serve"`
}

// KinshipConfig carries defaults for the kinship command.
type KinshipConfig struct {
	Backend       string   `toml:"backend"`
	Separator     string   `toml:"separator"`
	MissingParent []string `toml:"missing_parent"`
	SkipFirstLine bool     `toml:"skip_first_line"`
	ReportEvery   int      `toml:"report_every"`
}

// CacheConfig selects and configures the result cache backend.
type CacheConfig struct {
	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`

	// Redis switches to the Redis backend when set (host:port).
	Redis         string `toml:"redis"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ServeConfig carries defaults for the serve command.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// loadConfig reads the config file at path, or searches the standard
// locations when path is empty. A missing file is not an error.
func loadConfig(path string) (Config, error) {
	var cfg Config

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
		return cfg, nil
	}

	for _, candidate := range configCandidates() {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if _, err := toml.DecodeFile(candidate, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", candidate, err)
		}
		return cfg, nil
	}
	return cfg, nil
}

func configCandidates() []string {
	candidates := []string{appName + ".toml"}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		candidates = append(candidates, filepath.Join(configHome, appName, "config.toml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", appName, "config.toml"))
	}
	return candidates
}
