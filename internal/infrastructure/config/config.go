// Package config loads application configuration.
// Clean Architecture: Framework/driver layer - outermost circle.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime settings. Values come from defaults, an
// optional YAML config file, and FILECHAT_* environment variables, in
// increasing order of precedence.
type Config struct {
	Ollama OllamaConfig `mapstructure:"ollama"`
	Server ServerConfig `mapstructure:"server"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Watch  WatchConfig  `mapstructure:"watch"`
	Chat   ChatConfig   `mapstructure:"chat"`
}

// OllamaConfig locates the local Ollama server.
type OllamaConfig struct {
	URL string `mapstructure:"url"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// CacheConfig configures the document cache store.
type CacheConfig struct {
	// Backend is "file", "sqlite" or "memory".
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// WatchConfig configures the drop-directory watcher for serve mode.
type WatchConfig struct {
	Dir        string   `mapstructure:"dir"`
	Extensions []string `mapstructure:"extensions"`
}

// ChatConfig holds session defaults.
type ChatConfig struct {
	// Model preselects a model at startup; empty leaves the choice to
	// the user.
	Model string `mapstructure:"model"`
}

// Load reads configuration from the given file path, or from
// $HOME/.filechat.yaml when path is empty and the file exists.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("ollama.url", "http://localhost:11434")
	v.SetDefault("server.addr", ":8090")
	v.SetDefault("cache.backend", "file")
	v.SetDefault("cache.path", defaultCachePath())
	v.SetDefault("watch.dir", "")
	v.SetDefault("watch.extensions", []string{".txt", ".md", ".log"})
	v.SetDefault("chat.model", "")

	v.SetEnvPrefix("FILECHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(".filechat")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		// Missing default config is fine; everything has a default.
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Cache.Backend != "file" && cfg.Cache.Backend != "sqlite" && cfg.Cache.Backend != "memory" {
		return nil, fmt.Errorf("unknown cache backend %q (supported: file, sqlite, memory)", cfg.Cache.Backend)
	}

	return &cfg, nil
}

// defaultCachePath places the cache under the user config directory,
// falling back to the working directory.
func defaultCachePath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "filechat", "document_cache.json")
	}
	return "document_cache.json"
}
