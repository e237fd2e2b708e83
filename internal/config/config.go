// Package config loads client configuration from an optional YAML file
// with CORNER_-prefixed environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Endpoint string        `koanf:"endpoint"`
	Log      LogConfig     `koanf:"log"`
	Storage  StorageConfig `koanf:"storage"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type StorageConfig struct {
	Driver string      `koanf:"driver"` // memory, sqlite, badger, redis
	Path   string      `koanf:"path"`
	Quota  int         `koanf:"quota"` // max bytes per stored value, 0 = unlimited
	Redis  RedisConfig `koanf:"redis"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// Load reads configPath (ignored when empty or missing) and then applies
// environment overrides, e.g. CORNER_STORAGE_DRIVER=badger.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider("CORNER_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "CORNER_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Defaults
	if !k.Exists("endpoint") {
		k.Set("endpoint", "https://api.englishcorner.cyou:8443/chat")
	}
	if !k.Exists("log.level") {
		k.Set("log.level", "info")
	}
	if !k.Exists("storage.driver") {
		k.Set("storage.driver", "sqlite")
	}
	if !k.Exists("storage.path") {
		k.Set("storage.path", "./data/chatclient.db")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
