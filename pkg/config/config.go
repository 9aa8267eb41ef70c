// Package config loads toparity settings from a TOML file.
//
// The file is optional: a missing file yields [Default]. Command-line flags
// are applied on top of the loaded values by the CLI.
//
//	[convert]
//	pretty = true
//	cleanup = false
//	simplify = false
//	max_sets = 8
//	max_states = 1000000
//	formats = ["hoa"]
//
//	[cache]
//	backend = "file"   # file, badger, redis, mongo or none
//	ttl = "720h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "toparity"

// Config is the root of the configuration file.
type Config struct {
	Convert ConvertConfig `toml:"convert"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
}

// ConvertConfig holds conversion defaults.
type ConvertConfig struct {
	Pretty    bool     `toml:"pretty"`
	Cleanup   bool     `toml:"cleanup"`
	Simplify  bool     `toml:"simplify"`
	Detailed  bool     `toml:"detailed"`
	MaxSets   int      `toml:"max_sets"`
	MaxStates int      `toml:"max_states"`
	Formats   []string `toml:"formats"`
	Parallel  int      `toml:"parallel"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
	// ConvertTimeout bounds a single conversion request.
	ConvertTimeout Duration `toml:"convert_timeout"`
}

// Duration is a time.Duration that decodes from TOML strings like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Convert: ConvertConfig{
			Pretty:    false,
			MaxSets:   8,
			MaxStates: 1_000_000,
			Formats:   []string{"hoa"},
			Parallel:  4,
		},
		Cache: CacheConfig{
			Backend:         BackendFile,
			TTL:             Duration{30 * 24 * time.Hour},
			RedisAddr:       "localhost:6379",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   appName,
			MongoCollection: "results",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    Duration{30 * time.Second},
			WriteTimeout:   Duration{2 * time.Minute},
			MaxBodyBytes:   4 << 20,
			ConvertTimeout: Duration{time.Minute},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/toparity/config.toml, falling back to
// ~/.config/toparity/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/toparity, falling back to
// ~/.cache/toparity.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads the file at path over the defaults. An empty path means
// [DefaultPath]; a missing file is not an error. Unknown keys are rejected
// so that typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Convert.MaxSets < 0 {
		return fmt.Errorf("convert.max_sets must not be negative")
	}
	if c.Convert.MaxStates < 0 {
		return fmt.Errorf("convert.max_states must not be negative")
	}
	if c.Convert.Parallel < 0 {
		return fmt.Errorf("convert.parallel must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes must not be negative")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendBadger, BackendRedis, BackendMongo, BackendNone:
	default:
		return fmt.Errorf("cache.backend %q is not one of file, badger, redis, mongo, none", c.Cache.Backend)
	}
	return nil
}
