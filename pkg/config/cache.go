package config

import (
	"context"
	"path/filepath"

	"github.com/matzehuels/toparity/pkg/cache"
)

// Cache backend names.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend string `toml:"backend"`
	// Dir is the directory of the file and badger backends. Empty means
	// DefaultCacheDir.
	Dir             string   `toml:"dir"`
	TTL             Duration `toml:"ttl"`
	Prefix          string   `toml:"prefix"`
	RedisAddr       string   `toml:"redis_addr"`
	RedisPassword   string   `toml:"redis_password"`
	RedisDB         int      `toml:"redis_db"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDatabase   string   `toml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection"`
}

// CacheDir returns the configured directory or the default one.
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	return DefaultCacheDir()
}

// Open connects to the configured backend.
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		return cache.NewRedisCache(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
	case BackendMongo:
		return cache.NewMongoCache(ctx, c.MongoURI, c.MongoDatabase, c.MongoCollection)
	}

	dir, err := c.CacheDir()
	if err != nil {
		return nil, err
	}
	if c.Backend == BackendBadger {
		return cache.NewBadgerCache(filepath.Join(dir, "badger"))
	}
	return cache.NewFileCache(dir)
}

// Keyer returns the key generator for this configuration, scoped when a
// prefix is set.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Prefix)
}
