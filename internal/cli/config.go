package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphdiff/pkg/aco"
	"github.com/matzehuels/graphdiff/pkg/aco/pathfinder"
	"github.com/matzehuels/graphdiff/pkg/anneal"
	gderrors "github.com/matzehuels/graphdiff/pkg/errors"
)

// Config mirrors the TOML config file. Zero values mean "use the default".
//
//	[diff]
//	algorithm = "aco"
//	seed = 42
//	formats = ["text", "svg"]
//
//	[aco]
//	agents = 30
//
//	[pathfinder.pheromone]
//	evaporation = 0.2
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//	prefix = "team-a:"
//	ttl = "24h"
type Config struct {
	Diff       DiffConfig          `toml:"diff"`
	ACO        aco.Params          `toml:"aco"`
	Pathfinder pathfinder.Strategy `toml:"pathfinder"`
	Anneal     anneal.Params       `toml:"anneal"`
	Exact      ExactConfig         `toml:"exact"`
	Cache      CacheConfig         `toml:"cache"`
	Metrics    MetricsConfig       `toml:"metrics"`
}

// DiffConfig holds run-level defaults.
type DiffConfig struct {
	Algorithm string   `toml:"algorithm"`
	Seed      uint64   `toml:"seed"`
	Parallel  bool     `toml:"parallel"`
	Formats   []string `toml:"formats"`
}

// ExactConfig bounds the exact matcher.
type ExactConfig struct {
	MaxVertices int `toml:"max_vertices"`
}

// CacheConfig selects and tunes the cache backend. Prefix namespaces keys
// when several users share one Redis.
type CacheConfig struct {
	Disabled bool          `toml:"disabled"`
	RedisURL string        `toml:"redis_url"`
	Prefix   string        `toml:"prefix"`
	TTL      time.Duration `toml:"ttl"`
}

// MetricsConfig enables the Prometheus textfile.
type MetricsConfig struct {
	File string `toml:"file"`
}

// loadConfig reads the config file at path. With an empty path the default
// location is tried and a missing file yields an empty Config. An explicit
// path must exist.
func loadConfig(path string) (Config, string, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, "", nil
		}
		path = filepath.Join(dir, configFile)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, "", nil
	}
	if err != nil {
		return cfg, path, gderrors.Wrap(gderrors.ErrCodeFileNotFound, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, path, gderrors.Wrap(gderrors.ErrCodeInvalidConfigValue, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, path, gderrors.New(gderrors.ErrCodeInvalidConfigValue, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, path, nil
}
