package cli

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/screenflow/pkg/errors"
	"github.com/matzehuels/screenflow/pkg/layout"
)

// Environment variables that override the config file.
const (
	envAddr      = "SCREENFLOW_ADDR"
	envRedisAddr = "SCREENFLOW_REDIS_ADDR"
	envMongoURI  = "SCREENFLOW_MONGO_URI"
)

const defaultAddr = ":8080"

// Config is the decoded config.toml. Every field is optional; flags
// override it.
//
//	tier = "pro"
//	direction = "TB"
//
//	[layout]
//	card_width = 200
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
type Config struct {
	Tier      string        `toml:"tier" validate:"omitempty,oneof=free pro"`
	Direction string        `toml:"direction" validate:"omitempty,oneof=LR TB lr tb"`
	Engine    string        `toml:"engine" validate:"omitempty,oneof=layered graphviz"`
	Layout    layout.Config `toml:"layout" validate:"-"`
	Cache     CacheConfig   `toml:"cache"`
	Store     StoreConfig   `toml:"store"`
	Server    ServerConfig  `toml:"server"`
}

// CacheConfig selects the layout and artifact cache.
type CacheConfig struct {
	Backend   string `toml:"backend" validate:"omitempty,oneof=file redis none"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr" validate:"required_if=Backend redis"`
	// Prefix namespaces keys when several deployments share a backend.
	Prefix string `toml:"prefix" validate:"max=64"`
}

// StoreConfig selects where live diagrams are kept.
type StoreConfig struct {
	Backend  string `toml:"backend" validate:"omitempty,oneof=memory file mongo"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	Database string `toml:"database"`
}

// ServerConfig configures `screenflow serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// configPath returns $XDG_CONFIG_HOME/screenflow/config.toml, falling back
// to ~/.config.
func configPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads path, or the default location when path is empty. A
// missing default file yields the zero config; a missing explicit file is
// an error.
func loadConfig(path string) (Config, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return finishConfig(cfg)
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return finishConfig(Config{})
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "load config %s", path)
	}
	return finishConfig(cfg)
}

func finishConfig(cfg Config) (Config, error) {
	cfg.applyEnv()
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if err := errors.ValidateStruct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides file values with SCREENFLOW_* variables.
func (c *Config) applyEnv() {
	if v := os.Getenv(envAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(envRedisAddr); v != "" {
		c.Cache.RedisAddr = v
		if c.Cache.Backend == "" {
			c.Cache.Backend = "redis"
		}
	}
	if v := os.Getenv(envMongoURI); v != "" {
		c.Store.MongoURI = v
		if c.Store.Backend == "" {
			c.Store.Backend = "mongo"
		}
	}
}
