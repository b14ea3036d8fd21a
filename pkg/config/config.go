// Package config loads adminstack settings from a TOML file.
//
// The default location is $XDG_CONFIG_HOME/adminstack/config.toml, falling
// back to ~/.config/adminstack/config.toml. A missing file is not an error;
// every field has a default.
//
//	[graphql]
//	endpoint = "https://admin.example.com/graphql"
//	cache_ttl = "5m"
//
//	[graphql.headers]
//	Authorization = "Bearer ..."
//
//	[table]
//	page_size = 25
//
//	[session]
//	redis_addr = "localhost:6379"
//	ttl = "168h"
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	pkgerrors "github.com/matzehuels/adminstack/pkg/errors"
)

// EnvGraphQLEndpoint overrides [graphql] endpoint when set.
const EnvGraphQLEndpoint = "ADMINSTACK_GRAPHQL_ENDPOINT"

const (
	DefaultPageSize      = 25
	DefaultServerAddr    = "127.0.0.1:8080"
	DefaultTopLevelTitle = "Home"
	DefaultSessionTTL    = 7 * 24 * time.Hour
)

type Config struct {
	GraphQL GraphQL `toml:"graphql"`
	Table   Table   `toml:"table"`
	Cache   Cache   `toml:"cache"`
	Session Session `toml:"session"`
	Server  Server  `toml:"server"`
	UI      UI      `toml:"ui"`
}

type GraphQL struct {
	Endpoint string            `toml:"endpoint"`
	Headers  map[string]string `toml:"headers"`
	// CacheTTL enables response caching when positive.
	CacheTTL time.Duration `toml:"cache_ttl"`
}

type Table struct {
	PageSize int `toml:"page_size"`
}

type Cache struct {
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

type Session struct {
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
}

type Server struct {
	Addr string `toml:"addr"`
}

type UI struct {
	TopLevelTitle string `toml:"top_level_title"`
	TopLevelURL   string `toml:"top_level_url"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "adminstack", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "adminstack", "config.toml"), nil
}

// Load reads the config at path, or at DefaultPath when path is empty.
// A missing file at the default location yields the defaults; a missing
// explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		c := Default()
		c.applyEnv()
		return c, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidConfig, err, "open %s", path)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	c.applyEnv()
	return c, nil
}

// Decode parses TOML from r, applies defaults and validates the result.
// Environment overrides are not applied.
func Decode(r io.Reader) (*Config, error) {
	var c Config
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks field ranges and URLs.
func (c *Config) Validate() error {
	if c.GraphQL.Endpoint != "" {
		if err := pkgerrors.ValidateURL(c.GraphQL.Endpoint); err != nil {
			return fmt.Errorf("graphql.endpoint: %w", err)
		}
	}
	if c.GraphQL.CacheTTL < 0 {
		return fmt.Errorf("graphql.cache_ttl: must not be negative")
	}
	if c.Table.PageSize < 1 || c.Table.PageSize > 1000 {
		return fmt.Errorf("table.page_size: %d out of range 1..1000", c.Table.PageSize)
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("session.ttl: must not be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Table.PageSize == 0 {
		c.Table.PageSize = DefaultPageSize
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = DefaultSessionTTL
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.UI.TopLevelTitle == "" {
		c.UI.TopLevelTitle = DefaultTopLevelTitle
	}
	if c.UI.TopLevelURL == "" {
		c.UI.TopLevelURL = "/"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvGraphQLEndpoint); v != "" {
		c.GraphQL.Endpoint = v
	}
}
