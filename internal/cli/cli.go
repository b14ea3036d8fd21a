// Package cli implements the adminstack command-line interface.
//
// The commands order parent/child hierarchies, keep a persistent
// breadcrumb stack per session, browse tabular data page by page, and
// serve the same operations over HTTP. Settings come from the TOML file
// described in pkg/config.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// installs the observability log hooks so ordering, cache and HTTP activity
// is traced. Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adminstack/pkg/cache"
	"github.com/matzehuels/adminstack/pkg/config"
	"github.com/matzehuels/adminstack/pkg/session"
)

// appName is the application name used for directories and display.
const appName = "adminstack"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// config returns the loaded configuration, loading it on first use.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// newCache returns the response cache: Redis when configured, the file
// cache otherwise, and a null cache when disabled.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if cfg.Cache.RedisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisOptions{Addr: cfg.Cache.RedisAddr})
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// sessionStore is a session.Store that can be released.
type sessionStore interface {
	session.Store
	Close() error
}

// newSessionStore returns the configured session backend.
func (c *CLI) newSessionStore(ctx context.Context) (sessionStore, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if cfg.Session.RedisAddr != "" {
		return session.NewRedisStore(ctx, session.RedisConfig{Addr: cfg.Session.RedisAddr})
	}
	return session.NewFileStore(cfg.Session.Dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/adminstack/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
