// Package config loads seatmap settings.
//
// Settings are layered: built-in defaults, then the TOML file at
// [DefaultPath] (or an explicit path), then SEATMAP_* environment variables.
// A .env file in the working directory is read into the environment first,
// without overriding variables that are already set.
//
//	owner = "club-42"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//	redis_url = "redis://localhost:6379/0"
//	cache_ttl = "10m"
//
//	[server]
//	addr = ":8080"
//	metrics_addr = ":9090"
//
// The same settings from the environment:
//
//	SEATMAP_OWNER=club-42
//	SEATMAP_STORE_BACKEND=mongo
//	SEATMAP_SERVER_JWT_SECRET=...
package config

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/render"
	"github.com/matzehuels/seatmap/pkg/store"
)

const (
	appName = "seatmap"

	// EnvPrefix prefixes every environment variable read by [Load].
	EnvPrefix = "SEATMAP_"
)

// Config is the full set of settings shared by the CLI and the server.
type Config struct {
	// Owner is the club id used by CLI commands that act for an owner.
	Owner   string       `toml:"owner" env:"OWNER"`
	IconURL string       `toml:"icon_url" env:"ICON_URL"`
	Store   StoreConfig  `toml:"store" envPrefix:"STORE_"`
	Server  ServerConfig `toml:"server" envPrefix:"SERVER_"`
}

// StoreConfig selects the layout store.
type StoreConfig struct {
	Backend       string        `toml:"backend" env:"BACKEND"`
	Dir           string        `toml:"dir" env:"DIR"`
	MongoURI      string        `toml:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase string        `toml:"mongo_database" env:"MONGO_DATABASE"`
	RedisURL      string        `toml:"redis_url" env:"REDIS_URL"`
	CacheDir      string        `toml:"cache_dir" env:"CACHE_DIR"`
	CacheTTL      time.Duration `toml:"cache_ttl" env:"CACHE_TTL"`
	CachePrefix   string        `toml:"cache_prefix" env:"CACHE_PREFIX"`
}

// ServerConfig configures `seatmap serve`.
type ServerConfig struct {
	Addr            string        `toml:"addr" env:"ADDR"`
	MetricsAddr     string        `toml:"metrics_addr" env:"METRICS_ADDR"`
	JWTSecret       string        `toml:"jwt_secret" env:"JWT_SECRET"`
	RequestTimeout  time.Duration `toml:"request_timeout" env:"REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		IconURL: render.DefaultIconURL,
		Store: StoreConfig{
			Backend:       store.BackendFile,
			MongoDatabase: store.DefaultDatabase,
			CacheTTL:      store.DefaultCacheTTL,
			CachePrefix:   appName,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			MetricsAddr:     ":9090",
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// DefaultPath returns the config file location following the XDG
// convention (~/.config/seatmap/config.toml).
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

// Load reads the settings. An empty path selects [DefaultPath], which may
// be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "locate config file")
		}
		path = p
	}
	if err := cfg.decodeFile(path); err != nil {
		if explicit || !stderrors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML from r on top of the defaults, without consulting the
// environment.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	return checkUndecoded(md)
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(names, ", "))
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Owner != "" {
		if err := errors.ValidateOwnerID(c.Owner); err != nil {
			return err
		}
	}
	if !slices.Contains(store.Backends, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (want one of %s)",
			c.Store.Backend, strings.Join(store.Backends, ", "))
	}
	if c.Store.Backend == store.BackendMongo && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "store backend %q needs mongo_uri", store.BackendMongo)
	}
	if c.Store.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache_ttl must not be negative")
	}
	return nil
}

// StoreConfig converts the store section for [store.Open].
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Backend:       c.Store.Backend,
		Dir:           c.Store.Dir,
		MongoURI:      c.Store.MongoURI,
		MongoDatabase: c.Store.MongoDatabase,
		RedisURL:      c.Store.RedisURL,
		CacheDir:      c.Store.CacheDir,
		CacheTTL:      c.Store.CacheTTL,
		CachePrefix:   c.Store.CachePrefix,
	}
}

// Encode writes the settings as TOML with secrets masked.
func (c *Config) Encode(w io.Writer) error {
	out := *c
	if out.Server.JWTSecret != "" {
		out.Server.JWTSecret = "********"
	}
	return toml.NewEncoder(w).Encode(out)
}
