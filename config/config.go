package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultPort   = 4000
	DefaultPath   = "/graphql"
	DefaultOrigin = "http://localhost:3000"
	// NoOrigin as CORS_ORIGIN disables cross-origin headers. An empty value
	// can not, it falls back to DefaultOrigin.
	NoOrigin = "none"
)

type Config struct {
	// Port the listener binds. PORT, 4000 when absent or empty.
	Port int
	// AllowedOrigin is the only origin granted cross-origin access.
	// Empty disables cross-origin headers entirely (CORS_ORIGIN=none).
	AllowedOrigin string
	Path          string

	Playground      bool
	Introspection   bool
	ComplexityLimit int
	QueryCacheSize  int
	LoaderWait      time.Duration
	ShutdownTimeout time.Duration

	LogLevel zerolog.Level
	// DatabaseDSN selects the postgres source instead of the built-in catalog.
	DatabaseDSN string
	Migrate     bool
	LogSQL      bool
}

func defaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("cors_origin", DefaultOrigin)
	v.SetDefault("graphql_path", DefaultPath)
	v.SetDefault("playground", true)
	v.SetDefault("introspection", true)
	v.SetDefault("complexity_limit", 100)
	v.SetDefault("query_cache_size", 1000)
	v.SetDefault("loader_wait", "2ms")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("log_level", "info")
	v.SetDefault("db_postgres", "")
	v.SetDefault("db_migrate", false)
	v.SetDefault("logger", false)
}

// Load reads the configuration from the environment. Variables from a .env
// file in the working directory are applied first when the file exists;
// they never override variables already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(ErrInvalidConfig, ".env: %v", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	defaults(v)

	port, err := cast.ToIntE(v.Get("port"))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "PORT %q is not a number", v.GetString("port"))
	}
	complexityLimit, err := cast.ToIntE(v.Get("complexity_limit"))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "COMPLEXITY_LIMIT %q is not a number", v.GetString("complexity_limit"))
	}
	queryCacheSize, err := cast.ToIntE(v.Get("query_cache_size"))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "QUERY_CACHE_SIZE %q is not a number", v.GetString("query_cache_size"))
	}
	loaderWait, err := cast.ToDurationE(v.Get("loader_wait"))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "LOADER_WAIT %q is not a duration", v.GetString("loader_wait"))
	}
	shutdownTimeout, err := cast.ToDurationE(v.Get("shutdown_timeout"))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "SHUTDOWN_TIMEOUT %q is not a duration", v.GetString("shutdown_timeout"))
	}
	level, err := zerolog.ParseLevel(strings.ToLower(v.GetString("log_level")))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "LOG_LEVEL %q", v.GetString("log_level"))
	}

	origin := strings.TrimSpace(v.GetString("cors_origin"))
	if strings.EqualFold(origin, NoOrigin) {
		origin = ""
	}

	cfg := &Config{
		Port:            port,
		AllowedOrigin:   origin,
		Path:            v.GetString("graphql_path"),
		Playground:      v.GetBool("playground"),
		Introspection:   v.GetBool("introspection"),
		ComplexityLimit: complexityLimit,
		QueryCacheSize:  queryCacheSize,
		LoaderWait:      loaderWait,
		ShutdownTimeout: shutdownTimeout,
		LogLevel:        level,
		DatabaseDSN:     v.GetString("db_postgres"),
		Migrate:         v.GetBool("db_migrate"),
		LogSQL:          v.GetBool("logger"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.Wrapf(ErrInvalidConfig, "port %d out of range", c.Port)
	}
	if !strings.HasPrefix(c.Path, "/") {
		return errors.Wrapf(ErrInvalidConfig, "path %q must start with /", c.Path)
	}
	if c.Path == "/" && c.Playground {
		return errors.Wrap(ErrInvalidConfig, "path / is taken by the playground")
	}
	if c.ComplexityLimit < 1 {
		return errors.Wrapf(ErrInvalidConfig, "complexity limit %d must be positive", c.ComplexityLimit)
	}
	if c.QueryCacheSize < 1 {
		return errors.Wrapf(ErrInvalidConfig, "query cache size %d must be positive", c.QueryCacheSize)
	}
	if c.LoaderWait < 0 {
		return errors.Wrapf(ErrInvalidConfig, "loader wait %s is negative", c.LoaderWait)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "shutdown timeout %s must be positive", c.ShutdownTimeout)
	}
	return nil
}
