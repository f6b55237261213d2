// Package config loads the settings of the umlgen server and command from
// the environment and from .env files.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/syssam/umlgen/compiler/gen"
	"github.com/syssam/umlgen/dialect"
)

// Store kinds accepted by STORE_DIALECT besides the SQL dialects.
const (
	StoreDynamoDB = "dynamodb"
	StoreMemory   = "memory"
)

// Defaults applied by Default.
const (
	DefaultPort            = 8080
	DefaultStoreDSN        = "file:umlgen.db?_pragma=foreign_keys(1)"
	DefaultCacheTTL        = 10 * time.Minute
	DefaultCacheSize       = 128
	DefaultShutdownTimeout = 5 * time.Second
	DefaultEventSubject    = "umlgen.events"
)

// Config holds the settings of the server.
type Config struct {
	// Port is the HTTP port.
	Port int
	// StoreDialect selects the backup store: one of the SQL dialects,
	// "dynamodb" or "memory".
	StoreDialect string
	// StoreDSN is the data source name of a SQL backup store.
	StoreDSN string
	// CORSOrigins lists the origins allowed to call the API. Empty allows
	// every origin.
	CORSOrigins []string
	// CacheTTL bounds the lifetime of cached projects.
	CacheTTL time.Duration
	// CacheSize bounds the number of projects held by the in-memory cache.
	CacheSize int
	// LogLevel is the minimum level of the server logs.
	LogLevel slog.Level
	// RedisAddr switches the project cache to redis when set.
	RedisAddr string
	// NATSURL enables event publishing when set.
	NATSURL string
	// EventSubject is the subject prefix of published events.
	EventSubject string
	// AWS holds the settings of the dynamodb store.
	AWS AWS
	// Datasource overrides the connection defaults written to generated
	// projects. Empty values keep the dialect defaults.
	Datasource gen.Datasource
	// ShutdownTimeout bounds the graceful shutdown of the server.
	ShutdownTimeout time.Duration
}

// AWS holds the dynamodb store settings. Static credentials are used when
// both keys are set, the default credential chain otherwise.
type AWS struct {
	Region    string
	Table     string
	AccessKey string
	SecretKey string
	Endpoint  string
}

// Option configures the server.
type Option func(*Config) error

// Source looks up a setting by its environment variable name.
type Source func(key string) (string, bool)

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:            DefaultPort,
		StoreDialect:    dialect.SQLite,
		StoreDSN:        DefaultStoreDSN,
		CacheTTL:        DefaultCacheTTL,
		CacheSize:       DefaultCacheSize,
		LogLevel:        slog.LevelInfo,
		EventSubject:    DefaultEventSubject,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Load reads the given .env files, then the process environment, and
// applies opts last. Variables of the environment take precedence over the
// files, and later files over earlier ones. Missing files are skipped.
func Load(files []string, opts ...Option) (*Config, error) {
	src, err := Env(files...)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := c.Apply(append([]Option{FromSource(src)}, opts...)...); err != nil {
		return nil, err
	}
	return c, nil
}

// Env returns a Source reading the process environment with the values of
// the given .env files as fallback.
func Env(files ...string) (Source, error) {
	vals := make(map[string]string)
	for _, f := range files {
		m, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", f, err)
		}
		maps.Copy(vals, m)
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vals[key]
		return v, ok
	}, nil
}

// MapSource returns a Source reading the given map.
func MapSource(m map[string]string) Source {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// FromSource reads every known variable from src. Empty values are
// ignored.
func FromSource(src Source) Option {
	return func(c *Config) error {
		get := func(key string) string {
			v, _ := src(key)
			return strings.TrimSpace(v)
		}
		var opts []Option
		if v := get("PORT"); v != "" {
			port, err := strconv.Atoi(v)
			if err != nil {
				return gen.NewConfigError("PORT", v, "port must be a number")
			}
			opts = append(opts, WithPort(port))
		}
		if v := get("STORE_DIALECT"); v != "" {
			opts = append(opts, WithStore(v, get("STORE_DSN")))
		} else if v := get("STORE_DSN"); v != "" {
			opts = append(opts, WithStore(c.StoreDialect, v))
		}
		if v := get("CORS_ORIGINS"); v != "" {
			opts = append(opts, WithCORSOrigins(strings.Split(v, ",")...))
		}
		if v := get("CACHE_TTL"); v != "" {
			ttl, err := time.ParseDuration(v)
			if err != nil {
				return gen.NewConfigError("CACHE_TTL", v, "cache ttl must be a duration")
			}
			opts = append(opts, WithCacheTTL(ttl))
		}
		if v := get("CACHE_SIZE"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return gen.NewConfigError("CACHE_SIZE", v, "cache size must be a number")
			}
			opts = append(opts, WithCacheSize(n))
		}
		if v := get("LOG_LEVEL"); v != "" {
			opts = append(opts, WithLogLevel(v))
		}
		if v := get("REDIS_ADDR"); v != "" {
			opts = append(opts, WithRedis(v))
		}
		if v := get("NATS_URL"); v != "" {
			opts = append(opts, WithNATS(v, get("NATS_SUBJECT")))
		}
		if v := get("SHUTDOWN_TIMEOUT"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return gen.NewConfigError("SHUTDOWN_TIMEOUT", v, "shutdown timeout must be a duration")
			}
			c.ShutdownTimeout = d
		}
		c.AWS = AWS{
			Region:    get("AWS_REGION"),
			Table:     get("DYNAMODB_TABLE"),
			AccessKey: get("AWS_ACCESS_KEY_ID"),
			SecretKey: get("AWS_SECRET_ACCESS_KEY"),
			Endpoint:  get("DYNAMODB_ENDPOINT"),
		}
		ds := gen.Datasource{Host: get("DB_HOST"), Name: get("DB_NAME"), User: get("DB_USER")}
		if v := get("DB_PORT"); v != "" {
			port, err := strconv.Atoi(v)
			if err != nil {
				return gen.NewConfigError("DB_PORT", v, "database port must be a number")
			}
			ds.Port = port
		}
		c.Datasource = ds
		return c.Apply(opts...)
	}
}

// WithPort sets the HTTP port.
func WithPort(port int) Option {
	return func(c *Config) error {
		if port <= 0 || port > 65535 {
			return gen.NewConfigError("Port", port, "port must be between 1 and 65535")
		}
		c.Port = port
		return nil
	}
}

// WithStore selects the backup store. An empty dsn keeps the default of
// the sqlite store.
func WithStore(kind, dsn string) Option {
	return func(c *Config) error {
		kind = strings.ToLower(kind)
		switch {
		case kind == StoreDynamoDB || kind == StoreMemory:
		case dialect.Valid(kind):
			if dsn == "" && kind != dialect.SQLite {
				return gen.NewConfigError("StoreDSN", nil, "a dsn is required for the "+kind+" store")
			}
		default:
			return gen.NewConfigError("StoreDialect", kind, "unknown store; use postgres, mysql, sqlite, dynamodb or memory")
		}
		c.StoreDialect = kind
		if dsn != "" {
			c.StoreDSN = dsn
		}
		return nil
	}
}

// WithCORSOrigins sets the allowed origins.
func WithCORSOrigins(origins ...string) Option {
	return func(c *Config) error {
		c.CORSOrigins = c.CORSOrigins[:0]
		for _, o := range origins {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
		return nil
	}
}

// WithCacheTTL sets the lifetime of cached projects. Zero disables
// expiration.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Config) error {
		if ttl < 0 {
			return gen.NewConfigError("CacheTTL", ttl, "cache ttl cannot be negative")
		}
		c.CacheTTL = ttl
		return nil
	}
}

// WithCacheSize sets the capacity of the in-memory cache.
func WithCacheSize(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return gen.NewConfigError("CacheSize", n, "cache size cannot be negative")
		}
		c.CacheSize = n
		return nil
	}
}

// WithLogLevel sets the log level by name: debug, info, warn or error.
func WithLogLevel(name string) Option {
	return func(c *Config) error {
		var l slog.Level
		if err := l.UnmarshalText([]byte(name)); err != nil {
			return gen.NewConfigError("LogLevel", name, "unknown log level")
		}
		c.LogLevel = l
		return nil
	}
}

// WithRedis caches projects in the redis server at addr.
func WithRedis(addr string) Option {
	return func(c *Config) error {
		c.RedisAddr = addr
		return nil
	}
}

// WithNATS publishes events to the NATS server at url. An empty subject
// keeps the default.
func WithNATS(url, subject string) Option {
	return func(c *Config) error {
		c.NATSURL = url
		if subject != "" {
			c.EventSubject = subject
		}
		return nil
	}
}

// WithDynamoDB selects the dynamodb backup store.
func WithDynamoDB(region, table string) Option {
	return func(c *Config) error {
		if region == "" || table == "" {
			return gen.NewConfigError("DynamoDB", nil, "region and table are required")
		}
		c.StoreDialect = StoreDynamoDB
		c.AWS.Region, c.AWS.Table = region, table
		return nil
	}
}

// Validate checks the settings that depend on each other.
func (c *Config) Validate() error {
	if c.StoreDialect == StoreDynamoDB && (c.AWS.Region == "" || c.AWS.Table == "") {
		return gen.NewConfigError("DynamoDB", nil, "AWS_REGION and DYNAMODB_TABLE are required for the dynamodb store")
	}
	return nil
}

// Addr returns the listen address of the server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Logger returns a JSON logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

// DatasourceDefaults overrides the datasource of the generated project with
// the non-empty values of the configured one. Host, port and user are left
// alone for sqlite projects.
func (c *Config) DatasourceDefaults() gen.Option {
	return func(gc *gen.Config) error {
		ds := gc.Datasource
		if c.Datasource.Name != "" {
			ds.Name = c.Datasource.Name
		}
		if gc.Dialect != dialect.SQLite {
			if c.Datasource.Host != "" {
				ds.Host = c.Datasource.Host
			}
			if c.Datasource.Port != 0 {
				ds.Port = c.Datasource.Port
			}
			if c.Datasource.User != "" {
				ds.User = c.Datasource.User
			}
		}
		gc.Datasource = ds
		return nil
	}
}
