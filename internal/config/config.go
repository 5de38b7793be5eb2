// Package config loads process configuration from an optional YAML file and
// environment overrides.
//
// Precedence: environment > file > defaults. Recognised variables:
//
//	PORT                          listening port (default 3001)
//	LOG_LEVEL                     debug|info|warn|error
//	MENAGERIE_ADDRESS             bind address
//	MENAGERIE_LOG_FORMAT          text|json
//	MENAGERIE_STORAGE_DRIVER      file|memory|sqlite|postgres|blob
//	MENAGERIE_DATA_PATH           file driver document (default data/animals.json)
//	MENAGERIE_SEED_PATH           document imported when the backend is empty
//	MENAGERIE_SQLITE_PATH         sqlite database (default menagerie.db)
//	MENAGERIE_POSTGRES_DSN        postgres connection string
//	MENAGERIE_BLOB_DRIVER         fs|s3|memory
//	MENAGERIE_BLOB_KEY            object key (default animals.json)
//	MENAGERIE_BLOB_FS_ROOT        fs driver root
//	MENAGERIE_BLOB_S3_BUCKET      s3 bucket
//	MENAGERIE_BLOB_S3_REGION      s3 region
//	MENAGERIE_BLOB_S3_ENDPOINT    custom endpoint (MinIO)
//	MENAGERIE_BLOB_S3_PATH_STYLE  true|false
//	MENAGERIE_RATE_LIMIT          requests per second, 0 disables
//	MENAGERIE_RATE_LIMIT_BURST    limiter burst
//	MENAGERIE_METRICS_ENABLED     expose /metrics
//	MENAGERIE_TRACE_ENABLED       write JSON spans to stderr
//	SHUTDOWN_TIMEOUT_SECONDS      graceful shutdown window
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"menagerie/internal/blob"
	"menagerie/internal/core"
	"menagerie/internal/server"
	"menagerie/pkg/domain"
)

// EnvPrefix prefixes every service-specific variable.
const EnvPrefix = "MENAGERIE_"

// Config is the full process configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Trace   TraceConfig   `yaml:"trace"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	Port            int           `yaml:"port"`
	RateLimit       float64       `yaml:"rateLimit"`
	RateLimitBurst  int           `yaml:"rateLimitBurst"`
	MaxBodyBytes    int64         `yaml:"maxBodyBytes"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver      string     `yaml:"driver"`
	Path        string     `yaml:"path"`
	SeedPath    string     `yaml:"seedPath"`
	SQLitePath  string     `yaml:"sqlitePath"`
	PostgresDSN string     `yaml:"postgresDSN"`
	Blob        BlobConfig `yaml:"blob"`
}

// BlobConfig configures the blob driver.
type BlobConfig struct {
	Driver string   `yaml:"driver"`
	Key    string   `yaml:"key"`
	FSRoot string   `yaml:"fsRoot"`
	S3     S3Config `yaml:"s3"`
}

// S3Config configures the S3 blob driver. Credentials come from the default
// AWS chain unless AccessKeyID is set.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"pathStyle"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
}

// LogConfig configures slog output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig toggles Prometheus and expvar exporters.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ExpvarName string `yaml:"expvarName"`
}

// TraceConfig toggles JSON span output.
type TraceConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	srv := server.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Address:         srv.Address,
			Port:            srv.Port,
			RateLimit:       float64(srv.RateLimit),
			RateLimitBurst:  srv.RateLimitBurst,
			MaxBodyBytes:    1 << 20,
			ReadTimeout:     srv.ReadTimeout,
			WriteTimeout:    srv.WriteTimeout,
			IdleTimeout:     srv.IdleTimeout,
			ShutdownTimeout: srv.ShutdownTimeout,
		},
		Storage: StorageConfig{
			Driver:     string(domain.StorageFile),
			Path:       "data/animals.json",
			SQLitePath: "menagerie.db",
			Blob: BlobConfig{
				Driver: string(blob.DriverFilesystem),
				Key:    "animals.json",
				FSRoot: "blobdata",
			},
		},
		Log:     LogConfig{Level: "info", Format: server.LogFormatText},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// FileError reports a configuration file that could not be parsed.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *FileError) Unwrap() error { return e.Err }

// Load returns defaults overlaid with the YAML file at path (skipped when
// path is empty) and then the environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, &FileError{Path: path, Err: err}
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays environment values obtained through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := lookup(name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = b
		}
	}

	integer("PORT", &c.Server.Port)
	str("LOG_LEVEL", &c.Log.Level)
	str(EnvPrefix+"ADDRESS", &c.Server.Address)
	str(EnvPrefix+"LOG_FORMAT", &c.Log.Format)
	str(EnvPrefix+"STORAGE_DRIVER", &c.Storage.Driver)
	str(EnvPrefix+"DATA_PATH", &c.Storage.Path)
	str(EnvPrefix+"SEED_PATH", &c.Storage.SeedPath)
	str(EnvPrefix+"SQLITE_PATH", &c.Storage.SQLitePath)
	str(EnvPrefix+"POSTGRES_DSN", &c.Storage.PostgresDSN)
	str(EnvPrefix+"BLOB_DRIVER", &c.Storage.Blob.Driver)
	str(EnvPrefix+"BLOB_KEY", &c.Storage.Blob.Key)
	str(EnvPrefix+"BLOB_FS_ROOT", &c.Storage.Blob.FSRoot)
	str(EnvPrefix+"BLOB_S3_BUCKET", &c.Storage.Blob.S3.Bucket)
	str(EnvPrefix+"BLOB_S3_REGION", &c.Storage.Blob.S3.Region)
	str(EnvPrefix+"BLOB_S3_ENDPOINT", &c.Storage.Blob.S3.Endpoint)
	boolean(EnvPrefix+"BLOB_S3_PATH_STYLE", &c.Storage.Blob.S3.PathStyle)
	str("AWS_ACCESS_KEY_ID", &c.Storage.Blob.S3.AccessKeyID)
	str("AWS_SECRET_ACCESS_KEY", &c.Storage.Blob.S3.SecretAccessKey)
	if v, ok := lookup(EnvPrefix + "RATE_LIMIT"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRATE_LIMIT: %w", EnvPrefix, err))
		} else {
			c.Server.RateLimit = f
		}
	}
	integer(EnvPrefix+"RATE_LIMIT_BURST", &c.Server.RateLimitBurst)
	boolean(EnvPrefix+"METRICS_ENABLED", &c.Metrics.Enabled)
	boolean(EnvPrefix+"TRACE_ENABLED", &c.Trace.Enabled)
	var shutdownSeconds int
	integer("SHUTDOWN_TIMEOUT_SECONDS", &shutdownSeconds)
	if shutdownSeconds > 0 {
		c.Server.ShutdownTimeout = time.Duration(shutdownSeconds) * time.Second
	}
	return errors.Join(errs...)
}

// Validate rejects values the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Server.Port))
	}
	if c.Server.RateLimit < 0 || c.Server.RateLimitBurst < 0 {
		errs = append(errs, errors.New("rate limit and burst must not be negative"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("maxBodyBytes must be positive"))
	}
	if _, err := server.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case server.LogFormatText, server.LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	switch domain.StorageDriver(c.Storage.Driver) {
	case domain.StorageFile, domain.StorageMemory, domain.StorageSQLite:
	case domain.StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres driver requires a DSN"))
		}
	case domain.StorageBlob:
		switch blob.Driver(c.Storage.Blob.Driver) {
		case blob.DriverFilesystem, blob.DriverMemory:
		case blob.DriverS3:
			if c.Storage.Blob.S3.Bucket == "" {
				errs = append(errs, errors.New("s3 blob driver requires a bucket"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown blob driver %q", c.Storage.Blob.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ServerConfig converts to the listener configuration.
func (c *Config) ServerConfig(version string) *server.Config {
	srv := server.DefaultConfig()
	srv.Version = version
	srv.Address = c.Server.Address
	srv.Port = c.Server.Port
	srv.RateLimit = rate.Limit(c.Server.RateLimit)
	srv.RateLimitBurst = c.Server.RateLimitBurst
	srv.ReadTimeout = c.Server.ReadTimeout
	srv.WriteTimeout = c.Server.WriteTimeout
	srv.IdleTimeout = c.Server.IdleTimeout
	srv.ShutdownTimeout = c.Server.ShutdownTimeout
	srv.MetricsEnabled = c.Metrics.Enabled
	return srv
}

// StorageOptions converts to backend selection options.
func (c *Config) StorageOptions() core.StorageOptions {
	s3 := c.Storage.Blob.S3
	return core.StorageOptions{
		Driver:      domain.StorageDriver(c.Storage.Driver),
		Path:        c.Storage.Path,
		SQLitePath:  c.Storage.SQLitePath,
		PostgresDSN: c.Storage.PostgresDSN,
		BlobKey:     c.Storage.Blob.Key,
		Blob: blob.Options{
			Driver: blob.Driver(c.Storage.Blob.Driver),
			FSRoot: c.Storage.Blob.FSRoot,
			S3: blob.S3Config{
				Bucket:          s3.Bucket,
				Region:          s3.Region,
				Endpoint:        s3.Endpoint,
				PathStyle:       s3.PathStyle,
				AccessKeyID:     s3.AccessKeyID,
				SecretAccessKey: s3.SecretAccessKey,
			},
		},
	}
}
