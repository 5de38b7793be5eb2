package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menagerie/internal/blob"
	"menagerie/pkg/domain"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menagerie.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "data/animals.json", cfg.Storage.Path)
	assert.Equal(t, string(domain.StorageFile), cfg.Storage.Driver)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Zero(t, cfg.Server.RateLimit)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  readTimeout: 5s
storage:
  driver: sqlite
  sqlitePath: /var/lib/menagerie/zoo.db
log:
  level: debug
  format: json
`)
	t.Setenv("PORT", "9090")
	t.Setenv("MENAGERIE_SEED_PATH", "data/animals.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/menagerie/zoo.db", cfg.Storage.SQLitePath)
	assert.Equal(t, "data/animals.json", cfg.Storage.SeedPath)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout, "unset keys keep defaults")
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default().Storage, cfg.Storage)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeConfig(t, "server:\n  prot: 1\n"))
	var fileErr *FileError
	assert.ErrorAs(t, err, &fileErr)

	t.Setenv("PORT", "eighty")
	_, err = Load("")
	assert.ErrorContains(t, err, "PORT")
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(lookupFrom(map[string]string{
		"LOG_LEVEL":                    "warn",
		"MENAGERIE_STORAGE_DRIVER":     "blob",
		"MENAGERIE_BLOB_DRIVER":        "s3",
		"MENAGERIE_BLOB_KEY":           "zoo/animals.json",
		"MENAGERIE_BLOB_S3_BUCKET":     "zoo",
		"MENAGERIE_BLOB_S3_REGION":     "eu-west-1",
		"MENAGERIE_BLOB_S3_ENDPOINT":   "http://minio:9000",
		"MENAGERIE_BLOB_S3_PATH_STYLE": "true",
		"MENAGERIE_RATE_LIMIT":         "2.5",
		"MENAGERIE_RATE_LIMIT_BURST":   "5",
		"MENAGERIE_METRICS_ENABLED":    "false",
		"MENAGERIE_TRACE_ENABLED":      "1",
		"SHUTDOWN_TIMEOUT_SECONDS":     "7",
		"MENAGERIE_DATA_PATH":          "",
	}))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "data/animals.json", cfg.Storage.Path, "empty values are ignored")
	assert.Equal(t, 2.5, cfg.Server.RateLimit)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
	assert.False(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Trace.Enabled)
	assert.Equal(t, 7*time.Second, cfg.Server.ShutdownTimeout)

	opts := cfg.StorageOptions()
	assert.Equal(t, domain.StorageBlob, opts.Driver)
	assert.Equal(t, "zoo/animals.json", opts.BlobKey)
	assert.Equal(t, blob.DriverS3, opts.Blob.Driver)
	assert.Equal(t, "zoo", opts.Blob.S3.Bucket)
	assert.True(t, opts.Blob.S3.PathStyle)

	srv := cfg.ServerConfig("v1.2.3")
	assert.Equal(t, "v1.2.3", srv.Version)
	assert.EqualValues(t, 2.5, srv.RateLimit)
	assert.False(t, srv.MetricsEnabled)
}

func TestApplyEnvReportsEveryBadValue(t *testing.T) {
	err := Default().ApplyEnv(lookupFrom(map[string]string{
		"MENAGERIE_RATE_LIMIT":      "fast",
		"MENAGERIE_METRICS_ENABLED": "maybe",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MENAGERIE_RATE_LIMIT")
	assert.Contains(t, err.Error(), "MENAGERIE_METRICS_ENABLED")
}

func blobDriver(driver string) func(*Config) {
	return func(c *Config) {
		c.Storage.Driver = string(domain.StorageBlob)
		c.Storage.Blob.Driver = driver
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"port":         func(c *Config) { c.Server.Port = 70000 },
		"burst":        func(c *Config) { c.Server.RateLimitBurst = -1 },
		"body":         func(c *Config) { c.Server.MaxBodyBytes = 0 },
		"level":        func(c *Config) { c.Log.Level = "chatty" },
		"format":       func(c *Config) { c.Log.Format = "xml" },
		"driver":       func(c *Config) { c.Storage.Driver = "tape" },
		"postgres dsn": func(c *Config) { c.Storage.Driver = "postgres" },
		"blob driver":  blobDriver("ftp"),
		"s3 bucket":    blobDriver("s3"),
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), "invalid config")
		})
	}
}
