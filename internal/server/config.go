package server

import (
	"time"

	"golang.org/x/time/rate"
)

// Config holds listener configuration.
type Config struct {
	Name    string
	Version string

	Address string
	Port    int

	// Rate limiting; a zero RateLimit disables the limiter.
	RateLimit      rate.Limit
	RateLimitBurst int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	MetricsEnabled bool
}

// DefaultConfig returns the listener defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:            "menagerie",
		Version:         "dev",
		Port:            3001,
		RateLimit:       0,
		RateLimitBurst:  200,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		MetricsEnabled:  true,
	}
}
