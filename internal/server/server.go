package server

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRoutes registers API routes; they run behind the middleware chain.
func WithRoutes(register func(*http.ServeMux)) Option {
	return func(s *Server) { s.registers = append(s.registers, register) }
}

// WithReadiness makes /ready report ready only while fn returns true.
func WithReadiness(fn func() bool) Option {
	return func(s *Server) { s.readiness = fn }
}

// WithBanner sets where the startup line is printed (stdout by default).
func WithBanner(w io.Writer) Option {
	return func(s *Server) { s.banner = w }
}

// Server is the HTTP front end.
type Server struct {
	config      *Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	banner      io.Writer
	registers   []func(*http.ServeMux)
	readiness   func() bool

	mu      sync.RWMutex
	running bool
	addr    net.Addr
}

// New builds a server; a nil config selects DefaultConfig.
func New(config *Config, opts ...Option) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	s := &Server{
		config: config,
		logger: slog.Default(),
		banner: os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if config.RateLimit > 0 {
		s.rateLimiter = rate.NewLimiter(config.RateLimit, config.RateLimitBurst)
	}
	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(config.Address, strconv.Itoa(config.Port)),
		Handler:      s.setupRoutes(),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}
	return s
}

func (s *Server) setupRoutes() http.Handler {
	api := http.NewServeMux()
	for _, register := range s.registers {
		register(api)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	if s.config.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
		mux.Handle("GET /debug/vars", expvar.Handler())
	}
	mux.Handle("/", s.withMiddleware(api))
	return mux
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// IsReady reports whether the listener is up and the readiness probe passes.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	running := s.running
	s.mu.RUnlock()
	if !running {
		return false
	}
	return s.readiness == nil || s.readiness()
}

// Addr returns the bound address once Start has listened.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

func (s *Server) setRunning(running bool, addr net.Addr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = running
	if addr != nil {
		s.addr = addr
	}
}

// Start listens and serves until ctx is cancelled, then shuts down.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}
	port := s.config.Port
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		port = tcp.Port
	}
	s.setRunning(true, ln.Addr())
	_, _ = fmt.Fprintf(s.banner, "API server now on port %d\n", port)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err, ok := <-errCh:
		s.setRunning(false, nil)
		if !ok {
			return nil
		}
		return err
	}
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.setRunning(false, nil)
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(shutdownCtx)
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives.
func Run(ctx context.Context, config *Config, opts ...Option) error {
	if config == nil {
		config = DefaultConfig()
	}
	server := New(config, opts...)
	server.logger.Info("starting server",
		slog.String("name", config.Name),
		slog.String("version", config.Version),
		slog.String("address", server.httpServer.Addr),
		slog.Any("rateLimit", float64(config.RateLimit)),
		slog.Int("rateLimitBurst", config.RateLimitBurst),
		slog.Duration("readTimeout", config.ReadTimeout),
		slog.Duration("writeTimeout", config.WriteTimeout),
		slog.Duration("idleTimeout", config.IdleTimeout),
		slog.Duration("shutdownTimeout", config.ShutdownTimeout),
		slog.Bool("metrics", config.MetricsEnabled),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	server.logger.Info("server stopped gracefully")
	return nil
}
