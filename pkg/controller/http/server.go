package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/kbfetch/pkg/domain/interfaces"
	"github.com/m-mizutani/kbfetch/pkg/domain/model"
)

// config holds internal HTTP server configuration
type config struct {
	addr     string
	secret   string
	defaults model.FetchRequest
	now      func() time.Time
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithSecret enables HMAC verification of POST /fetch
func WithSecret(secret string) Option {
	return func(c *config) {
		c.secret = secret
	}
}

// WithDefaults sets the request fields a POST /fetch body does not carry
// (keyword, download path, launch options)
func WithDefaults(req model.FetchRequest) Option {
	return func(c *config) {
		c.defaults = req
	}
}

// WithClock replaces time.Now for the default month
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	fetchUC interfaces.FetchUseCase,
	opts ...Option,
) (*Server, error) {
	cfg := &config{
		addr: "localhost:8080",
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	fetchHandler := NewFetchHandler(fetchUC, cfg.secret, cfg.defaults, cfg.now)

	router.Get("/health", healthHandler(fetchHandler))
	router.Post("/fetch", fetchHandler.Handle)

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
