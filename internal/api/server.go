package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/oakmund/jsonvault/internal/audit"
	"github.com/oakmund/jsonvault/internal/infrastructure/config"
	"github.com/oakmund/jsonvault/internal/infrastructure/influxdb"
	"github.com/oakmund/jsonvault/internal/infrastructure/logging"
	"github.com/oakmund/jsonvault/internal/infrastructure/mqtt"
	"github.com/oakmund/jsonvault/internal/item"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config config.ServerConfig
	Auth   config.AuthConfig
	Logger *logging.Logger
	Store  *item.Store
	Repo   *item.Repository
	Audit  audit.Repository
	Events  *mqtt.Client     // optional: item lifecycle events
	Metrics *influxdb.Client // optional: request metrics
	Version string
}

// Server is the HTTP API server for jsonvault.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg     config.ServerConfig
	authCfg config.AuthConfig
	logger  *logging.Logger
	store   *item.Store
	repo    *item.Repository
	audit   audit.Repository
	events  *mqtt.Client
	metrics *influxdb.Client
	version string
	server  *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("item store is required")
	}
	if deps.Repo == nil {
		return nil, fmt.Errorf("item repository is required")
	}
	if deps.Audit == nil {
		return nil, fmt.Errorf("audit repository is required")
	}
	// Events and Metrics are optional; handlers nil-check before publishing.

	return &Server{
		cfg:     deps.Config,
		authCfg: deps.Auth,
		logger:  deps.Logger,
		store:   deps.Store,
		repo:    deps.Repo,
		audit:   deps.Audit,
		events:  deps.Events,
		metrics: deps.Metrics,
		version: deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// The listener runs in a background goroutine; stop it with Close().
func (s *Server) Start(_ context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	s.logger.Info("API server started", "address", s.server.Addr)
	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
