// Package gateway serves the MCP streamable HTTP transport.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/derekbar90/zenhub-mcp/internal/domain"
)

// MCPPath is where the MCP endpoint is mounted.
const MCPPath = "/mcp"

// ErrInvalidAddr is returned when the listen address is not host:port with a port in 0..65535.
var ErrInvalidAddr = errors.New("server addr must be host:port with port 0-65535")

// ShutdownTimeout bounds how long Run waits for in-flight requests.
var ShutdownTimeout = 5 * time.Second

// Server is an HTTP server for one MCP handler, optionally behind bearer auth.
type Server struct {
	cfg    domain.ServerConfig
	server *http.Server
	logger *slog.Logger

	addrMu      sync.RWMutex
	addr        string
	listenErr   error
	listenErrMu sync.Mutex
}

// NewServer mounts mcpHandler at MCPPath and a liveness probe at /healthz.
// An addr with port 0 picks a random port.
func NewServer(cfg domain.ServerConfig, mcpHandler http.Handler, logger *slog.Logger) (*Server, error) {
	if err := validateAddr(cfg.Addr); err != nil {
		return nil, err
	}
	if mcpHandler == nil {
		return nil, errors.New("gateway: nil mcp handler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle(MCPPath, mcpHandler)
	return &Server{
		cfg:    cfg,
		logger: logger,
		server: &http.Server{
			Handler:           BearerAuth(cfg.AuthToken)(mux),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func validateAddr(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddr, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return ErrInvalidAddr
	}
	return nil
}

// Addr returns the bound address after Run has started listening. Empty before.
func (s *Server) Addr() string {
	s.addrMu.RLock()
	defer s.addrMu.RUnlock()
	return s.addr
}

// ListenErr returns the error from Run's initial Listen, if any.
func (s *Server) ListenErr() error {
	s.listenErrMu.Lock()
	defer s.listenErrMu.Unlock()
	return s.listenErr
}

// Handler returns the full handler chain. For testing without binding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// netListen is replaced in tests to force Listen errors.
var netListen = func(network, address string) (net.Listener, error) {
	return net.Listen(network, address)
}

// serverShutdown is replaced in tests.
var serverShutdown = func(ctx context.Context, srv *http.Server) error {
	return srv.Shutdown(ctx)
}

// Run serves until shutdown is closed, then drains in-flight requests.
// A Serve failure before shutdown is returned immediately.
func (s *Server) Run(shutdown <-chan struct{}) error {
	ln, err := netListen("tcp", s.cfg.Addr)
	if err != nil {
		s.listenErrMu.Lock()
		s.listenErr = err
		s.listenErrMu.Unlock()
		return err
	}
	s.addrMu.Lock()
	s.addr = ln.Addr().String()
	s.addrMu.Unlock()
	s.logger.Info("http transport listening", "addr", s.Addr(), "path", MCPPath, "auth", s.cfg.AuthToken != "")

	done := make(chan error, 1)
	go func() { done <- s.server.Serve(ln) }()

	select {
	case err := <-done:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-shutdown:
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := serverShutdown(ctx, s.server); err != nil {
		return err
	}
	<-done
	return nil
}
