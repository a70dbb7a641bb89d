package preview

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/dashpanel/internal/dashboard"
	"github.com/muurk/dashpanel/internal/logging"
)

// Config holds the preview server configuration
type Config struct {
	Addr        string // Listen address, host:port (port 0 picks a free one)
	Advertise   bool   // Announce the server over mDNS
	ServiceName string // mDNS instance name
}

// Server serves the live preview endpoints for one store:
//
//	GET /ws        websocket stream of Message values
//	GET /document  current document as JSON
type Server struct {
	config   Config
	hub      *Hub
	http     *http.Server
	listener net.Listener
	mdns     *zeroconf.Server

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewServer creates a preview server for store. The hub starts observing
// the store immediately.
func NewServer(store *dashboard.Store, config Config) *Server {
	s := &Server{
		config: config,
		hub:    NewHub(store),
	}
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Hub returns the server's websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP routes of the preview server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", s.hub)
	mux.HandleFunc("GET /document", s.handleDocument)
	return mux
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	data, err := s.hub.Snapshot()
	if err != nil {
		logging.Error("Failed to encode document", zap.Error(err))
		http.Error(w, "failed to encode document", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// Start listens on the configured address and serves in the background.
// The server shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return fmt.Errorf("preview server already started")
	}

	addr := s.config.Addr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	s.started = true

	logging.Info("Preview server listening", zap.String("addr", listener.Addr().String()))

	go func() {
		if err := s.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Preview server stopped", zap.Error(err))
		}
	}()

	if s.config.Advertise {
		port := listener.Addr().(*net.TCPAddr).Port
		mdns, err := Advertise(s.config.ServiceName, port)
		if err != nil {
			// Serving still works without the announcement
			logging.Warn("Failed to advertise preview server", zap.Error(err))
		} else {
			s.mdns = mdns
		}
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops the announcement, disconnects clients and stops serving.
// It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	mdns := s.mdns
	s.mdns = nil
	started := s.started
	s.mu.Unlock()

	if mdns != nil {
		mdns.Shutdown()
	}
	s.hub.Close()

	if !started {
		return nil
	}
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down preview server: %w", err)
	}
	logging.Info("Preview server stopped")
	return nil
}
