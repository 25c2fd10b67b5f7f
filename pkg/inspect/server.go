package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/mte/pkg/mte"
	"github.com/vango-dev/mte/pkg/telemetry"
)

// ServerOptions configures the inspector server.
type ServerOptions struct {
	// Addr is the listen address (default: "localhost:7070").
	Addr string

	// Logger receives request and connection logs.
	// Default: slog.Default() with component=inspect.
	Logger *slog.Logger

	// Metrics, when set, tracks connected clients.
	Metrics *telemetry.Metrics

	// Gatherer backs GET /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

// Server serves one Session.
type Server struct {
	session    *Session
	options    ServerOptions
	logger     *slog.Logger
	hub        *hub
	router     chi.Router
	httpServer *http.Server
}

// NewServer creates an inspector for session.
func NewServer(session *Session, options ServerOptions) *Server {
	if options.Addr == "" {
		options.Addr = "localhost:7070"
	}
	if options.Logger == nil {
		options.Logger = slog.Default().With("component", "inspect")
	}
	if options.Gatherer == nil {
		options.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		session: session,
		options: options,
		logger:  options.Logger,
		hub:     newHub(),
	}
	if m := options.Metrics; m != nil {
		s.hub.onJoin = m.ClientConnected
		s.hub.onLeave = m.ClientDisconnected
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/snapshot", s.handleSnapshot)
	r.Get("/ws", s.handleWebSocket)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.options.Gatherer, promhttp.HandlerOpts{}))
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Apply runs fn under the session lock and broadcasts the resulting
// patches. fn's error is also broadcast and returned.
func (s *Server) Apply(fn func(view *mte.View) error) error {
	patches, err := s.session.Apply(fn)

	if len(patches) > 0 {
		snap := s.session.Snapshot()
		s.hub.broadcast(Message{Type: MessagePatch, HTML: snap.HTML, Patches: patches})
	}
	if err != nil {
		s.logger.Warn("update failed", "error", err)
		s.hub.broadcast(Message{Type: MessageError, Error: err.Error()})
	}
	return err
}

// ClientCount returns the number of connected websocket clients.
func (s *Server) ClientCount() int { return s.hub.count() }

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.options.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("inspector listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(pageHTML))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.session.Snapshot()); err != nil {
		s.logger.Error("encode snapshot", "error", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("client connected", "remote", r.RemoteAddr)
	err := s.hub.serve(w, r, func() Message {
		return Message{Type: MessageSnapshot, HTML: s.session.Snapshot().HTML}
	})
	if err != nil {
		s.logger.Debug("websocket closed", "remote", r.RemoteAddr, "error", err)
		return
	}
	s.logger.Debug("client disconnected", "remote", r.RemoteAddr)
}
