// Package server exposes editing sessions over WebSocket, plus the venue
// search endpoint used to centre the map.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/conecourse/editor/internal/config"
	"github.com/conecourse/editor/internal/editor"
	"github.com/conecourse/editor/internal/venue"
)

const (
	defaultSendBuffer = 10_000
	defaultWriteWait  = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
	maxMessageSize    = 8 << 20
)

// Searcher resolves a venue address to coordinates.
type Searcher interface {
	Search(ctx context.Context, address string) (venue.Result, error)
}

// Deps are the collaborators of a Server.
type Deps struct {
	Logger   *slog.Logger
	Searcher Searcher
	// Editor is the template every session editor is built from. Surface,
	// Hooks and Logger are filled in per session.
	Editor editor.Deps
}

// Server is an HTTP server hosting one editor per WebSocket connection.
type Server struct {
	cfg      config.ServerConfig
	deps     Deps
	logger   *slog.Logger
	upgrader ws.Upgrader
	mux      *http.ServeMux
}

// New creates a server. Zero buffer and timeout settings get defaults.
func New(cfg config.ServerConfig, deps Deps) *Server {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaultSendBuffer
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = defaultWriteWait
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	if !cfg.CheckOrigin {
		s.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}

	s.mux.HandleFunc("GET /healthcheck", s.handleHealthcheck)
	s.mux.HandleFunc("POST /search_venue", s.handleSearchVenue)
	s.mux.HandleFunc("GET /ws", s.handleWS)
	if cfg.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("Server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type searchRequest struct {
	Address string `json:"address"`
}

func (s *Server) handleSearchVenue(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Address == "" {
		writeError(w, http.StatusBadRequest, "Address is required")
		return
	}
	if s.deps.Searcher == nil {
		s.logger.Warn("venue search requested but no searcher is configured")
		writeError(w, http.StatusServiceUnavailable, "Venue search is not configured")
		return
	}

	res, err := s.deps.Searcher.Search(r.Context(), req.Address)
	switch {
	case errors.Is(err, venue.ErrNotFound):
		writeError(w, http.StatusNotFound, "Venue not found")
	case err != nil:
		s.logger.Error("Geocoding failed", "address", req.Address, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	sess, err := newSession(conn, s.cfg, s.deps.Editor, s.logger)
	if err != nil {
		s.logger.Error("Failed to start session", "error", err)
		_ = conn.Close()
		return
	}
	sess.run()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
