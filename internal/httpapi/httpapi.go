// Copyright (c) 2021-2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package httpapi implements the plain HTTP management endpoint of the
// server.  It exposes POST /connect, which establishes the shared Matrix
// session with credentials in the request body, and GET /healthcheck.
// Unlike the MCP tools the endpoint reports failures with HTTP status
// codes: 400 with a {"detail": ...} body.
package httpapi

// In this file: router construction and handlers.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rusq/matrixmcp/internal/gateway"
)

// Connector establishes the shared session.
type Connector interface {
	Connect(ctx context.Context, creds gateway.Credentials) (string, error)
}

// Server is the management HTTP server.
type Server struct {
	conn   Connector
	logger *slog.Logger
	router chi.Router
}

// New creates the management server around the given connector.  A nil
// logger falls back to slog.Default().
func New(conn Connector, lg *slog.Logger) *Server {
	if lg == nil {
		lg = slog.Default()
	}
	s := &Server{conn: conn, logger: lg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Post("/connect", s.handleConnect)
	r.Get("/healthcheck", s.handleHealthcheck)
	s.router = r
	return s
}

// Handler returns the underlying router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs the management server on addr until ctx is
// cancelled, then shuts it down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 30 * time.Second,
	}

	s.logger.InfoContext(ctx, "management api listening", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("management api server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.InfoContext(ctx, "management api shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("management api shutdown error: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// connectResponse is the success body of POST /connect.
type connectResponse struct {
	Message string `json:"message"`
}

// errorResponse is the failure body of POST /connect.
type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var creds gateway.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		s.writeError(w, r, fmt.Errorf("invalid request body: %w", err))
		return
	}

	userID, err := s.conn.Connect(r.Context(), creds)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, connectResponse{
		Message: fmt.Sprintf("Successfully connected to %s as %s.", creds.HomeserverURL, userID),
	})
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.WarnContext(r.Context(), "connect failed", "error", err)
	s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Detail: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.ErrorContext(r.Context(), "response write failed", "error", err)
	}
}
