// Package httpapi exposes the analytics service over REST for the dashboard
// UI: provider setup/testing plus the aggregated dashboard payload.
package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/affistats/insights-manager/internal/dependency"
)

// Config is the configuration for the http server.
type Config struct {
	Port           string   `mapstructure:"port"`
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Server is the http server.
type Server struct {
	hs        *http.Server
	c         *Config
	analytics dependency.Analytics
	done      chan struct{}
}

// New creates a new server.
func New(c *Config, analytics dependency.Analytics) *Server {
	return &Server{
		c:         c,
		analytics: analytics,
		done:      make(chan struct{}),
	}
}

// Done returns a channel that is closed when the http server exits.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   append([]string{"http://localhost:*"}, s.c.AllowedOrigins...),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/provider", s.handleSetProvider)
		r.Post("/provider/test", s.handleTestProvider)
		r.Get("/provider", s.handleProviderStatus)
		r.Get("/provider/columns", s.handleProviderColumns)
		r.Delete("/provider", s.handleDisconnectProvider)
		r.Get("/dashboard", s.handleDashboard)
	})

	return r
}

// Start runs the listener in the background and returns immediately.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%s", s.c.Address, s.c.Port)
	s.hs = &http.Server{
		Addr:              addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Default().InfoContext(ctx, fmt.Sprintf("insights-manager listening on http://%s", addr))
		err := s.hs.ListenAndServe()
		if err == http.ErrServerClosed {
			slog.Default().InfoContext(ctx, "http server returned")
		} else {
			slog.Default().ErrorContext(ctx, "http server exited with an error",
				slog.String("err", err.Error()))
		}
		close(s.done)
	}()

	return nil
}

// Stop gracefully shuts the listener down.
func (s *Server) Stop(ctx context.Context) {
	if s.hs == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.hs.Shutdown(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "http server shutdown failed",
			slog.String("err", err.Error()))
	}
}
