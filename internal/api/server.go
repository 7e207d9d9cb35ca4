// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires the chi router, the middleware chain and the domain
handlers into a runnable [http.Server].

It is the composition root for the HTTP transport; handlers themselves live
next to their domain packages.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/poetpiece/internal/core/category"
	"github.com/taibuivan/poetpiece/internal/core/notification"
	"github.com/taibuivan/poetpiece/internal/core/poem"
	"github.com/taibuivan/poetpiece/internal/core/poet"
	"github.com/taibuivan/poetpiece/internal/core/resource"
	"github.com/taibuivan/poetpiece/internal/platform/config"
	"github.com/taibuivan/poetpiece/internal/platform/constants"
	"github.com/taibuivan/poetpiece/internal/platform/middleware"
	"github.com/taibuivan/poetpiece/internal/platform/retryguard"
	"github.com/taibuivan/poetpiece/internal/users/account"
	"github.com/taibuivan/poetpiece/internal/users/auth"
)

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers groups the HTTP handler sets mounted under /api/v1.
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	Auth         *auth.Handler
	Account      *account.Handler
	Poet         *poet.Handler
	Poem         *poem.Handler
	Category     *category.Handler
	Resource     *resource.Handler
	Notification *notification.Handler
}

// Middlewares are the stateful pieces of the chain, built in main.
type Middlewares struct {
	Verifier    middleware.TokenVerifier
	Actors      poet.ActorResolver
	RateLimiter *middleware.RateLimiter
	RetryGuard  *retryguard.Guard
}

// NewServer builds the router with the full middleware chain and registers
// every route group.
func NewServer(cfg *config.Config, log *slog.Logger, mw Middlewares, h Handlers) *Server {
	r := NewRouter(cfg, log, mw, h)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter returns the chi router behind [Server].
//
// The retry guard sits after authentication so that a rejected token never
// records a fingerprint, and before the handlers so that a transient failure
// can mark it.
func NewRouter(cfg middleware.AppConfig, log *slog.Logger, mw Middlewares, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(mw.RateLimiter.Middleware())
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(mw.Verifier))
	r.Use(poet.ActorMiddleware(mw.Actors))
	r.Use(middleware.CORS(cfg))
	r.Use(mw.RetryGuard.Middleware())
	r.Use(chimw.CleanPath)

	// Probes
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/account", h.Account.Routes())
		api.Mount("/poems", h.Poem.Routes())
		api.Mount("/comments", h.Poem.CommentRoutes())
		api.Mount("/resources", h.Resource.Routes())
		api.Mount("/notifications", h.Notification.Routes())

		api.Route("/poets", h.Poet.RegisterRoutes)
		api.Route("/categories", h.Category.RegisterRoutes)
	})

	return r
}

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the server, waiting up to timeout for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
