package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/genix/genix-site/internal/config"
	"github.com/genix/genix-site/internal/handler"
	"github.com/genix/genix-site/internal/middleware"
)

type routerDeps struct {
	sessionHandler *handler.SessionHandler
	gate           *middleware.RouteGate
	loginLimit     *middleware.IPRateLimitMiddleware
	trustedProxies *middleware.TrustedProxies
	metrics        http.Handler
	staticDir      string
	isProduction   bool
}

func newRouter(d routerDeps) http.Handler {
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(d.isProduction)
	rules := middleware.DefaultGateRules()

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(d.trustedProxies.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)
	r.Use(d.gate.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	if d.metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.metrics)
	}

	var loginLimit func(http.Handler) http.Handler
	if d.loginLimit != nil {
		loginLimit = d.loginLimit.Handler
	}

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(securityHeadersMiddleware.Handler)
		r.Mount("/", d.sessionHandler.Routes(loginLimit))
	})

	spa := handler.StaticFileServer(d.staticDir, rules.LoginPath)
	r.Group(func(r chi.Router) {
		r.Use(securityHeadersMiddleware.Handler)
		r.Handle(rules.LoginPath, spa)
		r.Handle(rules.LoginPath+"/*", spa)
	})

	return r
}
