package main

import (
	"context"
	"net/http"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/httpx"
)

const welcomeMessage = "welcome to the book collection API"

// newRouter wires the book routes and health checks behind the middleware chain.
// The returned rate limiter must be stopped on shutdown.
func newRouter(cfg config.Server, service *book.Service) (http.Handler, *httpx.RateLimitMiddleware) {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := service.Ping(ctx); err != nil {
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_READY", "store not ready", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	book.NewHTTPHandler(service).Register(mux)

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	handler := httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.CORSMiddleware(cfg.AllowedOrigins),
		httpx.SecurityHeadersMiddleware(false),
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
		limiter.Middleware,
	)
	return handler, limiter
}
