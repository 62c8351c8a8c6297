package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"paperpulse/internal/author"
	"paperpulse/internal/httpx"
	"paperpulse/internal/paper"
)

const maxBodyBytes = 1 << 20

type pinger interface {
	Ping(ctx context.Context) error
}

type routerDeps struct {
	authors     author.Repository
	papers      paper.Repository
	db          pinger
	log         *zap.Logger
	registry    *prometheus.Registry
	corsOrigins []string
	hsts        bool
	limiter     *httpx.RateLimitMiddleware
}

func newRouter(d routerDeps) (http.Handler, error) {
	authorService := author.NewService(d.authors)
	authorHandler := author.NewHTTPHandler(authorService, d.log)
	paperHandler := paper.NewHTTPHandler(paper.NewService(d.papers, authorService), d.log)

	metrics, err := httpx.NewMetrics(d.registry)
	if err != nil {
		return nil, err
	}

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))

	router.HandleFunc("GET /api/authors/{$}", authorHandler.List)
	router.HandleFunc("POST /api/authors/{$}", authorHandler.Create)
	router.HandleFunc("GET /api/authors/{id}", authorHandler.Get)

	router.HandleFunc("GET /api/papers/{$}", paperHandler.List)
	router.HandleFunc("POST /api/papers/{$}", paperHandler.Create)
	router.HandleFunc("GET /api/papers/{id}", paperHandler.Get)

	// Collection paths without the trailing slash redirect, keeping the
	// method and body.
	router.HandleFunc("/api/authors", addSlash)
	router.HandleFunc("/api/papers", addSlash)
	router.HandleFunc("/api/", httpx.NotFound)

	mws := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.log),
		httpx.RecoveryMiddleware(d.log),
		httpx.SecurityHeadersMiddleware(d.hsts),
		httpx.CORSMiddleware(d.corsOrigins),
	}
	if d.limiter != nil {
		mws = append(mws, d.limiter.Middleware)
	}
	mws = append(mws, httpx.RequestSizeLimitMiddleware(maxBodyBytes), metrics.Middleware)

	return httpx.Chain(router, mws...), nil
}

func addSlash(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusPermanentRedirect)
}
