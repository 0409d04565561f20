package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"routeopt/internal/api"
	"routeopt/internal/config"
	"routeopt/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	srv, err := api.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	// Optimization
	mux.Handle("/v1/optimize", srv.WithAuth(http.HandlerFunc(srv.OptimizeHandler)))
	mux.Handle("/v1/optimize/ws", srv.WithAuth(http.HandlerFunc(srv.OptimizeWSHandler)))
	mux.Handle("/v1/distance-matrix", srv.WithAuth(http.HandlerFunc(srv.MatrixHandler)))
	mux.Handle("/v1/solver/config", srv.WithAuth(http.HandlerFunc(srv.SolverConfigHandler)))

	// Docs & debug
	mux.HandleFunc("/openapi.yaml", srv.OpenAPIHandler)
	mux.HandleFunc("/docs", srv.DocsHandler)
	mux.HandleFunc("/swagger", srv.SwaggerHandler)
	mux.Handle("/debug/config", srv.WithAuth(http.HandlerFunc(srv.DebugJSON)))

	// Health & metrics
	mux.HandleFunc("/healthz", srv.HealthHandler)
	mux.HandleFunc("/readyz", srv.ReadyHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	handler := api.WithObservability(api.WithRateLimit(10, 20, mux))
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		// Write timeout covers the slowest allowed solver budget.
		WriteTimeout: 150 * time.Second,
	}

	log.Printf("API listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
