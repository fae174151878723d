package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/larshagen/calchat/internal/instrumentation"
)

// serveMetrics starts an HTTP server exposing the Prometheus scrape endpoint
// and returns a shutdown function. A disabled provider yields a no-op.
func serveMetrics(provider *instrumentation.Provider, addr string) func() {
	if !provider.Enabled() {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", provider.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Metrics server stopped with error: %v", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during metrics server shutdown: %v", err)
		}
	}
}
