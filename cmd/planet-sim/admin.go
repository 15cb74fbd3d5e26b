package main

import (
	"context"
	"net/http"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serveAdmin serves the Prometheus metrics until ctx is done.
func serveAdmin(ctx context.Context, addr string) {
	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           &admin,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logs.Warn(errors.New("admin server shutdown failed").Wrap(err))
		}
	}()

	logs.WithTag("addr", addr).Info("serving admin")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logs.Warn(errors.New("admin server failed").
			WithTag("addr", addr).
			Wrap(err))
	}
}
