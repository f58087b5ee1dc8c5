package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/camhal/health"
)

// newServeMux wires health probes and the metrics endpoint.
func newServeMux(e *env) *http.ServeMux {
	agg := health.NewAggregator(health.AggregatorConfig{Timeout: 5 * time.Second})
	agg.Register("devices", health.NewDeviceChecker(e.adapter))
	agg.Register("capacity", health.NewCapacityChecker(e.sim.Slots(), health.CapacityCheckerConfig{}))

	mux := http.NewServeMux()
	health.RegisterHandlers(mux, agg)
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))
	return mux
}

func runServe(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet(e, "serve", "[-addr host:port]")
	addr := fs.String("addr", e.cfg.Serve.Addr, "listen address")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if e.cfg.Serve.Warm {
		if err := e.adapter.Warm(ctx); err != nil {
			// Unreadable cameras show up in /health/devices.
			fmt.Fprintf(e.stderr, "Warning: %v\n", err)
		}
	}

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		return err
	}
	return serve(ctx, e, ln)
}

// serve runs the HTTP server on ln until ctx is done.
func serve(ctx context.Context, e *env, ln net.Listener) error {
	srv := &http.Server{
		Handler:           newServeMux(e),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	fmt.Fprintf(e.stderr, "serving %s on http://%s\n", e.adapter.ModuleName(), ln.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), e.cfg.Serve.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
