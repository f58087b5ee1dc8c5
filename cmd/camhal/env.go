package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonwraymond/camhal/module"
	"github.com/jonwraymond/camhal/observe"
	"github.com/jonwraymond/camhal/sim"
)

// env holds what every command needs.
type env struct {
	cfg      Config
	sim      *sim.Module
	adapter  *module.Adapter
	obs      observe.Observer
	registry *prometheus.Registry
	stdout   io.Writer
	stderr   io.Writer
}

func newEnv(ctx context.Context, cfg Config, stdout, stderr io.Writer) (*env, error) {
	if cfg.Module == "" {
		return nil, errNoModule
	}

	registry := prometheus.NewRegistry()
	cfg.Observe.Exporters.Registerer = registry
	cfg.Observe.Exporters.Writer = stderr

	obs, err := observe.NewObserver(ctx, cfg.Observe)
	if err != nil {
		return nil, fmt.Errorf("observer: %w", err)
	}

	m, err := sim.Load(cfg.Module)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, err
	}

	adapter, err := module.New(m, module.WithObserver(obs))
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, err
	}

	return &env{
		cfg:      cfg,
		sim:      m,
		adapter:  adapter,
		obs:      obs,
		registry: registry,
		stdout:   stdout,
		stderr:   stderr,
	}, nil
}

func (e *env) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.obs.Shutdown(ctx); err != nil {
		fmt.Fprintf(e.stderr, "Warning: telemetry shutdown: %v\n", err)
	}
}
