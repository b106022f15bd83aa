// Package app wires configuration, store, metrics and engine together.
// Construction and teardown are scoped here; nothing keeps ambient handles.
package app

import (
	"fmt"

	"github.com/citypulse/trafficast/config"
	"github.com/citypulse/trafficast/core/engine"
	coremetrics "github.com/citypulse/trafficast/core/metrics"
	"github.com/citypulse/trafficast/core/store"
	"github.com/citypulse/trafficast/infra/logger"
	"github.com/citypulse/trafficast/infra/metrics"
)

// Service owns a read-only store handle and the engine built over it.
type Service struct {
	Engine *engine.Engine
	Store  *store.Store
	log    logger.Logger
}

// New opens the canonical store read-only and assembles the engine.
// The caller must Close the service when done.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	logg := logger.New("service")

	var rec coremetrics.QueryRecorder = coremetrics.NopSink{}
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		rec = sink
	}

	st, err := store.Open(cfg.Data.StorePath)
	if err != nil {
		return nil, err
	}
	eng := engine.New(st, st, logg, rec)
	return &Service{Engine: eng, Store: st, log: logg}, nil
}

// Close releases the store handle.
func (s *Service) Close() error {
	return s.Store.Close()
}
