// Package server exposes a port simulation over HTTP.
package server

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/portsim/portsim/sim"
	"github.com/portsim/portsim/sim/trace"
)

// Service owns the one port the process simulates and serializes every
// operation on it.
type Service struct {
	mu       sync.Mutex
	port     *sim.Port
	recorder trace.Recorder
}

// NewService builds a configured and reset port from cfg. recorder may be nil.
func NewService(cfg sim.Config, recorder trace.Recorder) (*Service, error) {
	s := &Service{recorder: recorder}
	port, err := s.build(cfg)
	if err != nil {
		return nil, err
	}
	s.port = port
	return s, nil
}

func (s *Service) build(cfg sim.Config) (*sim.Port, error) {
	port := sim.NewPort()
	port.SetRecorder(s.recorder)
	if err := port.Configure(cfg); err != nil {
		return nil, err
	}
	if err := port.Reset(); err != nil {
		return nil, err
	}
	return port, nil
}

// Config returns the installed configuration.
func (s *Service) Config() sim.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, _ := s.port.Config()
	return cfg
}

// Replace swaps in a fresh port built from cfg. On error the running port is kept.
func (s *Service) Replace(cfg sim.Config) (sim.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	port, err := s.build(cfg)
	if err != nil {
		return sim.State{}, err
	}
	s.port = port
	logrus.Infof("Port reconfigured: %d ships, seed %d", len(cfg.Schedule), cfg.Seed)
	return s.port.Snapshot(), nil
}

// State returns a snapshot of the port.
func (s *Service) State() sim.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Snapshot()
}

// Step advances the port by delta minutes. Zero means the configured step.
func (s *Service) Step(delta int64) (sim.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if delta == 0 {
		cfg, _ := s.port.Config()
		delta = cfg.Step
	}
	if err := s.port.Advance(delta); err != nil {
		return sim.State{}, err
	}
	return s.port.Snapshot(), nil
}

// Reset rebuilds ships and cranes, drawing fresh jitter.
func (s *Service) Reset() (sim.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.port.Reset(); err != nil {
		return sim.State{}, err
	}
	return s.port.Snapshot(), nil
}

// Metrics returns the port's current metrics.
func (s *Service) Metrics() *sim.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Metrics()
}

// Now returns the simulation clock.
func (s *Service) Now() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Now()
}
