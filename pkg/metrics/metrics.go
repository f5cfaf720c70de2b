// Copyright 2025 Veridex Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/veritrix/veridex/pkg/log"
)

// MetricsConfig defines metrics server configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// SetDefaults fills missing metrics configuration values.
func (c *MetricsConfig) SetDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 9090
	}
	if c.Path == "" {
		c.Path = "/metrics"
	}
}

// Server serves the prometheus registry over HTTP.
type Server struct {
	cfg      MetricsConfig
	registry *prometheus.Registry
	srv      *http.Server
}

// NewServer creates a metrics server with its own registry.
func NewServer(cfg MetricsConfig) *Server {
	cfg.SetDefaults()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return &Server{cfg: cfg, registry: registry}
}

// GetRegistry returns the server's prometheus registry.
func (s *Server) GetRegistry() *prometheus.Registry {
	return s.registry
}

// Start begins serving the metrics endpoint; no-op when disabled.
func (s *Server) Start() {
	if !s.cfg.Enabled {
		return
	}
	mux := http.NewServeMux()
	mux.Handle(s.cfg.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.srv = &http.Server{
		Addr:        s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port),
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("metrics server exited", "error", err)
		}
	}()
	log.Infow("metrics server started", "addr", s.srv.Addr, "path", s.cfg.Path)
}

// Stop shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
