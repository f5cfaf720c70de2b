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

package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/veritrix/veridex/pkg/database"
	"github.com/veritrix/veridex/pkg/http"
	"github.com/veritrix/veridex/pkg/log"
	"github.com/veritrix/veridex/pkg/metrics"
)

// EngineConfig controls the execution engine defaults.
type EngineConfig struct {
	ArtifactRoot       string `mapstructure:"artifactRoot"`
	BrowserRunnerURL   string `mapstructure:"browserRunnerUrl"`
	DefaultPageTimeout int    `mapstructure:"defaultPageTimeout"`    // seconds
	DefaultElemTimeout int    `mapstructure:"defaultElementTimeout"` // seconds
	APIRequestTimeout  int    `mapstructure:"apiRequestTimeout"`     // seconds
}

// SetDefaults fills missing engine configuration values.
func (e *EngineConfig) SetDefaults() {
	if e.ArtifactRoot == "" {
		e.ArtifactRoot = "results"
	}
	if e.DefaultPageTimeout <= 0 {
		e.DefaultPageTimeout = 30
	}
	if e.DefaultElemTimeout <= 0 {
		e.DefaultElemTimeout = 10
	}
	if e.APIRequestTimeout <= 0 {
		e.APIRequestTimeout = 30
	}
}

// AppConfig is the root configuration document.
type AppConfig struct {
	Log      log.Conf              `mapstructure:"log"`
	Http     http.Http             `mapstructure:"http"`
	Database database.Database     `mapstructure:"database"`
	Metrics  metrics.MetricsConfig `mapstructure:"metrics"`
	Engine   EngineConfig          `mapstructure:"engine"`
}

var (
	cfg  AppConfig
	mu   sync.RWMutex
	once sync.Once
)

// NewConf loads the config file once and returns the shared instance.
func NewConf(confDir string) *AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	mu.RLock()
	defer mu.RUnlock()
	return &cfg
}

// GetConfig returns a copy of the current configuration (hot-reload safe).
func GetConfig() AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// LoadConfigFile loads and watches the config file.
func LoadConfigFile(confDir string) (AppConfig, error) {
	config := viper.New()
	config.SetConfigFile(confDir)
	if err := config.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read configuration file: %v", err)
	}

	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("configuration changed, re-reading config file", "file", e.Name)
		if err := config.ReadInConfig(); err != nil {
			log.Errorw("failed to re-read configuration file", "error", err, "file", e.Name)
			return
		}
		mu.Lock()
		if err := config.Unmarshal(&cfg); err != nil {
			mu.Unlock()
			log.Errorw("failed to unmarshal configuration file", "error", err, "file", e.Name)
			return
		}
		cfg.Http.SetDefaults()
		cfg.Database.SetDefaults()
		cfg.Metrics.SetDefaults()
		cfg.Engine.SetDefaults()
		mu.Unlock()
		log.Infow("configuration reloaded successfully", "file", e.Name)
	})

	if err := config.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration file: %v", err)
	}
	cfg.Http.SetDefaults()
	cfg.Database.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Engine.SetDefaults()
	log.Infow("config file loaded", "file", confDir)
	return cfg, nil
}
