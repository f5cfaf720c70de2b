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
	"github.com/google/wire"

	"github.com/veritrix/veridex/pkg/database"
	"github.com/veritrix/veridex/pkg/http"
	"github.com/veritrix/veridex/pkg/log"
	"github.com/veritrix/veridex/pkg/metrics"
)

// ProviderSet exposes the config document and its sections to wire.
var ProviderSet = wire.NewSet(
	NewConf,
	ProvideLogConf,
	ProvideHttpConf,
	ProvideDatabaseConf,
	ProvideMetricsConf,
	ProvideEngineConf,
)

// ProvideLogConf extracts the log section.
func ProvideLogConf(c *AppConfig) *log.Conf { return &c.Log }

// ProvideHttpConf extracts the http section.
func ProvideHttpConf(c *AppConfig) *http.Http { return &c.Http }

// ProvideDatabaseConf extracts the database section.
func ProvideDatabaseConf(c *AppConfig) database.Database { return c.Database }

// ProvideMetricsConf extracts the metrics section.
func ProvideMetricsConf(c *AppConfig) metrics.MetricsConfig { return c.Metrics }

// ProvideEngineConf extracts the engine section.
func ProvideEngineConf(c *AppConfig) EngineConfig { return c.Engine }
