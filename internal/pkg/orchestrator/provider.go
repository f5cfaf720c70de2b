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

package orchestrator

import (
	"time"

	"github.com/google/wire"

	"github.com/veritrix/veridex/internal/engine/config"
	"github.com/veritrix/veridex/internal/engine/repo"
	"github.com/veritrix/veridex/internal/pkg/runner"
)

// ProviderSet provides the plan execution orchestrator.
var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideOrchestrator,
)

// ProvideConfig maps the engine config section onto orchestrator settings.
func ProvideConfig(engine config.EngineConfig) Config {
	return Config{
		ArtifactRoot:          engine.ArtifactRoot,
		DefaultPageTimeout:    time.Duration(engine.DefaultPageTimeout) * time.Second,
		DefaultElementTimeout: time.Duration(engine.DefaultElemTimeout) * time.Second,
		APIRequestTimeout:     time.Duration(engine.APIRequestTimeout) * time.Second,
	}
}

// ProvideOrchestrator builds the orchestrator from the repositories bundle.
func ProvideOrchestrator(repos *repo.Repositories, dispatcher *runner.Dispatcher, cfg Config) *Orchestrator {
	return New(repos.Plan, repos.Execution, dispatcher, cfg)
}
