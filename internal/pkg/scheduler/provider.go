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

package scheduler

import (
	"github.com/google/wire"

	"github.com/veritrix/veridex/internal/engine/repo"
	"github.com/veritrix/veridex/internal/pkg/orchestrator"
)

// ProviderSet provides the schedule registry.
var ProviderSet = wire.NewSet(
	ProvideRegistry,
)

// ProvideRegistry builds the registry over the repositories bundle.
func ProvideRegistry(repos *repo.Repositories, o *orchestrator.Orchestrator) *Registry {
	return NewRegistry(repos.Schedule, o)
}
