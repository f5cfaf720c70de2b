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

package service

import (
	"github.com/google/wire"

	"github.com/veritrix/veridex/internal/engine/repo"
	"github.com/veritrix/veridex/internal/pkg/orchestrator"
	"github.com/veritrix/veridex/internal/pkg/scheduler"
)

// ProviderSet provides the service layer.
var ProviderSet = wire.NewSet(
	ProvideServices,
)

// Services aggregates the service layer for injection.
type Services struct {
	Schedule  *ScheduleService
	Plan      *PlanService
	Execution *ExecutionService
}

// ProvideServices builds all services over the shared collaborators.
func ProvideServices(repos *repo.Repositories, registry *scheduler.Registry, o *orchestrator.Orchestrator) *Services {
	return &Services{
		Schedule:  NewScheduleService(repos.Schedule, repos.Plan, registry),
		Plan:      NewPlanService(repos.Plan),
		Execution: NewExecutionService(repos.Execution, repos.Plan, o),
	}
}
