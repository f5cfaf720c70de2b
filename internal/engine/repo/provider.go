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

package repo

import (
	"github.com/google/wire"
	"github.com/veritrix/veridex/internal/engine/model"
	"gorm.io/gorm"
)

// ProviderSet provides repository dependencies
var ProviderSet = wire.NewSet(
	NewScheduleRepo,
	NewTestPlanRepo,
	NewExecutionRepo,
	NewRepositories,
)

// Repositories aggregates all repositories for injection.
type Repositories struct {
	Schedule  IScheduleRepository
	Plan      ITestPlanRepository
	Execution IExecutionRepository
}

// NewRepositories bundles the individual repositories.
func NewRepositories(
	schedule IScheduleRepository,
	plan ITestPlanRepository,
	execution IExecutionRepository,
) *Repositories {
	return &Repositories{
		Schedule:  schedule,
		Plan:      plan,
		Execution: execution,
	}
}

// AutoMigrate creates or migrates all engine tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Schedule{},
		&model.TestPlan{},
		&model.SelectedTest{},
		&model.UITest{},
		&model.APITest{},
		&model.PlanExecution{},
		&model.TestCaseResult{},
	)
}
