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
	"context"
	"fmt"

	"github.com/veritrix/veridex/internal/engine/model"
	"github.com/veritrix/veridex/internal/engine/repo"
	"github.com/veritrix/veridex/internal/pkg/orchestrator"
	"github.com/veritrix/veridex/pkg/log"
)

// ExecutionService triggers manual runs and serves execution history.
type ExecutionService struct {
	executionRepo repo.IExecutionRepository
	planRepo      repo.ITestPlanRepository
	orchestrator  *orchestrator.Orchestrator
}

func NewExecutionService(executionRepo repo.IExecutionRepository, planRepo repo.ITestPlanRepository, o *orchestrator.Orchestrator) *ExecutionService {
	return &ExecutionService{
		executionRepo: executionRepo,
		planRepo:      planRepo,
		orchestrator:  o,
	}
}

// TriggerPlanRun runs the plan synchronously and returns the summary.
func (s *ExecutionService) TriggerPlanRun(ctx context.Context, planId string) (*orchestrator.Summary, error) {
	plan, err := s.planRepo.GetPlan(ctx, planId)
	if err != nil {
		return nil, fmt.Errorf("check plan failed: %w", err)
	}
	if plan == nil {
		return nil, fmt.Errorf("test plan %s not found", planId)
	}

	log.Infow("manual plan run triggered", "plan", planId)
	return s.orchestrator.RunPlan(ctx, planId, "", model.TriggerTypeManual)
}

// ListExecutions returns execution history by query.
func (s *ExecutionService) ListExecutions(ctx context.Context, query *repo.ExecutionQuery) ([]*model.PlanExecution, int64, error) {
	return s.executionRepo.ListExecutions(ctx, query)
}

// GetExecution returns one execution with its case rows, nil when absent.
func (s *ExecutionService) GetExecution(ctx context.Context, executionId string) (*model.ExecutionDetail, error) {
	execution, err := s.executionRepo.GetExecution(ctx, executionId)
	if err != nil {
		return nil, err
	}
	if execution == nil {
		return nil, nil
	}
	cases, err := s.executionRepo.ListCaseResults(ctx, executionId)
	if err != nil {
		return nil, err
	}
	return &model.ExecutionDetail{Execution: execution, Cases: cases}, nil
}
