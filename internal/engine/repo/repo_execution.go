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
	"context"
	"errors"

	"github.com/veritrix/veridex/internal/engine/model"
	"github.com/veritrix/veridex/pkg/database"
	"gorm.io/gorm"
)

// ExecutionQuery defines query parameters for listing executions.
type ExecutionQuery struct {
	PlanId     string
	ScheduleId string
	Status     string
	Page       int
	PageSize   int
}

// IExecutionRepository defines persistence methods for executions and case results.
type IExecutionRepository interface {
	CreateExecution(ctx context.Context, execution *model.PlanExecution) error
	UpdateExecution(ctx context.Context, executionId string, updates map[string]any) error
	GetExecution(ctx context.Context, executionId string) (*model.PlanExecution, error)
	ListExecutions(ctx context.Context, query *ExecutionQuery) ([]*model.PlanExecution, int64, error)
	CreateCaseResult(ctx context.Context, result *model.TestCaseResult) error
	ListCaseResults(ctx context.Context, executionId string) ([]*model.TestCaseResult, error)
}

type ExecutionRepo struct {
	database.IDatabase
}

// NewExecutionRepo creates the execution repository.
func NewExecutionRepo(db database.IDatabase) IExecutionRepository {
	return &ExecutionRepo{IDatabase: db}
}

// CreateExecution creates an execution row.
func (r *ExecutionRepo) CreateExecution(ctx context.Context, execution *model.PlanExecution) error {
	return r.Database().WithContext(ctx).Create(execution).Error
}

// UpdateExecution updates an execution by executionId.
func (r *ExecutionRepo) UpdateExecution(ctx context.Context, executionId string, updates map[string]any) error {
	return r.Database().WithContext(ctx).
		Model(&model.PlanExecution{}).
		Where("execution_id = ?", executionId).
		Updates(updates).Error
}

// GetExecution returns an execution by executionId, nil when absent.
func (r *ExecutionRepo) GetExecution(ctx context.Context, executionId string) (*model.PlanExecution, error) {
	var one model.PlanExecution
	err := r.Database().WithContext(ctx).
		Where("execution_id = ?", executionId).
		First(&one).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &one, nil
}

// ListExecutions returns executions and total by query.
func (r *ExecutionRepo) ListExecutions(ctx context.Context, query *ExecutionQuery) ([]*model.PlanExecution, int64, error) {
	db := r.Database().WithContext(ctx).Model(&model.PlanExecution{})
	if query.PlanId != "" {
		db = db.Where("plan_id = ?", query.PlanId)
	}
	if query.ScheduleId != "" {
		db = db.Where("schedule_id = ?", query.ScheduleId)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	size := query.PageSize
	if size <= 0 {
		size = 20
	}

	var list []*model.PlanExecution
	err := db.Order("id DESC").Offset((page - 1) * size).Limit(size).Find(&list).Error
	return list, total, err
}

// CreateCaseResult creates a case result row.
func (r *ExecutionRepo) CreateCaseResult(ctx context.Context, result *model.TestCaseResult) error {
	return r.Database().WithContext(ctx).Create(result).Error
}

// ListCaseResults returns an execution's case rows in production order.
func (r *ExecutionRepo) ListCaseResults(ctx context.Context, executionId string) ([]*model.TestCaseResult, error) {
	var list []*model.TestCaseResult
	err := r.Database().WithContext(ctx).
		Where("execution_id = ?", executionId).
		Order("id ASC").
		Find(&list).Error
	return list, err
}
