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

// ITestPlanRepository defines persistence methods for plans and test definitions.
type ITestPlanRepository interface {
	CreatePlan(ctx context.Context, plan *model.TestPlan) error
	GetPlan(ctx context.Context, planId string) (*model.TestPlan, error)
	ListPlans(ctx context.Context, page, pageSize int) ([]*model.TestPlan, int64, error)
	AddSelectedTest(ctx context.Context, link *model.SelectedTest) error
	ListSelectedTests(ctx context.Context, planId string) ([]*model.SelectedTest, error)
	CreateUITest(ctx context.Context, test *model.UITest) error
	GetUITest(ctx context.Context, testId string) (*model.UITest, error)
	CreateAPITest(ctx context.Context, test *model.APITest) error
	GetAPITest(ctx context.Context, testId string) (*model.APITest, error)
}

type TestPlanRepo struct {
	database.IDatabase
}

// NewTestPlanRepo creates the test-plan repository.
func NewTestPlanRepo(db database.IDatabase) ITestPlanRepository {
	return &TestPlanRepo{IDatabase: db}
}

// CreatePlan creates a test plan.
func (r *TestPlanRepo) CreatePlan(ctx context.Context, plan *model.TestPlan) error {
	return r.Database().WithContext(ctx).Create(plan).Error
}

// GetPlan returns a plan by planId, nil when absent.
func (r *TestPlanRepo) GetPlan(ctx context.Context, planId string) (*model.TestPlan, error) {
	var one model.TestPlan
	err := r.Database().WithContext(ctx).
		Where("plan_id = ?", planId).
		First(&one).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &one, nil
}

// ListPlans returns plans and total.
func (r *TestPlanRepo) ListPlans(ctx context.Context, page, pageSize int) ([]*model.TestPlan, int64, error) {
	db := r.Database().WithContext(ctx).Model(&model.TestPlan{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var list []*model.TestPlan
	err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&list).Error
	return list, total, err
}

// AddSelectedTest validates and appends one test link to a plan.
func (r *TestPlanRepo) AddSelectedTest(ctx context.Context, link *model.SelectedTest) error {
	if err := link.Validate(); err != nil {
		return err
	}
	return r.Database().WithContext(ctx).Create(link).Error
}

// ListSelectedTests returns a plan's links in stable order.
func (r *TestPlanRepo) ListSelectedTests(ctx context.Context, planId string) ([]*model.SelectedTest, error) {
	var list []*model.SelectedTest
	err := r.Database().WithContext(ctx).
		Where("plan_id = ?", planId).
		Order("sort_order ASC, id ASC").
		Find(&list).Error
	return list, err
}

// CreateUITest creates a UI test definition.
func (r *TestPlanRepo) CreateUITest(ctx context.Context, test *model.UITest) error {
	return r.Database().WithContext(ctx).Create(test).Error
}

// GetUITest returns a UI test by testId, nil when absent.
func (r *TestPlanRepo) GetUITest(ctx context.Context, testId string) (*model.UITest, error) {
	var one model.UITest
	err := r.Database().WithContext(ctx).
		Where("test_id = ?", testId).
		First(&one).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &one, nil
}

// CreateAPITest creates an API test definition.
func (r *TestPlanRepo) CreateAPITest(ctx context.Context, test *model.APITest) error {
	return r.Database().WithContext(ctx).Create(test).Error
}

// GetAPITest returns an API test by testId, nil when absent.
func (r *TestPlanRepo) GetAPITest(ctx context.Context, testId string) (*model.APITest, error) {
	var one model.APITest
	err := r.Database().WithContext(ctx).
		Where("test_id = ?", testId).
		First(&one).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &one, nil
}
