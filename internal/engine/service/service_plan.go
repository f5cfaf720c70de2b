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
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/veritrix/veridex/internal/engine/model"
	"github.com/veritrix/veridex/internal/engine/repo"
	"github.com/veritrix/veridex/pkg/log"
)

// PlanService owns test plans and the test definitions they reference.
type PlanService struct {
	planRepo repo.ITestPlanRepository
}

func NewPlanService(planRepo repo.ITestPlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// CreatePlan creates a plan with its initial test selection.
func (s *PlanService) CreatePlan(ctx context.Context, req *model.CreatePlanReq) (*model.TestPlan, error) {
	if req.Name == "" {
		return nil, errors.New("plan name cannot be empty")
	}

	screenshotPolicy := req.ScreenshotPolicy
	if screenshotPolicy == "" {
		screenshotPolicy = model.ScreenshotOnFailure
	}
	switch screenshotPolicy {
	case model.ScreenshotAlways, model.ScreenshotOnFailure, model.ScreenshotNever:
	default:
		return nil, fmt.Errorf("unknown screenshot policy %q", screenshotPolicy)
	}

	plan := &model.TestPlan{
		PlanId:           uuid.NewString(),
		Name:             req.Name,
		Description:      req.Description,
		ScreenshotPolicy: screenshotPolicy,
		PageTimeout:      req.PageTimeout,
		ElementTimeout:   req.ElementTimeout,
		OnStepFailure:    req.OnStepFailure,
		OnCaseAborted:    req.OnCaseAborted,
		OnPrereqFailure:  req.OnPrereqFailure,
		RerunOnFailure:   req.RerunOnFailure,
		NotifyOnFailure:  req.NotifyOnFailure,
		NotifyOnSuccess:  req.NotifyOnSuccess,
	}
	if err := s.planRepo.CreatePlan(ctx, plan); err != nil {
		log.Errorw("create plan failed", "name", req.Name, "error", err)
		return nil, fmt.Errorf("create plan failed: %w", err)
	}

	for i, t := range req.Tests {
		if err := s.addSelectedTest(ctx, plan.PlanId, t.TestType, t.TestId, i); err != nil {
			return nil, err
		}
	}

	log.Infow("plan created", "plan", plan.PlanId, "name", plan.Name, "tests", len(req.Tests))
	return plan, nil
}

// GetPlan returns the plan with its resolved selection, nil when absent.
func (s *PlanService) GetPlan(ctx context.Context, planId string) (*model.PlanDetail, error) {
	plan, err := s.planRepo.GetPlan(ctx, planId)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, nil
	}
	tests, err := s.planRepo.ListSelectedTests(ctx, planId)
	if err != nil {
		return nil, err
	}
	return &model.PlanDetail{Plan: plan, Tests: tests}, nil
}

// ListPlans returns plans and total.
func (s *PlanService) ListPlans(ctx context.Context, page, pageSize int) ([]*model.TestPlan, int64, error) {
	return s.planRepo.ListPlans(ctx, page, pageSize)
}

// AddTest appends one test reference to an existing plan.
func (s *PlanService) AddTest(ctx context.Context, planId string, req *model.SelectedTestReq) error {
	plan, err := s.planRepo.GetPlan(ctx, planId)
	if err != nil {
		return err
	}
	if plan == nil {
		return fmt.Errorf("test plan %s not found", planId)
	}
	return s.addSelectedTest(ctx, planId, req.TestType, req.TestId, req.SortOrder)
}

// addSelectedTest checks the referenced definition exists before linking it.
func (s *PlanService) addSelectedTest(ctx context.Context, planId, testType, testId string, sortOrder int) error {
	link := &model.SelectedTest{PlanId: planId, TestType: testType, SortOrder: sortOrder}
	switch testType {
	case model.TestTypeUI:
		test, err := s.planRepo.GetUITest(ctx, testId)
		if err != nil {
			return err
		}
		if test == nil {
			return fmt.Errorf("ui test %s not found", testId)
		}
		link.UITestId = testId
	case model.TestTypeAPI:
		test, err := s.planRepo.GetAPITest(ctx, testId)
		if err != nil {
			return err
		}
		if test == nil {
			return fmt.Errorf("api test %s not found", testId)
		}
		link.APITestId = testId
	default:
		return fmt.Errorf("unknown test type %q", testType)
	}
	return s.planRepo.AddSelectedTest(ctx, link)
}

// CreateUITest stores a UI test definition.
func (s *PlanService) CreateUITest(ctx context.Context, test *model.UITest) (*model.UITest, error) {
	if test.Name == "" {
		return nil, errors.New("ui test name cannot be empty")
	}
	if test.StartURL == "" {
		return nil, errors.New("ui test start url cannot be empty")
	}
	if test.TestId == "" {
		test.TestId = uuid.NewString()
	}
	if err := s.planRepo.CreateUITest(ctx, test); err != nil {
		log.Errorw("create ui test failed", "name", test.Name, "error", err)
		return nil, fmt.Errorf("create ui test failed: %w", err)
	}
	return test, nil
}

// CreateAPITest stores an API test definition.
func (s *PlanService) CreateAPITest(ctx context.Context, test *model.APITest) (*model.APITest, error) {
	if test.Name == "" {
		return nil, errors.New("api test name cannot be empty")
	}
	if test.URL == "" {
		return nil, errors.New("api test url cannot be empty")
	}
	if test.TestId == "" {
		test.TestId = uuid.NewString()
	}
	if err := s.planRepo.CreateAPITest(ctx, test); err != nil {
		log.Errorw("create api test failed", "name", test.Name, "error", err)
		return nil, fmt.Errorf("create api test failed: %w", err)
	}
	return test, nil
}
