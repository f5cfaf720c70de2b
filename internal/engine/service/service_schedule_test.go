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
	"sync"
	"testing"
	"time"

	"github.com/veritrix/veridex/internal/engine/model"
	"github.com/veritrix/veridex/internal/engine/repo"
	"github.com/veritrix/veridex/internal/pkg/frequency"
	"github.com/veritrix/veridex/internal/pkg/orchestrator"
	"github.com/veritrix/veridex/internal/pkg/scheduler"
)

type stubScheduleRepo struct {
	mu        sync.Mutex
	schedules map[string]*model.Schedule
}

func newStubScheduleRepo() *stubScheduleRepo {
	return &stubScheduleRepo{schedules: map[string]*model.Schedule{}}
}

func (s *stubScheduleRepo) Create(ctx context.Context, schedule *model.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[schedule.ScheduleId] = schedule
	return nil
}

func (s *stubScheduleRepo) Update(ctx context.Context, scheduleId string, updates map[string]any) error {
	return nil
}

func (s *stubScheduleRepo) Get(ctx context.Context, scheduleId string) (*model.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedules[scheduleId], nil
}

func (s *stubScheduleRepo) List(ctx context.Context, query *repo.ScheduleQuery) ([]*model.Schedule, int64, error) {
	return nil, 0, nil
}

func (s *stubScheduleRepo) ListActive(ctx context.Context) ([]*model.Schedule, error) {
	return nil, nil
}

func (s *stubScheduleRepo) Delete(ctx context.Context, scheduleId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.schedules, scheduleId)
	return nil
}

func (s *stubScheduleRepo) SetNextRun(ctx context.Context, scheduleId string, next *time.Time) error {
	return nil
}

func (s *stubScheduleRepo) Deactivate(ctx context.Context, scheduleId string) error {
	return nil
}

type stubPlanRepo struct {
	plans map[string]*model.TestPlan
}

func (s *stubPlanRepo) CreatePlan(ctx context.Context, plan *model.TestPlan) error { return nil }
func (s *stubPlanRepo) GetPlan(ctx context.Context, planId string) (*model.TestPlan, error) {
	return s.plans[planId], nil
}
func (s *stubPlanRepo) ListPlans(ctx context.Context, page, pageSize int) ([]*model.TestPlan, int64, error) {
	return nil, 0, nil
}
func (s *stubPlanRepo) AddSelectedTest(ctx context.Context, link *model.SelectedTest) error {
	return nil
}
func (s *stubPlanRepo) ListSelectedTests(ctx context.Context, planId string) ([]*model.SelectedTest, error) {
	return nil, nil
}
func (s *stubPlanRepo) CreateUITest(ctx context.Context, test *model.UITest) error { return nil }
func (s *stubPlanRepo) GetUITest(ctx context.Context, testId string) (*model.UITest, error) {
	return nil, nil
}
func (s *stubPlanRepo) CreateAPITest(ctx context.Context, test *model.APITest) error { return nil }
func (s *stubPlanRepo) GetAPITest(ctx context.Context, testId string) (*model.APITest, error) {
	return nil, nil
}

type noopRunner struct{}

func (noopRunner) RunPlan(ctx context.Context, planId, scheduleId, triggerType string) (*orchestrator.Summary, error) {
	return &orchestrator.Summary{Status: model.ExecutionStatusCompleted}, nil
}

func scheduleFixture() (*ScheduleService, *stubScheduleRepo, *scheduler.Registry) {
	schedules := newStubScheduleRepo()
	plans := &stubPlanRepo{plans: map[string]*model.TestPlan{
		"plan-1": {PlanId: "plan-1", Name: "smoke"},
	}}
	registry := scheduler.NewRegistry(schedules, noopRunner{})
	return NewScheduleService(schedules, plans, registry), schedules, registry
}

func TestCreateScheduleResolvesNextRun(t *testing.T) {
	svc, repo, registry := scheduleFixture()
	defer registry.Stop()

	before := time.Now().UTC()
	schedule, err := svc.CreateSchedule(context.Background(), &model.CreateScheduleReq{
		Name:      "nightly",
		PlanId:    "plan-1",
		Frequency: "daily@02:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if schedule.NextRunAt == nil {
		t.Fatal("next run not resolved")
	}
	if !schedule.NextRunAt.After(before) {
		t.Errorf("next run %v is not in the future", schedule.NextRunAt)
	}
	want, _ := frequency.ResolveNext("daily@02:00", before)
	if schedule.NextRunAt.Sub(want) > time.Minute {
		t.Errorf("next run %v, want about %v", schedule.NextRunAt, want)
	}
	if !registry.Armed(schedule.ScheduleId) {
		t.Error("schedule not armed")
	}
	if got, _ := repo.Get(context.Background(), schedule.ScheduleId); got == nil {
		t.Error("schedule not persisted")
	}
}

func TestCreateScheduleRejectsUnknownPlan(t *testing.T) {
	svc, _, registry := scheduleFixture()
	defer registry.Stop()

	_, err := svc.CreateSchedule(context.Background(), &model.CreateScheduleReq{
		PlanId:    "plan-missing",
		Frequency: "daily@02:00",
	})
	if err == nil {
		t.Fatal("expected error for unknown plan")
	}
}

func TestCreateScheduleRejectsBadDescriptor(t *testing.T) {
	svc, _, registry := scheduleFixture()
	defer registry.Stop()

	_, err := svc.CreateSchedule(context.Background(), &model.CreateScheduleReq{
		PlanId:    "plan-1",
		Frequency: "hourly@99",
	})
	if !errors.Is(err, frequency.ErrInvalidDescriptor) {
		t.Fatalf("err = %v, want ErrInvalidDescriptor", err)
	}
}

func TestCreateOnceScheduleRequiresFutureTarget(t *testing.T) {
	svc, _, registry := scheduleFixture()
	defer registry.Stop()

	_, err := svc.CreateSchedule(context.Background(), &model.CreateScheduleReq{
		PlanId:    "plan-1",
		Frequency: "once",
	})
	if err == nil {
		t.Fatal("expected error without onceAt")
	}

	past := time.Now().UTC().Add(-time.Hour)
	_, err = svc.CreateSchedule(context.Background(), &model.CreateScheduleReq{
		PlanId:    "plan-1",
		Frequency: "once",
		OnceAt:    &past,
	})
	if err == nil {
		t.Fatal("expected error for past onceAt")
	}

	future := time.Now().UTC().Add(time.Hour)
	schedule, err := svc.CreateSchedule(context.Background(), &model.CreateScheduleReq{
		PlanId:    "plan-1",
		Frequency: "once",
		OnceAt:    &future,
	})
	if err != nil {
		t.Fatalf("create once: %v", err)
	}
	if schedule.NextRunAt == nil || !schedule.NextRunAt.Equal(future) {
		t.Errorf("next run = %v, want %v", schedule.NextRunAt, future)
	}
}

func TestUpdateScheduleDeactivation(t *testing.T) {
	svc, _, registry := scheduleFixture()
	defer registry.Stop()

	schedule, err := svc.CreateSchedule(context.Background(), &model.CreateScheduleReq{
		PlanId:    "plan-1",
		Frequency: "every_30_minutes",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	inactive := model.ScheduleInactive
	updated, err := svc.UpdateSchedule(context.Background(), schedule.ScheduleId, &model.UpdateScheduleReq{
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.NextRunAt != nil {
		t.Errorf("next run = %v, want nil for inactive schedule", updated.NextRunAt)
	}
	if registry.Armed(schedule.ScheduleId) {
		t.Error("inactive schedule still armed")
	}
}

func TestDeleteScheduleDisarms(t *testing.T) {
	svc, repo, registry := scheduleFixture()
	defer registry.Stop()

	schedule, err := svc.CreateSchedule(context.Background(), &model.CreateScheduleReq{
		PlanId:    "plan-1",
		Frequency: "daily@02:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteSchedule(context.Background(), schedule.ScheduleId); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if registry.Armed(schedule.ScheduleId) {
		t.Error("deleted schedule still armed")
	}
	if got, _ := repo.Get(context.Background(), schedule.ScheduleId); got != nil {
		t.Error("schedule row still present")
	}
}
