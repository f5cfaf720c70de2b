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
	"time"

	"github.com/google/uuid"

	"github.com/veritrix/veridex/internal/engine/model"
	"github.com/veritrix/veridex/internal/engine/repo"
	"github.com/veritrix/veridex/internal/pkg/frequency"
	"github.com/veritrix/veridex/internal/pkg/scheduler"
	"github.com/veritrix/veridex/pkg/log"
)

// ScheduleService owns the schedule lifecycle and keeps the registry in
// sync with every persisted change.
type ScheduleService struct {
	scheduleRepo repo.IScheduleRepository
	planRepo     repo.ITestPlanRepository
	registry     *scheduler.Registry
}

func NewScheduleService(scheduleRepo repo.IScheduleRepository, planRepo repo.ITestPlanRepository, registry *scheduler.Registry) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		planRepo:     planRepo,
		registry:     registry,
	}
}

// CreateSchedule validates the descriptor, resolves the first fire time,
// persists the schedule and arms it.
func (s *ScheduleService) CreateSchedule(ctx context.Context, req *model.CreateScheduleReq) (*model.Schedule, error) {
	if req.PlanId == "" {
		return nil, errors.New("plan id cannot be empty")
	}
	plan, err := s.planRepo.GetPlan(ctx, req.PlanId)
	if err != nil {
		return nil, fmt.Errorf("check plan failed: %w", err)
	}
	if plan == nil {
		return nil, fmt.Errorf("test plan %s not found", req.PlanId)
	}

	f, err := frequency.Parse(req.Frequency)
	if err != nil {
		return nil, err
	}

	next, err := firstFireTime(f, req.OnceAt, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	schedule := &model.Schedule{
		ScheduleId:     uuid.NewString(),
		Name:           req.Name,
		PlanId:         req.PlanId,
		Frequency:      req.Frequency,
		OnceAt:         req.OnceAt,
		NextRunAt:      next,
		IsActive:       model.ScheduleActive,
		RetryPolicy:    req.RetryPolicy,
		NotifyOverride: req.NotifyOverride,
		Params:         req.Params,
	}
	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		log.Errorw("create schedule failed", "plan", req.PlanId, "error", err)
		return nil, fmt.Errorf("create schedule failed: %w", err)
	}

	s.registry.AddJob(schedule)
	log.Infow("schedule created", "schedule", schedule.ScheduleId, "plan", schedule.PlanId,
		"frequency", schedule.Frequency, "nextRunAt", schedule.NextRunAt)
	return schedule, nil
}

// UpdateSchedule patches the schedule and re-arms or disarms its timer.
// A frequency or activation change re-resolves the next fire time.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, scheduleId string, req *model.UpdateScheduleReq) (*model.Schedule, error) {
	schedule, err := s.scheduleRepo.Get(ctx, scheduleId)
	if err != nil {
		return nil, fmt.Errorf("load schedule failed: %w", err)
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule %s not found", scheduleId)
	}

	updates := map[string]any{}
	if req.Name != nil {
		schedule.Name = *req.Name
		updates["name"] = *req.Name
	}
	if req.Frequency != nil {
		if err := frequency.Validate(*req.Frequency); err != nil {
			return nil, err
		}
		schedule.Frequency = *req.Frequency
		updates["frequency"] = *req.Frequency
	}
	if req.OnceAt != nil {
		schedule.OnceAt = req.OnceAt
		updates["once_at"] = req.OnceAt
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
		updates["is_active"] = *req.IsActive
	}
	if req.RetryPolicy != nil {
		schedule.RetryPolicy = *req.RetryPolicy
		updates["retry_policy"] = *req.RetryPolicy
	}
	if req.NotifyOverride != nil {
		schedule.NotifyOverride = req.NotifyOverride
		updates["notify_override"] = req.NotifyOverride
	}
	if req.Params != nil {
		schedule.Params = req.Params
		updates["params"] = req.Params
	}

	if schedule.Active() {
		f, err := frequency.Parse(schedule.Frequency)
		if err != nil {
			return nil, err
		}
		next, err := firstFireTime(f, schedule.OnceAt, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		schedule.NextRunAt = next
	} else {
		schedule.NextRunAt = nil
	}
	updates["next_run_at"] = schedule.NextRunAt

	if err := s.scheduleRepo.Update(ctx, scheduleId, updates); err != nil {
		log.Errorw("update schedule failed", "schedule", scheduleId, "error", err)
		return nil, fmt.Errorf("update schedule failed: %w", err)
	}

	s.registry.UpdateJob(schedule)
	log.Infow("schedule updated", "schedule", scheduleId, "active", schedule.IsActive, "nextRunAt", schedule.NextRunAt)
	return schedule, nil
}

// DeleteSchedule removes the schedule; its timer is disarmed first so the
// schedule cannot fire after this returns.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, scheduleId string) error {
	s.registry.RemoveJob(scheduleId)
	if err := s.scheduleRepo.Delete(ctx, scheduleId); err != nil {
		log.Errorw("delete schedule failed", "schedule", scheduleId, "error", err)
		return fmt.Errorf("delete schedule failed: %w", err)
	}
	log.Infow("schedule deleted", "schedule", scheduleId)
	return nil
}

// GetSchedule returns one schedule, nil when absent.
func (s *ScheduleService) GetSchedule(ctx context.Context, scheduleId string) (*model.Schedule, error) {
	return s.scheduleRepo.Get(ctx, scheduleId)
}

// ListSchedules returns schedules by query.
func (s *ScheduleService) ListSchedules(ctx context.Context, query *repo.ScheduleQuery) ([]*model.Schedule, int64, error) {
	return s.scheduleRepo.List(ctx, query)
}

// firstFireTime resolves the initial fire instant for a fresh or re-armed
// schedule. One-shot schedules take their explicit target, which must still
// be in the future.
func firstFireTime(f *frequency.Frequency, onceAt *time.Time, now time.Time) (*time.Time, error) {
	if f.Once() {
		if onceAt == nil {
			return nil, errors.New("onceAt is required for a `once` schedule")
		}
		if !onceAt.After(now) {
			return nil, fmt.Errorf("onceAt %s is not in the future", onceAt.Format(time.RFC3339))
		}
		t := onceAt.UTC()
		return &t, nil
	}
	next, err := f.Next(now)
	if err != nil {
		return nil, err
	}
	return &next, nil
}
