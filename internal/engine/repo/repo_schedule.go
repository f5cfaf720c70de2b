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
	"time"

	"github.com/veritrix/veridex/internal/engine/model"
	"github.com/veritrix/veridex/pkg/database"
	"gorm.io/gorm"
)

// ScheduleQuery defines query parameters for listing schedules.
type ScheduleQuery struct {
	PlanId   string
	Active   *bool
	Page     int
	PageSize int
}

// IScheduleRepository defines persistence methods for schedules.
type IScheduleRepository interface {
	Create(ctx context.Context, schedule *model.Schedule) error
	Update(ctx context.Context, scheduleId string, updates map[string]any) error
	Get(ctx context.Context, scheduleId string) (*model.Schedule, error)
	List(ctx context.Context, query *ScheduleQuery) ([]*model.Schedule, int64, error)
	ListActive(ctx context.Context) ([]*model.Schedule, error)
	Delete(ctx context.Context, scheduleId string) error
	SetNextRun(ctx context.Context, scheduleId string, next *time.Time) error
	Deactivate(ctx context.Context, scheduleId string) error
}

type ScheduleRepo struct {
	database.IDatabase
}

// NewScheduleRepo creates the schedule repository.
func NewScheduleRepo(db database.IDatabase) IScheduleRepository {
	return &ScheduleRepo{IDatabase: db}
}

// Create creates a schedule.
func (r *ScheduleRepo) Create(ctx context.Context, schedule *model.Schedule) error {
	return r.Database().WithContext(ctx).Create(schedule).Error
}

// Update updates a schedule by scheduleId.
func (r *ScheduleRepo) Update(ctx context.Context, scheduleId string, updates map[string]any) error {
	return r.Database().WithContext(ctx).
		Model(&model.Schedule{}).
		Where("schedule_id = ?", scheduleId).
		Updates(updates).Error
}

// Get returns a schedule by scheduleId, nil when absent.
func (r *ScheduleRepo) Get(ctx context.Context, scheduleId string) (*model.Schedule, error) {
	var one model.Schedule
	err := r.Database().WithContext(ctx).
		Where("schedule_id = ?", scheduleId).
		First(&one).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &one, nil
}

// List returns schedules and total by query.
func (r *ScheduleRepo) List(ctx context.Context, query *ScheduleQuery) ([]*model.Schedule, int64, error) {
	db := r.Database().WithContext(ctx).Model(&model.Schedule{})
	if query.PlanId != "" {
		db = db.Where("plan_id = ?", query.PlanId)
	}
	if query.Active != nil {
		state := model.ScheduleInactive
		if *query.Active {
			state = model.ScheduleActive
		}
		db = db.Where("is_active = ?", state)
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

	var list []*model.Schedule
	err := db.Order("id DESC").Offset((page - 1) * size).Limit(size).Find(&list).Error
	return list, total, err
}

// ListActive returns all active schedules, for registry startup.
func (r *ScheduleRepo) ListActive(ctx context.Context) ([]*model.Schedule, error) {
	var list []*model.Schedule
	err := r.Database().WithContext(ctx).
		Where("is_active = ?", model.ScheduleActive).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// Delete removes a schedule row.
func (r *ScheduleRepo) Delete(ctx context.Context, scheduleId string) error {
	return r.Database().WithContext(ctx).
		Where("schedule_id = ?", scheduleId).
		Delete(&model.Schedule{}).Error
}

// SetNextRun persists the freshly resolved next fire time.
func (r *ScheduleRepo) SetNextRun(ctx context.Context, scheduleId string, next *time.Time) error {
	return r.Update(ctx, scheduleId, map[string]any{"next_run_at": next})
}

// Deactivate marks the schedule inactive and clears its next fire time.
func (r *ScheduleRepo) Deactivate(ctx context.Context, scheduleId string) error {
	return r.Update(ctx, scheduleId, map[string]any{
		"is_active":   model.ScheduleInactive,
		"next_run_at": nil,
	})
}
