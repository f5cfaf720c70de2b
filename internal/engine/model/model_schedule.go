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

package model

import (
	"time"
)

// NotifyOverride replaces the plan-level notification toggles for one schedule.
type NotifyOverride struct {
	OnFailure bool     `json:"onFailure"`
	OnSuccess bool     `json:"onSuccess"`
	Emails    []string `json:"emails,omitempty"`
}

// Schedule binds a recurrence rule to one test plan.
type Schedule struct {
	BaseModel
	ScheduleId     string            `gorm:"column:schedule_id;type:VARCHAR(64);uniqueIndex" json:"scheduleId"`
	Name           string            `gorm:"column:name" json:"name"`
	PlanId         string            `gorm:"column:plan_id;type:VARCHAR(64);index" json:"planId"`
	Frequency      string            `gorm:"column:frequency" json:"frequency"`
	OnceAt         *time.Time        `gorm:"column:once_at" json:"onceAt,omitempty"` // target instant for the `once` form
	NextRunAt      *time.Time        `gorm:"column:next_run_at" json:"nextRunAt,omitempty"`
	IsActive       int               `gorm:"column:is_active" json:"isActive"`    // 0: inactive, 1: active
	RetryPolicy    int               `gorm:"column:retry_policy" json:"retryPolicy"` // 0: none, 1: once, 2: twice
	NotifyOverride *NotifyOverride   `gorm:"column:notify_override;type:json;serializer:json" json:"notifyOverride,omitempty"`
	Params         map[string]string `gorm:"column:params;type:json;serializer:json" json:"params,omitempty"`
}

func (Schedule) TableName() string {
	return "t_schedule"
}

// Active reports whether the schedule may be armed.
func (s *Schedule) Active() bool {
	return s.IsActive == ScheduleActive
}

const (
	ScheduleInactive = 0
	ScheduleActive   = 1
)

const (
	RetryPolicyNone  = 0
	RetryPolicyOnce  = 1
	RetryPolicyTwice = 2
)

const (
	TriggerTypeScheduled = "scheduled"
	TriggerTypeManual    = "manual"
)
