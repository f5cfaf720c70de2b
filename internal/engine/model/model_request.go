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

import "time"

// CreateScheduleReq creates a schedule bound to an existing plan.
type CreateScheduleReq struct {
	Name           string            `json:"name"`
	PlanId         string            `json:"planId"`
	Frequency      string            `json:"frequency"`
	OnceAt         *time.Time        `json:"onceAt,omitempty"`
	RetryPolicy    int               `json:"retryPolicy"`
	NotifyOverride *NotifyOverride   `json:"notifyOverride,omitempty"`
	Params         map[string]string `json:"params,omitempty"`
}

// UpdateScheduleReq patches a schedule. Nil pointer fields are left unchanged.
type UpdateScheduleReq struct {
	Name           *string           `json:"name,omitempty"`
	Frequency      *string           `json:"frequency,omitempty"`
	OnceAt         *time.Time        `json:"onceAt,omitempty"`
	IsActive       *int              `json:"isActive,omitempty"`
	RetryPolicy    *int              `json:"retryPolicy,omitempty"`
	NotifyOverride *NotifyOverride   `json:"notifyOverride,omitempty"`
	Params         map[string]string `json:"params,omitempty"`
}

// SelectedTestReq references one test by type when composing a plan.
type SelectedTestReq struct {
	TestType  string `json:"testType"`
	TestId    string `json:"testId"`
	SortOrder int    `json:"sortOrder"`
}

// CreatePlanReq creates a plan, optionally with its initial test selection.
type CreatePlanReq struct {
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	ScreenshotPolicy string            `json:"screenshotPolicy"`
	PageTimeout      int               `json:"pageTimeout"`
	ElementTimeout   int               `json:"elementTimeout"`
	OnStepFailure    string            `json:"onStepFailure"`
	OnCaseAborted    string            `json:"onCaseAborted"`
	OnPrereqFailure  string            `json:"onPrereqFailure"`
	RerunOnFailure   int               `json:"rerunOnFailure"`
	NotifyOnFailure  int               `json:"notifyOnFailure"`
	NotifyOnSuccess  int               `json:"notifyOnSuccess"`
	Tests            []SelectedTestReq `json:"tests,omitempty"`
}

// PlanDetail is a plan with its resolved test selection.
type PlanDetail struct {
	Plan  *TestPlan       `json:"plan"`
	Tests []*SelectedTest `json:"tests"`
}

// ExecutionDetail is an execution with its case rows.
type ExecutionDetail struct {
	Execution *PlanExecution    `json:"execution"`
	Cases     []*TestCaseResult `json:"cases"`
}
