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

// PlanExecution is one concrete, timestamped run of a test plan.
// Status moves pending -> running -> {completed|failed|error} exactly once.
type PlanExecution struct {
	BaseModel
	ExecutionId  string     `gorm:"column:execution_id;type:VARCHAR(64);uniqueIndex" json:"executionId"`
	PlanId       string     `gorm:"column:plan_id;type:VARCHAR(64);index" json:"planId"`
	ScheduleId   string     `gorm:"column:schedule_id;type:VARCHAR(64);index" json:"scheduleId,omitempty"`
	TriggerType  string     `gorm:"column:trigger_type;type:VARCHAR(16)" json:"triggerType"`
	Status       string     `gorm:"column:status;type:VARCHAR(16)" json:"status"`
	ErrorMessage string     `gorm:"column:error_message;type:TEXT" json:"errorMessage,omitempty"`
	StartTime    *time.Time `gorm:"column:start_time" json:"startTime,omitempty"`
	EndTime      *time.Time `gorm:"column:end_time" json:"endTime,omitempty"`
	DurationMs   int64      `gorm:"column:duration_ms" json:"durationMs"`
	TotalTests   int        `gorm:"column:total_tests" json:"totalTests"`
	PassedTests  int        `gorm:"column:passed_tests" json:"passedTests"`
	FailedTests  int        `gorm:"column:failed_tests" json:"failedTests"`
	SkippedTests int        `gorm:"column:skipped_tests" json:"skippedTests"`
}

func (PlanExecution) TableName() string {
	return "t_plan_execution"
}

const (
	ExecutionStatusPending   = "pending"
	ExecutionStatusRunning   = "running"
	ExecutionStatusCompleted = "completed"
	ExecutionStatusFailed    = "failed"
	ExecutionStatusError     = "error"
)

// StepResult is one recorded step outcome inside a case result.
type StepResult struct {
	Index      int    `json:"index"`
	Action     string `json:"action"`
	Status     string `json:"status"` // passed/failed
	Message    string `json:"message,omitempty"`
	Screenshot string `json:"screenshot,omitempty"` // persisted artifact path, empty when inline-only
}

// TestCaseResult is the outcome of one test within one execution.
type TestCaseResult struct {
	BaseModel
	ExecutionId   string       `gorm:"column:execution_id;type:VARCHAR(64);index" json:"executionId"`
	TestType      string       `gorm:"column:test_type;type:VARCHAR(16)" json:"testType"`
	TestId        string       `gorm:"column:test_id;type:VARCHAR(64)" json:"testId"`
	TestName      string       `gorm:"column:test_name" json:"testName"`
	Status        string       `gorm:"column:status;type:VARCHAR(16)" json:"status"`
	FailureReason string       `gorm:"column:failure_reason;type:TEXT" json:"failureReason,omitempty"`
	ArtifactPath  string       `gorm:"column:artifact_path" json:"artifactPath,omitempty"`
	Steps         []StepResult `gorm:"column:steps;type:json;serializer:json" json:"steps,omitempty"`
	StartTime     *time.Time   `gorm:"column:start_time" json:"startTime,omitempty"`
	EndTime       *time.Time   `gorm:"column:end_time" json:"endTime,omitempty"`
	DurationMs    int64        `gorm:"column:duration_ms" json:"durationMs"`
}

func (TestCaseResult) TableName() string {
	return "t_test_case_result"
}

const (
	CaseStatusPending = "pending"
	CaseStatusPassed  = "passed"
	CaseStatusFailed  = "failed"
	CaseStatusSkipped = "skipped"
	CaseStatusError   = "error"
)
