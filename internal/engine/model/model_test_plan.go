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

import "fmt"

// TestPlan is a named, configured collection of test references.
type TestPlan struct {
	BaseModel
	PlanId           string `gorm:"column:plan_id;type:VARCHAR(64);uniqueIndex" json:"planId"`
	Name             string `gorm:"column:name" json:"name"`
	Description      string `gorm:"column:description" json:"description"`
	ScreenshotPolicy string `gorm:"column:screenshot_policy;type:VARCHAR(32)" json:"screenshotPolicy"` // always/on-failure/never
	PageTimeout      int    `gorm:"column:page_timeout" json:"pageTimeout"`       // seconds
	ElementTimeout   int    `gorm:"column:element_timeout" json:"elementTimeout"` // seconds
	OnStepFailure    string `gorm:"column:on_step_failure;type:VARCHAR(32)" json:"onStepFailure"`   // abort-case/continue
	OnCaseAborted    string `gorm:"column:on_case_aborted;type:VARCHAR(32)" json:"onCaseAborted"`   // continue-plan/abort-plan
	OnPrereqFailure  string `gorm:"column:on_prereq_failure;type:VARCHAR(32)" json:"onPrereqFailure"` // skip-dependents/continue
	RerunOnFailure   int    `gorm:"column:rerun_on_failure" json:"rerunOnFailure"`
	NotifyOnFailure  int    `gorm:"column:notify_on_failure" json:"notifyOnFailure"` // 0: off, 1: on
	NotifyOnSuccess  int    `gorm:"column:notify_on_success" json:"notifyOnSuccess"` // 0: off, 1: on
}

func (TestPlan) TableName() string {
	return "t_test_plan"
}

const (
	ScreenshotAlways    = "always"
	ScreenshotOnFailure = "on-failure"
	ScreenshotNever     = "never"
)

// TestType discriminates the two selectable test kinds.
const (
	TestTypeUI  = "ui"
	TestTypeAPI = "api"
)

// SelectedTest joins a plan to one concrete test reference.
// Exactly one of UITestId / APITestId is populated, matching TestType.
type SelectedTest struct {
	BaseModel
	PlanId    string `gorm:"column:plan_id;type:VARCHAR(64);index" json:"planId"`
	TestType  string `gorm:"column:test_type;type:VARCHAR(16)" json:"testType"`
	UITestId  string `gorm:"column:ui_test_id;type:VARCHAR(64)" json:"uiTestId,omitempty"`
	APITestId string `gorm:"column:api_test_id;type:VARCHAR(64)" json:"apiTestId,omitempty"`
	SortOrder int    `gorm:"column:sort_order" json:"sortOrder"`
}

func (SelectedTest) TableName() string {
	return "t_selected_test"
}

// TestId returns the populated reference for the link's type.
func (s *SelectedTest) TestId() string {
	if s.TestType == TestTypeUI {
		return s.UITestId
	}
	return s.APITestId
}

// Validate enforces the exactly-one-reference invariant.
func (s *SelectedTest) Validate() error {
	switch s.TestType {
	case TestTypeUI:
		if s.UITestId == "" || s.APITestId != "" {
			return fmt.Errorf("selected test of type ui must set uiTestId only")
		}
	case TestTypeAPI:
		if s.APITestId == "" || s.UITestId != "" {
			return fmt.Errorf("selected test of type api must set apiTestId only")
		}
	default:
		return fmt.Errorf("unknown test type %q", s.TestType)
	}
	return nil
}

// UIAction is one ordered browser action of a UI test.
type UIAction struct {
	Action   string `json:"action"` // navigate/click/fill/assert-text/wait
	Selector string `json:"selector,omitempty"`
	Value    string `json:"value,omitempty"`
}

// UITest is an ordered browser action sequence.
type UITest struct {
	BaseModel
	TestId   string     `gorm:"column:test_id;type:VARCHAR(64);uniqueIndex" json:"testId"`
	Name     string     `gorm:"column:name" json:"name"`
	StartURL string     `gorm:"column:start_url" json:"startUrl"`
	Actions  []UIAction `gorm:"column:actions;type:json;serializer:json" json:"actions"`
}

func (UITest) TableName() string {
	return "t_ui_test"
}

// APITest is one HTTP request with declared assertions.
type APITest struct {
	BaseModel
	TestId         string            `gorm:"column:test_id;type:VARCHAR(64);uniqueIndex" json:"testId"`
	Name           string            `gorm:"column:name" json:"name"`
	Method         string            `gorm:"column:method;type:VARCHAR(16)" json:"method"`
	URL            string            `gorm:"column:url" json:"url"`
	Headers        map[string]string `gorm:"column:headers;type:json;serializer:json" json:"headers,omitempty"`
	Body           string            `gorm:"column:body;type:TEXT" json:"body,omitempty"`
	ExpectedStatus []int             `gorm:"column:expected_status;type:json;serializer:json" json:"expectedStatus,omitempty"`
	BodyContains   string            `gorm:"column:body_contains" json:"bodyContains,omitempty"`
	Timeout        int               `gorm:"column:timeout" json:"timeout"` // seconds
}

func (APITest) TableName() string {
	return "t_api_test"
}
