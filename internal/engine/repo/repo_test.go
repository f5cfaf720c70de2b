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
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/veritrix/veridex/internal/engine/model"
)

type testDB struct {
	db *gorm.DB
}

func (t *testDB) Database() *gorm.DB { return t.db }

func openTestDB(t *testing.T) *testDB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &testDB{db: db}
}

func TestScheduleRepoLifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewScheduleRepo(openTestDB(t))

	next := time.Date(2026, 9, 1, 2, 0, 0, 0, time.UTC)
	s := &model.Schedule{
		ScheduleId: "sched-1",
		Name:       "nightly",
		PlanId:     "plan-1",
		Frequency:  "daily@02:00",
		NextRunAt:  &next,
		IsActive:   model.ScheduleActive,
		Params:     map[string]string{"env": "staging"},
	}
	if err := r.Create(ctx, s); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := r.Get(ctx, "sched-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Name != "nightly" || got.Params["env"] != "staging" {
		t.Fatalf("unexpected schedule: %+v", got)
	}
	if got.NextRunAt == nil || !got.NextRunAt.Equal(next) {
		t.Errorf("next_run_at = %v, want %v", got.NextRunAt, next)
	}

	absent, err := r.Get(ctx, "missing")
	if err != nil || absent != nil {
		t.Fatalf("absent get = %v, %v; want nil, nil", absent, err)
	}

	active, err := r.ListActive(ctx)
	if err != nil || len(active) != 1 {
		t.Fatalf("list active = %d, %v; want 1", len(active), err)
	}

	later := next.Add(24 * time.Hour)
	if err := r.SetNextRun(ctx, "sched-1", &later); err != nil {
		t.Fatalf("set next run: %v", err)
	}
	got, _ = r.Get(ctx, "sched-1")
	if !got.NextRunAt.Equal(later) {
		t.Errorf("next_run_at = %v, want %v", got.NextRunAt, later)
	}

	if err := r.Deactivate(ctx, "sched-1"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	got, _ = r.Get(ctx, "sched-1")
	if got.Active() || got.NextRunAt != nil {
		t.Errorf("deactivated schedule = active=%d next=%v", got.IsActive, got.NextRunAt)
	}

	active, _ = r.ListActive(ctx)
	if len(active) != 0 {
		t.Errorf("active after deactivate = %d, want 0", len(active))
	}

	if err := r.Delete(ctx, "sched-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = r.Get(ctx, "sched-1")
	if err != nil || got != nil {
		t.Fatalf("get after delete = %v, %v; want nil, nil", got, err)
	}
}

func TestScheduleRepoListFilters(t *testing.T) {
	ctx := context.Background()
	r := NewScheduleRepo(openTestDB(t))

	for _, s := range []*model.Schedule{
		{ScheduleId: "s1", PlanId: "p1", Frequency: "daily@02:00", IsActive: model.ScheduleActive},
		{ScheduleId: "s2", PlanId: "p1", Frequency: "daily@03:00", IsActive: model.ScheduleInactive},
		{ScheduleId: "s3", PlanId: "p2", Frequency: "daily@04:00", IsActive: model.ScheduleActive},
	} {
		if err := r.Create(ctx, s); err != nil {
			t.Fatalf("create %s: %v", s.ScheduleId, err)
		}
	}

	list, total, err := r.List(ctx, &ScheduleQuery{PlanId: "p1"})
	if err != nil || total != 2 || len(list) != 2 {
		t.Fatalf("plan filter: total=%d len=%d err=%v", total, len(list), err)
	}

	active := true
	list, total, err = r.List(ctx, &ScheduleQuery{Active: &active})
	if err != nil || total != 2 {
		t.Fatalf("active filter: total=%d err=%v", total, err)
	}
	for _, s := range list {
		if !s.Active() {
			t.Errorf("inactive schedule %s in active listing", s.ScheduleId)
		}
	}
}

func TestSelectedTestOrderingAndValidation(t *testing.T) {
	ctx := context.Background()
	r := NewTestPlanRepo(openTestDB(t))

	if err := r.CreatePlan(ctx, &model.TestPlan{PlanId: "plan-1", Name: "smoke"}); err != nil {
		t.Fatalf("create plan: %v", err)
	}

	links := []*model.SelectedTest{
		{PlanId: "plan-1", TestType: model.TestTypeUI, UITestId: "ui-2", SortOrder: 1},
		{PlanId: "plan-1", TestType: model.TestTypeAPI, APITestId: "api-1", SortOrder: 0},
		{PlanId: "plan-1", TestType: model.TestTypeUI, UITestId: "ui-1", SortOrder: 0},
	}
	for _, l := range links {
		if err := r.AddSelectedTest(ctx, l); err != nil {
			t.Fatalf("add link: %v", err)
		}
	}

	// both references set violates the exactly-one invariant
	err := r.AddSelectedTest(ctx, &model.SelectedTest{
		PlanId: "plan-1", TestType: model.TestTypeUI, UITestId: "ui-3", APITestId: "api-3",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	got, err := r.ListSelectedTests(ctx, "plan-1")
	if err != nil {
		t.Fatalf("list links: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("links = %d, want 3", len(got))
	}
	// sort_order first, insertion order breaking ties
	want := []string{"api-1", "ui-1", "ui-2"}
	for i, id := range want {
		if got[i].TestId() != id {
			t.Errorf("link[%d] = %s, want %s", i, got[i].TestId(), id)
		}
	}
}

func TestExecutionRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewExecutionRepo(openTestDB(t))

	start := time.Now().UTC().Truncate(time.Second)
	exec := &model.PlanExecution{
		ExecutionId: "exec-1",
		PlanId:      "plan-1",
		TriggerType: model.TriggerTypeScheduled,
		Status:      model.ExecutionStatusRunning,
		StartTime:   &start,
	}
	if err := r.CreateExecution(ctx, exec); err != nil {
		t.Fatalf("create execution: %v", err)
	}

	for i, status := range []string{model.CaseStatusPassed, model.CaseStatusFailed} {
		err := r.CreateCaseResult(ctx, &model.TestCaseResult{
			ExecutionId: "exec-1",
			TestType:    model.TestTypeUI,
			TestId:      "ui-" + string(rune('a'+i)),
			Status:      status,
			Steps: []model.StepResult{
				{Index: 0, Action: "navigate", Status: model.CaseStatusPassed},
			},
		})
		if err != nil {
			t.Fatalf("create case: %v", err)
		}
	}

	end := start.Add(time.Minute)
	err := r.UpdateExecution(ctx, "exec-1", map[string]any{
		"status":       model.ExecutionStatusFailed,
		"end_time":     &end,
		"duration_ms":  int64(60000),
		"total_tests":  2,
		"passed_tests": 1,
		"failed_tests": 1,
	})
	if err != nil {
		t.Fatalf("update execution: %v", err)
	}

	got, err := r.GetExecution(ctx, "exec-1")
	if err != nil || got == nil {
		t.Fatalf("get execution: %v, %v", got, err)
	}
	if got.Status != model.ExecutionStatusFailed || got.PassedTests != 1 || got.FailedTests != 1 {
		t.Errorf("unexpected execution: %+v", got)
	}

	cases, err := r.ListCaseResults(ctx, "exec-1")
	if err != nil || len(cases) != 2 {
		t.Fatalf("cases = %d, %v; want 2", len(cases), err)
	}
	if cases[0].Status != model.CaseStatusPassed || len(cases[0].Steps) != 1 {
		t.Errorf("unexpected first case: %+v", cases[0])
	}

	list, total, err := r.ListExecutions(ctx, &ExecutionQuery{PlanId: "plan-1", Status: model.ExecutionStatusFailed})
	if err != nil || total != 1 || len(list) != 1 {
		t.Fatalf("list executions: total=%d len=%d err=%v", total, len(list), err)
	}
}
