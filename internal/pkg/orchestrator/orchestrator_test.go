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

package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritrix/veridex/internal/engine/model"
	"github.com/veritrix/veridex/internal/engine/repo"
	"github.com/veritrix/veridex/internal/pkg/runner"
)

type memPlanRepo struct {
	plans map[string]*model.TestPlan
	links map[string][]*model.SelectedTest
	ui    map[string]*model.UITest
	api   map[string]*model.APITest
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{
		plans: map[string]*model.TestPlan{},
		links: map[string][]*model.SelectedTest{},
		ui:    map[string]*model.UITest{},
		api:   map[string]*model.APITest{},
	}
}

func (m *memPlanRepo) CreatePlan(ctx context.Context, plan *model.TestPlan) error {
	m.plans[plan.PlanId] = plan
	return nil
}

func (m *memPlanRepo) GetPlan(ctx context.Context, planId string) (*model.TestPlan, error) {
	return m.plans[planId], nil
}

func (m *memPlanRepo) ListPlans(ctx context.Context, page, pageSize int) ([]*model.TestPlan, int64, error) {
	return nil, 0, nil
}

func (m *memPlanRepo) AddSelectedTest(ctx context.Context, link *model.SelectedTest) error {
	if err := link.Validate(); err != nil {
		return err
	}
	m.links[link.PlanId] = append(m.links[link.PlanId], link)
	return nil
}

func (m *memPlanRepo) ListSelectedTests(ctx context.Context, planId string) ([]*model.SelectedTest, error) {
	return m.links[planId], nil
}

func (m *memPlanRepo) CreateUITest(ctx context.Context, test *model.UITest) error {
	m.ui[test.TestId] = test
	return nil
}

func (m *memPlanRepo) GetUITest(ctx context.Context, testId string) (*model.UITest, error) {
	return m.ui[testId], nil
}

func (m *memPlanRepo) CreateAPITest(ctx context.Context, test *model.APITest) error {
	m.api[test.TestId] = test
	return nil
}

func (m *memPlanRepo) GetAPITest(ctx context.Context, testId string) (*model.APITest, error) {
	return m.api[testId], nil
}

type memExecutionRepo struct {
	executions map[string]*model.PlanExecution
	updates    map[string]map[string]any
	cases      map[string][]*model.TestCaseResult

	failCaseWrites bool
	failFinalize   bool
}

func newMemExecutionRepo() *memExecutionRepo {
	return &memExecutionRepo{
		executions: map[string]*model.PlanExecution{},
		updates:    map[string]map[string]any{},
		cases:      map[string][]*model.TestCaseResult{},
	}
}

func (m *memExecutionRepo) CreateExecution(ctx context.Context, execution *model.PlanExecution) error {
	m.executions[execution.ExecutionId] = execution
	return nil
}

func (m *memExecutionRepo) UpdateExecution(ctx context.Context, executionId string, updates map[string]any) error {
	if m.failFinalize {
		return fmt.Errorf("database is gone")
	}
	m.updates[executionId] = updates
	return nil
}

func (m *memExecutionRepo) GetExecution(ctx context.Context, executionId string) (*model.PlanExecution, error) {
	return m.executions[executionId], nil
}

func (m *memExecutionRepo) ListExecutions(ctx context.Context, query *repo.ExecutionQuery) ([]*model.PlanExecution, int64, error) {
	return nil, 0, nil
}

func (m *memExecutionRepo) CreateCaseResult(ctx context.Context, result *model.TestCaseResult) error {
	if m.failCaseWrites {
		return fmt.Errorf("disk full")
	}
	m.cases[result.ExecutionId] = append(m.cases[result.ExecutionId], result)
	return nil
}

func (m *memExecutionRepo) ListCaseResults(ctx context.Context, executionId string) ([]*model.TestCaseResult, error) {
	return m.cases[executionId], nil
}

type scriptedBrowser struct {
	// failOn maps test ids whose sequence reports a failed step
	failOn map[string]bool
}

func (s *scriptedBrowser) ExecuteSequence(test *model.UITest, cfg runner.ExecutionConfig, artifactDir string) (*runner.SequenceResult, error) {
	if s.failOn[test.TestId] {
		return &runner.SequenceResult{
			Success: false,
			Steps: []model.StepResult{
				{Index: 0, Action: "navigate", Status: model.CaseStatusPassed},
				{Index: 1, Action: "assert", Status: model.CaseStatusFailed, Message: "assertion failed", Screenshot: filepath.Join(artifactDir, "step_1.png")},
			},
		}, nil
	}
	return &runner.SequenceResult{
		Success: true,
		Steps: []model.StepResult{
			{Index: 0, Action: "navigate", Status: model.CaseStatusPassed},
		},
	}, nil
}

func fixture(t *testing.T, browser runner.BrowserEngine) (*Orchestrator, *memPlanRepo, *memExecutionRepo) {
	t.Helper()
	plans := newMemPlanRepo()
	executions := newMemExecutionRepo()
	dispatcher := runner.NewDispatcher(browser, runner.NewAPIExecutor())
	o := New(plans, executions, dispatcher, Config{ArtifactRoot: t.TempDir()})
	return o, plans, executions
}

func seedUIPlan(t *testing.T, plans *memPlanRepo, planId string, testIds ...string) {
	t.Helper()
	require.NoError(t, plans.CreatePlan(context.Background(), &model.TestPlan{PlanId: planId, Name: planId}))
	for i, id := range testIds {
		require.NoError(t, plans.CreateUITest(context.Background(), &model.UITest{TestId: id, Name: "test " + id}))
		require.NoError(t, plans.AddSelectedTest(context.Background(), &model.SelectedTest{
			PlanId: planId, TestType: model.TestTypeUI, UITestId: id, SortOrder: i,
		}))
	}
}

func TestRunPlanAllPassed(t *testing.T) {
	o, plans, executions := fixture(t, &scriptedBrowser{})
	seedUIPlan(t, plans, "plan-1", "ui-a", "ui-b")

	summary, err := o.RunPlan(context.Background(), "plan-1", "", model.TriggerTypeManual)
	require.NoError(t, err)

	assert.Equal(t, model.ExecutionStatusCompleted, summary.Status)
	assert.Equal(t, 2, summary.TotalTests)
	assert.Equal(t, 2, summary.PassedTests)
	assert.Equal(t, 0, summary.FailedTests)
	assert.Nil(t, summary.FinalizeErr)

	rows := executions.cases[summary.ExecutionId]
	require.Len(t, rows, 2)
	assert.Equal(t, "ui-a", rows[0].TestId)
	assert.Equal(t, model.CaseStatusPassed, rows[0].Status)

	updates := executions.updates[summary.ExecutionId]
	require.NotNil(t, updates)
	assert.Equal(t, model.ExecutionStatusCompleted, updates["status"])
}

func TestRunPlanOneFailedTestFailsPlan(t *testing.T) {
	o, plans, executions := fixture(t, &scriptedBrowser{failOn: map[string]bool{"ui-b": true}})
	seedUIPlan(t, plans, "plan-1", "ui-a", "ui-b", "ui-c")

	summary, err := o.RunPlan(context.Background(), "plan-1", "", model.TriggerTypeManual)
	require.NoError(t, err)

	assert.Equal(t, model.ExecutionStatusFailed, summary.Status)
	assert.Equal(t, 3, summary.TotalTests)
	assert.Equal(t, 2, summary.PassedTests)
	assert.Equal(t, 1, summary.FailedTests)

	rows := executions.cases[summary.ExecutionId]
	require.Len(t, rows, 3)
	assert.Equal(t, model.CaseStatusFailed, rows[1].Status)
	assert.Equal(t, "assertion failed", rows[1].FailureReason)
	assert.NotEmpty(t, rows[1].ArtifactPath)
	// failure of one test never stops the rest
	assert.Equal(t, model.CaseStatusPassed, rows[2].Status)
}

func TestRunPlanMissingPlan(t *testing.T) {
	o, _, executions := fixture(t, &scriptedBrowser{})

	summary, err := o.RunPlan(context.Background(), "absent", "", model.TriggerTypeManual)
	require.NoError(t, err)

	assert.Equal(t, model.ExecutionStatusError, summary.Status)
	assert.Contains(t, summary.ErrorMessage, "not found")

	marker := executions.executions[summary.ExecutionId]
	require.NotNil(t, marker)
	assert.Equal(t, model.ExecutionStatusError, marker.Status)
	assert.Empty(t, executions.cases[summary.ExecutionId])
}

func TestRunPlanEmptyPlanCompletes(t *testing.T) {
	o, plans, _ := fixture(t, &scriptedBrowser{})
	require.NoError(t, plans.CreatePlan(context.Background(), &model.TestPlan{PlanId: "empty"}))

	summary, err := o.RunPlan(context.Background(), "empty", "", model.TriggerTypeManual)
	require.NoError(t, err)

	assert.Equal(t, model.ExecutionStatusCompleted, summary.Status)
	assert.Equal(t, 0, summary.TotalTests)
}

func TestRunPlanBrokenReferenceBecomesErrorCase(t *testing.T) {
	o, plans, executions := fixture(t, &scriptedBrowser{})
	require.NoError(t, plans.CreatePlan(context.Background(), &model.TestPlan{PlanId: "plan-1"}))
	// link to a definition that was deleted out from under the plan
	require.NoError(t, plans.AddSelectedTest(context.Background(), &model.SelectedTest{
		PlanId: "plan-1", TestType: model.TestTypeUI, UITestId: "gone",
	}))
	require.NoError(t, plans.CreateUITest(context.Background(), &model.UITest{TestId: "ui-ok", Name: "ok"}))
	require.NoError(t, plans.AddSelectedTest(context.Background(), &model.SelectedTest{
		PlanId: "plan-1", TestType: model.TestTypeUI, UITestId: "ui-ok", SortOrder: 1,
	}))

	summary, err := o.RunPlan(context.Background(), "plan-1", "", model.TriggerTypeManual)
	require.NoError(t, err)

	assert.Equal(t, model.ExecutionStatusFailed, summary.Status)
	rows := executions.cases[summary.ExecutionId]
	require.Len(t, rows, 2)
	assert.Equal(t, model.CaseStatusError, rows[0].Status)
	assert.Contains(t, rows[0].FailureReason, "not found")
	assert.Equal(t, model.CaseStatusPassed, rows[1].Status)
}

func TestRunPlanArtifactRootFailure(t *testing.T) {
	plans := newMemPlanRepo()
	executions := newMemExecutionRepo()
	dispatcher := runner.NewDispatcher(&scriptedBrowser{}, runner.NewAPIExecutor())

	// a file where the artifact root should be makes MkdirAll fail
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	o := New(plans, executions, dispatcher, Config{ArtifactRoot: blocker})
	seedUIPlan(t, plans, "plan-1", "ui-a")

	summary, err := o.RunPlan(context.Background(), "plan-1", "", model.TriggerTypeManual)
	require.NoError(t, err)

	assert.Equal(t, model.ExecutionStatusError, summary.Status)
	assert.Contains(t, summary.ErrorMessage, "artifact directory")
	assert.Empty(t, executions.cases[summary.ExecutionId])
}

func TestRunPlanCasePersistFailureDoesNotAbort(t *testing.T) {
	o, plans, executions := fixture(t, &scriptedBrowser{})
	executions.failCaseWrites = true
	seedUIPlan(t, plans, "plan-1", "ui-a", "ui-b")

	summary, err := o.RunPlan(context.Background(), "plan-1", "", model.TriggerTypeManual)
	require.NoError(t, err)

	// no persisted rows, so the aggregate sees an empty set of a non-empty plan
	assert.Equal(t, 0, summary.TotalTests)
	assert.NotNil(t, executions.updates[summary.ExecutionId])
}

func TestRunPlanFinalizeFailureFlagsSummary(t *testing.T) {
	o, plans, executions := fixture(t, &scriptedBrowser{})
	executions.failFinalize = true
	seedUIPlan(t, plans, "plan-1", "ui-a")

	summary, err := o.RunPlan(context.Background(), "plan-1", "", model.TriggerTypeManual)
	require.NoError(t, err)

	assert.Error(t, summary.FinalizeErr)
	assert.Equal(t, model.ExecutionStatusCompleted, summary.Status)
	assert.Equal(t, 1, summary.PassedTests)
}
