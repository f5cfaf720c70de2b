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

// Package orchestrator runs one test plan end to end: it creates the
// execution record, drives each selected test through the dispatcher,
// tolerates per-test failure, derives the terminal status and persists the
// report. Selected tests run sequentially: the browser engine is a shared
// collaborator and artifact paths stay collision-free without coordination.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/veritrix/veridex/internal/engine/model"
	"github.com/veritrix/veridex/internal/engine/repo"
	"github.com/veritrix/veridex/internal/pkg/runner"
	"github.com/veritrix/veridex/pkg/log"
	"github.com/veritrix/veridex/pkg/metrics"
)

// Config carries engine-level defaults into the orchestrator.
type Config struct {
	ArtifactRoot          string
	DefaultPageTimeout    time.Duration
	DefaultElementTimeout time.Duration
	APIRequestTimeout     time.Duration
}

// Summary is the in-memory execution result returned to the caller.
// It mirrors the persisted row; FinalizeErr is set when the terminal row
// update failed and the persisted state may lag this summary.
type Summary struct {
	ExecutionId  string `json:"executionId"`
	PlanId       string `json:"planId"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	TotalTests   int    `json:"totalTests"`
	PassedTests  int    `json:"passedTests"`
	FailedTests  int    `json:"failedTests"`
	SkippedTests int    `json:"skippedTests"`
	DurationMs   int64  `json:"durationMs"`

	FinalizeErr error `json:"-"`
}

// Orchestrator executes test plans.
type Orchestrator struct {
	plans      repo.ITestPlanRepository
	executions repo.IExecutionRepository
	dispatcher *runner.Dispatcher
	cfg        Config
}

// New creates an orchestrator.
func New(plans repo.ITestPlanRepository, executions repo.IExecutionRepository, dispatcher *runner.Dispatcher, cfg Config) *Orchestrator {
	if cfg.ArtifactRoot == "" {
		cfg.ArtifactRoot = "results"
	}
	return &Orchestrator{plans: plans, executions: executions, dispatcher: dispatcher, cfg: cfg}
}

// RunPlan executes plan planId once and returns the summary. scheduleId is
// empty for manual triggers.
func (o *Orchestrator) RunPlan(ctx context.Context, planId, scheduleId, triggerType string) (*Summary, error) {
	plan, err := o.plans.GetPlan(ctx, planId)
	if err != nil {
		return nil, fmt.Errorf("load plan %s: %w", planId, err)
	}
	if plan == nil {
		// Best-effort error marker; the plan reference itself is broken.
		summary := o.errorMarker(ctx, planId, scheduleId, triggerType, fmt.Sprintf("test plan %s not found", planId))
		return summary, nil
	}

	links, err := o.plans.ListSelectedTests(ctx, planId)
	if err != nil {
		return nil, fmt.Errorf("load selected tests of plan %s: %w", planId, err)
	}

	started := time.Now().UTC()
	execution := &model.PlanExecution{
		ExecutionId: uuid.NewString(),
		PlanId:      planId,
		ScheduleId:  scheduleId,
		TriggerType: triggerType,
		Status:      model.ExecutionStatusRunning,
		StartTime:   &started,
		TotalTests:  len(links),
	}
	if err := o.executions.CreateExecution(ctx, execution); err != nil {
		return nil, fmt.Errorf("create execution for plan %s: %w", planId, err)
	}

	log.Infow("plan execution started", "plan", planId, "execution", execution.ExecutionId, "tests", len(links), "trigger", triggerType)

	// The artifact root is created once, before any test runs. This is the
	// single condition under which no individual tests run at all.
	executionDir := filepath.Join(o.cfg.ArtifactRoot, planId, execution.ExecutionId)
	if err := os.MkdirAll(executionDir, 0o755); err != nil {
		reason := fmt.Sprintf("create artifact directory: %v", err)
		return o.finalize(ctx, execution, started, model.ExecutionStatusError, reason, nil), nil
	}

	for _, link := range links {
		caseResult := o.runCase(ctx, plan, link, executionDir)
		caseResult.ExecutionId = execution.ExecutionId
		metrics.ObserveCaseResult(caseResult.Status)
		if err := o.executions.CreateCaseResult(ctx, caseResult); err != nil {
			// Best-effort reporting beats a stalled batch.
			log.Warnw("failed to persist case result", "execution", execution.ExecutionId, "test", caseResult.TestId, "error", err)
		}
	}

	// Aggregate from the persisted rows so the report reflects what an
	// auditor will actually find.
	rows, err := o.executions.ListCaseResults(ctx, execution.ExecutionId)
	if err != nil {
		log.Errorw("failed to re-read case results, aggregating may undercount", "execution", execution.ExecutionId, "error", err)
	}

	status, counts := deriveStatus(rows, len(links))
	return o.finalize(ctx, execution, started, status, "", &counts), nil
}

type aggregate struct {
	total   int
	passed  int
	failed  int
	skipped int
}

// deriveStatus computes the terminal status and counts from persisted rows.
// Any error or failed case fails the execution; an empty plan completes.
func deriveStatus(rows []*model.TestCaseResult, selected int) (string, aggregate) {
	agg := aggregate{total: len(rows)}
	bad := false
	for _, row := range rows {
		switch row.Status {
		case model.CaseStatusPassed:
			agg.passed++
		case model.CaseStatusSkipped:
			agg.skipped++
		default:
			// failed and error cases both count against the plan
			agg.failed++
			bad = true
		}
	}
	if selected == 0 {
		return model.ExecutionStatusCompleted, agg
	}
	if bad {
		return model.ExecutionStatusFailed, agg
	}
	return model.ExecutionStatusCompleted, agg
}

// runCase resolves and runs one selected test, never failing the batch.
func (o *Orchestrator) runCase(ctx context.Context, plan *model.TestPlan, link *model.SelectedTest, executionDir string) *model.TestCaseResult {
	started := time.Now().UTC()
	result := &model.TestCaseResult{
		TestType:  link.TestType,
		TestId:    link.TestId(),
		StartTime: &started,
	}
	finish := func(status, reason string) *model.TestCaseResult {
		ended := time.Now().UTC()
		result.EndTime = &ended
		result.DurationMs = ended.Sub(started).Milliseconds()
		result.Status = status
		result.FailureReason = reason
		return result
	}

	def, err := o.resolveDefinition(ctx, link)
	if err != nil {
		// A broken reference must not abort the batch.
		log.Warnw("selected test could not be resolved", "plan", plan.PlanId, "type", link.TestType, "test", link.TestId(), "error", err)
		return finish(model.CaseStatusError, err.Error())
	}
	result.TestName = def.TestName()

	caseDir := filepath.Join(executionDir, fmt.Sprintf("%s_%s", def.TestType(), def.TestId()))
	if err := os.MkdirAll(caseDir, 0o755); err != nil {
		return finish(model.CaseStatusError, fmt.Sprintf("create case artifact directory: %v", err))
	}

	run := o.dispatcher.Run(ctx, def, o.executionConfig(plan), caseDir)
	result.Steps = run.Steps
	result.ArtifactPath = run.ArtifactPath
	return finish(run.Status, run.Error)
}

// resolveDefinition maps a selected-test link onto its typed definition.
// This is the deserialization boundary where the string tag disappears.
func (o *Orchestrator) resolveDefinition(ctx context.Context, link *model.SelectedTest) (runner.Definition, error) {
	switch link.TestType {
	case model.TestTypeUI:
		test, err := o.plans.GetUITest(ctx, link.UITestId)
		if err != nil {
			return nil, fmt.Errorf("load ui test %s: %w", link.UITestId, err)
		}
		if test == nil {
			return nil, fmt.Errorf("ui test %s not found", link.UITestId)
		}
		return runner.UIDefinition{Test: test}, nil
	case model.TestTypeAPI:
		test, err := o.plans.GetAPITest(ctx, link.APITestId)
		if err != nil {
			return nil, fmt.Errorf("load api test %s: %w", link.APITestId, err)
		}
		if test == nil {
			return nil, fmt.Errorf("api test %s not found", link.APITestId)
		}
		return runner.APIDefinition{Test: test}, nil
	}
	return nil, fmt.Errorf("unknown test type %q", link.TestType)
}

// executionConfig merges plan settings over engine defaults.
func (o *Orchestrator) executionConfig(plan *model.TestPlan) runner.ExecutionConfig {
	cfg := runner.ExecutionConfig{
		ScreenshotPolicy: plan.ScreenshotPolicy,
		PageTimeout:      o.cfg.DefaultPageTimeout,
		ElementTimeout:   o.cfg.DefaultElementTimeout,
		APITimeout:       o.cfg.APIRequestTimeout,
	}
	if cfg.ScreenshotPolicy == "" {
		cfg.ScreenshotPolicy = model.ScreenshotOnFailure
	}
	if plan.PageTimeout > 0 {
		cfg.PageTimeout = time.Duration(plan.PageTimeout) * time.Second
	}
	if plan.ElementTimeout > 0 {
		cfg.ElementTimeout = time.Duration(plan.ElementTimeout) * time.Second
	}
	return cfg
}

// finalize persists the terminal execution state and builds the summary.
// A failure here is a distinct, higher-severity condition: the caller still
// receives the in-memory result, flagged via FinalizeErr.
func (o *Orchestrator) finalize(ctx context.Context, execution *model.PlanExecution, started time.Time, status, reason string, counts *aggregate) *Summary {
	ended := time.Now().UTC()
	duration := ended.Sub(started)

	summary := &Summary{
		ExecutionId:  execution.ExecutionId,
		PlanId:       execution.PlanId,
		Status:       status,
		ErrorMessage: reason,
		DurationMs:   duration.Milliseconds(),
	}
	updates := map[string]any{
		"status":        status,
		"error_message": reason,
		"end_time":      &ended,
		"duration_ms":   duration.Milliseconds(),
	}
	if counts != nil {
		summary.TotalTests = counts.total
		summary.PassedTests = counts.passed
		summary.FailedTests = counts.failed
		summary.SkippedTests = counts.skipped
		updates["total_tests"] = counts.total
		updates["passed_tests"] = counts.passed
		updates["failed_tests"] = counts.failed
		updates["skipped_tests"] = counts.skipped
	}

	metrics.ObserveExecution(status, duration.Seconds())

	if err := o.executions.UpdateExecution(ctx, execution.ExecutionId, updates); err != nil {
		log.Errorw("FAILED TO PERSIST EXECUTION SUMMARY, report is degraded",
			"execution", execution.ExecutionId, "plan", execution.PlanId, "status", status, "error", err)
		summary.FinalizeErr = err
		return summary
	}

	log.Infow("plan execution finished", "plan", execution.PlanId, "execution", execution.ExecutionId,
		"status", status, "passed", summary.PassedTests, "failed", summary.FailedTests, "duration", duration)
	return summary
}

// errorMarker records a best-effort error execution for a missing plan.
func (o *Orchestrator) errorMarker(ctx context.Context, planId, scheduleId, triggerType, reason string) *Summary {
	now := time.Now().UTC()
	execution := &model.PlanExecution{
		ExecutionId:  uuid.NewString(),
		PlanId:       planId,
		ScheduleId:   scheduleId,
		TriggerType:  triggerType,
		Status:       model.ExecutionStatusError,
		ErrorMessage: reason,
		StartTime:    &now,
		EndTime:      &now,
	}
	if err := o.executions.CreateExecution(ctx, execution); err != nil {
		log.Warnw("failed to persist error marker execution", "plan", planId, "error", err)
	}
	metrics.ObserveExecution(model.ExecutionStatusError, 0)
	return &Summary{
		ExecutionId:  execution.ExecutionId,
		PlanId:       planId,
		Status:       model.ExecutionStatusError,
		ErrorMessage: reason,
	}
}
