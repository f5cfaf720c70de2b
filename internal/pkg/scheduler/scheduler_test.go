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

package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritrix/veridex/internal/engine/model"
	"github.com/veritrix/veridex/internal/engine/repo"
	"github.com/veritrix/veridex/internal/pkg/orchestrator"
)

type runCall struct {
	planId      string
	scheduleId  string
	triggerType string
}

type fakeRunner struct {
	mu      sync.Mutex
	calls   []runCall
	status  string
	started chan struct{} // closed-ish: one send per call start
	release chan struct{} // when non-nil, RunPlan blocks on it
}

func newFakeRunner(status string) *fakeRunner {
	return &fakeRunner{status: status, started: make(chan struct{}, 16)}
}

func (f *fakeRunner) RunPlan(ctx context.Context, planId, scheduleId, triggerType string) (*orchestrator.Summary, error) {
	f.mu.Lock()
	f.calls = append(f.calls, runCall{planId, scheduleId, triggerType})
	release := f.release
	f.mu.Unlock()
	f.started <- struct{}{}
	if release != nil {
		<-release
	}
	return &orchestrator.Summary{ExecutionId: "exec-1", PlanId: planId, Status: f.status}, nil
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeScheduleRepo struct {
	mu          sync.Mutex
	nextRuns    map[string][]*time.Time
	deactivated map[string]bool
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{nextRuns: map[string][]*time.Time{}, deactivated: map[string]bool{}}
}

func (f *fakeScheduleRepo) Create(ctx context.Context, schedule *model.Schedule) error { return nil }
func (f *fakeScheduleRepo) Update(ctx context.Context, scheduleId string, updates map[string]any) error {
	return nil
}
func (f *fakeScheduleRepo) Get(ctx context.Context, scheduleId string) (*model.Schedule, error) {
	return nil, nil
}
func (f *fakeScheduleRepo) List(ctx context.Context, query *repo.ScheduleQuery) ([]*model.Schedule, int64, error) {
	return nil, 0, nil
}
func (f *fakeScheduleRepo) ListActive(ctx context.Context) ([]*model.Schedule, error) {
	return nil, nil
}
func (f *fakeScheduleRepo) Delete(ctx context.Context, scheduleId string) error { return nil }

func (f *fakeScheduleRepo) SetNextRun(ctx context.Context, scheduleId string, next *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextRuns[scheduleId] = append(f.nextRuns[scheduleId], next)
	return nil
}

func (f *fakeScheduleRepo) Deactivate(ctx context.Context, scheduleId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivated[scheduleId] = true
	return nil
}

func (f *fakeScheduleRepo) wasDeactivated(scheduleId string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deactivated[scheduleId]
}

func (f *fakeScheduleRepo) nextRunCount(scheduleId string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.nextRuns[scheduleId])
}

func soon(d time.Duration) *time.Time {
	t := time.Now().UTC().Add(d)
	return &t
}

func waitStarted(t *testing.T, r *fakeRunner) {
	t.Helper()
	select {
	case <-r.started:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a scheduled run")
	}
}

func TestFireRunsPlanAndRearms(t *testing.T) {
	runner := newFakeRunner(model.ExecutionStatusCompleted)
	repo := newFakeScheduleRepo()
	r := NewRegistry(repo, runner)

	r.AddJob(&model.Schedule{
		ScheduleId: "sched-1",
		PlanId:     "plan-1",
		Frequency:  "every_5_minutes",
		IsActive:   model.ScheduleActive,
		NextRunAt:  soon(10 * time.Millisecond),
	})
	defer r.Stop()

	waitStarted(t, runner)
	// let the completion path rearm
	assert.Eventually(t, func() bool {
		return repo.nextRunCount("sched-1") >= 1 && r.Armed("sched-1")
	}, 3*time.Second, 10*time.Millisecond)

	runner.mu.Lock()
	call := runner.calls[0]
	runner.mu.Unlock()
	assert.Equal(t, "plan-1", call.planId)
	assert.Equal(t, "sched-1", call.scheduleId)
	assert.Equal(t, model.TriggerTypeScheduled, call.triggerType)
}

func TestOnceScheduleRetires(t *testing.T) {
	runner := newFakeRunner(model.ExecutionStatusCompleted)
	repo := newFakeScheduleRepo()
	r := NewRegistry(repo, runner)

	r.AddJob(&model.Schedule{
		ScheduleId: "sched-once",
		PlanId:     "plan-1",
		Frequency:  "once",
		IsActive:   model.ScheduleActive,
		OnceAt:     soon(10 * time.Millisecond),
		NextRunAt:  soon(10 * time.Millisecond),
	})
	defer r.Stop()

	waitStarted(t, runner)
	assert.Eventually(t, func() bool {
		return repo.wasDeactivated("sched-once") && !r.Armed("sched-once")
	}, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, runner.callCount())
}

func TestRemovedScheduleNeverFires(t *testing.T) {
	runner := newFakeRunner(model.ExecutionStatusCompleted)
	r := NewRegistry(newFakeScheduleRepo(), runner)

	r.AddJob(&model.Schedule{
		ScheduleId: "sched-rm",
		PlanId:     "plan-1",
		Frequency:  "every_5_minutes",
		IsActive:   model.ScheduleActive,
		NextRunAt:  soon(50 * time.Millisecond),
	})
	r.RemoveJob("sched-rm")

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, runner.callCount())
	assert.False(t, r.Armed("sched-rm"))
}

func TestOverlappingFireIsSkipped(t *testing.T) {
	runner := newFakeRunner(model.ExecutionStatusCompleted)
	runner.release = make(chan struct{})
	repo := newFakeScheduleRepo()
	r := NewRegistry(repo, runner)

	r.AddJob(&model.Schedule{
		ScheduleId: "sched-slow",
		PlanId:     "plan-1",
		Frequency:  "every_1_minutes",
		IsActive:   model.ScheduleActive,
		NextRunAt:  soon(10 * time.Millisecond),
	})
	defer r.Stop()

	waitStarted(t, runner)

	// a second occurrence lands while the first run is still in flight
	r.mu.Lock()
	gen := r.jobs["sched-slow"].gen
	r.mu.Unlock()
	r.fire("sched-slow", gen)

	assert.Equal(t, 1, runner.callCount())
	require.GreaterOrEqual(t, repo.nextRunCount("sched-slow"), 1)
	assert.True(t, r.Armed("sched-slow"))

	close(runner.release)
	// the blocked run finishing must not double-arm or fire again
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, runner.callCount())
	assert.True(t, r.Armed("sched-slow"))
}

func TestRetryPolicyRerunsFailedExecution(t *testing.T) {
	runner := newFakeRunner(model.ExecutionStatusFailed)
	repo := newFakeScheduleRepo()
	r := NewRegistry(repo, runner)

	r.AddJob(&model.Schedule{
		ScheduleId:  "sched-retry",
		PlanId:      "plan-1",
		Frequency:   "every_5_minutes",
		IsActive:    model.ScheduleActive,
		RetryPolicy: model.RetryPolicyTwice,
		NextRunAt:   soon(10 * time.Millisecond),
	})
	defer r.Stop()

	assert.Eventually(t, func() bool {
		return runner.callCount() == 3
	}, 3*time.Second, 10*time.Millisecond)
}

func TestUpdateJobDisarmsInactiveSchedule(t *testing.T) {
	runner := newFakeRunner(model.ExecutionStatusCompleted)
	r := NewRegistry(newFakeScheduleRepo(), runner)

	s := &model.Schedule{
		ScheduleId: "sched-upd",
		PlanId:     "plan-1",
		Frequency:  "every_5_minutes",
		IsActive:   model.ScheduleActive,
		NextRunAt:  soon(time.Hour),
	}
	r.AddJob(s)
	require.True(t, r.Armed("sched-upd"))

	s.IsActive = model.ScheduleInactive
	r.UpdateJob(s)
	assert.False(t, r.Armed("sched-upd"))
}

func TestAddJobIgnoresInactive(t *testing.T) {
	r := NewRegistry(newFakeScheduleRepo(), newFakeRunner(model.ExecutionStatusCompleted))
	r.AddJob(&model.Schedule{ScheduleId: "sched-x", Frequency: "daily@02:00", IsActive: model.ScheduleInactive})
	assert.False(t, r.Armed("sched-x"))
}
