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

// Package scheduler arms one timer per active schedule and fires plan
// executions at the resolved instants. The registry is an owned object:
// its lifecycle belongs to the app that constructed it, and every mutation
// goes through its methods.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/veritrix/veridex/internal/engine/model"
	"github.com/veritrix/veridex/internal/engine/repo"
	"github.com/veritrix/veridex/internal/pkg/frequency"
	"github.com/veritrix/veridex/internal/pkg/orchestrator"
	"github.com/veritrix/veridex/pkg/log"
	"github.com/veritrix/veridex/pkg/metrics"
)

// PlanRunner executes one plan run. Satisfied by orchestrator.Orchestrator.
type PlanRunner interface {
	RunPlan(ctx context.Context, planId, scheduleId, triggerType string) (*orchestrator.Summary, error)
}

type job struct {
	schedule *model.Schedule
	timer    *time.Timer
	gen      uint64
}

// Registry owns the armed timers for all active schedules.
type Registry struct {
	mu      sync.Mutex
	jobs    map[string]*job
	running map[string]bool
	nextGen uint64

	schedules repo.IScheduleRepository
	runner    PlanRunner

	baseCtx context.Context
	now     func() time.Time
}

// NewRegistry creates an empty registry; call Start to load and arm schedules.
func NewRegistry(schedules repo.IScheduleRepository, runner PlanRunner) *Registry {
	return &Registry{
		jobs:      map[string]*job{},
		running:   map[string]bool{},
		schedules: schedules,
		runner:    runner,
		baseCtx:   context.Background(),
		now:       time.Now,
	}
}

// Start loads all active schedules and arms them. Stored fire times already
// in the past fire immediately, catching up schedules missed while down.
func (r *Registry) Start(ctx context.Context) error {
	r.mu.Lock()
	r.baseCtx = ctx
	r.mu.Unlock()

	list, err := r.schedules.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("load active schedules: %w", err)
	}
	for _, s := range list {
		r.AddJob(s)
	}
	log.Infow("schedule registry started", "armed", len(list))
	return nil
}

// Stop disarms every timer. In-flight executions finish on their own.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, j := range r.jobs {
		j.timer.Stop()
		delete(r.jobs, id)
	}
	log.Infow("schedule registry stopped")
}

// AddJob arms a timer for the schedule. Inactive schedules are ignored.
// An existing timer for the same schedule is replaced.
func (r *Registry) AddJob(schedule *model.Schedule) {
	if !schedule.Active() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.armLocked(schedule)
}

// UpdateJob re-arms the schedule's timer from its current definition, or
// disarms it when the schedule went inactive.
func (r *Registry) UpdateJob(schedule *model.Schedule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.jobs[schedule.ScheduleId]; ok {
		old.timer.Stop()
		delete(r.jobs, schedule.ScheduleId)
	}
	if schedule.Active() {
		r.armLocked(schedule)
	}
}

// RemoveJob disarms and forgets the schedule. Idempotent; after return the
// schedule will not fire again.
func (r *Registry) RemoveJob(scheduleId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[scheduleId]; ok {
		j.timer.Stop()
		delete(r.jobs, scheduleId)
	}
}

// Armed reports whether the schedule currently has a timer.
func (r *Registry) Armed(scheduleId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.jobs[scheduleId]
	return ok
}

// armLocked resolves the target instant and arms the timer. Caller holds mu.
func (r *Registry) armLocked(schedule *model.Schedule) {
	target, err := r.resolveTarget(schedule)
	if err != nil {
		log.Errorw("schedule cannot be armed", "schedule", schedule.ScheduleId, "frequency", schedule.Frequency, "error", err)
		return
	}

	r.nextGen++
	gen := r.nextGen
	id := schedule.ScheduleId
	delay := target.Sub(r.now())
	j := &job{schedule: schedule, gen: gen}
	j.timer = time.AfterFunc(delay, func() { r.fire(id, gen) })
	r.jobs[id] = j
	log.Debugw("schedule armed", "schedule", id, "plan", schedule.PlanId, "at", target, "in", delay)
}

// resolveTarget picks the next fire instant: the persisted one when present,
// otherwise freshly resolved from the frequency descriptor.
func (r *Registry) resolveTarget(schedule *model.Schedule) (time.Time, error) {
	if schedule.NextRunAt != nil {
		return *schedule.NextRunAt, nil
	}
	f, err := frequency.Parse(schedule.Frequency)
	if err != nil {
		return time.Time{}, err
	}
	if f.Kind == frequency.KindOnce {
		if schedule.OnceAt == nil {
			return time.Time{}, fmt.Errorf("once schedule %s has no target instant", schedule.ScheduleId)
		}
		return *schedule.OnceAt, nil
	}
	return f.Next(r.now())
}

// fire is the timer callback for one schedule occurrence.
func (r *Registry) fire(scheduleId string, gen uint64) {
	r.mu.Lock()
	j, ok := r.jobs[scheduleId]
	if !ok || j.gen != gen {
		// disarmed or superseded after the timer was committed
		r.mu.Unlock()
		return
	}
	if r.running[scheduleId] {
		log.Warnw("schedule fired while previous run is still in flight, skipping",
			"schedule", scheduleId, "plan", j.schedule.PlanId)
		metrics.ObserveScheduleFire("skipped_overlap")
		r.rearmLocked(j)
		r.mu.Unlock()
		return
	}
	r.running[scheduleId] = true
	schedule := j.schedule
	ctx := r.baseCtx
	r.mu.Unlock()

	defer func() {
		rec := recover()
		if rec != nil {
			log.Errorw("schedule run panicked", "schedule", scheduleId, "panic", rec)
			metrics.ObserveScheduleFire("error")
		}
		r.mu.Lock()
		delete(r.running, scheduleId)
		if cur, ok := r.jobs[scheduleId]; ok && cur.gen == gen {
			r.retireOrRearmLocked(cur)
		}
		r.mu.Unlock()
	}()

	metrics.ObserveScheduleFire("run")
	r.runWithRetries(ctx, schedule)
}

// runWithRetries executes the plan, rerunning per the schedule's retry
// policy when the execution does not complete cleanly.
func (r *Registry) runWithRetries(ctx context.Context, schedule *model.Schedule) {
	attempts := 1 + schedule.RetryPolicy
	for attempt := 1; attempt <= attempts; attempt++ {
		summary, err := r.runner.RunPlan(ctx, schedule.PlanId, schedule.ScheduleId, model.TriggerTypeScheduled)
		if err != nil {
			log.Errorw("scheduled run failed", "schedule", schedule.ScheduleId, "plan", schedule.PlanId,
				"attempt", attempt, "error", err)
			continue
		}
		log.Infow("scheduled run finished", "schedule", schedule.ScheduleId, "plan", schedule.PlanId,
			"execution", summary.ExecutionId, "status", summary.Status, "attempt", attempt)
		if summary.Status == model.ExecutionStatusCompleted {
			return
		}
	}
}

// retireOrRearmLocked handles the occurrence aftermath. Caller holds mu.
func (r *Registry) retireOrRearmLocked(j *job) {
	f, err := frequency.Parse(j.schedule.Frequency)
	if err != nil || f.Kind == frequency.KindOnce {
		// one-shot schedules retire after their single occurrence
		delete(r.jobs, j.schedule.ScheduleId)
		if err := r.schedules.Deactivate(context.Background(), j.schedule.ScheduleId); err != nil {
			log.Warnw("failed to deactivate one-shot schedule", "schedule", j.schedule.ScheduleId, "error", err)
		}
		return
	}
	r.rearmLocked(j)
}

// rearmLocked resolves the next occurrence from now, persists it, and arms
// a fresh timer. Caller holds mu.
func (r *Registry) rearmLocked(j *job) {
	next, err := frequency.ResolveNext(j.schedule.Frequency, r.now())
	if err != nil {
		log.Errorw("failed to resolve next occurrence, schedule disarmed",
			"schedule", j.schedule.ScheduleId, "frequency", j.schedule.Frequency, "error", err)
		delete(r.jobs, j.schedule.ScheduleId)
		return
	}
	if err := r.schedules.SetNextRun(context.Background(), j.schedule.ScheduleId, &next); err != nil {
		log.Warnw("failed to persist next run time", "schedule", j.schedule.ScheduleId, "error", err)
	}
	j.schedule.NextRunAt = &next

	r.nextGen++
	gen := r.nextGen
	id := j.schedule.ScheduleId
	fresh := &job{schedule: j.schedule, gen: gen}
	fresh.timer = time.AfterFunc(next.Sub(r.now()), func() { r.fire(id, gen) })
	r.jobs[id] = fresh
	log.Debugw("schedule re-armed", "schedule", id, "at", next)
}
