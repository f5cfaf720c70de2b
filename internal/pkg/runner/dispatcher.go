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

package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/veritrix/veridex/internal/engine/model"
	"github.com/veritrix/veridex/pkg/log"
)

// Dispatcher routes one resolved test definition to its collaborator and
// normalizes the outcome. Collaborator errors and panics never escape:
// they become error-status results for the orchestrator loop.
type Dispatcher struct {
	browser BrowserEngine
	api     *APIExecutor
}

// NewDispatcher creates a dispatcher over the two collaborators.
func NewDispatcher(browser BrowserEngine, api *APIExecutor) *Dispatcher {
	return &Dispatcher{browser: browser, api: api}
}

// Run executes one test and returns its uniform result.
func (d *Dispatcher) Run(ctx context.Context, def Definition, cfg ExecutionConfig, artifactDir string) (result Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("collaborator panicked", "test", def.TestId(), "panic", r)
			result = Result{
				Status:     model.CaseStatusError,
				Error:      fmt.Sprintf("collaborator panic: %v", r),
				DurationMs: time.Since(start).Milliseconds(),
			}
		}
	}()

	switch def := def.(type) {
	case UIDefinition:
		result = d.runUI(def, cfg, artifactDir)
	case APIDefinition:
		result = d.runAPI(ctx, def, cfg)
	default:
		result = Result{Status: model.CaseStatusError, Error: "unknown test type"}
	}
	result.DurationMs = time.Since(start).Milliseconds()
	return result
}

// runUI delegates to the browser engine. Overall success requires the
// collaborator call succeeding and no individual step reporting failure.
func (d *Dispatcher) runUI(def UIDefinition, cfg ExecutionConfig, artifactDir string) Result {
	seq, err := d.browser.ExecuteSequence(def.Test, cfg, artifactDir)
	if err != nil {
		return Result{Status: model.CaseStatusError, Error: err.Error()}
	}

	res := Result{Steps: seq.Steps}
	failed := ""
	for _, step := range seq.Steps {
		if step.Status == model.CaseStatusFailed {
			failed = step.Message
			if failed == "" {
				failed = fmt.Sprintf("step %d (%s) failed", step.Index, step.Action)
			}
		}
		// The last step with a persisted screenshot becomes the case artifact.
		if step.Screenshot != "" {
			res.ArtifactPath = step.Screenshot
		}
	}

	switch {
	case !seq.Success:
		res.Status = model.CaseStatusFailed
		res.Error = seq.Error
		if res.Error == "" {
			res.Error = failed
		}
	case failed != "":
		res.Status = model.CaseStatusFailed
		res.Error = failed
	default:
		res.Success = true
		res.Status = model.CaseStatusPassed
	}
	return res
}

// runAPI delegates to the HTTP collaborator; its verdict is the result.
func (d *Dispatcher) runAPI(ctx context.Context, def APIDefinition, cfg ExecutionConfig) Result {
	verdict := d.api.ExecuteAPITest(ctx, def.Test, cfg.APITimeout)
	if verdict.Err != nil {
		return Result{Status: model.CaseStatusError, Error: verdict.Err.Error()}
	}
	if !verdict.Success {
		return Result{Status: model.CaseStatusFailed, Error: verdict.Reason}
	}
	return Result{Success: true, Status: model.CaseStatusPassed}
}
