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
	"time"

	"github.com/veritrix/veridex/internal/engine/model"
)

// Definition is the resolved test definition handed to the dispatcher.
// It is a closed set: UIDefinition or APIDefinition. The string test-type
// tag only exists at the persistence boundary; past resolution the type is
// carried structurally.
type Definition interface {
	TestType() string
	TestId() string
	TestName() string
}

// UIDefinition wraps a resolved UI test.
type UIDefinition struct {
	Test *model.UITest
}

func (d UIDefinition) TestType() string { return model.TestTypeUI }
func (d UIDefinition) TestId() string   { return d.Test.TestId }
func (d UIDefinition) TestName() string { return d.Test.Name }

// APIDefinition wraps a resolved API test.
type APIDefinition struct {
	Test *model.APITest
}

func (d APIDefinition) TestType() string { return model.TestTypeAPI }
func (d APIDefinition) TestId() string   { return d.Test.TestId }
func (d APIDefinition) TestName() string { return d.Test.Name }

// ExecutionConfig carries the plan's execution settings into the collaborators.
type ExecutionConfig struct {
	ScreenshotPolicy string
	PageTimeout      time.Duration
	ElementTimeout   time.Duration
	APITimeout       time.Duration
}

// Result is the uniform outcome the dispatcher returns for any test type.
type Result struct {
	Success      bool
	Status       string // model.CaseStatus*
	Error        string
	Steps        []model.StepResult
	ArtifactPath string
	DurationMs   int64
}

// SequenceResult is what the browser collaborator reports for one UI test.
type SequenceResult struct {
	Success bool               `json:"success"`
	Steps   []model.StepResult `json:"steps"`
	Error   string             `json:"error,omitempty"`
}

// BrowserEngine is the external browser-automation collaborator.
// Timeouts are enforced inside the engine using the supplied config;
// the dispatcher only awaits the call.
type BrowserEngine interface {
	ExecuteSequence(test *model.UITest, cfg ExecutionConfig, artifactDir string) (*SequenceResult, error)
}
