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
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/veritrix/veridex/internal/engine/model"
)

// remoteBrowserEngine delegates UI sequences to an external browser-runner
// sidecar over HTTP. The sidecar drives the actual browser, enforces the
// page/element timeouts from the config, writes screenshots under the given
// artifact directory, and reports per-step outcomes.
type remoteBrowserEngine struct {
	client  *resty.Client
	baseURL string
}

// NewRemoteBrowserEngine creates a browser engine client for the sidecar at
// baseURL. An empty baseURL yields an engine whose calls fail, which the
// dispatcher surfaces as error-status case results.
func NewRemoteBrowserEngine(baseURL string) BrowserEngine {
	client := resty.New()
	// The engine owns in-page timeouts; this only bounds a hung sidecar.
	client.SetTimeout(10 * time.Minute)
	return &remoteBrowserEngine{client: client, baseURL: baseURL}
}

type executeSequenceRequest struct {
	Test             *model.UITest `json:"test"`
	ScreenshotPolicy string        `json:"screenshotPolicy"`
	PageTimeoutMs    int64         `json:"pageTimeoutMs"`
	ElementTimeoutMs int64         `json:"elementTimeoutMs"`
	ArtifactDir      string        `json:"artifactDir"`
}

// ExecuteSequence runs one UI test on the sidecar.
func (e *remoteBrowserEngine) ExecuteSequence(test *model.UITest, cfg ExecutionConfig, artifactDir string) (*SequenceResult, error) {
	if e.baseURL == "" {
		return nil, fmt.Errorf("browser engine is not configured")
	}

	var result SequenceResult
	resp, err := e.client.R().
		SetBody(executeSequenceRequest{
			Test:             test,
			ScreenshotPolicy: cfg.ScreenshotPolicy,
			PageTimeoutMs:    cfg.PageTimeout.Milliseconds(),
			ElementTimeoutMs: cfg.ElementTimeout.Milliseconds(),
			ArtifactDir:      artifactDir,
		}).
		SetResult(&result).
		Post(e.baseURL + "/v1/sequence/execute")
	if err != nil {
		return nil, fmt.Errorf("browser engine call failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("browser engine returned status %d", resp.StatusCode())
	}
	return &result, nil
}
