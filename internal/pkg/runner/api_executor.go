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
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/veritrix/veridex/internal/engine/model"
)

// APIVerdict is the HTTP collaborator's outcome for one API test.
type APIVerdict struct {
	Success    bool
	StatusCode int
	Reason     string // assertion failure detail when Success is false
	Err        error  // transport or definition error
}

// APIExecutor issues API test requests and evaluates their declared assertions.
type APIExecutor struct {
	client *resty.Client
}

// NewAPIExecutor creates the API test executor.
func NewAPIExecutor() *APIExecutor {
	client := resty.New()
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(15))
	return &APIExecutor{client: client}
}

// ExecuteAPITest runs one API test. defaultTimeout applies when the test
// declares none.
func (e *APIExecutor) ExecuteAPITest(ctx context.Context, test *model.APITest, defaultTimeout time.Duration) APIVerdict {
	if test.URL == "" {
		return APIVerdict{Err: fmt.Errorf("URL is required for API test %s", test.TestId)}
	}

	method := strings.ToUpper(test.Method)
	if method == "" {
		method = "GET"
	}

	timeout := defaultTimeout
	if test.Timeout > 0 {
		timeout = time.Duration(test.Timeout) * time.Second
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req := e.client.R().SetContext(ctx)
	for k, v := range test.Headers {
		req.SetHeader(k, v)
	}
	if test.Body != "" {
		req.SetBody(test.Body)
	}

	resp, err := req.Execute(method, test.URL)
	if err != nil {
		return APIVerdict{Err: fmt.Errorf("request failed: %w", err)}
	}

	statusCode := resp.StatusCode()
	expected := test.ExpectedStatus
	if len(expected) == 0 {
		expected = []int{200, 201, 202, 204}
	}
	if !containsStatus(expected, statusCode) {
		return APIVerdict{
			StatusCode: statusCode,
			Reason:     fmt.Sprintf("unexpected status %d, expected one of %v", statusCode, expected),
		}
	}

	if test.BodyContains != "" && !strings.Contains(string(resp.Body()), test.BodyContains) {
		return APIVerdict{
			StatusCode: statusCode,
			Reason:     fmt.Sprintf("response body does not contain %q", test.BodyContains),
		}
	}

	return APIVerdict{Success: true, StatusCode: statusCode}
}

func containsStatus(expected []int, status int) bool {
	for _, s := range expected {
		if s == status {
			return true
		}
	}
	return false
}
