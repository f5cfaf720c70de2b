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

package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	scheduleFires = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_fires_total",
			Help: "Total schedule fires, by result (run, skipped_overlap, error)",
		},
		[]string{"result"},
	)

	executions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_executions_total",
			Help: "Total plan executions, by terminal status",
		},
		[]string{"status"},
	)

	caseResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "test_case_results_total",
			Help: "Total test case results, by status",
		},
		[]string{"status"},
	)

	executionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plan_execution_duration_seconds",
			Help:    "Wall-clock duration of plan executions",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
	)
)

// RegisterExecutionMetrics registers the engine collectors with the registry.
func RegisterExecutionMetrics(registry *prometheus.Registry) error {
	for _, c := range []prometheus.Collector{scheduleFires, executions, caseResults, executionDuration} {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveScheduleFire records one schedule fire outcome.
func ObserveScheduleFire(result string) {
	scheduleFires.WithLabelValues(result).Inc()
}

// ObserveExecution records a finished execution.
func ObserveExecution(status string, seconds float64) {
	executions.WithLabelValues(status).Inc()
	executionDuration.Observe(seconds)
}

// ObserveCaseResult records one case result status.
func ObserveCaseResult(status string) {
	caseResults.WithLabelValues(status).Inc()
}
