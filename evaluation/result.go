// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package evaluation

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// AssertionResult is the graded verdict for one assertion.
type AssertionResult struct {
	Name           string `json:"name"`
	Passed         bool   `json:"passed"`
	Details        string `json:"details,omitempty"`
	IsOutcomeCheck bool   `json:"is_outcome_check,omitempty"`
}

// Report is the scored result of evaluating one test case. OutcomePassed
// holds only when the case has at least one outcome check and all of them
// passed. TrajectoryQuality is the fraction of trajectory checks that
// passed, 1.0 when there are none. Error is non-empty when the run aborted
// before grading could complete.
type Report struct {
	ID                string            `json:"report_id"`
	GoalDescription   string            `json:"goal_description"`
	OutcomePassed     bool              `json:"outcome_passed"`
	TrajectoryQuality float64           `json:"trajectory_quality"`
	ToolCalls         int               `json:"tool_calls"`
	Termination       TerminationReason `json:"termination,omitempty"`
	Details           []AssertionResult `json:"details,omitempty"`
	Error             string            `json:"error,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// NewReport returns a report shell for the test case with a fresh ID.
func NewReport(tc *TestCase) *Report {
	return &Report{
		ID:              uuid.NewString(),
		GoalDescription: tc.GoalDescription,
		CreatedAt:       time.Now().UTC(),
	}
}

// OutcomeResults returns the outcome-check results in grading order.
func (r *Report) OutcomeResults() []AssertionResult {
	return r.filterResults(true)
}

// TrajectoryResults returns the trajectory-check results in grading order.
func (r *Report) TrajectoryResults() []AssertionResult {
	return r.filterResults(false)
}

func (r *Report) filterResults(outcome bool) []AssertionResult {
	var out []AssertionResult
	for _, res := range r.Details {
		if res.IsOutcomeCheck == outcome {
			out = append(out, res)
		}
	}
	return out
}

// Aggregate folds graded assertion results into the two score facets.
// Outcome demands unanimity among outcome checks; a case with none cannot
// pass and gets a warning, since such a case asserts nothing about whether
// the goal was achieved.
func Aggregate(results []AssertionResult) (outcomePassed bool, trajectoryQuality float64) {
	outcomeTotal, trajectoryTotal, trajectoryPassed := 0, 0, 0
	outcomePassed = true
	for _, res := range results {
		if res.IsOutcomeCheck {
			outcomeTotal++
			outcomePassed = outcomePassed && res.Passed
		} else {
			trajectoryTotal++
			if res.Passed {
				trajectoryPassed++
			}
		}
	}
	if outcomeTotal == 0 {
		slog.Warn("test case has no outcome checks; outcome fails by definition")
		outcomePassed = false
	}
	trajectoryQuality = 1.0
	if trajectoryTotal > 0 {
		trajectoryQuality = float64(trajectoryPassed) / float64(trajectoryTotal)
	}
	return outcomePassed, trajectoryQuality
}
