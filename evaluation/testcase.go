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
	"errors"
	"fmt"
	"strings"
)

// DefaultExpectedResponse is the judge answer an assertion passes on when no
// expected response is set.
const DefaultExpectedResponse = "YES"

// Assertion is one graded check run against the finished conversation.
// PromptTemplate is the question put to the judge model; the literal
// placeholder "{tool_history}" in it is replaced with a rendering of the
// tool interactions before grading.
type Assertion struct {
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	PromptTemplate   string `json:"prompt_template"`
	ExpectedResponse string `json:"expected_response,omitempty"`
	IsOutcomeCheck   bool   `json:"is_outcome_check,omitempty"`
}

// Expected returns the normalized response the judge answer is matched
// against, applying the YES default.
func (a Assertion) Expected() string {
	if a.ExpectedResponse == "" {
		return DefaultExpectedResponse
	}
	return strings.ToUpper(strings.TrimSpace(a.ExpectedResponse))
}

// TestCase is one recorded scenario: the goal the user was pursuing, the
// reference conversation, and the checks graded after replay.
type TestCase struct {
	GoalDescription string         `json:"goal_description"`
	InitialState    map[string]any `json:"initial_state,omitempty"`
	GoldenTrace     GoldenTrace    `json:"golden_trace"`
	Assertions      []Assertion    `json:"assertions"`
}

// Validate reports structural problems that would make the case unrunnable.
// A case with no outcome check is structurally valid; it fails the outcome
// facet at grading time instead.
func (tc *TestCase) Validate() error {
	var errs []error
	if strings.TrimSpace(tc.GoalDescription) == "" {
		errs = append(errs, errors.New("goal_description is empty"))
	}
	if len(tc.GoldenTrace) == 0 {
		errs = append(errs, errors.New("golden_trace is empty"))
	}
	for i, a := range tc.Assertions {
		if strings.TrimSpace(a.Name) == "" {
			errs = append(errs, fmt.Errorf("assertion %d has no name", i))
		}
		if strings.TrimSpace(a.PromptTemplate) == "" {
			errs = append(errs, fmt.Errorf("assertion %q has no prompt template", a.Name))
		}
	}
	return errors.Join(errs...)
}

// OutcomeCheckCount returns how many assertions are outcome checks.
func (tc *TestCase) OutcomeCheckCount() int {
	n := 0
	for _, a := range tc.Assertions {
		if a.IsOutcomeCheck {
			n++
		}
	}
	return n
}
