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

package llmjudge

import (
	"context"

	"github.com/google/tracecheck/conversation"
	"github.com/google/tracecheck/evaluation"
)

// CheckAll grades every assertion in order. Individual grading failures
// surface as failed results, so the returned slice always has one entry
// per assertion.
func (j *Judge) CheckAll(ctx context.Context, assertions []evaluation.Assertion, history *conversation.History) []evaluation.AssertionResult {
	results := make([]evaluation.AssertionResult, 0, len(assertions))
	for _, a := range assertions {
		results = append(results, j.Check(ctx, a, history))
	}
	return results
}
