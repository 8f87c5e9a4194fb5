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
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/tracecheck/conversation"
	"github.com/google/tracecheck/llm"
)

const generationPromptTemplate = `You are writing an evaluation case for an assistant, based on a recorded
conversation.

Conversation:
%s

Tool interactions:
%s

Produce a JSON object with exactly these fields:
  "goal_description": one sentence stating what the user was trying to do.
  "assertions": a list of checks, each with:
    "name": a short snake_case identifier,
    "prompt_template": a YES/NO question about the conversation. Use the
      literal placeholder {tool_history} where the tool interactions should
      be inserted,
    "is_outcome_check": true for the single check that verifies the user's
      goal was achieved, false for checks on how the assistant got there.

Include exactly one outcome check and at least one trajectory check.
Reply with the JSON object only, no prose and no code fences.`

// FallbackGoal marks a saved case whose goal could not be drafted. It keeps
// the case loadable so the trace survives; a human replaces it on review.
const FallbackGoal = "[Error: Failed to generate goal]"

// TraceOnlyTestCase builds a test case from a recorded session without any
// drafted assertions, for when drafting fails. The case is valid for saving
// but cannot pass evaluation until assertions are added.
func TraceOnlyTestCase(history *conversation.History, initialState map[string]any) *TestCase {
	return &TestCase{
		GoalDescription: FallbackGoal,
		InitialState:    initialState,
		GoldenTrace:     TraceFromHistory(history),
	}
}

// generatedCase is the shape the generation prompt asks for.
type generatedCase struct {
	GoalDescription string      `json:"goal_description"`
	Assertions      []Assertion `json:"assertions"`
}

// GenerateTestCase turns a recorded interactive session into a test case:
// the trace comes from the history, and the goal plus assertions are
// drafted by the model from the transcript. Drafted cases should be
// reviewed before being trusted.
func GenerateTestCase(ctx context.Context, model llm.Model, history *conversation.History, initialState map[string]any) (*TestCase, error) {
	prompt := fmt.Sprintf(generationPromptTemplate, history.Transcript("Assistant"), history.ToolTranscript())
	reply, err := llm.GenerateText(ctx, model, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("evaluation: drafting test case: %w", err)
	}

	var draft generatedCase
	if err := json.Unmarshal([]byte(stripCodeFences(reply)), &draft); err != nil {
		return nil, fmt.Errorf("evaluation: model returned unparseable case: %w", err)
	}
	tc := &TestCase{
		GoalDescription: draft.GoalDescription,
		InitialState:    initialState,
		GoldenTrace:     TraceFromHistory(history),
		Assertions:      draft.Assertions,
	}
	if err := tc.Validate(); err != nil {
		return nil, fmt.Errorf("evaluation: drafted case is invalid: %w", err)
	}
	return tc, nil
}

// stripCodeFences removes a surrounding markdown code fence, which models
// add despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
