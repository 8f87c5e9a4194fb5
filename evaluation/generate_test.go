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
	"testing"

	"github.com/google/tracecheck/conversation"
	"github.com/google/tracecheck/internal/testutil"
)

const draftJSON = `{
  "goal_description": "Book flight UA123",
  "assertions": [
    {"name": "booked", "prompt_template": "Was a flight booked? {tool_history}", "is_outcome_check": true},
    {"name": "polite", "prompt_template": "Was the assistant polite?"}
  ]
}`

func recordedHistory() *conversation.History {
	h := &conversation.History{}
	h.Append(conversation.NewTextTurn(conversation.RoleUser, "Book UA123."))
	h.Append(conversation.NewToolCallTurn("book_flight", map[string]any{"flight_id": "UA123"}))
	h.Append(conversation.NewToolResultTurn("book_flight", map[string]any{"status": "confirmed"}))
	h.Append(conversation.NewTextTurn(conversation.RoleAgent, "Done."))
	return h
}

func TestGenerateTestCase(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "bare json", reply: draftJSON},
		{name: "fenced json", reply: "```json\n" + draftJSON + "\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := testutil.NewScriptedModel(testutil.Text(tt.reply))

			tc, err := GenerateTestCase(context.Background(), model, recordedHistory(), map[string]any{"current_date": "2026-10-01"})
			if err != nil {
				t.Fatalf("GenerateTestCase() got error %v, want nil", err)
			}
			if tc.GoalDescription != "Book flight UA123" {
				t.Errorf("GoalDescription = %q, want %q", tc.GoalDescription, "Book flight UA123")
			}
			if len(tc.Assertions) != 2 || tc.OutcomeCheckCount() != 1 {
				t.Errorf("Assertions = %+v, want 2 with one outcome check", tc.Assertions)
			}
			if len(tc.GoldenTrace) != 3 {
				t.Errorf("len(GoldenTrace) = %d, want 3", len(tc.GoldenTrace))
			}
			if tc.InitialState["current_date"] != "2026-10-01" {
				t.Errorf("InitialState = %v, want current_date preserved", tc.InitialState)
			}
		})
	}
}

func TestTraceOnlyTestCase(t *testing.T) {
	state := map[string]any{"current_date": "2026-10-01"}
	tc := TraceOnlyTestCase(recordedHistory(), state)

	// A drafting failure must still leave a saveable case carrying the
	// full trace, with the goal marked for review.
	if err := tc.Validate(); err != nil {
		t.Fatalf("Validate() got error %v, want nil", err)
	}
	if tc.GoalDescription != FallbackGoal {
		t.Errorf("GoalDescription = %q, want %q", tc.GoalDescription, FallbackGoal)
	}
	if len(tc.Assertions) != 0 {
		t.Errorf("Assertions = %+v, want none", tc.Assertions)
	}
	if len(tc.GoldenTrace) != 3 {
		t.Errorf("len(GoldenTrace) = %d, want 3", len(tc.GoldenTrace))
	}
	if tc.InitialState["current_date"] != "2026-10-01" {
		t.Errorf("InitialState = %v, want current_date preserved", tc.InitialState)
	}
}

func TestGenerateTestCaseBadDraft(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "not json", reply: "Sure! Here are some assertions you could use."},
		{name: "missing goal", reply: `{"assertions": [{"name": "a", "prompt_template": "q"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := testutil.NewScriptedModel(testutil.Text(tt.reply))
			if _, err := GenerateTestCase(context.Background(), model, recordedHistory(), nil); err == nil {
				t.Fatal("GenerateTestCase() got nil error, want error")
			}
		})
	}
}
