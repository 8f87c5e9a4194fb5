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
	"errors"
	"testing"

	"github.com/google/tracecheck/agent"
	"github.com/google/tracecheck/internal/testutil"
)

func newReplayAgent(t *testing.T, model *testutil.ScriptedModel, trace GoldenTrace) *agent.Agent {
	t.Helper()
	a, err := agent.New(agent.Config{
		Model:    model,
		Executor: NewReplayExecutor(trace),
	})
	if err != nil {
		t.Fatalf("agent.New() got error %v, want nil", err)
	}
	return a
}

func TestDriverRunCompletesOnSourceExhaustion(t *testing.T) {
	trace := bookingTrace()
	model := testutil.NewScriptedModel(
		testutil.ToolCall("search_flights", map[string]any{
			"origin": "SFO", "destination": "FCO", "departure_date": "2026-10-12",
		}),
		testutil.Text("I found UA123 for $450. Shall I book it?"),
		testutil.ToolCall("book_flight", map[string]any{"flight_id": "UA123"}),
		testutil.Text("Booked! Your confirmation is BK00042."),
	)
	a := newReplayAgent(t, model, trace)

	// Turn budget above the two recorded user turns: the source runs dry
	// before the budget does.
	driver := NewDriver(a, NewGoldenTraceSource(trace), 3)
	result, err := driver.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() got error %v, want nil", err)
	}
	if result.Reason != TerminationCompleted {
		t.Errorf("Reason = %q, want %q", result.Reason, TerminationCompleted)
	}
	if len(result.Turns) != 2 {
		t.Fatalf("len(Turns) = %d, want 2", len(result.Turns))
	}
	if result.ToolCalls != 2 {
		t.Errorf("ToolCalls = %d, want 2", result.ToolCalls)
	}
	if got := result.Turns[0].ToolCalls[0].Name; got != "search_flights" {
		t.Errorf("first turn tool call = %q, want %q", got, "search_flights")
	}
}

func TestDriverRunHitsTurnLimit(t *testing.T) {
	trace := GoldenTrace{
		UserStep{Text: "one"},
		UserStep{Text: "two"},
		UserStep{Text: "three"},
	}
	model := testutil.NewScriptedModel(
		testutil.Text("reply one"),
		testutil.Text("reply two"),
	)
	a := newReplayAgent(t, model, trace)

	result, err := NewDriver(a, NewGoldenTraceSource(trace), 2).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() got error %v, want nil", err)
	}
	if result.Reason != TerminationMaxTurns {
		t.Errorf("Reason = %q, want %q", result.Reason, TerminationMaxTurns)
	}
	if len(result.Turns) != 2 {
		t.Errorf("len(Turns) = %d, want 2", len(result.Turns))
	}
}

func TestDriverRunStopsOnFallbackReply(t *testing.T) {
	trace := GoldenTrace{
		UserStep{Text: "one"},
		UserStep{Text: "never reached"},
	}
	// First model call fails, so the agent answers with its error
	// fallback and the driver treats the conversation as a dead end.
	model := testutil.NewScriptedModel(testutil.Fail(errors.New("boom")))
	a := newReplayAgent(t, model, trace)

	result, err := NewDriver(a, NewGoldenTraceSource(trace), 5).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() got error %v, want nil", err)
	}
	if result.Reason != TerminationCompleted {
		t.Errorf("Reason = %q, want %q", result.Reason, TerminationCompleted)
	}
	if len(result.Turns) != 1 || result.Turns[0].AgentReply != agent.FallbackModelError {
		t.Errorf("Turns = %+v, want single fallback reply turn", result.Turns)
	}
}

func TestDriverRunAbortsOnMismatch(t *testing.T) {
	trace := bookingTrace()
	model := testutil.NewScriptedModel(
		// One day off from the recorded search.
		testutil.ToolCall("search_flights", map[string]any{
			"origin": "SFO", "destination": "FCO", "departure_date": "2026-10-13",
		}),
	)
	a := newReplayAgent(t, model, trace)

	result, err := NewDriver(a, NewGoldenTraceSource(trace), 5).Run(context.Background())
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Run() got error %v, want *MismatchError", err)
	}
	if result.Reason != TerminationError {
		t.Errorf("Reason = %q, want %q", result.Reason, TerminationError)
	}
	if result.History == nil {
		t.Error("History = nil, want partial history")
	}
}

func TestDriverRunTerminatesOnScriptedAcknowledgment(t *testing.T) {
	trace := GoldenTrace{
		UserStep{Text: "one"},
		UserStep{Text: "Thanks!"},
	}
	model := testutil.NewScriptedModel(testutil.Text("reply one"))
	a := newReplayAgent(t, model, trace)

	result, err := NewDriver(a, NewGoldenTraceSource(trace), 5).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() got error %v, want nil", err)
	}
	if result.Reason != TerminationCompleted {
		t.Errorf("Reason = %q, want %q", result.Reason, TerminationCompleted)
	}
	// The acknowledgment turn itself is not sent to the agent.
	if len(result.Turns) != 1 {
		t.Errorf("len(Turns) = %d, want 1", len(result.Turns))
	}
}
