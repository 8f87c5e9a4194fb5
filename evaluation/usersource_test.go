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
	"strings"
	"testing"

	"github.com/google/tracecheck/conversation"
	"github.com/google/tracecheck/internal/testutil"
)

func TestIsTerminationSignal(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"EXIT", true},
		{"exit", true},
		{"  Exit  ", true},
		{"thanks", true},
		{"Thanks!", true},
		{"Thank you.", true},
		{"THANK YOU", true},
		{"Great, thank you!", true},
		{"ok, thanks", true},
		{"Perfect, thanks!", true},
		{"no", false},
		{"thanks, but can you also check Tuesday?", false},
		{"I want to exit the motorway", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsTerminationSignal(tt.text); got != tt.want {
			t.Errorf("IsTerminationSignal(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestGoldenTraceSource(t *testing.T) {
	source := NewGoldenTraceSource(bookingTrace())
	h := &conversation.History{}

	want := []string{"Find me a flight to Rome on 2026-10-12.", "Yes, book it."}
	for i, wantText := range want {
		got, ok := source.Next(context.Background(), h)
		if !ok || got != wantText {
			t.Fatalf("Next() #%d = (%q, %v), want (%q, true)", i, got, ok, wantText)
		}
	}
	if got, ok := source.Next(context.Background(), h); ok {
		t.Fatalf("Next() after exhaustion = (%q, true), want ok=false", got)
	}
}

func TestSimulatedUserSourceNext(t *testing.T) {
	tests := []struct {
		name     string
		step     testutil.Step
		wantText string
		wantOK   bool
	}{
		{
			name:     "plain reply",
			step:     testutil.Text("Find me a flight to Rome."),
			wantText: "Find me a flight to Rome.",
			wantOK:   true,
		},
		{
			name:     "speaker label stripped",
			step:     testutil.Text("User: Yes, book it."),
			wantText: "Yes, book it.",
			wantOK:   true,
		},
		{
			name:   "exit sentinel terminates",
			step:   testutil.Text("EXIT"),
			wantOK: false,
		},
		{
			name:   "acknowledgment phrase terminates",
			step:   testutil.Text("Great, thank you!"),
			wantOK: false,
		},
		{
			name:   "empty reply terminates",
			step:   testutil.Text("   "),
			wantOK: false,
		},
		{
			name:   "model error terminates",
			step:   testutil.Fail(errors.New("quota exceeded")),
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := testutil.NewScriptedModel(tt.step)
			source := NewSimulatedUserSource(model, "book a flight to Rome")

			got, ok := source.Next(context.Background(), &conversation.History{})
			if ok != tt.wantOK || got != tt.wantText {
				t.Fatalf("Next() = (%q, %v), want (%q, %v)", got, ok, tt.wantText, tt.wantOK)
			}
		})
	}
}

func TestSimulatedUserSourcePromptCarriesGoal(t *testing.T) {
	model := testutil.NewScriptedModel(testutil.Text("Hello"))
	source := NewSimulatedUserSource(model, "cancel booking BK7")

	h := &conversation.History{}
	h.Append(conversation.NewTextTurn(conversation.RoleAgent, "How can I help?"))
	if _, ok := source.Next(context.Background(), h); !ok {
		t.Fatal("Next() ok = false, want true")
	}

	if len(model.Requests) != 1 {
		t.Fatalf("model received %d requests, want 1", len(model.Requests))
	}
	prompt := model.Requests[0].Contents[0].Parts[0].Text
	for _, want := range []string{"cancel booking BK7", "How can I help?", ExitSentinel} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestSimulatedUserSourcePromptCarriesRoleRules(t *testing.T) {
	model := testutil.NewScriptedModel(testutil.Text("Hello"))
	source := NewSimulatedUserSource(model, "book a flight")

	if _, ok := source.Next(context.Background(), &conversation.History{}); !ok {
		t.Fatal("Next() ok = false, want true")
	}
	prompt := model.Requests[0].Contents[0].Parts[0].Text
	// The role-play rules keep the simulated user terse and reactive, the
	// behavior the recorded traces were captured under.
	for _, want := range []string{
		"Provide information only when asked",
		"Keep replies short",
		"Do not reveal all of your constraints at once",
		"clarifying question",
		"presents options, pick one",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing rule %q:\n%s", want, prompt)
		}
	}
}
