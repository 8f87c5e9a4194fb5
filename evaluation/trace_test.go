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
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/tracecheck/conversation"
)

func bookingTrace() GoldenTrace {
	return GoldenTrace{
		UserStep{Text: "Find me a flight to Rome on 2026-10-12."},
		ToolInteractionStep{
			Name: "search_flights",
			Args: map[string]any{"origin": "SFO", "destination": "FCO", "departure_date": "2026-10-12"},
			Result: []any{
				map[string]any{"flight_id": "UA123", "price": float64(450)},
			},
		},
		AgentStep{Text: "I found UA123 for $450. Shall I book it?"},
		UserStep{Text: "Yes, book it."},
		ToolInteractionStep{
			Name:   "book_flight",
			Args:   map[string]any{"flight_id": "UA123"},
			Result: map[string]any{"status": "confirmed", "booking_id": "BK00042"},
		},
		AgentStep{Text: "Booked! Your confirmation is BK00042."},
	}
}

func TestGoldenTraceJSONRoundTrip(t *testing.T) {
	trace := bookingTrace()

	data, err := json.Marshal(trace)
	if err != nil {
		t.Fatalf("Marshal() got error %v, want nil", err)
	}
	for _, tag := range []string{`"type":"user"`, `"type":"agent"`, `"type":"tool_interaction"`} {
		if !strings.Contains(string(data), tag) {
			t.Errorf("Marshal() output missing %s:\n%s", tag, data)
		}
	}

	var got GoldenTrace
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() got error %v, want nil", err)
	}
	if diff := cmp.Diff(trace, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestGoldenTraceUnmarshalUnknownType(t *testing.T) {
	var got GoldenTrace
	err := json.Unmarshal([]byte(`[{"type":"observer","text":"hi"}]`), &got)
	if err == nil || !strings.Contains(err.Error(), "unknown type") {
		t.Fatalf("Unmarshal() got error %v, want unknown type error", err)
	}
}

func TestGoldenTraceAccessors(t *testing.T) {
	trace := bookingTrace()

	wantUsers := []string{"Find me a flight to Rome on 2026-10-12.", "Yes, book it."}
	if diff := cmp.Diff(wantUsers, trace.UserTexts()); diff != "" {
		t.Errorf("UserTexts() mismatch (-want +got):\n%s", diff)
	}
	tools := trace.ToolInteractions()
	if len(tools) != 2 || tools[0].Name != "search_flights" || tools[1].Name != "book_flight" {
		t.Errorf("ToolInteractions() = %v, want search_flights then book_flight", tools)
	}
}

func TestTraceFromHistory(t *testing.T) {
	h := &conversation.History{}
	h.Append(conversation.NewTextTurn(conversation.RoleUser, "Book UA123."))
	h.Append(conversation.NewToolCallTurn("book_flight", map[string]any{"flight_id": "UA123"}))
	h.Append(conversation.NewToolResultTurn("book_flight", map[string]any{"status": "confirmed"}))
	h.Append(conversation.NewTextTurn(conversation.RoleAgent, "Done."))

	want := GoldenTrace{
		UserStep{Text: "Book UA123."},
		ToolInteractionStep{
			Name:   "book_flight",
			Args:   map[string]any{"flight_id": "UA123"},
			Result: map[string]any{"status": "confirmed"},
		},
		AgentStep{Text: "Done."},
	}
	if diff := cmp.Diff(want, TraceFromHistory(h)); diff != "" {
		t.Errorf("TraceFromHistory() mismatch (-want +got):\n%s", diff)
	}
}
