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
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/google/tracecheck/conversation"
)

// StepType tags the golden-trace step variants in the persisted format.
type StepType string

const (
	StepTypeUser            StepType = "user"
	StepTypeAgent           StepType = "agent"
	StepTypeToolInteraction StepType = "tool_interaction"
)

// TraceStep is one recorded unit of the reference conversation. It is a
// sealed union: UserStep, AgentStep or ToolInteractionStep.
type TraceStep interface {
	StepType() StepType
}

// UserStep is a recorded user utterance.
type UserStep struct {
	Text string `json:"text" mapstructure:"text"`
}

func (UserStep) StepType() StepType { return StepTypeUser }

// AgentStep is a recorded agent text reply.
type AgentStep struct {
	Text string `json:"text" mapstructure:"text"`
}

func (AgentStep) StepType() StepType { return StepTypeAgent }

// ToolInteractionStep bundles a recorded tool call and its result as one
// atomic record. Keeping call and result together removes the
// pairing-by-position matching an earlier split representation needed.
type ToolInteractionStep struct {
	Name   string         `json:"name" mapstructure:"name"`
	Args   map[string]any `json:"args" mapstructure:"args"`
	Result any            `json:"result" mapstructure:"result"`
}

func (ToolInteractionStep) StepType() StepType { return StepTypeToolInteraction }

// GoldenTrace is the ordered reference conversation of a test case. It is
// loaded once and treated as immutable for the duration of a run.
type GoldenTrace []TraceStep

// MarshalJSON writes each step as an object tagged with a "type" field.
func (t GoldenTrace) MarshalJSON() ([]byte, error) {
	out := make([]map[string]any, 0, len(t))
	for i, step := range t {
		var m map[string]any
		if err := mapstructure.Decode(step, &m); err != nil {
			return nil, fmt.Errorf("encoding trace step %d: %w", i, err)
		}
		m["type"] = string(step.StepType())
		out = append(out, m)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the tagged-object form back into the step union.
func (t *GoldenTrace) UnmarshalJSON(data []byte) error {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	steps := make(GoldenTrace, 0, len(raw))
	for i, m := range raw {
		tag, _ := m["type"].(string)
		var step TraceStep
		switch StepType(tag) {
		case StepTypeUser:
			var s UserStep
			if err := mapstructure.Decode(m, &s); err != nil {
				return fmt.Errorf("decoding user step %d: %w", i, err)
			}
			step = s
		case StepTypeAgent:
			var s AgentStep
			if err := mapstructure.Decode(m, &s); err != nil {
				return fmt.Errorf("decoding agent step %d: %w", i, err)
			}
			step = s
		case StepTypeToolInteraction:
			var s ToolInteractionStep
			if err := mapstructure.Decode(m, &s); err != nil {
				return fmt.Errorf("decoding tool interaction step %d: %w", i, err)
			}
			step = s
		default:
			return fmt.Errorf("trace step %d: unknown type %q", i, tag)
		}
		steps = append(steps, step)
	}
	*t = steps
	return nil
}

// UserTexts returns the texts of the user steps in trace order.
func (t GoldenTrace) UserTexts() []string {
	var out []string
	for _, step := range t {
		if s, ok := step.(UserStep); ok {
			out = append(out, s.Text)
		}
	}
	return out
}

// ToolInteractions returns the tool interaction steps in trace order.
func (t GoldenTrace) ToolInteractions() []ToolInteractionStep {
	var out []ToolInteractionStep
	for _, step := range t {
		if s, ok := step.(ToolInteractionStep); ok {
			out = append(out, s)
		}
	}
	return out
}

// TraceFromHistory converts a recorded conversation into golden-trace steps:
// text turns become user/agent steps, and each tool call is bundled with the
// result turn that follows it. Used when saving an interactive session as a
// test case.
func TraceFromHistory(h *conversation.History) GoldenTrace {
	var trace GoldenTrace
	var pendingCall *conversation.Turn
	for _, turn := range h.Turns() {
		turn := turn
		switch turn.Kind {
		case conversation.KindText:
			if turn.Role == conversation.RoleUser {
				trace = append(trace, UserStep{Text: turn.Text})
			} else {
				trace = append(trace, AgentStep{Text: turn.Text})
			}
		case conversation.KindToolCall:
			pendingCall = &turn
		case conversation.KindToolResult:
			if pendingCall == nil || pendingCall.ToolName != turn.ToolName {
				continue
			}
			trace = append(trace, ToolInteractionStep{
				Name:   pendingCall.ToolName,
				Args:   pendingCall.Arguments,
				Result: turn.Result,
			})
			pendingCall = nil
		}
	}
	return trace
}
