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

// Package conversation holds the append-only turn log shared by the agent
// and the evaluation layer. A turn is either plain text, a tool-call request,
// or a tool-call result; ordering invariants (a tool call is followed by its
// result before the next agent text turn) are maintained by the agent, not
// enforced here.
package conversation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"
)

// Role identifies the side of the conversation a turn belongs to.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Kind discriminates turn payloads.
type Kind string

const (
	KindText       Kind = "text"
	KindToolCall   Kind = "tool_call"
	KindToolResult Kind = "tool_result"
)

// Turn is one exchange unit. Turns are value types and are never mutated
// after being appended to a History.
type Turn struct {
	Role Role
	Kind Kind

	// Text is set for KindText turns.
	Text string

	// ToolName is set for KindToolCall and KindToolResult turns.
	ToolName string
	// Arguments is set for KindToolCall turns.
	Arguments map[string]any
	// Result is set for KindToolResult turns.
	Result any
}

// NewTextTurn returns a plain text turn for the given role.
func NewTextTurn(role Role, text string) Turn {
	return Turn{Role: role, Kind: KindText, Text: text}
}

// NewToolCallTurn returns an agent tool-call request turn.
func NewToolCallTurn(name string, args map[string]any) Turn {
	return Turn{Role: RoleAgent, Kind: KindToolCall, ToolName: name, Arguments: args}
}

// NewToolResultTurn returns a tool result turn. The result is supplied by
// the execution layer, so the turn is attributed to the user side as the
// Gemini API expects function responses to be.
func NewToolResultTurn(name string, result any) Turn {
	return Turn{Role: RoleUser, Kind: KindToolResult, ToolName: name, Result: result}
}

// History is the ordered, append-only log of one conversation. The zero
// value is ready to use. A History is exclusively owned by one agent/driver
// pair and is not safe for concurrent use.
type History struct {
	turns []Turn
}

// Append adds a turn to the log.
func (h *History) Append(t Turn) {
	h.turns = append(h.turns, t)
}

// Turns returns a copy of the log.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of recorded turns.
func (h *History) Len() int { return len(h.turns) }

// ToolCallCount returns the number of tool-call turns recorded so far,
// the cost facet of an evaluation report.
func (h *History) ToolCallCount() int {
	n := 0
	for _, t := range h.turns {
		if t.Kind == KindToolCall {
			n++
		}
	}
	return n
}

// Contents renders the history as genai wire turns for a model request.
// Text turns map to text parts, tool calls to model function-call parts,
// and tool results to user function-response parts wrapped as {"result": v}.
func (h *History) Contents() []*genai.Content {
	contents := make([]*genai.Content, 0, len(h.turns))
	for _, t := range h.turns {
		var part *genai.Part
		role := genai.RoleUser
		switch t.Kind {
		case KindText:
			part = genai.NewPartFromText(t.Text)
			if t.Role == RoleAgent {
				role = genai.RoleModel
			}
		case KindToolCall:
			role = genai.RoleModel
			part = &genai.Part{FunctionCall: &genai.FunctionCall{
				Name: t.ToolName,
				Args: t.Arguments,
			}}
		case KindToolResult:
			part = &genai.Part{FunctionResponse: &genai.FunctionResponse{
				Name:     t.ToolName,
				Response: map[string]any{"result": t.Result},
			}}
		default:
			continue
		}
		contents = append(contents, &genai.Content{Role: string(role), Parts: []*genai.Part{part}})
	}
	return contents
}

// maxResultChars bounds tool results in rendered transcripts; longer results
// are summarized for prompt economy.
const maxResultChars = 120

// Transcript renders the history as a readable transcript for user-simulation
// and assertion-grading prompts. agentAlias replaces the literal "model" role
// (callers pass "Agent"). Tool interactions appear as bracketed annotations
// interleaved with the surrounding text turns.
func (h *History) Transcript(agentAlias string) string {
	if agentAlias == "" {
		agentAlias = "Agent"
	}
	var sb strings.Builder
	for _, t := range h.turns {
		switch t.Kind {
		case KindText:
			who := "User"
			if t.Role == RoleAgent {
				who = agentAlias
			}
			fmt.Fprintf(&sb, "%s: %s\n", who, t.Text)
		case KindToolCall:
			fmt.Fprintf(&sb, "[Tool Call: %s(args=%s)]\n", t.ToolName, FormatArguments(t.Arguments))
		case KindToolResult:
			fmt.Fprintf(&sb, "[Tool Result: %s -> %s]\n", t.ToolName, summarizeResult(t.Result))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ToolTranscript renders only the tool interactions, for prompts that ask
// specifically about tool usage.
func (h *History) ToolTranscript() string {
	var sb strings.Builder
	for _, t := range h.turns {
		switch t.Kind {
		case KindToolCall:
			fmt.Fprintf(&sb, "Tool Call: %s(args=%s)\n", t.ToolName, FormatArguments(t.Arguments))
		case KindToolResult:
			fmt.Fprintf(&sb, "Tool Result: %s -> %s\n", t.ToolName, summarizeResult(t.Result))
		}
	}
	if sb.Len() == 0 {
		return "[No tool interactions recorded]"
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatArguments renders a tool argument map with sorted keys so transcripts
// are stable across runs.
func FormatArguments(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q: %s", k, compactJSON(args[k]))
	}
	sb.WriteString("}")
	return sb.String()
}

// summarizeResult keeps tool results short in transcripts: maps with a
// "status" key reduce to it, lists reduce to their length, everything else
// is truncated JSON.
func summarizeResult(result any) string {
	switch v := result.(type) {
	case nil:
		return "[no result]"
	case map[string]any:
		if status, ok := v["status"]; ok {
			return fmt.Sprintf("status=%v", status)
		}
	case []any:
		return fmt.Sprintf("found %d items", len(v))
	}
	s := compactJSON(result)
	if len(s) > maxResultChars {
		s = s[:maxResultChars] + "..."
	}
	return s
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
