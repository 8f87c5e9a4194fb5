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

// Package testutil provides a scripted llm.Model fake shared by package
// tests. A ScriptedModel replays a fixed step sequence, so tests exercise
// the agent and evaluation loops without network calls.
package testutil

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/google/tracecheck/llm"
)

// Step is one scripted model turn: either a response or an error.
type Step struct {
	Response *llm.Response
	Err      error
}

// Text returns a step producing a plain text reply.
func Text(text string) Step {
	return Step{Response: &llm.Response{
		Content: genai.NewContentFromText(text, genai.RoleModel),
	}}
}

// ToolCall returns a step producing a single tool-call request.
func ToolCall(name string, args map[string]any) Step {
	return Step{Response: &llm.Response{
		Content: &genai.Content{
			Role: string(genai.RoleModel),
			Parts: []*genai.Part{{
				FunctionCall: &genai.FunctionCall{Name: name, Args: args},
			}},
		},
	}}
}

// ToolCalls returns a step producing several tool-call requests in one turn.
func ToolCalls(calls ...*genai.FunctionCall) Step {
	parts := make([]*genai.Part, 0, len(calls))
	for _, c := range calls {
		parts = append(parts, &genai.Part{FunctionCall: c})
	}
	return Step{Response: &llm.Response{
		Content: &genai.Content{Role: string(genai.RoleModel), Parts: parts},
	}}
}

// Fail returns a step producing a model error.
func Fail(err error) Step {
	return Step{Err: err}
}

// ScriptedModel replays its steps in order. Generating past the end of the
// script is an error, which keeps tests honest about call counts.
type ScriptedModel struct {
	Steps []Step

	// Requests records every request received, for assertions on what the
	// caller sent.
	Requests []*llm.Request

	next int
}

func NewScriptedModel(steps ...Step) *ScriptedModel {
	return &ScriptedModel{Steps: steps}
}

func (m *ScriptedModel) Name() string { return "scripted" }

func (m *ScriptedModel) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	m.Requests = append(m.Requests, req)
	if m.next >= len(m.Steps) {
		return nil, fmt.Errorf("scripted model exhausted after %d steps", len(m.Steps))
	}
	step := m.Steps[m.next]
	m.next++
	if step.Err != nil {
		return nil, step.Err
	}
	return step.Response, nil
}

// CallCount reports how many Generate calls the model has served.
func (m *ScriptedModel) CallCount() int { return len(m.Requests) }

var _ llm.Model = (*ScriptedModel)(nil)
