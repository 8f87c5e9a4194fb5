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

// Package llm defines the model capability boundary consumed by the agent,
// the user simulator, and the assertion judge. Implementations live in
// subpackages (llm/gemini); tests use a scripted fake.
package llm

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

// Model is a blocking text/tool-calling model.
type Model interface {
	Name() string
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Request is the input to Model.Generate.
type Request struct {
	Contents       []*genai.Content
	GenerateConfig *genai.GenerateContentConfig
}

// Response carries the first candidate returned by the model.
type Response struct {
	Content *genai.Content
}

// Text concatenates the text parts of the response content.
func (r *Response) Text() string {
	if r == nil || r.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range r.Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// FunctionCalls returns the tool-call requests in the response, in the
// order the model produced them. Empty for plain text replies.
func (r *Response) FunctionCalls() []*genai.FunctionCall {
	if r == nil || r.Content == nil {
		return nil
	}
	var calls []*genai.FunctionCall
	for _, part := range r.Content.Parts {
		if part != nil && part.FunctionCall != nil {
			calls = append(calls, part.FunctionCall)
		}
	}
	return calls
}

// GenerateText is a convenience for tool-less prompts (user simulation,
// assertion grading). It sends a single user turn and returns the reply text.
func GenerateText(ctx context.Context, m Model, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := m.Generate(ctx, &Request{
		Contents:       []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		GenerateConfig: cfg,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
