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

// Package llmjudge grades evaluation assertions with an LLM-as-judge.
//
// Each assertion's prompt template is rendered against the finished
// conversation and put to the judge model as a YES/NO question. The reply
// is normalized by the response parser and matched against the assertion's
// expected answer by prefix.
package llmjudge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/google/tracecheck/conversation"
	"github.com/google/tracecheck/evaluation"
	"github.com/google/tracecheck/llm"
)

// Judge grades assertions against a conversation with an LLM. Grading runs
// at zero temperature so repeated grading of the same transcript is as
// stable as the model allows.
type Judge struct {
	model  llm.Model
	config *genai.GenerateContentConfig
	parser *ResponseParser
}

// New returns a judge backed by the given model.
func New(model llm.Model) *Judge {
	return &Judge{
		model: model,
		config: &genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.0),
		},
		parser: NewResponseParser(),
	}
}

var _ evaluation.AssertionChecker = (*Judge)(nil)

// Check grades one assertion. A grading failure never aborts evaluation:
// it comes back as a failed result with the error in the details.
func (j *Judge) Check(ctx context.Context, a evaluation.Assertion, history *conversation.History) evaluation.AssertionResult {
	result := evaluation.AssertionResult{
		Name:           a.Name,
		IsOutcomeCheck: a.IsOutcomeCheck,
	}

	prompt := BuildPrompt(a, history)
	reply, err := llm.GenerateText(ctx, j.model, prompt, j.config)
	if err != nil {
		result.Details = fmt.Sprintf("judge error: %v", err)
		slog.Warn("assertion grading failed", "assertion", a.Name, "error", err)
		return result
	}

	normalized := j.parser.Normalize(reply)
	result.Passed = strings.HasPrefix(normalized, a.Expected())
	if !result.Passed {
		result.Details = fmt.Sprintf("judge answered %q, expected %s", truncate(normalized, 80), a.Expected())
	}
	slog.Debug("graded assertion", "assertion", a.Name, "passed", result.Passed, "reply", normalized)
	return result
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
