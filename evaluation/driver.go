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
	"log/slog"

	"github.com/google/tracecheck/agent"
	"github.com/google/tracecheck/conversation"
)

// DefaultMaxTurns bounds a conversation run when no explicit limit is set.
const DefaultMaxTurns = 15

// TerminationReason states why a conversation run ended.
type TerminationReason string

const (
	// TerminationCompleted means the user source was exhausted, signaled
	// satisfaction, or the agent hit a dead end it could not recover from.
	TerminationCompleted TerminationReason = "completed"

	// TerminationMaxTurns means the turn budget ran out first.
	TerminationMaxTurns TerminationReason = "max_turns"

	// TerminationError means the run aborted on a fatal error, typically a
	// tool call with no recorded counterpart.
	TerminationError TerminationReason = "error"
)

// ToolCallRecord is one tool invocation observed during a run.
type ToolCallRecord struct {
	Name   string
	Args   map[string]any
	Result any
}

// TurnRecord captures one user/agent exchange and the tool calls it caused.
type TurnRecord struct {
	UserInput  string
	AgentReply string
	ToolCalls  []ToolCallRecord
}

// RunResult is the raw outcome of driving a conversation: what was said,
// what tools were called, and why it stopped.
type RunResult struct {
	Reason    TerminationReason
	Turns     []TurnRecord
	ToolCalls int
	History   *conversation.History
}

// Driver runs a conversation between an agent and a user turn source until
// the source is exhausted, the turn budget runs out, or a fatal error.
type Driver struct {
	agent    *agent.Agent
	source   UserTurnSource
	maxTurns int
}

// NewDriver returns a driver with the given turn budget. A non-positive
// budget uses DefaultMaxTurns.
func NewDriver(a *agent.Agent, source UserTurnSource, maxTurns int) *Driver {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Driver{agent: a, source: source, maxTurns: maxTurns}
}

// Run drives the conversation to termination. The returned result is valid
// even when err is non-nil: it holds the turns completed before the failure
// with Reason set to TerminationError.
func (d *Driver) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{Reason: TerminationMaxTurns}
	for turn := 0; turn < d.maxTurns; turn++ {
		input, ok := d.source.Next(ctx, d.agent.History())
		if !ok {
			result.Reason = TerminationCompleted
			break
		}
		if IsTerminationSignal(input) {
			slog.Debug("user signaled completion", "input", input)
			result.Reason = TerminationCompleted
			break
		}

		before := d.agent.History().Len()
		reply, err := d.agent.Interact(ctx, input)
		record := TurnRecord{
			UserInput:  input,
			AgentReply: reply,
			ToolCalls:  toolCallsSince(d.agent.History(), before),
		}
		result.Turns = append(result.Turns, record)
		result.ToolCalls += len(record.ToolCalls)
		if err != nil {
			result.Reason = TerminationError
			result.History = d.agent.History()
			return result, err
		}

		if isFallbackReply(reply) {
			slog.Debug("agent hit a dead end", "reply", reply)
			result.Reason = TerminationCompleted
			break
		}
	}
	if result.Reason == TerminationMaxTurns {
		slog.Warn("conversation hit the turn limit", "max_turns", d.maxTurns)
	}
	result.History = d.agent.History()
	return result, nil
}

// toolCallsSince pairs the tool call and result turns appended to the
// history at or after offset.
func toolCallsSince(h *conversation.History, offset int) []ToolCallRecord {
	var calls []ToolCallRecord
	var pending *ToolCallRecord
	for _, turn := range h.Turns()[offset:] {
		switch turn.Kind {
		case conversation.KindToolCall:
			calls = append(calls, ToolCallRecord{Name: turn.ToolName, Args: turn.Arguments})
			pending = &calls[len(calls)-1]
		case conversation.KindToolResult:
			if pending != nil && pending.Name == turn.ToolName {
				pending.Result = turn.Result
				pending = nil
			}
		}
	}
	return calls
}

func isFallbackReply(reply string) bool {
	for _, fallback := range agent.FallbackReplies {
		if reply == fallback {
			return true
		}
	}
	return false
}
