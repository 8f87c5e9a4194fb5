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

// Package agent implements the tool-calling conversational agent. An Agent
// owns one conversation and a tool executor strategy; Interact runs one full
// user turn including any tool round-trips the model requests.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"google.golang.org/genai"

	"github.com/google/tracecheck/conversation"
	"github.com/google/tracecheck/llm"
	"github.com/google/tracecheck/tool"
)

// Fallback replies the agent produces when the model misbehaves. The driver
// treats any reply containing one of these as a conversational dead-end.
const (
	FallbackModelError = "Sorry, an error occurred while processing your request."
	FallbackNoReply    = "[Agent provided no response]"
	FallbackNoText     = "[Agent processed tool results, but provided no further text]"
)

// FallbackReplies lists the sentinel replies in one place for termination
// checks.
var FallbackReplies = []string{FallbackModelError, FallbackNoReply, FallbackNoText}

// DefaultMaxToolRounds bounds chained tool-calling rounds within a single
// interaction. One round is the common case for this domain.
const DefaultMaxToolRounds = 4

// Config configures an Agent.
type Config struct {
	// Model is the LLM capability the agent talks to. Required.
	Model llm.Model

	// Instruction is the base system instruction.
	Instruction string

	// Tools declares the agent's tool set. May be nil for a tool-less agent.
	Tools *tool.Registry

	// Executor carries out tool-call requests. Defaults to Tools (real
	// execution); evaluation passes a ReplayExecutor instead. The executor
	// is fixed for the agent's lifetime.
	Executor tool.Executor

	// State holds contextual facts (e.g. "current_date") folded into the
	// system instruction at construction time. A missing current_date is
	// filled in with today.
	State map[string]any

	// MaxToolRounds bounds chained tool rounds per interaction.
	// Defaults to DefaultMaxToolRounds.
	MaxToolRounds int
}

// Agent owns one conversation. Not safe for concurrent use; each evaluation
// run constructs its own.
type Agent struct {
	model         llm.Model
	instruction   string
	tools         *tool.Registry
	executor      tool.Executor
	state         map[string]any
	maxToolRounds int

	history *conversation.History
}

// New constructs an Agent from cfg.
func New(cfg Config) (*Agent, error) {
	if cfg.Model == nil {
		return nil, fmt.Errorf("agent: Model is required")
	}
	state := make(map[string]any, len(cfg.State)+1)
	for k, v := range cfg.State {
		state[k] = v
	}
	if _, ok := state["current_date"]; !ok {
		state["current_date"] = time.Now().Format("2006-01-02")
	}
	executor := cfg.Executor
	if executor == nil {
		if cfg.Tools == nil {
			return nil, fmt.Errorf("agent: either Executor or Tools is required")
		}
		executor = cfg.Tools
	}
	maxRounds := cfg.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}
	return &Agent{
		model:         cfg.Model,
		instruction:   buildInstruction(cfg.Instruction, state),
		tools:         cfg.Tools,
		executor:      executor,
		state:         state,
		maxToolRounds: maxRounds,
		history:       &conversation.History{},
	}, nil
}

// buildInstruction folds the state mapping into the system instruction.
func buildInstruction(base string, state map[string]any) string {
	if base == "" {
		base = "You are a helpful and friendly assistant."
	}
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	instr := base
	for _, k := range keys {
		if k == "current_date" {
			instr += fmt.Sprintf("\nAssume the current date is %v.", state[k])
			continue
		}
		instr += fmt.Sprintf("\nAssume %s is %v.", k, state[k])
	}
	return instr
}

// History returns the agent's conversation log. The evaluation layer reads
// it for assertion grading and cost accounting.
func (a *Agent) History() *conversation.History {
	return a.history
}

// State returns the contextual facts the agent was constructed with.
func (a *Agent) State() map[string]any {
	out := make(map[string]any, len(a.state))
	for k, v := range a.state {
		out[k] = v
	}
	return out
}

// Interact runs one user turn: append the user text, let the model reply,
// resolve any tool-call requests through the executor, and return the final
// text reply.
//
// Model failures are absorbed into a fallback text reply so the conversation
// can be inspected afterwards. Executor failures are fatal for the turn and
// propagate unwrapped; in replay mode a mismatch means the run itself cannot
// faithfully continue.
func (a *Agent) Interact(ctx context.Context, userText string) (string, error) {
	a.history.Append(conversation.NewTextTurn(conversation.RoleUser, userText))

	for round := 0; round < a.maxToolRounds; round++ {
		resp, err := a.model.Generate(ctx, a.request())
		if err != nil {
			slog.Error("model call failed", "error", err)
			return a.reply(FallbackModelError), nil
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			text := resp.Text()
			if text == "" {
				slog.Warn("model returned neither text nor tool calls")
				return FallbackNoReply, nil
			}
			return a.reply(text), nil
		}

		for _, call := range calls {
			slog.Info("model requested tool call", "tool", call.Name)
			a.history.Append(conversation.NewToolCallTurn(call.Name, call.Args))
			result, err := a.executor.Execute(ctx, call.Name, call.Args)
			if err != nil {
				return "", err
			}
			a.history.Append(conversation.NewToolResultTurn(call.Name, result))
		}
	}

	slog.Warn("tool round budget exhausted without a text reply", "rounds", a.maxToolRounds)
	return a.reply(FallbackNoText), nil
}

func (a *Agent) request() *llm.Request {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(a.instruction, ""),
	}
	if a.tools != nil {
		cfg.Tools = a.tools.Declarations()
	}
	return &llm.Request{
		Contents:       a.history.Contents(),
		GenerateConfig: cfg,
	}
}

// reply records the agent's final text turn and returns it.
func (a *Agent) reply(text string) string {
	a.history.Append(conversation.NewTextTurn(conversation.RoleAgent, text))
	return text
}
