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
	"fmt"
	"log/slog"

	"github.com/google/tracecheck/agent"
	"github.com/google/tracecheck/conversation"
	"github.com/google/tracecheck/llm"
	"github.com/google/tracecheck/tool"
)

// AssertionChecker grades one assertion against a finished conversation.
// Implementations must not fail the whole run: a grading error is reported
// as a failed result whose details carry the error.
type AssertionChecker interface {
	Check(ctx context.Context, a Assertion, history *conversation.History) AssertionResult
}

// UserTurnMode selects where the user side of a replayed conversation
// comes from.
type UserTurnMode string

const (
	// UserTurnsSimulated generates user turns with an LLM pursuing the
	// test case goal.
	UserTurnsSimulated UserTurnMode = "simulated"

	// UserTurnsGolden replays the user turns recorded in the golden trace.
	UserTurnsGolden UserTurnMode = "golden"
)

// Config assembles everything an Evaluator needs. AgentModel drives the
// agent under test; UserModel drives the simulated user and defaults to
// AgentModel when unset.
type Config struct {
	AgentModel  llm.Model
	UserModel   llm.Model
	Instruction string
	Tools       *tool.Registry
	Checker     AssertionChecker
	UserTurns   UserTurnMode
	MaxTurns    int
}

// Evaluator replays test cases against a fresh agent and grades the result.
type Evaluator struct {
	config Config
}

// New returns an evaluator for the config.
func New(config Config) (*Evaluator, error) {
	if config.AgentModel == nil {
		return nil, errors.New("evaluation: config requires an agent model")
	}
	if config.Checker == nil {
		return nil, errors.New("evaluation: config requires an assertion checker")
	}
	if config.UserModel == nil {
		config.UserModel = config.AgentModel
	}
	if config.UserTurns == "" {
		config.UserTurns = UserTurnsSimulated
	}
	return &Evaluator{config: config}, nil
}

// Evaluate runs one test case end to end: drive the conversation with tool
// calls served from the golden trace, then grade every assertion. It always
// returns a report; a run that aborted early carries the abort in
// Report.Error alongside whatever was graded.
func (e *Evaluator) Evaluate(ctx context.Context, tc *TestCase) (*Report, error) {
	if err := tc.Validate(); err != nil {
		return nil, fmt.Errorf("evaluation: invalid test case: %w", err)
	}
	report := NewReport(tc)

	a, err := agent.New(agent.Config{
		Model:       e.config.AgentModel,
		Instruction: e.config.Instruction,
		Tools:       e.config.Tools,
		Executor:    NewReplayExecutor(tc.GoldenTrace),
		State:       tc.InitialState,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluation: building agent: %w", err)
	}

	var source UserTurnSource
	switch e.config.UserTurns {
	case UserTurnsGolden:
		source = NewGoldenTraceSource(tc.GoldenTrace)
	default:
		source = NewSimulatedUserSource(e.config.UserModel, tc.GoalDescription)
	}

	slog.Info("evaluating test case", "goal", tc.GoalDescription, "user_turns", e.config.UserTurns)
	run, runErr := NewDriver(a, source, e.config.MaxTurns).Run(ctx)
	report.Termination = run.Reason
	report.ToolCalls = run.ToolCalls
	if runErr != nil {
		report.Error = runErr.Error()
		slog.Error("conversation run aborted", "error", runErr)
	}

	for _, assertion := range tc.Assertions {
		res := e.config.Checker.Check(ctx, assertion, run.History)
		report.Details = append(report.Details, res)
	}
	report.OutcomePassed, report.TrajectoryQuality = Aggregate(report.Details)
	if report.Error != "" {
		// A run that diverged from the recording cannot pass, whatever
		// the judge made of the partial transcript.
		report.OutcomePassed = false
	}
	return report, nil
}
