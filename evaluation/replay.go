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
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/tracecheck/tool"
)

// MismatchError reports a tool call the agent made during replay that has no
// matching interaction in the golden trace. It is fatal to the run: an agent
// that calls tools the recording never saw has diverged from the scenario.
type MismatchError struct {
	Tool string
	Args map[string]any
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("no recorded interaction for tool call %s(%s)", e.Tool, canonicalJSON(e.Args))
}

// ReplayExecutor serves tool calls from a golden trace instead of executing
// them. A call matches a recorded interaction when the tool name and the
// canonical JSON encoding of the arguments are identical; the first match in
// trace order wins. Matched interactions are not consumed, so a repeated
// identical call replays the same result.
type ReplayExecutor struct {
	trace GoldenTrace
}

// NewReplayExecutor returns an executor that replays the given trace.
func NewReplayExecutor(trace GoldenTrace) *ReplayExecutor {
	return &ReplayExecutor{trace: trace}
}

var _ tool.Executor = (*ReplayExecutor)(nil)

// Execute looks up the recorded result for the call. It returns a
// *MismatchError when no recorded interaction matches.
func (e *ReplayExecutor) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	want := canonicalJSON(args)
	for _, step := range e.trace.ToolInteractions() {
		if step.Name != name {
			continue
		}
		if canonicalJSON(step.Args) == want {
			slog.Debug("replayed tool call", "tool", name, "args", want)
			return step.Result, nil
		}
	}
	return nil, &MismatchError{Tool: name, Args: args}
}

// canonicalJSON renders an argument map with deterministically ordered keys.
// encoding/json sorts map keys, so equal maps encode identically regardless
// of construction order.
func canonicalJSON(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(b)
}
