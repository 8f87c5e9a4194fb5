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

// Package evaluation replays recorded agent conversations and grades them.
//
// A TestCase bundles a goal, a golden trace (the reference conversation,
// including every tool call and its result) and a set of assertions. The
// Evaluator drives a fresh agent through the scenario with tool calls
// served verbatim from the trace by a ReplayExecutor, so runs are
// deterministic and free of live side effects. An agent tool call with no
// recorded counterpart is a divergence and aborts the run with a
// MismatchError.
//
// The user side of the conversation comes from a UserTurnSource: either the
// trace's recorded user turns, or an LLM role-playing toward the case goal.
// Both modes share the same termination heuristics.
//
// After the run, each assertion is graded by an AssertionChecker (see the
// llmjudge subpackage) and folded into a Report with three facets: a binary
// outcome verdict, a trajectory quality fraction, and the tool-call count.
//
// Test cases persist through a Store; see the storage subpackage for the
// file and in-memory backends. Cases can also be drafted from a live
// session with GenerateTestCase.
package evaluation
