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
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"github.com/google/tracecheck/conversation"
	"github.com/google/tracecheck/llm"
)

// ExitSentinel is the literal token a simulated user emits when the goal is
// achieved and the conversation should end.
const ExitSentinel = "EXIT"

// terminationPhrases are short acknowledgments that signal the user is
// satisfied. Matched after lowercasing and stripping punctuation, so
// "Thanks!" and "thank you." both terminate.
var terminationPhrases = map[string]bool{
	"thanks":          true,
	"thank you":       true,
	"great thank you": true,
	"ok thanks":       true,
	"perfect thanks":  true,
}

// IsTerminationSignal reports whether a user utterance ends the
// conversation, either via the exit sentinel or an acknowledgment phrase.
// Both conversation modes apply the same check so a case terminates at the
// same point whether its user turns are scripted or simulated.
func IsTerminationSignal(text string) bool {
	if strings.EqualFold(strings.TrimSpace(text), ExitSentinel) {
		return true
	}
	return terminationPhrases[normalizePhrase(text)]
}

func normalizePhrase(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// UserTurnSource produces the next user utterance for a conversation run.
// A false second return value means the source has nothing more to say and
// the conversation is complete.
type UserTurnSource interface {
	Next(ctx context.Context, history *conversation.History) (string, bool)
}

// GoldenTraceSource replays the user turns recorded in a golden trace, in
// order. It is exhausted when the last recorded user turn has been served.
type GoldenTraceSource struct {
	texts  []string
	cursor int
}

// NewGoldenTraceSource returns a source over the trace's user steps.
func NewGoldenTraceSource(trace GoldenTrace) *GoldenTraceSource {
	return &GoldenTraceSource{texts: trace.UserTexts()}
}

var _ UserTurnSource = (*GoldenTraceSource)(nil)

func (s *GoldenTraceSource) Next(ctx context.Context, history *conversation.History) (string, bool) {
	if s.cursor >= len(s.texts) {
		return "", false
	}
	text := s.texts[s.cursor]
	s.cursor++
	return text, true
}

const simulationPromptTemplate = `You are role-playing as a user talking to an assistant.

Your goal: %s

The conversation so far:
%s

Reply with the user's next message only. Do not narrate, do not add a
speaker label, do not answer on the assistant's behalf. Stay in character,
pursue the goal, and follow these rules:
- Provide information only when asked for it, with no more detail than the
  question needs.
- Keep replies short. The assistant remembers earlier context; refer to it
  instead of restating it.
- Do not reveal all of your constraints at once unless asked directly.
- If the assistant asks a clarifying question, answer it.
- If the assistant presents options, pick one.
If the assistant has fully achieved the goal, reply with the single word %s.`

// replyPrefixRE strips speaker labels a simulation model sometimes prepends
// despite instructions.
var replyPrefixRE = regexp.MustCompile(`(?i)^\s*(user|you|your response)\s*:\s*`)

// SimulatedUserSource generates user turns with an LLM role-playing toward
// the test case goal. Model failures, empty replies and termination signals
// all end the conversation; they are distinguished in logs only.
type SimulatedUserSource struct {
	model llm.Model
	goal  string
}

// NewSimulatedUserSource returns a source that pursues the given goal.
func NewSimulatedUserSource(model llm.Model, goal string) *SimulatedUserSource {
	return &SimulatedUserSource{model: model, goal: goal}
}

var _ UserTurnSource = (*SimulatedUserSource)(nil)

func (s *SimulatedUserSource) Next(ctx context.Context, history *conversation.History) (string, bool) {
	prompt := fmt.Sprintf(simulationPromptTemplate, s.goal, history.Transcript("Assistant"), ExitSentinel)
	reply, err := llm.GenerateText(ctx, s.model, prompt, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](1.0),
	})
	if err != nil {
		slog.Warn("user simulation failed", "error", err)
		return "", false
	}
	text := strings.TrimSpace(replyPrefixRE.ReplaceAllString(reply, ""))
	if text == "" {
		slog.Warn("user simulation returned an empty reply")
		return "", false
	}
	if IsTerminationSignal(text) {
		slog.Debug("simulated user signaled completion", "reply", text)
		return "", false
	}
	return text, true
}
