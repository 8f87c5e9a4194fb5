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

package llmjudge

import (
	"fmt"
	"strings"

	"github.com/google/tracecheck/conversation"
	"github.com/google/tracecheck/evaluation"
)

// ToolHistoryPlaceholder is the literal token in an assertion's prompt
// template that is replaced with the rendered tool interactions.
const ToolHistoryPlaceholder = "{tool_history}"

const historyPreamble = `Consider the following conversation between a user and an assistant:

%s

Based only on this conversation, answer the question below. Answer with a
single word: YES or NO.

Question: %s`

// BuildPrompt renders the assertion's question against the conversation:
// the transcript is prefixed as shared context, and any tool-history
// placeholder in the template is substituted with the rendered tool
// interactions.
func BuildPrompt(a evaluation.Assertion, history *conversation.History) string {
	question := strings.ReplaceAll(a.PromptTemplate, ToolHistoryPlaceholder, history.ToolTranscript())
	return fmt.Sprintf(historyPreamble, history.Transcript("Assistant"), question)
}
