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
	"regexp"
	"strings"
)

// ResponseParser normalizes raw judge replies for verdict matching.
type ResponseParser struct {
	leadingNoise *regexp.Regexp
	verdict      *regexp.Regexp
}

// NewResponseParser creates a new response parser.
func NewResponseParser() *ResponseParser {
	return &ResponseParser{
		// Markdown emphasis, fences and stray punctuation models wrap a
		// one-word answer in.
		leadingNoise: regexp.MustCompile("^[`*_#>\\s\"'.,:;!-]+"),
		verdict:      regexp.MustCompile(`^(YES|NO)\b`),
	}
}

// Normalize uppercases the reply and strips the decoration around the
// leading verdict token. When the reply starts with YES or NO, the bare
// token is returned; anything else comes back cleaned but otherwise
// verbatim, so an unparseable reply simply fails its prefix match.
func (p *ResponseParser) Normalize(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = p.leadingNoise.ReplaceAllString(s, "")
	if m := p.verdict.FindString(s); m != "" {
		return m
	}
	return strings.TrimSpace(s)
}
