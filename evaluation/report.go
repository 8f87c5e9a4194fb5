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
	"fmt"
	"io"
	"strings"
)

// Color bands for the trajectory and cost facets.
const (
	trajectoryGoodPct = 90.0
	trajectoryWarnPct = 70.0
	costGoodCalls     = 2
	costWarnCalls     = 4
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// Renderer writes human-readable evaluation reports. Colors are ANSI and
// can be disabled for non-terminal output.
type Renderer struct {
	w      io.Writer
	colors bool
}

// NewRenderer returns a renderer writing to w.
func NewRenderer(w io.Writer, colors bool) *Renderer {
	return &Renderer{w: w, colors: colors}
}

// Render writes the report with the outcome facet first, then the per-check
// breakdown, trajectory quality and tool-call cost.
func (r *Renderer) Render(report *Report) {
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(r.w, "Goal: %s\n", report.GoalDescription)
	if report.Error != "" {
		fmt.Fprintf(r.w, "Run error: %s\n", r.paint(ansiRed, report.Error))
	}

	fmt.Fprintf(r.w, "Outcome: %s\n", r.verdict(report.OutcomePassed))
	for _, res := range report.OutcomeResults() {
		r.renderCheck("OUTCOME", res)
	}
	for _, res := range report.TrajectoryResults() {
		r.renderCheck("TRAJECTORY", res)
	}

	pct := report.TrajectoryQuality * 100
	fmt.Fprintf(r.w, "Trajectory quality: %s\n", r.band(fmt.Sprintf("%.1f%%", pct),
		pct >= trajectoryGoodPct, pct >= trajectoryWarnPct))
	fmt.Fprintf(r.w, "Tool calls: %s\n", r.band(fmt.Sprintf("%d", report.ToolCalls),
		report.ToolCalls <= costGoodCalls, report.ToolCalls <= costWarnCalls))
}

// RenderAll writes every report followed by a pass/fail tally.
func (r *Renderer) RenderAll(reports []*Report) {
	passed := 0
	for _, report := range reports {
		r.Render(report)
		if report.OutcomePassed {
			passed++
		}
	}
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 60))
	tally := fmt.Sprintf("%d/%d cases passed", passed, len(reports))
	fmt.Fprintf(r.w, "%s\n", r.band(tally, passed == len(reports), passed > 0))
}

func (r *Renderer) renderCheck(facet string, res AssertionResult) {
	line := fmt.Sprintf("  [%s] %s: %s", facet, res.Name, r.verdict(res.Passed))
	if res.Details != "" && !res.Passed {
		line += fmt.Sprintf(" (%s)", res.Details)
	}
	fmt.Fprintln(r.w, line)
}

func (r *Renderer) verdict(passed bool) string {
	if passed {
		return r.paint(ansiGreen, "PASS")
	}
	return r.paint(ansiRed, "FAIL")
}

// band colors a value green, yellow or red depending on which thresholds
// it clears.
func (r *Renderer) band(s string, good, warn bool) string {
	switch {
	case good:
		return r.paint(ansiGreen, s)
	case warn:
		return r.paint(ansiYellow, s)
	default:
		return r.paint(ansiRed, s)
	}
}

func (r *Renderer) paint(color, s string) string {
	if !r.colors {
		return s
	}
	return color + s + ansiReset
}
