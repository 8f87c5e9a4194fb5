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

// Package eval implements the "tracecheck eval" subcommand.
package eval

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/google/tracecheck/cmd/tracecheck/root"
	"github.com/google/tracecheck/evaluation"
	"github.com/google/tracecheck/evaluation/llmjudge"
	"github.com/google/tracecheck/evaluation/storage"
	"github.com/google/tracecheck/llm"
	"github.com/google/tracecheck/llm/gemini"
)

type evalFlags struct {
	judgeModel string
	userTurns  string
	maxTurns   int
	noColor    bool
}

var flags evalFlags

var evalCmd = &cobra.Command{
	Use:   "eval [test case name]...",
	Short: "Replay test cases and grade the outcome.",
	Long: `Replays the named test cases against the agent with tool calls served
from each case's golden trace, grades every assertion with the judge model,
and prints a report per case. With no names, every case in the cases
directory is evaluated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEval(cmd, args)
	},
}

func init() {
	root.Cmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&flags.judgeModel, "judge-model", "", "Judge model name (defaults to --model)")
	evalCmd.Flags().StringVar(&flags.userTurns, "user-turns", string(evaluation.UserTurnsSimulated),
		`Where user turns come from: "simulated" or "golden"`)
	evalCmd.Flags().IntVar(&flags.maxTurns, "max-turns", evaluation.DefaultMaxTurns, "Conversation turn budget per case")
	evalCmd.Flags().BoolVar(&flags.noColor, "no-color", false, "Disable ANSI colors in the report")
}

func runEval(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := storage.NewFileStore(root.CasesDir())
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		if names, err = store.List(ctx); err != nil {
			return err
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no test cases found in %s", root.CasesDir())
	}

	agentModel, err := root.NewModel(ctx)
	if err != nil {
		return err
	}
	judgeModel := agentModel
	if flags.judgeModel != "" {
		if judgeModel, err = newJudgeModel(cmd, flags.judgeModel); err != nil {
			return err
		}
	}
	tools, err := root.NewToolset()
	if err != nil {
		return err
	}

	evaluator, err := evaluation.New(evaluation.Config{
		AgentModel:  agentModel,
		UserModel:   judgeModel,
		Instruction: root.AgentInstruction,
		Tools:       tools,
		Checker:     llmjudge.New(judgeModel),
		UserTurns:   evaluation.UserTurnMode(flags.userTurns),
		MaxTurns:    flags.maxTurns,
	})
	if err != nil {
		return err
	}

	var reports []*evaluation.Report
	for _, name := range names {
		tc, err := store.Load(ctx, name)
		if err != nil {
			return fmt.Errorf("loading %q: %w", name, err)
		}
		report, err := evaluator.Evaluate(ctx, tc)
		if err != nil {
			return fmt.Errorf("evaluating %q: %w", name, err)
		}
		reports = append(reports, report)
	}

	renderer := evaluation.NewRenderer(os.Stdout, !flags.noColor)
	renderer.RenderAll(reports)

	for _, report := range reports {
		if !report.OutcomePassed {
			return fmt.Errorf("%d of %d cases failed", countFailed(reports), len(reports))
		}
	}
	return nil
}

func newJudgeModel(cmd *cobra.Command, name string) (llm.Model, error) {
	return gemini.NewModel(cmd.Context(), name, nil)
}

func countFailed(reports []*evaluation.Report) int {
	n := 0
	for _, report := range reports {
		if !report.OutcomePassed {
			n++
		}
	}
	return n
}
