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

// Package interactive implements the "tracecheck interactive" subcommand:
// a live chat session with the agent that can be saved as a test case.
package interactive

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/google/tracecheck/agent"
	"github.com/google/tracecheck/cmd/tracecheck/root"
	"github.com/google/tracecheck/evaluation"
	"github.com/google/tracecheck/evaluation/storage"
)

type interactiveFlags struct {
	name   string
	noSave bool
}

var flags interactiveFlags

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Chat with the agent and record the session as a test case.",
	Long: `Starts a live conversation with the flight booking agent using real
(simulated-data) tools. On exit, the session is converted into a test case:
the conversation becomes the golden trace and the model drafts a goal and
assertions from the transcript. Drafted cases land in the cases directory's
"unreviewed" subfolder for review.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd)
	},
}

func init() {
	root.Cmd.AddCommand(interactiveCmd)

	interactiveCmd.Flags().StringVarP(&flags.name, "name", "n", "", "Test case name (defaults to a timestamp)")
	interactiveCmd.Flags().BoolVar(&flags.noSave, "no-save", false, "Discard the session instead of saving a test case")
}

func runInteractive(cmd *cobra.Command) error {
	ctx := cmd.Context()

	model, err := root.NewModel(ctx)
	if err != nil {
		return err
	}
	tools, err := root.NewToolset()
	if err != nil {
		return err
	}
	a, err := agent.New(agent.Config{
		Model:       model,
		Instruction: root.AgentInstruction,
		Tools:       tools,
	})
	if err != nil {
		return err
	}

	fmt.Println("Chat with the agent. Type 'exit' or 'quit' to finish.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}
		reply, err := a.Interact(ctx, input)
		if err != nil {
			return fmt.Errorf("agent turn failed: %w", err)
		}
		fmt.Printf("Agent: %s\n", reply)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if flags.noSave || a.History().Len() == 0 {
		return nil
	}

	fmt.Println("Drafting a test case from the session...")
	tc, err := evaluation.GenerateTestCase(ctx, model, a.History(), a.State())
	if err != nil {
		// The recording is the valuable part; keep it even when drafting
		// fails and leave the goal and assertions for review.
		slog.Warn("drafting goal and assertions failed; saving the bare trace", "error", err)
		tc = evaluation.TraceOnlyTestCase(a.History(), a.State())
	}

	store, err := storage.NewFileStore(root.CasesDir())
	if err != nil {
		return err
	}
	name := flags.name
	if name == "" {
		name = fmt.Sprintf("session_%s", time.Now().Format("20060102_150405"))
	}
	if err := store.SaveUnreviewed(ctx, name, tc); err != nil {
		return err
	}
	fmt.Printf("Saved test case %q to %s/%s. Review it before trusting it.\n",
		name, root.CasesDir(), storage.UnreviewedDir)
	return nil
}
