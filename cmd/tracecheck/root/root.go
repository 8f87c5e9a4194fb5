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

// Package root holds the tracecheck root command and the configuration
// shared by its subcommands.
package root

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/google/tracecheck/llm"
	"github.com/google/tracecheck/llm/gemini"
	"github.com/google/tracecheck/tool"
	"github.com/google/tracecheck/tool/flighttools"
)

// DefaultModel is the Gemini model used for the agent, the simulated user
// and the judge unless overridden.
const DefaultModel = "gemini-2.5-flash"

// AgentInstruction is the system instruction of the flight booking agent
// under test.
const AgentInstruction = `You are a helpful flight booking assistant.
Use the available tools to search for and book flights on the user's behalf.
Always confirm the flight details with the user before booking.`

type rootFlags struct {
	verbose   bool
	envFile   string
	casesDir  string
	modelName string
}

// Flags holds the root-level settings shared by all subcommands.
var Flags rootFlags

// Cmd is the tracecheck root command.
var Cmd = &cobra.Command{
	Use:   "tracecheck",
	Short: "Replay and grade recorded agent conversations.",
	Long: `tracecheck drives a tool-calling agent through recorded scenarios,
serves its tool calls from the recording so runs are deterministic, and
grades the finished conversation with an LLM judge.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(Flags.verbose)
		if err := godotenv.Load(Flags.envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading %s: %w", Flags.envFile, err)
		}
		if os.Getenv("GOOGLE_API_KEY") == "" && os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("GOOGLE_API_KEY is not set; export it or add it to %s", Flags.envFile)
		}
		return nil
	},
}

func init() {
	Cmd.PersistentFlags().BoolVarP(&Flags.verbose, "verbose", "v", false, "Enable debug logging")
	Cmd.PersistentFlags().StringVar(&Flags.envFile, "env-file", ".env", "Env file to load API keys from")
	Cmd.PersistentFlags().StringVar(&Flags.casesDir, "cases", "testcases", "Directory holding test case files")
	Cmd.PersistentFlags().StringVarP(&Flags.modelName, "model", "m", DefaultModel, "Gemini model name")
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// CasesDir returns the configured test case directory.
func CasesDir() string { return Flags.casesDir }

// NewModel builds the configured Gemini model.
func NewModel(ctx context.Context) (llm.Model, error) {
	return gemini.NewModel(ctx, Flags.modelName, nil)
}

// NewToolset builds the flight tool registry the agent runs with.
func NewToolset() (*tool.Registry, error) {
	return flighttools.New(nil).Registry()
}
