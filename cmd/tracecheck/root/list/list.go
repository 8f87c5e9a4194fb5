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

// Package list implements the "tracecheck list" subcommand.
package list

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/google/tracecheck/cmd/tracecheck/root"
	"github.com/google/tracecheck/evaluation/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the test cases in the cases directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.NewFileStore(root.CasesDir())
		if err != nil {
			return err
		}
		names, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			tc, err := store.Load(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Printf("%-30s %s\n", name, tc.GoalDescription)
		}
		return nil
	},
}

func init() {
	root.Cmd.AddCommand(listCmd)
}
