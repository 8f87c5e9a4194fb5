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

// Command tracecheck evaluates a tool-calling agent against recorded
// conversation test cases, and records new cases interactively.
package main

import (
	"os"

	"github.com/google/tracecheck/cmd/tracecheck/root"
	_ "github.com/google/tracecheck/cmd/tracecheck/root/eval"
	_ "github.com/google/tracecheck/cmd/tracecheck/root/interactive"
	_ "github.com/google/tracecheck/cmd/tracecheck/root/list"
)

func main() {
	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
