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

// Package tool declares agent tools: their name, typed parameters and return
// shape. The declarations feed the model's function-calling schema; execution
// goes through an Executor strategy so that evaluation can substitute
// recorded results for real calls.
package tool

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// ErrUnknownTool reports a call to a tool name not present in the registry.
var ErrUnknownTool = errors.New("tool: unknown tool")

// ExecutionError wraps a tool call failure with the tool name that failed.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %q: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Tool defines the interface for a callable tool.
type Tool interface {
	// Name returns the name of the tool.
	Name() string
	// Description returns a description of the tool.
	Description() string
	// Declaration returns the function-calling declaration advertised
	// to the model.
	Declaration() *genai.FunctionDeclaration
	// Call runs the tool with the raw argument map the model produced.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// Executor decides how the agent's tool-call requests are carried out.
// A Registry executes real tools; evaluation.ReplayExecutor serves recorded
// results instead. The executor is selected at agent construction and never
// swapped mid-run.
type Executor interface {
	Execute(ctx context.Context, name string, args map[string]any) (any, error)
}

// Registry holds the tool set of one agent, keyed by name and preserving
// registration order. It doubles as the real Executor.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry creates a registry from the given tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool. Duplicate names are rejected.
func (r *Registry) Register(t Tool) error {
	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("tool %q already registered", t.Name())
	}
	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())
	return nil
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Declarations renders the registry as the genai tool set for a model request.
func (r *Registry) Declarations() []*genai.Tool {
	if len(r.order) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, 0, len(r.order))
	for _, name := range r.order {
		decls = append(decls, r.tools[name].Declaration())
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// Execute runs the named tool for real. Unknown names and tool failures are
// reported as *ExecutionError.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, &ExecutionError{Tool: name, Err: ErrUnknownTool}
	}
	result, err := t.Call(ctx, args)
	if err != nil {
		var execErr *ExecutionError
		if errors.As(err, &execErr) {
			return nil, err
		}
		return nil, &ExecutionError{Tool: name, Err: err}
	}
	return result, nil
}

var _ Executor = (*Registry)(nil)
