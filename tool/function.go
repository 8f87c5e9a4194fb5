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

package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"

	"github.com/google/tracecheck/internal/schemautil"
)

// FunctionToolHandler is the typed implementation behind a FunctionTool.
type FunctionToolHandler[TArgs, TResults any] func(ctx context.Context, args TArgs) (TResults, error)

// FunctionTool wraps a Go function as a Tool. The argument schema is derived
// from TArgs by reflection and advertised to the model; incoming argument
// maps are validated against it before the handler runs.
type FunctionTool[TArgs, TResults any] struct {
	name        string
	description string

	inputSchema   *jsonschema.Schema
	inputResolved *jsonschema.Resolved
	declaration   *genai.FunctionDeclaration

	handler FunctionToolHandler[TArgs, TResults]
}

// NewFunctionTool makes a tool using reflection on the given type parameters.
// The input schema is extracted from TArgs and used both for the model's
// function declaration and to validate argument maps before dispatch.
func NewFunctionTool[TArgs, TResults any](name, description string, handler FunctionToolHandler[TArgs, TResults]) *FunctionTool[TArgs, TResults] {
	t, err := newFunctionToolErr(name, description, handler)
	if err != nil {
		panic(fmt.Errorf("NewFunctionTool(%q): %w", name, err))
	}
	return t
}

func newFunctionToolErr[TArgs, TResults any](name, description string, handler FunctionToolHandler[TArgs, TResults]) (*FunctionTool[TArgs, TResults], error) {
	ischema, err := jsonschema.For[TArgs](nil)
	if err != nil {
		return nil, err
	}
	resolved, err := ischema.Resolve(&jsonschema.ResolveOptions{ValidateDefaults: true})
	if err != nil {
		return nil, err
	}
	params, err := schemautil.JSONSchemaToGenai(ischema)
	if err != nil {
		return nil, err
	}

	return &FunctionTool[TArgs, TResults]{
		name:          name,
		description:   description,
		inputSchema:   ischema,
		inputResolved: resolved,
		declaration: &genai.FunctionDeclaration{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
		handler: handler,
	}, nil
}

func (f *FunctionTool[TArgs, TResults]) Name() string        { return f.name }
func (f *FunctionTool[TArgs, TResults]) Description() string { return f.description }

func (f *FunctionTool[TArgs, TResults]) Declaration() *genai.FunctionDeclaration {
	return f.declaration
}

// Call decodes the raw argument map into TArgs, validates it against the
// input schema, runs the handler, and returns the result as a plain JSON
// value (map/slice/scalar) so downstream comparison and rendering see
// canonical types.
func (f *FunctionTool[TArgs, TResults]) Call(ctx context.Context, args map[string]any) (any, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, &ExecutionError{Tool: f.name, Err: fmt.Errorf("marshaling arguments: %w", err)}
	}
	var typed TArgs
	if err := unmarshalSchema(raw, f.inputResolved, &typed); err != nil {
		return nil, &ExecutionError{Tool: f.name, Err: err}
	}
	result, err := f.handler(ctx, typed)
	if err != nil {
		return nil, &ExecutionError{Tool: f.name, Err: err}
	}
	return toJSONValue(result)
}

var _ Tool = (*FunctionTool[struct{}, struct{}])(nil)

// unmarshalSchema unmarshals data into v and validates the result according to
// the given resolved schema.
func unmarshalSchema(data json.RawMessage, resolved *jsonschema.Resolved, v any) error {
	if resolved != nil {
		// jsonschema can only apply defaults to and validate map instances,
		// not structs, so do both on a generic unmarshaling of the data and
		// re-marshal before decoding into v.
		m := make(map[string]any)
		if len(data) > 0 {
			if err := json.Unmarshal(data, &m); err != nil {
				return fmt.Errorf("unmarshaling arguments: %w", err)
			}
		}
		if err := resolved.ApplyDefaults(&m); err != nil {
			return fmt.Errorf("applying schema defaults: %w", err)
		}
		if err := resolved.Validate(m); err != nil {
			return fmt.Errorf("validating arguments: %w", err)
		}
		var err error
		data, err = json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshaling arguments: %w", err)
		}
	}
	// Disallow unknown fields. Otherwise the model could send extra args and
	// json.Unmarshal would ignore them, so the schema would never get a
	// chance to declare them invalid.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("unmarshaling arguments: %w", err)
	}
	return nil
}

// toJSONValue round-trips v through JSON to strip concrete Go types.
func toJSONValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshaling result: %w", err)
	}
	return out, nil
}
