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

// Package schemautil converts between jsonschema and genai schema
// representations. Tool argument schemas are derived with jsonschema.For and
// converted here into the form the Gemini function-calling API accepts.
package schemautil

import (
	"encoding/json"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"
)

// JSONSchemaToGenai converts a jsonschema.Schema to a genai.Schema.
func JSONSchemaToGenai(js *jsonschema.Schema) (*genai.Schema, error) {
	if js == nil {
		return nil, nil
	}

	// Marshal to intermediate map
	data, err := json.Marshal(js)
	if err != nil {
		return nil, err
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	// Uppercase type fields (jsonschema uses "string", genai expects "STRING")
	denormalizeTypes(m)

	// Marshal back and unmarshal to genai.Schema
	data, err = json.Marshal(m)
	if err != nil {
		return nil, err
	}

	var gs genai.Schema
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, err
	}

	return &gs, nil
}

// denormalizeTypes recursively uppercases type fields in the schema map.
func denormalizeTypes(m map[string]any) {
	if t, ok := m["type"].(string); ok {
		m["type"] = strings.ToUpper(t)
	}

	// Recurse into properties
	if props, ok := m["properties"].(map[string]any); ok {
		for _, v := range props {
			if prop, ok := v.(map[string]any); ok {
				denormalizeTypes(prop)
			}
		}
	}

	// Recurse into items
	if items, ok := m["items"].(map[string]any); ok {
		denormalizeTypes(items)
	}

	// Recurse into anyOf
	if anyOf, ok := m["anyOf"].([]any); ok {
		for _, v := range anyOf {
			if s, ok := v.(map[string]any); ok {
				denormalizeTypes(s)
			}
		}
	}
}
