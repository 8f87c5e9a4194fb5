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

// Package storage provides test case persistence backends.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/google/tracecheck/evaluation"
)

// extensions a test case file may carry, in lookup order.
var extensions = []string{".json", ".yaml", ".yml"}

// UnreviewedDir is the subdirectory auto-generated cases are saved to until
// a human promotes them. Load searches it after the base directory.
const UnreviewedDir = "unreviewed"

// FileStore persists test cases as JSON or YAML files:
//
//	<basePath>/
//	  <name>.json
//	  <name>.yaml
//	  unreviewed/
//	    <name>.json
type FileStore struct {
	mu       sync.RWMutex
	basePath string
}

// NewFileStore creates a file-backed store rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(basePath, UnreviewedDir), 0755); err != nil {
		return nil, fmt.Errorf("creating test case directory: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

var _ evaluation.Store = (*FileStore)(nil)

// Save writes the test case as indented JSON under the base directory.
// A case already stored under the name, in any format, is not clobbered.
func (f *FileStore) Save(ctx context.Context, name string, tc *evaluation.TestCase) error {
	return f.save(f.basePath, name, tc)
}

// SaveUnreviewed writes the test case to the unreviewed subdirectory.
func (f *FileStore) SaveUnreviewed(ctx context.Context, name string, tc *evaluation.TestCase) error {
	return f.save(filepath.Join(f.basePath, UnreviewedDir), name, tc)
}

func (f *FileStore) save(dir, name string, tc *evaluation.TestCase) error {
	if err := tc.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid test case: %w", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ext := range extensions {
		if _, err := os.Stat(filepath.Join(dir, name+ext)); err == nil {
			return fmt.Errorf("%s: %w", name, evaluation.ErrAlreadyExists)
		}
	}
	data, err := json.MarshalIndent(tc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling test case: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0644); err != nil {
		return fmt.Errorf("writing test case file: %w", err)
	}
	return nil
}

// Load retrieves a test case by name, trying the known extensions in the
// base directory first and the unreviewed subdirectory second. The name may
// also carry an explicit extension.
func (f *FileStore) Load(ctx context.Context, name string) (*evaluation.TestCase, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, path := range f.candidates(name) {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading test case file: %w", err)
		}
		return decode(path, data)
	}
	return nil, evaluation.ErrNotFound
}

func (f *FileStore) candidates(name string) []string {
	var paths []string
	for _, dir := range []string{f.basePath, filepath.Join(f.basePath, UnreviewedDir)} {
		if hasKnownExtension(name) {
			paths = append(paths, filepath.Join(dir, name))
			continue
		}
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, name+ext))
		}
	}
	return paths
}

// List returns the names of the cases in the base directory, sorted and
// without extensions. Unreviewed cases are excluded.
func (f *FileStore) List(ctx context.Context) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		return nil, fmt.Errorf("reading test case directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !hasKnownExtension(entry.Name()) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names, nil
}

func hasKnownExtension(name string) bool {
	ext := filepath.Ext(name)
	for _, known := range extensions {
		if ext == known {
			return true
		}
	}
	return false
}

// decode parses a test case file. YAML is routed through JSON so the trace
// union decoding is identical for both formats.
func decode(path string, data []byte) (*evaluation.TestCase, error) {
	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
		var err error
		if data, err = json.Marshal(raw); err != nil {
			return nil, fmt.Errorf("converting %s: %w", filepath.Base(path), err)
		}
	}
	var tc evaluation.TestCase
	if err := json.Unmarshal(data, &tc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if err := tc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return &tc, nil
}
