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

package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/tracecheck/evaluation"
)

// MemoryStore keeps test cases in memory. Suitable for tests and
// development.
type MemoryStore struct {
	mu    sync.RWMutex
	cases map[string]*evaluation.TestCase
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cases: make(map[string]*evaluation.TestCase)}
}

var _ evaluation.Store = (*MemoryStore)(nil)

// Save stores the test case. A name already in use is not clobbered.
func (m *MemoryStore) Save(ctx context.Context, name string, tc *evaluation.TestCase) error {
	if err := tc.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cases[name]; ok {
		return fmt.Errorf("%s: %w", name, evaluation.ErrAlreadyExists)
	}
	m.cases[name] = tc
	return nil
}

// Load retrieves a test case by name.
func (m *MemoryStore) Load(ctx context.Context, name string) (*evaluation.TestCase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tc, ok := m.cases[name]
	if !ok {
		return nil, evaluation.ErrNotFound
	}
	return tc, nil
}

// List returns the stored case names, sorted.
func (m *MemoryStore) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.cases))
	for name := range m.cases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
