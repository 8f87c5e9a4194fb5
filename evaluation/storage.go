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

package evaluation

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the requested test case was not found.
	ErrNotFound = errors.New("evaluation: test case not found")

	// ErrAlreadyExists indicates a test case with that name already exists.
	ErrAlreadyExists = errors.New("evaluation: test case already exists")
)

// Store defines persistence for test cases.
type Store interface {
	// Save stores a test case under the given name.
	Save(ctx context.Context, name string, tc *TestCase) error

	// Load retrieves a test case by name.
	Load(ctx context.Context, name string) (*TestCase, error)

	// List returns the names of all stored test cases.
	List(ctx context.Context) ([]string, error)
}
