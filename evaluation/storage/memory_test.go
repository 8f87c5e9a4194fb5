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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/tracecheck/evaluation"
)

func TestMemoryStoreSaveLoadList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	want := sampleCase()

	if err := store.Save(ctx, "rome_booking", want); err != nil {
		t.Fatalf("Save() got error %v, want nil", err)
	}
	got, err := store.Load(ctx, "rome_booking")
	if err != nil {
		t.Fatalf("Load() got error %v, want nil", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	names, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() got error %v, want nil", err)
	}
	if diff := cmp.Diff([]string{"rome_booking"}, names); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Load(context.Background(), "nope"); !errors.Is(err, evaluation.ErrNotFound) {
		t.Fatalf("Load() got error %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreSaveExisting(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, "rome_booking", sampleCase()); err != nil {
		t.Fatalf("Save() got error %v, want nil", err)
	}
	if err := store.Save(ctx, "rome_booking", sampleCase()); !errors.Is(err, evaluation.ErrAlreadyExists) {
		t.Fatalf("Save() of existing name got error %v, want ErrAlreadyExists", err)
	}
}

func TestMemoryStoreSaveInvalid(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Save(context.Background(), "bad", &evaluation.TestCase{}); err == nil {
		t.Fatal("Save() got nil error, want validation error")
	}
}
