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

package flighttools

import (
	"math/rand/v2"
	"testing"
)

func seeded() *Toolset {
	return New(rand.New(rand.NewPCG(1, 2)))
}

func TestSearchFlightsInvalidDate(t *testing.T) {
	ctx := t.Context()
	res, err := seeded().SearchFlights().Call(ctx, map[string]any{
		"origin":         "SFO",
		"destination":    "JFK",
		"departure_date": "next tuesday",
	})
	if err != nil {
		t.Fatalf("Call=%v, want nil error", err)
	}
	flights, ok := res.([]any)
	if !ok || len(flights) != 0 {
		t.Fatalf("Call=%v, want empty flight list for invalid date", res)
	}
}

func TestSearchFlightsRespectsMaxPrice(t *testing.T) {
	ctx := t.Context()
	res, err := seeded().SearchFlights().Call(ctx, map[string]any{
		"origin":         "SFO",
		"destination":    "JFK",
		"departure_date": "2024-10-27",
		"max_price":      1,
	})
	if err != nil {
		t.Fatalf("Call=%v, want nil error", err)
	}
	flights, ok := res.([]any)
	if !ok {
		t.Fatalf("Call returned %T, want list", res)
	}
	if len(flights) != 0 {
		t.Errorf("found %d flights under a $1 cap, want 0", len(flights))
	}
}

func TestSearchFlightsResultShape(t *testing.T) {
	ctx := t.Context()
	res, err := seeded().SearchFlights().Call(ctx, map[string]any{
		"origin":         "SFO",
		"destination":    "JFK",
		"departure_date": "2024-10-27",
	})
	if err != nil {
		t.Fatalf("Call=%v, want nil error", err)
	}
	flights, ok := res.([]any)
	if !ok || len(flights) == 0 {
		t.Fatalf("Call=%v, want non-empty flight list", res)
	}
	first, ok := flights[0].(map[string]any)
	if !ok {
		t.Fatalf("flight entry is %T, want map", flights[0])
	}
	for _, key := range []string{"flight_id", "airline", "departure_time", "arrival_time", "price"} {
		if _, present := first[key]; !present {
			t.Errorf("flight entry missing %q: %v", key, first)
		}
	}
}

func TestBookFlightInvalidID(t *testing.T) {
	ctx := t.Context()
	res, err := seeded().BookFlight().Call(ctx, map[string]any{"flight_id": "not a flight!"})
	if err != nil {
		t.Fatalf("Call=%v, want nil error", err)
	}
	booking, ok := res.(map[string]any)
	if !ok {
		t.Fatalf("Call returned %T, want map", res)
	}
	if booking["status"] != "failed" {
		t.Errorf("status=%v, want failed", booking["status"])
	}
	if _, present := booking["booking_id"]; present {
		t.Errorf("booking_id present on failed booking: %v", booking)
	}
}

func TestBookFlightOutcomeStatuses(t *testing.T) {
	ctx := t.Context()
	ts := seeded()
	// A seeded source gives a fixed success/failure sequence; every outcome
	// must be one of the two declared statuses.
	for i := 0; i < 8; i++ {
		res, err := ts.BookFlight().Call(ctx, map[string]any{"flight_id": "AA123"})
		if err != nil {
			t.Fatalf("Call=%v, want nil error", err)
		}
		booking := res.(map[string]any)
		switch booking["status"] {
		case "confirmed":
			if booking["booking_id"] == "" {
				t.Errorf("iteration %d: confirmed booking without booking_id", i)
			}
		case "failed":
		default:
			t.Errorf("iteration %d: status=%v, want confirmed or failed", i, booking["status"])
		}
	}
}
