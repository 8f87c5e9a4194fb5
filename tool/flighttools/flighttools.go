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

// Package flighttools provides the flight-booking demo tool set: a mock
// flight search and a mock booking tool. These are the "real" executors used
// by interactive sessions; evaluation replays recorded results and never
// calls them.
package flighttools

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/tracecheck/tool"
)

// SearchArgs are the parameters of the search_flights tool.
type SearchArgs struct {
	// Origin is the departure airport code (e.g. "SFO").
	Origin string `json:"origin"`
	// Destination is the arrival airport code (e.g. "JFK").
	Destination string `json:"destination"`
	// DepartureDate is the desired departure date (YYYY-MM-DD).
	DepartureDate string `json:"departure_date"`
	// MaxPrice is the maximum acceptable price. Zero means no limit.
	MaxPrice int `json:"max_price,omitempty"`
	// DepartureTimePreference is "morning", "afternoon" or "evening".
	DepartureTimePreference string `json:"departure_time_preference,omitempty"`
}

// Flight is one search result.
type Flight struct {
	FlightID      string `json:"flight_id"`
	Airline       string `json:"airline"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Price         int    `json:"price"`
}

// BookArgs are the parameters of the book_flight tool.
type BookArgs struct {
	// FlightID is the identifier of the flight to book.
	FlightID string `json:"flight_id"`
}

// Booking is the booking confirmation.
type Booking struct {
	BookingID string `json:"booking_id,omitempty"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

var airlines = []string{"UA", "AA", "DL", "SW"}

// Toolset builds the flight tools over the given random source. Tests pass a
// seeded source; callers wanting live behavior pass nil for a time-seeded one.
type Toolset struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Toolset {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Toolset{rng: rng}
}

// Registry returns a tool registry holding search_flights and book_flight.
func (s *Toolset) Registry() (*tool.Registry, error) {
	return tool.NewRegistry(s.SearchFlights(), s.BookFlight())
}

// SearchFlights returns the search_flights tool.
func (s *Toolset) SearchFlights() tool.Tool {
	return tool.NewFunctionTool(
		"search_flights",
		"Searches for available flights between two airports on a date. Returns flight_id, airline, departure_time, arrival_time and price for each match; an empty list when nothing matches or the date is invalid.",
		s.searchFlights,
	)
}

// BookFlight returns the book_flight tool.
func (s *Toolset) BookFlight() tool.Tool {
	return tool.NewFunctionTool(
		"book_flight",
		"Books the flight specified by flight_id. Returns booking confirmation details including booking_id and status; a failed status when the flight cannot be booked.",
		s.bookFlight,
	)
}

func (s *Toolset) searchFlights(ctx context.Context, args SearchArgs) ([]Flight, error) {
	slog.Info("searching flights",
		"origin", args.Origin,
		"destination", args.Destination,
		"departure_date", args.DepartureDate)

	if _, err := time.Parse("2006-01-02", args.DepartureDate); err != nil {
		slog.Warn("invalid departure date", "departure_date", args.DepartureDate)
		return []Flight{}, nil
	}

	basePrice := 200 + s.rng.IntN(600)
	found := []Flight{}
	for range 1 + s.rng.IntN(5) {
		airline := airlines[s.rng.IntN(len(airlines))]
		depHour := 6 + s.rng.IntN(16)
		depMinute := 15 * s.rng.IntN(4)
		arrHour := (depHour + 3 + s.rng.IntN(4)) % 24
		arrMinute := 15 * s.rng.IntN(4)
		price := basePrice - 50 + s.rng.IntN(150)

		if !matchesTimePreference(depHour, args.DepartureTimePreference) {
			continue
		}
		if args.MaxPrice > 0 && price > args.MaxPrice {
			continue
		}

		found = append(found, Flight{
			FlightID:      fmt.Sprintf("%s%d", airline, 100+s.rng.IntN(900)),
			Airline:       airline,
			DepartureTime: fmt.Sprintf("%02d:%02d", depHour, depMinute),
			ArrivalTime:   fmt.Sprintf("%02d:%02d", arrHour, arrMinute),
			Price:         price,
		})
	}

	slog.Info("flight search finished", "matches", len(found))
	return found, nil
}

func matchesTimePreference(depHour int, pref string) bool {
	switch strings.ToLower(pref) {
	case "morning":
		return depHour < 12
	case "afternoon":
		return depHour >= 12 && depHour < 18
	case "evening":
		return depHour >= 18
	default:
		return true
	}
}

func (s *Toolset) bookFlight(ctx context.Context, args BookArgs) (Booking, error) {
	slog.Info("booking flight", "flight_id", args.FlightID)

	if args.FlightID == "" || !isAlphanumeric(args.FlightID) {
		return Booking{
			Status:  "failed",
			Message: "Invalid flight ID provided.",
		}, nil
	}

	// Occasional booking failures keep the conversational error path honest.
	if s.rng.IntN(4) == 0 {
		slog.Warn("booking failed", "flight_id", args.FlightID)
		return Booking{
			Status:  "failed",
			Message: fmt.Sprintf("Could not book flight %s. Please try again or select a different flight.", args.FlightID),
		}, nil
	}

	booking := Booking{
		BookingID: fmt.Sprintf("BK%d", 10000+s.rng.IntN(90000)),
		Status:    "confirmed",
		Message:   fmt.Sprintf("Flight %s booked successfully.", args.FlightID),
	}
	slog.Info("booking confirmed", "flight_id", args.FlightID, "booking_id", booking.BookingID)
	return booking, nil
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
