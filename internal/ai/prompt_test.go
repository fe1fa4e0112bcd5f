package ai

import (
	"strings"
	"testing"
	"time"

	"rideinsight/internal/modules/insights"
	"rideinsight/internal/modules/trip"
)

func promptStore() *insights.Store {
	mk := func(pickup, dropoff string, hour, n int) trip.Trip {
		return trip.Derive(trip.Trip{
			PickupAddress:  pickup,
			DropoffAddress: dropoff,
			At:             time.Date(2025, 9, 6, hour, 0, 0, 0, time.UTC),
			Passengers:     n,
		})
	}
	return insights.NewStore([]trip.Trip{
		mk("West Campus", "Latchkey", 22, 8),
		mk("West Campus", "Wiggle Room", 22, 3),
		mk("Downtown", "Latchkey", 9, 1),
	}, insights.Options{})
}

func TestBuildContext_CoreNumbersAlways(t *testing.T) {
	got := BuildContext("tell me something", promptStore())
	for _, want := range []string{"Total trips: 3", "Average group size: 4.0", "Peak hour: 10:00 PM", "Large groups (6+): 1 trips"} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q:\n%s", want, got)
		}
	}
	for _, absent := range []string{"Top pickup", "Trips by hour", "Trips by group size", "Stats for"} {
		if strings.Contains(got, absent) {
			t.Errorf("context should not include %q for a neutral question", absent)
		}
	}
}

func TestBuildContext_KeywordSections(t *testing.T) {
	src := promptStore()
	tests := []struct {
		question string
		want     string
	}{
		{"where do people get picked up? top spots", "Top pickup locations:\n- West Campus: 2 trips"},
		{"when is it busiest?", "Trips by hour:\n- 9:00 AM: 1\n- 10:00 PM: 2"},
		{"typical group size", "Trips by group size:\n- 1 passengers: 1 trips"},
		{"how is latchkey doing", "Stats for Latchkey:\n- Pickups: 0 (avg group 0.0)\n- Drop-offs: 2 (avg group 4.5)"},
	}
	for _, tt := range tests {
		if got := BuildContext(tt.question, src); !strings.Contains(got, tt.want) {
			t.Errorf("BuildContext(%q) missing %q:\n%s", tt.question, tt.want, got)
		}
	}
}

func TestBuildPrompt_EndsWithQuestion(t *testing.T) {
	got := BuildPrompt("peak hours?", promptStore())
	if !strings.HasSuffix(got, "User question: peak hours?") {
		t.Fatalf("unexpected prompt tail: %q", got)
	}
}
