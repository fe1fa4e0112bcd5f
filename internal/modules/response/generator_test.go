// README: Response generator tests over a small fixed trip set and a stubbed store.
package response

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rideinsight/internal/modules/insights"
	"rideinsight/internal/modules/intent"
	"rideinsight/internal/modules/location"
	"rideinsight/internal/modules/trip"
)

func mkTrip(pickup, dropoff string, hour, passengers int) trip.Trip {
	return trip.Derive(trip.Trip{
		PickupAddress:  pickup + ", Austin, TX",
		DropoffAddress: dropoff + ", Austin, TX",
		At:             time.Date(2025, time.September, 6, hour, 0, 0, 0, time.UTC),
		Passengers:     passengers,
	})
}

// fixture: 12 West Campus -> Aquarium trips at 11 PM (6, 7, 8 riders, four
// each) and 3 Downtown -> Latchkey pairs at 9 AM.
func fixture() *insights.Store {
	var trips []trip.Trip
	for i := 0; i < 12; i++ {
		trips = append(trips, mkTrip("West Campus", "The Aquarium on 6th", 23, 6+i%3))
	}
	for i := 0; i < 3; i++ {
		trips = append(trips, mkTrip("Downtown", "Latchkey", 9, 2))
	}
	return insights.NewStore(trips, insights.Options{})
}

func newGen(s Insights) *Generator { return NewGenerator(s, location.Resolve) }

func intPtr(v int) *int { return &v }

func TestFormatHour(t *testing.T) {
	tests := map[int]string{0: "12:00 AM", 1: "1:00 AM", 11: "11:00 AM", 12: "12:00 PM", 13: "1:00 PM", 23: "11:00 PM"}
	for h, want := range tests {
		assert.Equal(t, want, FormatHour(h))
	}
}

func TestLocationStats_AquariumScenario(t *testing.T) {
	q := intent.Normalize("How many groups went to The Aquarium on 6th last month?")
	res := intent.NewClassifier().Classify(q)
	assert.Equal(t, intent.LocationStats{Location: "the aquarium on 6th"}, res.Intent)

	out := newGen(fixture()).Generate(context.Background(), res.Intent, q)
	assert.Contains(t, out, "<strong>Stats for The Aquarium on 6th:</strong>")
	assert.Contains(t, out, "<strong>12 drop-off trips</strong> with an average group size of 7.0")
	assert.Contains(t, out, "Most popular drop-off times: 11:00 PM")
	assert.NotContains(t, out, "pickup trips")
	assert.Contains(t, out, "80.0% of all Austin trips")
	assert.Contains(t, out, "<strong>Note:</strong>")
}

func TestLocationStats_TitleCasesUnknownSpelling(t *testing.T) {
	out := newGen(fixture()).Generate(context.Background(), intent.LocationStats{Location: "west camp"}, "tell me about west camp")
	assert.Contains(t, out, "<strong>Stats for West Camp:</strong>")
	assert.Contains(t, out, "<strong>12 pickup trips</strong>")
	assert.NotContains(t, out, "<strong>Note:</strong>")
}

func TestLocationStats_ClosestMatch(t *testing.T) {
	out := newGen(fixture()).Generate(context.Background(), intent.LocationStats{Location: "aquarium 6th"}, "tell me about aquarium 6th")
	assert.Contains(t, out, "<strong>Found results for 'The Aquarium on 6th'</strong> (closest match to 'aquarium 6th')")
	assert.Contains(t, out, "12 drop-off trips")
}

func TestLocationStats_NotFound(t *testing.T) {
	out := newGen(fixture()).Generate(context.Background(), intent.LocationStats{Location: "narnia"}, "tell me about narnia")
	assert.Contains(t, out, "couldn't find any trips associated with 'narnia'")
}

// zeroStore reports no stats for any name, so the best fuzzy candidate is empty too.
type zeroStore struct {
	vocab []insights.LocationCount
}

func (z zeroStore) QuickInsights() insights.Snapshot            { return insights.Snapshot{TotalTrips: 10} }
func (z zeroStore) LocationStats(string) insights.LocationStats { return insights.LocationStats{} }
func (z zeroStore) Vocabulary() []insights.LocationCount        { return z.vocab }

func (z zeroStore) TimePatterns(context.Context, *int) insights.TimePatterns {
	return insights.TimePatterns{}
}

func TestLocationStats_ZeroStatCandidateListsSuggestions(t *testing.T) {
	s := zeroStore{vocab: []insights.LocationCount{
		{Name: "Ghost Bar", Count: 4},
		{Name: "Ghost Lounge", Count: 9},
		{Name: "Ghost Pub", Count: 2},
		{Name: "Ghost Club", Count: 1},
	}}
	out := newGen(s).Generate(context.Background(), intent.LocationStats{Location: "ghost"}, "tell me about ghost")

	assert.Contains(t, out, "I couldn't find exact data for 'ghost'. Did you mean one of these?")
	assert.Contains(t, out, "• <strong>Ghost Lounge</strong> (9 total trips)")
	assert.Contains(t, out, "• <strong>Ghost Pub</strong> (2 total trips)")
	assert.NotContains(t, out, "Ghost Club", "at most three suggestions")
	assert.Contains(t, out, "Try asking: 'Tell me about Ghost Lounge'")
	assert.NotContains(t, out, "0 pickup trips")
}

func TestTimePatterns_PeakHourFirst(t *testing.T) {
	q := "what are the peak hours?"
	res := intent.NewClassifier().Classify(q)
	out := newGen(fixture()).Generate(context.Background(), res.Intent, q)

	assert.Contains(t, out, "1. <strong>11:00 PM</strong> - 12 trips")
	assert.Contains(t, out, "2. <strong>9:00 AM</strong> - 3 trips")
	assert.Less(t, strings.Index(out, "11:00 PM"), strings.Index(out, "9:00 AM"))
	assert.Contains(t, out, "<strong>Night:</strong> 12 trips")
	assert.Contains(t, out, "11:00 PM is the absolute peak with 12 trips!")
	assert.NotContains(t, out, "<em>")
}

func TestTimePatterns_Filtered(t *testing.T) {
	g := newGen(fixture())
	out := g.Generate(context.Background(), intent.TimePatterns{MinGroupSize: intPtr(8)}, "")
	assert.Contains(t, out, "<em>For groups of 8+ riders:</em>")
	assert.Contains(t, out, "1. <strong>11:00 PM</strong> - 4 trips")

	out = g.Generate(context.Background(), intent.TimePatterns{MinGroupSize: intPtr(20)}, "")
	assert.Contains(t, out, "No trips found for groups of 20+ riders.")
}

func TestGroupSize(t *testing.T) {
	g := newGen(fixture())

	out := g.Generate(context.Background(), intent.GroupSize{}, "")
	assert.Contains(t, out, "<strong>Group Size Analysis (6+ passengers):</strong>")
	assert.Contains(t, out, "<strong>12 trips</strong> had 6+ passengers (80.0% of all trips)")
	assert.Contains(t, out, "• <strong>6 passengers:</strong> 4 trips (33.3%)")
	assert.Less(t, strings.Index(out, "6 passengers:"), strings.Index(out, "8 passengers:"))
	assert.Contains(t, out, "Average group size is 6.0 passengers")

	out = g.Generate(context.Background(), intent.GroupSize{Target: intPtr(10)}, "")
	assert.Contains(t, out, "<strong>0 trips</strong> had 10+ passengers (0.0% of all trips)")
}

func TestTopLocations(t *testing.T) {
	g := newGen(fixture())

	out := g.Generate(context.Background(), intent.TopLocations{Type: intent.LocationPickup}, "")
	assert.Contains(t, out, "1. <strong>West Campus</strong> - 12 pickups")
	assert.Contains(t, out, "2. <strong>Downtown</strong> - 3 pickups")
	assert.NotContains(t, out, "Drop-off Destinations")
	assert.Contains(t, out, "West Campus dominates pickups with 12 trips!")

	out = g.Generate(context.Background(), intent.TopLocations{Type: intent.LocationDropoff}, "")
	assert.Contains(t, out, "1. <strong>The Aquarium on 6th</strong> - 12 drop-offs")
	assert.NotContains(t, out, "Top Pickup Spots")
	assert.NotContains(t, out, "Insight")

	out = g.Generate(context.Background(), intent.TopLocations{Type: intent.LocationBoth}, "")
	assert.Contains(t, out, "Top Pickup Spots")
	assert.Contains(t, out, "Top Drop-off Destinations")
}

func TestDemographics(t *testing.T) {
	g := newGen(fixture())

	out := g.Generate(context.Background(), intent.Demographics{}, "")
	assert.Contains(t, out, "(18-24 year olds)")
	assert.Contains(t, out, "• <strong>The Aquarium on 6th</strong> - 12 drop-offs")
	assert.Contains(t, out, "• <strong>Latchkey</strong> - 3 drop-offs")

	out = g.Generate(context.Background(), intent.Demographics{AgeRange: &intent.AgeRange{Min: 25, Max: 34}}, "")
	assert.Contains(t, out, "(25-34 year olds)")
}

func TestGeneralStats(t *testing.T) {
	out := newGen(fixture()).Generate(context.Background(), intent.GeneralStats{}, "")
	assert.Contains(t, out, "<strong>Total Trips Analyzed:</strong> 15")
	assert.Contains(t, out, "<strong>Peak Hour:</strong> 11:00 PM")
	assert.Contains(t, out, "<strong>Most Common Group Size:</strong> 6 passengers (4 trips)")
	assert.Contains(t, out, "Most popular pickup: <strong>West Campus</strong> (12 trips)")

	big := insights.NewStore(trip.GenerateSample(2000, trip.DefaultSampleSeed), insights.Options{})
	out = newGen(big).Generate(context.Background(), intent.GeneralStats{}, "")
	assert.Contains(t, out, "<strong>Total Trips Analyzed:</strong> 2,000")
}

func TestEmptyStoreNeverPanics(t *testing.T) {
	g := newGen(insights.NewStore(nil, insights.Options{}))
	ctx := context.Background()
	for _, in := range []intent.Intent{
		intent.LocationStats{Location: "west campus"},
		intent.TimePatterns{},
		intent.GroupSize{},
		intent.TopLocations{Type: intent.LocationBoth},
		intent.Demographics{},
		intent.GeneralStats{},
		intent.Fallback{},
	} {
		assert.NotPanics(t, func() { _ = g.Generate(ctx, in, "") })
	}
	assert.Contains(t, g.Generate(ctx, intent.GeneralStats{}, ""), "nothing to summarize")
	assert.Contains(t, g.Generate(ctx, intent.TopLocations{Type: intent.LocationBoth}, ""), "No trips recorded yet.")
}

func TestStaticReplies(t *testing.T) {
	g := newGen(fixture())
	ctx := context.Background()

	assert.Contains(t, g.Generate(ctx, intent.Fallback{}, "xyzzy nonsense question"), "Here's what I can help you with")
	assert.Contains(t, g.Generate(ctx, intent.Greeting{}, "hi"), "Hi there!")
	assert.Contains(t, g.Generate(ctx, intent.Casual{Topic: intent.CasualThanks}, "thanks"), "You're welcome!")
	assert.Equal(t, casualReplies[intent.CasualAcknowledge], g.Generate(ctx, intent.Casual{Topic: "unknown"}, ""))
}
