// README: Trip module tests (derivation, categories, CSV ingestion, sample generation, validation).
package trip

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rideinsight/internal/types"
)

func TestCategorizeHour(t *testing.T) {
	tests := []struct {
		hour int
		want TimeCategory
	}{
		{0, LateNight}, {5, LateNight}, {6, Morning}, {11, Morning},
		{12, Afternoon}, {16, Afternoon}, {17, Evening}, {20, Evening},
		{21, Night}, {23, Night},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategorizeHour(tt.hour), "hour %d", tt.hour)
	}
}

func TestCategorizeGroup(t *testing.T) {
	tests := []struct {
		passengers int
		want       GroupCategory
	}{
		{1, GroupSmall}, {4, GroupSmall}, {5, GroupMedium}, {8, GroupMedium},
		{9, GroupLarge}, {12, GroupLarge}, {13, GroupExtraLarge}, {20, GroupExtraLarge},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategorizeGroup(tt.passengers), "passengers %d", tt.passengers)
	}
}

func TestMainLocation(t *testing.T) {
	assert.Equal(t, "West Campus", MainLocation("West Campus, Austin, TX"))
	assert.Equal(t, "Downtown", MainLocation("  Downtown  "))
	assert.Equal(t, UnknownLocation, MainLocation(""))
	assert.Equal(t, UnknownLocation, MainLocation(", Austin"))
}

func TestDerive(t *testing.T) {
	at := time.Date(2025, time.September, 6, 22, 15, 0, 0, time.UTC)
	got := Derive(Trip{
		PickupAddress:  "West Campus, Austin, TX",
		DropoffAddress: "The Aquarium on 6th, Austin, TX",
		At:             at,
		Passengers:     8,
	})

	assert.Equal(t, "West Campus", got.PickupMain)
	assert.Equal(t, "The Aquarium on 6th", got.DropoffMain)
	assert.Equal(t, 22, got.Hour)
	assert.Equal(t, "Saturday", got.Weekday)
	assert.Equal(t, Night, got.TimeCategory)
	assert.Equal(t, GroupMedium, got.GroupCategory)
	assert.Equal(t, time.Date(2025, time.September, 6, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Zero(t, got.DistanceKm, "no coordinates means no distance")
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, CategoryEntertainment, Categorize("The Aquarium on 6th"))
	assert.Equal(t, CategoryEntertainment, Categorize("LUNA Rooftop"))
	assert.Equal(t, CategoryCampus, Categorize("West Campus"))
	assert.Equal(t, CategoryCampus, Categorize("University of Texas KA house"))
	assert.Equal(t, CategoryResidential, Categorize("Riverside Apartments"))
	assert.Equal(t, CategoryBusiness, Categorize("Market District"))
	assert.Equal(t, CategoryOther, Categorize("Govalle"))
}

func TestCleanLocationName(t *testing.T) {
	assert.Equal(t, "Wiggle Room", CleanLocationName("Wiggle Room, Austin, TX"))
	assert.Equal(t, "Latchkey", CleanLocationName("Latchkey, Austin, Texas, USA"))
	assert.Equal(t, UnknownLocation, CleanLocationName("   "))
}

const sampleCSV = `Trip ID,Booking User ID,Pick Up Latitude,Pick Up Longitude,Drop Off Latitude,Drop Off Longitude,Pick Up Address,Drop Off Address,Trip Date and Time,Total Passengers
734889,40010,30.2849,-97.7460,30.2672,-97.7396,"West Campus, Austin, TX","The Aquarium on 6th, Austin, TX",9/6/25 22:15,8
734888,40011,30.2849,-97.7460,30.2672,-97.7396,"West Campus, Austin, TX","Wiggle Room, Austin, TX",2025-09-06 22:40:00,3
734887,40012,,,,,"Downtown, Austin, TX","Latchkey, Austin, TX",09/07/2025 9:05,1
734886,40013,,,,,"Downtown, Austin, TX","Latchkey, Austin, TX",not a date,4
734885,40014,,,,,"Downtown, Austin, TX","Latchkey, Austin, TX",9/8/25 1:00,
`

func TestLoadCSV(t *testing.T) {
	trips, report, err := LoadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 5, report.Rows)
	assert.Equal(t, 3, report.Loaded)
	assert.Equal(t, 2, report.Skipped)
	require.Len(t, trips, 3)

	assert.Equal(t, "West Campus", trips[0].PickupMain)
	assert.Equal(t, 22, trips[0].Hour)
	assert.Equal(t, 8, trips[0].Passengers)
	assert.Greater(t, trips[0].DistanceKm, 0.0)
	assert.Equal(t, 22, trips[1].Hour, "ISO layout parses")
	assert.Equal(t, 9, trips[2].Hour, "four-digit year layout parses")
}

func TestLoadCSV_RejectsBadPassengerCounts(t *testing.T) {
	const header = "Trip ID,Trip Date and Time,Total Passengers\n"
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"4", 4, true},
		{"8.0", 8, true},
		{"20", 20, true},
		{"2.7", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"0", 0, false},
		{"25", 0, false},
		{"-3", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			csv := header + "1,9/6/25 22:15," + tt.raw + "\n2,9/6/25 23:15,3\n"
			trips, report, err := LoadCSV(strings.NewReader(csv))
			require.NoError(t, err)
			if tt.ok {
				require.Len(t, trips, 2)
				assert.Equal(t, tt.want, trips[0].Passengers)
				assert.Zero(t, report.Skipped)
				return
			}
			require.Len(t, trips, 1)
			assert.Equal(t, 3, trips[0].Passengers)
			assert.Equal(t, 1, report.Skipped)
			require.Len(t, report.Errors, 1)
			assert.Contains(t, report.Errors[0], "passengers")
		})
	}
}

func TestLoadCSV_MissingColumns(t *testing.T) {
	_, _, err := LoadCSV(strings.NewReader("Trip ID,Pick Up Address\n1,Downtown\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRecord))
	assert.Contains(t, err.Error(), "total passengers")
}

func TestLoadCSV_Empty(t *testing.T) {
	_, _, err := LoadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestParseTimestamp(t *testing.T) {
	for _, v := range []string{"9/6/25 22:15", "09/06/2025 22:15", "2025-09-06 22:15:00", "2025-09-06 22:15", "9/6/25 22:15:30"} {
		got, err := ParseTimestamp(v)
		require.NoError(t, err, v)
		assert.Equal(t, 2025, got.Year(), v)
		assert.Equal(t, 22, got.Hour(), v)
	}
	_, err := ParseTimestamp("yesterday")
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestGenerateSample_Deterministic(t *testing.T) {
	a := GenerateSample(200, DefaultSampleSeed)
	b := GenerateSample(200, DefaultSampleSeed)
	require.Len(t, a, 200)
	assert.Equal(t, a, b)

	c := GenerateSample(200, 7)
	assert.NotEqual(t, a, c)
}

func TestGenerateSample_Shape(t *testing.T) {
	trips := GenerateSample(0, DefaultSampleSeed)
	require.Len(t, trips, DefaultSampleSize)

	assert.Equal(t, "734889", string(trips[0].ID))
	for _, tr := range trips {
		assert.GreaterOrEqual(t, tr.Passengers, MinPassengers)
		assert.LessOrEqual(t, tr.Passengers, MaxPassengers)
		assert.Contains(t, samplePickups, tr.PickupMain)
		assert.Contains(t, sampleDropoffs, tr.DropoffMain)
		assert.Contains(t, sampleHours, tr.Hour)
	}
	assert.True(t, Validate(trips).DuplicateIDs == 0)
}

func TestValidate(t *testing.T) {
	trips := []Trip{
		{ID: "1", Passengers: 4},
		{ID: "1", Passengers: 25},
		{ID: "2", Passengers: 3, Pickup: pointAt(32.7, -96.8)},
	}
	r := Validate(trips)
	assert.False(t, r.OK())
	assert.Equal(t, 1, r.InvalidPassengers)
	assert.Equal(t, 1, r.DuplicateIDs)
	assert.Equal(t, 1, r.OutOfBounds)
	assert.Len(t, r.Issues, 3)

	assert.Equal(t, []string{"dataset is empty"}, Validate(nil).Issues)
}

func pointAt(lat, lng float64) types.Point {
	return types.Point{Lat: lat, Lng: lng}
}
