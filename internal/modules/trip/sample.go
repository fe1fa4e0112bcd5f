// README: Seeded synthetic trip generator used when no export is available.
package trip

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"rideinsight/internal/types"
)

const (
	DefaultSampleSize = 2000
	DefaultSampleSeed = 42

	sampleFirstTripID = 734889
)

var (
	samplePickups = []string{
		"West Campus", "The Drag", "Market District", "Sixth Street", "East End",
		"Downtown", "Govalle", "Hancock", "South Lamar", "Warehouse District",
	}
	sampleDropoffs = []string{
		"The Aquarium on 6th", "Wiggle Room", "Shakespeare's", "Mayfair Austin",
		"Latchkey", "6013 Loyola Ln", "Buford's", "Darrell K Royal Texas Memorial Stadium",
		"LUNA Rooftop", "University of Texas KA house", "Green Light Social", "The Cat's Pajamas",
	}

	samplePassengers       = []int{14, 8, 7, 10, 9, 12, 11, 13, 6, 5, 4, 3, 2, 1}
	samplePassengerWeights = []float64{0.173, 0.128, 0.120, 0.115, 0.113, 0.087, 0.085, 0.077, 0.063, 0.028, 0.007, 0.004, 0.001, 0.001}

	sampleHours       = []int{22, 23, 21, 19, 0, 20, 18, 1, 2, 17, 16, 3}
	sampleHourWeights = []float64{0.25, 0.23, 0.19, 0.11, 0.08, 0.06, 0.05, 0.03, 0.02, 0.01, 0.01, 0.01}

	sampleCenter = types.Point{Lat: 30.2672, Lng: -97.7431}
)

const sampleSpread = 0.02

// GenerateSample returns n derived trips drawn from fixed weighted
// distributions. The same seed always yields the same trips.
func GenerateSample(n int, seed int64) []Trip {
	if n <= 0 {
		n = DefaultSampleSize
	}
	r := rand.New(rand.NewSource(seed))

	trips := make([]Trip, 0, n)
	for i := 0; i < n; i++ {
		passengers := samplePassengers[weightedIndex(r, samplePassengerWeights)]
		hour := sampleHours[weightedIndex(r, sampleHourWeights)]
		pickup := jitter(r, sampleCenter)
		dropoff := jitter(r, sampleCenter)
		day := 1 + r.Intn(30)
		minute := r.Intn(60)

		trips = append(trips, Derive(Trip{
			ID:             types.ID(strconv.Itoa(sampleFirstTripID - i)),
			BookingUserID:  strconv.Itoa(10000 + r.Intn(989999)),
			Pickup:         pickup,
			Dropoff:        dropoff,
			PickupAddress:  fmt.Sprintf("%s, Austin, TX", samplePickups[r.Intn(len(samplePickups))]),
			DropoffAddress: fmt.Sprintf("%s, Austin, TX", sampleDropoffs[r.Intn(len(sampleDropoffs))]),
			At:             time.Date(2025, time.September, day, hour, minute, 0, 0, time.UTC),
			Passengers:     passengers,
		}))
	}
	return trips
}

func weightedIndex(r *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	x := r.Float64() * total
	for i, w := range weights {
		if x < w {
			return i
		}
		x -= w
	}
	return len(weights) - 1
}

func jitter(r *rand.Rand, center types.Point) types.Point {
	return types.Point{
		Lat: center.Lat + r.NormFloat64()*sampleSpread,
		Lng: center.Lng + r.NormFloat64()*sampleSpread,
	}
}
