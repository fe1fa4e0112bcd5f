package trip

import (
	"math"
	"testing"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lng1      float64
		lat2      float64
		lng2      float64
		wantKm    float64
		tolerance float64
	}{
		{
			name: "same point",
			lat1: 30.2672, lng1: -97.7431,
			lat2: 30.2672, lng2: -97.7431,
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name: "West Campus to Sixth Street (~2km)",
			lat1: 30.2849, lng1: -97.7460,
			lat2: 30.2672, lng2: -97.7396,
			wantKm:    2.0,
			tolerance: 0.5,
		},
		{
			name: "Austin to Dallas (~290km)",
			lat1: 30.2672, lng1: -97.7431,
			lat2: 32.7767, lng2: -96.7970,
			wantKm:    292,
			tolerance: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := haversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("haversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	d1 := haversineKm(30.25, -97.75, 30.30, -97.70)
	d2 := haversineKm(30.30, -97.70, 30.25, -97.75)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
}

func TestInServiceArea(t *testing.T) {
	if !inServiceArea(30.2672, -97.7431) {
		t.Error("downtown Austin should be inside the service area")
	}
	if inServiceArea(32.7767, -96.7970) {
		t.Error("Dallas should be outside the service area")
	}
}
