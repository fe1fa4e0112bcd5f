// README: Aggregate snapshot, per-location and time-pattern result types.
package insights

import (
	"sort"
	"time"

	"rideinsight/internal/modules/trip"
)

const (
	DefaultLargeGroupThreshold = 6
	DefaultTopN                = 10
)

type LocationCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Snapshot is the read-only summary of a trip collection.
type Snapshot struct {
	TotalTrips            int             `json:"total_trips"`
	AvgGroupSize          float64         `json:"avg_group_size"`
	MedianGroupSize       float64         `json:"median_group_size"`
	PeakHour              int             `json:"peak_hour"`
	LargeGroupThreshold   int             `json:"large_group_threshold"`
	LargeGroupsCount      int             `json:"large_groups_count"`
	LargeGroupsPct        float64         `json:"large_groups_pct"`
	TopPickups            []LocationCount `json:"top_pickups"`
	TopDropoffs           []LocationCount `json:"top_dropoffs"`
	HourlyDistribution    [24]int         `json:"hourly_distribution"`
	GroupSizeDistribution map[int]int     `json:"group_size_distribution"`
	UniquePickups         int             `json:"unique_pickups"`
	UniqueDropoffs        int             `json:"unique_dropoffs"`
	AvgDistanceKm         float64         `json:"avg_distance_km"`
}

// ModalGroupSize returns the most common passenger count; ties go to the smaller size.
func (s Snapshot) ModalGroupSize() (size, count int) {
	for k, v := range s.GroupSizeDistribution {
		if v > count || (v == count && k < size) {
			size, count = k, v
		}
	}
	return size, count
}

// GroupSizes returns the distribution as pairs sorted by count descending, size ascending.
func (s Snapshot) GroupSizes(minSize int) []SizeCount {
	out := make([]SizeCount, 0, len(s.GroupSizeDistribution))
	for k, v := range s.GroupSizeDistribution {
		if k >= minSize {
			out = append(out, SizeCount{Size: k, Count: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Size < out[j].Size
	})
	return out
}

type SizeCount struct {
	Size  int `json:"size"`
	Count int `json:"count"`
}

// LocationStats holds independently computed pickup and dropoff sides.
type LocationStats struct {
	PickupCount         int     `json:"pickup_count"`
	DropoffCount        int     `json:"dropoff_count"`
	AvgGroupSizePickup  float64 `json:"avg_group_size_pickup"`
	AvgGroupSizeDropoff float64 `json:"avg_group_size_dropoff"`
	PeakHoursPickup     []int   `json:"peak_hours_pickup"`
	PeakHoursDropoff    []int   `json:"peak_hours_dropoff"`
}

func (s LocationStats) Total() int { return s.PickupCount + s.DropoffCount }

func (s LocationStats) Empty() bool { return s.Total() == 0 }

// TimePatterns is the time breakdown of a (possibly filtered) trip set.
type TimePatterns struct {
	MinGroupSize       int                       `json:"min_group_size,omitempty"`
	TotalTrips         int                       `json:"total_trips"`
	HourlyCounts       [24]int                   `json:"hourly_counts"`
	DailyCounts        map[string]int            `json:"daily_counts"`
	TimeCategoryCounts map[trip.TimeCategory]int `json:"time_category_counts"`
}

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// TopHours returns up to n hours by count descending, ties by hour ascending.
// Hours with no trips are left out.
func (p TimePatterns) TopHours(n int) []HourCount {
	hours := make([]HourCount, 0, 24)
	for h, c := range p.HourlyCounts {
		if c > 0 {
			hours = append(hours, HourCount{Hour: h, Count: c})
		}
	}
	sort.SliceStable(hours, func(i, j int) bool { return hours[i].Count > hours[j].Count })
	if len(hours) > n {
		hours = hours[:n]
	}
	return hours
}

type CategoryCount struct {
	Category trip.TimeCategory `json:"category"`
	Count    int               `json:"count"`
}

// Buckets returns non-empty time-of-day buckets by count descending; ties keep
// the fixed bucket order.
func (p TimePatterns) Buckets() []CategoryCount {
	out := make([]CategoryCount, 0, len(trip.TimeCategories))
	for _, c := range trip.TimeCategories {
		if n := p.TimeCategoryCounts[c]; n > 0 {
			out = append(out, CategoryCount{Category: c, Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Filter narrows a trip set; nil or empty fields do not filter.
type Filter struct {
	PickupLocation  string
	DropoffLocation string
	HourFrom        *int
	HourTo          *int
	MinPassengers   *int
	MaxPassengers   *int
	DateFrom        *time.Time
	DateTo          *time.Time
}
