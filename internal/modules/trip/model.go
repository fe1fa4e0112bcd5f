// README: Trip record model plus derived per-record attributes computed once at load.
package trip

import (
	"errors"
	"strings"
	"time"

	"rideinsight/internal/types"
)

var (
	ErrInvalidRecord = errors.New("invalid trip record")
	ErrNoData        = errors.New("no trip data")
)

const (
	MinPassengers = 1
	MaxPassengers = 20

	UnknownLocation = "Unknown"
)

type TimeCategory string

const (
	Morning   TimeCategory = "Morning"
	Afternoon TimeCategory = "Afternoon"
	Evening   TimeCategory = "Evening"
	Night     TimeCategory = "Night"
	LateNight TimeCategory = "Late Night"
)

// TimeCategories lists the buckets in a fixed reporting order.
var TimeCategories = []TimeCategory{Morning, Afternoon, Evening, Night, LateNight}

type GroupCategory string

const (
	GroupSmall      GroupCategory = "Small (1-4)"
	GroupMedium     GroupCategory = "Medium (5-8)"
	GroupLarge      GroupCategory = "Large (9-12)"
	GroupExtraLarge GroupCategory = "Extra Large (13+)"
)

// Trip is one ride. The fields below the blank line are filled by Derive.
type Trip struct {
	ID             types.ID
	BookingUserID  string
	PickupAddress  string
	DropoffAddress string
	Pickup         types.Point
	Dropoff        types.Point
	At             time.Time
	Passengers     int

	PickupMain    string
	DropoffMain   string
	Hour          int
	Weekday       string
	Date          time.Time
	TimeCategory  TimeCategory
	GroupCategory GroupCategory
	DistanceKm    float64
}

// Derive fills the derived attributes from the raw fields.
func Derive(t Trip) Trip {
	t.PickupMain = MainLocation(t.PickupAddress)
	t.DropoffMain = MainLocation(t.DropoffAddress)
	t.Hour = t.At.Hour()
	t.Weekday = t.At.Weekday().String()
	t.Date = time.Date(t.At.Year(), t.At.Month(), t.At.Day(), 0, 0, 0, 0, t.At.Location())
	t.TimeCategory = CategorizeHour(t.Hour)
	t.GroupCategory = CategorizeGroup(t.Passengers)
	if !t.Pickup.IsZero() && !t.Dropoff.IsZero() {
		t.DistanceKm = haversineKm(t.Pickup.Lat, t.Pickup.Lng, t.Dropoff.Lat, t.Dropoff.Lng)
	}
	return t
}

// DeriveAll applies Derive to every trip in place.
func DeriveAll(trips []Trip) []Trip {
	for i := range trips {
		trips[i] = Derive(trips[i])
	}
	return trips
}

// MainLocation returns the address up to its first comma.
func MainLocation(address string) string {
	address = strings.TrimSpace(address)
	if address == "" {
		return UnknownLocation
	}
	main, _, _ := strings.Cut(address, ",")
	main = strings.TrimSpace(main)
	if main == "" {
		return UnknownLocation
	}
	return main
}

func CategorizeHour(hour int) TimeCategory {
	switch {
	case hour >= 6 && hour <= 11:
		return Morning
	case hour >= 12 && hour <= 16:
		return Afternoon
	case hour >= 17 && hour <= 20:
		return Evening
	case hour >= 21 && hour <= 23:
		return Night
	default:
		return LateNight
	}
}

func CategorizeGroup(passengers int) GroupCategory {
	switch {
	case passengers <= 4:
		return GroupSmall
	case passengers <= 8:
		return GroupMedium
	case passengers <= 12:
		return GroupLarge
	default:
		return GroupExtraLarge
	}
}
