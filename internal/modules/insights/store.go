// README: Aggregate store; builds the snapshot once and answers location/time queries over it.
package insights

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"rideinsight/internal/modules/trip"
)

type Options struct {
	LargeGroupThreshold int
	TopN                int
	// Cache, when set, shares filtered time patterns across processes.
	Cache  Cache
	Logger *zap.Logger
}

// Store is immutable after NewStore; every method is safe for concurrent use.
type Store struct {
	trips       []trip.Trip
	opts        Options
	snapshot    Snapshot
	patterns    TimePatterns
	vocab       []LocationCount
	fingerprint string
	log         *zap.Logger

	memo sync.Map // min group size -> TimePatterns
}

func NewStore(trips []trip.Trip, opts Options) *Store {
	if opts.LargeGroupThreshold <= 0 {
		opts.LargeGroupThreshold = DefaultLargeGroupThreshold
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Store{
		trips: trips,
		opts:  opts,
		log:   opts.Logger.Named("insights"),
	}
	s.snapshot = buildSnapshot(trips, opts)
	s.patterns = buildTimePatterns(trips, 0)
	s.vocab = buildVocabulary(trips)
	s.fingerprint = fingerprint(trips)
	return s
}

// QuickInsights returns a copy of the full snapshot.
func (s *Store) QuickInsights() Snapshot {
	snap := s.snapshot
	snap.TopPickups = slices.Clone(s.snapshot.TopPickups)
	snap.TopDropoffs = slices.Clone(s.snapshot.TopDropoffs)
	snap.GroupSizeDistribution = maps.Clone(s.snapshot.GroupSizeDistribution)
	return snap
}

// Size is the number of trips in the store.
func (s *Store) Size() int { return len(s.trips) }

// Fingerprint identifies the dataset contents.
func (s *Store) Fingerprint() string { return s.fingerprint }

// Vocabulary lists every distinct pickup and dropoff name with its combined
// count, pickups first, in discovery order.
func (s *Store) Vocabulary() []LocationCount {
	return slices.Clone(s.vocab)
}

// LocationStats matches fragment case-insensitively as a substring of each
// trip's main pickup and dropoff names. A blank fragment matches nothing.
func (s *Store) LocationStats(fragment string) LocationStats {
	var stats LocationStats
	needle := strings.ToLower(strings.TrimSpace(fragment))
	if needle == "" {
		return stats
	}

	var pickupSum, dropoffSum int
	var pickupHours, dropoffHours [24]int
	for _, t := range s.trips {
		if strings.Contains(strings.ToLower(t.PickupMain), needle) {
			stats.PickupCount++
			pickupSum += t.Passengers
			pickupHours[t.Hour]++
		}
		if strings.Contains(strings.ToLower(t.DropoffMain), needle) {
			stats.DropoffCount++
			dropoffSum += t.Passengers
			dropoffHours[t.Hour]++
		}
	}
	if stats.PickupCount > 0 {
		stats.AvgGroupSizePickup = float64(pickupSum) / float64(stats.PickupCount)
		stats.PeakHoursPickup = modalHours(pickupHours)
	}
	if stats.DropoffCount > 0 {
		stats.AvgGroupSizeDropoff = float64(dropoffSum) / float64(stats.DropoffCount)
		stats.PeakHoursDropoff = modalHours(dropoffHours)
	}
	return stats
}

// TimePatterns returns hourly, weekday and bucket counts, restricted to trips
// with at least minGroupSize passengers when it is set.
func (s *Store) TimePatterns(ctx context.Context, minGroupSize *int) TimePatterns {
	if minGroupSize == nil || *minGroupSize <= 1 {
		return clonePatterns(s.patterns)
	}
	minSize := *minGroupSize
	if v, ok := s.memo.Load(minSize); ok {
		return clonePatterns(v.(TimePatterns))
	}

	key := fmt.Sprintf("timepatterns:%s:%d", s.fingerprint, minSize)
	if s.opts.Cache != nil {
		tp, ok, err := s.opts.Cache.GetTimePatterns(ctx, key)
		if err != nil {
			s.log.Warn("time pattern cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			s.memo.Store(minSize, tp)
			return clonePatterns(tp)
		}
	}

	tp := buildTimePatterns(s.trips, minSize)
	s.memo.Store(minSize, tp)
	if s.opts.Cache != nil {
		if err := s.opts.Cache.SetTimePatterns(ctx, key, tp); err != nil {
			s.log.Warn("time pattern cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return clonePatterns(tp)
}

// Subset re-derives a store over the trips matching f.
func (s *Store) Subset(f Filter) *Store {
	pickup := strings.ToLower(strings.TrimSpace(f.PickupLocation))
	dropoff := strings.ToLower(strings.TrimSpace(f.DropoffLocation))

	var out []trip.Trip
	for _, t := range s.trips {
		if pickup != "" && !strings.Contains(strings.ToLower(t.PickupMain), pickup) {
			continue
		}
		if dropoff != "" && !strings.Contains(strings.ToLower(t.DropoffMain), dropoff) {
			continue
		}
		if f.HourFrom != nil && t.Hour < *f.HourFrom {
			continue
		}
		if f.HourTo != nil && t.Hour > *f.HourTo {
			continue
		}
		if f.MinPassengers != nil && t.Passengers < *f.MinPassengers {
			continue
		}
		if f.MaxPassengers != nil && t.Passengers > *f.MaxPassengers {
			continue
		}
		if f.DateFrom != nil && t.Date.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && t.Date.After(*f.DateTo) {
			continue
		}
		out = append(out, t)
	}
	return NewStore(out, s.opts)
}

func buildSnapshot(trips []trip.Trip, opts Options) Snapshot {
	snap := Snapshot{
		TotalTrips:            len(trips),
		LargeGroupThreshold:   opts.LargeGroupThreshold,
		GroupSizeDistribution: make(map[int]int),
		TopPickups:            []LocationCount{},
		TopDropoffs:           []LocationCount{},
	}
	if len(trips) == 0 {
		return snap
	}

	pickups := newCounter()
	dropoffs := newCounter()
	passengers := make([]int, 0, len(trips))
	var sum int
	var distSum float64
	var distN int
	for _, t := range trips {
		sum += t.Passengers
		passengers = append(passengers, t.Passengers)
		snap.HourlyDistribution[t.Hour]++
		snap.GroupSizeDistribution[t.Passengers]++
		if t.Passengers >= opts.LargeGroupThreshold {
			snap.LargeGroupsCount++
		}
		pickups.add(t.PickupMain, 1)
		dropoffs.add(t.DropoffMain, 1)
		if t.DistanceKm > 0 {
			distSum += t.DistanceKm
			distN++
		}
	}

	snap.AvgGroupSize = float64(sum) / float64(len(trips))
	snap.MedianGroupSize = median(passengers)
	snap.PeakHour = modalHours(snap.HourlyDistribution)[0]
	snap.LargeGroupsPct = 100 * float64(snap.LargeGroupsCount) / float64(len(trips))
	snap.TopPickups = pickups.top(opts.TopN)
	snap.TopDropoffs = dropoffs.top(opts.TopN)
	snap.UniquePickups = len(pickups.order)
	snap.UniqueDropoffs = len(dropoffs.order)
	if distN > 0 {
		snap.AvgDistanceKm = distSum / float64(distN)
	}
	return snap
}

func buildTimePatterns(trips []trip.Trip, minGroupSize int) TimePatterns {
	tp := TimePatterns{
		MinGroupSize:       minGroupSize,
		DailyCounts:        make(map[string]int),
		TimeCategoryCounts: make(map[trip.TimeCategory]int),
	}
	for _, t := range trips {
		if t.Passengers < minGroupSize {
			continue
		}
		tp.TotalTrips++
		tp.HourlyCounts[t.Hour]++
		tp.DailyCounts[t.Weekday]++
		tp.TimeCategoryCounts[t.TimeCategory]++
	}
	return tp
}

func buildVocabulary(trips []trip.Trip) []LocationCount {
	c := newCounter()
	for _, t := range trips {
		c.add(t.PickupMain, 1)
	}
	for _, t := range trips {
		c.add(t.DropoffMain, 1)
	}
	return c.all()
}

func clonePatterns(tp TimePatterns) TimePatterns {
	tp.DailyCounts = maps.Clone(tp.DailyCounts)
	tp.TimeCategoryCounts = maps.Clone(tp.TimeCategoryCounts)
	return tp
}

// modalHours returns every hour sharing the maximum count, ascending.
func modalHours(hours [24]int) []int {
	best := 0
	for _, c := range hours {
		if c > best {
			best = c
		}
	}
	var out []int
	for h, c := range hours {
		if c == best {
			out = append(out, h)
		}
	}
	return out
}

func median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

func fingerprint(trips []trip.Trip) string {
	h := fnv.New64a()
	var buf [8]byte
	for _, t := range trips {
		h.Write([]byte(t.ID))
		binary.LittleEndian.PutUint64(buf[:], uint64(t.At.Unix()))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(t.Passengers))
		h.Write(buf[:])
	}
	return fmt.Sprintf("%d-%x", len(trips), h.Sum64())
}

// counter counts names and remembers first-seen order for tie-breaking.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string, n int) {
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name] += n
}

func (c *counter) all() []LocationCount {
	out := make([]LocationCount, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, LocationCount{Name: name, Count: c.counts[name]})
	}
	return out
}

func (c *counter) top(n int) []LocationCount {
	out := c.all()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
