// README: Data-backed intent handlers (locations, times, group sizes, rankings, overview).
package response

import (
	"context"
	"fmt"
	"strings"

	"rideinsight/internal/modules/insights"
	"rideinsight/internal/modules/intent"
	"rideinsight/internal/modules/trip"
)

// timeWords in a question trigger the full-dataset note on location replies.
var timeWords = []string{"last", "this", "month", "week", "yesterday", "today"}

func (g *Generator) locationStats(location, question string) string {
	var b strings.Builder
	stats := g.store.LocationStats(location)
	if stats.Empty() {
		matches := g.resolve(location, g.store.Vocabulary())
		if len(matches) == 0 {
			return fmt.Sprintf("I couldn't find any trips associated with '%s'. Try checking the spelling or asking about a different location like 'West Campus' or 'The Aquarium on 6th'.", location)
		}
		best := matches[0].Name
		stats = g.store.LocationStats(best)
		if stats.Empty() {
			return suggestions(location, matches)
		}
		fmt.Fprintf(&b, "<strong>Found results for '%s'</strong> (closest match to '%s'):\n\n", best, location)
	} else {
		fmt.Fprintf(&b, "<strong>Stats for %s:</strong>\n\n", displayName(location, g.store.Vocabulary()))
	}

	if stats.PickupCount > 0 {
		fmt.Fprintf(&b, "<strong>%d pickup trips</strong> with an average group size of %.1f\n", stats.PickupCount, stats.AvgGroupSizePickup)
		if len(stats.PeakHoursPickup) > 0 {
			fmt.Fprintf(&b, "Most popular pickup times: %s\n", formatHours(stats.PeakHoursPickup))
		}
	}
	if stats.DropoffCount > 0 {
		fmt.Fprintf(&b, "<strong>%d drop-off trips</strong> with an average group size of %.1f\n", stats.DropoffCount, stats.AvgGroupSizeDropoff)
		if len(stats.PeakHoursDropoff) > 0 {
			fmt.Fprintf(&b, "Most popular drop-off times: %s\n", formatHours(stats.PeakHoursDropoff))
		}
	}

	total := g.store.QuickInsights().TotalTrips
	fmt.Fprintf(&b, "\n<strong>Insight:</strong> This location accounts for %.1f%% of all Austin trips!", percent(stats.Total(), total))

	for _, w := range timeWords {
		if strings.Contains(question, w) {
			b.WriteString("\n\n<strong>Note:</strong> This data covers our full Austin dataset. For specific time periods, the patterns shown represent typical activity for this location.")
			break
		}
	}
	return b.String()
}

func suggestions(location string, matches []insights.LocationCount) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I couldn't find exact data for '%s'. Did you mean one of these?\n\n", location)
	for i, m := range matches {
		if i == maxSuggestions {
			break
		}
		fmt.Fprintf(&b, "• <strong>%s</strong> (%d total trips)\n", m.Name, m.Count)
	}
	fmt.Fprintf(&b, "\nTry asking: 'Tell me about %s'", matches[0].Name)
	return b.String()
}

func (g *Generator) timePatterns(ctx context.Context, minGroupSize *int) string {
	tp := g.store.TimePatterns(ctx, minGroupSize)

	var b strings.Builder
	b.WriteString("<strong>Peak Riding Times:</strong>\n\n")
	if minGroupSize != nil {
		fmt.Fprintf(&b, "<em>For groups of %d+ riders:</em>\n\n", *minGroupSize)
	}
	top := tp.TopHours(maxTopHours)
	if len(top) == 0 {
		if minGroupSize != nil {
			fmt.Fprintf(&b, "No trips found for groups of %d+ riders.", *minGroupSize)
		} else {
			b.WriteString("No trips found in the dataset.")
		}
		return b.String()
	}

	b.WriteString("<strong>Busiest Hours:</strong>\n")
	for i, h := range top {
		fmt.Fprintf(&b, "%d. <strong>%s</strong> - %d trips\n", i+1, FormatHour(h.Hour), h.Count)
	}
	b.WriteString("\n<strong>By Time Period:</strong>\n")
	for _, c := range tp.Buckets() {
		fmt.Fprintf(&b, "• <strong>%s:</strong> %d trips\n", c.Category, c.Count)
	}
	fmt.Fprintf(&b, "\n<strong>Insight:</strong> %s is the absolute peak with %d trips!", FormatHour(top[0].Hour), top[0].Count)
	return b.String()
}

func (g *Generator) groupSize(target *int) string {
	snap := g.store.QuickInsights()
	threshold := snap.LargeGroupThreshold
	if threshold <= 0 {
		threshold = defaultGroupThreshold
	}
	if target != nil {
		threshold = *target
	}
	sizes := snap.GroupSizes(threshold)
	matching := 0
	for _, s := range sizes {
		matching += s.Count
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<strong>Group Size Analysis (%d+ passengers):</strong>\n\n", threshold)
	fmt.Fprintf(&b, "• <strong>%d trips</strong> had %d+ passengers (%.1f%% of all trips)\n", matching, threshold, percent(matching, snap.TotalTrips))
	fmt.Fprintf(&b, "\n<strong>Breakdown of %d+ passenger groups:</strong>\n", threshold)
	for i, s := range sizes {
		if i == maxListed {
			break
		}
		fmt.Fprintf(&b, "• <strong>%d passengers:</strong> %d trips (%.1f%%)\n", s.Size, s.Count, percent(s.Count, matching))
	}
	fmt.Fprintf(&b, "\n<strong>Insight:</strong> Average group size is %.1f passengers - most rides are group experiences!", snap.AvgGroupSize)
	return b.String()
}

func (g *Generator) topLocations(kind intent.LocationType) string {
	snap := g.store.QuickInsights()

	var b strings.Builder
	b.WriteString("<strong>Most Popular Locations:</strong>\n\n")
	if kind.IncludesPickup() {
		b.WriteString("<strong>Top Pickup Spots:</strong>\n")
		writeRanking(&b, snap.TopPickups, "pickups")
	}
	if kind.IncludesDropoff() {
		if kind.IncludesPickup() {
			b.WriteString("\n")
		}
		b.WriteString("<strong>Top Drop-off Destinations:</strong>\n")
		writeRanking(&b, snap.TopDropoffs, "drop-offs")
	}
	if kind.IncludesPickup() && len(snap.TopPickups) > 0 {
		top := snap.TopPickups[0]
		fmt.Fprintf(&b, "\n<strong>Insight:</strong> %s dominates pickups with %d trips!", top.Name, top.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeRanking(b *strings.Builder, list []insights.LocationCount, unit string) {
	if len(list) == 0 {
		b.WriteString("No trips recorded yet.\n")
		return
	}
	for i, lc := range list {
		if i == maxListed {
			break
		}
		fmt.Fprintf(b, "%d. <strong>%s</strong> - %d %s\n", i+1, lc.Name, lc.Count, unit)
	}
}

func (g *Generator) demographics(ages *intent.AgeRange) string {
	lo, hi := 18, 24
	if ages != nil {
		lo, hi = ages.Min, ages.Max
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<strong>Demographics Analysis (%d-%d year olds):</strong>\n\n", lo, hi)
	b.WriteString("I'd love to help with demographic analysis, but I don't currently have access to rider age data in this dataset. ")
	b.WriteString("However, I can tell you about the locations and times that are popular with different group sizes!\n\n")
	b.WriteString("<strong>Popular spots that might appeal to younger riders:</strong>\n")

	listed := 0
	for _, lc := range g.store.QuickInsights().TopDropoffs {
		if listed == maxVenues {
			break
		}
		if trip.Categorize(lc.Name) != trip.CategoryEntertainment {
			continue
		}
		fmt.Fprintf(&b, "• <strong>%s</strong> - %d drop-offs\n", lc.Name, lc.Count)
		listed++
	}
	if listed == 0 {
		b.WriteString("• No entertainment venues among the top destinations yet.\n")
	}
	b.WriteString("\n<strong>Insight:</strong> Late night hours (10 PM - 1 AM) see the highest activity, which often correlates with younger demographics!")
	return b.String()
}

func (g *Generator) generalStats() string {
	snap := g.store.QuickInsights()
	if snap.TotalTrips == 0 {
		return "<strong>Austin Rideshare Overview:</strong>\n\nNo trips have been loaded yet, so there is nothing to summarize."
	}

	var b strings.Builder
	b.WriteString("<strong>Austin Rideshare Overview:</strong>\n\n")
	fmt.Fprintf(&b, "<strong>Total Trips Analyzed:</strong> %s\n", formatCount(snap.TotalTrips))
	fmt.Fprintf(&b, "<strong>Average Group Size:</strong> %.1f passengers\n", snap.AvgGroupSize)
	fmt.Fprintf(&b, "<strong>Peak Hour:</strong> %s\n", FormatHour(snap.PeakHour))
	fmt.Fprintf(&b, "<strong>Large Groups (%d+):</strong> %d trips (%.1f%%)\n\n", snap.LargeGroupThreshold, snap.LargeGroupsCount, snap.LargeGroupsPct)

	b.WriteString("<strong>Top Hotspots:</strong>\n")
	if len(snap.TopPickups) > 0 {
		fmt.Fprintf(&b, "• Most popular pickup: <strong>%s</strong> (%d trips)\n", snap.TopPickups[0].Name, snap.TopPickups[0].Count)
	}
	if len(snap.TopDropoffs) > 0 {
		fmt.Fprintf(&b, "• Most popular destination: <strong>%s</strong> (%d trips)\n", snap.TopDropoffs[0].Name, snap.TopDropoffs[0].Count)
	}
	b.WriteString("\n")

	size, count := snap.ModalGroupSize()
	fmt.Fprintf(&b, "<strong>Most Common Group Size:</strong> %d passengers (%d trips)\n\n", size, count)

	b.WriteString("<strong>Key Insights:</strong>\n")
	fmt.Fprintf(&b, "• %.0f%% of all rides are large groups (%d+ people)\n", snap.LargeGroupsPct, snap.LargeGroupThreshold)
	fmt.Fprintf(&b, "• Peak activity happens around %s\n", FormatHour(snap.PeakHour))
	if len(snap.TopPickups) > 0 {
		fmt.Fprintf(&b, "• %s dominates as the top pickup location\n", snap.TopPickups[0].Name)
	}
	b.WriteString("• Entertainment venues are the most popular destinations")
	return b.String()
}
