// README: Prompt assembly; injects aggregate-store context relevant to the question.
package ai

import (
	"fmt"
	"strings"

	"rideinsight/internal/modules/insights"
	"rideinsight/internal/modules/response"
)

// ContextSource is the slice of the aggregate store the prompt draws on.
type ContextSource interface {
	QuickInsights() insights.Snapshot
	Vocabulary() []insights.LocationCount
	LocationStats(fragment string) insights.LocationStats
}

const systemPrompt = `You are a data analyst for an Austin group rideshare service.
Answer the user's question using only the dataset facts provided.
Be concise and specific, quote the numbers you rely on, and say so when the data does not cover the question.`

const (
	contextTopN          = 5
	contextMaxLocations  = 3
	contextMaxGroupSizes = 10
)

var (
	locationKeywords = []string{"location", "spot", "pickup", "pick up", "drop", "destination", "popular", "where", "top", "venue"}
	timeKeywords     = []string{"time", "hour", "when", "peak", "busy", "busiest", "night", "morning", "evening", "afternoon"}
	groupKeywords    = []string{"group", "size", "passenger", "people", "large", "riders"}
)

// BuildContext renders the dataset facts sent with question. The four core
// numbers are always present; other sections depend on the question's words.
func BuildContext(question string, src ContextSource) string {
	q := strings.ToLower(question)
	snap := src.QuickInsights()

	var b strings.Builder
	b.WriteString("Dataset summary:\n")
	fmt.Fprintf(&b, "- Total trips: %d\n", snap.TotalTrips)
	fmt.Fprintf(&b, "- Average group size: %.1f passengers\n", snap.AvgGroupSize)
	fmt.Fprintf(&b, "- Peak hour: %s\n", response.FormatHour(snap.PeakHour))
	fmt.Fprintf(&b, "- Large groups (%d+): %d trips (%.1f%%)\n", snap.LargeGroupThreshold, snap.LargeGroupsCount, snap.LargeGroupsPct)

	if containsAny(q, locationKeywords) {
		b.WriteString("\nTop pickup locations:\n")
		writeCounts(&b, snap.TopPickups)
		b.WriteString("\nTop drop-off locations:\n")
		writeCounts(&b, snap.TopDropoffs)
	}
	if containsAny(q, timeKeywords) {
		b.WriteString("\nTrips by hour:\n")
		for h, c := range snap.HourlyDistribution {
			if c > 0 {
				fmt.Fprintf(&b, "- %s: %d\n", response.FormatHour(h), c)
			}
		}
	}
	if containsAny(q, groupKeywords) {
		b.WriteString("\nTrips by group size:\n")
		for i, sc := range snap.GroupSizes(1) {
			if i == contextMaxGroupSizes {
				break
			}
			fmt.Fprintf(&b, "- %d passengers: %d trips\n", sc.Size, sc.Count)
		}
	}

	named := 0
	for _, lc := range src.Vocabulary() {
		if named == contextMaxLocations {
			break
		}
		if !strings.Contains(q, strings.ToLower(lc.Name)) {
			continue
		}
		st := src.LocationStats(lc.Name)
		fmt.Fprintf(&b, "\nStats for %s:\n", lc.Name)
		fmt.Fprintf(&b, "- Pickups: %d (avg group %.1f)\n", st.PickupCount, st.AvgGroupSizePickup)
		fmt.Fprintf(&b, "- Drop-offs: %d (avg group %.1f)\n", st.DropoffCount, st.AvgGroupSizeDropoff)
		named++
	}
	return b.String()
}

// BuildPrompt joins the dataset context and the user's question.
func BuildPrompt(question string, src ContextSource) string {
	return fmt.Sprintf("%s\nUser question: %s", BuildContext(question, src), question)
}

func writeCounts(b *strings.Builder, list []insights.LocationCount) {
	for i, lc := range list {
		if i == contextTopN {
			break
		}
		fmt.Fprintf(b, "- %s: %d trips\n", lc.Name, lc.Count)
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
