// README: Response generator; renders one reply per classified intent from the aggregate store.
package response

import (
	"context"

	"rideinsight/internal/modules/insights"
	"rideinsight/internal/modules/intent"
)

// Insights is the read side of the aggregate store the generator needs.
type Insights interface {
	QuickInsights() insights.Snapshot
	LocationStats(fragment string) insights.LocationStats
	TimePatterns(ctx context.Context, minGroupSize *int) insights.TimePatterns
	Vocabulary() []insights.LocationCount
}

// Resolver ranks vocabulary names against a free-text location fragment.
type Resolver func(fragment string, vocab []insights.LocationCount) []insights.LocationCount

const (
	defaultGroupThreshold = insights.DefaultLargeGroupThreshold
	maxListed             = 8
	maxSuggestions        = 3
	maxTopHours           = 5
	maxVenues             = 5
)

type Generator struct {
	store   Insights
	resolve Resolver
}

func NewGenerator(store Insights, resolve Resolver) *Generator {
	return &Generator{store: store, resolve: resolve}
}

// Generate renders the reply for in. question is the normalized user text.
func (g *Generator) Generate(ctx context.Context, in intent.Intent, question string) string {
	switch v := in.(type) {
	case intent.LocationStats:
		return g.locationStats(v.Location, question)
	case intent.TimePatterns:
		return g.timePatterns(ctx, v.MinGroupSize)
	case intent.GroupSize:
		return g.groupSize(v.Target)
	case intent.TopLocations:
		return g.topLocations(v.Type)
	case intent.Demographics:
		return g.demographics(v.AgeRange)
	case intent.GeneralStats:
		return g.generalStats()
	case intent.Greeting:
		return greetingReply
	case intent.Casual:
		return casualReply(v.Topic)
	default:
		return fallbackReply
	}
}
