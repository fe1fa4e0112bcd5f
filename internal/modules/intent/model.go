// README: Intent variants (closed tagged union) and the classification result.
package intent

type Kind string

const (
	KindLocationStats Kind = "location_stats"
	KindTimePatterns  Kind = "time_patterns"
	KindGroupSize     Kind = "group_size"
	KindTopLocations  Kind = "top_locations"
	KindDemographics  Kind = "demographics"
	KindGeneralStats  Kind = "general_stats"
	KindGreeting      Kind = "greeting"
	KindCasual        Kind = "casual"
	KindFallback      Kind = "fallback"
)

// Kinds lists every intent in evaluation order.
var Kinds = []Kind{
	KindGreeting, KindCasual, KindLocationStats, KindTimePatterns, KindGroupSize,
	KindTopLocations, KindDemographics, KindGeneralStats, KindFallback,
}

// Intent is implemented only by the variants in this file.
type Intent interface {
	Kind() Kind
	sealed()
}

type LocationStats struct {
	Location string
}

type TimePatterns struct {
	MinGroupSize *int
}

type GroupSize struct {
	Target *int
}

type LocationType string

const (
	LocationPickup  LocationType = "pickup"
	LocationDropoff LocationType = "dropoff"
	LocationBoth    LocationType = "both"
)

func (t LocationType) IncludesPickup() bool  { return t == LocationPickup || t == LocationBoth }
func (t LocationType) IncludesDropoff() bool { return t == LocationDropoff || t == LocationBoth }

type TopLocations struct {
	Type LocationType
}

type AgeRange struct {
	Min int
	Max int
}

type Demographics struct {
	AgeRange *AgeRange
}

type GeneralStats struct{}

type Greeting struct{}

type CasualTopic string

const (
	CasualThanks       CasualTopic = "thanks"
	CasualWellbeing    CasualTopic = "wellbeing"
	CasualFarewell     CasualTopic = "farewell"
	CasualCapabilities CasualTopic = "capabilities"
	CasualAcknowledge  CasualTopic = "acknowledge"
)

type Casual struct {
	Topic CasualTopic
}

type Fallback struct{}

func (LocationStats) Kind() Kind { return KindLocationStats }
func (TimePatterns) Kind() Kind  { return KindTimePatterns }
func (GroupSize) Kind() Kind     { return KindGroupSize }
func (TopLocations) Kind() Kind  { return KindTopLocations }
func (Demographics) Kind() Kind  { return KindDemographics }
func (GeneralStats) Kind() Kind  { return KindGeneralStats }
func (Greeting) Kind() Kind      { return KindGreeting }
func (Casual) Kind() Kind        { return KindCasual }
func (Fallback) Kind() Kind      { return KindFallback }

func (LocationStats) sealed() {}
func (TimePatterns) sealed()  {}
func (GroupSize) sealed()     {}
func (TopLocations) sealed()  {}
func (Demographics) sealed()  {}
func (GeneralStats) sealed()  {}
func (Greeting) sealed()      {}
func (Casual) sealed()        {}
func (Fallback) sealed()      {}

// IsData reports whether k answers from the trip data.
func (k Kind) IsData() bool {
	switch k {
	case KindLocationStats, KindTimePatterns, KindGroupSize, KindTopLocations, KindDemographics, KindGeneralStats:
		return true
	}
	return false
}

// Result is one classification: the chosen intent plus untyped regex groups.
type Result struct {
	Intent Intent
	// Rule names the rule that matched; empty for the default.
	Rule string
	Raw  map[string]string
}
