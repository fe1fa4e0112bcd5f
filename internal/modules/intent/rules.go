// README: Ordered classification rule table; first matching rule wins.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Rule pairs a pattern with the intent it produces. Build may decline a
// match (ok == false), in which case evaluation continues with the next rule.
type Rule struct {
	Name    string
	Kind    Kind
	Pattern *regexp.Regexp
	Build   func(groups map[string]string, question string) (Intent, bool)
}

// timeTail swallows a trailing relative-time phrase after a location capture.
const timeTail = `(?:\s+(?:last|this|yesterday|today|week|month|year)\b.*?)?`

func rule(name string, kind Kind, pattern string, build func(map[string]string, string) (Intent, bool)) Rule {
	return Rule{Name: name, Kind: kind, Pattern: regexp.MustCompile(pattern), Build: build}
}

func constant(in Intent) func(map[string]string, string) (Intent, bool) {
	return func(map[string]string, string) (Intent, bool) { return in, true }
}

// DefaultRules returns the rule table in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		rule("greeting", KindGreeting,
			`^(?:hi|hello|hey|howdy|hiya|yo|greetings|good (?:morning|afternoon|evening|day))(?:\s+(?:there|team|everyone|all|bot))?[\s!.,?]*$`,
			constant(Greeting{})),

		rule("casual_thanks", KindCasual,
			`^(?:thanks|thank you|thx|ty|cheers|much appreciated|appreciate it)(?:\s+(?:so much|a lot|again|very much))?[\s!.,]*$`,
			constant(Casual{Topic: CasualThanks})),
		rule("casual_wellbeing", KindCasual,
			`^(?:how are you(?: doing)?(?: today)?|how'?s it going|what'?s up|sup)[\s!.,?]*$`,
			constant(Casual{Topic: CasualWellbeing})),
		rule("casual_farewell", KindCasual,
			`^(?:bye|goodbye|good ?bye|see you(?: later)?|see ya|later|good night|cya)[\s!.,]*$`,
			constant(Casual{Topic: CasualFarewell})),
		rule("casual_capabilities", KindCasual,
			`^(?:who are you|what are you|what can you do|what do you know|help|help me)[\s!.,?]*$`,
			constant(Casual{Topic: CasualCapabilities})),
		rule("casual_acknowledge", KindCasual,
			`^(?:ok(?:ay)?|cool|great|nice|awesome|got it|perfect|sounds good)[\s!.,]*$`,
			constant(Casual{Topic: CasualAcknowledge})),

		rule("location_how_many", KindLocationStats,
			`how many.*(?:groups?|trips?).*(?:went to|to|from)\s+(?P<location>[^?]+?)`+timeTail+`[?.]?$`,
			buildLocation),
		rule("location_trips_to", KindLocationStats,
			`(?:trips?|groups?).*(?:to|from)\s+(?P<location>[^?]+?)`+timeTail+`[?.]?$`,
			buildLocation),
		rule("location_tell_me", KindLocationStats,
			`tell me about\s+(?P<location>[^?]+?)`+timeTail+`[?.]?$`,
			buildLocation),
		rule("location_stats_for", KindLocationStats,
			`stats for\s+(?P<location>[^?]+?)`+timeTail+`[?.]?$`,
			buildLocation),
		rule("location_show_me", KindLocationStats,
			`(?:show me|find|search)\s+(?P<location>[^?]+?)(?:\s+(?:trips?|data|stats))?`+timeTail+`[?.]?$`,
			buildLocation),

		rule("time_when_ride", KindTimePatterns, `when do.*groups?.*ride`, buildTimePatterns),
		rule("time_what_time", KindTimePatterns, `what time.*most popular`, buildTimePatterns),
		rule("time_peak_hours", KindTimePatterns, `peak hours?`, buildTimePatterns),
		rule("time_busiest_time", KindTimePatterns, `busiest time`, buildTimePatterns),

		rule("group_large_paren", KindGroupSize, `large groups?\s*\((?P<n>\d+)\+?\)`, buildGroupSize),
		rule("group_of_riders", KindGroupSize, `groups? of (?P<n>\d+)\+? riders?`, buildGroupSize),
		rule("group_passengers", KindGroupSize, `(?P<n>\d+)\+? passengers?`, buildGroupSize),
		rule("group_size", KindGroupSize, `group size`, buildGroupSize),

		rule("top_spots", KindTopLocations, `top.*(?:pickup|pick up|drop-?off).*spots?`, buildTopLocations),
		rule("top_most_popular", KindTopLocations, `most popular.*locations?`, buildTopLocations),
		rule("top_busiest", KindTopLocations, `busiest.*locations?`, buildTopLocations),
		rule("top_hottest", KindTopLocations, `hottest spots?`, buildTopLocations),
		rule("top_show", KindTopLocations, `show.*(?:pickup|pick up|drop-?off|locations?)`, buildTopLocations),
		rule("top_list", KindTopLocations, `list.*locations?`, buildTopLocations),

		rule("demographics_age_range", KindDemographics, `(?P<min>\d+)[-–](?P<max>\d+) year[- ]olds?`, buildDemographics),
		rule("demographics_age_group", KindDemographics, `age groups?`, buildDemographics),
		rule("demographics", KindDemographics, `demographics?`, buildDemographics),

		rule("general_how_many_total", KindGeneralStats, `how many total`, constant(GeneralStats{})),
		rule("general_average_size", KindGeneralStats, `average group size`, constant(GeneralStats{})),
		rule("general_summary", KindGeneralStats, `summary`, constant(GeneralStats{})),
		rule("general_overview", KindGeneralStats, `overview`, constant(GeneralStats{})),
		rule("general_show_stats", KindGeneralStats, `show me.*stats`, constant(GeneralStats{})),
		rule("general_total_trips", KindGeneralStats, `total trips`, constant(GeneralStats{})),
		rule("general_how_many_trips", KindGeneralStats, `how many (?:trips|rides)\b`, constant(GeneralStats{})),
	}
}

func buildLocation(groups map[string]string, _ string) (Intent, bool) {
	loc := CleanLocationFragment(groups["location"])
	if loc == "" {
		return nil, false
	}
	return LocationStats{Location: loc}, true
}

// groupNumber finds a group size only where the wording says so: "groups of
// 8", "6+", "8 riders". Bare numbers such as "6th street" or a year are not sizes.
var groupNumber = regexp.MustCompile(`groups?\s+of\s+(\d+)|\b(\d+)\s*(?:\+|(?:or\s+more\s+)?(?:riders?|passengers?|people|persons?)\b)`)

func buildTimePatterns(_ map[string]string, question string) (Intent, bool) {
	var tp TimePatterns
	if m := groupNumber.FindStringSubmatch(question); m != nil {
		n := m[1]
		if n == "" {
			n = m[2]
		}
		tp.MinGroupSize = parseGroupSize(n)
	}
	return tp, true
}

func buildGroupSize(groups map[string]string, _ string) (Intent, bool) {
	return GroupSize{Target: parseGroupSize(groups["n"])}, true
}

func buildTopLocations(_ map[string]string, question string) (Intent, bool) {
	pickup := strings.Contains(question, "pickup") || strings.Contains(question, "pick up") || strings.Contains(question, "pick-up")
	drop := strings.Contains(question, "drop")
	switch {
	case pickup && !drop:
		return TopLocations{Type: LocationPickup}, true
	case drop && !pickup:
		return TopLocations{Type: LocationDropoff}, true
	default:
		return TopLocations{Type: LocationBoth}, true
	}
}

func buildDemographics(groups map[string]string, _ string) (Intent, bool) {
	var d Demographics
	lo, errLo := strconv.Atoi(groups["min"])
	hi, errHi := strconv.Atoi(groups["max"])
	if errLo == nil && errHi == nil {
		if lo > hi {
			lo, hi = hi, lo
		}
		d.AgeRange = &AgeRange{Min: lo, Max: hi}
	}
	return d, true
}

// parseGroupSize accepts plausible passenger counts only.
func parseGroupSize(v string) *int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > maxGroupSize {
		return nil
	}
	return &n
}

const maxGroupSize = 20
