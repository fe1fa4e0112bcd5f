// README: Intent classifier; walks the rule table and extracts typed parameters.
package intent

import (
	"regexp"
	"strings"
)

// Classifier holds a rule table. It keeps no per-question state.
type Classifier struct {
	rules []Rule
}

func NewClassifier() *Classifier {
	return &Classifier{rules: DefaultRules()}
}

// NewClassifierWithRules is for callers that extend or reorder the table.
func NewClassifierWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Rules returns the table in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Classify expects a lowercase, trimmed question and always returns an intent.
func (c *Classifier) Classify(question string) Result {
	for _, r := range c.rules {
		m := r.Pattern.FindStringSubmatch(question)
		if m == nil {
			continue
		}
		groups := namedGroups(r.Pattern, m)
		in, ok := r.Build(groups, question)
		if !ok {
			continue
		}
		return Result{Intent: in, Rule: r.Name, Raw: groups}
	}
	return Result{Intent: Fallback{}, Raw: map[string]string{}}
}

// Normalize lowercases and trims a raw question.
func Normalize(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}

func namedGroups(re *regexp.Regexp, m []string) map[string]string {
	groups := map[string]string{"match": m[0]}
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		groups[name] = m[i]
	}
	return groups
}

var leadingQualifier = regexp.MustCompile(`^(?:(?:the\s+)?(?:stats|statistics|data|info|information|trips?|rides?|groups?)\s+(?:for|on|about|to|from|at)\s+)+`)

// genericWords cannot on their own name a location.
var genericWords = map[string]bool{
	"a": true, "an": true, "the": true, "all": true, "me": true, "my": true, "us": true, "some": true,
	"any": true, "of": true, "for": true, "in": true, "at": true, "and": true, "or": true, "by": true,
	"stats": true, "statistics": true, "data": true, "info": true, "information": true,
	"trip": true, "trips": true, "ride": true, "rides": true, "riders": true, "rider": true,
	"location": true, "locations": true, "spot": true, "spots": true, "place": true, "places": true,
	"pickup": true, "pickups": true, "pick": true, "up": true, "drop": true, "off": true,
	"dropoff": true, "dropoffs": true, "drop-off": true, "drop-offs": true, "destinations": true,
	"busiest": true, "popular": true, "most": true, "top": true, "hottest": true, "best": true,
	"peak": true, "hour": true, "hours": true, "time": true, "times": true,
	"summary": true, "overview": true, "everything": true, "total": true, "numbers": true,
	"group": true, "groups": true, "large": true, "big": true, "size": true, "sizes": true,
	"passenger": true, "passengers": true, "people": true,
	"here": true, "there": true, "it": true, "that": true, "this": true, "them": true, "where": true, "when": true,
	"last": true, "next": true, "yesterday": true, "today": true, "tonight": true,
	"week": true, "weekend": true, "month": true, "year": true, "night": true, "nights": true,
}

// CleanLocationFragment turns a raw capture into a location name, or "" when
// nothing location-like is left.
func CleanLocationFragment(raw string) string {
	s := strings.Trim(collapseSpaces(raw), " .,!?;:\"")
	s = leadingQualifier.ReplaceAllString(s, "")
	s = StripTimePhrases(s)
	s = strings.Trim(s, " .,!?;:\"")
	if s == "" {
		return ""
	}
	for _, w := range strings.Fields(s) {
		if !genericWords[strings.ToLower(w)] {
			return s
		}
	}
	return ""
}
