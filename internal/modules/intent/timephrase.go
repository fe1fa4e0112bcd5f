// README: Time-phrase stripper for captured location fragments; repeats to a fixpoint.
package intent

import (
	"regexp"
	"strings"
)

const (
	weekdays = `monday|tuesday|wednesday|thursday|friday|saturday|sunday`
	months   = `january|february|march|april|may|june|july|august|september|october|november|december`
)

// timePhrasePatterns run in order; each removes its match with the leading whitespace.
var timePhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s+(?:(?:last|this|next|yesterday|today)\s+)+(?:week|weekend|month|year|night)\b`),
	regexp.MustCompile(`(?i)\s+(?:(?:on|from)\s+)?(?:(?:last|this|next)\s+)+(?:` + weekdays + `)s?(?:\s+nights?)?\b`),
	regexp.MustCompile(`(?i)\s+(?:on|from)\s+(?:` + weekdays + `)s?(?:\s+nights?)?\b`),
	regexp.MustCompile(`(?i)\s+(?:(?:in|on|from|during)\s+)?(?:` + months + `)(?:\s+\d{1,2}(?:st|nd|rd|th)?)?(?:,?\s+\d{4})?\b`),
	regexp.MustCompile(`(?i)\s+(?:(?:last|this|next)\s+)+\w+`),
	regexp.MustCompile(`(?i)\s+(?:yesterday|today|tonight)\b`),
	regexp.MustCompile(`(?i)\s+(?:(?:on|from)\s+)?\d{1,2}/\d{1,2}/\d{2,4}\b`),
	regexp.MustCompile(`(?i)\s+(?:(?:on|from)\s+)?\d{1,2}-\d{1,2}-\d{2,4}\b`),
}

// StripTimePhrases removes relative-time phrases, weekday and month names,
// and numeric dates, then collapses whitespace. The pass repeats until the
// string stops changing, so StripTimePhrases(StripTimePhrases(s)) equals
// StripTimePhrases(s).
func StripTimePhrases(s string) string {
	cur := collapseSpaces(s)
	for {
		next := " " + cur
		for _, re := range timePhrasePatterns {
			next = re.ReplaceAllString(next, "")
		}
		next = collapseSpaces(next)
		if next == cur {
			return cur
		}
		cur = next
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
