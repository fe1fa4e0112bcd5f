// README: Display helpers shared by the handlers (12-hour clock, counts, names).
package response

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"rideinsight/internal/modules/insights"
)

var (
	titler  = cases.Title(language.English)
	printer = message.NewPrinter(language.English)
)

// FormatHour renders 0-23 on a 12-hour clock: 0 is "12:00 AM", 13 is "1:00 PM".
func FormatHour(hour int) string {
	switch {
	case hour == 0:
		return "12:00 AM"
	case hour < 12:
		return fmt.Sprintf("%d:00 AM", hour)
	case hour == 12:
		return "12:00 PM"
	default:
		return fmt.Sprintf("%d:00 PM", hour-12)
	}
}

func formatHours(hours []int) string {
	out := make([]string, len(hours))
	for i, h := range hours {
		out[i] = FormatHour(h)
	}
	return strings.Join(out, ", ")
}

// formatCount adds thousands separators.
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}

// displayName prefers the dataset spelling of a fragment, else title-cases it.
func displayName(fragment string, vocab []insights.LocationCount) string {
	for _, lc := range vocab {
		if strings.EqualFold(lc.Name, fragment) {
			return lc.Name
		}
	}
	return titler.String(fragment)
}
