// README: Keyword-based location categories and address cleanup.
package trip

import "strings"

type LocationCategory string

const (
	CategoryEntertainment LocationCategory = "Entertainment"
	CategoryCampus        LocationCategory = "Campus"
	CategoryResidential   LocationCategory = "Residential"
	CategoryBusiness      LocationCategory = "Business"
	CategoryTransport     LocationCategory = "Transport"
	CategoryRetail        LocationCategory = "Retail"
	CategoryOther         LocationCategory = "Other"
)

// categoryKeywords is checked in order; the first category with a hit wins.
var categoryKeywords = []struct {
	category LocationCategory
	keywords []string
}{
	{CategoryEntertainment, []string{"bar", "club", "lounge", "aquarium", "rooftop", "social", "pub", "restaurant", "venue", "hall", "theater", "pajamas", "wiggle room", "shakespeare", "latchkey", "buford"}},
	{CategoryCampus, []string{"campus", "university", "drag", "student", "dorm", "residence hall", "fraternity", "sorority", "stadium"}},
	{CategoryResidential, []string{"house", "apartment", "residence", "home", "complex", "condo", "townhouse", "manor"}},
	{CategoryBusiness, []string{"office", "building", "center", "district", "plaza", "tower", "corporate", "business"}},
	{CategoryTransport, []string{"airport", "station", "terminal", "stop", "hub", "depot", "port"}},
	{CategoryRetail, []string{"mall", "store", "shop", "market", "outlet", "galleria"}},
}

// Categorize maps a location name to a coarse category by keyword.
func Categorize(location string) LocationCategory {
	lower := strings.ToLower(location)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.category
			}
		}
	}
	return CategoryOther
}

var locationSuffixes = []string{", austin, tx", ", austin, texas", ", usa", ", united states"}

// CleanLocationName trims city/country suffixes from an address.
func CleanLocationName(location string) string {
	cleaned := strings.TrimSpace(location)
	if cleaned == "" {
		return UnknownLocation
	}
	for changed := true; changed; {
		changed = false
		lower := strings.ToLower(cleaned)
		for _, suffix := range locationSuffixes {
			if strings.HasSuffix(lower, suffix) {
				cleaned = strings.TrimSpace(cleaned[:len(cleaned)-len(suffix)])
				changed = true
				break
			}
		}
	}
	return cleaned
}
