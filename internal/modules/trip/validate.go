// README: Data-quality checks over a loaded trip set.
package trip

import "fmt"

// ValidationReport lists data-quality issues found in a trip set.
type ValidationReport struct {
	InvalidPassengers int
	OutOfBounds       int
	DuplicateIDs      int
	Issues            []string
}

func (r ValidationReport) OK() bool { return len(r.Issues) == 0 }

// Validate checks passenger range, service-area bounds, and duplicate IDs.
func Validate(trips []Trip) ValidationReport {
	var r ValidationReport
	if len(trips) == 0 {
		r.Issues = append(r.Issues, "dataset is empty")
		return r
	}

	seen := make(map[string]struct{}, len(trips))
	for _, t := range trips {
		if t.Passengers < MinPassengers || t.Passengers > MaxPassengers {
			r.InvalidPassengers++
		}
		if !t.Pickup.IsZero() && !inServiceArea(t.Pickup.Lat, t.Pickup.Lng) {
			r.OutOfBounds++
		} else if !t.Dropoff.IsZero() && !inServiceArea(t.Dropoff.Lat, t.Dropoff.Lng) {
			r.OutOfBounds++
		}
		if t.ID == "" {
			continue
		}
		if _, dup := seen[string(t.ID)]; dup {
			r.DuplicateIDs++
		}
		seen[string(t.ID)] = struct{}{}
	}

	if r.InvalidPassengers > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("found %d trips with invalid passenger counts", r.InvalidPassengers))
	}
	if r.OutOfBounds > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("found %d trips outside the service area", r.OutOfBounds))
	}
	if r.DuplicateIDs > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("found %d duplicate trip IDs", r.DuplicateIDs))
	}
	return r
}
