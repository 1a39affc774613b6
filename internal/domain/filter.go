package domain

import "time"

// Filter returns the observations whose commodity, date and location are all
// in the selection, in their original order. An empty result is not an error.
func Filter(observations []Observation, sel Selection) []Observation {
	commodities := setOf(sel.Commodities)
	locations := setOf(sel.Locations)
	dates := make(map[time.Time]struct{}, len(sel.Dates))
	for _, d := range sel.Dates {
		dates[d] = struct{}{}
	}

	out := make([]Observation, 0)
	for _, o := range observations {
		if _, ok := commodities[o.Commodity]; !ok {
			continue
		}
		if _, ok := dates[o.Date]; !ok {
			continue
		}
		if _, ok := locations[o.Location]; !ok {
			continue
		}
		out = append(out, o)
	}
	return out
}

func setOf(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
