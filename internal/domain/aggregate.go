package domain

import "github.com/shopspring/decimal"

type accumulator struct {
	sum   decimal.Decimal
	count int64
}

// AggregateMeans groups observations by (commodity, location) in one pass and
// returns the mean price of every pair in commodities × locations that has at
// least one observation. Pairs without observations are absent from the
// result. Repeated selections map to the same key and the same value.
func AggregateMeans(observations []Observation, commodities, locations []string) Aggregate {
	groups := make(map[GroupKey]*accumulator)
	for _, o := range observations {
		key := GroupKey{Commodity: o.Commodity, Location: o.Location}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{}
			groups[key] = acc
		}
		acc.sum = acc.sum.Add(o.Price)
		acc.count++
	}

	agg := make(Aggregate)
	for _, c := range commodities {
		for _, l := range locations {
			key := GroupKey{Commodity: c, Location: l}
			acc, ok := groups[key]
			if !ok || acc.count == 0 {
				continue
			}
			agg[key] = acc.mean()
		}
	}
	return agg
}

func (a *accumulator) mean() float64 {
	return a.sum.Div(decimal.NewFromInt(a.count)).InexactFloat64()
}
