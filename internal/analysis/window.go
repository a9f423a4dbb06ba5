package analysis

import (
	"fmt"
	"sort"
)

// WindowKind selects how a histogram period is defined.
type WindowKind string

const (
	WindowLastMonths WindowKind = "months"
	WindowLactation  WindowKind = "lactation"
	WindowCustom     WindowKind = "custom"
)

// Window is a histogram period. Months applies to WindowLastMonths,
// StartYear to WindowLactation, From/To (inclusive) to WindowCustom.
type Window struct {
	Kind      WindowKind `json:"kind" yaml:"kind"`
	Months    int        `json:"months,omitempty" yaml:"months,omitempty"`
	StartYear int        `json:"start_year,omitempty" yaml:"start_year,omitempty"`
	From      *YearMonth `json:"from,omitempty" yaml:"from,omitempty"`
	To        *YearMonth `json:"to,omitempty" yaml:"to,omitempty"`
}

// Signature identifies the window in cache keys and report headers.
func (w Window) Signature() string {
	switch w.Kind {
	case WindowLactation:
		return "lac:" + LactationLabel(w.StartYear)
	case WindowCustom:
		from, to := "min", "max"
		if w.From != nil {
			from = w.From.String()
		}
		if w.To != nil {
			to = w.To.String()
		}
		return fmt.Sprintf("custom:%s_%s", from, to)
	default:
		return fmt.Sprintf("m%d", w.monthsOrDefault())
	}
}

func (w Window) monthsOrDefault() int {
	if w.Months <= 0 {
		return 12
	}
	return w.Months
}

// SelectMonths returns the indexed months inside the window, chronological.
// WindowLastMonths ends at the newest indexed month. A custom window missing
// a bound takes the index bound; reversed bounds are swapped.
func (w Window) SelectMonths(idx Index) []YearMonth {
	first, last, ok := idx.Bounds()
	if !ok {
		return nil
	}
	var from, to YearMonth
	switch w.Kind {
	case WindowLactation:
		from, to = CalendarMonth(w.StartYear, 0), CalendarMonth(w.StartYear, 11)
	case WindowCustom:
		from, to = first, last
		if w.From != nil {
			from = *w.From
		}
		if w.To != nil {
			to = *w.To
		}
		if to.Before(from) {
			from, to = to, from
		}
	default:
		to = last
		from = last.AddMonths(-(w.monthsOrDefault() - 1))
	}
	var out []YearMonth
	for _, ym := range idx.Months() {
		if ym.Before(from) || to.Before(ym) {
			continue
		}
		out = append(out, ym)
	}
	return out
}

// PooledValues collects every cell value of the selected months.
func PooledValues(idx Index, months []YearMonth) []float64 {
	var out []float64
	for _, ym := range months {
		if b := idx.Bucket(ym); b != nil {
			out = append(out, b.Values()...)
		}
	}
	return out
}

// EntityWindowValues reduces each entity's values across the selected months
// to one value with the KPI's aggregator.
func EntityWindowValues(idx Index, months []YearMonth, key string) map[string]float64 {
	per := map[string][]float64{}
	for _, ym := range months {
		b := idx.Bucket(ym)
		if b == nil {
			continue
		}
		for e, v := range b.ByEntity {
			per[e] = append(per[e], v)
		}
	}
	out := make(map[string]float64, len(per))
	for e, vals := range per {
		if v, ok := AggregateValues(vals, key); ok {
			out[e] = v
		}
	}
	return out
}

// SortedValues returns the map's values ordered by key.
func SortedValues(m map[string]float64) []float64 {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

// LatestValue returns the focal entity's value in the newest selected month
// holding one.
func LatestValue(idx Index, months []YearMonth, focal string) (float64, bool) {
	for i := len(months) - 1; i >= 0; i-- {
		b := idx.Bucket(months[i])
		if b == nil {
			continue
		}
		if v, ok := b.ByEntity[focal]; ok {
			return v, true
		}
	}
	return 0, false
}
