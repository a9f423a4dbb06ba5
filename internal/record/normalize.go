package record

import (
	"strings"

	"github.com/KaramelBytes/milkbench-cli/internal/kpi"
)

// Normalize selects the rows whose KPI label is an alias of key and converts
// them to canonical rows. Rows with an unparseable or non-finite value, year
// or month are dropped silently; a partial export must never abort a view.
// Months are converted from 1-based to 0-based. Year and month fall back to
// the Date field when the explicit columns are absent. The derived ratio KPI
// is routed to DeriveRatio.
func Normalize(raw []RawObservation, key string, opt Options) []Row {
	if kpi.Canonical(key) == kpi.Ratio {
		return DeriveRatio(raw, opt)
	}
	out := make([]Row, 0, len(raw))
	for _, r := range raw {
		if !kpi.Matches(key, r.KPI) {
			continue
		}
		row, ok := canonicalize(r, opt)
		if !ok {
			continue
		}
		out = append(out, row)
	}
	return out
}

// CountMatching returns how many raw rows carry an alias of key, parseable or
// not. The difference with len(Normalize(...)) is the dropped-row count.
func CountMatching(raw []RawObservation, key string) int {
	n := 0
	for _, r := range raw {
		if kpi.Matches(key, r.KPI) {
			n++
		}
	}
	return n
}

func canonicalize(r RawObservation, opt Options) (Row, bool) {
	v, ok := ParseNumber(r.Value, opt)
	if !ok {
		return Row{}, false
	}
	row := Row{Entity: strings.TrimSpace(r.Entity), Value: v}
	date, hasDate := ParseDate(r.Date)
	if hasDate {
		row.Date = date
	}
	if strings.TrimSpace(r.Year) != "" || strings.TrimSpace(r.Month) != "" {
		y, okY := parseInt(r.Year)
		m, okM := parseInt(r.Month)
		if !okY || !okM || m < 1 || m > 12 {
			return Row{}, false
		}
		row.Year, row.Month = y, m-1
		return row, true
	}
	if !hasDate {
		return Row{}, false
	}
	row.Year, row.Month = date.Year(), int(date.Month())-1
	return row, true
}

// KPICounts counts raw rows per canonical KPI key.
func KPICounts(raw []RawObservation) map[string]int {
	m := map[string]int{}
	for _, r := range raw {
		if strings.TrimSpace(r.KPI) == "" {
			continue
		}
		m[kpi.Canonical(r.KPI)]++
	}
	return m
}
