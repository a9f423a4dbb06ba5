// Package kpi holds the static catalog of milk-quality indicators: accepted
// label variants, display units and the statistical traits the analysis
// pipeline depends on.
package kpi

import (
	"sort"
	"strings"
)

// Canonical KPI keys.
const (
	Cells    = "cellule"
	Bacteria = "carica"
	Urea     = "urea"
	Fat      = "grassi"
	Protein  = "proteine"
	Lactose  = "lattosio"
	Casein   = "caseina"
	Cryo     = "crio"
	NaCl     = "nacl"
	PH       = "ph"
	// Ratio is derived from Fat and Protein; it has no lab label of its own.
	Ratio = "rapporto"
)

var aliases = map[string][]string{
	Cells:    {"cellule", "scc", "cellule somatiche", "cellule somatiche (scc)"},
	Bacteria: {"carica", "cbt", "carica batterica", "carica batterica (cbt)"},
	Urea:     {"urea"},
	Fat:      {"grassi", "grasso", "fat", "% fat"},
	Protein:  {"proteine", "proteina", "protein", "% prot"},
	Lactose:  {"lattosio"},
	Casein:   {"caseina", "caseine"},
	Cryo:     {"crio", "crio ft"},
	NaCl:     {"nacl"},
	PH:       {"ph"},
}

var units = map[string]string{
	Cells:    "cell/mL",
	Bacteria: "UFC/mL",
	Urea:     "mg/dL",
	Fat:      "%",
	Protein:  "%",
	Lactose:  "%",
	Casein:   "%",
	Cryo:     "°C",
	NaCl:     "%",
	PH:       "",
	Ratio:    "",
}

// reverse lookup: lowercased label -> canonical key
var byLabel = func() map[string]string {
	m := make(map[string]string)
	for key, labels := range aliases {
		for _, l := range labels {
			m[l] = key
		}
	}
	return m
}()

// Canonical resolves any accepted label (case-insensitive, trimmed) to its
// canonical key. Unknown labels are returned lowercased so callers can still
// use them as their own single alias.
func Canonical(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	if key, ok := byLabel[l]; ok {
		return key
	}
	return l
}

// Aliases returns the lowercased label variants accepted for key.
func Aliases(key string) []string {
	k := Canonical(key)
	if a, ok := aliases[k]; ok {
		out := make([]string, len(a))
		copy(out, a)
		return out
	}
	return []string{k}
}

// Matches reports whether a row's KPI label selects key. Matching is an exact
// case-insensitive comparison against the alias list.
func Matches(key, label string) bool {
	l := strings.ToLower(strings.TrimSpace(label))
	for _, a := range Aliases(key) {
		if a == l {
			return true
		}
	}
	return false
}

// Unit returns the display unit for key, or "" when unknown.
func Unit(key string) string { return units[Canonical(key)] }

// LowerIsBetter reports whether lower values are the better health outcome.
func LowerIsBetter(key string) bool {
	k := Canonical(key)
	return k == Cells || k == Bacteria
}

// LogDomain reports whether the KPI is a concentration spanning orders of
// magnitude and must be aggregated with the geometric mean.
func LogDomain(key string) bool {
	k := Canonical(key)
	return k == Cells || k == Bacteria
}

// Known lists canonical keys in a stable order, derived ones included.
func Known() []string {
	keys := make([]string, 0, len(aliases)+1)
	for k := range aliases {
		keys = append(keys, k)
	}
	keys = append(keys, Ratio)
	sort.Strings(keys)
	return keys
}

// IsKnown reports whether key resolves to a catalog entry.
func IsKnown(key string) bool {
	k := Canonical(key)
	if k == Ratio {
		return true
	}
	_, ok := aliases[k]
	return ok
}
