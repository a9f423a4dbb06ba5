package record

import (
	"fmt"
	"strings"
)

var provinceCodes = map[string]string{
	"ca": "Cagliari",
	"ss": "Sassari",
	"or": "Oristano",
	"nu": "Nuoro",
}

// ProvinceName expands the two-letter codes used by the exports and
// title-cases known names. Anything else is returned trimmed.
func ProvinceName(p string) string {
	v := strings.ToLower(strings.TrimSpace(p))
	if name, ok := provinceCodes[v]; ok {
		return name
	}
	for _, name := range provinceCodes {
		if strings.ToLower(name) == v {
			return name
		}
	}
	if v == "tutte" || v == "all" {
		return ""
	}
	return strings.TrimSpace(p)
}

// Filter defines the peer group. Empty fields do not restrict.
type Filter struct {
	Province  string `mapstructure:"province" json:"province,omitempty" yaml:"province,omitempty"`
	Processor string `mapstructure:"processor" json:"processor,omitempty" yaml:"processor,omitempty"`
}

// Signature identifies the filter in cache keys.
func (f Filter) Signature() string {
	return fmt.Sprintf("prov=%s|proc=%s", ProvinceName(f.Province), strings.TrimSpace(f.Processor))
}

// IsZero reports whether the filter keeps every row.
func (f Filter) IsZero() bool {
	return ProvinceName(f.Province) == "" && strings.TrimSpace(f.Processor) == ""
}

// Keep reports whether r belongs to the peer group. A row without a province
// is kept by a province filter, matching how partial exports were handled.
func (f Filter) Keep(r RawObservation) bool {
	if prov := ProvinceName(f.Province); prov != "" {
		rp := strings.TrimSpace(r.Province)
		if rp != "" && ProvinceName(rp) != prov {
			return false
		}
	}
	if proc := strings.TrimSpace(f.Processor); proc != "" {
		if strings.TrimSpace(r.Processor) != proc {
			return false
		}
	}
	return true
}

// Apply returns the rows kept by f. The input is never modified.
func (f Filter) Apply(raw []RawObservation) []RawObservation {
	if f.IsZero() {
		return raw
	}
	out := make([]RawObservation, 0, len(raw))
	for _, r := range raw {
		if f.Keep(r) {
			out = append(out, r)
		}
	}
	return out
}
