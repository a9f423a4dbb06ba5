// Package record is the single normalization boundary of the pipeline: raw
// lab-export rows go in, canonical typed rows come out.
package record

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RawObservation is one untyped row of a lab export. Fields hold the source
// text as-is; nothing is validated until Normalize.
type RawObservation struct {
	Entity    string `json:"Azienda" yaml:"entity"`
	KPI       string `json:"KPI" yaml:"kpi"`
	Year      string `json:"Anno" yaml:"year"`
	Month     string `json:"Mese" yaml:"month"`
	Value     string `json:"Valore" yaml:"value"`
	Date      string `json:"Data,omitempty" yaml:"date,omitempty"`
	Province  string `json:"Provincia,omitempty" yaml:"province,omitempty"`
	Processor string `json:"Caseificio,omitempty" yaml:"processor,omitempty"`
}

// Row is the canonical typed row every downstream component works on.
// Month is 0-based; Value is always finite. Date is zero when the source
// row carried only year and month.
type Row struct {
	Entity string    `json:"entity" yaml:"entity"`
	Year   int       `json:"year" yaml:"year"`
	Month  int       `json:"month" yaml:"month"`
	Value  float64   `json:"value" yaml:"value"`
	Date   time.Time `json:"date,omitempty" yaml:"date,omitempty"`
}

// field name variants seen across exports, lowercased, in priority order
var fieldAliases = []struct {
	name    string
	aliases []string
}{
	{"entity", []string{"azienda", "entity", "conferente"}},
	{"kpi", []string{"kpi", "indicatore"}},
	{"year", []string{"anno", "year"}},
	{"month", []string{"mese", "month"}},
	{"value", []string{"valore", "value"}},
	{"date", []string{"data", "date"}},
	{"province", []string{"provincia", "province"}},
	{"processor", []string{"caseificio", "processor"}},
}

// FromFields builds a RawObservation from a loosely keyed record such as a
// decoded JSON object or a CSV row zipped with its header. Keys are matched
// case-insensitively; unknown keys are ignored. When several aliases of one
// field are present the first non-empty one in alias order wins.
func FromFields(fields map[string]any) RawObservation {
	lower := make(map[string]string, len(fields))
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	// "Azienda" and "azienda" in one record resolve the same way every run
	sort.Strings(keys)
	for _, k := range keys {
		lk := strings.ToLower(strings.TrimSpace(k))
		if s := stringify(fields[k]); strings.TrimSpace(s) != "" && lower[lk] == "" {
			lower[lk] = s
		}
	}
	pick := func(aliases []string) string {
		for _, a := range aliases {
			if v := lower[a]; v != "" {
				return v
			}
		}
		return ""
	}
	var o RawObservation
	for _, f := range fieldAliases {
		v := pick(f.aliases)
		switch f.name {
		case "entity":
			o.Entity = v
		case "kpi":
			o.KPI = v
		case "year":
			o.Year = v
		case "month":
			o.Month = v
		case "value":
			o.Value = v
		case "date":
			o.Date = v
		case "province":
			o.Province = v
		case "processor":
			o.Processor = v
		}
	}
	return o
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int:
		return fmt.Sprintf("%d", x)
	case int64:
		return fmt.Sprintf("%d", x)
	case bool:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
