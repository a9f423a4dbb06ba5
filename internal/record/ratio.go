package record

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/milkbench-cli/internal/kpi"
)

type ratioAcc struct {
	row        Row
	fat, prot  float64
	nFat, nPro int
}

// DeriveRatio builds fat/protein ratio rows. Fat and protein samples are
// paired per entity and day, or per entity and month when the export has no
// dates; each side is averaged before dividing. Pairs missing one side or
// with a zero protein mean are dropped.
func DeriveRatio(raw []RawObservation, opt Options) []Row {
	acc := map[string]*ratioAcc{}
	var order []string
	for _, r := range raw {
		isFat := kpi.Matches(kpi.Fat, r.KPI)
		isProt := kpi.Matches(kpi.Protein, r.KPI)
		if !isFat && !isProt {
			continue
		}
		row, ok := canonicalize(r, opt)
		if !ok {
			continue
		}
		key := ratioKey(row)
		a := acc[key]
		if a == nil {
			a = &ratioAcc{row: Row{Entity: row.Entity, Year: row.Year, Month: row.Month, Date: row.Date}}
			acc[key] = a
			order = append(order, key)
		}
		if isFat {
			a.fat += row.Value
			a.nFat++
		} else {
			a.prot += row.Value
			a.nPro++
		}
	}
	sort.Strings(order)
	out := make([]Row, 0, len(order))
	for _, key := range order {
		a := acc[key]
		if a.nFat == 0 || a.nPro == 0 {
			continue
		}
		f := a.fat / float64(a.nFat)
		p := a.prot / float64(a.nPro)
		if p == 0 {
			continue
		}
		v := f / p
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		r := a.row
		r.Value = v
		out = append(out, r)
	}
	return out
}

func ratioKey(r Row) string {
	if !r.Date.IsZero() {
		return r.Entity + "|" + r.Date.Format("2006-01-02")
	}
	return fmt.Sprintf("%s|%04d-%02d", r.Entity, r.Year, r.Month+1)
}
