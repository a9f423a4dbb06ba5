package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/milkbench-cli/internal/kpi"
	"github.com/KaramelBytes/milkbench-cli/internal/record"
	"gonum.org/v1/gonum/stat"
)

// Cell is one aggregated value per (entity, year, month). Month is 0-based.
type Cell struct {
	Entity string  `json:"entity" yaml:"entity"`
	Year   int     `json:"year" yaml:"year"`
	Month  int     `json:"month" yaml:"month"`
	Value  float64 `json:"value" yaml:"value"`
}

// YM returns the cell's month key.
func (c Cell) YM() YearMonth { return YearMonth{Year: c.Year, Month: c.Month} }

type cellKey struct {
	entity      string
	year, month int
}

// Aggregate collapses same-entity same-month rows into one cell. Log-domain
// KPIs use the geometric mean of their positive values, the others the
// arithmetic mean. Cells left without contributing values are not emitted.
// Output is sorted by entity, year, month.
func Aggregate(rows []record.Row, key string) []Cell {
	groups := map[cellKey][]float64{}
	for _, r := range rows {
		k := cellKey{r.Entity, r.Year, r.Month}
		groups[k] = append(groups[k], r.Value)
	}
	out := make([]Cell, 0, len(groups))
	for k, vals := range groups {
		v, ok := AggregateValues(vals, key)
		if !ok {
			continue
		}
		out = append(out, Cell{Entity: k.entity, Year: k.year, Month: k.month, Value: v})
	}
	sortCells(out)
	return out
}

// AggregateValues reduces values with the aggregator appropriate for key.
func AggregateValues(values []float64, key string) (float64, bool) {
	if kpi.LogDomain(key) {
		return GeometricMean(values)
	}
	return ArithmeticMean(values)
}

// ArithmeticMean averages the finite values; false when there are none.
func ArithmeticMean(values []float64) (float64, bool) {
	xs := finite(values)
	if len(xs) == 0 {
		return 0, false
	}
	return stat.Mean(xs, nil), true
}

// GeometricMean is exp(mean(ln v)) over the finite positive values; false
// when there are none.
func GeometricMean(values []float64) (float64, bool) {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) && v > 0 {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return 0, false
	}
	return stat.GeometricMean(xs, nil), true
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	return out
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func sortCells(cs []Cell) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Entity != cs[j].Entity {
			return cs[i].Entity < cs[j].Entity
		}
		if cs[i].Year != cs[j].Year {
			return cs[i].Year < cs[j].Year
		}
		return cs[i].Month < cs[j].Month
	})
}
