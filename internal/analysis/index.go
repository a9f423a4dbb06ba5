package analysis

import (
	"fmt"
	"sort"
)

// YearMonth identifies a calendar month; Month is 0-based.
type YearMonth struct {
	Year  int `json:"year" yaml:"year"`
	Month int `json:"month" yaml:"month"`
}

// Key renders the "year-month" bucket key, e.g. "2024-0" for January 2024.
func (ym YearMonth) Key() string { return fmt.Sprintf("%d-%d", ym.Year, ym.Month) }

// String renders the month as "2024-01".
func (ym YearMonth) String() string { return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month+1) }

// Before orders months chronologically.
func (ym YearMonth) Before(o YearMonth) bool {
	if ym.Year != o.Year {
		return ym.Year < o.Year
	}
	return ym.Month < o.Month
}

// AddMonths shifts the month by n (negative goes back).
func (ym YearMonth) AddMonths(n int) YearMonth {
	t := ym.Year*12 + ym.Month + n
	y, m := t/12, t%12
	if m < 0 {
		m += 12
		y--
	}
	return YearMonth{Year: y, Month: m}
}

// MonthBucket holds the cross-sectional values of one month, at most one per
// entity.
type MonthBucket struct {
	YearMonth
	ByEntity map[string]float64
}

// Values returns the bucket's values sorted by entity name, so results do
// not depend on map iteration order.
func (b *MonthBucket) Values() []float64 {
	names := make([]string, 0, len(b.ByEntity))
	for e := range b.ByEntity {
		names = append(names, e)
	}
	sort.Strings(names)
	out := make([]float64, len(names))
	for i, e := range names {
		out[i] = b.ByEntity[e]
	}
	return out
}

// Index maps each month present in the data to its bucket.
type Index map[YearMonth]*MonthBucket

// BuildIndex groups aggregated cells by month. It is a pure function of its
// input; caching is the caller's business.
func BuildIndex(cells []Cell) Index {
	idx := make(Index)
	for _, c := range cells {
		ym := c.YM()
		b := idx[ym]
		if b == nil {
			b = &MonthBucket{YearMonth: ym, ByEntity: map[string]float64{}}
			idx[ym] = b
		}
		b.ByEntity[c.Entity] = c.Value
	}
	return idx
}

// Bucket returns the bucket for a month, or nil.
func (idx Index) Bucket(ym YearMonth) *MonthBucket { return idx[ym] }

// Months lists the indexed months in chronological order.
func (idx Index) Months() []YearMonth {
	out := make([]YearMonth, 0, len(idx))
	for ym := range idx {
		out = append(out, ym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Bounds returns the first and last indexed months; ok is false when empty.
func (idx Index) Bounds() (first, last YearMonth, ok bool) {
	ms := idx.Months()
	if len(ms) == 0 {
		return YearMonth{}, YearMonth{}, false
	}
	return ms[0], ms[len(ms)-1], true
}

// Entities lists every entity present in the index, sorted.
func (idx Index) Entities() []string {
	seen := map[string]struct{}{}
	for _, b := range idx {
		for e := range b.ByEntity {
			seen[e] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
