package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/KaramelBytes/milkbench-cli/internal/record"
)

// OctoberIndex is the 0-based month a lactation year starts in.
const OctoberIndex = 9

// PositionLabels are the x-axis labels of a lactation year, October first.
var PositionLabels = [12]string{"Ott", "Nov", "Dic", "Gen", "Feb", "Mar", "Apr", "Mag", "Giu", "Lug", "Ago", "Set"}

// Lactation locates a calendar month inside its lactation year.
type Lactation struct {
	StartYear int `json:"start_year" yaml:"start_year"`
	Position  int `json:"position" yaml:"position"`
}

// ToLactation maps (year, 0-based month) to its lactation year and slot:
// October is position 0 and September position 11.
func ToLactation(year, month int) Lactation {
	start := year
	if month < OctoberIndex {
		start = year - 1
	}
	return Lactation{StartYear: start, Position: (month + 3) % 12}
}

// CalendarMonth is the inverse of ToLactation.
func CalendarMonth(startYear, position int) YearMonth {
	m := (position + OctoberIndex) % 12
	y := startYear
	if m < OctoberIndex {
		y++
	}
	return YearMonth{Year: y, Month: m}
}

// LactationLabel renders a lactation year as "2023-24".
func LactationLabel(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// LastNLactationYears returns, ascending, the n most recent lactation start
// years found in entity's own rows. n <= 0 means 3.
func LastNLactationYears(entity string, rows []record.Row, n int) []int {
	if n <= 0 {
		n = 3
	}
	seen := map[int]struct{}{}
	for _, r := range rows {
		if r.Entity != entity {
			continue
		}
		seen[ToLactation(r.Year, r.Month).StartYear] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	if len(years) > n {
		years = years[len(years)-n:]
	}
	return years
}

// MonthValue is one value for a calendar month, with no entity attached.
type MonthValue struct {
	Year  int     `json:"year" yaml:"year"`
	Month int     `json:"month" yaml:"month"`
	Value float64 `json:"value" yaml:"value"`
}

// LactationSeries is one lactation year laid out by position. Count is the
// number of positions holding a value.
type LactationSeries struct {
	StartYear int          `json:"start_year" yaml:"start_year"`
	Label     string       `json:"label" yaml:"label"`
	Values    [12]*float64 `json:"values" yaml:"values"`
	Count     int          `json:"count" yaml:"count"`
}

// GroupByLactation lays monthly values out by lactation year, ascending by
// start year. A later value for an occupied slot replaces the earlier one.
func GroupByLactation(values []MonthValue) []LactationSeries {
	byStart := map[int]*LactationSeries{}
	for _, mv := range values {
		if !isFinite(mv.Value) || mv.Month < 0 || mv.Month > 11 {
			continue
		}
		l := ToLactation(mv.Year, mv.Month)
		s := byStart[l.StartYear]
		if s == nil {
			s = &LactationSeries{StartYear: l.StartYear, Label: LactationLabel(l.StartYear)}
			byStart[l.StartYear] = s
		}
		if s.Values[l.Position] == nil {
			s.Count++
		}
		v := mv.Value
		s.Values[l.Position] = &v
	}
	out := make([]LactationSeries, 0, len(byStart))
	for _, s := range byStart {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartYear < out[j].StartYear })
	return out
}

// DefaultLactations picks the lactation years offered for selection: the
// last n years with data in at least minMonths distinct months, or the last n
// years of any kind when none qualifies. Ascending; the last element is the
// default selection.
func DefaultLactations(values []MonthValue, n, minMonths int) []int {
	if n <= 0 {
		n = 3
	}
	all := GroupByLactation(values)
	var established []LactationSeries
	for _, s := range all {
		if s.Count >= minMonths {
			established = append(established, s)
		}
	}
	src := all
	if len(established) > 0 {
		src = established
	}
	if len(src) > n {
		src = src[len(src)-n:]
	}
	out := make([]int, len(src))
	for i, s := range src {
		out[i] = s.StartYear
	}
	return out
}

// EntityMonthValues extracts one entity's cells as month values.
func EntityMonthValues(cells []Cell, entity string) []MonthValue {
	var out []MonthValue
	for _, c := range cells {
		if c.Entity == entity {
			out = append(out, MonthValue{Year: c.Year, Month: c.Month, Value: c.Value})
		}
	}
	return out
}

// DailyPoint places a dated sample on the lactation axis: X is the position
// plus the fraction of the month elapsed before the sample day.
type DailyPoint struct {
	X     float64   `json:"x" yaml:"x"`
	Value float64   `json:"value" yaml:"value"`
	Date  time.Time `json:"date" yaml:"date"`
}

// DailySeries holds the dated samples of one lactation year, sorted by X.
type DailySeries struct {
	StartYear int          `json:"start_year" yaml:"start_year"`
	Label     string       `json:"label" yaml:"label"`
	Points    []DailyPoint `json:"points" yaml:"points"`
}

// DailyPoints groups an entity's dated rows by lactation year. Rows without
// a date are skipped.
func DailyPoints(rows []record.Row, entity string) []DailySeries {
	byStart := map[int]*DailySeries{}
	for _, r := range rows {
		if r.Entity != entity || r.Date.IsZero() {
			continue
		}
		d := r.Date
		l := ToLactation(d.Year(), int(d.Month())-1)
		days := time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
		x := float64(l.Position) + float64(d.Day()-1)/float64(days)
		s := byStart[l.StartYear]
		if s == nil {
			s = &DailySeries{StartYear: l.StartYear, Label: LactationLabel(l.StartYear)}
			byStart[l.StartYear] = s
		}
		s.Points = append(s.Points, DailyPoint{X: x, Value: r.Value, Date: d})
	}
	out := make([]DailySeries, 0, len(byStart))
	for _, s := range byStart {
		sort.SliceStable(s.Points, func(i, j int) bool { return s.Points[i].X < s.Points[j].X })
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartYear < out[j].StartYear })
	return out
}
