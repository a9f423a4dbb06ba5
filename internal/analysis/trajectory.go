package analysis

// PercentileTrajectory holds one lactation year of focal-entity percentiles
// indexed by position (0 = October). Nil marks a month without data.
type PercentileTrajectory struct {
	StartYear int      `json:"start_year" yaml:"start_year"`
	Label     string   `json:"label" yaml:"label"`
	Values    [12]*int `json:"values" yaml:"values"`
}

// ValueTrajectory holds one lactation year of raw focal values next to the
// cross-sectional group median.
type ValueTrajectory struct {
	StartYear   int          `json:"start_year" yaml:"start_year"`
	Label       string       `json:"label" yaml:"label"`
	Focal       [12]*float64 `json:"focal" yaml:"focal"`
	GroupMedian [12]*float64 `json:"group_median" yaml:"group_median"`
}

// BuildPercentileTrajectory ranks the focal entity against every entity in
// the same month, for each month of the lactation year starting in October
// of startYear. Missing months and months where the focal entity has no
// value stay nil; the array is always full length.
func BuildPercentileTrajectory(idx Index, focal string, startYear int, lowerIsBetter bool) PercentileTrajectory {
	t := PercentileTrajectory{StartYear: startYear, Label: LactationLabel(startYear)}
	for pos := 0; pos < 12; pos++ {
		b := idx.Bucket(CalendarMonth(startYear, pos))
		if b == nil {
			continue
		}
		v, ok := b.ByEntity[focal]
		if !ok {
			continue
		}
		if pr, ok := RankOriented(b.Values(), v, lowerIsBetter); ok {
			t.Values[pos] = &pr
		}
	}
	return t
}

// BuildValueTrajectory walks the same months as BuildPercentileTrajectory
// and emits the focal entity's aggregated value and the group median, in raw
// units.
func BuildValueTrajectory(idx Index, focal string, startYear int) ValueTrajectory {
	t := ValueTrajectory{StartYear: startYear, Label: LactationLabel(startYear)}
	for pos := 0; pos < 12; pos++ {
		b := idx.Bucket(CalendarMonth(startYear, pos))
		if b == nil {
			continue
		}
		if v, ok := b.ByEntity[focal]; ok {
			t.Focal[pos] = &v
		}
		if m, ok := Median(b.Values()); ok {
			t.GroupMedian[pos] = &m
		}
	}
	return t
}
