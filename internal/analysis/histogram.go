package analysis

import (
	"math"
	"sort"
)

// Bin limits for the Freedman–Diaconis rule.
const (
	MinBins = 6
	MaxBins = 15
)

// Bin is one histogram bar. FrequencyPct is rounded to one decimal.
type Bin struct {
	Center       float64 `json:"center" yaml:"center"`
	LowerEdge    float64 `json:"lower_edge" yaml:"lower_edge"`
	UpperEdge    float64 `json:"upper_edge" yaml:"upper_edge"`
	Count        int     `json:"count" yaml:"count"`
	FrequencyPct float64 `json:"frequency_pct" yaml:"frequency_pct"`
}

// Histogram is an adaptive-bin frequency distribution. Step is the bin
// width (1 in the single-bin degenerate case).
type Histogram struct {
	Bins  []Bin   `json:"bins" yaml:"bins"`
	Total int     `json:"total" yaml:"total"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
	Step  float64 `json:"step" yaml:"step"`
}

// FreedmanDiaconisBins chooses a bin count from the sample's nearest-rank
// IQR, clamped to [MinBins, MaxBins]. Fewer than two values yield MinBins.
func FreedmanDiaconisBins(values []float64) int {
	n := len(values)
	if n < 2 {
		return MinBins
	}
	s := make([]float64, n)
	copy(s, values)
	sort.Float64s(s)
	q1 := s[int(math.Floor(0.25*float64(n-1)))]
	q3 := s[int(math.Floor(0.75*float64(n-1)))]
	spread := s[n-1] - s[0]
	iqr := q3 - q1
	if !isFinite(iqr) || iqr == 0 {
		iqr = spread / 4
		if !isFinite(iqr) || iqr == 0 {
			iqr = 1
		}
	}
	h := 2 * iqr * math.Pow(float64(n), -1.0/3.0)
	if !isFinite(h) || h == 0 {
		h = 1
	}
	raw := math.Ceil(spread / h)
	if !isFinite(raw) || raw == 0 {
		return MinBins
	}
	// clamp before converting: ceil(range/h) can exceed the int range
	if raw > MaxBins {
		return MaxBins
	}
	if raw < MinBins {
		return MinBins
	}
	return int(raw)
}

// BuildHistogram bins the finite values. When every value is equal a single
// bin spanning [v-0.5, v+0.5] holds them all. Empty input yields no bins.
func BuildHistogram(values []float64) Histogram {
	vals := finite(values)
	if len(vals) == 0 {
		return Histogram{}
	}
	mn, mx := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	h := Histogram{Total: len(vals), Min: mn, Max: mx}
	if mn == mx {
		h.Step = 1
		h.Bins = []Bin{{Center: mn, LowerEdge: mn - 0.5, UpperEdge: mx + 0.5, Count: len(vals)}}
		fillFrequencies(h.Bins)
		return h
	}
	bins := FreedmanDiaconisBins(vals)
	step := (mx - mn) / float64(bins)
	if !isFinite(step) || step <= 0 {
		step = 1
	}
	h.Step = step
	h.Bins = make([]Bin, bins)
	for i := range h.Bins {
		lo := mn + float64(i)*step
		h.Bins[i] = Bin{Center: mn + (float64(i)+0.5)*step, LowerEdge: lo, UpperEdge: lo + step}
	}
	for _, v := range vals {
		i := int(math.Floor((v - mn) / step))
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		h.Bins[i].Count++
	}
	fillFrequencies(h.Bins)
	return h
}

func fillFrequencies(bins []Bin) {
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total == 0 {
		total = 1
	}
	for i := range bins {
		bins[i].FrequencyPct = math.Round(float64(bins[i].Count)/float64(total)*1000) / 10
	}
}

// Marker places a reference value against a distribution.
type Marker struct {
	Value      float64 `json:"value" yaml:"value"`
	Percentile *int    `json:"percentile" yaml:"percentile"`
}

// Distribution is a histogram plus the optional reference marker ranked
// against the very values the bins were built from.
type Distribution struct {
	Histogram `yaml:",inline"`
	Marker    *Marker `json:"marker,omitempty" yaml:"marker,omitempty"`
	AxisMin   float64 `json:"axis_min" yaml:"axis_min"`
	AxisMax   float64 `json:"axis_max" yaml:"axis_max"`
}

// BuildDistribution bins values and, when ref is non-nil, ranks *ref over
// the same population. The marker uses the raw (not direction-normalized)
// percentile, matching the histogram's raw axis. Axis bounds widen so the
// marker stays visible.
func BuildDistribution(values []float64, ref *float64) Distribution {
	d := Distribution{Histogram: BuildHistogram(values)}
	if len(d.Bins) == 0 {
		return d
	}
	d.AxisMin, d.AxisMax = d.Min, d.Max
	pad := 0.3 * d.Step
	if d.Min == d.Max {
		d.AxisMin, d.AxisMax = d.Min-0.5, d.Max+0.5
		pad = 0.5
	}
	if ref != nil && isFinite(*ref) {
		m := &Marker{Value: *ref}
		if pr, ok := PercentileRank(values, *ref); ok {
			m.Percentile = &pr
		}
		d.Marker = m
		d.AxisMin = math.Min(d.AxisMin, *ref-pad)
		d.AxisMax = math.Max(d.AxisMax, *ref+pad)
	}
	return d
}
