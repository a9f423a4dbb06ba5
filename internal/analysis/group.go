package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/milkbench-cli/internal/record"
)

// GroupMonthlyMeans reduces each entity to one value per month, then the
// entities of each month to one group value, both with the KPI's aggregator.
func GroupMonthlyMeans(rows []record.Row, key string) []MonthValue {
	per := map[YearMonth][]float64{}
	for _, c := range Aggregate(rows, key) {
		per[c.YM()] = append(per[c.YM()], c.Value)
	}
	return reduceMonths(per, key)
}

// SampleMonthlyMeans pools every sample of a month, regardless of entity,
// and reduces it with the KPI's aggregator.
func SampleMonthlyMeans(rows []record.Row, key string) []MonthValue {
	per := map[YearMonth][]float64{}
	for _, r := range rows {
		ym := YearMonth{Year: r.Year, Month: r.Month}
		per[ym] = append(per[ym], r.Value)
	}
	return reduceMonths(per, key)
}

// TankMonthly averages a processor's bulk-tank readings per month. Tank
// values are already monthly, so the arithmetic mean only merges duplicates.
func TankMonthly(rows []record.Row) []MonthValue {
	per := map[YearMonth][]float64{}
	for _, r := range rows {
		ym := YearMonth{Year: r.Year, Month: r.Month}
		per[ym] = append(per[ym], r.Value)
	}
	return reduceMonths(per, "")
}

func reduceMonths(per map[YearMonth][]float64, key string) []MonthValue {
	out := make([]MonthValue, 0, len(per))
	for ym, vals := range per {
		v, ok := AggregateValues(vals, key)
		if !ok {
			continue
		}
		out = append(out, MonthValue{Year: ym.Year, Month: ym.Month, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return YearMonth{out[i].Year, out[i].Month}.Before(YearMonth{out[j].Year, out[j].Month})
	})
	return out
}

// PeerCounts summarizes the size of a peer group.
type PeerCounts struct {
	Entities int `json:"entities" yaml:"entities"`
	Samples  int `json:"samples" yaml:"samples"`
	// SamplesPerMonth is the rounded mean number of samples per month with data.
	SamplesPerMonth int `json:"samples_per_month" yaml:"samples_per_month"`
}

// CountPeers counts distinct entities and samples in rows.
func CountPeers(rows []record.Row) PeerCounts {
	ents := map[string]struct{}{}
	months := map[YearMonth]struct{}{}
	for _, r := range rows {
		if r.Entity != "" {
			ents[r.Entity] = struct{}{}
		}
		months[YearMonth{Year: r.Year, Month: r.Month}] = struct{}{}
	}
	pc := PeerCounts{Entities: len(ents), Samples: len(rows)}
	if len(months) > 0 {
		pc.SamplesPerMonth = int(math.Round(float64(len(rows)) / float64(len(months))))
	}
	return pc
}
