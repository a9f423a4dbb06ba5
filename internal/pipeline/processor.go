package pipeline

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/milkbench-cli/internal/analysis"
	"github.com/KaramelBytes/milkbench-cli/internal/kpi"
	"github.com/KaramelBytes/milkbench-cli/internal/record"
)

// BenchmarkMode selects what the processor's tank is compared against.
type BenchmarkMode string

const (
	// ModeGroup compares with the monthly mean of per-entity aggregates.
	ModeGroup BenchmarkMode = "group"
	// ModeSamples compares with the monthly mean of the pooled samples.
	ModeSamples BenchmarkMode = "samples"
)

// ParseMode accepts the mode names and their short forms.
func ParseMode(s string) (BenchmarkMode, error) {
	switch s {
	case "", "group", "g", "aziende":
		return ModeGroup, nil
	case "samples", "s", "campioni":
		return ModeSamples, nil
	}
	return "", fmt.Errorf("unknown benchmark mode %q (use group or samples)", s)
}

// TankSeries is one lactation year of tank readings against the peer line.
// Delta is tank minus peers where both exist.
type TankSeries struct {
	StartYear int          `json:"start_year" yaml:"start_year"`
	Label     string       `json:"label" yaml:"label"`
	Tank      [12]*float64 `json:"tank" yaml:"tank"`
	Peers     [12]*float64 `json:"peers" yaml:"peers"`
	Delta     [12]*float64 `json:"delta" yaml:"delta"`
}

// TankReport benchmarks a processor's bulk tank against its suppliers.
type TankReport struct {
	Dataset   string              `json:"dataset" yaml:"dataset"`
	Tank      string              `json:"tank" yaml:"tank"`
	KPI       string              `json:"kpi" yaml:"kpi"`
	Unit      string              `json:"unit,omitempty" yaml:"unit,omitempty"`
	Mode      BenchmarkMode       `json:"mode" yaml:"mode"`
	Filter    record.Filter       `json:"filter" yaml:"filter"`
	Available []int               `json:"available" yaml:"available"`
	Series    []TankSeries        `json:"series" yaml:"series"`
	PeerCount analysis.PeerCounts `json:"peer_count" yaml:"peer_count"`
}

func (c *Context) tankMonthly() ([]record.Row, []analysis.MonthValue, error) {
	rows, err := c.tankRows()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: tank %q (%s)", ErrNoEntity, c.tank.Name, kpi.Canonical(c.sel.KPI))
	}
	return rows, analysis.TankMonthly(rows), nil
}

// TankBenchmark lays tank and peer monthly means out per lactation year.
// Without explicit years only the newest established tank year is shown.
func (c *Context) TankBenchmark(mode BenchmarkMode, years []int) (*TankReport, error) {
	_, monthly, err := c.tankMonthly()
	if err != nil {
		return nil, err
	}
	v, err := c.View()
	if err != nil {
		return nil, err
	}
	rep := &TankReport{
		Dataset:   c.dataset.Name,
		Tank:      c.tank.Name,
		KPI:       v.KPI,
		Unit:      kpi.Unit(v.KPI),
		Mode:      mode,
		Filter:    c.sel.Filter,
		Available: analysis.DefaultLactations(monthly, c.lactationYears, c.minMonths),
		PeerCount: analysis.CountPeers(v.Rows),
	}
	ys := append([]int(nil), years...)
	if len(ys) == 0 && len(rep.Available) > 0 {
		ys = []int{rep.Available[len(rep.Available)-1]}
	}
	sort.Ints(ys)

	var peers []analysis.MonthValue
	if mode == ModeSamples {
		peers = analysis.SampleMonthlyMeans(v.Rows, v.KPI)
	} else {
		peers = analysis.GroupMonthlyMeans(v.Rows, v.KPI)
	}
	tankByYear := seriesByYear(analysis.GroupByLactation(monthly))
	peerByYear := seriesByYear(analysis.GroupByLactation(peers))
	for _, y := range ys {
		ts := TankSeries{StartYear: y, Label: analysis.LactationLabel(y)}
		if s, ok := tankByYear[y]; ok {
			ts.Tank = s.Values
		}
		if s, ok := peerByYear[y]; ok {
			ts.Peers = s.Values
		}
		for i := range ts.Delta {
			if ts.Tank[i] != nil && ts.Peers[i] != nil {
				d := *ts.Tank[i] - *ts.Peers[i]
				ts.Delta[i] = &d
			}
		}
		rep.Series = append(rep.Series, ts)
	}
	return rep, nil
}

func seriesByYear(ss []analysis.LactationSeries) map[int]analysis.LactationSeries {
	m := make(map[int]analysis.LactationSeries, len(ss))
	for _, s := range ss {
		m[s.StartYear] = s
	}
	return m
}

// TankDistribution bins the peer population of the window with the tank's
// aggregate for the same months as marker. In ModeGroup each entity
// contributes one window aggregate; in ModeSamples every sample counts. A
// zero window means the newest established tank lactation year.
func (c *Context) TankDistribution(mode BenchmarkMode, w analysis.Window) (*DistributionReport, error) {
	tankRows, monthly, err := c.tankMonthly()
	if err != nil {
		return nil, err
	}
	v, err := c.View()
	if err != nil {
		return nil, err
	}
	if w.Kind == "" {
		avail := analysis.DefaultLactations(monthly, c.lactationYears, c.minMonths)
		w = analysis.Window{Kind: analysis.WindowLactation, StartYear: avail[len(avail)-1]}
	}
	months := w.SelectMonths(v.Index)
	inWindow := make(map[analysis.YearMonth]bool, len(months))
	for _, ym := range months {
		inWindow[ym] = true
	}

	var values []float64
	if mode == ModeSamples {
		for _, r := range v.Rows {
			if inWindow[analysis.YearMonth{Year: r.Year, Month: r.Month}] {
				values = append(values, r.Value)
			}
		}
	} else {
		values = analysis.SortedValues(analysis.EntityWindowValues(v.Index, months, v.KPI))
	}

	var tankVals []float64
	for _, r := range tankRows {
		if inWindow[analysis.YearMonth{Year: r.Year, Month: r.Month}] {
			tankVals = append(tankVals, r.Value)
		}
	}
	var ref *float64
	if agg, ok := analysis.AggregateValues(tankVals, v.KPI); ok {
		ref = &agg
	}
	rep := &DistributionReport{
		Dataset:      c.dataset.Name,
		Subject:      c.tank.Name,
		KPI:          v.KPI,
		Unit:         kpi.Unit(v.KPI),
		Filter:       c.sel.Filter,
		Window:       w,
		Months:       months,
		Distribution: analysis.BuildDistribution(values, ref),
	}
	rep.Band = markerBand(values, ref, v.KPI)
	return rep, nil
}
