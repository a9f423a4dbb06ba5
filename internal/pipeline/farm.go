package pipeline

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/milkbench-cli/internal/analysis"
	"github.com/KaramelBytes/milkbench-cli/internal/kpi"
	"github.com/KaramelBytes/milkbench-cli/internal/record"
)

// LactationChoice lists the lactation years offered for one entity.
type LactationChoice struct {
	Entity string `json:"entity" yaml:"entity"`
	KPI    string `json:"kpi" yaml:"kpi"`
	// Recent are the most recent start years seen in the entity's rows.
	Recent []int `json:"recent" yaml:"recent"`
	// Established are the recent years with enough months of data; they are
	// the default overlay.
	Established []int `json:"established" yaml:"established"`
	Default     int   `json:"default" yaml:"default"`
}

// LatestRank is the focal entity's position in its newest month.
type LatestRank struct {
	Month      analysis.YearMonth `json:"month" yaml:"month"`
	Value      float64            `json:"value" yaml:"value"`
	Percentile int                `json:"percentile" yaml:"percentile"`
	Band       string             `json:"band" yaml:"band"`
	Peers      int                `json:"peers" yaml:"peers"`
}

// PercentileReport holds percentile trajectories of one entity.
type PercentileReport struct {
	Dataset       string                          `json:"dataset" yaml:"dataset"`
	Entity        string                          `json:"entity" yaml:"entity"`
	KPI           string                          `json:"kpi" yaml:"kpi"`
	Unit          string                          `json:"unit,omitempty" yaml:"unit,omitempty"`
	LowerIsBetter bool                            `json:"lower_is_better" yaml:"lower_is_better"`
	Filter        record.Filter                   `json:"filter" yaml:"filter"`
	Trajectories  []analysis.PercentileTrajectory `json:"trajectories" yaml:"trajectories"`
	Latest        *LatestRank                     `json:"latest,omitempty" yaml:"latest,omitempty"`
}

// ValueReport holds value trajectories of one entity against the group median.
type ValueReport struct {
	Dataset      string                     `json:"dataset" yaml:"dataset"`
	Entity       string                     `json:"entity" yaml:"entity"`
	KPI          string                     `json:"kpi" yaml:"kpi"`
	Unit         string                     `json:"unit,omitempty" yaml:"unit,omitempty"`
	Filter       record.Filter              `json:"filter" yaml:"filter"`
	Trajectories []analysis.ValueTrajectory `json:"trajectories" yaml:"trajectories"`
	Daily        []analysis.DailySeries     `json:"daily,omitempty" yaml:"daily,omitempty"`
}

// DistributionReport is a histogram over a window with an optional marker.
type DistributionReport struct {
	Dataset      string                `json:"dataset" yaml:"dataset"`
	Subject      string                `json:"subject,omitempty" yaml:"subject,omitempty"`
	KPI          string                `json:"kpi" yaml:"kpi"`
	Unit         string                `json:"unit,omitempty" yaml:"unit,omitempty"`
	Filter       record.Filter         `json:"filter" yaml:"filter"`
	Window       analysis.Window       `json:"window" yaml:"window"`
	Months       []analysis.YearMonth  `json:"months" yaml:"months"`
	Distribution analysis.Distribution `json:"distribution" yaml:"distribution"`
	Band         string                `json:"band,omitempty" yaml:"band,omitempty"`
}

// EntitySummary is one row of the entity listing.
type EntitySummary struct {
	Entity  string             `json:"entity" yaml:"entity"`
	Samples int                `json:"samples" yaml:"samples"`
	Months  int                `json:"months" yaml:"months"`
	First   analysis.YearMonth `json:"first" yaml:"first"`
	Last    analysis.YearMonth `json:"last" yaml:"last"`
}

func (c *Context) focalView(entity string) (*View, error) {
	v, err := c.View()
	if err != nil {
		return nil, err
	}
	for _, r := range v.Rows {
		if r.Entity == entity {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (%s)", ErrNoEntity, entity, v.KPI)
}

// Lactations returns the lactation years offered for entity under the
// current selection.
func (c *Context) Lactations(entity string) (*LactationChoice, error) {
	v, err := c.focalView(entity)
	if err != nil {
		return nil, err
	}
	ch := &LactationChoice{
		Entity:      entity,
		KPI:         v.KPI,
		Recent:      analysis.LastNLactationYears(entity, v.Rows, c.lactationYears),
		Established: analysis.DefaultLactations(analysis.EntityMonthValues(v.Cells, entity), c.lactationYears, c.minMonths),
	}
	if n := len(ch.Established); n > 0 {
		ch.Default = ch.Established[n-1]
	}
	return ch, nil
}

func (c *Context) resolveYears(entity string, years []int) ([]int, error) {
	if len(years) > 0 {
		out := append([]int(nil), years...)
		sort.Ints(out)
		return out, nil
	}
	ch, err := c.Lactations(entity)
	if err != nil {
		return nil, err
	}
	return ch.Established, nil
}

// Percentiles builds one percentile trajectory per lactation year. Without
// explicit years the established recent years are used.
func (c *Context) Percentiles(entity string, years []int) (*PercentileReport, error) {
	v, err := c.focalView(entity)
	if err != nil {
		return nil, err
	}
	ys, err := c.resolveYears(entity, years)
	if err != nil {
		return nil, err
	}
	lower := kpi.LowerIsBetter(v.KPI)
	rep := &PercentileReport{
		Dataset:       c.dataset.Name,
		Entity:        entity,
		KPI:           v.KPI,
		Unit:          kpi.Unit(v.KPI),
		LowerIsBetter: lower,
		Filter:        c.sel.Filter,
	}
	for _, y := range ys {
		rep.Trajectories = append(rep.Trajectories, analysis.BuildPercentileTrajectory(v.Index, entity, y, lower))
	}
	rep.Latest = latestRank(v.Index, entity, lower)
	return rep, nil
}

func latestRank(idx analysis.Index, entity string, lower bool) *LatestRank {
	months := idx.Months()
	for i := len(months) - 1; i >= 0; i-- {
		b := idx.Bucket(months[i])
		val, ok := b.ByEntity[entity]
		if !ok {
			continue
		}
		dist := b.Values()
		pr, ok := analysis.RankOriented(dist, val, lower)
		if !ok {
			return nil
		}
		return &LatestRank{Month: months[i], Value: val, Percentile: pr, Band: analysis.Band(pr), Peers: len(dist)}
	}
	return nil
}

// Values builds focal-versus-median trajectories per lactation year. When
// daily is set the entity's dated samples are attached for the same years.
func (c *Context) Values(entity string, years []int, daily bool) (*ValueReport, error) {
	v, err := c.focalView(entity)
	if err != nil {
		return nil, err
	}
	ys, err := c.resolveYears(entity, years)
	if err != nil {
		return nil, err
	}
	rep := &ValueReport{
		Dataset: c.dataset.Name,
		Entity:  entity,
		KPI:     v.KPI,
		Unit:    kpi.Unit(v.KPI),
		Filter:  c.sel.Filter,
	}
	want := map[int]bool{}
	for _, y := range ys {
		want[y] = true
		rep.Trajectories = append(rep.Trajectories, analysis.BuildValueTrajectory(v.Index, entity, y))
	}
	if daily {
		for _, s := range analysis.DailyPoints(v.Rows, entity) {
			if want[s.StartYear] {
				rep.Daily = append(rep.Daily, s)
			}
		}
	}
	return rep, nil
}

// FarmDistribution pools every entity-month value inside the window. When
// entity is set its newest value in the window becomes the marker. A zero
// window means the trailing histogram months.
func (c *Context) FarmDistribution(entity string, w analysis.Window) (*DistributionReport, error) {
	var (
		v   *View
		err error
	)
	if entity != "" {
		v, err = c.focalView(entity)
	} else {
		v, err = c.View()
	}
	if err != nil {
		return nil, err
	}
	if w.Kind == "" {
		w = analysis.Window{Kind: analysis.WindowLastMonths, Months: c.histMonths}
	}
	months := w.SelectMonths(v.Index)
	values := analysis.PooledValues(v.Index, months)
	var ref *float64
	if entity != "" {
		if val, ok := analysis.LatestValue(v.Index, months, entity); ok {
			ref = &val
		}
	}
	rep := &DistributionReport{
		Dataset:      c.dataset.Name,
		Subject:      entity,
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

// markerBand classifies the marker in the KPI's better direction; the
// marker percentile itself stays raw.
func markerBand(values []float64, ref *float64, key string) string {
	if ref == nil {
		return ""
	}
	pr, ok := analysis.RankOriented(values, *ref, kpi.LowerIsBetter(key))
	if !ok {
		return ""
	}
	return analysis.Band(pr)
}

// Entities lists the entities with data for the current selection.
func (c *Context) Entities() ([]EntitySummary, error) {
	v, err := c.View()
	if err != nil {
		return nil, err
	}
	byEntity := map[string]*EntitySummary{}
	var order []string
	for _, cell := range v.Cells {
		s := byEntity[cell.Entity]
		if s == nil {
			s = &EntitySummary{Entity: cell.Entity, First: cell.YM(), Last: cell.YM()}
			byEntity[cell.Entity] = s
			order = append(order, cell.Entity)
		}
		s.Months++
		if cell.YM().Before(s.First) {
			s.First = cell.YM()
		}
		if s.Last.Before(cell.YM()) {
			s.Last = cell.YM()
		}
	}
	for _, r := range v.Rows {
		if s := byEntity[r.Entity]; s != nil {
			s.Samples++
		}
	}
	sort.Strings(order)
	out := make([]EntitySummary, len(order))
	for i, e := range order {
		out[i] = *byEntity[e]
	}
	return out, nil
}
